package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type zone struct {
	Zone string `json:"zone"`
}

func TestNewClientConnects(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewClient(context.Background(), "redis://"+mr.Addr(), nil)
	require.NoError(t, err)
	defer c.Close()

	assert.NoError(t, c.Ping(context.Background()))
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "not-a-url", nil)
	assert.ErrorContains(t, err, "invalid redis url")
}

func TestJSONRoundTripAndExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewClient(context.Background(), "redis://"+mr.Addr(), nil)
	require.NoError(t, err)
	defer c.Close()
	ctx := context.Background()

	var out zone
	found, err := c.GetJSON(ctx, "hardiness:zone:10001", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetJSON(ctx, "hardiness:zone:10001", zone{Zone: "7b"}, time.Minute))
	found, err = c.GetJSON(ctx, "hardiness:zone:10001", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "7b", out.Zone)

	mr.FastForward(2 * time.Minute)
	found, err = c.GetJSON(ctx, "hardiness:zone:10001", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetJSONReportsCorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("hardiness:zone:10001", "{not json"))
	c, err := NewClient(context.Background(), "redis://"+mr.Addr(), nil)
	require.NoError(t, err)
	defer c.Close()

	var out zone
	_, err = c.GetJSON(context.Background(), "hardiness:zone:10001", &out)
	assert.ErrorContains(t, err, "decode cached")
}
