package hardiness

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/infrastructure/redis"
	"github.com/scottkoskoski/gardening-app/internal/infrastructure/upstream"
)

func fakeZoneServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		switch r.URL.Path {
		case "/10001.json":
			_, _ = w.Write([]byte(`{"zone":"7b","temperature_range":"5 to 10","coordinates":{"lat":"40.7484","lon":-73.9967}}`))
		case "/00000.json":
			w.WriteHeader(http.StatusNotFound)
		case "/11111.json":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(srv.URL+"/", upstream.New("hardiness", upstream.Options{Timeout: time.Second}, nil), nil)
}

func TestLookupZone(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(fakeZoneServer(t, &calls))

	hz, err := c.LookupZone(context.Background(), "10001")
	require.NoError(t, err)
	assert.Equal(t, "7b", hz.Zone)
	assert.Equal(t, "5 to 10", hz.TemperatureRange)
	require.NotNil(t, hz.Latitude)
	assert.InDelta(t, 40.7484, *hz.Latitude, 1e-9)
	assert.InDelta(t, -73.9967, *hz.Longitude, 1e-9)
}

func TestLookupZoneErrorMapping(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(fakeZoneServer(t, &calls))
	ctx := context.Background()

	_, err := c.LookupZone(ctx, "00000")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.LookupZone(ctx, "11111")
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, http.StatusTooManyRequests, de.Status)

	_, err = c.LookupZone(ctx, "99999")
	assert.ErrorIs(t, err, domain.ErrBadGateway)
}

func TestCachedLookupWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := redis.NewClient(context.Background(), "redis://"+mr.Addr(), nil)
	require.NoError(t, err)
	defer rc.Close()

	var calls atomic.Int32
	cached := NewCachedLookup(newTestClient(fakeZoneServer(t, &calls)), rc, time.Hour, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		hz, err := cached.LookupZone(ctx, "10001")
		require.NoError(t, err)
		assert.Equal(t, "7b", hz.Zone)
	}
	assert.EqualValues(t, 1, calls.Load())
	assert.True(t, mr.Exists("hardiness:zone:10001"))

	mr.FastForward(2 * time.Hour)
	_, err = cached.LookupZone(ctx, "10001")
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestCachedLookupSkipsFailures(t *testing.T) {
	var calls atomic.Int32
	cached := NewCachedLookup(newTestClient(fakeZoneServer(t, &calls)), nil, 0, nil)
	ctx := context.Background()

	_, err := cached.LookupZone(ctx, "00000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = cached.LookupZone(ctx, "00000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.EqualValues(t, 2, calls.Load())

	_, err = cached.LookupZone(ctx, "10001")
	require.NoError(t, err)
	_, err = cached.LookupZone(ctx, "10001")
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestCachedLookupFallsThroughWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rc, err := redis.NewClient(context.Background(), "redis://"+mr.Addr(), nil)
	require.NoError(t, err)
	defer rc.Close()
	mr.Close()

	var calls atomic.Int32
	cached := NewCachedLookup(newTestClient(fakeZoneServer(t, &calls)), rc, time.Hour, nil)
	hz, err := cached.LookupZone(context.Background(), "10001")
	require.NoError(t, err)
	assert.Equal(t, "7b", hz.Zone)
}

func TestMemoryStorePrune(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, m.SetJSON(ctx, cacheKey("10001"), cachedZone{Zone: "7b"}, time.Hour))
	require.NoError(t, m.SetJSON(ctx, cacheKey("90210"), cachedZone{Zone: "10b"}, -time.Second))

	n, err := m.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var out cachedZone
	found, err := m.GetJSON(ctx, cacheKey("10001"), &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "7b", out.Zone)
}
