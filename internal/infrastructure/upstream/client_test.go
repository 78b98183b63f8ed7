package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottkoskoski/gardening-app/internal/reliability/circuitbreaker"
)

func TestGetJSONDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"spread": 45}`))
	}))
	defer srv.Close()

	c := New("test", Options{}, nil)
	var out map[string]any
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out, true))
	assert.Equal(t, json.Number("45"), out["spread"])
}

func TestGetJSONStatusErrorsDoNotTripOn4xx(t *testing.T) {
	status := http.StatusNotFound
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("nope"))
	}))
	defer srv.Close()

	br := circuitbreaker.New("test", circuitbreaker.Settings{
		FailureThreshold: 2,
		IsFailure:        func(err error) bool { return err != nil && !IsClientError(err) },
	}, nil)
	c := New("test", Options{Breaker: br}, nil)

	for i := 0; i < 3; i++ {
		err := c.GetJSON(context.Background(), srv.URL, &struct{}{}, false)
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusNotFound, se.StatusCode)
		assert.Equal(t, "nope", se.Body)
	}
	assert.Equal(t, circuitbreaker.StateClosed, br.GetState())

	status = http.StatusServiceUnavailable
	_ = c.GetJSON(context.Background(), srv.URL, &struct{}{}, false)
	_ = c.GetJSON(context.Background(), srv.URL, &struct{}{}, false)
	assert.Equal(t, circuitbreaker.StateOpen, br.GetState())
	assert.ErrorIs(t, c.GetJSON(context.Background(), srv.URL, &struct{}{}, false), circuitbreaker.ErrOpen)
}

func TestGetJSONTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := New("slow", Options{Timeout: 20 * time.Millisecond}, nil)
	err := c.GetJSON(context.Background(), srv.URL, &struct{}{}, false)
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
	assert.Equal(t, "timeout", classify(err))
}
