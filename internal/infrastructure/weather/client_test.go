package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/infrastructure/upstream"
)

func newFakeClient(t *testing.T, forecastStatus int) *Client {
	t.Helper()
	geo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("count"))
		if r.URL.Query().Get("name") == "00000" {
			_, _ = w.Write([]byte(`{"generationtime_ms":0.5}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"name":"New York","latitude":40.71,"longitude":-74.01}]}`))
	}))
	fc := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if forecastStatus != http.StatusOK {
			w.WriteHeader(forecastStatus)
			return
		}
		assert.Equal(t, "40.71", r.URL.Query().Get("latitude"))
		assert.Equal(t, "-74.01", r.URL.Query().Get("longitude"))
		assert.Equal(t, currentFields, r.URL.Query().Get("current"))
		_, _ = w.Write([]byte(`{"current":{"time":"2025-03-01T12:00","temperature_2m":8.4,"precipitation":0.2,"weathercode":61},
			"current_units":{"temperature_2m":"°C","precipitation":"mm"}}`))
	}))
	t.Cleanup(geo.Close)
	t.Cleanup(fc.Close)
	return NewClient(geo.URL, fc.URL,
		upstream.New("geocoding", upstream.Options{}, nil),
		upstream.New("forecast", upstream.Options{}, nil),
		nil)
}

func TestCurrentWeather(t *testing.T) {
	c := newFakeClient(t, http.StatusOK)

	w, err := c.CurrentWeather(context.Background(), "10001")
	require.NoError(t, err)
	assert.Equal(t, "New York", w.Location.Name)
	assert.Equal(t, "2025-03-01T12:00", w.Time)
	assert.InDelta(t, 8.4, w.Temperature2m, 1e-9)
	assert.InDelta(t, 0.2, w.Precipitation, 1e-9)
	assert.Equal(t, 61, w.WeatherCode)
	assert.Equal(t, "mm", w.Units["precipitation"])
}

func TestCurrentWeatherFailuresAreBadGateway(t *testing.T) {
	_, err := newFakeClient(t, http.StatusOK).CurrentWeather(context.Background(), "00000")
	assert.ErrorIs(t, err, domain.ErrBadGateway)
	assert.ErrorIs(t, err, errNoLocation)

	_, err = newFakeClient(t, http.StatusBadRequest).CurrentWeather(context.Background(), "10001")
	assert.ErrorIs(t, err, domain.ErrBadGateway)
}
