package weather

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/infrastructure/upstream"
)

const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"

	currentFields = "temperature_2m,precipitation,weathercode"
)

// Client resolves a ZIP code to coordinates and fetches current conditions.
type Client struct {
	geocodingURL string
	forecastURL  string
	geocoder     *upstream.Client
	forecaster   *upstream.Client
	logger       *slog.Logger
}

// NewClient builds a weather client. Empty URLs use the Open-Meteo defaults.
func NewClient(geocodingURL, forecastURL string, geocoder, forecaster *upstream.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if geocodingURL == "" {
		geocodingURL = DefaultGeocodingURL
	}
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}
	return &Client{
		geocodingURL: geocodingURL,
		forecastURL:  forecastURL,
		geocoder:     geocoder,
		forecaster:   forecaster,
		logger:       logger,
	}
}

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	Current struct {
		Time          string  `json:"time"`
		Temperature2m float64 `json:"temperature_2m"`
		Precipitation float64 `json:"precipitation"`
		WeatherCode   int     `json:"weathercode"`
	} `json:"current"`
	CurrentUnits map[string]string `json:"current_units"`
}

var errNoLocation = errors.New("no geocoding match")

// CurrentWeather implements domain.WeatherProvider. Any upstream failure,
// including an empty geocoding result, is a bad gateway.
func (c *Client) CurrentWeather(ctx context.Context, zip string) (*domain.CurrentWeather, error) {
	loc, err := c.geocode(ctx, zip)
	if err != nil {
		return nil, domain.BadGateway("failed to fetch location data", err)
	}

	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	q.Set("current", currentFields)

	var fc forecastResponse
	if err := c.forecaster.GetJSON(ctx, c.forecastURL+"?"+q.Encode(), &fc, false); err != nil {
		return nil, domain.BadGateway("failed to fetch weather data", err)
	}

	return &domain.CurrentWeather{
		Location:      *loc,
		Time:          fc.Current.Time,
		Temperature2m: fc.Current.Temperature2m,
		Precipitation: fc.Current.Precipitation,
		WeatherCode:   fc.Current.WeatherCode,
		Units:         fc.CurrentUnits,
	}, nil
}

func (c *Client) geocode(ctx context.Context, zip string) (*domain.Location, error) {
	q := url.Values{}
	q.Set("name", zip)
	q.Set("count", "1")

	var geo geocodeResponse
	if err := c.geocoder.GetJSON(ctx, c.geocodingURL+"?"+q.Encode(), &geo, false); err != nil {
		return nil, err
	}
	if len(geo.Results) == 0 {
		c.logger.Info("geocoding returned no match", slog.String("zip", zip))
		return nil, errNoLocation
	}
	r := geo.Results[0]
	return &domain.Location{Name: r.Name, Latitude: r.Latitude, Longitude: r.Longitude}, nil
}
