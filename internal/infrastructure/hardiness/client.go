package hardiness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/infrastructure/upstream"
)

// DefaultBaseURL is the public USDA zone-by-zip service.
const DefaultBaseURL = "https://phzmapi.org"

// Client looks up USDA hardiness zones by ZIP code.
type Client struct {
	baseURL string
	up      *upstream.Client
	logger  *slog.Logger
}

// NewClient returns a hardiness client that queries {baseURL}/{zip}.json.
func NewClient(baseURL string, up *upstream.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), up: up, logger: logger}
}

type zoneResponse struct {
	Zone             string `json:"zone"`
	TemperatureRange string `json:"temperature_range"`
	Coordinates      struct {
		Lat flexFloat `json:"lat"`
		Lon flexFloat `json:"lon"`
	} `json:"coordinates"`
}

// flexFloat accepts coordinates sent either as numbers or numeric strings.
type flexFloat struct{ v *float64 }

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	f.v = &v
	return nil
}

// LookupZone implements domain.ZoneLookup.
func (c *Client) LookupZone(ctx context.Context, zip string) (*domain.HardinessZone, error) {
	var body zoneResponse
	u := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(zip))
	if err := c.up.GetJSON(ctx, u, &body, false); err != nil {
		return nil, mapError(err)
	}
	if body.Zone == "" {
		return nil, domain.NotFound("hardiness zone not found")
	}
	return &domain.HardinessZone{
		ZipCode:          zip,
		Zone:             body.Zone,
		TemperatureRange: body.TemperatureRange,
		Latitude:         body.Coordinates.Lat.v,
		Longitude:        body.Coordinates.Lon.v,
	}, nil
}

// mapError turns an upstream failure into the API's error taxonomy: 404 stays
// 404, other 4xx pass through, everything else is a bad gateway.
func mapError(err error) error {
	var se *upstream.StatusError
	if errors.As(err, &se) {
		switch {
		case se.StatusCode == http.StatusNotFound:
			return &domain.Error{Kind: domain.KindNotFound, Message: "hardiness zone not found", Err: err}
		case se.StatusCode < 500:
			return &domain.Error{
				Kind:    domain.KindBadRequest,
				Message: "failed to fetch hardiness zone",
				Status:  se.StatusCode,
				Err:     err,
			}
		}
	}
	return domain.BadGateway("failed to fetch hardiness zone", err)
}

// ensure the JSON decoder sees flexFloat as an Unmarshaler
var _ json.Unmarshaler = (*flexFloat)(nil)
