package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/validation"
)

// HardinessHandler proxies the zone-by-zip lookup.
type HardinessHandler struct {
	zones  domain.ZoneLookup
	logger *slog.Logger
}

func NewHardinessHandler(zones domain.ZoneLookup, logger *slog.Logger) *HardinessHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HardinessHandler{zones: zones, logger: logger}
}

// GetZone handles GET /hardiness/get_hardiness_zone?zip=
func (h *HardinessHandler) GetZone(w http.ResponseWriter, r *http.Request) {
	zip, err := zipParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	hz, err := h.zones.LookupZone(r.Context(), zip)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, HardinessView{
		ZipCode:          zip,
		Zone:             hz.Zone,
		TemperatureRange: hz.TemperatureRange,
		Coordinates:      Coordinates{Lat: hz.Latitude, Lon: hz.Longitude},
	})
}

// WeatherHandler proxies current conditions for a ZIP code.
type WeatherHandler struct {
	weather domain.WeatherProvider
	logger  *slog.Logger
}

func NewWeatherHandler(weather domain.WeatherProvider, logger *slog.Logger) *WeatherHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WeatherHandler{weather: weather, logger: logger}
}

// GetWeather handles GET /weather/get_weather?zip=
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	zip, err := zipParam(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	cw, err := h.weather.CurrentWeather(r.Context(), zip)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	units := cw.Units
	if units == nil {
		units = map[string]string{}
	}
	writeJSON(w, http.StatusOK, WeatherView{
		ZipCode: zip,
		Location: LocationView{
			Name:      cw.Location.Name,
			Latitude:  cw.Location.Latitude,
			Longitude: cw.Location.Longitude,
		},
		Current: CurrentView{
			Time:          cw.Time,
			Temperature2m: cw.Temperature2m,
			Precipitation: cw.Precipitation,
			WeatherCode:   cw.WeatherCode,
		},
		Units: units,
	})
}

func zipParam(r *http.Request) (string, error) {
	zip := strings.TrimSpace(r.URL.Query().Get("zip"))
	if zip == "" {
		return "", domain.BadRequest("Zip code is required.")
	}
	if !validation.ValidZip(zip) {
		return "", domain.BadRequest("Zip code must be 5 digits or ZIP+4.")
	}
	return zip, nil
}
