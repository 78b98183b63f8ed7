package domain

import (
	"context"
	"time"
)

// Store groups the repositories. Repositories obtained inside InTx share one
// transaction; returning an error from fn rolls every write back.
type Store interface {
	Users() UserRepository
	Profiles() ProfileRepository
	GardenTypes() GardenTypeRepository
	Gardens() GardenRepository
	GardenPlants() GardenPlantRepository
	Plants() PlantRepository
	InTx(ctx context.Context, fn func(tx Store) error) error
}

// HardinessZone is the result of a postal-code zone lookup.
type HardinessZone struct {
	ZipCode          string
	Zone             string
	TemperatureRange string
	Latitude         *float64
	Longitude        *float64
}

// ZoneLookup resolves a postal code to a hardiness zone.
type ZoneLookup interface {
	LookupZone(ctx context.Context, zip string) (*HardinessZone, error)
}

// Location is a geocoding match.
type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// CurrentWeather holds current conditions for a location.
type CurrentWeather struct {
	Location      Location
	Time          string
	Temperature2m float64
	Precipitation float64
	WeatherCode   int
	Units         map[string]string
}

// WeatherProvider resolves a postal code to current conditions.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, zip string) (*CurrentWeather, error)
}

// CatalogCrop is one raw entry from the plant catalog. Numeric fields are left
// untyped so the importer can coerce them.
type CatalogCrop struct {
	Name            string
	ScientificName  string
	SunRequirements string
	SowingMethod    string
	Spread          any
	RowSpacing      any
	Height          any
	Description     string
	ImageURL        string
}

// PlantCatalog searches the third-party plant catalog.
type PlantCatalog interface {
	SearchCrops(ctx context.Context, filter string) ([]CatalogCrop, error)
}

// Clock is injected where tests need deterministic time.
type Clock func() time.Time
