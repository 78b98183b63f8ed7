package openfarm

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/infrastructure/upstream"
)

// DefaultBaseURL is the public OpenFarm site.
const DefaultBaseURL = "https://openfarm.cc"

// Client searches the OpenFarm crops API.
type Client struct {
	baseURL string
	up      *upstream.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, up *upstream.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), up: up, logger: logger}
}

type cropsResponse struct {
	Data []struct {
		Attributes struct {
			Name            string `json:"name"`
			ScientificName  string `json:"scientific_name"`
			SunRequirements string `json:"sun_requirements"`
			SowingMethod    string `json:"sowing_method"`
			Spread          any    `json:"spread"`
			RowSpacing      any    `json:"row_spacing"`
			Height          any    `json:"height"`
			Description     string `json:"description"`
			MainImagePath   string `json:"main_image_path"`
		} `json:"attributes"`
	} `json:"data"`
}

// SearchCrops implements domain.PlantCatalog. Numbers are kept as
// json.Number so the importer decides how to coerce them.
func (c *Client) SearchCrops(ctx context.Context, filter string) ([]domain.CatalogCrop, error) {
	u := fmt.Sprintf("%s/api/v1/crops/?filter=%s", c.baseURL, url.QueryEscape(filter))

	var body cropsResponse
	if err := c.up.GetJSON(ctx, u, &body, true); err != nil {
		return nil, fmt.Errorf("search crops %q: %w", filter, err)
	}

	crops := make([]domain.CatalogCrop, 0, len(body.Data))
	for _, d := range body.Data {
		a := d.Attributes
		crops = append(crops, domain.CatalogCrop{
			Name:            a.Name,
			ScientificName:  a.ScientificName,
			SunRequirements: a.SunRequirements,
			SowingMethod:    a.SowingMethod,
			Spread:          a.Spread,
			RowSpacing:      a.RowSpacing,
			Height:          a.Height,
			Description:     a.Description,
			ImageURL:        a.MainImagePath,
		})
	}
	c.logger.Debug("catalog search", slog.String("filter", filter), slog.Int("crops", len(crops)))
	return crops, nil
}
