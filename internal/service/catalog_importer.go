package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/featureflags"
	"github.com/scottkoskoski/gardening-app/internal/observability/metrics"
)

// DefaultCatalogNames is the search list used when no names are given.
var DefaultCatalogNames = []string{
	// vegetables
	"Tomato", "Carrot", "Lettuce", "Cucumber", "Bell Pepper", "Zucchini", "Spinach",
	"Kale", "Broccoli", "Cauliflower", "Cabbage", "Radish", "Turnip", "Beet", "Celery",
	"Brussels Sprouts", "Sweet Corn", "Pumpkin", "Squash", "Butternut Squash", "Acorn Squash",
	"Spaghetti Squash", "Green Beans", "Peas", "Eggplant", "Okra", "Swiss Chard",
	"Collard Greens", "Leek", "Scallions", "Onion", "Garlic", "Shallot", "Fennel", "Artichoke",
	"Asparagus", "Rutabaga", "Parsnip", "Bok Choy", "Mustard Greens",
	// fruits
	"Strawberry", "Raspberry", "Blueberry", "Blackberry", "Gooseberry", "Elderberry",
	"Grape", "Apple", "Pear", "Peach", "Plum", "Cherry", "Fig", "Pomegranate", "Pawpaw",
	"Kiwi", "Mulberry", "Persimmon", "Quince", "Apricot", "Nectarine", "Melon", "Cantaloupe",
	"Watermelon", "Honeydew", "Banana", "Lemon", "Lime", "Orange", "Grapefruit", "Avocado",
	"Olive",
	// herbs
	"Basil", "Cilantro", "Parsley", "Dill", "Thyme", "Oregano", "Rosemary", "Sage",
	"Mint", "Chives", "Tarragon", "Lavender", "Chamomile", "Lemongrass",
	"Marjoram", "Bay Laurel", "Stevia",
	// flowers
	"Sunflower", "Marigold", "Zinnia", "Petunia", "Daisy", "Cosmos", "Snapdragon",
	"Pansy", "Begonia", "Impatiens", "Salvia", "Alyssum", "Viola", "Columbine",
	"Lupine", "Hollyhock", "Echinacea", "Rudbeckia", "Coreopsis",
	"Phlox", "Delphinium", "Foxglove", "Lantana", "Verbena", "Dianthus",
	"Sweet Pea", "Nasturtium", "Morning Glory", "Chrysanthemum", "Dahlia",
	"Peony", "Hydrangea", "Lilac", "Rose", "Tulip", "Daffodil", "Crocus",
	"Hyacinth", "Iris", "Hosta", "Daylily", "Astilbe", "Hibiscus",
	// less common edibles
	"Rhubarb", "Horseradish", "Sunchoke", "Jicama", "Tamarillo", "Loquat",
	"Dragon Fruit", "Passionfruit", "Curry Leaf", "Fenugreek", "Epazote",
	"Wasabi", "Cardoon", "Chayote", "Sea Buckthorn", "Pineberry", "Tomatillo",
}

const (
	maxPlantNameLen = 100
	maxImageURLLen  = 255
	maxShortTextLen = 50
	maxSciNameLen   = 200
)

var (
	disallowedNameChars = regexp.MustCompile(`[^A-Za-z0-9 '\-]+`)
	repeatedSpaces      = regexp.MustCompile(`\s{2,}`)

	errDryRun = errors.New("dry run")
)

// ImportOptions selects what the importer searches for.
type ImportOptions struct {
	Names   []string
	Letters bool // search A..Z instead of Names
	DryRun  bool
}

// ImportReport counts what happened to every crop the catalog returned.
type ImportReport struct {
	Queries         int
	Fetched         int
	Added           int
	SkippedExisting int
	SkippedInvalid  int
	Errored         int
	Errors          []string
	DryRun          bool
	Committed       bool
}

func (r *ImportReport) String() string {
	return fmt.Sprintf("fetched=%d added=%d skipped_existing=%d skipped_invalid=%d errored=%d",
		r.Fetched, r.Added, r.SkippedExisting, r.SkippedInvalid, r.Errored)
}

// CatalogImporter copies crops from the external catalog into the plants
// table. All inserts of a run share one transaction.
type CatalogImporter struct {
	store   domain.Store
	catalog domain.PlantCatalog
	flags   *featureflags.Set
	logger  *slog.Logger
}

func NewCatalogImporter(store domain.Store, catalog domain.PlantCatalog, flags *featureflags.Set, logger *slog.Logger) *CatalogImporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogImporter{store: store, catalog: catalog, flags: flags, logger: logger}
}

// Run fetches every query, then inserts the new plants and commits once.
// Fetch failures are counted and reported; a failed insert or commit rolls the
// whole run back and is returned along with the report.
func (imp *CatalogImporter) Run(ctx context.Context, opts ImportOptions) (*ImportReport, error) {
	queries := catalogQueries(opts)
	report := &ImportReport{
		Queries: len(queries),
		DryRun:  opts.DryRun || imp.flags.Enabled(featureflags.CatalogDryRun),
	}

	var crops []domain.CatalogCrop
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		found, err := imp.catalog.SearchCrops(ctx, q)
		if err != nil {
			report.Errored++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", q, err))
			imp.logger.Warn("catalog fetch failed", slog.String("query", q), slog.String("error", err.Error()))
			continue
		}
		if len(found) == 0 {
			imp.logger.Info("no catalog data", slog.String("query", q))
		}
		report.Fetched += len(found)
		crops = append(crops, found...)
	}

	// counts are rebuilt inside the transaction so a rolled-back attempt
	// cannot leave stale numbers behind
	var added, existing, invalid int
	err := imp.store.InTx(ctx, func(tx domain.Store) error {
		added, existing, invalid = 0, 0, 0
		seen := map[string]bool{}
		for _, crop := range crops {
			p, ok := plantFromCrop(crop)
			if !ok {
				invalid++
				imp.logger.Debug("skipping invalid crop", slog.String("name", crop.Name))
				continue
			}
			if seen[p.Name] {
				existing++
				continue
			}
			seen[p.Name] = true

			_, err := tx.Plants().GetByName(ctx, p.Name)
			if err == nil {
				existing++
				continue
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			if err := tx.Plants().Create(ctx, p); err != nil {
				return fmt.Errorf("failed to add %q: %w", p.Name, err)
			}
			added++
		}
		if report.DryRun {
			return errDryRun
		}
		return nil
	})
	report.Added, report.SkippedExisting, report.SkippedInvalid = added, existing, invalid

	switch {
	case errors.Is(err, errDryRun):
		err = nil
	case err != nil:
		report.Added = 0
		metrics.ObserveCatalogImport("errored", report.Errored)
		imp.logger.Error("catalog import rolled back", slog.String("error", err.Error()))
		return report, fmt.Errorf("catalog import rolled back: %w", err)
	default:
		report.Committed = true
	}

	if report.Committed {
		metrics.ObserveCatalogImport("added", report.Added)
	}
	metrics.ObserveCatalogImport("skipped_existing", report.SkippedExisting)
	metrics.ObserveCatalogImport("skipped_invalid", report.SkippedInvalid)
	metrics.ObserveCatalogImport("errored", report.Errored)

	imp.logger.Info("catalog import finished",
		slog.Int("fetched", report.Fetched),
		slog.Int("added", report.Added),
		slog.Int("skipped_existing", report.SkippedExisting),
		slog.Int("skipped_invalid", report.SkippedInvalid),
		slog.Int("errored", report.Errored),
		slog.Bool("dry_run", report.DryRun),
	)
	return report, nil
}

// catalogQueries returns the de-duplicated search terms in order.
func catalogQueries(opts ImportOptions) []string {
	var raw []string
	switch {
	case opts.Letters:
		for c := 'A'; c <= 'Z'; c++ {
			raw = append(raw, string(c))
		}
	case len(opts.Names) > 0:
		raw = opts.Names
	default:
		raw = DefaultCatalogNames
	}

	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, q := range raw {
		q = strings.TrimSpace(q)
		key := strings.ToLower(q)
		if q == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out
}

// SanitizePlantName strips characters outside the plant-name set and
// collapses whitespace. It returns "" when nothing usable remains.
func SanitizePlantName(name string) string {
	name = disallowedNameChars.ReplaceAllString(name, " ")
	name = repeatedSpaces.ReplaceAllString(name, " ")
	name = strings.Trim(name, " -'")
	name = strings.TrimSpace(truncateRunes(name, maxPlantNameLen))
	if !strings.ContainsAny(strings.ToLower(name), "abcdefghijklmnopqrstuvwxyz") {
		return ""
	}
	return name
}

func plantFromCrop(c domain.CatalogCrop) (*domain.Plant, bool) {
	name := SanitizePlantName(c.Name)
	if name == "" {
		return nil, false
	}
	p := &domain.Plant{
		Name:           name,
		ScientificName: optionalText(c.ScientificName, maxSciNameLen),
		SowingMethod:   optionalText(c.SowingMethod, maxShortTextLen),
		Spread:         CoerceFloat(c.Spread),
		RowSpacing:     CoerceFloat(c.RowSpacing),
		Height:         CoerceFloat(c.Height),
		Description:    optionalText(c.Description, 0),
		Sunlight:       MapSunlight(c.SunRequirements),
	}
	if url := strings.TrimSpace(c.ImageURL); url != "" && len(url) <= maxImageURLLen {
		p.ImageURL = &url
	}
	return p, true
}

// CoerceFloat accepts numbers and numeric strings. Anything else, including
// negative and non-finite values, becomes nil.
func CoerceFloat(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	return &f
}

// MapSunlight maps catalog phrasing ("Full Sun", "Part Shade") onto the
// Sunlight enum, or nil when unrecognized.
func MapSunlight(s string) *domain.Sunlight {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "-", " ")
	if strings.HasPrefix(s, "part ") {
		s = "partial " + strings.TrimPrefix(s, "part ")
	}
	if s == "shade" {
		s = "full shade"
	}
	if m, ok := domain.SunlightLevels.Parse(s); ok {
		return &m
	}
	return nil
}

func optionalText(s string, max int) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if max > 0 {
		s = strings.TrimSpace(truncateRunes(s, max))
	}
	return &s
}

// truncateRunes keeps at most n characters of s. Column widths count
// characters, and a cut inside a multi-byte sequence is invalid UTF-8.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
