package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/featureflags"
	"github.com/scottkoskoski/gardening-app/internal/repository/memory"
)

type fakeCatalog struct {
	crops   map[string][]domain.CatalogCrop
	fail    map[string]error
	queries []string
}

func (f *fakeCatalog) SearchCrops(_ context.Context, filter string) ([]domain.CatalogCrop, error) {
	f.queries = append(f.queries, filter)
	if err := f.fail[filter]; err != nil {
		return nil, err
	}
	return f.crops[filter], nil
}

func TestCatalogImportCounts(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Plants().Create(ctx, &domain.Plant{Name: "Kale"}))

	catalog := &fakeCatalog{
		crops: map[string][]domain.CatalogCrop{
			"Tomato": {
				{Name: "Tomato", ScientificName: "Solanum lycopersicum", SunRequirements: "Full Sun", Spread: json.Number("45"), RowSpacing: "60", Height: "tall"},
				{Name: "Cherry Tomato (Sweet 100)", SunRequirements: "Part Shade", Spread: 30.0},
				{Name: "Tomato"},
			},
			"Kale": {{Name: "Kale"}},
			"Weird": {{Name: "!!!"}, {Name: "  "}},
		},
		fail: map[string]error{"Basil": errors.New("status 503")},
	}
	imp := NewCatalogImporter(store, catalog, featureflags.New(nil), nil)

	report, err := imp.Run(ctx, ImportOptions{Names: []string{"Tomato", "Kale", "Weird", "Basil", "tomato"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Tomato", "Kale", "Weird", "Basil"}, catalog.queries)
	assert.Equal(t, 6, report.Fetched)
	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 2, report.SkippedExisting)
	assert.Equal(t, 2, report.SkippedInvalid)
	assert.Equal(t, 1, report.Errored)
	assert.Len(t, report.Errors, 1)
	assert.True(t, report.Committed)

	tomato, err := store.Plants().GetByName(ctx, "Tomato")
	require.NoError(t, err)
	assert.Equal(t, 45.0, *tomato.Spread)
	assert.Equal(t, 60.0, *tomato.RowSpacing)
	assert.Nil(t, tomato.Height)
	assert.Equal(t, domain.SunFull, *tomato.Sunlight)

	cherry, err := store.Plants().GetByName(ctx, "Cherry Tomato Sweet 100")
	require.NoError(t, err)
	assert.Equal(t, domain.SunPartialShade, *cherry.Sunlight)
}

func TestCatalogImportDryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	catalog := &fakeCatalog{crops: map[string][]domain.CatalogCrop{"Mint": {{Name: "Mint"}}}}

	report, err := NewCatalogImporter(store, catalog, nil, nil).Run(ctx, ImportOptions{Names: []string{"Mint"}, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.False(t, report.Committed)

	plants, err := store.Plants().List(ctx, domain.PlantFilter{})
	require.NoError(t, err)
	assert.Empty(t, plants)
}

func TestCatalogImportFailedCommitRollsBack(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.FailNextCommit(errors.New("connection reset"))
	catalog := &fakeCatalog{crops: map[string][]domain.CatalogCrop{"Mint": {{Name: "Mint"}, {Name: "Sage"}}}}

	report, err := NewCatalogImporter(store, catalog, nil, nil).Run(ctx, ImportOptions{Names: []string{"Mint"}})
	require.Error(t, err)
	assert.Zero(t, report.Added)
	assert.False(t, report.Committed)

	plants, err := store.Plants().List(ctx, domain.PlantFilter{})
	require.NoError(t, err)
	assert.Empty(t, plants)
}

func TestCatalogLetterQueries(t *testing.T) {
	q := catalogQueries(ImportOptions{Letters: true, Names: []string{"ignored"}})
	require.Len(t, q, 26)
	assert.Equal(t, "A", q[0])
	assert.Equal(t, "Z", q[25])

	assert.Len(t, catalogQueries(ImportOptions{}), len(DefaultCatalogNames))
}

func TestSanitizeAndCoerce(t *testing.T) {
	assert.Equal(t, "Black-eyed Susan's Pea", SanitizePlantName("Black-eyed Susan's Pea"))
	assert.Equal(t, "Pepper Hot", SanitizePlantName(" Pepper (Hot)! "))
	assert.Equal(t, "", SanitizePlantName("123 ---"))

	assert.Nil(t, CoerceFloat(nil))
	assert.Nil(t, CoerceFloat("12cm"))
	assert.Nil(t, CoerceFloat(-3.0))
	assert.Equal(t, 12.5, *CoerceFloat(" 12.5 "))
	assert.Equal(t, 7.0, *CoerceFloat(7))

	assert.Equal(t, domain.SunPartial, *MapSunlight("part sun"))
	assert.Equal(t, domain.SunFullShade, *MapSunlight("Shade"))
	assert.Nil(t, MapSunlight("moonlight"))
}

func TestPlantFromCropTruncatesOnCharacterBoundaries(t *testing.T) {
	sowing := strings.Repeat("a", 49) + "°C and more text"
	sci := strings.Repeat("é", 250)

	p, ok := plantFromCrop(domain.CatalogCrop{Name: "Tomato", SowingMethod: sowing, ScientificName: sci})
	require.True(t, ok)

	require.NotNil(t, p.SowingMethod)
	assert.True(t, utf8.ValidString(*p.SowingMethod))
	assert.Equal(t, strings.Repeat("a", 49)+"°", *p.SowingMethod)

	require.NotNil(t, p.ScientificName)
	assert.True(t, utf8.ValidString(*p.ScientificName))
	assert.Equal(t, maxSciNameLen, utf8.RuneCountInString(*p.ScientificName))
}
