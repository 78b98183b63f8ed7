package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/validation"
)

func TestListPlantsFiltersAreConjunctive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.addPlant(t, &domain.Plant{Name: "Tomato", HardinessMin: ptr("3"), HardinessMax: ptr("10"), SuitableForContainers: true})
	f.addPlant(t, &domain.Plant{Name: "OrchidX", HardinessMin: ptr("5"), HardinessMax: ptr("9"), RequiresGreenhouse: true, SuitableForContainers: true})
	f.addPlant(t, &domain.Plant{Name: "Pumpkin", HardinessMin: ptr("4"), HardinessMax: ptr("9")})
	svc := NewPlantService(f.store, f.validator, nil)

	got, err := svc.List(ctx, domain.PlantFilter{Zone: "5", RequiresGreenhouse: true, ContainerSuitable: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "OrchidX", got[0].Name)

	got, err = svc.List(ctx, domain.PlantFilter{Zone: " 5 "})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Zone membership is a text comparison, so "5" falls outside "3".."10".
	for _, p := range got {
		assert.NotEqual(t, "Tomato", p.Name)
	}

	got, err = svc.List(ctx, domain.PlantFilter{NameContains: "orch"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = svc.List(ctx, domain.PlantFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestCreatePlant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewPlantService(f.store, f.validator, nil)

	p, err := svc.Create(ctx, validation.PlantRequest{Name: "Sweet Basil", Sunlight: ptr("Full Sun")})
	require.NoError(t, err)
	assert.Positive(t, p.ID)

	got, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SunFull, *got.Sunlight)

	_, err = svc.Create(ctx, validation.PlantRequest{Name: "Sweet Basil"})
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.KindConflict, de.Kind)
	assert.Contains(t, de.Details, "name")

	tomato, err := svc.Create(ctx, validation.PlantRequest{Name: "Tomato", HardinessMin: ptr("3"), HardinessMax: ptr("10")})
	require.NoError(t, err)
	assert.Equal(t, "10", *tomato.HardinessMax)

	_, err = svc.Create(ctx, validation.PlantRequest{Name: "Squash", HardinessMin: ptr("2"), HardinessMax: ptr("11")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, validation.PlantRequest{Name: "Pepper", HardinessMin: ptr("9"), HardinessMax: ptr("4")})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.Get(ctx, 4242)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
