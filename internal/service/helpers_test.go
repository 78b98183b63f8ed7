package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/repository/memory"
	"github.com/scottkoskoski/gardening-app/internal/security"
	"github.com/scottkoskoski/gardening-app/internal/validation"
)

type fixture struct {
	store     *memory.Store
	validator *validation.Validator
	authz     *security.Authorizer
	alice     *domain.User
	bob       *domain.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		store:     memory.NewStore(),
		validator: validation.New(fixedClock),
		authz:     security.NewAuthorizer(nil),
	}
	_, err := NewGardenTypeService(f.store, nil).Seed(ctx)
	require.NoError(t, err)

	f.alice = &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, f.store.Users().Create(ctx, f.alice))
	f.bob = &domain.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	require.NoError(t, f.store.Users().Create(ctx, f.bob))
	return f
}

func (f *fixture) gardens() *GardenService {
	return NewGardenService(f.store, f.authz, f.validator, nil)
}

func (f *fixture) gardenPlants() *GardenPlantService {
	return NewGardenPlantService(f.store, f.authz, f.validator, nil).WithClock(fixedClock)
}

func (f *fixture) addPlant(t *testing.T, p *domain.Plant) *domain.Plant {
	t.Helper()
	require.NoError(t, f.store.Plants().Create(context.Background(), p))
	return p
}

func (f *fixture) garden(t *testing.T, owner *domain.User, name string) *domain.UserGarden {
	t.Helper()
	g, err := f.gardens().Create(context.Background(), owner.ID, validation.GardenRequest{GardenName: name, GardenType: "Raised Bed"})
	require.NoError(t, err)
	return g
}

func ptr[T any](v T) *T { return &v }
