package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/repository/memory"
)

func TestSeedTestUsersIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	authSvc := newAuthService(store)

	created, err := SeedTestUsers(ctx, authSvc, store, DefaultTestUsers, nil)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.False(t, created[0].IsAdmin)
	assert.True(t, created[1].IsAdmin)

	profile, err := store.Profiles().GetByUserID(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "7a", *profile.HardinessZone)
	assert.Equal(t, "10001", *profile.ZipCode)

	again, err := SeedTestUsers(ctx, authSvc, store, DefaultTestUsers, nil)
	require.NoError(t, err)
	assert.Empty(t, again)

	res, err := authSvc.Authenticate(ctx, loginAs("admin", "AdminPassword123!"))
	require.NoError(t, err)
	assert.NoError(t, authSvc.RequireAdmin(ctx, res.UserID))
}

func TestSeedGardenTypesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewGardenTypeService(store, nil)

	added, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, added)

	added, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, added)

	types, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, types, 10)
	names := make([]domain.GardenTypeName, 0, len(types))
	for _, gt := range types {
		names = append(names, gt.Name)
	}
	assert.ElementsMatch(t, domain.GardenTypeNames.Members(), names)

	_, err = svc.Get(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
