package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/validation"
)

// TestUser is a development account created by the operator CLI.
type TestUser struct {
	Account validation.RegisterRequest
	Admin   bool
	Profile domain.ProfilePatch
}

// DefaultTestUsers are the gardener and admin development accounts.
var DefaultTestUsers = []TestUser{
	{
		Account: validation.RegisterRequest{Username: "gardener", Email: "gardener@example.com", Password: "GardenPassword123!"},
		Profile: domain.ProfilePatch{
			HardinessZone: domain.Some("7a"),
			ZipCode:       domain.Some("10001"),
			City:          domain.Some("New York"),
			State:         domain.Some("NY"),
		},
	},
	{
		Account: validation.RegisterRequest{Username: "admin", Email: "admin@example.com", Password: "AdminPassword123!"},
		Admin:   true,
		Profile: domain.ProfilePatch{
			HardinessZone: domain.Some("6b"),
			ZipCode:       domain.Some("20001"),
			City:          domain.Some("Washington"),
			State:         domain.Some("DC"),
		},
	},
}

// SeedTestUsers creates the accounts that do not exist yet, each with its
// profile. Existing usernames are left untouched.
func SeedTestUsers(ctx context.Context, authSvc *AuthService, store domain.Store, users []TestUser, logger *slog.Logger) ([]*domain.User, error) {
	if logger == nil {
		logger = slog.Default()
	}

	created := []*domain.User{}
	for _, tu := range users {
		_, err := store.Users().GetByUsername(ctx, tu.Account.Username)
		if err == nil {
			logger.Info("test user exists, skipping", slog.String("username", tu.Account.Username))
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return created, err
		}

		var u *domain.User
		if tu.Admin {
			u, err = authSvc.CreateAdmin(ctx, tu.Account)
		} else {
			u, err = authSvc.Register(ctx, tu.Account)
		}
		if err != nil {
			return created, err
		}

		p := &domain.UserProfile{UserID: u.ID}
		tu.Profile.Apply(p)
		if err := store.Profiles().Create(ctx, p); err != nil {
			return created, err
		}
		created = append(created, u)
	}
	return created, nil
}
