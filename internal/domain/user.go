package domain

import (
	"context"
	"time"
)

// User represents an account holder
type User struct {
	ID           int64
	Username     string // Unique username
	Email        string // Unique email address
	PasswordHash string // Bcrypt hash (never returned in API)
	IsAdmin      bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// UserProfile holds per-user growing conditions. At most one per user.
type UserProfile struct {
	ID            int64
	UserID        int64
	HardinessZone *string
	ZipCode       *string
	City          *string
	State         *string
	HasIrrigation *bool
	SunlightHours *float64
	SoilPH        *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProfilePatch carries the mutable profile fields. Every profile column is
// nullable, so each field can be left alone, cleared or set.
type ProfilePatch struct {
	HardinessZone Nullable[string]
	ZipCode       Nullable[string]
	City          Nullable[string]
	State         Nullable[string]
	HasIrrigation Nullable[bool]
	SunlightHours Nullable[float64]
	SoilPH        Nullable[float64]
}

// Apply copies the set fields onto p.
func (pp ProfilePatch) Apply(p *UserProfile) {
	pp.HardinessZone.applyTo(&p.HardinessZone)
	pp.ZipCode.applyTo(&p.ZipCode)
	pp.City.applyTo(&p.City)
	pp.State.applyTo(&p.State)
	pp.HasIrrigation.applyTo(&p.HasIrrigation)
	pp.SunlightHours.applyTo(&p.SunlightHours)
	pp.SoilPH.applyTo(&p.SoilPH)
}

// UserRepository defines data access for users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	// ListInactive returns users that never logged in or last logged in before cutoff.
	ListInactive(ctx context.Context, cutoff time.Time) ([]*User, error)
}

// ProfileRepository defines data access for user profiles
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*UserProfile, error)
	Create(ctx context.Context, profile *UserProfile) error
	Update(ctx context.Context, profile *UserProfile) error
}
