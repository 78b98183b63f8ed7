package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/featureflags"
	"github.com/scottkoskoski/gardening-app/internal/validation"
)

// ProfileService reads and upserts user profiles, enriching the hardiness zone
// from the postal code.
type ProfileService struct {
	store     domain.Store
	zones     domain.ZoneLookup
	validator *validation.Validator
	flags     *featureflags.Set
	logger    *slog.Logger
	now       domain.Clock
}

func NewProfileService(
	store domain.Store,
	zones domain.ZoneLookup,
	validator *validation.Validator,
	flags *featureflags.Set,
	logger *slog.Logger,
) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{
		store:     store,
		zones:     zones,
		validator: validator,
		flags:     flags,
		logger:    logger,
		now:       time.Now,
	}
}

// Get returns the user's profile. A user without one gets an empty,
// unsaved profile.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}
	p, err := s.store.Profiles().GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.UserProfile{UserID: userID}, nil
	}
	return p, err
}

// Upsert applies a partial update, creating the profile on first use. When
// the postal code changes and no zone is supplied, the zone is looked up.
// Clearing the postal code leaves the zone as it was.
func (s *ProfileService) Upsert(ctx context.Context, userID int64, req validation.ProfileRequest) (*domain.UserProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	patch := req.Patch()

	if zip := patch.ZipCode.Value; zip != nil && !patch.HardinessZone.Set {
		current, err := s.store.Profiles().GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if current == nil || current.ZipCode == nil || *current.ZipCode != *zip {
			zone, err := s.enrich(ctx, userID, *zip)
			if err != nil {
				return nil, err
			}
			if zone != nil {
				patch.HardinessZone = domain.Some(*zone)
			}
		}
	}

	var out *domain.UserProfile
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		p, err := tx.Profiles().GetByUserID(ctx, userID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			p = &domain.UserProfile{UserID: userID}
			patch.Apply(p)
			if err := tx.Profiles().Create(ctx, p); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			patch.Apply(p)
			p.UpdatedAt = s.now().UTC()
			if err := tx.Profiles().Update(ctx, p); err != nil {
				return err
			}
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", slog.Int64("user_id", userID))
	return out, nil
}

// enrich returns the zone for zip, or nil when the lookup fails in lenient mode.
func (s *ProfileService) enrich(ctx context.Context, userID int64, zip string) (*string, error) {
	if s.zones == nil {
		return nil, nil
	}
	hz, err := s.zones.LookupZone(ctx, zip)
	if err != nil {
		if s.flags.Enabled(featureflags.StrictZoneEnrichment) {
			return nil, err
		}
		s.logger.Warn("hardiness zone enrichment failed",
			slog.Int64("user_id", userID),
			slog.String("zip", zip),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}
	zone := hz.Zone
	return &zone, nil
}
