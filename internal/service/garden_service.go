package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/scottkoskoski/gardening-app/internal/domain"
	"github.com/scottkoskoski/gardening-app/internal/security"
	"github.com/scottkoskoski/gardening-app/internal/validation"
)

// GardenService manages the caller's gardens. Every read and write is
// owner-scoped through the authorizer.
type GardenService struct {
	store     domain.Store
	authz     *security.Authorizer
	validator *validation.Validator
	logger    *slog.Logger
	now       domain.Clock
}

func NewGardenService(
	store domain.Store,
	authz *security.Authorizer,
	validator *validation.Validator,
	logger *slog.Logger,
) *GardenService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GardenService{
		store:     store,
		authz:     authz,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// Create resolves the garden type, copies the profile's zone when none was
// given and inserts the garden, all in one transaction.
func (s *GardenService) Create(ctx context.Context, userID int64, req validation.GardenRequest) (*domain.UserGarden, error) {
	if err := s.validator.StructRequired(req); err != nil {
		return nil, err
	}

	g := req.Garden()
	g.UserID = userID

	err := s.store.InTx(ctx, func(tx domain.Store) error {
		gt, err := resolveGardenType(ctx, tx, req.GardenType)
		if err != nil {
			return err
		}
		g.GardenTypeID = gt.ID

		if g.HardinessZone == nil {
			profile, err := tx.Profiles().GetByUserID(ctx, userID)
			switch {
			case err == nil:
				g.HardinessZone = profile.HardinessZone
			case !errors.Is(err, domain.ErrNotFound):
				return err
			}
		}

		if err := tx.Gardens().Create(ctx, g); err != nil {
			return err
		}
		g.GardenType = gt.Name
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("garden created",
		slog.Int64("user_id", userID),
		slog.Int64("garden_id", g.ID),
		slog.String("garden_type", string(g.GardenType)),
	)
	return g, nil
}

func (s *GardenService) List(ctx context.Context, userID int64) ([]*domain.UserGarden, error) {
	return s.store.Gardens().ListByOwner(ctx, userID)
}

func (s *GardenService) Get(ctx context.Context, userID, gardenID int64) (*domain.UserGarden, error) {
	return s.authz.AssertOwnsGarden(ctx, s.store, userID, gardenID)
}

// Update applies the allow-listed fields of req to an owned garden.
func (s *GardenService) Update(ctx context.Context, userID, gardenID int64, req validation.GardenUpdateRequest) (*domain.UserGarden, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	var out *domain.UserGarden
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		g, err := s.authz.AssertOwnsGarden(ctx, tx, userID, gardenID)
		if err != nil {
			return err
		}

		var typeID *int64
		if req.GardenType != nil {
			gt, err := resolveGardenType(ctx, tx, *req.GardenType)
			if err != nil {
				return err
			}
			typeID = &gt.ID
		}

		req.Patch(typeID).Apply(g)
		g.UpdatedAt = s.now().UTC()
		if err := tx.Gardens().Update(ctx, g); err != nil {
			return err
		}
		out, err = tx.Gardens().GetByID(ctx, gardenID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("garden updated", slog.Int64("user_id", userID), slog.Int64("garden_id", gardenID))
	return out, nil
}

// Delete removes an owned garden together with its garden plants.
func (s *GardenService) Delete(ctx context.Context, userID, gardenID int64) error {
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		if _, err := s.authz.AssertOwnsGarden(ctx, tx, userID, gardenID); err != nil {
			return err
		}
		if err := tx.GardenPlants().DeleteByGarden(ctx, gardenID); err != nil {
			return err
		}
		return tx.Gardens().Delete(ctx, gardenID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("garden deleted", slog.Int64("user_id", userID), slog.Int64("garden_id", gardenID))
	return nil
}

// resolveGardenType maps a wire or symbolic name to the stored row. Unknown
// names are a bad request, not a validation failure.
func resolveGardenType(ctx context.Context, store domain.Store, name string) (*domain.GardenType, error) {
	member, ok := domain.GardenTypeNames.Parse(name)
	if !ok {
		return nil, domain.BadRequest("Invalid garden type")
	}
	gt, err := store.GardenTypes().GetByName(ctx, member)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.BadRequest("Invalid garden type")
	}
	return gt, err
}
