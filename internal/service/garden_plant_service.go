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

// GardenPlantService links catalog plants to the caller's gardens.
type GardenPlantService struct {
	store     domain.Store
	authz     *security.Authorizer
	validator *validation.Validator
	logger    *slog.Logger
	now       domain.Clock
}

func NewGardenPlantService(
	store domain.Store,
	authz *security.Authorizer,
	validator *validation.Validator,
	logger *slog.Logger,
) *GardenPlantService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GardenPlantService{
		store:     store,
		authz:     authz,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock sets the planted-at time source.
func (s *GardenPlantService) WithClock(now domain.Clock) *GardenPlantService {
	s.now = now
	return s
}

// Add plants req.PlantID in an owned garden.
func (s *GardenPlantService) Add(ctx context.Context, userID int64, req validation.GardenPlantRequest) (*domain.UserGardenPlant, error) {
	if err := s.validator.StructRequired(req); err != nil {
		return nil, err
	}

	gp := req.GardenPlant(s.now().UTC())
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		if _, err := s.authz.AssertOwnsGarden(ctx, tx, userID, req.GardenID); err != nil {
			return err
		}
		if _, err := tx.Plants().GetByID(ctx, req.PlantID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NotFound("plant not found")
			}
			return err
		}
		return tx.GardenPlants().Create(ctx, gp)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("plant added to garden",
		slog.Int64("user_id", userID),
		slog.Int64("garden_id", gp.GardenID),
		slog.Int64("plant_id", gp.PlantID),
	)
	return gp, nil
}

func (s *GardenPlantService) ListForGarden(ctx context.Context, userID, gardenID int64) ([]*domain.UserGardenPlant, error) {
	if _, err := s.authz.AssertOwnsGarden(ctx, s.store, userID, gardenID); err != nil {
		return nil, err
	}
	return s.store.GardenPlants().ListByGarden(ctx, gardenID)
}

// Update changes the growth stage or expected harvest date of an owned link.
func (s *GardenPlantService) Update(ctx context.Context, userID, id int64, req validation.GardenPlantUpdateRequest) (*domain.UserGardenPlant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	var out *domain.UserGardenPlant
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		gp, err := s.authz.AssertOwnsGardenPlant(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		req.Patch().Apply(gp)
		if err := tx.GardenPlants().Update(ctx, gp); err != nil {
			return err
		}
		out = gp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GardenPlantService) Remove(ctx context.Context, userID, id int64) error {
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		if _, err := s.authz.AssertOwnsGardenPlant(ctx, tx, userID, id); err != nil {
			return err
		}
		return tx.GardenPlants().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("plant removed from garden", slog.Int64("user_id", userID), slog.Int64("garden_plant_id", id))
	return nil
}
