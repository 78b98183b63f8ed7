package security

import (
	"context"
	"errors"
	"log/slog"

	"github.com/scottkoskoski/gardening-app/internal/domain"
)

// Messages returned for ownership failures. A resource owned by someone else
// is indistinguishable from one that does not exist.
const (
	gardenNotFound      = "garden not found"
	gardenPlantNotFound = "garden plant not found"
)

// Authorizer enforces owner-scoped access to gardens and garden plants.
type Authorizer struct {
	logger *slog.Logger
}

// NewAuthorizer creates a new ownership authorizer
func NewAuthorizer(logger *slog.Logger) *Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{
		logger: logger,
	}
}

// AssertOwnsGarden loads the garden through store and fails with NotFound
// unless it exists and belongs to userID. Pass the transaction-scoped store
// when the check guards a write.
func (a *Authorizer) AssertOwnsGarden(ctx context.Context, store domain.Store, userID, gardenID int64) (*domain.UserGarden, error) {
	g, err := store.Gardens().GetByID(ctx, gardenID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(gardenNotFound)
		}
		return nil, err
	}
	if g.UserID != userID {
		a.logger.Warn("garden access denied",
			slog.Int64("user_id", userID),
			slog.Int64("garden_id", gardenID),
		)
		return nil, domain.NotFound(gardenNotFound)
	}
	return g, nil
}

// AssertOwnsGardenPlant resolves ownership through the plant's garden. Every
// failure is NotFound, matching the garden policy.
func (a *Authorizer) AssertOwnsGardenPlant(ctx context.Context, store domain.Store, userID, gardenPlantID int64) (*domain.UserGardenPlant, error) {
	gp, err := store.GardenPlants().GetByID(ctx, gardenPlantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound(gardenPlantNotFound)
		}
		return nil, err
	}
	if _, err := a.AssertOwnsGarden(ctx, store, userID, gp.GardenID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.logger.Warn("garden plant access denied",
				slog.Int64("user_id", userID),
				slog.Int64("garden_plant_id", gardenPlantID),
			)
			return nil, domain.NotFound(gardenPlantNotFound)
		}
		return nil, err
	}
	return gp, nil
}
