package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/scottkoskoski/gardening-app/internal/domain"
)

// DefaultGardenTypes is the seeded set, one per GardenTypeName.
var DefaultGardenTypes = []domain.GardenType{
	{Name: domain.GardenRaisedBed, Description: "A garden bed elevated above the ground", IdealSoilType: "Loamy", SpaceRequirements: "Medium", MaintenanceLevel: "Medium"},
	{Name: domain.GardenContainer, Description: "Plants grown in pots or containers", IdealSoilType: "Potting mix", SpaceRequirements: "Small", MaintenanceLevel: "Low"},
	{Name: domain.GardenTraditionalRow, Description: "Plants grown in rows directly in soil", IdealSoilType: "Sandy loam", SpaceRequirements: "Large", MaintenanceLevel: "High"},
	{Name: domain.GardenVertical, Description: "Gardening using vertical space with trellises or stacked planters", IdealSoilType: "Varies", SpaceRequirements: "Small", MaintenanceLevel: "Medium"},
	{Name: domain.GardenGreenhouse, Description: "Indoor controlled environment for year-round growing", IdealSoilType: "Custom blends", SpaceRequirements: "Varies", MaintenanceLevel: "High"},
	{Name: domain.GardenHydroponic, Description: "Soilless gardening using water and nutrients", IdealSoilType: "None", SpaceRequirements: "Small to Medium", MaintenanceLevel: "High"},
	{Name: domain.GardenPermaculture, Description: "A self-sustaining, biodiverse garden system", IdealSoilType: "Rich organic", SpaceRequirements: "Large", MaintenanceLevel: "High"},
	{Name: domain.GardenCommunity, Description: "A shared gardening space", IdealSoilType: "Varies", SpaceRequirements: "Large", MaintenanceLevel: "Medium"},
	{Name: domain.GardenWildlife, Description: "Designed to attract and support wildlife", IdealSoilType: "Native soil", SpaceRequirements: "Medium to Large", MaintenanceLevel: "Low"},
	{Name: domain.GardenRooftop, Description: "Gardening on rooftops or terraces", IdealSoilType: "Lightweight soil mix", SpaceRequirements: "Small to Medium", MaintenanceLevel: "Medium"},
}

type GardenTypeService struct {
	store  domain.Store
	logger *slog.Logger
}

func NewGardenTypeService(store domain.Store, logger *slog.Logger) *GardenTypeService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GardenTypeService{store: store, logger: logger}
}

func (s *GardenTypeService) List(ctx context.Context) ([]*domain.GardenType, error) {
	return s.store.GardenTypes().List(ctx)
}

func (s *GardenTypeService) Get(ctx context.Context, id int64) (*domain.GardenType, error) {
	gt, err := s.store.GardenTypes().GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("garden type not found")
	}
	return gt, err
}

// Seed inserts the missing default garden types in one transaction and
// reports how many were added. Running it twice adds nothing.
func (s *GardenTypeService) Seed(ctx context.Context) (int, error) {
	added := 0
	err := s.store.InTx(ctx, func(tx domain.Store) error {
		added = 0
		for _, def := range DefaultGardenTypes {
			_, err := tx.GardenTypes().GetByName(ctx, def.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			gt := def
			if err := tx.GardenTypes().Create(ctx, &gt); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("garden types seeded", slog.Int("added", added), slog.Int("total", len(DefaultGardenTypes)))
	return added, nil
}
