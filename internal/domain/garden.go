package domain

import (
	"context"
	"time"
)

// GardenType is one of the ten seeded cultivation styles.
type GardenType struct {
	ID                int64
	Name              GardenTypeName
	Description       string
	IdealSoilType     string
	SpaceRequirements string
	MaintenanceLevel  string
}

// UserGarden is a garden owned by a single user.
type UserGarden struct {
	ID                int64
	UserID            int64
	Name              string
	GardenTypeID      int64
	GardenType        GardenTypeName // resolved on read
	IsCommunityGarden bool
	IsRooftopGarden   bool
	Size              *string
	Dimensions        *string
	SoilType          *string
	WaterSource       *string
	PestProtection    bool
	HardinessZone     *string
	PreferredPlants   []string
	CurrentPlants     []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// GardenPatch is the allow-list of fields a caller may change on a garden.
// Ownership and identity are absent. Nil pointers leave NOT NULL columns
// alone; an empty plant list clears it.
type GardenPatch struct {
	Name              *string
	GardenTypeID      *int64
	IsCommunityGarden *bool
	IsRooftopGarden   *bool
	Size              Nullable[string]
	Dimensions        Nullable[string]
	SoilType          Nullable[string]
	WaterSource       Nullable[string]
	PestProtection    *bool
	HardinessZone     Nullable[string]
	PreferredPlants   *[]string
	CurrentPlants     *[]string
}

// Apply copies set fields onto g, one setter per field.
func (p GardenPatch) Apply(g *UserGarden) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.GardenTypeID != nil {
		g.GardenTypeID = *p.GardenTypeID
	}
	if p.IsCommunityGarden != nil {
		g.IsCommunityGarden = *p.IsCommunityGarden
	}
	if p.IsRooftopGarden != nil {
		g.IsRooftopGarden = *p.IsRooftopGarden
	}
	p.Size.applyTo(&g.Size)
	p.Dimensions.applyTo(&g.Dimensions)
	p.SoilType.applyTo(&g.SoilType)
	p.WaterSource.applyTo(&g.WaterSource)
	if p.PestProtection != nil {
		g.PestProtection = *p.PestProtection
	}
	p.HardinessZone.applyTo(&g.HardinessZone)
	if p.PreferredPlants != nil {
		g.PreferredPlants = *p.PreferredPlants
	}
	if p.CurrentPlants != nil {
		g.CurrentPlants = *p.CurrentPlants
	}
}

// UserGardenPlant links a catalog plant to a garden.
type UserGardenPlant struct {
	ID                  int64
	GardenID            int64
	PlantID             int64
	PlantName           string // resolved on read
	PlantedAt           time.Time
	ExpectedHarvestDate *time.Time
	GrowthStage         GrowthStage
}

// GardenPlantPatch is the allow-list of mutable garden-plant fields.
type GardenPlantPatch struct {
	GrowthStage         *GrowthStage
	ExpectedHarvestDate *time.Time
}

func (p GardenPlantPatch) Apply(gp *UserGardenPlant) {
	if p.GrowthStage != nil {
		gp.GrowthStage = *p.GrowthStage
	}
	if p.ExpectedHarvestDate != nil {
		gp.ExpectedHarvestDate = p.ExpectedHarvestDate
	}
}

// GardenTypeRepository defines data access for garden types
type GardenTypeRepository interface {
	List(ctx context.Context) ([]*GardenType, error)
	GetByID(ctx context.Context, id int64) (*GardenType, error)
	GetByName(ctx context.Context, name GardenTypeName) (*GardenType, error)
	Create(ctx context.Context, gt *GardenType) error
}

// GardenRepository defines data access for user gardens
type GardenRepository interface {
	Create(ctx context.Context, g *UserGarden) error
	GetByID(ctx context.Context, id int64) (*UserGarden, error)
	ListByOwner(ctx context.Context, userID int64) ([]*UserGarden, error)
	Update(ctx context.Context, g *UserGarden) error
	Delete(ctx context.Context, id int64) error
}

// GardenPlantRepository defines data access for garden-plant links
type GardenPlantRepository interface {
	Create(ctx context.Context, gp *UserGardenPlant) error
	GetByID(ctx context.Context, id int64) (*UserGardenPlant, error)
	ListByGarden(ctx context.Context, gardenID int64) ([]*UserGardenPlant, error)
	Update(ctx context.Context, gp *UserGardenPlant) error
	Delete(ctx context.Context, id int64) error
	DeleteByGarden(ctx context.Context, gardenID int64) error
}
