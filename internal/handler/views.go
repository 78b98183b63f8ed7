package handler

import (
	"time"

	"github.com/scottkoskoski/gardening-app/internal/domain"
)

const notAvailable = "N/A"

type UserView struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	IsAdmin   bool       `json:"isAdmin"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin"`
}

func newUserView(u *domain.User) UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLoginAt,
	}
}

type InactiveUserView struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	LastLogin *time.Time `json:"lastLogin"`
}

type ProfileView struct {
	UserID        int64    `json:"userId"`
	HardinessZone *string  `json:"hardinessZone"`
	ZipCode       *string  `json:"zipCode"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	HasIrrigation *bool    `json:"hasIrrigation"`
	SunlightHours *float64 `json:"sunlightHours"`
	SoilPH        *float64 `json:"soilPh"`
}

func newProfileView(p *domain.UserProfile) ProfileView {
	return ProfileView{
		UserID:        p.UserID,
		HardinessZone: p.HardinessZone,
		ZipCode:       p.ZipCode,
		City:          p.City,
		State:         p.State,
		HasIrrigation: p.HasIrrigation,
		SunlightHours: p.SunlightHours,
		SoilPH:        p.SoilPH,
	}
}

type GardenTypeView struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	IdealSoilType     string `json:"idealSoilType"`
	SpaceRequirements string `json:"spaceRequirements"`
	MaintenanceLevel  string `json:"maintenanceLevel"`
}

func newGardenTypeView(gt *domain.GardenType) GardenTypeView {
	return GardenTypeView{
		ID:                gt.ID,
		Name:              domain.GardenTypeNames.Wire(gt.Name),
		Description:       gt.Description,
		IdealSoilType:     gt.IdealSoilType,
		SpaceRequirements: gt.SpaceRequirements,
		MaintenanceLevel:  gt.MaintenanceLevel,
	}
}

type GardenView struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"userId"`
	GardenName        string    `json:"gardenName"`
	GardenType        string    `json:"gardenType"`
	IsCommunityGarden bool      `json:"isCommunityGarden"`
	IsRooftopGarden   bool      `json:"isRooftopGarden"`
	GardenSize        *string   `json:"gardenSize"`
	GardenDimensions  *string   `json:"gardenDimensions"`
	SoilType          *string   `json:"soilType"`
	WaterSource       *string   `json:"waterSource"`
	PestProtection    bool      `json:"pestProtection"`
	HardinessZone     *string   `json:"hardinessZone"`
	PreferredPlants   []string  `json:"preferredPlants"`
	CurrentPlants     []string  `json:"currentPlants"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func newGardenView(g *domain.UserGarden) GardenView {
	return GardenView{
		ID:                g.ID,
		UserID:            g.UserID,
		GardenName:        g.Name,
		GardenType:        domain.GardenTypeNames.Wire(g.GardenType),
		IsCommunityGarden: g.IsCommunityGarden,
		IsRooftopGarden:   g.IsRooftopGarden,
		GardenSize:        g.Size,
		GardenDimensions:  g.Dimensions,
		SoilType:          g.SoilType,
		WaterSource:       g.WaterSource,
		PestProtection:    g.PestProtection,
		HardinessZone:     g.HardinessZone,
		PreferredPlants:   nonNil(g.PreferredPlants),
		CurrentPlants:     nonNil(g.CurrentPlants),
		CreatedAt:         g.CreatedAt,
		UpdatedAt:         g.UpdatedAt,
	}
}

type GardenPlantView struct {
	ID                  int64     `json:"id"`
	GardenID            int64     `json:"gardenId"`
	PlantID             int64     `json:"plantId"`
	PlantName           string    `json:"plantName"`
	PlantedAt           time.Time `json:"plantedAt"`
	ExpectedHarvestDate *string   `json:"expectedHarvestDate"`
	GrowthStage         string    `json:"growthStage"`
}

func newGardenPlantView(gp *domain.UserGardenPlant) GardenPlantView {
	v := GardenPlantView{
		ID:          gp.ID,
		GardenID:    gp.GardenID,
		PlantID:     gp.PlantID,
		PlantName:   gp.PlantName,
		PlantedAt:   gp.PlantedAt,
		GrowthStage: domain.GrowthStages.Wire(gp.GrowthStage),
	}
	if gp.ExpectedHarvestDate != nil {
		d := gp.ExpectedHarvestDate.Format("2006-01-02")
		v.ExpectedHarvestDate = &d
	}
	return v
}

// PlantView substitutes "N/A" for absent text attributes. Absent numbers stay null.
type PlantView struct {
	ID                    int64    `json:"id"`
	Name                  string   `json:"name"`
	ScientificName        string   `json:"scientificName"`
	HardinessMin          string   `json:"hardinessMin"`
	HardinessMax          string   `json:"hardinessMax"`
	BestTemperatureMin    *float64 `json:"bestTemperatureMin"`
	BestTemperatureMax    *float64 `json:"bestTemperatureMax"`
	RequiresGreenhouse    bool     `json:"requiresGreenhouse"`
	SuitableForContainers bool     `json:"suitableForContainers"`
	GrowingSeason         string   `json:"growingSeason"`
	WaterNeeds            string   `json:"waterNeeds"`
	Sunlight              string   `json:"sunlight"`
	SpaceRequired         string   `json:"spaceRequired"`
	SowingMethod          string   `json:"sowingMethod"`
	Spread                *float64 `json:"spread"`
	RowSpacing            *float64 `json:"rowSpacing"`
	Height                *float64 `json:"height"`
	Description           string   `json:"description"`
	ImageURL              string   `json:"imageUrl"`
}

func newPlantView(p *domain.Plant) PlantView {
	return PlantView{
		ID:                    p.ID,
		Name:                  p.Name,
		ScientificName:        orNA(p.ScientificName),
		HardinessMin:          orNA(p.HardinessMin),
		HardinessMax:          orNA(p.HardinessMax),
		BestTemperatureMin:    p.BestTemperatureMin,
		BestTemperatureMax:    p.BestTemperatureMax,
		RequiresGreenhouse:    p.RequiresGreenhouse,
		SuitableForContainers: p.SuitableForContainers,
		GrowingSeason:         enumOrNA(domain.GrowingSeasons, p.GrowingSeason),
		WaterNeeds:            enumOrNA(domain.WaterNeedsLevels, p.WaterNeeds),
		Sunlight:              enumOrNA(domain.SunlightLevels, p.Sunlight),
		SpaceRequired:         enumOrNA(domain.SpaceRequirements, p.SpaceRequired),
		SowingMethod:          orNA(p.SowingMethod),
		Spread:                p.Spread,
		RowSpacing:            p.RowSpacing,
		Height:                p.Height,
		Description:           orNA(p.Description),
		ImageURL:              orNA(p.ImageURL),
	}
}

type Coordinates struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type HardinessView struct {
	ZipCode          string      `json:"zipCode"`
	Zone             string      `json:"zone"`
	TemperatureRange string      `json:"temperatureRange"`
	Coordinates      Coordinates `json:"coordinates"`
}

type LocationView struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CurrentView struct {
	Time          string  `json:"time"`
	Temperature2m float64 `json:"temperature2m"`
	Precipitation float64 `json:"precipitation"`
	WeatherCode   int     `json:"weatherCode"`
}

type WeatherView struct {
	ZipCode  string            `json:"zipCode"`
	Location LocationView      `json:"location"`
	Current  CurrentView       `json:"current"`
	Units    map[string]string `json:"units"`
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return notAvailable
	}
	return *s
}

func enumOrNA[T ~string](table *domain.EnumTable[T], m *T) string {
	if m == nil || !table.Valid(*m) {
		return notAvailable
	}
	return table.Wire(*m)
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
