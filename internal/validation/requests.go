package validation

import (
	"cmp"
	"strconv"
	"strings"
	"time"

	"github.com/scottkoskoski/gardening-app/internal/domain"
)

// RegisterRequest is the body of POST /users/register.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=80,username"`
	Email           string `json:"email" validate:"required,max=120,email"`
	Password        string `json:"password" validate:"required,min=8,max=128,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
}

// LoginRequest is the body of POST /users/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileRequest is a partial profile update; every field is optional and
// an explicit null clears it.
type ProfileRequest struct {
	HardinessZone domain.Nullable[string]  `json:"hardinessZone" validate:"omitempty,zone"`
	ZipCode       domain.Nullable[string]  `json:"zipCode" validate:"omitempty,zip"`
	City          domain.Nullable[string]  `json:"city" validate:"omitempty,max=100"`
	State         domain.Nullable[string]  `json:"state" validate:"omitempty,max=50"`
	HasIrrigation domain.Nullable[bool]    `json:"hasIrrigation"`
	SunlightHours domain.Nullable[float64] `json:"sunlightHours" validate:"omitempty,gte=0,lte=24"`
	SoilPH        domain.Nullable[float64] `json:"soilPh" validate:"omitempty,gte=0,lte=14"`
}

// Patch normalizes the request into a profile patch.
func (r ProfileRequest) Patch() domain.ProfilePatch {
	return domain.ProfilePatch{
		HardinessZone: r.HardinessZone,
		ZipCode:       r.ZipCode,
		City:          domain.Map(r.City, strings.TrimSpace),
		State:         domain.Map(r.State, strings.TrimSpace),
		HasIrrigation: r.HasIrrigation,
		SunlightHours: r.SunlightHours,
		SoilPH:        r.SoilPH,
	}
}

// GardenRequest is the body of POST /user_gardens.
type GardenRequest struct {
	GardenName        string     `json:"gardenName" validate:"required,max=100"`
	GardenType        string     `json:"gardenType" validate:"required"`
	IsCommunityGarden *bool      `json:"isCommunityGarden"`
	IsRooftopGarden   *bool      `json:"isRooftopGarden"`
	GardenSize        *string    `json:"gardenSize" validate:"omitempty,max=50"`
	GardenDimensions  *string    `json:"gardenDimensions" validate:"omitempty,max=50"`
	SoilType          *string    `json:"soilType" validate:"omitempty,max=50"`
	WaterSource       *string    `json:"waterSource" validate:"omitempty,max=100"`
	PestProtection    *bool      `json:"pestProtection"`
	HardinessZone     *string    `json:"hardinessZone" validate:"omitempty,zone"`
	PreferredPlants   *PlantList `json:"preferredPlants" validate:"omitempty,max=200,dive,listitem"`
	CurrentPlants     *PlantList `json:"currentPlants" validate:"omitempty,max=200,dive,listitem"`
}

// Garden builds the garden to insert. Ownership, type and zone are filled by the caller.
func (r GardenRequest) Garden() *domain.UserGarden {
	return &domain.UserGarden{
		Name:              strings.TrimSpace(r.GardenName),
		IsCommunityGarden: deref(r.IsCommunityGarden),
		IsRooftopGarden:   deref(r.IsRooftopGarden),
		Size:              r.GardenSize,
		Dimensions:        r.GardenDimensions,
		SoilType:          r.SoilType,
		WaterSource:       r.WaterSource,
		PestProtection:    deref(r.PestProtection),
		HardinessZone:     r.HardinessZone,
		PreferredPlants:   listOrEmpty(r.PreferredPlants),
		CurrentPlants:     listOrEmpty(r.CurrentPlants),
	}
}

// GardenUpdateRequest is the body of PUT /user_gardens/{id}. Only these fields
// can change; anything else in the body is rejected by the decoder. A null
// clears the nullable text fields and empties the plant lists; it leaves the
// name, type and flags unchanged.
type GardenUpdateRequest struct {
	GardenName        *string                    `json:"gardenName" validate:"omitempty,min=1,max=100"`
	GardenType        *string                    `json:"gardenType"`
	IsCommunityGarden *bool                      `json:"isCommunityGarden"`
	IsRooftopGarden   *bool                      `json:"isRooftopGarden"`
	GardenSize        domain.Nullable[string]    `json:"gardenSize" validate:"omitempty,max=50"`
	GardenDimensions  domain.Nullable[string]    `json:"gardenDimensions" validate:"omitempty,max=50"`
	SoilType          domain.Nullable[string]    `json:"soilType" validate:"omitempty,max=50"`
	WaterSource       domain.Nullable[string]    `json:"waterSource" validate:"omitempty,max=100"`
	PestProtection    *bool                      `json:"pestProtection"`
	HardinessZone     domain.Nullable[string]    `json:"hardinessZone" validate:"omitempty,zone"`
	PreferredPlants   domain.Nullable[PlantList] `json:"preferredPlants" validate:"omitempty,max=200,dive,listitem"`
	CurrentPlants     domain.Nullable[PlantList] `json:"currentPlants" validate:"omitempty,max=200,dive,listitem"`
}

// Patch converts the request; gardenTypeID is the resolved type, if one was sent.
func (r GardenUpdateRequest) Patch(gardenTypeID *int64) domain.GardenPatch {
	return domain.GardenPatch{
		Name:              trimmed(r.GardenName),
		GardenTypeID:      gardenTypeID,
		IsCommunityGarden: r.IsCommunityGarden,
		IsRooftopGarden:   r.IsRooftopGarden,
		Size:              r.GardenSize,
		Dimensions:        r.GardenDimensions,
		SoilType:          r.SoilType,
		WaterSource:       r.WaterSource,
		PestProtection:    r.PestProtection,
		HardinessZone:     r.HardinessZone,
		PreferredPlants:   listPatch(r.PreferredPlants),
		CurrentPlants:     listPatch(r.CurrentPlants),
	}
}

// GardenPlantRequest is the body of POST /user_garden_plants.
type GardenPlantRequest struct {
	GardenID            int64   `json:"gardenId" validate:"required,gt=0"`
	PlantID             int64   `json:"plantId" validate:"required,gt=0"`
	ExpectedHarvestDate *Date   `json:"expectedHarvestDate" validate:"omitempty,future"`
	GrowthStage         *string `json:"growthStage" validate:"omitempty,enum=growth_stage"`
}

// GardenPlant builds the link to insert. Growth stage defaults to Seedling.
func (r GardenPlantRequest) GardenPlant(plantedAt time.Time) *domain.UserGardenPlant {
	gp := &domain.UserGardenPlant{
		GardenID:    r.GardenID,
		PlantID:     r.PlantID,
		PlantedAt:   plantedAt,
		GrowthStage: domain.StageSeedling,
	}
	if r.ExpectedHarvestDate != nil {
		t := r.ExpectedHarvestDate.Time()
		gp.ExpectedHarvestDate = &t
	}
	if r.GrowthStage != nil {
		gp.GrowthStage, _ = domain.GrowthStages.Parse(*r.GrowthStage)
	}
	return gp
}

// GardenPlantUpdateRequest is the body of PATCH /user_garden_plants/{id}.
type GardenPlantUpdateRequest struct {
	ExpectedHarvestDate *Date   `json:"expectedHarvestDate" validate:"omitempty,future"`
	GrowthStage         *string `json:"growthStage" validate:"omitempty,enum=growth_stage"`
}

func (r GardenPlantUpdateRequest) Patch() domain.GardenPlantPatch {
	var p domain.GardenPlantPatch
	if r.ExpectedHarvestDate != nil {
		t := r.ExpectedHarvestDate.Time()
		p.ExpectedHarvestDate = &t
	}
	if r.GrowthStage != nil {
		stage, _ := domain.GrowthStages.Parse(*r.GrowthStage)
		p.GrowthStage = &stage
	}
	return p
}

// PlantRequest is the body of POST /plants.
type PlantRequest struct {
	Name                  string   `json:"name" validate:"required,max=100,plantname"`
	ScientificName        *string  `json:"scientificName" validate:"omitempty,max=200"`
	HardinessMin          *string  `json:"hardinessMin" validate:"omitempty,zone"`
	HardinessMax          *string  `json:"hardinessMax" validate:"omitempty,zone"`
	BestTemperatureMin    *float64 `json:"bestTemperatureMin" validate:"omitempty,gte=-60,lte=60"`
	BestTemperatureMax    *float64 `json:"bestTemperatureMax" validate:"omitempty,gte=-60,lte=60"`
	RequiresGreenhouse    bool     `json:"requiresGreenhouse"`
	SuitableForContainers bool     `json:"suitableForContainers"`
	GrowingSeason         *string  `json:"growingSeason" validate:"omitempty,enum=growing_season"`
	WaterNeeds            *string  `json:"waterNeeds" validate:"omitempty,enum=water_needs"`
	Sunlight              *string  `json:"sunlight" validate:"omitempty,enum=sunlight"`
	SpaceRequired         *string  `json:"spaceRequired" validate:"omitempty,enum=space_required"`
	SowingMethod          *string  `json:"sowingMethod" validate:"omitempty,max=50"`
	Spread                *float64 `json:"spread" validate:"omitempty,gte=0"`
	RowSpacing            *float64 `json:"rowSpacing" validate:"omitempty,gte=0"`
	Height                *float64 `json:"height" validate:"omitempty,gte=0"`
	Description           *string  `json:"description" validate:"omitempty,max=5000"`
	ImageURL              *string  `json:"imageUrl" validate:"omitempty,max=255,url"`
}

// CrossFields applies the rules that span two fields. Call after Struct succeeds.
func (r PlantRequest) CrossFields() error {
	details := map[string][]string{}
	if r.HardinessMin != nil && r.HardinessMax != nil && compareZones(*r.HardinessMin, *r.HardinessMax) > 0 {
		details["hardinessMax"] = []string{"must not be lower than hardinessMin"}
	}
	if r.BestTemperatureMin != nil && r.BestTemperatureMax != nil && *r.BestTemperatureMin > *r.BestTemperatureMax {
		details["bestTemperatureMax"] = []string{"must not be lower than bestTemperatureMin"}
	}
	if len(details) > 0 {
		return domain.Validation(details)
	}
	return nil
}

// compareZones orders two well-formed zone codes by number, then by the
// a/b half. "3" sorts before "10" and "7" before "7a".
func compareZones(a, b string) int {
	na, ha := splitZone(a)
	nb, hb := splitZone(b)
	if na != nb {
		return cmp.Compare(na, nb)
	}
	return strings.Compare(ha, hb)
}

func splitZone(z string) (int, string) {
	z = strings.ToLower(strings.TrimSpace(z))
	digits := strings.TrimRight(z, "ab")
	n, _ := strconv.Atoi(digits)
	return n, z[len(digits):]
}

// Plant converts a validated request into a catalog entry.
func (r PlantRequest) Plant() *domain.Plant {
	p := &domain.Plant{
		Name:                  strings.TrimSpace(r.Name),
		ScientificName:        r.ScientificName,
		HardinessMin:          r.HardinessMin,
		HardinessMax:          r.HardinessMax,
		BestTemperatureMin:    r.BestTemperatureMin,
		BestTemperatureMax:    r.BestTemperatureMax,
		RequiresGreenhouse:    r.RequiresGreenhouse,
		SuitableForContainers: r.SuitableForContainers,
		SowingMethod:          r.SowingMethod,
		Spread:                r.Spread,
		RowSpacing:            r.RowSpacing,
		Height:                r.Height,
		Description:           r.Description,
		ImageURL:              r.ImageURL,
	}
	p.GrowingSeason = parseEnum(domain.GrowingSeasons, r.GrowingSeason)
	p.WaterNeeds = parseEnum(domain.WaterNeedsLevels, r.WaterNeeds)
	p.Sunlight = parseEnum(domain.SunlightLevels, r.Sunlight)
	p.SpaceRequired = parseEnum(domain.SpaceRequirements, r.SpaceRequired)
	return p
}

func parseEnum[T ~string](table *domain.EnumTable[T], s *string) *T {
	if s == nil {
		return nil
	}
	m, ok := table.Parse(*s)
	if !ok {
		return nil
	}
	return &m
}

func deref(b *bool) bool {
	return b != nil && *b
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func listOrEmpty(l *PlantList) []string {
	if l == nil {
		return []string{}
	}
	return []string(*l)
}

func listPatch(l domain.Nullable[PlantList]) *[]string {
	if !l.Set {
		return nil
	}
	items := []string{}
	if l.Value != nil {
		items = append(items, *l.Value...)
	}
	return &items
}
