package domain

import (
	"context"
	"strings"
)

// Plant is a catalog entry. Name is the natural dedup key.
type Plant struct {
	ID                    int64
	Name                  string
	ScientificName        *string
	HardinessMin          *string
	HardinessMax          *string
	BestTemperatureMin    *float64
	BestTemperatureMax    *float64
	RequiresGreenhouse    bool
	SuitableForContainers bool
	GrowingSeason         *GrowingSeason
	WaterNeeds            *WaterNeeds
	Sunlight              *Sunlight
	SpaceRequired         *SpaceRequired
	SowingMethod          *string
	Spread                *float64
	RowSpacing            *float64
	Height                *float64
	Description           *string
	ImageURL              *string
}

// PlantFilter combines with AND semantics. Zero values disable a predicate.
type PlantFilter struct {
	Zone               string // zone lies lexically within [HardinessMin, HardinessMax]
	RequiresGreenhouse bool
	ContainerSuitable  bool
	NameContains       string
}

// Matches evaluates the filter in memory with the same semantics as the SQL query.
func (f PlantFilter) Matches(p *Plant) bool {
	if f.Zone != "" {
		if p.HardinessMin == nil || p.HardinessMax == nil {
			return false
		}
		if *p.HardinessMin > f.Zone || f.Zone > *p.HardinessMax {
			return false
		}
	}
	if f.RequiresGreenhouse && !p.RequiresGreenhouse {
		return false
	}
	if f.ContainerSuitable && !p.SuitableForContainers {
		return false
	}
	if f.NameContains != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.NameContains)) {
		return false
	}
	return true
}

// PlantRepository defines data access for the plant catalog
type PlantRepository interface {
	Create(ctx context.Context, p *Plant) error
	GetByID(ctx context.Context, id int64) (*Plant, error)
	GetByName(ctx context.Context, name string) (*Plant, error)
	List(ctx context.Context, filter PlantFilter) ([]*Plant, error)
}
