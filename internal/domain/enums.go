package domain

import (
	"fmt"
	"strings"
)

// EnumPair binds a stored member to its human-readable wire value.
type EnumPair[T ~string] struct {
	Member T
	Wire   string
}

// EnumTable is a bidirectional mapping between stored members and wire values.
type EnumTable[T ~string] struct {
	name    string
	pairs   []EnumPair[T]
	toWire  map[T]string
	byInput map[string]T
}

// NewEnumTable panics on duplicate members or wire values; tables are package-level constants.
func NewEnumTable[T ~string](name string, pairs ...EnumPair[T]) *EnumTable[T] {
	t := &EnumTable[T]{
		name:    name,
		pairs:   pairs,
		toWire:  make(map[T]string, len(pairs)),
		byInput: make(map[string]T, len(pairs)*2),
	}
	for _, p := range pairs {
		if _, dup := t.toWire[p.Member]; dup {
			panic(fmt.Sprintf("enum %s: duplicate member %q", name, p.Member))
		}
		wireKey := strings.ToLower(p.Wire)
		if _, dup := t.byInput[wireKey]; dup {
			panic(fmt.Sprintf("enum %s: duplicate wire value %q", name, p.Wire))
		}
		t.toWire[p.Member] = p.Wire
		t.byInput[wireKey] = p.Member
		t.byInput[strings.ToLower(string(p.Member))] = p.Member
	}
	return t
}

func (t *EnumTable[T]) Name() string { return t.name }

// Parse accepts a wire value or a member name, case-insensitively.
func (t *EnumTable[T]) Parse(s string) (T, bool) {
	m, ok := t.byInput[strings.ToLower(strings.TrimSpace(s))]
	return m, ok
}

// Wire returns the human-readable value for m, or "" for an unknown member.
func (t *EnumTable[T]) Wire(m T) string {
	return t.toWire[m]
}

// Valid reports whether m is a known member.
func (t *EnumTable[T]) Valid(m T) bool {
	_, ok := t.toWire[m]
	return ok
}

// Members returns members in declaration order.
func (t *EnumTable[T]) Members() []T {
	out := make([]T, len(t.pairs))
	for i, p := range t.pairs {
		out[i] = p.Member
	}
	return out
}

// WireValues returns wire values in declaration order.
func (t *EnumTable[T]) WireValues() []string {
	out := make([]string, len(t.pairs))
	for i, p := range t.pairs {
		out[i] = p.Wire
	}
	return out
}

type (
	GardenTypeName string
	GrowingSeason  string
	WaterNeeds     string
	Sunlight       string
	SpaceRequired  string
	GrowthStage    string
)

const (
	GardenRaisedBed      GardenTypeName = "RAISED_BED"
	GardenContainer      GardenTypeName = "CONTAINER"
	GardenTraditionalRow GardenTypeName = "TRADITIONAL_ROW"
	GardenVertical       GardenTypeName = "VERTICAL"
	GardenGreenhouse     GardenTypeName = "GREENHOUSE"
	GardenHydroponic     GardenTypeName = "HYDROPONIC"
	GardenPermaculture   GardenTypeName = "PERMACULTURE"
	GardenCommunity      GardenTypeName = "COMMUNITY"
	GardenWildlife       GardenTypeName = "WILDLIFE_GARDEN"
	GardenRooftop        GardenTypeName = "ROOFTOP"
)

const (
	SeasonSpring GrowingSeason = "SPRING"
	SeasonSummer GrowingSeason = "SUMMER"
	SeasonFall   GrowingSeason = "FALL"
	SeasonWinter GrowingSeason = "WINTER"
)

const (
	WaterLow    WaterNeeds = "LOW"
	WaterMedium WaterNeeds = "MEDIUM"
	WaterHigh   WaterNeeds = "HIGH"
)

const (
	SunFull         Sunlight = "FULL_SUN"
	SunPartial      Sunlight = "PARTIAL_SUN"
	SunPartialShade Sunlight = "PARTIAL_SHADE"
	SunFullShade    Sunlight = "FULL_SHADE"
)

const (
	SpaceSmall  SpaceRequired = "SMALL"
	SpaceMedium SpaceRequired = "MEDIUM"
	SpaceLarge  SpaceRequired = "LARGE"
)

const (
	StageSeedling   GrowthStage = "SEEDLING"
	StageVegetative GrowthStage = "VEGETATIVE"
	StageFlowering  GrowthStage = "FLOWERING"
	StageFruiting   GrowthStage = "FRUITING"
)

var GardenTypeNames = NewEnumTable("garden type",
	EnumPair[GardenTypeName]{GardenRaisedBed, "Raised Bed"},
	EnumPair[GardenTypeName]{GardenContainer, "Container"},
	EnumPair[GardenTypeName]{GardenTraditionalRow, "Traditional Row"},
	EnumPair[GardenTypeName]{GardenVertical, "Vertical"},
	EnumPair[GardenTypeName]{GardenGreenhouse, "Greenhouse"},
	EnumPair[GardenTypeName]{GardenHydroponic, "Hydroponic"},
	EnumPair[GardenTypeName]{GardenPermaculture, "Permaculture"},
	EnumPair[GardenTypeName]{GardenCommunity, "Community"},
	EnumPair[GardenTypeName]{GardenWildlife, "Wildlife Garden"},
	EnumPair[GardenTypeName]{GardenRooftop, "Rooftop"},
)

var GrowingSeasons = NewEnumTable("growing season",
	EnumPair[GrowingSeason]{SeasonSpring, "Spring"},
	EnumPair[GrowingSeason]{SeasonSummer, "Summer"},
	EnumPair[GrowingSeason]{SeasonFall, "Fall"},
	EnumPair[GrowingSeason]{SeasonWinter, "Winter"},
)

var WaterNeedsLevels = NewEnumTable("water needs",
	EnumPair[WaterNeeds]{WaterLow, "Low"},
	EnumPair[WaterNeeds]{WaterMedium, "Medium"},
	EnumPair[WaterNeeds]{WaterHigh, "High"},
)

var SunlightLevels = NewEnumTable("sunlight",
	EnumPair[Sunlight]{SunFull, "Full Sun"},
	EnumPair[Sunlight]{SunPartial, "Partial Sun"},
	EnumPair[Sunlight]{SunPartialShade, "Partial Shade"},
	EnumPair[Sunlight]{SunFullShade, "Full Shade"},
)

var SpaceRequirements = NewEnumTable("space required",
	EnumPair[SpaceRequired]{SpaceSmall, "Small"},
	EnumPair[SpaceRequired]{SpaceMedium, "Medium"},
	EnumPair[SpaceRequired]{SpaceLarge, "Large"},
)

var GrowthStages = NewEnumTable("growth stage",
	EnumPair[GrowthStage]{StageSeedling, "Seedling"},
	EnumPair[GrowthStage]{StageVegetative, "Vegetative"},
	EnumPair[GrowthStage]{StageFlowering, "Flowering"},
	EnumPair[GrowthStage]{StageFruiting, "Fruiting"},
)
