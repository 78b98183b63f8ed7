package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkTable[T ~string](t *testing.T, table *EnumTable[T], size int) {
	t.Helper()
	members := table.Members()
	wires := table.WireValues()
	require.Len(t, members, size, table.Name())
	require.Len(t, wires, size, table.Name())

	for i, m := range members {
		wire := table.Wire(m)
		assert.Equal(t, wires[i], wire)
		assert.True(t, table.Valid(m))

		parsed, ok := table.Parse(wire)
		require.True(t, ok, "wire value %q", wire)
		assert.Equal(t, m, parsed)

		parsed, ok = table.Parse(strings.ToLower(string(m)))
		require.True(t, ok, "member %q", m)
		assert.Equal(t, m, parsed)
	}

	_, ok := table.Parse("definitely-not-a-value")
	assert.False(t, ok)
	assert.Equal(t, "", table.Wire(T("BOGUS")))
}

func TestEnumTablesRoundTrip(t *testing.T) {
	checkTable(t, GardenTypeNames, 10)
	checkTable(t, GrowingSeasons, 4)
	checkTable(t, WaterNeedsLevels, 3)
	checkTable(t, SunlightLevels, 4)
	checkTable(t, SpaceRequirements, 3)
	checkTable(t, GrowthStages, 4)
}

func TestEnumParseTrimsAndIgnoresCase(t *testing.T) {
	m, ok := GardenTypeNames.Parse("  raised bed ")
	require.True(t, ok)
	assert.Equal(t, GardenRaisedBed, m)

	m2, ok := SunlightLevels.Parse("PARTIAL_SHADE")
	require.True(t, ok)
	assert.Equal(t, SunPartialShade, m2)
}

func TestNewEnumTablePanicsOnDuplicates(t *testing.T) {
	assert.Panics(t, func() {
		NewEnumTable("dup",
			EnumPair[WaterNeeds]{WaterLow, "Low"},
			EnumPair[WaterNeeds]{WaterLow, "Lower"},
		)
	})
	assert.Panics(t, func() {
		NewEnumTable("dup",
			EnumPair[WaterNeeds]{WaterLow, "Low"},
			EnumPair[WaterNeeds]{WaterHigh, "low"},
		)
	})
}
