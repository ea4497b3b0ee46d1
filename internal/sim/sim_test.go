package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/chemworks/internal/catalog"
)

// stub replays a fixed sequence of rolls, cycling when exhausted.
type stub struct {
	vals []float64
	i    int
}

func (s *stub) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

func newState(t *testing.T) *State {
	t.Helper()
	return New(testCatalog(t), NewSource(1))
}

func TestNewStateSeeding(t *testing.T) {
	s := newState(t)

	require.EqualValues(t, 5000, s.Money)
	require.Equal(t, 1, s.Turn)
	require.Equal(t, 1, s.TechLevel)
	require.EqualValues(t, 0, s.ResearchProgress)
	require.Empty(t, s.Plants)
	require.Empty(t, s.Inventory)

	// Prices start at base.
	require.EqualValues(t, 12, s.Prices[catalog.Sulfur])
	require.EqualValues(t, 65, s.Prices[catalog.SodaAsh])

	// Demand seeded from the first era's baselines; raws carry none.
	require.Equal(t, 4, s.Demand[catalog.SodaAsh])
	require.Equal(t, 3, s.Demand[catalog.SulfuricAcid])
	require.Equal(t, 1, s.Demand[catalog.CausticSoda])
	_, hasRawDemand := s.Demand[catalog.Salt]
	require.False(t, hasRawDemand)

	require.Equal(t, "Soda Industry Era", s.CurrentEra().Name)
	require.Len(t, s.Log, 2)
}
