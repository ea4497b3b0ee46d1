package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/chemworks/internal/catalog"
)

func TestProcessTurnReport(t *testing.T) {
	s := newState(t)
	s.BuildPlant(catalog.Contact)
	s.BuildPlant(catalog.Leblanc)
	s.Inventory[catalog.Sulfur] = 1
	s.Inventory[catalog.Coal] = 1
	// Leblanc has salt but no sulfuric acid until the contact plant's
	// output lands, which it does earlier in the same pass.
	s.Inventory[catalog.Salt] = 2
	moneyBefore := s.Money

	report := s.ProcessTurn()

	require.Equal(t, 1, report.Turn)
	require.Equal(t, 2, s.Turn)
	require.Len(t, report.Production, 2)
	require.True(t, report.Production[0].OK)
	require.True(t, report.Production[1].OK)
	require.EqualValues(t, 15+25, report.TotalCost)
	require.Equal(t, moneyBefore, report.MoneyBefore)
	require.Equal(t, moneyBefore-40, report.MoneyAfter)
	require.EqualValues(t, -40, report.MoneyChange)
	require.Equal(t, s.Money, report.MoneyAfter)
}

func TestProcessTurnResetsLedgerAndTracksTrend(t *testing.T) {
	s := New(testCatalog(t), &stub{vals: []float64{0.0}}) // minimum noise: every price drops
	s.SoldThisTurn[catalog.SodaAsh] = 5

	s.ProcessTurn()

	require.Empty(t, s.SoldThisTurn)
	require.Equal(t, TrendDown, s.PriceTrend(catalog.SodaAsh))
}

func TestProcessTurnAppendsSummaryEvent(t *testing.T) {
	s := newState(t)
	before := len(s.Log)

	s.ProcessTurn()

	require.Len(t, s.Log, before+1)
	last := s.Log[len(s.Log)-1]
	require.Equal(t, 1, last.Turn)
	require.Contains(t, last.Message, "Period 1 closed")
}
