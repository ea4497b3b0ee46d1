package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talgya/chemworks/internal/catalog"
)

func TestBuyChemical(t *testing.T) {
	s := newState(t)

	res := s.BuyChemical(catalog.Sulfur, 10)

	require.True(t, res.OK)
	require.EqualValues(t, 120, res.TotalCost) // 10t at base price 12
	require.EqualValues(t, 5000-120, s.Money)
	require.EqualValues(t, 10, s.Inventory[catalog.Sulfur])
}

func TestBuyRejectsBadQuantityAndPoverty(t *testing.T) {
	s := newState(t)

	res := s.BuyChemical(catalog.Sulfur, 0)
	require.False(t, res.OK)
	require.Equal(t, "invalid quantity", res.Message)

	res = s.BuyChemical(catalog.Sulfur, -3)
	require.False(t, res.OK)

	s.Money = 100
	res = s.BuyChemical(catalog.Sulfur, 10) // needs 120
	require.False(t, res.OK)
	require.Equal(t, "insufficient funds", res.Message)

	// A blocked purchase never moves money or stock.
	require.EqualValues(t, 100, s.Money)
	require.EqualValues(t, 0, s.Inventory[catalog.Sulfur])
}

func TestSellChemical(t *testing.T) {
	s := newState(t)
	s.Inventory[catalog.SodaAsh] = 10
	s.Demand[catalog.SodaAsh] = 4 // max sell 25

	res := s.SellChemical(catalog.SodaAsh, 10)

	require.True(t, res.OK)
	require.EqualValues(t, 10, res.Sold)
	require.EqualValues(t, 650, res.Revenue) // base price 65
	require.EqualValues(t, 5650, s.Money)
	require.EqualValues(t, 0, s.Inventory[catalog.SodaAsh])
	require.EqualValues(t, 10, s.SoldThisTurn[catalog.SodaAsh])
}

func TestSellPartialFillAtDemandCeiling(t *testing.T) {
	s := newState(t)
	s.Inventory[catalog.CausticSoda] = 5
	s.Demand[catalog.CausticSoda] = 1 // max sell 3
	s.SoldThisTurn[catalog.CausticSoda] = 2

	res := s.SellChemical(catalog.CausticSoda, 5)

	require.True(t, res.OK)
	require.EqualValues(t, 5, res.Requested)
	require.EqualValues(t, 1, res.Sold)
	require.EqualValues(t, 90, res.Revenue)
	require.Contains(t, res.Message, "4t unsold")
	require.EqualValues(t, 4, s.Inventory[catalog.CausticSoda])
	require.EqualValues(t, 3, s.SoldThisTurn[catalog.CausticSoda])
}

func TestSellStockCheckPrecedesDemandCeiling(t *testing.T) {
	s := newState(t)
	s.Inventory[catalog.CausticSoda] = 2
	s.Demand[catalog.CausticSoda] = 1
	s.SoldThisTurn[catalog.CausticSoda] = 3 // ceiling already reached

	// Request exceeds stock, so the failure is about stock even though
	// demand would also have blocked it.
	res := s.SellChemical(catalog.CausticSoda, 5)
	require.False(t, res.OK)
	require.Equal(t, "insufficient stock", res.Message)

	// With stock covering the request, the ceiling failure surfaces.
	res = s.SellChemical(catalog.CausticSoda, 2)
	require.False(t, res.OK)
	require.Contains(t, res.Message, "demand ceiling reached, max 3t")
}

func TestSellsNeverExceedTurnCeilingInAggregate(t *testing.T) {
	s := newState(t)
	s.Inventory[catalog.SodaAsh] = 100
	s.Demand[catalog.SodaAsh] = 2 // max sell 8

	first := s.SellChemical(catalog.SodaAsh, 6)
	second := s.SellChemical(catalog.SodaAsh, 6)

	require.True(t, first.OK)
	require.EqualValues(t, 6, first.Sold)
	require.True(t, second.OK)
	require.EqualValues(t, 2, second.Sold)
	require.EqualValues(t, 8, s.SoldThisTurn[catalog.SodaAsh])

	third := s.SellChemical(catalog.SodaAsh, 1)
	require.False(t, third.OK)
}

func TestBuildPlant(t *testing.T) {
	s := newState(t)

	res := s.BuildPlant(catalog.Contact)

	require.True(t, res.OK)
	require.Equal(t, 1, res.PlantID)
	require.EqualValues(t, 4500, s.Money)
	require.Len(t, s.Plants, 1)
	require.True(t, s.Plants[0].Active)
	require.Equal(t, 1, s.Plants[0].BuiltTurn)
}

func TestBuildPlantGates(t *testing.T) {
	s := newState(t)

	res := s.BuildPlant("alchemy")
	require.False(t, res.OK)
	require.Contains(t, res.Message, "unknown process")

	res = s.BuildPlant(catalog.Solvay) // needs tech level 2
	require.False(t, res.OK)
	require.Contains(t, res.Message, "technology level 2 required")

	s.Money = 100
	res = s.BuildPlant(catalog.Contact)
	require.False(t, res.OK)
	require.Equal(t, "insufficient funds", res.Message)
	require.Empty(t, s.Plants)
}

func TestDemolishRefundsAndRetiresID(t *testing.T) {
	s := newState(t)
	built := s.BuildPlant(catalog.Contact)
	moneyAfterBuild := s.Money

	res := s.DemolishPlant(built.PlantID)

	require.True(t, res.OK)
	require.EqualValues(t, 100, res.Refund) // floor(500 * 0.2)
	require.Empty(t, s.Plants)
	require.Equal(t, moneyAfterBuild+100, s.Money)
	// Net loss across build+demolish is buildCost - refund.
	require.EqualValues(t, 5000-(500-100), s.Money)

	// The freed identifier is never reassigned.
	next := s.BuildPlant(catalog.Contact)
	require.True(t, next.OK)
	require.Equal(t, built.PlantID+1, next.PlantID)

	res = s.DemolishPlant(999)
	require.False(t, res.OK)
}

func TestTogglePlant(t *testing.T) {
	s := newState(t)
	built := s.BuildPlant(catalog.Contact)

	s.TogglePlant(built.PlantID)
	require.False(t, s.Plants[0].Active)

	s.TogglePlant(built.PlantID)
	require.True(t, s.Plants[0].Active)

	// Unknown ID is a silent no-op.
	s.TogglePlant(999)
	require.True(t, s.Plants[0].Active)
}

func TestInvestResearchExactThreshold(t *testing.T) {
	s := newState(t)

	res := s.InvestResearch(1500)

	require.True(t, res.OK)
	require.True(t, res.LeveledUp)
	require.Equal(t, 2, res.NewLevel)
	require.Contains(t, res.Unlocked, catalog.Solvay)
	require.False(t, res.EraChanged)
	require.Equal(t, 2, s.TechLevel)
	require.EqualValues(t, 0, s.ResearchProgress)
	require.EqualValues(t, 3500, s.Money)
}

func TestInvestResearchSingleStepAndOverflowDiscard(t *testing.T) {
	s := newState(t)
	s.Money = 100000

	// Enough to clear levels 2 and 3 at once; only one step happens
	// and the overflow is discarded.
	res := s.InvestResearch(20000)

	require.True(t, res.OK)
	require.Equal(t, 2, s.TechLevel)
	require.EqualValues(t, 0, s.ResearchProgress)
	require.False(t, res.EraChanged)
}

func TestInvestResearchAccumulates(t *testing.T) {
	s := newState(t)

	res := s.InvestResearch(1000)
	require.True(t, res.OK)
	require.False(t, res.LeveledUp)
	require.Equal(t, 1, s.TechLevel)
	require.EqualValues(t, 1000, s.ResearchProgress)

	res = s.InvestResearch(500)
	require.True(t, res.OK)
	require.True(t, res.LeveledUp)
	require.Equal(t, 2, s.TechLevel)
}

func TestInvestResearchEraTransition(t *testing.T) {
	s := newState(t)
	s.Money = 100000
	s.TechLevel = 2

	res := s.InvestResearch(4000) // level 3 switches to the electrolytic era

	require.True(t, res.OK)
	require.True(t, res.LeveledUp)
	require.Equal(t, 3, s.TechLevel)
	require.True(t, res.EraChanged)
	require.Contains(t, res.Unlocked, catalog.Chloralkali)
	require.Equal(t, "Electrolytic Industry Era", s.CurrentEra().Name)
}

func TestInvestResearchFailures(t *testing.T) {
	s := newState(t)

	res := s.InvestResearch(0)
	require.False(t, res.OK)
	require.Equal(t, "invalid amount", res.Message)

	res = s.InvestResearch(99999)
	require.False(t, res.OK)
	require.Equal(t, "insufficient funds", res.Message)

	s.TechLevel = s.Catalog().MaxLevel()
	res = s.InvestResearch(100)
	require.False(t, res.OK)
	require.Equal(t, "already at maximum technology level", res.Message)
	require.EqualValues(t, 5000, s.Money)
}

func TestFreshGameScenario(t *testing.T) {
	s := newState(t)

	built := s.BuildPlant(catalog.Contact)
	require.True(t, built.OK)
	require.EqualValues(t, 4500, s.Money)
	require.Equal(t, 1, built.PlantID)
	require.True(t, s.Plants[0].Active)

	// No sulfur or coal in stock: production fails without charging.
	results := s.RunProduction()
	require.Len(t, results, 1)
	require.False(t, results[0].OK)
	require.Contains(t, results[0].Reason, "Sulfur")
	require.Contains(t, results[0].Reason, "Coal")
	require.EqualValues(t, 4500, s.Money)
}
