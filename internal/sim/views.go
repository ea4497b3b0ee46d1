package sim

import "github.com/talgya/chemworks/internal/catalog"

// Read accessors for the presentation layer. Everything here is derived
// from current state; nothing mutates.

// Trend is the direction a price moved across the last market update.
type Trend int

const (
	TrendFlat Trend = iota
	TrendUp
	TrendDown
)

// PriceTrend compares a chemical's current price to its price before the
// last market update.
func (s *State) PriceTrend(id catalog.ChemicalID) Trend {
	prev := s.prevPrices[id]
	cur := s.Prices[id]
	switch {
	case cur > prev:
		return TrendUp
	case cur < prev:
		return TrendDown
	default:
		return TrendFlat
	}
}

// ResearchNeeded returns the cumulative investment required for the next
// tech level, or false at the maximum level.
func (s *State) ResearchNeeded() (int64, bool) {
	next := s.cat.NextLevel(s.TechLevel)
	if next == nil {
		return 0, false
	}
	return next.ResearchNeeded, true
}

// ResearchPercent returns progress toward the next level as 0-100; 100 at
// the maximum level.
func (s *State) ResearchPercent() int {
	needed, ok := s.ResearchNeeded()
	if !ok {
		return 100
	}
	pct := int(s.ResearchProgress * 100 / needed)
	return min(pct, 100)
}

// RemainingSellable returns how many more tons of a product the market
// absorbs this turn.
func (s *State) RemainingSellable(id catalog.ChemicalID) int64 {
	remaining := s.cat.MaxSell(s.Demand[id]) - s.SoldThisTurn[id]
	return max(remaining, 0)
}

// PlantView is a plant snapshot with its derived input-sufficiency
// status.
type PlantView struct {
	ID          int               `json:"id"`
	Process     catalog.ProcessID `json:"process"`
	ProcessName string            `json:"process_name"`
	Active      bool              `json:"active"`
	BuiltTurn   int               `json:"built_turn"`
	// InputsSatisfied reports whether current inventory covers one full
	// cycle for this plant alone; plants competing for the same stock may
	// still starve each other in build order.
	InputsSatisfied bool `json:"inputs_satisfied"`
}

// PlantViews lists all plants in build order with derived status.
func (s *State) PlantViews() []PlantView {
	views := make([]PlantView, 0, len(s.Plants))
	for _, p := range s.Plants {
		proc := s.cat.Process(p.Process)
		satisfied := true
		for id, need := range proc.Inputs {
			if s.Inventory[id] < need {
				satisfied = false
				break
			}
		}
		views = append(views, PlantView{
			ID:              p.ID,
			Process:         p.Process,
			ProcessName:     proc.Name,
			Active:          p.Active,
			BuiltTurn:       p.BuiltTurn,
			InputsSatisfied: satisfied,
		})
	}
	return views
}

// CompanyValue is the total enterprise value: treasury, inventory at
// current market prices, and plants at half their build cost.
func (s *State) CompanyValue() int64 {
	value := s.Money
	for id, qty := range s.Inventory {
		if qty > 0 {
			value += s.Prices[id] * qty
		}
	}
	for _, p := range s.Plants {
		value += s.cat.Process(p.Process).BuildCost / 2
	}
	return value
}

// recentLogCap bounds how much of the log the display surface receives.
const recentLogCap = 20

// RecentLog returns the newest log entries, newest first, capped at 20.
func (s *State) RecentLog() []Event {
	n := min(len(s.Log), recentLogCap)
	out := make([]Event, 0, n)
	for i := len(s.Log) - 1; i >= len(s.Log)-n; i-- {
		out = append(out, s.Log[i])
	}
	return out
}
