package sim

import "github.com/dustin/go-humanize"

// TurnReport is the structured end-of-turn summary handed to the
// presentation layer.
type TurnReport struct {
	Turn        int                `json:"turn"` // the turn that was processed
	Production  []ProductionResult `json:"production"`
	MoneyBefore int64              `json:"money_before"`
	MoneyAfter  int64              `json:"money_after"`
	TotalCost   int64              `json:"total_cost"`
	MoneyChange int64              `json:"money_change"`
}

// ProcessTurn advances the simulation by one turn: production across all
// plants, then the market update for the next period, then the turn
// counter. The previous prices are retained for trend reporting.
func (s *State) ProcessTurn() TurnReport {
	processed := s.Turn
	moneyBefore := s.Money

	production := s.RunProduction()

	for id, price := range s.Prices {
		s.prevPrices[id] = price
	}
	s.UpdateMarket()

	var totalCost int64
	succeeded := 0
	for _, r := range production {
		if r.OK {
			totalCost += r.Cost
			succeeded++
		}
	}

	// The summary belongs to the turn it closes; log before the counter
	// moves so the event carries the right stamp.
	s.logEvent(SeverityInfo, "Period %d closed: %d/%d plants produced, operating cost ¥%s",
		processed, succeeded, len(production), humanize.Comma(totalCost))

	s.Turn++

	return TurnReport{
		Turn:        processed,
		Production:  production,
		MoneyBefore: moneyBefore,
		MoneyAfter:  s.Money,
		TotalCost:   totalCost,
		MoneyChange: s.Money - moneyBefore,
	}
}
