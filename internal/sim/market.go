package sim

import (
	"math"

	"github.com/talgya/chemworks/internal/catalog"
)

// Market tuning constants. Prices wander multiplicatively within a band
// around base price while reverting toward it; demand random-walks while
// being pulled toward the active era's baseline.
const (
	priceNoiseMin  = 0.85
	priceNoiseSpan = 0.30
	meanReversion  = 0.1
	priceFloorMult = 0.5
	priceCeilMult  = 2.0

	demandStepDownP = 0.3 // roll < 0.3 → demand -1
	demandStepUpP   = 0.7 // roll > 0.7 → demand +1
	baselinePullP   = 0.4
)

// UpdateMarket advances prices and demand by one turn and resets the
// per-turn sales ledger. Called exactly once per turn, after production.
func (s *State) UpdateMarket() {
	era := s.CurrentEra()

	for _, chem := range s.cat.Chemicals {
		current := float64(s.Prices[chem.ID])
		base := float64(chem.BasePrice)

		noise := priceNoiseMin + s.rng.Float64()*priceNoiseSpan
		target := current + (base-current)*meanReversion
		price := target * noise

		price = math.Max(base*priceFloorMult, math.Min(base*priceCeilMult, price))
		s.Prices[chem.ID] = int64(math.Round(price))
	}

	for _, chem := range s.cat.Chemicals {
		if chem.Raw {
			continue
		}
		baseline := baselineDemand(era, chem.ID)
		demand := s.Demand[chem.ID]

		roll := s.rng.Float64()
		if roll < demandStepDownP {
			demand--
		} else if roll > demandStepUpP {
			demand++
		}

		// Pull toward the era baseline; the further side, the likelier
		// the walk comes back. Each pull rolls independently.
		if demand < baseline && s.rng.Float64() < baselinePullP {
			demand++
		}
		if demand > baseline && s.rng.Float64() < baselinePullP {
			demand--
		}

		s.Demand[chem.ID] = clampDemand(demand)
	}

	s.SoldThisTurn = make(map[catalog.ChemicalID]int64)
}

func clampDemand(d int) int {
	if d < 1 {
		return 1
	}
	if d > 5 {
		return 5
	}
	return d
}

// CurrentEra returns the era active for the player's tech level.
func (s *State) CurrentEra() *catalog.Era {
	return s.cat.EraForLevel(s.TechLevel)
}
