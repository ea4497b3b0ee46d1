package sim

import (
	"strings"

	"github.com/talgya/chemworks/internal/catalog"
)

// ProductionResult reports one plant's outcome for a production cycle.
type ProductionResult struct {
	PlantID int                          `json:"plant_id"`
	Process catalog.ProcessID            `json:"process"`
	OK      bool                         `json:"ok"`
	Reason  string                       `json:"reason,omitempty"`
	Outputs map[catalog.ChemicalID]int64 `json:"outputs,omitempty"`
	Cost    int64                        `json:"cost,omitempty"`
}

// RunProduction resolves one production cycle across all plants in
// collection order. Each plant's consumption is applied before the next
// plant is evaluated, so plants sharing a scarce input compete in build
// order: first built, first served. Production is all-or-nothing per
// plant: a plant short on any input consumes nothing and produces
// nothing that cycle. Operating cost is charged only on success and may
// drive the treasury negative.
func (s *State) RunProduction() []ProductionResult {
	results := make([]ProductionResult, 0, len(s.Plants))

	for _, plant := range s.Plants {
		if !plant.Active {
			results = append(results, ProductionResult{
				PlantID: plant.ID,
				Process: plant.Process,
				OK:      false,
				Reason:  "halted",
			})
			continue
		}

		proc := s.cat.Process(plant.Process)

		var missing []string
		for _, chem := range s.cat.Chemicals {
			need, ok := proc.Inputs[chem.ID]
			if !ok {
				continue
			}
			if s.Inventory[chem.ID] < need {
				missing = append(missing, chem.Name)
			}
		}

		if len(missing) > 0 {
			results = append(results, ProductionResult{
				PlantID: plant.ID,
				Process: plant.Process,
				OK:      false,
				Reason:  "insufficient inputs: " + strings.Join(missing, ", "),
			})
			continue
		}

		for id, need := range proc.Inputs {
			s.Inventory[id] -= need
		}
		outputs := make(map[catalog.ChemicalID]int64, len(proc.Outputs))
		for id, qty := range proc.Outputs {
			s.Inventory[id] += qty
			outputs[id] = qty
		}
		s.Money -= proc.OperatingCost

		results = append(results, ProductionResult{
			PlantID: plant.ID,
			Process: plant.Process,
			OK:      true,
			Outputs: outputs,
			Cost:    proc.OperatingCost,
		})
	}

	return results
}
