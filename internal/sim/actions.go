package sim

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/talgya/chemworks/internal/catalog"
)

// Result is the outcome of a player action. Business-rule violations
// (bad quantity, insufficient funds or stock, demand ceiling, tech gate)
// are ordinary failed Results, never errors: every action either fully
// applies its effects or applies none. The one intentional exception is
// a partial-fill sell, which is a reported partial success.
type Result struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func failure(format string, args ...any) Result {
	return Result{OK: false, Message: fmt.Sprintf(format, args...)}
}

// BuyResult carries the computed total for a purchase.
type BuyResult struct {
	Result
	Quantity  int64 `json:"quantity"`
	TotalCost int64 `json:"total_cost"`
}

// BuyChemical purchases qty tons at the current market price. Raw
// materials are unconstrained on the buy side; the only gates are a
// positive quantity and sufficient funds.
func (s *State) BuyChemical(id catalog.ChemicalID, qty int64) BuyResult {
	if qty <= 0 {
		return BuyResult{Result: failure("invalid quantity")}
	}

	chem := s.cat.Chemical(id)
	total := s.Prices[id] * qty
	if s.Money < total {
		return BuyResult{Result: failure("insufficient funds")}
	}

	s.Money -= total
	s.Inventory[id] += qty

	msg := fmt.Sprintf("Bought %dt of %s for ¥%s", qty, chem.Name, humanize.Comma(total))
	s.logEvent(SeveritySuccess, "%s", msg)
	return BuyResult{
		Result:    Result{OK: true, Message: msg},
		Quantity:  qty,
		TotalCost: total,
	}
}

// SellResult carries the actually-sold quantity, which may fall short of
// the request when the demand ceiling cuts it off.
type SellResult struct {
	Result
	Requested int64 `json:"requested"`
	Sold      int64 `json:"sold"`
	Revenue   int64 `json:"revenue"`
}

// SellChemical sells up to qty tons at the current market price, capped
// by the turn's demand ceiling. Stock must cover the full requested
// quantity; a request exceeding stock fails on stock even when demand
// would also have blocked it.
func (s *State) SellChemical(id catalog.ChemicalID, qty int64) SellResult {
	if qty <= 0 {
		return SellResult{Result: failure("invalid quantity")}
	}
	if s.Inventory[id] < qty {
		return SellResult{Result: failure("insufficient stock")}
	}

	maxSell := s.cat.MaxSell(s.Demand[id])
	already := s.SoldThisTurn[id]
	sellable := min(qty, maxSell-already)
	if sellable <= 0 {
		return SellResult{Result: failure("demand ceiling reached, max %dt this period", maxSell)}
	}

	chem := s.cat.Chemical(id)
	revenue := s.Prices[id] * sellable

	s.Inventory[id] -= sellable
	s.Money += revenue
	s.SoldThisTurn[id] = already + sellable

	var msg strings.Builder
	fmt.Fprintf(&msg, "Sold %dt of %s for ¥%s", sellable, chem.Name, humanize.Comma(revenue))
	if sellable < qty {
		fmt.Fprintf(&msg, " (%dt unsold, demand ceiling)", qty-sellable)
	}
	s.logEvent(SeveritySuccess, "%s", msg.String())
	return SellResult{
		Result:    Result{OK: true, Message: msg.String()},
		Requested: qty,
		Sold:      sellable,
		Revenue:   revenue,
	}
}

// BuildResult carries the new plant's identifier.
type BuildResult struct {
	Result
	PlantID int `json:"plant_id"`
}

// BuildPlant constructs a new plant for the given process. The plant
// starts active, stamped with the current turn, and receives a fresh
// strictly-increasing identifier that is never reused.
func (s *State) BuildPlant(pid catalog.ProcessID) BuildResult {
	proc := s.cat.Process(pid)
	if proc == nil {
		return BuildResult{Result: failure("unknown process %q", pid)}
	}
	if proc.TechRequired > s.TechLevel {
		return BuildResult{Result: failure("technology level %d required", proc.TechRequired)}
	}
	if s.Money < proc.BuildCost {
		return BuildResult{Result: failure("insufficient funds")}
	}

	s.Money -= proc.BuildCost
	plant := &Plant{
		ID:        s.nextPlantID,
		Process:   pid,
		Active:    true,
		BuiltTurn: s.Turn,
	}
	s.nextPlantID++
	s.Plants = append(s.Plants, plant)

	msg := fmt.Sprintf("Built %s plant #%d for ¥%s", proc.Name, plant.ID, humanize.Comma(proc.BuildCost))
	s.logEvent(SeveritySuccess, "%s", msg)
	return BuildResult{
		Result:  Result{OK: true, Message: msg},
		PlantID: plant.ID,
	}
}

// DemolishResult carries the refunded amount.
type DemolishResult struct {
	Result
	Refund int64 `json:"refund"`
}

// DemolishPlant removes a plant, refunding 20% of its build cost. The
// identifier is retired permanently.
func (s *State) DemolishPlant(plantID int) DemolishResult {
	idx, plant := s.findPlant(plantID)
	if plant == nil {
		return DemolishResult{Result: failure("no plant #%d", plantID)}
	}

	proc := s.cat.Process(plant.Process)
	refund := proc.BuildCost / 5
	s.Money += refund
	s.Plants = append(s.Plants[:idx], s.Plants[idx+1:]...)

	msg := fmt.Sprintf("Demolished %s plant #%d (refund ¥%s)", proc.Name, plantID, humanize.Comma(refund))
	s.logEvent(SeverityWarn, "%s", msg)
	return DemolishResult{
		Result: Result{OK: true, Message: msg},
		Refund: refund,
	}
}

// TogglePlant flips a plant's active flag. Unknown identifiers are a
// silent no-op: the presentation flow only ever toggles plants it just
// listed.
func (s *State) TogglePlant(plantID int) {
	_, plant := s.findPlant(plantID)
	if plant == nil {
		return
	}
	plant.Active = !plant.Active
}

// ResearchResult reports a research investment and any level transition
// it triggered.
type ResearchResult struct {
	Result
	LeveledUp  bool                `json:"leveled_up"`
	NewLevel   int                 `json:"new_level,omitempty"`
	Unlocked   []catalog.ProcessID `json:"unlocked,omitempty"`
	EraChanged bool                `json:"era_changed"`
}

// InvestResearch spends treasury on research progress. Crossing the next
// level's threshold advances the tech level by exactly one step, never
// more, even when the invested amount would satisfy several thresholds;
// any progress beyond the threshold is discarded, not carried forward.
// At the maximum level the action unconditionally fails.
func (s *State) InvestResearch(amount int64) ResearchResult {
	if amount <= 0 {
		return ResearchResult{Result: failure("invalid amount")}
	}
	if s.Money < amount {
		return ResearchResult{Result: failure("insufficient funds")}
	}
	next := s.cat.NextLevel(s.TechLevel)
	if next == nil {
		return ResearchResult{Result: failure("already at maximum technology level")}
	}

	s.Money -= amount
	s.ResearchProgress += amount

	var msg strings.Builder
	fmt.Fprintf(&msg, "Invested ¥%s in research", humanize.Comma(amount))
	res := ResearchResult{}

	if s.ResearchProgress >= next.ResearchNeeded {
		eraBefore := s.CurrentEra()
		s.TechLevel++
		s.ResearchProgress = 0

		res.LeveledUp = true
		res.NewLevel = s.TechLevel
		res.Unlocked = next.Unlocks
		res.EraChanged = s.CurrentEra() != eraBefore

		fmt.Fprintf(&msg, ". Technology level %d reached!", s.TechLevel)
		for _, pid := range next.Unlocks {
			fmt.Fprintf(&msg, " %s unlocked.", s.cat.Process(pid).Name)
		}
		if res.EraChanged {
			fmt.Fprintf(&msg, " A new era begins: %s.", s.CurrentEra().Name)
		}
	}

	res.Result = Result{OK: true, Message: msg.String()}
	s.logEvent(SeveritySuccess, "%s", msg.String())
	return res
}
