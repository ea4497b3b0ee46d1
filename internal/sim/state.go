// Package sim is the simulation engine: a single mutable game state
// advanced by discrete turns and player actions. The engine performs no
// I/O; presentation layers read snapshots through the accessor surface
// and invoke actions, one at a time. A process serving many sessions
// gives each its own State; the engine assumes single ownership.
package sim

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/chemworks/internal/catalog"
)

// Severity classifies event log entries.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// Event is one entry in the append-only game log.
type Event struct {
	Turn     int      `json:"turn"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Plant is a built production unit running one fixed process. Plants are
// created by BuildPlant, removed by DemolishPlant, and have their Active
// flag flipped by TogglePlant; nothing else mutates them.
type Plant struct {
	ID        int               `json:"id"`
	Process   catalog.ProcessID `json:"process"`
	Active    bool              `json:"active"`
	BuiltTurn int               `json:"built_turn"`
}

// State is the complete mutable game state. Inventory and trade
// quantities are whole tons; every catalog quantity is integral, so
// integer arithmetic is exact and nothing ever drifts.
type State struct {
	RunID uuid.UUID `json:"run_id"`

	Money            int64    `json:"money"`
	Turn             int      `json:"turn"`
	TechLevel        int      `json:"tech_level"`
	ResearchProgress int64    `json:"research_progress"`
	Plants           []*Plant `json:"plants"`

	Inventory    map[catalog.ChemicalID]int64 `json:"inventory"`
	Prices       map[catalog.ChemicalID]int64 `json:"prices"`
	Demand       map[catalog.ChemicalID]int   `json:"demand"`
	SoldThisTurn map[catalog.ChemicalID]int64 `json:"sold_this_turn"`

	Log []Event `json:"log"`

	cat         *catalog.Catalog
	rng         Source
	prevPrices  map[catalog.ChemicalID]int64
	nextPlantID int
}

// New creates a fresh game: full treasury, no plants, empty inventory,
// prices seeded from base prices, demand seeded from the first era's
// baselines.
func New(cat *catalog.Catalog, rng Source) *State {
	s := &State{
		RunID:        uuid.New(),
		Money:        cat.StartingMoney,
		Turn:         1,
		TechLevel:    1,
		Inventory:    make(map[catalog.ChemicalID]int64),
		Prices:       make(map[catalog.ChemicalID]int64, len(cat.Chemicals)),
		Demand:       make(map[catalog.ChemicalID]int),
		SoldThisTurn: make(map[catalog.ChemicalID]int64),
		prevPrices:   make(map[catalog.ChemicalID]int64, len(cat.Chemicals)),
		cat:          cat,
		rng:          rng,
		nextPlantID:  1,
	}

	for _, chem := range cat.Chemicals {
		s.Prices[chem.ID] = chem.BasePrice
		s.prevPrices[chem.ID] = chem.BasePrice
	}

	era := &cat.Eras[0]
	for _, chem := range cat.Chemicals {
		if chem.Raw {
			continue
		}
		s.Demand[chem.ID] = baselineDemand(era, chem.ID)
	}

	s.logEvent(SeverityInfo, "Welcome to the chemical works.")
	s.logEvent(SeverityInfo, "Build your first production plant to get started.")
	return s
}

// Catalog returns the reference data this state was built against.
func (s *State) Catalog() *catalog.Catalog {
	return s.cat
}

// baselineDemand returns the era's baseline demand for a product,
// defaulting to 2 for products the era's table does not mention.
func baselineDemand(era *catalog.Era, id catalog.ChemicalID) int {
	if d, ok := era.BaseDemand[id]; ok {
		return d
	}
	return 2
}

func (s *State) logEvent(sev Severity, format string, args ...any) {
	s.Log = append(s.Log, Event{
		Turn:     s.Turn,
		Message:  fmt.Sprintf(format, args...),
		Severity: sev,
	})
}

func (s *State) findPlant(id int) (int, *Plant) {
	for i, p := range s.Plants {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}
