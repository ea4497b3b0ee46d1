// Package catalog holds the static reference data for the chemical
// industry simulation: chemical definitions, production processes, eras,
// and the technology ladder. The catalog is loaded once at startup and
// treated as immutable for the session.
package catalog

// ChemicalID identifies a chemical in the catalog. Engine code only ever
// handles IDs that came out of a validated Catalog, so lookups by ID are
// guaranteed to resolve.
type ChemicalID string

// Well-known chemical IDs from the default catalog.
const (
	Salt             ChemicalID = "salt"
	Limestone        ChemicalID = "limestone"
	Sulfur           ChemicalID = "sulfur"
	Coal             ChemicalID = "coal"
	SulfuricAcid     ChemicalID = "sulfuric_acid"
	SodaAsh          ChemicalID = "soda_ash"
	HydrochloricAcid ChemicalID = "hydrochloric_acid"
	CausticSoda      ChemicalID = "caustic_soda"
	Chlorine         ChemicalID = "chlorine"
)

// ProcessID identifies a production process in the catalog.
type ProcessID string

// Well-known process IDs from the default catalog.
const (
	Contact     ProcessID = "contact"
	Leblanc     ProcessID = "leblanc"
	Solvay      ProcessID = "solvay"
	Chloralkali ProcessID = "chloralkali"
)

// Chemical is a tradeable substance. Raw chemicals are only ever
// purchased; products are manufactured and sold against market demand.
type Chemical struct {
	ID        ChemicalID `yaml:"id"`
	Name      string     `yaml:"name"`
	BasePrice int64      `yaml:"base_price"` // currency units per ton
	Raw       bool       `yaml:"raw"`
}

// Process is a recipe converting input tons into output tons per cycle at
// a fixed operating cost.
type Process struct {
	ID            ProcessID            `yaml:"id"`
	Name          string               `yaml:"name"`
	Desc          string               `yaml:"desc"`
	Inputs        map[ChemicalID]int64 `yaml:"inputs"`
	Outputs       map[ChemicalID]int64 `yaml:"outputs"`
	TechRequired  int                  `yaml:"tech_required"`
	BuildCost     int64                `yaml:"build_cost"`
	OperatingCost int64                `yaml:"operating_cost"`
}

// Era is a phase of the simulated economy. BaseDemand sets the demand
// level (1-5) each product gravitates toward while the era is active.
type Era struct {
	Name       string             `yaml:"name"`
	Desc       string             `yaml:"desc"`
	BaseDemand map[ChemicalID]int `yaml:"base_demand"`
}

// TechLevel is one rung of the research ladder. ResearchNeeded is the
// cumulative investment required to reach this level from the completion
// of the previous one.
type TechLevel struct {
	Level          int         `yaml:"level"`
	ResearchNeeded int64       `yaml:"research_needed"`
	Unlocks        []ProcessID `yaml:"unlocks"`
	EraIndex       int         `yaml:"era_index"`
}

// Catalog is the full set of reference tables. Slices preserve file order
// so iteration over chemicals and processes is deterministic.
type Catalog struct {
	StartingMoney int64       `yaml:"starting_money"`
	Chemicals     []Chemical  `yaml:"chemicals"`
	Processes     []Process   `yaml:"processes"`
	Eras          []Era       `yaml:"eras"`
	TechLevels    []TechLevel `yaml:"tech_levels"` // ascending by level
	DemandLabels  []string    `yaml:"demand_labels"`
	DemandMaxSell []int64     `yaml:"demand_max_sell"` // indexed by demand level 1-5

	chemIndex map[ChemicalID]*Chemical
	procIndex map[ProcessID]*Process
}

// Chemical returns the chemical for a validated ID.
func (c *Catalog) Chemical(id ChemicalID) *Chemical {
	return c.chemIndex[id]
}

// Process returns the process for a validated ID, or nil if unknown.
// Build requests arrive with caller-supplied IDs, so unlike chemicals
// this lookup is allowed to miss.
func (c *Catalog) Process(id ProcessID) *Process {
	return c.procIndex[id]
}

// Products returns the non-raw chemicals in catalog order.
func (c *Catalog) Products() []Chemical {
	var out []Chemical
	for _, chem := range c.Chemicals {
		if !chem.Raw {
			out = append(out, chem)
		}
	}
	return out
}

// MaxLevel returns the highest defined tech level.
func (c *Catalog) MaxLevel() int {
	return c.TechLevels[len(c.TechLevels)-1].Level
}

// NextLevel returns the tech level following the given one, or nil when
// the given level is terminal.
func (c *Catalog) NextLevel(current int) *TechLevel {
	for i := range c.TechLevels {
		if c.TechLevels[i].Level == current+1 {
			return &c.TechLevels[i]
		}
	}
	return nil
}

// EraForLevel resolves the active era for a tech level by scanning the
// ladder from highest to lowest and taking the era of the highest rung
// reached. Level 1 always qualifies, so the fallback to era 0 is
// unreachable with a validated catalog.
func (c *Catalog) EraForLevel(level int) *Era {
	for i := len(c.TechLevels) - 1; i >= 0; i-- {
		if level >= c.TechLevels[i].Level {
			return &c.Eras[c.TechLevels[i].EraIndex]
		}
	}
	return &c.Eras[0]
}

// MaxSell returns the per-turn sale ceiling for a demand level.
func (c *Catalog) MaxSell(demand int) int64 {
	return c.DemandMaxSell[demand]
}

// DemandLabel returns the display label for a demand level.
func (c *Catalog) DemandLabel(demand int) string {
	return c.DemandLabels[demand]
}
