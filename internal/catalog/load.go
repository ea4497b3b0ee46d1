package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultData []byte

// Default loads the embedded reference data.
func Default() (*Catalog, error) {
	return Parse(defaultData)
}

// LoadFile loads reference data from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse unmarshals and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	return &c, nil
}

// validate enforces the closed-world invariants: every identifier used
// anywhere in the catalog resolves to a defined entry. A catalog that
// passes here cannot produce a dangling lookup at runtime.
func (c *Catalog) validate() error {
	if len(c.Chemicals) == 0 {
		return fmt.Errorf("no chemicals defined")
	}
	if len(c.Eras) == 0 {
		return fmt.Errorf("no eras defined")
	}
	if c.StartingMoney <= 0 {
		return fmt.Errorf("starting_money must be positive, got %d", c.StartingMoney)
	}

	c.chemIndex = make(map[ChemicalID]*Chemical, len(c.Chemicals))
	for i := range c.Chemicals {
		chem := &c.Chemicals[i]
		if chem.ID == "" {
			return fmt.Errorf("chemical %d has empty id", i)
		}
		if _, dup := c.chemIndex[chem.ID]; dup {
			return fmt.Errorf("duplicate chemical %q", chem.ID)
		}
		if chem.BasePrice <= 0 {
			return fmt.Errorf("chemical %q: base_price must be positive", chem.ID)
		}
		c.chemIndex[chem.ID] = chem
	}

	c.procIndex = make(map[ProcessID]*Process, len(c.Processes))
	for i := range c.Processes {
		proc := &c.Processes[i]
		if proc.ID == "" {
			return fmt.Errorf("process %d has empty id", i)
		}
		if _, dup := c.procIndex[proc.ID]; dup {
			return fmt.Errorf("duplicate process %q", proc.ID)
		}
		for chemID, qty := range proc.Inputs {
			if _, ok := c.chemIndex[chemID]; !ok {
				return fmt.Errorf("process %q: unknown input chemical %q", proc.ID, chemID)
			}
			if qty <= 0 {
				return fmt.Errorf("process %q: input %q quantity must be positive", proc.ID, chemID)
			}
		}
		for chemID, qty := range proc.Outputs {
			if _, ok := c.chemIndex[chemID]; !ok {
				return fmt.Errorf("process %q: unknown output chemical %q", proc.ID, chemID)
			}
			if qty <= 0 {
				return fmt.Errorf("process %q: output %q quantity must be positive", proc.ID, chemID)
			}
		}
		if proc.BuildCost <= 0 || proc.OperatingCost < 0 {
			return fmt.Errorf("process %q: bad costs", proc.ID)
		}
		c.procIndex[proc.ID] = proc
	}

	if len(c.TechLevels) == 0 {
		return fmt.Errorf("no tech levels defined")
	}
	if c.TechLevels[0].Level != 1 || c.TechLevels[0].ResearchNeeded != 0 {
		return fmt.Errorf("tech level 1 must exist and require 0 research")
	}
	for i, tl := range c.TechLevels {
		if tl.Level != i+1 {
			return fmt.Errorf("tech levels must ascend without gaps, got level %d at index %d", tl.Level, i)
		}
		if tl.EraIndex < 0 || tl.EraIndex >= len(c.Eras) {
			return fmt.Errorf("tech level %d: era_index %d out of range", tl.Level, tl.EraIndex)
		}
		for _, pid := range tl.Unlocks {
			if _, ok := c.procIndex[pid]; !ok {
				return fmt.Errorf("tech level %d: unknown unlock process %q", tl.Level, pid)
			}
		}
	}

	for i, era := range c.Eras {
		for chemID, d := range era.BaseDemand {
			chem, ok := c.chemIndex[chemID]
			if !ok {
				return fmt.Errorf("era %d: unknown chemical %q", i, chemID)
			}
			if chem.Raw {
				return fmt.Errorf("era %d: raw material %q cannot carry demand", i, chemID)
			}
			if d < 1 || d > 5 {
				return fmt.Errorf("era %d: demand for %q out of range [1,5]", i, chemID)
			}
		}
	}

	// Demand tables cover levels 0-5 (index 0 unused, kept for direct
	// indexing by level).
	if len(c.DemandMaxSell) != 6 {
		return fmt.Errorf("demand_max_sell must have 6 entries, got %d", len(c.DemandMaxSell))
	}
	if len(c.DemandLabels) != 6 {
		return fmt.Errorf("demand_labels must have 6 entries, got %d", len(c.DemandLabels))
	}

	return nil
}
