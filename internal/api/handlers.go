package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/talgya/chemworks/internal/catalog"
	"github.com/talgya/chemworks/internal/sim"
)

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "bad request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// chemicalID resolves a request string to a catalog chemical, rejecting
// unknown identifiers at the boundary so the engine only ever sees
// validated IDs.
func (s *Server) chemicalID(w http.ResponseWriter, raw string) (catalog.ChemicalID, bool) {
	id := catalog.ChemicalID(raw)
	if s.State.Catalog().Chemical(id) == nil {
		http.Error(w, "unknown chemical "+raw, http.StatusBadRequest)
		return "", false
	}
	return id, true
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	needed, _ := s.State.ResearchNeeded()
	writeJSON(w, map[string]any{
		"name":              "chemworks",
		"run_id":            s.State.RunID,
		"turn":              s.State.Turn,
		"money":             s.State.Money,
		"tech_level":        s.State.TechLevel,
		"research_progress": s.State.ResearchProgress,
		"research_needed":   needed,
		"research_percent":  s.State.ResearchPercent(),
		"era":               s.State.CurrentEra().Name,
		"company_value":     s.State.CompanyValue(),
		"plants":            len(s.State.Plants),
	})
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		ID          catalog.ChemicalID `json:"id"`
		Name        string             `json:"name"`
		Raw         bool               `json:"raw"`
		Price       int64              `json:"price"`
		Trend       string             `json:"trend"`
		Demand      int                `json:"demand,omitempty"`
		DemandLabel string             `json:"demand_label,omitempty"`
		MaxSell     int64              `json:"max_sell,omitempty"`
		Remaining   int64              `json:"remaining_sellable,omitempty"`
	}

	cat := s.State.Catalog()
	entries := make([]entry, 0, len(cat.Chemicals))
	for _, chem := range cat.Chemicals {
		e := entry{
			ID:    chem.ID,
			Name:  chem.Name,
			Raw:   chem.Raw,
			Price: s.State.Prices[chem.ID],
			Trend: trendName(s.State.PriceTrend(chem.ID)),
		}
		if !chem.Raw {
			d := s.State.Demand[chem.ID]
			e.Demand = d
			e.DemandLabel = cat.DemandLabel(d)
			e.MaxSell = cat.MaxSell(d)
			e.Remaining = s.State.RemainingSellable(chem.ID)
		}
		entries = append(entries, e)
	}
	writeJSON(w, map[string]any{"chemicals": entries})
}

func trendName(t sim.Trend) string {
	switch t {
	case sim.TrendUp:
		return "up"
	case sim.TrendDown:
		return "down"
	default:
		return "flat"
	}
}

func (s *Server) handlePlants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"plants": s.State.PlantViews()})
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		ID       catalog.ChemicalID `json:"id"`
		Name     string             `json:"name"`
		Quantity int64              `json:"quantity"`
		Value    int64              `json:"value"`
	}

	var entries []entry
	for _, chem := range s.State.Catalog().Chemicals {
		qty := s.State.Inventory[chem.ID]
		if qty == 0 {
			continue
		}
		entries = append(entries, entry{
			ID:       chem.ID,
			Name:     chem.Name,
			Quantity: qty,
			Value:    qty * s.State.Prices[chem.ID],
		})
	}
	writeJSON(w, map[string]any{"inventory": entries})
}

func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	needed, hasNext := s.State.ResearchNeeded()
	writeJSON(w, map[string]any{
		"tech_level": s.State.TechLevel,
		"max_level":  s.State.Catalog().MaxLevel(),
		"progress":   s.State.ResearchProgress,
		"needed":     needed,
		"percent":    s.State.ResearchPercent(),
		"terminal":   !hasNext,
		"era":        s.State.CurrentEra(),
	})
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"log": s.State.RecentLog()})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.State.Catalog()
	writeJSON(w, map[string]any{
		"chemicals":   cat.Chemicals,
		"processes":   cat.Processes,
		"eras":        cat.Eras,
		"tech_levels": cat.TechLevels,
	})
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Chemical string `json:"chemical"`
		Qty      int64  `json:"qty"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	id, ok := s.chemicalID(w, req.Chemical)
	if !ok {
		return
	}
	res := s.State.BuyChemical(id, req.Qty)
	s.record("buy", res.Result)
	writeJSON(w, res)
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Chemical string `json:"chemical"`
		Qty      int64  `json:"qty"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	id, ok := s.chemicalID(w, req.Chemical)
	if !ok {
		return
	}
	if s.State.Catalog().Chemical(id).Raw {
		http.Error(w, "raw materials cannot be sold", http.StatusBadRequest)
		return
	}
	res := s.State.SellChemical(id, req.Qty)
	s.record("sell", res.Result)
	writeJSON(w, res)
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Process string `json:"process"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	res := s.State.BuildPlant(catalog.ProcessID(req.Process))
	s.record("build", res.Result)
	writeJSON(w, res)
}

func (s *Server) handleDemolish(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlantID int `json:"plant_id"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	res := s.State.DemolishPlant(req.PlantID)
	s.record("demolish", res.Result)
	writeJSON(w, res)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlantID int `json:"plant_id"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	s.State.TogglePlant(req.PlantID)
	writeJSON(w, map[string]any{"plants": s.State.PlantViews()})
}

func (s *Server) handleInvest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	res := s.State.InvestResearch(req.Amount)
	s.record("invest_research", res.Result)
	writeJSON(w, res)
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	report := s.State.ProcessTurn()
	if s.Hist != nil {
		if err := s.Hist.RecordTurn(s.State, report); err != nil {
			// Telemetry only; the turn itself already happened.
			http.Error(w, "turn processed; history record failed: "+err.Error(), http.StatusInternalServerError)
			return
		}
	}
	writeJSON(w, report)
}

func (s *Server) record(kind string, res sim.Result) {
	if s.Hist == nil {
		return
	}
	s.Hist.RecordAction(s.State, kind, res)
}

func (s *Server) handleTurnHistory(w http.ResponseWriter, r *http.Request) {
	if s.Hist == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	rows, err := s.Hist.RunHistory(s.State.RunID.String(), 50)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"turns": rows})
}

// handlePriceHistory serves GET /api/v1/history/prices/{chemical}.
func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	if s.Hist == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}
	raw := strings.TrimPrefix(r.URL.Path, "/api/v1/history/prices/")
	id, ok := s.chemicalID(w, raw)
	if !ok {
		return
	}
	points, err := s.Hist.PriceHistory(s.State.RunID.String(), string(id), 100)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"chemical": id, "prices": points})
}
