// Package scenario exposes scenario comparison, Monte Carlo simulation,
// sensitivity analysis and scenario persistence over HTTP.
package scenario

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	apiforecast "github.com/funkydonkey/fcf-planner/pkg/api/forecast"
	"github.com/funkydonkey/fcf-planner/pkg/core/forecast"
	"github.com/funkydonkey/fcf-planner/pkg/core/report"
	"github.com/funkydonkey/fcf-planner/pkg/core/scenario"
	"github.com/funkydonkey/fcf-planner/pkg/core/sensitivity"
	"github.com/funkydonkey/fcf-planner/pkg/core/store"
)

// Handler holds dependencies for scenario endpoints.
type Handler struct {
	Repo              *store.ScenarioRepo
	MonteCarloDefault int // trial count used when the request omits it
}

// NewHandler creates a scenario handler.
func NewHandler(repo *store.ScenarioRepo, monteCarloDefault int) *Handler {
	if monteCarloDefault <= 0 {
		monteCarloDefault = 1000
	}
	return &Handler{Repo: repo, MonteCarloDefault: monteCarloDefault}
}

// RunRequest is the common body for scenario-family endpoints.
type RunRequest struct {
	History      []forecast.HistoryPoint `json:"history"`
	Drivers      apiforecast.DriverInput `json:"drivers"`
	Periods      int                     `json:"periods"`
	NSimulations int                     `json:"n_simulations,omitempty"`
	DriverName   string                  `json:"driver_name,omitempty"`
	Variations   []float64               `json:"variations,omitempty"`
}

func writeCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func decodeRun(w http.ResponseWriter, r *http.Request) (*RunRequest, bool) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

// HandleRunScenarios runs Base/Optimistic/Pessimistic and returns the
// name-keyed results plus a rendered comparison report.
func (h *Handler) HandleRunScenarios(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	req, ok := decodeRun(w, r)
	if !ok {
		return
	}
	base, err := req.Drivers.ToDrivers()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	results, err := scenario.NewEngine(base).RunScenarios(req.History, req.Periods)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	outcomes := make([]report.ScenarioOutcome, 0, len(results))
	for name, res := range results {
		outcomes = append(outcomes, report.ScenarioOutcome{
			Name:                   name,
			TotalFreeCashflow:      res.TotalFreeCashflow,
			TotalOperatingCashflow: res.TotalOperatingCashflow,
			AvgCCCDays:             res.AvgCCCDays,
			Probability:            res.Probability,
			Description:            res.Description,
		})
	}
	html, _ := report.RenderHTML(report.ScenarioMarkdown(outcomes))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"results":     results,
		"report_html": html,
	})
}

// HandleMonteCarlo runs the randomized simulation and returns the
// distribution statistics. Honors client disconnects between trials.
func (h *Handler) HandleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	req, ok := decodeRun(w, r)
	if !ok {
		return
	}
	base, err := req.Drivers.ToDrivers()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n := req.NSimulations
	if n == 0 {
		n = h.MonteCarloDefault
	}

	result, err := scenario.NewEngine(base).RunMonteCarlo(r.Context(), req.History, n, req.Periods)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleSensitivity runs a one-driver variation sweep.
func (h *Handler) HandleSensitivity(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	req, ok := decodeRun(w, r)
	if !ok {
		return
	}
	base, err := req.Drivers.ToDrivers()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	results, err := sensitivity.NewAnalyzer(base).AnalyzeDriverSensitivity(
		req.History, req.DriverName, req.Variations, req.Periods)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// JSON object keys must be strings; keep float keys printable.
	out := make(map[string]float64, len(results))
	for pct, fcf := range results {
		out[fmt.Sprintf("%g", pct)] = fcf
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// HandleTornado returns the impact-ranked tornado entries plus a
// rendered report.
func (h *Handler) HandleTornado(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	req, ok := decodeRun(w, r)
	if !ok {
		return
	}
	base, err := req.Drivers.ToDrivers()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := sensitivity.NewAnalyzer(base).TornadoChartData(req.History, req.Periods)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bars := make([]report.TornadoBar, len(entries))
	for i, e := range entries {
		bars[i] = report.TornadoBar{
			DriverName: e.DriverName,
			LowValue:   e.LowValue,
			BaseValue:  e.BaseValue,
			HighValue:  e.HighValue,
		}
	}
	html, _ := report.RenderHTML(report.TornadoMarkdown(bars))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"tornado":     entries,
		"report_html": html,
	})
}

// SaveRequest is the body of POST /api/scenario/save.
type SaveRequest struct {
	ForecastPeriod string                  `json:"forecast_period"`
	Description    string                  `json:"description,omitempty"`
	CreatedBy      string                  `json:"created_by,omitempty"`
	Drivers        apiforecast.DriverInput `json:"drivers"`
	Lines          []store.ScenarioLine    `json:"lines"`
	Forecast       forecast.Table          `json:"forecast,omitempty"`
}

// HandleSave persists a scenario run.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ForecastPeriod == "" {
		http.Error(w, "forecast_period is required", http.StatusBadRequest)
		return
	}
	d, err := req.Drivers.ToDrivers()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = "user"
	}

	id, err := h.Repo.Save(r.Context(), req.ForecastPeriod, req.Lines,
		req.Description, createdBy, store.SnapshotDrivers(d), req.Forecast)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"id": id.String()})
}

// HandleList returns saved scenarios, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	records, err := h.Repo.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

// HandleLines returns the stored lines and drivers of one scenario,
// ?id=<uuid>.
func (h *Handler) HandleLines(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	id, err := uuid.Parse(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "invalid scenario id", http.StatusBadRequest)
		return
	}

	lines, err := h.Repo.Lines(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	snapshot, table, err := h.Repo.Drivers(r.Context(), id)
	if err != nil {
		// Drivers were optional in older saves; lines alone still render.
		snapshot, table = nil, nil
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"lines":    lines,
		"drivers":  snapshot,
		"forecast": table,
	})
}
