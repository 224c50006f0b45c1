// Package forecast exposes the driver-based forecaster over HTTP.
package forecast

import (
	"encoding/json"
	"net/http"

	"github.com/funkydonkey/fcf-planner/pkg/core/drivers"
	"github.com/funkydonkey/fcf-planner/pkg/core/forecast"
	"github.com/funkydonkey/fcf-planner/pkg/core/report"
)

// DriverInput is the wire form of a driver set. Values pass through the
// validating constructors before any computation.
type DriverInput struct {
	DSODays float64 `json:"dso_days"`
	DPODays float64 `json:"dpo_days"`
	DIODays float64 `json:"dio_days"`

	RevenueGrowthPct   float64   `json:"revenue_growth_pct"`
	GrossMarginPct     float64   `json:"gross_margin_pct"`
	SeasonalityFactors []float64 `json:"seasonality_factors,omitempty"`

	CapExPctOfRevenue *float64 `json:"capex_pct_of_revenue,omitempty"`
	DepreciationYears *int     `json:"depreciation_years,omitempty"`

	InterestRatePct *float64 `json:"interest_rate_pct,omitempty"`
	DebtToEquity    *float64 `json:"debt_to_equity,omitempty"`
	TaxRatePct      *float64 `json:"tax_rate_pct,omitempty"`

	Industry string `json:"industry,omitempty"`
}

// ToDrivers validates and assembles the driver set.
func (in DriverInput) ToDrivers() (*drivers.ForecastDrivers, error) {
	wc, err := drivers.NewWorkingCapitalDrivers(in.DSODays, in.DPODays, in.DIODays)
	if err != nil {
		return nil, err
	}
	rev, err := drivers.NewRevenueDrivers(in.RevenueGrowthPct, in.GrossMarginPct, in.SeasonalityFactors)
	if err != nil {
		return nil, err
	}

	var capex *drivers.CapExDrivers
	if in.CapExPctOfRevenue != nil {
		years := 10
		if in.DepreciationYears != nil {
			years = *in.DepreciationYears
		}
		capex, err = drivers.NewCapExDrivers(*in.CapExPctOfRevenue, years)
		if err != nil {
			return nil, err
		}
	}

	var financing *drivers.FinancingDrivers
	if in.InterestRatePct != nil || in.DebtToEquity != nil || in.TaxRatePct != nil {
		rate, de, tax := 0.0, 0.0, 0.0
		if in.InterestRatePct != nil {
			rate = *in.InterestRatePct
		}
		if in.DebtToEquity != nil {
			de = *in.DebtToEquity
		}
		if in.TaxRatePct != nil {
			tax = *in.TaxRatePct
		}
		financing, err = drivers.NewFinancingDrivers(rate, de, tax)
		if err != nil {
			return nil, err
		}
	}

	return drivers.NewForecastDrivers(wc, rev, capex, financing, drivers.Industry(in.Industry))
}

// GenerateRequest is the body of POST /api/forecast/generate.
type GenerateRequest struct {
	History []forecast.HistoryPoint `json:"history"`
	Drivers DriverInput             `json:"drivers"`
	Periods int                     `json:"periods"`
}

// GenerateResponse carries the forecast table, advisory warnings and a
// pre-rendered HTML report.
type GenerateResponse struct {
	Forecast   forecast.Table `json:"forecast"`
	Warnings   []string       `json:"warnings"`
	ReportHTML string         `json:"report_html,omitempty"`
}

func writeCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// HandleGenerate runs one driver-based forecast.
func HandleGenerate(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	d, err := req.Drivers.ToDrivers()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	table, err := forecast.New(d).Generate(req.History, req.Periods)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	html, err := report.RenderHTML(report.ForecastMarkdown(table))
	if err != nil {
		// Report rendering is cosmetic; the forecast itself succeeded.
		html = ""
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GenerateResponse{
		Forecast:   table,
		Warnings:   drivers.Validate(d),
		ReportHTML: html,
	})
}

// HandleValidate returns advisory warnings for a driver set without
// running any forecast.
func HandleValidate(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	var in DriverInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	d, err := in.ToDrivers()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"warnings": drivers.Validate(d)})
}

// HandleIndustryDefaults returns benchmark-seeded drivers for
// ?industry=<name>.
func HandleIndustryDefaults(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)
	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	industry := drivers.Industry(r.URL.Query().Get("industry"))
	defaults, err := drivers.IndustryDefaults(industry)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(defaults)
}
