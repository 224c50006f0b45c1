// Package drivers defines the financial driver model for cash flow
// forecasting: working capital (DSO/DPO/DIO), revenue growth and margin,
// and optional CapEx and financing assumptions.
//
// Constructors validate numeric ranges and fail hard on out-of-range
// input. Soft "unusual but legal" checks live in validator.go and only
// produce warnings.
package drivers

import (
	"fmt"
)

// Industry identifies a sector with predefined benchmark drivers.
type Industry string

const (
	IndustryRetail        Industry = "retail"
	IndustryManufacturing Industry = "manufacturing"
	IndustryServices      Industry = "services"
	IndustryTechnology    Industry = "technology"
	IndustryHealthcare    Industry = "healthcare"
)

// Industries lists every supported industry.
func Industries() []Industry {
	return []Industry{
		IndustryRetail,
		IndustryManufacturing,
		IndustryServices,
		IndustryTechnology,
		IndustryHealthcare,
	}
}

// Valid reports whether the industry is one of the supported sectors.
func (i Industry) Valid() bool {
	switch i {
	case IndustryRetail, IndustryManufacturing, IndustryServices,
		IndustryTechnology, IndustryHealthcare:
		return true
	}
	return false
}

// checkRange validates an inclusive numeric bound and reports the field,
// offending value and allowed range on failure.
func checkRange(field string, value, min, max float64) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %g and %g, got %g", field, min, max, value)
	}
	return nil
}

// WorkingCapitalDrivers holds the three working capital day counts.
type WorkingCapitalDrivers struct {
	DSODays float64 `json:"dso_days"` // Days Sales Outstanding
	DPODays float64 `json:"dpo_days"` // Days Payable Outstanding
	DIODays float64 `json:"dio_days"` // Days Inventory Outstanding
}

// NewWorkingCapitalDrivers validates each day count against [0, 365].
// Bounds are inclusive: 365 is legal, 365.1 is not.
func NewWorkingCapitalDrivers(dso, dpo, dio float64) (*WorkingCapitalDrivers, error) {
	if err := checkRange("dso_days", dso, 0, 365); err != nil {
		return nil, err
	}
	if err := checkRange("dpo_days", dpo, 0, 365); err != nil {
		return nil, err
	}
	if err := checkRange("dio_days", dio, 0, 365); err != nil {
		return nil, err
	}
	return &WorkingCapitalDrivers{DSODays: dso, DPODays: dpo, DIODays: dio}, nil
}

// CCCDays returns the Cash Conversion Cycle = DSO + DIO - DPO.
// Always derived from the current field values, never stored.
func (w *WorkingCapitalDrivers) CCCDays() float64 {
	return w.DSODays + w.DIODays - w.DPODays
}

// Clone returns an independent copy.
func (w *WorkingCapitalDrivers) Clone() *WorkingCapitalDrivers {
	if w == nil {
		return nil
	}
	c := *w
	return &c
}

// RevenueDrivers holds growth, margin and optional monthly seasonality.
type RevenueDrivers struct {
	RevenueGrowthPct float64 `json:"revenue_growth_pct"` // annual growth, %
	GrossMarginPct   float64 `json:"gross_margin_pct"`   // %

	// SeasonalityFactors, when present, must contain exactly 12 monthly
	// coefficients. A well-formed set sums to roughly 12.0; the sum is
	// only soft-validated.
	SeasonalityFactors []float64 `json:"seasonality_factors,omitempty"`
}

// NewRevenueDrivers validates growth against [-100, 500], margin against
// [0, 100] and, when seasonality is given, requires exactly 12 factors.
func NewRevenueDrivers(growthPct, marginPct float64, seasonality []float64) (*RevenueDrivers, error) {
	if err := checkRange("revenue_growth_pct", growthPct, -100, 500); err != nil {
		return nil, err
	}
	if err := checkRange("gross_margin_pct", marginPct, 0, 100); err != nil {
		return nil, err
	}
	if seasonality != nil && len(seasonality) != 12 {
		return nil, fmt.Errorf("seasonality_factors must have 12 values, got %d", len(seasonality))
	}
	return &RevenueDrivers{
		RevenueGrowthPct:   growthPct,
		GrossMarginPct:     marginPct,
		SeasonalityFactors: seasonality,
	}, nil
}

// Clone returns an independent deep copy, including the seasonality slice.
func (r *RevenueDrivers) Clone() *RevenueDrivers {
	if r == nil {
		return nil
	}
	c := *r
	if r.SeasonalityFactors != nil {
		c.SeasonalityFactors = make([]float64, len(r.SeasonalityFactors))
		copy(c.SeasonalityFactors, r.SeasonalityFactors)
	}
	return &c
}

// CapExDrivers holds capital expenditure assumptions.
type CapExDrivers struct {
	CapExPctOfRevenue float64 `json:"capex_pct_of_revenue"` // %
	DepreciationYears int     `json:"depreciation_years"`
}

// NewCapExDrivers validates CapEx% against [0, 100] and the depreciation
// period against [1, 40] years.
func NewCapExDrivers(capexPct float64, depreciationYears int) (*CapExDrivers, error) {
	if err := checkRange("capex_pct_of_revenue", capexPct, 0, 100); err != nil {
		return nil, err
	}
	if depreciationYears < 1 || depreciationYears > 40 {
		return nil, fmt.Errorf("depreciation_years must be between 1 and 40, got %d", depreciationYears)
	}
	return &CapExDrivers{CapExPctOfRevenue: capexPct, DepreciationYears: depreciationYears}, nil
}

// Clone returns an independent copy.
func (c *CapExDrivers) Clone() *CapExDrivers {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// FinancingDrivers holds debt and tax assumptions. Modeled and validated
// but not yet consumed by the forecaster; reserved for a levered FCF
// extension.
type FinancingDrivers struct {
	InterestRatePct float64 `json:"interest_rate_pct"` // %
	DebtToEquity    float64 `json:"debt_to_equity"`
	TaxRatePct      float64 `json:"tax_rate_pct"` // %
}

// NewFinancingDrivers validates rate against [0, 50], D/E against [0, 10]
// and tax rate against [0, 50].
func NewFinancingDrivers(interestPct, debtToEquity, taxPct float64) (*FinancingDrivers, error) {
	if err := checkRange("interest_rate_pct", interestPct, 0, 50); err != nil {
		return nil, err
	}
	if err := checkRange("debt_to_equity", debtToEquity, 0, 10); err != nil {
		return nil, err
	}
	if err := checkRange("tax_rate_pct", taxPct, 0, 50); err != nil {
		return nil, err
	}
	return &FinancingDrivers{
		InterestRatePct: interestPct,
		DebtToEquity:    debtToEquity,
		TaxRatePct:      taxPct,
	}, nil
}

// Clone returns an independent copy.
func (f *FinancingDrivers) Clone() *FinancingDrivers {
	if f == nil {
		return nil
	}
	c := *f
	return &c
}

// ForecastDrivers is the complete driver set for a forecasting session.
// WorkingCapital and Revenue are required; CapEx, Financing and Industry
// are optional.
type ForecastDrivers struct {
	WorkingCapital *WorkingCapitalDrivers `json:"working_capital"`
	Revenue        *RevenueDrivers        `json:"revenue"`
	CapEx          *CapExDrivers          `json:"capex,omitempty"`
	Financing      *FinancingDrivers      `json:"financing,omitempty"`
	Industry       Industry               `json:"industry,omitempty"`
}

// NewForecastDrivers assembles a driver set. The working capital and
// revenue blocks are required; industry, when non-empty, must be one of
// the supported sectors.
func NewForecastDrivers(
	wc *WorkingCapitalDrivers,
	rev *RevenueDrivers,
	capex *CapExDrivers,
	financing *FinancingDrivers,
	industry Industry,
) (*ForecastDrivers, error) {
	if wc == nil {
		return nil, fmt.Errorf("working_capital drivers are required")
	}
	if rev == nil {
		return nil, fmt.Errorf("revenue drivers are required")
	}
	if industry != "" && !industry.Valid() {
		return nil, fmt.Errorf("unknown industry %q", industry)
	}
	return &ForecastDrivers{
		WorkingCapital: wc,
		Revenue:        rev,
		CapEx:          capex,
		Financing:      financing,
		Industry:       industry,
	}, nil
}

// Clone returns a deep copy. Every scenario, sensitivity variant and
// Monte Carlo trial must operate on its own clone so the baseline is
// never mutated mid-run.
func (d *ForecastDrivers) Clone() *ForecastDrivers {
	if d == nil {
		return nil
	}
	return &ForecastDrivers{
		WorkingCapital: d.WorkingCapital.Clone(),
		Revenue:        d.Revenue.Clone(),
		CapEx:          d.CapEx.Clone(),
		Financing:      d.Financing.Clone(),
		Industry:       d.Industry,
	}
}
