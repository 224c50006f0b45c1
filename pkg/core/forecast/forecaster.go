// Package forecast implements the driver-based cash flow forecaster.
// It rolls working capital forward period by period from a historical
// revenue series, applying growth and seasonality, and derives operating
// and free cash flow with the indirect method.
package forecast

import (
	"fmt"

	"github.com/funkydonkey/fcf-planner/pkg/core/drivers"
)

const (
	// FallbackCOGSRatio seeds the initial COGS when history carries no
	// cogs column. A policy constant, not a derived value.
	FallbackCOGSRatio = 0.65

	// DepreciationPctOfRevenue is the flat depreciation charge applied
	// every period. A known simplification: it ignores
	// CapExDrivers.DepreciationYears entirely.
	DepreciationPctOfRevenue = 0.02
)

// Forecaster projects cash flow from one driver set. The driver set is
// held for the forecaster's lifetime and must not be mutated while
// forecasts are in flight; model a different scenario by constructing a
// new Forecaster over a clone.
type Forecaster struct {
	drivers *drivers.ForecastDrivers
}

// New creates a forecaster over the given driver set.
func New(d *drivers.ForecastDrivers) *Forecaster {
	return &Forecaster{drivers: d}
}

// Drivers exposes the (read-only) driver set.
func (f *Forecaster) Drivers() *drivers.ForecastDrivers {
	return f.drivers
}

// Generate projects `periods` future periods from the historical series.
// The last observed revenue (and cogs, when present) seeds the first
// iteration; each subsequent period compounds on the previous one.
//
// Growth is applied as 1 + (annual%/100)/12 per period — a linear /12
// approximation of monthly growth, kept deliberately (changing it to a
// true compounded monthly root would silently shift every downstream
// golden value). Seasonality, when present, multiplies revenue after
// growth, indexed by the generated period counter mod 12.
func (f *Forecaster) Generate(history []HistoryPoint, periods int) (Table, error) {
	if periods < 1 {
		return nil, fmt.Errorf("periods must be >= 1, got %d", periods)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("historical series is empty: no revenue to seed the forecast")
	}

	last := history[len(history)-1]
	lastRevenue := last.Revenue
	lastCOGS := lastRevenue * FallbackCOGSRatio
	if last.COGS != nil {
		lastCOGS = *last.COGS
	}

	rev := f.drivers.Revenue
	wc := f.drivers.WorkingCapital

	table := make(Table, 0, periods)
	for i := 0; i < periods; i++ {
		growth := 1 + (rev.RevenueGrowthPct/100)/12
		revenue := lastRevenue * growth
		cogs := revenue * (1 - rev.GrossMarginPct/100)

		if rev.SeasonalityFactors != nil {
			revenue *= rev.SeasonalityFactors[i%12]
		}

		current := drivers.ComputeWorkingCapital(revenue, cogs, wc)
		previous := drivers.ComputeWorkingCapital(lastRevenue, lastCOGS, wc)
		deltaWC := current.NetWorkingCapital - previous.NetWorkingCapital

		grossProfit := revenue * rev.GrossMarginPct / 100
		depreciation := revenue * DepreciationPctOfRevenue
		operatingCF := grossProfit + depreciation - deltaWC

		capex := 0.0
		if f.drivers.CapEx != nil {
			capex = revenue * f.drivers.CapEx.CapExPctOfRevenue / 100
		}

		table = append(table, ForecastRow{
			Period:              i + 1,
			Revenue:             revenue,
			COGS:                cogs,
			AccountsReceivable:  current.AccountsReceivable,
			AccountsPayable:     current.AccountsPayable,
			Inventory:           current.Inventory,
			NetWorkingCapital:   current.NetWorkingCapital,
			CCCDays:             current.CCCDays,
			GrossProfit:         grossProfit,
			Depreciation:        depreciation,
			DeltaWorkingCapital: deltaWC,
			DeltaAR:             current.AccountsReceivable - previous.AccountsReceivable,
			DeltaAP:             current.AccountsPayable - previous.AccountsPayable,
			DeltaInventory:      current.Inventory - previous.Inventory,
			OperatingCashflow:   operatingCF,
			CapEx:               capex,
			FreeCashflow:        operatingCF - capex,
		})

		lastRevenue = revenue
		lastCOGS = cogs
	}

	return table, nil
}
