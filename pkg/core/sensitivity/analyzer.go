// Package sensitivity measures how much total free cash flow moves when
// a single driver is varied around the baseline, and produces ranked
// tornado chart data.
package sensitivity

import (
	"fmt"
	"math"
	"sort"

	"github.com/funkydonkey/fcf-planner/pkg/core/drivers"
	"github.com/funkydonkey/fcf-planner/pkg/core/forecast"
)

// Recognized driver names for one-at-a-time variation.
const (
	DriverDSODays          = "dso_days"
	DriverDPODays          = "dpo_days"
	DriverDIODays          = "dio_days"
	DriverRevenueGrowthPct = "revenue_growth_pct"
	DriverGrossMarginPct   = "gross_margin_pct"
)

// DriverNames lists the recognized drivers in tornado test order.
func DriverNames() []string {
	return []string{
		DriverDSODays,
		DriverDPODays,
		DriverDIODays,
		DriverRevenueGrowthPct,
		DriverGrossMarginPct,
	}
}

// DefaultVariations is the standard sweep, in percent.
var DefaultVariations = []float64{-20, -10, 0, 10, 20}

// TornadoEntry is one driver's low/base/high FCF at -10%/+10% variation.
type TornadoEntry struct {
	DriverName string  `json:"driver_name"`
	LowValue   float64 `json:"low_value"`
	BaseValue  float64 `json:"base_value"`
	HighValue  float64 `json:"high_value"`
}

// Spread is the absolute FCF range the driver commands.
func (t TornadoEntry) Spread() float64 {
	return math.Abs(t.HighValue - t.LowValue)
}

// Analyzer varies drivers one at a time around a read-only baseline.
type Analyzer struct {
	base *drivers.ForecastDrivers
}

// NewAnalyzer creates an analyzer over the baseline drivers.
func NewAnalyzer(base *drivers.ForecastDrivers) *Analyzer {
	return &Analyzer{base: base}
}

// applyVariation scales exactly one named driver on a clone. Gross
// margin is clamped to 100 after scaling since the multiplier could push
// it out of its legal range.
func (a *Analyzer) applyVariation(d *drivers.ForecastDrivers, driverName string, multiplier float64) error {
	switch driverName {
	case DriverDSODays:
		d.WorkingCapital.DSODays *= multiplier
	case DriverDPODays:
		d.WorkingCapital.DPODays *= multiplier
	case DriverDIODays:
		d.WorkingCapital.DIODays *= multiplier
	case DriverRevenueGrowthPct:
		d.Revenue.RevenueGrowthPct *= multiplier
	case DriverGrossMarginPct:
		d.Revenue.GrossMarginPct = math.Min(100, d.Revenue.GrossMarginPct*multiplier)
	default:
		return fmt.Errorf("unknown driver: %s", driverName)
	}
	return nil
}

// AnalyzeDriverSensitivity forecasts total free cash flow for each
// percentage variation of one driver. A nil variations slice means the
// default sweep {-20, -10, 0, 10, 20}. The returned map is keyed by
// variation percentage.
func (a *Analyzer) AnalyzeDriverSensitivity(
	history []forecast.HistoryPoint,
	driverName string,
	variations []float64,
	periods int,
) (map[float64]float64, error) {
	if variations == nil {
		variations = DefaultVariations
	}

	results := make(map[float64]float64, len(variations))
	for _, pct := range variations {
		variant := a.base.Clone()
		if err := a.applyVariation(variant, driverName, 1+pct/100); err != nil {
			return nil, err
		}

		table, err := forecast.New(variant).Generate(history, periods)
		if err != nil {
			return nil, fmt.Errorf("sensitivity run %s %+g%%: %w", driverName, pct, err)
		}
		results[pct] = table.TotalFreeCashflow()
	}
	return results, nil
}

// TornadoChartData computes each recognized driver's FCF at -10% and
// +10% variation against the unmodified baseline, sorted by descending
// impact range so the widest bar comes first. The ordering is part of
// the contract.
func (a *Analyzer) TornadoChartData(history []forecast.HistoryPoint, periods int) ([]TornadoEntry, error) {
	baseTable, err := forecast.New(a.base).Generate(history, periods)
	if err != nil {
		return nil, fmt.Errorf("tornado baseline: %w", err)
	}
	baseFCF := baseTable.TotalFreeCashflow()

	entries := make([]TornadoEntry, 0, len(DriverNames()))
	for _, name := range DriverNames() {
		results, err := a.AnalyzeDriverSensitivity(history, name, []float64{-10, 10}, periods)
		if err != nil {
			return nil, err
		}
		entries = append(entries, TornadoEntry{
			DriverName: name,
			LowValue:   results[-10],
			BaseValue:  baseFCF,
			HighValue:  results[10],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Spread() > entries[j].Spread()
	})
	return entries, nil
}
