package drivers

import (
	"fmt"
	"os"
	"sync"

	hjson "github.com/hjson/hjson-go/v4"
)

// benchmarkRow is one industry's typical driver values.
type benchmarkRow struct {
	DSO           float64 `json:"dso"`
	DPO           float64 `json:"dpo"`
	DIO           float64 `json:"dio"`
	RevenueGrowth float64 `json:"revenue_growth"`
	GrossMargin   float64 `json:"gross_margin"`
}

// fallbackBenchmarks carries the built-in benchmark table, used when no
// resource file overrides it.
var fallbackBenchmarks = map[string]benchmarkRow{
	"retail":        {DSO: 10, DPO: 40, DIO: 60, RevenueGrowth: 5, GrossMargin: 30},
	"manufacturing": {DSO: 50, DPO: 45, DIO: 75, RevenueGrowth: 4, GrossMargin: 28},
	"services":      {DSO: 45, DPO: 25, DIO: 5, RevenueGrowth: 6, GrossMargin: 55},
	"technology":    {DSO: 55, DPO: 35, DIO: 15, RevenueGrowth: 15, GrossMargin: 70},
	"healthcare":    {DSO: 60, DPO: 40, DIO: 30, RevenueGrowth: 5, GrossMargin: 45},
}

var capexDefaults = map[Industry]CapExDrivers{
	IndustryRetail:        {CapExPctOfRevenue: 3, DepreciationYears: 10},
	IndustryManufacturing: {CapExPctOfRevenue: 8, DepreciationYears: 15},
	IndustryServices:      {CapExPctOfRevenue: 2, DepreciationYears: 5},
	IndustryTechnology:    {CapExPctOfRevenue: 10, DepreciationYears: 5},
	IndustryHealthcare:    {CapExPctOfRevenue: 6, DepreciationYears: 12},
}

var financingDefaults = map[Industry]FinancingDrivers{
	IndustryRetail:        {InterestRatePct: 6, DebtToEquity: 1.5, TaxRatePct: 25},
	IndustryManufacturing: {InterestRatePct: 5, DebtToEquity: 1.2, TaxRatePct: 25},
	IndustryServices:      {InterestRatePct: 5, DebtToEquity: 0.8, TaxRatePct: 25},
	IndustryTechnology:    {InterestRatePct: 4, DebtToEquity: 0.5, TaxRatePct: 20},
	IndustryHealthcare:    {InterestRatePct: 5, DebtToEquity: 1.0, TaxRatePct: 25},
}

var (
	benchmarksOnce sync.Once
	benchmarks     map[string]benchmarkRow
	benchmarksPath = "resources/industry_benchmarks.hjson"
)

// loadBenchmarks resolves the process-wide benchmark table exactly once.
// An operator-editable HJSON file takes priority; the built-in table is
// the fallback. The table is read-only after initialization.
func loadBenchmarks() map[string]benchmarkRow {
	benchmarksOnce.Do(func() {
		benchmarks = fallbackBenchmarks
		data, err := os.ReadFile(benchmarksPath)
		if err != nil {
			return
		}
		loaded := map[string]benchmarkRow{}
		if err := hjson.Unmarshal(data, &loaded); err != nil {
			fmt.Printf("[drivers] Warning: invalid benchmark file %s: %v\n", benchmarksPath, err)
			return
		}
		if len(loaded) > 0 {
			benchmarks = loaded
		}
	})
	return benchmarks
}

// IndustryDefaults returns a complete driver set seeded from the
// benchmark table for the given industry, including industry-typical
// CapEx and financing assumptions.
func IndustryDefaults(industry Industry) (*ForecastDrivers, error) {
	if !industry.Valid() {
		return nil, fmt.Errorf("unknown industry %q", industry)
	}
	b, ok := loadBenchmarks()[string(industry)]
	if !ok {
		return nil, fmt.Errorf("no benchmarks for industry %q", industry)
	}

	wc, err := NewWorkingCapitalDrivers(b.DSO, b.DPO, b.DIO)
	if err != nil {
		return nil, fmt.Errorf("invalid benchmark working capital for %q: %w", industry, err)
	}
	rev, err := NewRevenueDrivers(b.RevenueGrowth, b.GrossMargin, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid benchmark revenue drivers for %q: %w", industry, err)
	}

	var capex *CapExDrivers
	if c, ok := capexDefaults[industry]; ok {
		capex = c.Clone()
	}
	var financing *FinancingDrivers
	if f, ok := financingDefaults[industry]; ok {
		financing = f.Clone()
	}

	return NewForecastDrivers(wc, rev, capex, financing, industry)
}
