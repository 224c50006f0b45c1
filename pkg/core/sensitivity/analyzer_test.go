package sensitivity

import (
	"math"
	"strings"
	"testing"

	"github.com/funkydonkey/fcf-planner/pkg/core/drivers"
	"github.com/funkydonkey/fcf-planner/pkg/core/forecast"
)

func buildDrivers(t *testing.T, dso, dpo, dio, growth, margin float64) *drivers.ForecastDrivers {
	t.Helper()
	wc, err := drivers.NewWorkingCapitalDrivers(dso, dpo, dio)
	if err != nil {
		t.Fatal(err)
	}
	rev, err := drivers.NewRevenueDrivers(growth, margin, nil)
	if err != nil {
		t.Fatal(err)
	}
	d, err := drivers.NewForecastDrivers(wc, rev, nil, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func history() []forecast.HistoryPoint {
	return []forecast.HistoryPoint{{Revenue: 1000}, {Revenue: 1100}, {Revenue: 1200}}
}

func TestZeroVariationIdentity(t *testing.T) {
	base := buildDrivers(t, 45, 30, 60, 10, 35)

	baseTable, err := forecast.New(base).Generate(history(), 6)
	if err != nil {
		t.Fatal(err)
	}
	baseFCF := baseTable.TotalFreeCashflow()

	for _, name := range DriverNames() {
		results, err := NewAnalyzer(base).AnalyzeDriverSensitivity(history(), name, []float64{0}, 6)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(results[0]-baseFCF) > 1e-9 {
			t.Errorf("%s at 0%%: want baseline FCF %g, got %g", name, baseFCF, results[0])
		}
	}
}

func TestInvalidDriverName(t *testing.T) {
	base := buildDrivers(t, 45, 30, 60, 10, 35)
	_, err := NewAnalyzer(base).AnalyzeDriverSensitivity(history(), "not_a_driver", nil, 6)
	if err == nil {
		t.Fatal("unknown driver name must fail, not silently no-op")
	}
	if !strings.Contains(err.Error(), "not_a_driver") {
		t.Errorf("error should name the offending driver, got %v", err)
	}
}

func TestDefaultVariationSweep(t *testing.T) {
	base := buildDrivers(t, 45, 30, 60, 10, 35)
	results, err := NewAnalyzer(base).AnalyzeDriverSensitivity(history(), DriverDSODays, nil, 6)
	if err != nil {
		t.Fatal(err)
	}
	for _, pct := range []float64{-20, -10, 0, 10, 20} {
		if _, ok := results[pct]; !ok {
			t.Errorf("default sweep missing %+g%%", pct)
		}
	}
	if len(results) != 5 {
		t.Errorf("default sweep: want 5 entries, got %d", len(results))
	}
}

func TestGrossMarginClamp(t *testing.T) {
	base := buildDrivers(t, 45, 30, 60, 10, 95)
	analyzer := NewAnalyzer(base)

	variant := base.Clone()
	if err := analyzer.applyVariation(variant, DriverGrossMarginPct, 1.10); err != nil {
		t.Fatal(err)
	}
	// 95 * 1.10 = 104.5, clamped to 100
	if variant.Revenue.GrossMarginPct != 100 {
		t.Errorf("margin must clamp to 100, got %g", variant.Revenue.GrossMarginPct)
	}
}

func TestSensitivityLeavesBaselineUntouched(t *testing.T) {
	base := buildDrivers(t, 45, 30, 60, 10, 35)
	if _, err := NewAnalyzer(base).AnalyzeDriverSensitivity(history(), DriverDSODays, nil, 6); err != nil {
		t.Fatal(err)
	}
	if base.WorkingCapital.DSODays != 45 {
		t.Error("sensitivity sweep mutated the baseline")
	}
}

func TestTornadoOrdering(t *testing.T) {
	// dpo=0: varying DPO by ±10% changes nothing, so its spread is 0
	// and it must rank after drivers with real impact (margin moves FCF
	// heavily at these settings).
	base := buildDrivers(t, 100, 0, 60, 10, 35)

	entries, err := NewAnalyzer(base).TornadoChartData(history(), 6)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 5 {
		t.Fatalf("want 5 entries, got %d", len(entries))
	}

	for i := 1; i < len(entries); i++ {
		if entries[i-1].Spread() < entries[i].Spread() {
			t.Fatalf("entries not sorted by descending spread: %s (%g) before %s (%g)",
				entries[i-1].DriverName, entries[i-1].Spread(),
				entries[i].DriverName, entries[i].Spread())
		}
	}

	if entries[0].DriverName == DriverDPODays {
		t.Error("zero-impact driver must not rank first")
	}
	if entries[len(entries)-1].DriverName != DriverDPODays {
		t.Errorf("zero-impact DPO should rank last, got order ending in %s",
			entries[len(entries)-1].DriverName)
	}
}

func TestTornadoBaseValueConsistency(t *testing.T) {
	base := buildDrivers(t, 45, 30, 60, 10, 35)

	baseTable, err := forecast.New(base).Generate(history(), 6)
	if err != nil {
		t.Fatal(err)
	}
	baseFCF := baseTable.TotalFreeCashflow()

	entries, err := NewAnalyzer(base).TornadoChartData(history(), 6)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if math.Abs(e.BaseValue-baseFCF) > 1e-9 {
			t.Errorf("%s base value: want %g, got %g", e.DriverName, baseFCF, e.BaseValue)
		}
	}
}

func TestTornadoPropagatesErrors(t *testing.T) {
	base := buildDrivers(t, 45, 30, 60, 10, 35)
	if _, err := NewAnalyzer(base).TornadoChartData(nil, 6); err == nil {
		t.Error("empty history must fail")
	}
}
