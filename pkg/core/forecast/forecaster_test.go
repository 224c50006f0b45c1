package forecast

import (
	"math"
	"testing"

	"github.com/funkydonkey/fcf-planner/pkg/core/drivers"
)

const eps = 1e-9

func testDrivers(t *testing.T, dso, dpo, dio, growth, margin float64, seasonality []float64) *drivers.ForecastDrivers {
	t.Helper()
	wc, err := drivers.NewWorkingCapitalDrivers(dso, dpo, dio)
	if err != nil {
		t.Fatal(err)
	}
	rev, err := drivers.NewRevenueDrivers(growth, margin, seasonality)
	if err != nil {
		t.Fatal(err)
	}
	d, err := drivers.NewForecastDrivers(wc, rev, nil, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestGenerateArgumentErrors(t *testing.T) {
	d := testDrivers(t, 45, 30, 60, 10, 35, nil)
	f := New(d)

	if _, err := f.Generate([]HistoryPoint{{Revenue: 1000}}, 0); err == nil {
		t.Error("periods=0 must fail")
	}
	if _, err := f.Generate([]HistoryPoint{{Revenue: 1000}}, -3); err == nil {
		t.Error("negative periods must fail")
	}
	if _, err := f.Generate(nil, 12); err == nil {
		t.Error("empty history must fail")
	}
}

func TestGenerateZeroGrowthSeeding(t *testing.T) {
	// growth=0, margin=0, no seasonality, no capex:
	// period-1 revenue must equal the last observed revenue exactly.
	d := testDrivers(t, 45, 30, 60, 0, 0, nil)
	table, err := New(d).Generate([]HistoryPoint{{Revenue: 1000}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 1 {
		t.Fatalf("want 1 row, got %d", len(table))
	}
	if table[0].Revenue != 1000 {
		t.Errorf("period-1 revenue: want 1000, got %g", table[0].Revenue)
	}
	if table[0].Period != 1 {
		t.Errorf("period numbering must start at 1, got %d", table[0].Period)
	}
}

func TestGenerateGoldenRegression(t *testing.T) {
	// history = [1000, 1100, 1200] with no cogs column (falls back to
	// 65% of revenue), dso=45, dpo=30, dio=60, growth=10%, margin=35%,
	// periods=1. Expectations recomputed from the period formulas.
	d := testDrivers(t, 45, 30, 60, 10, 35, nil)
	history := []HistoryPoint{{Revenue: 1000}, {Revenue: 1100}, {Revenue: 1200}}

	table, err := New(d).Generate(history, 1)
	if err != nil {
		t.Fatal(err)
	}
	row := table[0]

	lastRevenue := 1200.0
	lastCOGS := 1200.0 * 0.65

	revenue := lastRevenue * (1 + 0.10/12) // ~1210
	cogs := revenue * (1 - 0.35)           // ~786.5

	if math.Abs(row.Revenue-1210) > 1e-6 {
		t.Errorf("revenue: want ~1210, got %g", row.Revenue)
	}
	if math.Abs(row.COGS-786.5) > 1e-6 {
		t.Errorf("cogs: want ~786.5, got %g", row.COGS)
	}

	ar := revenue / 365 * 45
	ap := cogs / 365 * 30
	inv := cogs / 365 * 60
	nwc := ar + inv - ap

	prevAR := lastRevenue / 365 * 45
	prevAP := lastCOGS / 365 * 30
	prevInv := lastCOGS / 365 * 60
	prevNWC := prevAR + prevInv - prevAP

	deltaWC := nwc - prevNWC
	grossProfit := revenue * 0.35
	depreciation := revenue * 0.02
	ocf := grossProfit + depreciation - deltaWC

	if math.Abs(row.AccountsReceivable-ar) > eps {
		t.Errorf("AR: want %g, got %g", ar, row.AccountsReceivable)
	}
	if math.Abs(row.NetWorkingCapital-nwc) > eps {
		t.Errorf("NWC: want %g, got %g", nwc, row.NetWorkingCapital)
	}
	if math.Abs(row.DeltaWorkingCapital-deltaWC) > eps {
		t.Errorf("delta WC: want %g, got %g", deltaWC, row.DeltaWorkingCapital)
	}
	if math.Abs(row.GrossProfit-grossProfit) > eps {
		t.Errorf("gross profit: want %g, got %g", grossProfit, row.GrossProfit)
	}
	if math.Abs(row.Depreciation-depreciation) > eps {
		t.Errorf("depreciation: want %g, got %g", depreciation, row.Depreciation)
	}
	if math.Abs(row.OperatingCashflow-ocf) > eps {
		t.Errorf("OCF: want %g, got %g", ocf, row.OperatingCashflow)
	}
	// No capex drivers: FCF == OCF
	if row.CapEx != 0 {
		t.Errorf("capex: want 0, got %g", row.CapEx)
	}
	if math.Abs(row.FreeCashflow-ocf) > eps {
		t.Errorf("FCF: want %g, got %g", ocf, row.FreeCashflow)
	}
	if row.CCCDays != 75 {
		t.Errorf("CCC: want 75, got %g", row.CCCDays)
	}
}

func TestGenerateUsesObservedCOGS(t *testing.T) {
	d := testDrivers(t, 45, 30, 60, 0, 0, nil)
	cogs := 500.0
	history := []HistoryPoint{{Revenue: 1000, COGS: &cogs}}

	table, err := New(d).Generate(history, 1)
	if err != nil {
		t.Fatal(err)
	}

	// margin=0 => current cogs = revenue; the observed 500 only seeds
	// the previous-period side of the deltas.
	prevInv := 500.0 / 365 * 60
	currInv := 1000.0 / 365 * 60
	if math.Abs(table[0].DeltaInventory-(currInv-prevInv)) > eps {
		t.Errorf("delta inventory must be seeded from observed cogs, got %g", table[0].DeltaInventory)
	}
}

func TestGenerateSeasonalityIndexing(t *testing.T) {
	// Only month index 0 is scaled; growth=0 and margin=0 keep the rest
	// flat, so period 13 wraps back onto factor[0].
	factors := []float64{2, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	d := testDrivers(t, 45, 30, 60, 0, 0, factors)

	table, err := New(d).Generate([]HistoryPoint{{Revenue: 100}}, 13)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(table[0].Revenue-200) > eps {
		t.Errorf("period 1 revenue: want 200 (factor 2), got %g", table[0].Revenue)
	}
	if math.Abs(table[1].Revenue-200) > eps {
		t.Errorf("period 2 revenue: want 200 (factor 1 on compounded 200), got %g", table[1].Revenue)
	}
	if math.Abs(table[12].Revenue-400) > eps {
		t.Errorf("period 13 revenue: want 400 (factor 2 wraps), got %g", table[12].Revenue)
	}
}

func TestGenerateSeasonalityAfterGrowthNotOnCOGS(t *testing.T) {
	// COGS derives from the grown, pre-seasonality revenue: the factor
	// multiplies revenue only.
	factors := []float64{0.5, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}
	d := testDrivers(t, 45, 30, 60, 0, 40, factors)

	table, err := New(d).Generate([]HistoryPoint{{Revenue: 1000}}, 1)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(table[0].Revenue-500) > eps {
		t.Errorf("revenue: want 500, got %g", table[0].Revenue)
	}
	// cogs = pre-seasonality revenue (1000) * (1 - 0.40) = 600
	if math.Abs(table[0].COGS-600) > eps {
		t.Errorf("cogs: want 600 (pre-seasonality basis), got %g", table[0].COGS)
	}
}

func TestGenerateCapEx(t *testing.T) {
	wc, _ := drivers.NewWorkingCapitalDrivers(45, 30, 60)
	rev, _ := drivers.NewRevenueDrivers(0, 35, nil)
	capex, _ := drivers.NewCapExDrivers(10, 10)
	d, _ := drivers.NewForecastDrivers(wc, rev, capex, nil, "")

	table, err := New(d).Generate([]HistoryPoint{{Revenue: 1000}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(table[0].CapEx-100) > eps {
		t.Errorf("capex: want 100 (10%% of 1000), got %g", table[0].CapEx)
	}
	if math.Abs(table[0].FreeCashflow-(table[0].OperatingCashflow-100)) > eps {
		t.Error("FCF must equal OCF - capex")
	}
}

func TestGenerateCompounding(t *testing.T) {
	// Each period compounds on the previous: rev_n = 1000 * m^n with
	// m = 1 + (12/100)/12 = 1.01.
	d := testDrivers(t, 45, 30, 60, 12, 35, nil)
	table, err := New(d).Generate([]HistoryPoint{{Revenue: 1000}}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, row := range table {
		want := 1000 * math.Pow(1.01, float64(i+1))
		if math.Abs(row.Revenue-want) > 1e-6 {
			t.Errorf("period %d revenue: want %g, got %g", i+1, want, row.Revenue)
		}
	}
}

func TestTableAggregates(t *testing.T) {
	table := Table{
		{FreeCashflow: 10, OperatingCashflow: 20, CCCDays: 70},
		{FreeCashflow: -4, OperatingCashflow: 6, CCCDays: 80},
	}
	if got := table.TotalFreeCashflow(); got != 6 {
		t.Errorf("total FCF: want 6, got %g", got)
	}
	if got := table.TotalOperatingCashflow(); got != 26 {
		t.Errorf("total OCF: want 26, got %g", got)
	}
	if got := table.AvgCCCDays(); got != 75 {
		t.Errorf("avg CCC: want 75, got %g", got)
	}
	if got := (Table{}).AvgCCCDays(); got != 0 {
		t.Errorf("avg CCC of empty table: want 0, got %g", got)
	}
}
