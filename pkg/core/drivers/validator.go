package drivers

import (
	"fmt"
	"math"
)

// Validate checks a fully formed driver set for values that are in-range
// but unusual and returns human-readable warnings. It never fails and
// never mutates its input; an empty slice means everything looks
// reasonable. Warnings are advisory and must not gate any computation.
func Validate(d *ForecastDrivers) []string {
	warnings := []string{}
	wc := d.WorkingCapital

	if wc.DSODays > 120 {
		warnings = append(warnings, fmt.Sprintf(
			"DSO (%g days) is unusually high - customers take over 4 months to pay",
			wc.DSODays))
	}
	if wc.DPODays > 90 {
		warnings = append(warnings, fmt.Sprintf(
			"DPO (%g days) is unusually high - supplier payments delayed over 3 months",
			wc.DPODays))
	}
	if wc.DIODays > 180 {
		warnings = append(warnings, fmt.Sprintf(
			"DIO (%g days) is unusually high - inventory turns over more than 6 months",
			wc.DIODays))
	}
	if wc.DPODays > wc.DSODays+wc.DIODays {
		warnings = append(warnings, fmt.Sprintf(
			"DPO (%g) exceeds DSO + DIO (%g) - verify DPO",
			wc.DPODays, wc.DSODays+wc.DIODays))
	}
	if ccc := wc.CCCDays(); ccc < 0 {
		warnings = append(warnings, fmt.Sprintf(
			"Negative CCC (%.1f days) - normal for retail/platforms, unusual for other industries",
			ccc))
	}

	rev := d.Revenue
	if rev.GrossMarginPct < 10 {
		warnings = append(warnings, fmt.Sprintf(
			"Gross margin (%g%%) below 10%% - extremely low margin",
			rev.GrossMarginPct))
	}
	if rev.GrossMarginPct > 80 {
		warnings = append(warnings, fmt.Sprintf(
			"Gross margin (%g%%) above 80%% - typical only for SaaS/digital products",
			rev.GrossMarginPct))
	}
	if rev.RevenueGrowthPct > 100 {
		warnings = append(warnings, fmt.Sprintf(
			"Revenue growth (%g%%) above 100%% - verify this is not an input error",
			rev.RevenueGrowthPct))
	}
	if rev.SeasonalityFactors != nil {
		total := 0.0
		for _, f := range rev.SeasonalityFactors {
			total += f
		}
		if math.Abs(total-12.0) > 0.5 {
			warnings = append(warnings, fmt.Sprintf(
				"Seasonality factors sum (%.2f) significantly deviates from 12.0", total))
		}
	}

	if d.CapEx != nil && d.CapEx.CapExPctOfRevenue > 30 {
		warnings = append(warnings, fmt.Sprintf(
			"CapEx (%g%% of revenue) - unusually high capital expenditure",
			d.CapEx.CapExPctOfRevenue))
	}

	if d.Financing != nil && d.Financing.DebtToEquity > 3 {
		warnings = append(warnings, fmt.Sprintf(
			"D/E (%g) above 3 - high debt load", d.Financing.DebtToEquity))
	}

	return warnings
}
