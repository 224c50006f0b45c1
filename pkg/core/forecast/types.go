package forecast

// HistoryPoint is one observed period of the historical series. COGS is
// optional; when absent the forecaster falls back to a fixed cost ratio.
type HistoryPoint struct {
	Revenue float64  `json:"revenue"`
	COGS    *float64 `json:"cogs,omitempty"`
}

// ForecastRow is one projected period. Ordering is significant: each
// row's delta fields reference the immediately preceding row.
type ForecastRow struct {
	Period int `json:"period"` // 1-based

	Revenue float64 `json:"revenue"`
	COGS    float64 `json:"cogs"`

	AccountsReceivable float64 `json:"accounts_receivable"`
	AccountsPayable    float64 `json:"accounts_payable"`
	Inventory          float64 `json:"inventory"`
	NetWorkingCapital  float64 `json:"net_working_capital"`
	CCCDays            float64 `json:"ccc_days"`

	GrossProfit         float64 `json:"gross_profit"`
	Depreciation        float64 `json:"depreciation"`
	DeltaWorkingCapital float64 `json:"delta_working_capital"`
	DeltaAR             float64 `json:"delta_ar"`
	DeltaAP             float64 `json:"delta_ap"`
	DeltaInventory      float64 `json:"delta_inventory"`
	OperatingCashflow   float64 `json:"operating_cashflow"`

	CapEx        float64 `json:"capex"`
	FreeCashflow float64 `json:"free_cashflow"`
}

// Table is an ordered forecast, one row per projected period.
type Table []ForecastRow

// TotalFreeCashflow sums free cash flow across all periods.
func (t Table) TotalFreeCashflow() float64 {
	total := 0.0
	for _, row := range t {
		total += row.FreeCashflow
	}
	return total
}

// TotalOperatingCashflow sums operating cash flow across all periods.
func (t Table) TotalOperatingCashflow() float64 {
	total := 0.0
	for _, row := range t {
		total += row.OperatingCashflow
	}
	return total
}

// AvgCCCDays returns the mean cash conversion cycle over all periods,
// or 0 for an empty table.
func (t Table) AvgCCCDays() float64 {
	if len(t) == 0 {
		return 0
	}
	total := 0.0
	for _, row := range t {
		total += row.CCCDays
	}
	return total / float64(len(t))
}
