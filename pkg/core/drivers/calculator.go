package drivers

import "math"

// DaysInYear is the annual day-count basis for all working capital
// conversions.
const DaysInYear = 365.0

// AccountsReceivable returns AR = (Revenue / 365) * DSO.
func AccountsReceivable(annualRevenue, dsoDays float64) float64 {
	return (annualRevenue / DaysInYear) * dsoDays
}

// AccountsPayable returns AP = (COGS / 365) * DPO.
func AccountsPayable(annualCOGS, dpoDays float64) float64 {
	return (annualCOGS / DaysInYear) * dpoDays
}

// Inventory returns Inventory = (COGS / 365) * DIO.
func Inventory(annualCOGS, dioDays float64) float64 {
	return (annualCOGS / DaysInYear) * dioDays
}

// NetWorkingCapital returns NWC = AR + Inventory - AP.
func NetWorkingCapital(accountsReceivable, inventory, accountsPayable float64) float64 {
	return accountsReceivable + inventory - accountsPayable
}

// WorkingCapital bundles the exact (unrounded) working capital position
// at a given revenue and COGS level. These values feed period-over-period
// deltas inside the forecaster, so no rounding is applied here.
type WorkingCapital struct {
	AccountsReceivable float64 `json:"accounts_receivable"`
	AccountsPayable    float64 `json:"accounts_payable"`
	Inventory          float64 `json:"inventory"`
	NetWorkingCapital  float64 `json:"net_working_capital"`
	CCCDays            float64 `json:"ccc_days"`
}

// ComputeWorkingCapital derives the full working capital position from
// annual revenue, annual COGS and the day-count drivers.
func ComputeWorkingCapital(annualRevenue, annualCOGS float64, wc *WorkingCapitalDrivers) WorkingCapital {
	ar := AccountsReceivable(annualRevenue, wc.DSODays)
	ap := AccountsPayable(annualCOGS, wc.DPODays)
	inv := Inventory(annualCOGS, wc.DIODays)
	return WorkingCapital{
		AccountsReceivable: ar,
		AccountsPayable:    ap,
		Inventory:          inv,
		NetWorkingCapital:  NetWorkingCapital(ar, inv, ap),
		CCCDays:            wc.CCCDays(),
	}
}

// Rounded returns a reporting copy with money rounded to 2 decimal
// places and days to 1. For display only: feeding rounded values back
// into delta calculations would accumulate drift.
func (w WorkingCapital) Rounded() WorkingCapital {
	return WorkingCapital{
		AccountsReceivable: roundTo(w.AccountsReceivable, 2),
		AccountsPayable:    roundTo(w.AccountsPayable, 2),
		Inventory:          roundTo(w.Inventory, 2),
		NetWorkingCapital:  roundTo(w.NetWorkingCapital, 2),
		CCCDays:            roundTo(w.CCCDays, 1),
	}
}

func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
