// Package report turns forecast, scenario and sensitivity results into
// markdown and HTML summaries for presentation collaborators. The
// renderer depends only on narrow display interfaces, not on each
// engine's concrete result types.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/funkydonkey/fcf-planner/pkg/core/forecast"
)

// ForecastSummary is the minimal display contract a forecast result must
// satisfy. forecast.Table implements it.
type ForecastSummary interface {
	TotalFreeCashflow() float64
	TotalOperatingCashflow() float64
	AvgCCCDays() float64
}

// ScenarioOutcome is the minimal display contract for one scenario row.
type ScenarioOutcome struct {
	Name                   string
	TotalFreeCashflow      float64
	TotalOperatingCashflow float64
	AvgCCCDays             float64
	Probability            float64
	Description            string
}

// TornadoBar is the minimal display contract for one tornado entry.
type TornadoBar struct {
	DriverName string
	LowValue   float64
	BaseValue  float64
	HighValue  float64
}

// ForecastMarkdown renders a period-by-period forecast table with a
// totals line.
func ForecastMarkdown(table forecast.Table) string {
	var b strings.Builder
	b.WriteString("## Cash Flow Forecast\n\n")
	b.WriteString("| Period | Revenue | COGS | NWC | Operating CF | CapEx | Free CF |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, row := range table {
		fmt.Fprintf(&b, "| %d | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
			row.Period, row.Revenue, row.COGS, row.NetWorkingCapital,
			row.OperatingCashflow, row.CapEx, row.FreeCashflow)
	}
	fmt.Fprintf(&b, "\n**Total FCF:** %.2f | **Total OCF:** %.2f | **Avg CCC:** %.1f days\n",
		table.TotalFreeCashflow(), table.TotalOperatingCashflow(), table.AvgCCCDays())
	return b.String()
}

// ScenarioMarkdown renders a scenario comparison, highest-probability
// scenario first (ties broken by name for stable output).
func ScenarioMarkdown(outcomes []ScenarioOutcome) string {
	sorted := make([]ScenarioOutcome, len(outcomes))
	copy(sorted, outcomes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Probability != sorted[j].Probability {
			return sorted[i].Probability > sorted[j].Probability
		}
		return sorted[i].Name < sorted[j].Name
	})

	var b strings.Builder
	b.WriteString("## Scenario Comparison\n\n")
	b.WriteString("| Scenario | Probability | Total FCF | Total OCF | Avg CCC | Notes |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, o := range sorted {
		fmt.Fprintf(&b, "| %s | %.0f%% | %.2f | %.2f | %.1f | %s |\n",
			o.Name, o.Probability*100, o.TotalFreeCashflow,
			o.TotalOperatingCashflow, o.AvgCCCDays, o.Description)
	}
	return b.String()
}

// TornadoMarkdown renders the ranked driver impact table. Bars are
// expected pre-sorted by the sensitivity analyzer; the renderer keeps
// their order.
func TornadoMarkdown(bars []TornadoBar) string {
	var b strings.Builder
	b.WriteString("## Driver Sensitivity (±10%)\n\n")
	b.WriteString("| Driver | FCF at -10% | Base FCF | FCF at +10% |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, bar := range bars {
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f |\n",
			bar.DriverName, bar.LowValue, bar.BaseValue, bar.HighValue)
	}
	return b.String()
}

// RenderHTML converts a markdown report to HTML with table support.
func RenderHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
