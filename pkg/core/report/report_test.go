package report

import (
	"strings"
	"testing"

	"github.com/funkydonkey/fcf-planner/pkg/core/forecast"
)

func TestForecastMarkdown(t *testing.T) {
	table := forecast.Table{
		{Period: 1, Revenue: 1210, COGS: 786.5, NetWorkingCapital: 213.82,
			OperatingCashflow: 445.93, CapEx: 0, FreeCashflow: 445.93, CCCDays: 75},
	}

	md := ForecastMarkdown(table)
	if !strings.Contains(md, "| 1 | 1210.00 |") {
		t.Errorf("markdown missing period row:\n%s", md)
	}
	if !strings.Contains(md, "**Total FCF:** 445.93") {
		t.Errorf("markdown missing totals line:\n%s", md)
	}
}

func TestScenarioMarkdownOrdering(t *testing.T) {
	md := ScenarioMarkdown([]ScenarioOutcome{
		{Name: "Pessimistic", Probability: 0.25},
		{Name: "Base Case", Probability: 0.50},
		{Name: "Optimistic", Probability: 0.25},
	})

	baseIdx := strings.Index(md, "Base Case")
	optIdx := strings.Index(md, "Optimistic")
	pesIdx := strings.Index(md, "Pessimistic")
	if baseIdx == -1 || optIdx == -1 || pesIdx == -1 {
		t.Fatalf("markdown missing scenario rows:\n%s", md)
	}
	if !(baseIdx < optIdx && optIdx < pesIdx) {
		t.Errorf("scenarios must sort by probability then name:\n%s", md)
	}
}

func TestTornadoMarkdownKeepsOrder(t *testing.T) {
	md := TornadoMarkdown([]TornadoBar{
		{DriverName: "gross_margin_pct", LowValue: 100, BaseValue: 200, HighValue: 300},
		{DriverName: "dso_days", LowValue: 195, BaseValue: 200, HighValue: 205},
	})
	if strings.Index(md, "gross_margin_pct") > strings.Index(md, "dso_days") {
		t.Errorf("renderer must keep the analyzer's ranking:\n%s", md)
	}
}

func TestRenderHTMLTables(t *testing.T) {
	html, err := RenderHTML("| a | b |\n|---|---|\n| 1 | 2 |\n")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("expected table extension output, got:\n%s", html)
	}
}

func TestForecastSummaryContract(t *testing.T) {
	// forecast.Table must satisfy the display contract.
	var _ ForecastSummary = forecast.Table{}
}
