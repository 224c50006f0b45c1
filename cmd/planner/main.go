// Command planner runs a full driver-based analysis from the command
// line: forecast, scenario comparison, Monte Carlo and tornado ranking.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/funkydonkey/fcf-planner/pkg/core/drivers"
	"github.com/funkydonkey/fcf-planner/pkg/core/forecast"
	"github.com/funkydonkey/fcf-planner/pkg/core/report"
	"github.com/funkydonkey/fcf-planner/pkg/core/scenario"
	"github.com/funkydonkey/fcf-planner/pkg/core/sensitivity"
)

func main() {
	godotenv.Load()

	industry := flag.String("industry", "retail", "industry for benchmark defaults (retail, manufacturing, services, technology, healthcare)")
	revenues := flag.String("revenues", "1000,1100,1200", "comma-separated historical monthly revenues")
	periods := flag.Int("periods", 12, "forecast periods")
	trials := flag.Int("trials", 1000, "Monte Carlo trial count")
	flag.Parse()

	history, err := parseHistory(*revenues)
	if err != nil {
		fmt.Printf("Invalid -revenues: %v\n", err)
		os.Exit(1)
	}

	base, err := drivers.IndustryDefaults(drivers.Industry(*industry))
	if err != nil {
		fmt.Printf("Failed to load defaults: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Drivers (%s): DSO=%.0f DPO=%.0f DIO=%.0f CCC=%.0f growth=%.1f%% margin=%.1f%%\n",
		base.Industry,
		base.WorkingCapital.DSODays, base.WorkingCapital.DPODays,
		base.WorkingCapital.DIODays, base.WorkingCapital.CCCDays(),
		base.Revenue.RevenueGrowthPct, base.Revenue.GrossMarginPct)

	for _, warning := range drivers.Validate(base) {
		fmt.Printf("  [WARN] %s\n", warning)
	}

	table, err := forecast.New(base).Generate(history, *periods)
	if err != nil {
		fmt.Printf("Forecast failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
	fmt.Println(report.ForecastMarkdown(table))

	results, err := scenario.NewEngine(base).RunScenarios(history, *periods)
	if err != nil {
		fmt.Printf("Scenario run failed: %v\n", err)
		os.Exit(1)
	}
	outcomes := make([]report.ScenarioOutcome, 0, len(results))
	for name, res := range results {
		outcomes = append(outcomes, report.ScenarioOutcome{
			Name:                   name,
			TotalFreeCashflow:      res.TotalFreeCashflow,
			TotalOperatingCashflow: res.TotalOperatingCashflow,
			AvgCCCDays:             res.AvgCCCDays,
			Probability:            res.Probability,
			Description:            res.Description,
		})
	}
	fmt.Println(report.ScenarioMarkdown(outcomes))

	mc, err := scenario.NewEngine(base).RunMonteCarlo(context.Background(), history, *trials, *periods)
	if err != nil {
		fmt.Printf("Monte Carlo failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("## Monte Carlo (%d trials)\n\n", mc.Trials)
	fmt.Printf("  mean=%.2f std=%.2f\n", mc.Mean, mc.Std)
	fmt.Printf("  p5=%.2f p25=%.2f p50=%.2f p75=%.2f p95=%.2f\n", mc.P5, mc.P25, mc.P50, mc.P75, mc.P95)
	fmt.Printf("  min=%.2f max=%.2f\n\n", mc.Min, mc.Max)

	tornado, err := sensitivity.NewAnalyzer(base).TornadoChartData(history, *periods)
	if err != nil {
		fmt.Printf("Tornado analysis failed: %v\n", err)
		os.Exit(1)
	}
	bars := make([]report.TornadoBar, len(tornado))
	for i, e := range tornado {
		bars[i] = report.TornadoBar{
			DriverName: e.DriverName,
			LowValue:   e.LowValue,
			BaseValue:  e.BaseValue,
			HighValue:  e.HighValue,
		}
	}
	fmt.Println(report.TornadoMarkdown(bars))
}

func parseHistory(csv string) ([]forecast.HistoryPoint, error) {
	parts := strings.Split(csv, ",")
	history := make([]forecast.HistoryPoint, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("bad revenue value %q", part)
		}
		history = append(history, forecast.HistoryPoint{Revenue: v})
	}
	return history, nil
}
