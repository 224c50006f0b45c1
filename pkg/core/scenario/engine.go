// Package scenario implements what-if analysis over the driver-based
// forecaster: deterministic Base/Optimistic/Pessimistic scenario trees
// and randomized Monte Carlo simulation of driver uncertainty.
package scenario

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/funkydonkey/fcf-planner/pkg/core/drivers"
	"github.com/funkydonkey/fcf-planner/pkg/core/forecast"
)

// Scenario is a single what-if variant. Drivers are an independent clone
// of the baseline; mutating one scenario never affects another.
type Scenario struct {
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Drivers     *drivers.ForecastDrivers `json:"drivers"`
	Probability float64                  `json:"probability"`
}

// Result is the outcome of running the forecaster under one scenario.
type Result struct {
	TotalFreeCashflow      float64        `json:"total_fcf"`
	TotalOperatingCashflow float64        `json:"total_ocf"`
	AvgCCCDays             float64        `json:"avg_ccc"`
	Forecast               forecast.Table `json:"forecast"`
	Probability            float64        `json:"probability"`
	Description            string         `json:"description"`
}

// Engine derives scenarios from one baseline driver set. The baseline is
// read-only for the engine's lifetime; every variant runs on a clone.
type Engine struct {
	base *drivers.ForecastDrivers
	rng  *rand.Rand
}

// NewEngine creates a scenario engine over the baseline drivers.
func NewEngine(base *drivers.ForecastDrivers) *Engine {
	return &Engine{base: base}
}

// WithRand fixes the random source for Monte Carlo runs. Tests use this
// for reproducible draws; without it each run seeds from the global
// generator.
func (e *Engine) WithRand(rng *rand.Rand) *Engine {
	e.rng = rng
	return e
}

// CreateScenarios derives the three standard scenarios from the
// baseline. Each owns an independent clone, so callers may tweak a
// scenario's drivers without contaminating the baseline or its siblings.
func (e *Engine) CreateScenarios() []Scenario {
	base := Scenario{
		Name:        "Base Case",
		Description: "Current trends continue",
		Drivers:     e.base.Clone(),
		Probability: 0.50,
	}

	opt := e.base.Clone()
	opt.WorkingCapital.DSODays *= 0.85
	opt.WorkingCapital.DPODays *= 1.1
	opt.Revenue.RevenueGrowthPct *= 1.2
	optimistic := Scenario{
		Name:        "Optimistic",
		Description: "Better receivables collection, sales growth",
		Drivers:     opt,
		Probability: 0.25,
	}

	pes := e.base.Clone()
	pes.WorkingCapital.DSODays *= 1.2
	pes.WorkingCapital.DIODays *= 1.15
	pes.Revenue.RevenueGrowthPct *= 0.5
	pessimistic := Scenario{
		Name:        "Pessimistic",
		Description: "Payment delays, growth slowdown",
		Drivers:     pes,
		Probability: 0.25,
	}

	return []Scenario{base, optimistic, pessimistic}
}

// RunScenarios forecasts every scenario and returns results keyed by
// scenario name. Scenarios share no mutable state, so they run
// concurrently, one goroutine each.
func (e *Engine) RunScenarios(history []forecast.HistoryPoint, periods int) (map[string]Result, error) {
	scenarios := e.CreateScenarios()

	type outcome struct {
		name   string
		result Result
		err    error
	}
	outcomes := make([]outcome, len(scenarios))

	var wg sync.WaitGroup
	for i, sc := range scenarios {
		wg.Add(1)
		go func(i int, sc Scenario) {
			defer wg.Done()
			table, err := forecast.New(sc.Drivers).Generate(history, periods)
			if err != nil {
				outcomes[i] = outcome{name: sc.Name, err: err}
				return
			}
			outcomes[i] = outcome{
				name: sc.Name,
				result: Result{
					TotalFreeCashflow:      table.TotalFreeCashflow(),
					TotalOperatingCashflow: table.TotalOperatingCashflow(),
					AvgCCCDays:             table.AvgCCCDays(),
					Forecast:               table,
					Probability:            sc.Probability,
					Description:            sc.Description,
				},
			}
		}(i, sc)
	}
	wg.Wait()

	results := make(map[string]Result, len(outcomes))
	for _, o := range outcomes {
		if o.err != nil {
			return nil, fmt.Errorf("scenario %q: %w", o.name, o.err)
		}
		results[o.name] = o.result
	}
	return results, nil
}

// RunMonteCarlo runs n independent trials, each perturbing a fresh clone
// of the baseline: DSO, DPO and DIO scale by Uniform(0.8, 1.2) draws,
// revenue growth by Uniform(0.5, 1.5) — the wider band reflects higher
// growth uncertainty and is intentional.
//
// The context is checked between trials: on cancellation the totals
// collected so far still yield valid partial statistics. Trials whose
// total free cash flow is non-finite are excluded from aggregation so a
// single degenerate configuration cannot corrupt the percentiles; the
// Trials field reports how many made it in.
func (e *Engine) RunMonteCarlo(ctx context.Context, history []forecast.HistoryPoint, nSimulations, periods int) (MonteCarloResult, error) {
	if nSimulations < 1 {
		return MonteCarloResult{}, fmt.Errorf("n_simulations must be >= 1, got %d", nSimulations)
	}

	rng := e.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	uniform := func(lo, hi float64) float64 {
		return lo + rng.Float64()*(hi-lo)
	}

	totals := make([]float64, 0, nSimulations)
	for i := 0; i < nSimulations; i++ {
		if err := ctx.Err(); err != nil {
			break
		}

		trial := e.base.Clone()
		trial.WorkingCapital.DSODays *= uniform(0.8, 1.2)
		trial.WorkingCapital.DPODays *= uniform(0.8, 1.2)
		trial.WorkingCapital.DIODays *= uniform(0.8, 1.2)
		trial.Revenue.RevenueGrowthPct *= uniform(0.5, 1.5)

		table, err := forecast.New(trial).Generate(history, periods)
		if err != nil {
			return MonteCarloResult{}, fmt.Errorf("monte carlo trial %d: %w", i+1, err)
		}

		total := table.TotalFreeCashflow()
		if math.IsNaN(total) || math.IsInf(total, 0) {
			continue
		}
		totals = append(totals, total)
	}

	if len(totals) == 0 {
		return MonteCarloResult{}, fmt.Errorf("monte carlo produced no finite trial results")
	}
	return summarize(totals), nil
}
