package scenario

import (
	"math"
	"sort"
)

// MonteCarloResult summarizes the distribution of total free cash flow
// across all simulation trials.
type MonteCarloResult struct {
	Trials int     `json:"trials"` // finite trials included in the stats
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"` // population standard deviation
	P5     float64 `json:"p5"`
	P25    float64 `json:"p25"`
	P50    float64 `json:"p50"`
	P75    float64 `json:"p75"`
	P95    float64 `json:"p95"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// percentile computes the q-th percentile (0..100) of sorted values
// using linear interpolation between closest ranks.
func percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	rank := (q / 100) * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// summarize aggregates trial totals into distribution statistics.
// Percentile monotonicity (min <= p5 <= ... <= p95 <= max) follows from
// sorting plus interpolation.
func summarize(totals []float64) MonteCarloResult {
	n := len(totals)
	if n == 0 {
		return MonteCarloResult{}
	}

	sorted := make([]float64, n)
	copy(sorted, totals)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)

	return MonteCarloResult{
		Trials: n,
		Mean:   mean,
		Std:    math.Sqrt(variance),
		P5:     percentile(sorted, 5),
		P25:    percentile(sorted, 25),
		P50:    percentile(sorted, 50),
		P75:    percentile(sorted, 75),
		P95:    percentile(sorted, 95),
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}
