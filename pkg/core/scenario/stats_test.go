package scenario

import (
	"math"
	"testing"
)

func TestPercentileInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	cases := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{25, 1.75}, // rank 0.75 between 1 and 2
		{50, 2.5},
		{75, 3.25},
		{100, 4},
	}
	for _, c := range cases {
		if got := percentile(sorted, c.q); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("p%g: want %g, got %g", c.q, c.want, got)
		}
	}
}

func TestPercentileDegenerateInputs(t *testing.T) {
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("empty input: want 0, got %g", got)
	}
	if got := percentile([]float64{7}, 95); got != 7 {
		t.Errorf("single value: want 7, got %g", got)
	}
}

func TestSummarize(t *testing.T) {
	// mean = 3, population variance = (4+1+0+1+4)/5 = 2
	res := summarize([]float64{5, 1, 3, 2, 4})

	if res.Trials != 5 {
		t.Errorf("trials: want 5, got %d", res.Trials)
	}
	if res.Mean != 3 {
		t.Errorf("mean: want 3, got %g", res.Mean)
	}
	if math.Abs(res.Std-math.Sqrt(2)) > 1e-12 {
		t.Errorf("std: want %g, got %g", math.Sqrt(2), res.Std)
	}
	if res.Min != 1 || res.Max != 5 {
		t.Errorf("min/max: want 1/5, got %g/%g", res.Min, res.Max)
	}
	if res.P50 != 3 {
		t.Errorf("p50: want 3, got %g", res.P50)
	}
	if res.P5 < res.Min || res.P95 > res.Max {
		t.Errorf("percentiles must stay within [min, max]: %+v", res)
	}
}

func TestSummarizeUnorderedInputUnchanged(t *testing.T) {
	input := []float64{3, 1, 2}
	summarize(input)
	if input[0] != 3 || input[1] != 1 || input[2] != 2 {
		t.Error("summarize must not reorder the caller's slice")
	}
}
