package trend

import (
	"fmt"
	"math"
)

// Stats summarizes a rate series for display. Volatility is the simple
// (max-min)/average spread in percent, not a standard-deviation measure.
type Stats struct {
	Average    float64 `json:"average"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Volatility float64 `json:"volatility"`
}

// Summarize computes average, min, max, and volatility over a series.
// The series must be non-empty and must not average to zero.
func Summarize(series []float64) (Stats, error) {
	if len(series) == 0 {
		return Stats{}, fmt.Errorf("%w: summarize needs a non-empty series", ErrInvalidInput)
	}

	min, max := series[0], series[0]
	var sum float64
	for _, v := range series {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	avg := sum / float64(len(series))
	if avg == 0 {
		return Stats{}, fmt.Errorf("%w: zero-mean series has undefined volatility", ErrInvalidInput)
	}

	return Stats{
		Average:    avg,
		Min:        min,
		Max:        max,
		Volatility: round2((max - min) / avg * 100),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
