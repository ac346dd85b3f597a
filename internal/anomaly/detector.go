// Package anomaly flags suspicious observations in a rate series using
// an isolation forest over (level, day-over-day return) features.
package anomaly

import (
	iforest "github.com/narumiruna/go-iforest/pkg/iforest"
)

// scoreThreshold marks a point anomalous. Isolation-forest scores live
// in [0, 1]; values above ~0.6 isolate much faster than average.
const defaultScoreThreshold = 0.65

// minSeriesLen is the shortest series worth fitting a forest to.
const minSeriesLen = 8

type Detector struct {
	threshold float64
}

func NewDetector() *Detector {
	return &Detector{threshold: defaultScoreThreshold}
}

// Detect returns the indices of anomalous points in the series, in
// ascending order. Short series return no anomalies rather than an
// error; the caller treats anomaly data as best-effort.
func (d *Detector) Detect(series []float64) []int {
	if len(series) < minSeriesLen {
		return nil
	}

	samples := make([][]float64, len(series))
	for i, v := range series {
		ret := 0.0
		if i > 0 && series[i-1] != 0 {
			ret = (v - series[i-1]) / series[i-1]
		}
		samples[i] = []float64{v, ret}
	}

	forest := iforest.New()
	forest.Fit(samples)
	scores := forest.Score(samples)

	var out []int
	for i, score := range scores {
		if score >= d.threshold {
			out = append(out, i)
		}
	}
	return out
}
