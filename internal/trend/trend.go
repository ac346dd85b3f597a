// Package trend implements the rate analytics used by the forecast and
// statistics endpoints: an ordinary least-squares fit over a daily rate
// series, a noisy linear forecast, direction/confidence scoring, and
// summary statistics. All functions are pure and safe for concurrent use.
package trend

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a series that is too short or degenerate for
// the requested operation. Callers match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input series")

// Fit is a least-squares line over (index, rate) pairs. Index 0 is the
// oldest observation; one index step is one day.
type Fit struct {
	Slope     float64
	Intercept float64
}

// Predict evaluates the fitted line at day index x.
func (f Fit) Predict(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// FitSeries computes the closed-form OLS slope and intercept for a rate
// series. At least two points are required; with one point the slope
// denominator is zero.
func FitSeries(series []float64) (Fit, error) {
	n := len(series)
	if n < 2 {
		return Fit{}, fmt.Errorf("%w: regression needs at least 2 points, got %d", ErrInvalidInput, n)
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn

	return Fit{Slope: slope, Intercept: intercept}, nil
}
