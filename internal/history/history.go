// Package history generates synthetic daily rate series for pairs that
// have no stored or provider-supplied history yet.
package history

import (
	"math/rand"
	"time"

	"ratedash/internal/domain"
)

// defaultJitterPct bounds the random walk step around the base rate.
const defaultJitterPct = 0.02

// Generate produces days daily points ending today, jittered around
// baseRate. The rng is injectable for tests; nil gets a time-seeded one.
func Generate(baseRate float64, days int, rng *rand.Rand) []domain.RatePoint {
	if days < 1 || baseRate <= 0 {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	points := make([]domain.RatePoint, days)
	for i := 0; i < days; i++ {
		jitter := (rng.Float64() - 0.5) * 2 * defaultJitterPct
		points[i] = domain.RatePoint{
			Date: today.AddDate(0, 0, -(days - 1 - i)),
			Rate: baseRate * (1 + jitter),
		}
	}
	return points
}
