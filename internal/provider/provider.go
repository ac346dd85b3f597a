package provider

import (
	"context"

	"ratedash/internal/domain"
)

// RateProvider supplies current and historical exchange rates. The
// analytics layer treats it as an opaque source of rate series; pair
// lookup failures surface here, never inside the trend math.
type RateProvider interface {
	// FetchRate returns the current from→to rate.
	FetchRate(ctx context.Context, from, to string) (float64, error)
	// FetchHistory returns up to days daily points, ascending by date.
	FetchHistory(ctx context.Context, from, to string, days int) ([]domain.RatePoint, error)
}
