package provider

import (
	"context"
	"fmt"
	"math/rand"

	"ratedash/internal/domain"
	"ratedash/internal/history"

	"go.opentelemetry.io/otel/trace"
)

// StaticProvider serves rates from the built-in USD-anchored table.
// It is the default source when no external rate API is configured;
// history is synthesized with daily jitter around the current rate.
type StaticProvider struct {
	tracer trace.Tracer
	rates  map[string]float64
	rng    *rand.Rand
}

// NewStaticProvider uses the shared domain rate table. A non-nil rng
// makes synthetic history reproducible in tests.
func NewStaticProvider(tracer trace.Tracer, rng *rand.Rand) *StaticProvider {
	return &StaticProvider{
		tracer: tracer,
		rates:  domain.BaseRates,
		rng:    rng,
	}
}

func (p *StaticProvider) FetchRate(ctx context.Context, from, to string) (float64, error) {
	_, span := p.tracer.Start(ctx, "static-provider.fetch-rate")
	defer span.End()

	return p.crossRate(from, to)
}

func (p *StaticProvider) FetchHistory(ctx context.Context, from, to string, days int) ([]domain.RatePoint, error) {
	_, span := p.tracer.Start(ctx, "static-provider.fetch-history")
	defer span.End()

	rate, err := p.crossRate(from, to)
	if err != nil {
		return nil, err
	}
	return history.Generate(rate, days, p.rng), nil
}

// crossRate derives from→to through the USD anchor.
func (p *StaticProvider) crossRate(from, to string) (float64, error) {
	fromUSD, ok := p.rates[from]
	if !ok {
		return 0, fmt.Errorf("no rate for %s", from)
	}
	toUSD, ok := p.rates[to]
	if !ok {
		return 0, fmt.Errorf("no rate for %s", to)
	}
	if fromUSD == 0 {
		return 0, fmt.Errorf("zero anchor rate for %s", from)
	}
	return toUSD / fromUSD, nil
}
