package job

import (
	"context"
	"log"
	"time"

	"ratedash/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const historyWindowDays = 30

// RatePoller runs background goroutines that keep current rates and
// daily history fresh for every tracked pair.
type RatePoller struct {
	tracer          trace.Tracer
	rateService     RateDataRefresher
	anomalies       AnomalyScanner
	pollInterval    time.Duration
	historyInterval time.Duration
}

type RateDataRefresher interface {
	RefreshRate(ctx context.Context, from, to string) error
	RefreshHistory(ctx context.Context, from, to string, days int) error
}

// AnomalyScanner reports anomalous dates in a pair's recent history.
// A nil scanner disables the post-refresh anomaly check.
type AnomalyScanner interface {
	AnomalousDates(ctx context.Context, from, to string, days int) ([]string, error)
}

func NewRatePoller(tracer trace.Tracer, rateService RateDataRefresher, anomalies AnomalyScanner, pollIntervalSecs int) *RatePoller {
	return &RatePoller{
		tracer:          tracer,
		rateService:     rateService,
		anomalies:       anomalies,
		pollInterval:    time.Duration(pollIntervalSecs) * time.Second,
		historyInterval: 15 * time.Minute,
	}
}

// Start launches background polling goroutines. Blocks until ctx is cancelled.
func (p *RatePoller) Start(ctx context.Context) {
	log.Println("Rate poller starting...")

	// Tier 1: Current rates for all tracked pairs every pollInterval (default 60s)
	go p.pollLoop(ctx, "current-rates", p.pollInterval, p.refreshRates)

	// Tier 2: Daily history, one pair per tick, round-robin
	go p.pollHistory(ctx)

	<-ctx.Done()
	log.Println("Rate poller stopped")
}

func (p *RatePoller) pollLoop(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	// Run immediately on start
	if err := fn(ctx); err != nil {
		log.Printf("poller %s initial run error: %v", name, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				log.Printf("poller %s error: %v", name, err)
			}
		}
	}
}

func (p *RatePoller) refreshRates(ctx context.Context) error {
	for _, pair := range domain.TrackedPairs {
		from, to, err := domain.ParsePair(pair)
		if err != nil {
			log.Printf("skipping malformed tracked pair %q: %v", pair, err)
			continue
		}
		if err := p.rateService.RefreshRate(ctx, from, to); err != nil {
			log.Printf("rate refresh error for %s: %v", pair, err)
		}
	}
	return nil
}

func (p *RatePoller) pollHistory(ctx context.Context) {
	// Stagger behind the rate poller so both don't hit the provider at once
	select {
	case <-ctx.Done():
		return
	case <-time.After(10 * time.Second):
	}

	ticker := time.NewTicker(p.historyInterval)
	defer ticker.Stop()

	pairIndex := 0

	// Run immediately
	p.refreshHistoryBatch(ctx, &pairIndex, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refreshHistoryBatch(ctx, &pairIndex, 1)
		}
	}
}

func (p *RatePoller) refreshHistoryBatch(ctx context.Context, pairIndex *int, count int) {
	pairs := domain.TrackedPairs
	for i := 0; i < count; i++ {
		pair := pairs[*pairIndex%len(pairs)]
		*pairIndex++

		from, to, err := domain.ParsePair(pair)
		if err != nil {
			log.Printf("skipping malformed tracked pair %q: %v", pair, err)
			continue
		}
		if err := p.rateService.RefreshHistory(ctx, from, to, historyWindowDays); err != nil {
			log.Printf("history refresh error for %s: %v", pair, err)
			continue
		}
		p.scanAnomalies(ctx, pair, from, to)
	}
}

func (p *RatePoller) scanAnomalies(ctx context.Context, pair, from, to string) {
	if p.anomalies == nil {
		return
	}
	dates, err := p.anomalies.AnomalousDates(ctx, from, to, historyWindowDays)
	if err != nil {
		log.Printf("anomaly scan error for %s: %v", pair, err)
		return
	}
	if len(dates) > 0 {
		log.Printf("anomalous rates detected for %s on %v", pair, dates)
	}
}
