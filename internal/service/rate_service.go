package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"ratedash/internal/domain"
	"ratedash/internal/store"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const rateCacheTTL = 15 * time.Minute

// RateProvider supplies current and historical rates for a pair.
type RateProvider interface {
	FetchRate(ctx context.Context, from, to string) (float64, error)
	FetchHistory(ctx context.Context, from, to string, days int) ([]domain.RatePoint, error)
}

// RateHistoryRepository persists daily rate points per pair.
type RateHistoryRepository interface {
	GetRates(ctx context.Context, base, quote string, limit int) ([]domain.RatePoint, error)
	UpsertRates(ctx context.Context, base, quote string, points []domain.RatePoint) error
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RateService orchestrates rate fetching, caching, conversion, and
// history retrieval.
type RateService struct {
	tracer   trace.Tracer
	provider RateProvider
	repo     RateHistoryRepository
	redis    RedisClient
	ledger   *store.ConversionLedger
}

func NewRateService(
	tracer trace.Tracer,
	provider RateProvider,
	repo RateHistoryRepository,
	redisClient RedisClient,
	ledger *store.ConversionLedger,
) *RateService {
	return &RateService{
		tracer:   tracer,
		provider: provider,
		repo:     repo,
		redis:    redisClient,
		ledger:   ledger,
	}
}

// GetRate returns the current from→to rate, preferring the Redis cache.
func (s *RateService) GetRate(ctx context.Context, from, to string) (float64, error) {
	ctx, span := s.tracer.Start(ctx, "rate-service.get-rate")
	defer span.End()

	if !domain.IsSupported(from) {
		return 0, fmt.Errorf("unsupported currency: %s", from)
	}
	if !domain.IsSupported(to) {
		return 0, fmt.Errorf("unsupported currency: %s", to)
	}

	if s.redis != nil {
		cached, err := s.getRateCache(ctx, from, to)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if cached > 0 {
			return cached, nil
		}
	}

	rate, err := s.provider.FetchRate(ctx, from, to)
	if err != nil {
		return 0, err
	}

	if s.redis != nil {
		if err := s.setRateCache(ctx, from, to, rate); err != nil {
			log.Printf("redis cache write error for %s/%s: %v", from, to, err)
		}
	}
	return rate, nil
}

// Convert executes a conversion at the current rate and records it in
// the in-memory ledger.
func (s *RateService) Convert(ctx context.Context, from, to string, amount float64) (domain.Conversion, error) {
	ctx, span := s.tracer.Start(ctx, "rate-service.convert")
	defer span.End()

	if amount <= 0 {
		return domain.Conversion{}, fmt.Errorf("amount must be positive, got %v", amount)
	}

	rate, err := s.GetRate(ctx, from, to)
	if err != nil {
		return domain.Conversion{}, err
	}

	conv := domain.Conversion{
		From:   from,
		To:     to,
		Amount: amount,
		Rate:   rate,
		Result: amount * rate,
	}
	if s.ledger != nil {
		conv = s.ledger.Record(conv)
	}
	return conv, nil
}

// RecentConversions returns the latest ledger entries, newest first.
func (s *RateService) RecentConversions(limit int) []domain.Conversion {
	if s.ledger == nil {
		return nil
	}
	return s.ledger.Recent(limit)
}

// GetHistory returns up to days daily points for a pair, oldest first.
// Stored history wins; otherwise the provider supplies (or synthesizes)
// a series, which is persisted when a repository is configured.
func (s *RateService) GetHistory(ctx context.Context, from, to string, days int) ([]domain.RatePoint, error) {
	ctx, span := s.tracer.Start(ctx, "rate-service.get-history")
	defer span.End()

	if days < 2 {
		return nil, fmt.Errorf("history needs at least 2 days, got %d", days)
	}

	if s.repo != nil {
		points, err := s.repo.GetRates(ctx, from, to, days)
		if err != nil {
			log.Printf("rate history read error for %s/%s: %v", from, to, err)
		}
		if len(points) >= 2 {
			return points, nil
		}
	}

	points, err := s.provider.FetchHistory(ctx, from, to, days)
	if err != nil {
		return nil, err
	}

	if s.repo != nil {
		if err := s.repo.UpsertRates(ctx, from, to, points); err != nil {
			log.Printf("rate history write error for %s/%s: %v", from, to, err)
		}
	}
	return points, nil
}

// RefreshRate re-fetches a pair's current rate and rewrites the cache.
// Used by the background poller.
func (s *RateService) RefreshRate(ctx context.Context, from, to string) error {
	ctx, span := s.tracer.Start(ctx, "rate-service.refresh-rate")
	defer span.End()

	rate, err := s.provider.FetchRate(ctx, from, to)
	if err != nil {
		return err
	}
	if s.redis != nil {
		if err := s.setRateCache(ctx, from, to, rate); err != nil {
			return fmt.Errorf("cache refreshed rate for %s/%s: %w", from, to, err)
		}
	}
	return nil
}

// RefreshHistory re-fetches a pair's daily history and persists it.
func (s *RateService) RefreshHistory(ctx context.Context, from, to string, days int) error {
	ctx, span := s.tracer.Start(ctx, "rate-service.refresh-history")
	defer span.End()

	points, err := s.provider.FetchHistory(ctx, from, to, days)
	if err != nil {
		return err
	}
	if s.repo == nil {
		return nil
	}
	if err := s.repo.UpsertRates(ctx, from, to, points); err != nil {
		return fmt.Errorf("upsert history for %s/%s: %w", from, to, err)
	}
	log.Printf("Refreshed history for %s/%s (%d points)", from, to, len(points))
	return nil
}

func rateCacheKey(from, to string) string {
	return "rate:" + from + ":" + to
}

func (s *RateService) setRateCache(ctx context.Context, from, to string, rate float64) error {
	data, err := json.Marshal(rate)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, rateCacheKey(from, to), data, rateCacheTTL).Err()
}

func (s *RateService) getRateCache(ctx context.Context, from, to string) (float64, error) {
	data, err := s.redis.Get(ctx, rateCacheKey(from, to)).Bytes()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	rate, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return 0, err
	}
	return rate, nil
}
