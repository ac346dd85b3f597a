package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ratedash/internal/domain"
	"ratedash/internal/store"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func TestRateService_GetRateCacheHit(t *testing.T) {
	t.Parallel()

	r := newFakeRedis()
	_ = r.Set(context.Background(), "rate:EUR:USD", []byte("1.0850"), 0)

	svc := NewRateService(testTracer, &mockRateProvider{}, nil, r, nil)

	rate, err := svc.GetRate(context.Background(), "EUR", "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != 1.0850 {
		t.Fatalf("expected cached rate 1.0850, got %v", rate)
	}
}

func TestRateService_GetRateFetchesOnMiss(t *testing.T) {
	t.Parallel()

	provider := &mockRateProvider{rate: 0.92}
	r := newFakeRedis()
	svc := NewRateService(testTracer, provider, nil, r, nil)

	rate, err := svc.GetRate(context.Background(), "USD", "EUR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != 0.92 {
		t.Fatalf("expected 0.92, got %v", rate)
	}
	if provider.fetchRateCalls != 1 {
		t.Fatalf("expected FetchRate once, got %d", provider.fetchRateCalls)
	}
	if _, ok := r.data["rate:USD:EUR"]; !ok {
		t.Fatal("rate not cached")
	}
}

func TestRateService_GetRateUnsupported(t *testing.T) {
	t.Parallel()

	svc := NewRateService(testTracer, &mockRateProvider{}, nil, nil, nil)
	if _, err := svc.GetRate(context.Background(), "FAKE", "USD"); err == nil {
		t.Fatal("expected error for unsupported base")
	}
	if _, err := svc.GetRate(context.Background(), "USD", "FAKE"); err == nil {
		t.Fatal("expected error for unsupported quote")
	}
}

func TestRateService_ConvertRecordsLedgerEntry(t *testing.T) {
	t.Parallel()

	ledger := store.NewConversionLedger(10)
	svc := NewRateService(testTracer, &mockRateProvider{rate: 0.92}, nil, nil, ledger)

	conv, err := svc.Convert(context.Background(), "USD", "EUR", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conv.Result != 92 {
		t.Fatalf("expected result 92, got %v", conv.Result)
	}
	if conv.ID == 0 {
		t.Fatal("conversion not assigned an id")
	}

	recent := svc.RecentConversions(5)
	if len(recent) != 1 || recent[0].Rate != 0.92 {
		t.Fatalf("unexpected ledger contents: %+v", recent)
	}
}

func TestRateService_ConvertRejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()

	svc := NewRateService(testTracer, &mockRateProvider{rate: 1}, nil, nil, nil)
	if _, err := svc.Convert(context.Background(), "USD", "EUR", 0); err == nil {
		t.Fatal("expected error for zero amount")
	}
	if _, err := svc.Convert(context.Background(), "USD", "EUR", -5); err == nil {
		t.Fatal("expected error for negative amount")
	}
}

func TestRateService_GetHistoryPrefersRepo(t *testing.T) {
	t.Parallel()

	stored := []domain.RatePoint{
		{Date: day(0), Rate: 1.07},
		{Date: day(1), Rate: 1.08},
	}
	repo := &mockRateRepo{getResp: stored}
	provider := &mockRateProvider{}
	svc := NewRateService(testTracer, provider, repo, nil, nil)

	points, err := svc.GetHistory(context.Background(), "EUR", "USD", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 || provider.fetchHistoryCalls != 0 {
		t.Fatalf("repo history should win: points=%d providerCalls=%d", len(points), provider.fetchHistoryCalls)
	}
}

func TestRateService_GetHistoryFallsBackToProvider(t *testing.T) {
	t.Parallel()

	generated := []domain.RatePoint{
		{Date: day(0), Rate: 1.07},
		{Date: day(1), Rate: 1.08},
		{Date: day(2), Rate: 1.09},
	}
	repo := &mockRateRepo{}
	provider := &mockRateProvider{history: generated}
	svc := NewRateService(testTracer, provider, repo, nil, nil)

	points, err := svc.GetHistory(context.Background(), "EUR", "USD", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if provider.fetchHistoryCalls != 1 {
		t.Fatalf("expected provider fetch once, got %d", provider.fetchHistoryCalls)
	}
	if repo.upsertCalls != 1 {
		t.Fatalf("provider history should be persisted, upserts=%d", repo.upsertCalls)
	}
}

func TestRateService_GetHistoryTooFewDays(t *testing.T) {
	t.Parallel()

	svc := NewRateService(testTracer, &mockRateProvider{}, nil, nil, nil)
	if _, err := svc.GetHistory(context.Background(), "EUR", "USD", 1); err == nil {
		t.Fatal("expected error for days < 2")
	}
}

func TestRateService_RefreshRateRewritesCache(t *testing.T) {
	t.Parallel()

	provider := &mockRateProvider{rate: 149.5}
	r := newFakeRedis()
	svc := NewRateService(testTracer, provider, nil, r, nil)

	if err := svc.RefreshRate(context.Background(), "USD", "JPY"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.data["rate:USD:JPY"]; !ok {
		t.Fatal("refreshed rate not cached")
	}
}

func TestRateService_RefreshHistoryUpserts(t *testing.T) {
	t.Parallel()

	repo := &mockRateRepo{}
	provider := &mockRateProvider{history: []domain.RatePoint{{Date: day(0), Rate: 1.0}}}
	svc := NewRateService(testTracer, provider, repo, nil, nil)

	if err := svc.RefreshHistory(context.Background(), "EUR", "USD", 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.upsertCalls != 1 || repo.lastUpsertBase != "EUR" || repo.lastUpsertQuote != "USD" {
		t.Fatalf("unexpected upsert: %+v", repo)
	}
}

func day(offset int) time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

type mockRateProvider struct {
	rate    float64
	history []domain.RatePoint
	rateErr error
	histErr error

	fetchRateCalls    int
	fetchHistoryCalls int
	lastFrom, lastTo  string
}

func (m *mockRateProvider) FetchRate(ctx context.Context, from, to string) (float64, error) {
	m.fetchRateCalls++
	m.lastFrom, m.lastTo = from, to
	if m.rateErr != nil {
		return 0, m.rateErr
	}
	return m.rate, nil
}

func (m *mockRateProvider) FetchHistory(ctx context.Context, from, to string, days int) ([]domain.RatePoint, error) {
	m.fetchHistoryCalls++
	m.lastFrom, m.lastTo = from, to
	if m.histErr != nil {
		return nil, m.histErr
	}
	return m.history, nil
}

type mockRateRepo struct {
	getResp []domain.RatePoint
	getErr  error

	upsertCalls     int
	lastUpsertBase  string
	lastUpsertQuote string
	upsertErr       error
}

func (m *mockRateRepo) GetRates(ctx context.Context, base, quote string, limit int) ([]domain.RatePoint, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getResp, nil
}

func (m *mockRateRepo) UpsertRates(ctx context.Context, base, quote string, points []domain.RatePoint) error {
	m.upsertCalls++
	m.lastUpsertBase = base
	m.lastUpsertQuote = quote
	return m.upsertErr
}

type fakeRedis struct {
	data   map[string][]byte
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = v
	case string:
		f.data[key] = []byte(v)
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	data, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(data), nil)
}

var errBoom = errors.New("boom")
