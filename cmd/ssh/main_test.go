package main

import (
	"context"
	"os"
	"reflect"
	"testing"
	"time"

	"ratedash/internal/advisor"
	"ratedash/internal/config"
	"ratedash/internal/domain"
	"ratedash/internal/repository"
	"ratedash/internal/service"
	"ratedash/internal/store"

	"github.com/charmbracelet/ssh"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestMainBootstrap(t *testing.T) {
	restore := stubSSHDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func TestParseAuthorizedFingerprints(t *testing.T) {
	got := parseAuthorizedFingerprints("SHA256:abc, SHA256:def\nSHA256:ghi,,")
	want := map[string]bool{
		"SHA256:abc": true,
		"SHA256:def": true,
		"SHA256:ghi": true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	if len(parseAuthorizedFingerprints("")) != 0 {
		t.Fatal("empty allow-list should yield no fingerprints")
	}
}

func stubSSHDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitPostgres := initPostgresFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origNewRateRepo := newRateRepoFunc
	origNewConvRepo := newConvRepoFunc
	origNewProvider := newRateProviderFunc
	origNewRateService := newRateServiceFunc
	origNewAnalytics := newAnalyticsServiceFunc
	origNewOpenAIClient := newOpenAIClientFunc
	origNewAdvisor := newAdvisorServiceFunc
	origNewWishServer := newWishServerFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			RedisURL:       "",
			DatabaseURL:    "",
			RateProvider:   "static",
			SSHPort:        2222,
			SSHHostKeyPath: ".ssh/test_key",
		}
	}
	initPostgresFunc = func(context.Context) {}
	initRedisFunc = func(context.Context) {}
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newRateRepoFunc = func(repository.PgxPool, trace.Tracer) *repository.RateRepository {
		return nil
	}
	newConvRepoFunc = func(repository.PgxPool, trace.Tracer) *repository.ConversationRepository {
		return nil
	}
	newProviderStub := stubRateProvider{}
	newRateProviderFunc = func(trace.Tracer, string) service.RateProvider { return newProviderStub }
	newRateServiceFunc = func(
		tracer trace.Tracer,
		provider service.RateProvider,
		repo service.RateHistoryRepository,
		redisClient service.RedisClient,
		ledger *store.ConversionLedger,
	) *service.RateService {
		return service.NewRateService(tracer, provider, repo, redisClient, ledger)
	}
	newAnalyticsServiceFunc = service.NewAnalyticsService
	newOpenAIClientFunc = func(string) advisor.LLMClient { return nil }
	newAdvisorServiceFunc = func(
		trace.Tracer, advisor.LLMClient, advisor.RateQuerier, advisor.TrendQuerier,
		advisor.ConversationStore, string, int,
	) *advisor.AdvisorService {
		return nil
	}
	newWishServerFunc = func(ops ...ssh.Option) (*ssh.Server, error) {
		return nil, nil
	}
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initPostgresFunc = origInitPostgres
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		newRateRepoFunc = origNewRateRepo
		newConvRepoFunc = origNewConvRepo
		newRateProviderFunc = origNewProvider
		newRateServiceFunc = origNewRateService
		newAnalyticsServiceFunc = origNewAnalytics
		newOpenAIClientFunc = origNewOpenAIClient
		newAdvisorServiceFunc = origNewAdvisor
		newWishServerFunc = origNewWishServer
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
	}
}

type stubRateProvider struct{}

func (stubRateProvider) FetchRate(ctx context.Context, from, to string) (float64, error) {
	return 1, nil
}

func (stubRateProvider) FetchHistory(ctx context.Context, from, to string, days int) ([]domain.RatePoint, error) {
	return nil, nil
}
