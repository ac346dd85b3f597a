package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ratedash/internal/advisor"
	"ratedash/internal/anomaly"
	"ratedash/internal/bot"
	"ratedash/internal/cache"
	"ratedash/internal/config"
	"ratedash/internal/db"
	"ratedash/internal/handler"
	"ratedash/internal/job"
	"ratedash/internal/provider"
	"ratedash/internal/repository"
	"ratedash/internal/service"
	"ratedash/internal/store"
	"ratedash/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "ratedash/docs"
)

var (
	loadEnvFunc         = godotenv.Load
	loadConfigFunc      = config.Load
	initPostgresFunc    = db.InitPostgres
	initRedisFunc       = cache.InitRedis
	initTracerFunc      = tracing.InitTracer
	newRateRepoFunc     = repository.NewRateRepository
	newRateProviderFunc = func(tracer trace.Tracer, name string) service.RateProvider {
		if name == "static" {
			return provider.NewStaticProvider(tracer, nil)
		}
		return provider.NewFrankfurterProvider(tracer)
	}
	newRateServiceFunc      = service.NewRateService
	newAnalyticsServiceFunc = service.NewAnalyticsService
	newRatePollerFunc       = job.NewRatePoller
	startPollerFunc         = func(p *job.RatePoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc    = bot.StartTelegramBot
	newOpenAIClientFunc     = advisor.NewOpenAIClient
	newHandlerFunc          = handler.New
	newRouterFunc           = gin.Default
	setupSignalNotify       = signal.Notify
	waitForSignalFunc       = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc     = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc  = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Ratedash API
// @version         1.0
// @description     Currency conversion and rate trend analytics with OpenTelemetry tracing.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Create repository and run migrations. Without a database the
	// service falls back to provider-only history.
	var historyRepo service.RateHistoryRepository
	if db.Pool != nil {
		rateRepo := newRateRepoFunc(db.Pool, tracer)
		if err := rateRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		historyRepo = rateRepo
	}

	// Create provider and rate service
	rateProvider := newRateProviderFunc(tracer, cfg.RateProvider)
	ledger := store.NewConversionLedger(0)
	var redisClient service.RedisClient
	if cache.Client != nil {
		redisClient = cache.Client
	}
	rateService := newRateServiceFunc(tracer, rateProvider, historyRepo, redisClient, ledger)
	analyticsService := newAnalyticsServiceFunc(tracer, rateService, anomaly.NewDetector(), nil)

	// Start rate poller (background goroutines, stopped by ctx cancel)
	poller := newRatePollerFunc(tracer, rateService, analyticsService, cfg.RatePollSecs)
	startPollerFunc(poller, ctx)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(rateService, analyticsService)

	// Create handlers and routes
	h := newHandlerFunc(tracer, rateService, analyticsService)
	if cfg.OpenAIAPIKey != "" && db.Pool != nil {
		convRepo := repository.NewConversationRepository(db.Pool, tracer)
		llmClient := newOpenAIClientFunc(cfg.OpenAIAPIKey)
		advisorSvc := advisor.NewAdvisorService(tracer, llmClient, rateService, analyticsService,
			convRepo, cfg.OpenAIModel, cfg.AdvisorMaxHistory)
		h.SetAdvisor(advisorSvc)
		log.Println("Advisor endpoint enabled")
	}
	h.SetAPIKey(cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("ratedash"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
