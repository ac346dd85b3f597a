package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"ratedash/internal/anomaly"
	"ratedash/internal/cache"
	"ratedash/internal/config"
	"ratedash/internal/db"
	"ratedash/internal/domain"
	"ratedash/internal/provider"
	"ratedash/internal/repository"
	"ratedash/internal/service"
	"ratedash/internal/store"
	"ratedash/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"
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
	runServerFunc     = func(ctx context.Context, server *mcp.Server) error { return server.Run(ctx, &mcp.StdioTransport{}) }
	setupSignalNotify = ossignal.Notify
)

type convertInput struct {
	From   string  `json:"from" jsonschema:"source currency code, e.g. EUR"`
	To     string  `json:"to" jsonschema:"target currency code, e.g. USD"`
	Amount float64 `json:"amount" jsonschema:"amount to convert, must be positive"`
}

type convertOutput struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
	Rate   float64 `json:"rate"`
	Result float64 `json:"result"`
}

type pairInput struct {
	Pair string `json:"pair" jsonschema:"currency pair, e.g. EURUSD or EUR/USD"`
	Days int    `json:"days,omitempty" jsonschema:"optional window in days"`
}

type rateOutput struct {
	Pair string  `json:"pair"`
	Rate float64 `json:"rate"`
}

// toolServer bundles the services the MCP tools call, plus a shared
// request limiter and timeout.
type toolServer struct {
	rates     *service.RateService
	analytics *service.AnalyticsService
	limiter   *provider.RateLimiter
	timeout   time.Duration
}

func (t *toolServer) acquire(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	return ctx, cancel, nil
}

func (t *toolServer) convertCurrency(ctx context.Context, req *mcp.CallToolRequest, in convertInput) (*mcp.CallToolResult, convertOutput, error) {
	ctx, cancel, err := t.acquire(ctx)
	if err != nil {
		return nil, convertOutput{}, err
	}
	defer cancel()

	from := strings.ToUpper(strings.TrimSpace(in.From))
	to := strings.ToUpper(strings.TrimSpace(in.To))
	if !domain.IsSupported(from) || !domain.IsSupported(to) {
		return nil, convertOutput{}, fmt.Errorf("unsupported currency, supported: %s", strings.Join(domain.SupportedCodes, ", "))
	}
	if in.Amount <= 0 {
		return nil, convertOutput{}, fmt.Errorf("amount must be positive, got %v", in.Amount)
	}

	conv, err := t.rates.Convert(ctx, from, to, in.Amount)
	if err != nil {
		return nil, convertOutput{}, err
	}
	return nil, convertOutput{
		From:   conv.From,
		To:     conv.To,
		Amount: conv.Amount,
		Rate:   conv.Rate,
		Result: conv.Result,
	}, nil
}

func (t *toolServer) getRate(ctx context.Context, req *mcp.CallToolRequest, in pairInput) (*mcp.CallToolResult, rateOutput, error) {
	ctx, cancel, err := t.acquire(ctx)
	if err != nil {
		return nil, rateOutput{}, err
	}
	defer cancel()

	from, to, err := domain.ParsePair(in.Pair)
	if err != nil {
		return nil, rateOutput{}, err
	}
	rate, err := t.rates.GetRate(ctx, from, to)
	if err != nil {
		return nil, rateOutput{}, err
	}
	return nil, rateOutput{Pair: from + "/" + to, Rate: rate}, nil
}

func (t *toolServer) getForecast(ctx context.Context, req *mcp.CallToolRequest, in pairInput) (*mcp.CallToolResult, service.ForecastResult, error) {
	ctx, cancel, err := t.acquire(ctx)
	if err != nil {
		return nil, service.ForecastResult{}, err
	}
	defer cancel()

	from, to, err := domain.ParsePair(in.Pair)
	if err != nil {
		return nil, service.ForecastResult{}, err
	}
	horizon := in.Days
	if horizon < 1 || horizon > 90 {
		horizon = 7
	}
	result, err := t.analytics.Forecast(ctx, from, to, 30, horizon)
	if err != nil {
		return nil, service.ForecastResult{}, err
	}
	return nil, result, nil
}

func (t *toolServer) getStatistics(ctx context.Context, req *mcp.CallToolRequest, in pairInput) (*mcp.CallToolResult, service.StatisticsResult, error) {
	ctx, cancel, err := t.acquire(ctx)
	if err != nil {
		return nil, service.StatisticsResult{}, err
	}
	defer cancel()

	from, to, err := domain.ParsePair(in.Pair)
	if err != nil {
		return nil, service.StatisticsResult{}, err
	}
	days := in.Days
	if days < 2 || days > 365 {
		days = 30
	}
	result, err := t.analytics.Statistics(ctx, from, to, days)
	if err != nil {
		return nil, service.StatisticsResult{}, err
	}
	return nil, result, nil
}

func newMCPServer(ts *toolServer) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "ratedash", Version: "1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "convert_currency",
		Description: "Convert an amount between two supported currencies at the current exchange rate.",
	}, ts.convertCurrency)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_rate",
		Description: "Get the current exchange rate for a currency pair.",
	}, ts.getRate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_rate_forecast",
		Description: "Forecast daily exchange rates for a pair with a linear trend fit, including direction and confidence.",
	}, ts.getForecast)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_rate_statistics",
		Description: "Summarize a pair's rate history: average, min, max, volatility, and anomalous dates.",
	}, ts.getStatistics)

	return server
}

// authMiddleware enforces a bearer token on the streamable HTTP
// transport. A missing configured token disables the check.
func authMiddleware(token string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			provided := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if provided != token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	var historyRepo service.RateHistoryRepository
	if db.Pool != nil {
		historyRepo = newRateRepoFunc(db.Pool, tracer)
	}
	var redisClient service.RedisClient
	if cache.Client != nil {
		redisClient = cache.Client
	}
	rateProvider := newRateProviderFunc(tracer, cfg.RateProvider)
	ledger := store.NewConversionLedger(0)
	rateService := service.NewRateService(tracer, rateProvider, historyRepo, redisClient, ledger)
	analyticsService := service.NewAnalyticsService(tracer, rateService, anomaly.NewDetector(), nil)

	ts := &toolServer{
		rates:     rateService,
		analytics: analyticsService,
		limiter:   provider.NewRateLimiter(cfg.MCPRateLimitPerMin, time.Minute),
		timeout:   time.Duration(cfg.MCPRequestTimeoutSecs) * time.Second,
	}
	server := newMCPServer(ts)

	if cfg.MCPTransport == "http" || cfg.MCPHTTPEnabled {
		handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
		addr := fmt.Sprintf("%s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort)
		srv := &http.Server{
			Addr:    addr,
			Handler: authMiddleware(cfg.MCPAuthToken, handler),
		}
		go func() {
			log.Printf("MCP HTTP server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("MCP HTTP listen: %v", err)
			}
		}()

		quit := make(chan os.Signal, 1)
		setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down MCP server...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("MCP HTTP shutdown error: %v", err)
		}
		return
	}

	log.Println("MCP server running on stdio")
	if err := runServerFunc(ctx, server); err != nil {
		log.Fatalf("MCP server stopped: %v", err)
	}
}
