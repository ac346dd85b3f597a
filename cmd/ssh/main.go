package main

import (
	"context"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"ratedash/internal/advisor"
	"ratedash/internal/cache"
	"ratedash/internal/config"
	"ratedash/internal/db"
	"ratedash/internal/provider"
	"ratedash/internal/repository"
	"ratedash/internal/service"
	"ratedash/internal/store"
	"ratedash/internal/tui"
	"ratedash/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	gossh "golang.org/x/crypto/ssh"
	"go.opentelemetry.io/otel/trace"
)

var (
	loadEnvFunc         = godotenv.Load
	loadConfigFunc      = config.Load
	initPostgresFunc    = db.InitPostgres
	initRedisFunc       = cache.InitRedis
	initTracerFunc      = tracing.InitTracer
	newRateRepoFunc     = repository.NewRateRepository
	newConvRepoFunc     = repository.NewConversationRepository
	newRateProviderFunc = func(tracer trace.Tracer, name string) service.RateProvider {
		if name == "static" {
			return provider.NewStaticProvider(tracer, nil)
		}
		return provider.NewFrankfurterProvider(tracer)
	}
	newRateServiceFunc      = service.NewRateService
	newAnalyticsServiceFunc = service.NewAnalyticsService
	newOpenAIClientFunc     = advisor.NewOpenAIClient
	newAdvisorServiceFunc   = advisor.NewAdvisorService
	newWishServerFunc       = wish.NewServer
	setupSignalNotify       = ossignal.Notify
	waitForSignalFunc       = func(quit <-chan os.Signal) { <-quit }
)

// parseAuthorizedFingerprints splits the allow-list env value into
// SHA256 fingerprints. Accepts comma or newline separated entries.
func parseAuthorizedFingerprints(raw string) map[string]bool {
	allowed := make(map[string]bool)
	for _, entry := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			allowed[entry] = true
		}
	}
	return allowed
}

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

	// Create repositories and services
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
	rateService := newRateServiceFunc(tracer, rateProvider, historyRepo, redisClient, ledger)
	analyticsService := newAnalyticsServiceFunc(tracer, rateService, nil, nil)

	// Advisor (optional)
	var advisorSvc *advisor.AdvisorService
	if cfg.OpenAIAPIKey != "" && db.Pool != nil {
		convRepo := newConvRepoFunc(db.Pool, tracer)
		llmClient := newOpenAIClientFunc(cfg.OpenAIAPIKey)
		advisorSvc = newAdvisorServiceFunc(tracer, llmClient, rateService, analyticsService,
			convRepo, cfg.OpenAIModel, cfg.AdvisorMaxHistory)
		log.Println("SSH advisor service enabled")
	}

	allowedFingerprints := parseAuthorizedFingerprints(cfg.SSHAuthorizedKeys)

	// Build Wish SSH server
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithPublicKeyAuth(func(ctx ssh.Context, key ssh.PublicKey) bool {
			fingerprint := gossh.FingerprintSHA256(key)
			if !allowedFingerprints[fingerprint] {
				log.Printf("SSH auth denied: user=%s fingerprint=%s", ctx.User(), fingerprint)
				return false
			}
			log.Printf("SSH auth accepted: user=%s fingerprint=%s", ctx.User(), fingerprint)
			return true
		}),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				var advisorQ tui.AdvisorQuerier
				if advisorSvc != nil {
					advisorQ = advisorSvc
				}

				svc := tui.Services{
					Rates:    rateService,
					Trends:   analyticsService,
					Advisor:  advisorQ,
					Username: s.User(),
				}

				model := tui.NewAppModel(svc)
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
}
