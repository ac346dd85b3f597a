package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("RATE_PROVIDER", "")
	t.Setenv("RATE_POLL_SECS", "")

	cfg := Load()
	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.RateProvider != "frankfurter" {
		t.Fatalf("expected default provider frankfurter, got %s", cfg.RateProvider)
	}
	if cfg.RatePollSecs != 60 {
		t.Fatalf("expected default poll secs 60, got %d", cfg.RatePollSecs)
	}
	if cfg.SSHPort != 2222 {
		t.Fatalf("expected default SSH port 2222, got %d", cfg.SSHPort)
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis:6379")
	t.Setenv("RATE_PROVIDER", "static")
	t.Setenv("RATE_POLL_SECS", "120")

	cfg := Load()
	if cfg.TelegramBotToken != "token" || cfg.DatabaseURL != "postgres://example" || cfg.RedisURL != "redis:6379" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.RateProvider != "static" {
		t.Fatalf("expected provider static, got %s", cfg.RateProvider)
	}
	if cfg.RatePollSecs != 120 {
		t.Fatalf("expected poll secs 120, got %d", cfg.RatePollSecs)
	}

	t.Setenv("RATE_POLL_SECS", "bad")
	cfg = Load()
	if cfg.RatePollSecs != 60 {
		t.Fatalf("invalid poll secs should fall back to default, got %d", cfg.RatePollSecs)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("RATE_PROVIDER", "bloomberg")

	cfg := Load()
	if cfg.RateProvider != "frankfurter" {
		t.Fatalf("unknown provider should fall back to frankfurter, got %s", cfg.RateProvider)
	}
}
