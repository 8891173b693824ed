package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/iho/finbook/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("RETAIL_CUSTOMERS_NAME", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL == "" {
		t.Fatalf("expected default database URL to be set")
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.RetailCustomersName != "Retail customers" {
		t.Fatalf("expected default retail customers name, got %q", cfg.RetailCustomersName)
	}

	if !cfg.OutboxEnabled {
		t.Fatalf("expected outbox to be enabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("RATE_LIMIT_PER_SECOND", "5")
	t.Setenv("RETAIL_CUSTOMERS_NAME", "Walk-in customers")
	t.Setenv("OUTBOX_ENABLED", "false")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected custom database URL, got %s", cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.RateLimitPerSecond != 5 {
		t.Fatalf("expected rate limit override, got %v", cfg.RateLimitPerSecond)
	}

	if cfg.RetailCustomersName != "Walk-in customers" {
		t.Fatalf("expected retail customers name override, got %q", cfg.RetailCustomersName)
	}

	if cfg.OutboxEnabled {
		t.Fatalf("expected outbox override to disable publishing")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	original := os.Getenv("HTTP_READ_TIMEOUT")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")
	t.Cleanup(func() {
		t.Setenv("HTTP_READ_TIMEOUT", original)
	})

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
