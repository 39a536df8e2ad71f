package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.App.Port)
	}
	if !cfg.App.IsDev() {
		t.Fatalf("expected default env dev, got %q", cfg.App.Env)
	}
	if cfg.Insights.Cooldown != 10*time.Second {
		t.Fatalf("expected 10s insights cooldown, got %s", cfg.Insights.Cooldown)
	}
	if cfg.Insights.RetryDelay != 2*time.Second {
		t.Fatalf("expected 2s retry delay, got %s", cfg.Insights.RetryDelay)
	}
	if cfg.Seed.OrderCount != 40 {
		t.Fatalf("expected 40 seeded orders, got %d", cfg.Seed.OrderCount)
	}
	if cfg.Idempotency.TTL != 24*time.Hour {
		t.Fatalf("expected 24h idempotency ttl, got %s", cfg.Idempotency.TTL)
	}
	if cfg.Insights.RateLimit != 30 || cfg.Insights.RateLimitWindow != time.Minute {
		t.Fatalf("unexpected insights rate limit defaults: %d per %s", cfg.Insights.RateLimit, cfg.Insights.RateLimitWindow)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BACKOFFICE_APP_ENV", "prod")
	t.Setenv("BACKOFFICE_APP_PORT", "9090")
	t.Setenv("BACKOFFICE_INSIGHTS_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("expected prod env, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "9090" {
		t.Fatalf("expected overridden port, got %q", cfg.App.Port)
	}
	if cfg.Insights.APIKey != "test-key" {
		t.Fatalf("expected api key override, got %q", cfg.Insights.APIKey)
	}
}
