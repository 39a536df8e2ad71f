package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "BACKOFFICE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App         AppConfig
	Redis       RedisConfig
	Insights    InsightsConfig
	Seed        SeedConfig
	Idempotency IdempotencyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BACKOFFICE_APP_ENV" default:"dev"`
	Port         string `envconfig:"BACKOFFICE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"BACKOFFICE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BACKOFFICE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"BACKOFFICE_REDIS_URL" default:"redis://localhost:6379/0"`
	Password     string        `envconfig:"BACKOFFICE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BACKOFFICE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BACKOFFICE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BACKOFFICE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BACKOFFICE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BACKOFFICE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BACKOFFICE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// InsightsConfig drives the order-insights collaborator.
type InsightsConfig struct {
	APIKey     string        `envconfig:"BACKOFFICE_INSIGHTS_API_KEY"`
	Model      string        `envconfig:"BACKOFFICE_INSIGHTS_MODEL" default:"gemini-3-flash-preview"`
	BaseURL    string        `envconfig:"BACKOFFICE_INSIGHTS_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	Timeout    time.Duration `envconfig:"BACKOFFICE_INSIGHTS_TIMEOUT" default:"15s"`
	Cooldown   time.Duration `envconfig:"BACKOFFICE_INSIGHTS_COOLDOWN" default:"10s"`
	RetryDelay time.Duration `envconfig:"BACKOFFICE_INSIGHTS_RETRY_DELAY" default:"2s"`

	RateLimit       int64         `envconfig:"BACKOFFICE_INSIGHTS_RATE_LIMIT" default:"30"`
	RateLimitWindow time.Duration `envconfig:"BACKOFFICE_INSIGHTS_RATE_WINDOW" default:"1m"`
}

// SeedConfig controls the deterministic mock-data generator the stores boot from.
type SeedConfig struct {
	RNGSeed    int64 `envconfig:"BACKOFFICE_SEED_RNG" default:"42"`
	OrderCount int   `envconfig:"BACKOFFICE_SEED_ORDER_COUNT" default:"40"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"BACKOFFICE_IDEMPOTENCY_TTL" default:"24h"`
}
