package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/tracing"
)

// Repository backends.
const (
	RepositoryMemory = "memory"
	RepositoryRedis  = "redis"
)

// Config holds all configuration for the mock storefront API.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"MOCKAPI_HTTP_PORT" envDefault:"8080"`

	// Catalog
	CatalogPerPage int `env:"CATALOG_PER_PAGE" envDefault:"20"`

	// Basket storage
	Repository string `env:"BASKET_REPOSITORY" envDefault:"memory"`
	Redis      database.RedisConfig
	BasketTTL  int `env:"BASKET_TTL_HOURS" envDefault:"168"`

	// Kafka; empty disables event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Rate limiting per user, or per client IP for guests. 0 disables it.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"100"`

	Tracing tracing.Config
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load mockapi config: %w", err)
	}
	cfg.Tracing.ServiceName = "storefront-mockapi"
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BasketTTLDuration returns the basket expiry as a duration.
func (c *Config) BasketTTLDuration() time.Duration {
	return time.Duration(c.BasketTTL) * time.Hour
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CatalogPerPage < 1 {
		return fmt.Errorf("CATALOG_PER_PAGE must be at least 1")
	}
	if c.Repository != RepositoryMemory && c.Repository != RepositoryRedis {
		return fmt.Errorf("BASKET_REPOSITORY must be %q or %q, got %q", RepositoryMemory, RepositoryRedis, c.Repository)
	}
	if c.BasketTTL < 1 {
		return fmt.Errorf("BASKET_TTL_HOURS must be at least 1")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1 when rate limiting is enabled")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0")
	}
	return nil
}
