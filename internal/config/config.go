package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/httpclient"
)

// Config holds all configuration for the storefront client.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Storefront API
	APIURL      string `env:"STOREFRONT_API_URL" envDefault:"http://localhost:8080"`
	UserID      string `env:"STOREFRONT_USER_ID" envDefault:"guest"`
	PaymentCard string `env:"STOREFRONT_PAYMENT_CARD"`

	// HTTP client
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	HTTPMaxRetries   int           `env:"HTTP_MAX_RETRIES" envDefault:"2"`
	HTTPRetryWaitMin time.Duration `env:"HTTP_RETRY_WAIT_MIN" envDefault:"200ms"`
	HTTPRetryWaitMax time.Duration `env:"HTTP_RETRY_WAIT_MAX" envDefault:"2s"`

	// Circuit breaker
	CBTimeout      time.Duration `env:"CB_TIMEOUT" envDefault:"15s"`
	CBFailureRatio float64       `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32        `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Background queue
	DispatchConcurrency int `env:"DISPATCH_CONCURRENCY" envDefault:"4"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HTTPClient returns the retrying client settings.
func (c *Config) HTTPClient() httpclient.Config {
	hc := httpclient.DefaultConfig()
	hc.Timeout = c.HTTPTimeout
	hc.MaxRetries = c.HTTPMaxRetries
	hc.RetryWaitMin = c.HTTPRetryWaitMin
	hc.RetryWaitMax = c.HTTPRetryWaitMax
	return hc
}

// CircuitBreaker returns the breaker settings for the storefront API.
func (c *Config) CircuitBreaker() httpclient.CircuitBreakerConfig {
	cb := httpclient.DefaultCircuitBreakerConfig("storefront-api")
	cb.Timeout = c.CBTimeout
	cb.FailureRatio = c.CBFailureRatio
	cb.MinRequests = c.CBMinRequests
	return cb
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("STOREFRONT_API_URL must be an absolute http(s) URL, got %q", c.APIURL)
	}
	if c.UserID == "" {
		return fmt.Errorf("STOREFRONT_USER_ID is required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.HTTPMaxRetries < 0 {
		return fmt.Errorf("HTTP_MAX_RETRIES must not be negative")
	}
	if c.HTTPRetryWaitMin > c.HTTPRetryWaitMax {
		return fmt.Errorf("HTTP_RETRY_WAIT_MIN must not exceed HTTP_RETRY_WAIT_MAX")
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0, 1]")
	}
	if c.DispatchConcurrency < 1 {
		return fmt.Errorf("DISPATCH_CONCURRENCY must be at least 1")
	}
	return nil
}
