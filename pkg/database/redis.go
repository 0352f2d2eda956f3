package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host          string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port          int           `env:"REDIS_PORT" envDefault:"6379"`
	Password      string        `env:"REDIS_PASSWORD"`
	DB            int           `env:"REDIS_DB" envDefault:"0"`
	SlowThreshold time.Duration `env:"REDIS_SLOW_THRESHOLD" envDefault:"50ms"`
}

// DefaultRedisConfig returns local development defaults.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:          "localhost",
		Port:          6379,
		SlowThreshold: 50 * time.Millisecond,
	}
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// NewRedisClient connects to Redis, installs the tracing hook and verifies
// the connection with PING.
func NewRedisClient(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	client.AddHook(NewTracingHook(cfg.SlowThreshold, logger))

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
