package database

import (
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})
	return exporter
}

func miniConfig(t *testing.T) RedisConfig {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := DefaultRedisConfig()
	cfg.Host = mr.Host()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	cfg.Port = port
	return cfg
}

func TestRedisConfig_Addr(t *testing.T) {
	assert.Equal(t, "localhost:6379", DefaultRedisConfig().Addr())
}

func TestNewRedisClient_PingFailure(t *testing.T) {
	cfg := DefaultRedisConfig()
	cfg.Port = 1

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisClient(ctx, cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping redis")
}

func TestTracingHook_SpansAndSlowLog(t *testing.T) {
	exporter := setupTestTracer(t)
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))

	cfg := miniConfig(t)
	cfg.SlowThreshold = time.Nanosecond
	client, err := NewRedisClient(context.Background(), cfg, l)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "basket:alice", "{}", 0).Err())
	assert.ErrorIs(t, client.Get(ctx, "basket:nobody").Err(), redis.Nil)

	_, err = client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, "basket:alice")
		return nil
	})
	require.NoError(t, err)

	names := map[string]tracetest.SpanStub{}
	for _, s := range exporter.GetSpans() {
		names[s.Name] = s
	}
	require.Contains(t, names, "redis.set")
	require.Contains(t, names, "redis.get")
	require.Contains(t, names, "redis.pipeline")
	assert.Equal(t, codes.Unset, names["redis.get"].Status.Code, "redis.Nil is not an error")

	assert.Contains(t, buf.String(), "slow redis command")
	assert.NotContains(t, buf.String(), "redis: nil")
}
