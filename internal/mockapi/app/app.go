package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/mockapi/catalog"
	"github.com/utafrali/storefront/internal/mockapi/config"
	"github.com/utafrali/storefront/internal/mockapi/event"
	handler "github.com/utafrali/storefront/internal/mockapi/handler/http"
	"github.com/utafrali/storefront/internal/mockapi/payment"
	"github.com/utafrali/storefront/internal/mockapi/repository"
	"github.com/utafrali/storefront/internal/mockapi/repository/memory"
	redisrepo "github.com/utafrali/storefront/internal/mockapi/repository/redis"
	"github.com/utafrali/storefront/internal/mockapi/service"
	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/health"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/tracing"
)

// paymentDelay simulates provider latency.
const paymentDelay = 50 * time.Millisecond

// App wires together all dependencies and runs the mock storefront API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *event.Producer
	handler        http.Handler
	httpServer     *http.Server
	stopBackground context.CancelFunc
	shutdownTracer func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownTracer, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	healthHandler := health.NewHandler()

	// Basket storage.
	var (
		repo repository.BasketRepository
		rdb  *redis.Client
	)
	switch cfg.Repository {
	case config.RepositoryRedis:
		rdb, err = database.NewRedisClient(ctx, cfg.Redis, logger)
		if err != nil {
			_ = shutdownTracer(context.Background())
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", cfg.Redis.Addr()),
			slog.Int("db", cfg.Redis.DB),
		)
		repo = redisrepo.NewBasketRepository(rdb, cfg.BasketTTLDuration())
		healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	default:
		repo = memory.NewBasketRepository()
		logger.Info("using in-memory basket repository")
	}

	// Event publishing.
	var publisher pkgkafka.Publisher = pkgkafka.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = kp
		healthHandler.RegisterNonCritical("kafka", kp.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("no kafka brokers configured, basket events are dropped")
	}
	producer := event.NewProducer(publisher, logger)

	// Build the dependency graph.
	c := catalog.Seed()
	catalogService := service.NewCatalogService(c)
	basketService := service.NewBasketService(repo, c, payment.NewMockProvider(paymentDelay), producer, logger)
	storefrontHandler := handler.NewStorefrontHandler(catalogService, basketService, cfg.CatalogPerPage, logger)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	router := handler.NewRouter(bgCtx, storefrontHandler, healthHandler, handler.RateLimit{
		RPS:   cfg.RateLimitRPS,
		Burst: cfg.RateLimitBurst,
	}, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		handler:        router,
		httpServer:     httpServer,
		stopBackground: stopBackground,
		shutdownTracer: shutdownTracer,
	}, nil
}

// Handler returns the HTTP handler serving the API.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run starts the HTTP server on the configured port and blocks until the
// context is canceled.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.httpServer.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until the context is canceled, then shuts down.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", ln.Addr().String()),
		)
		if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}
	a.stopBackground()

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.shutdownTracer(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
