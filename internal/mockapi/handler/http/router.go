package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/middleware"
)

// RateLimit configures the per-owner token bucket. A zero RPS disables it.
type RateLimit struct {
	RPS   float64
	Burst int
}

// NewRouter creates a chi router with all storefront routes registered. ctx
// bounds background work started by the middleware.
func NewRouter(
	ctx context.Context,
	h *StorefrontHandler,
	healthHandler *health.Handler,
	limit RateLimit,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront-mockapi"))
	r.Use(middleware.Tracing("storefront-mockapi"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity)
		r.Use(middleware.RequestLogger(logger))
		r.Use(middleware.RateLimit(ctx, limit.RPS, limit.Burst, logger))
		r.Use(ContentTypeJSON)

		r.Get("/catalog", h.ListCatalog)
		r.Get("/products/{id}", h.GetProduct)

		r.Route("/basket", func(r chi.Router) {
			r.Get("/", h.GetBasket)
			r.Delete("/", h.ClearBasket)
			r.Post("/pay", h.PayBasket)

			r.Post("/items/{id}", h.AddItem)
			r.Delete("/items/{id}", h.RemoveItem)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "route not found"},
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"},
		})
	})

	return r
}
