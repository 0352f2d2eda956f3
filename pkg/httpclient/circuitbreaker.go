package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker/v2"
)

// CircuitBreakerConfig holds configuration for the circuit breaker.
type CircuitBreakerConfig struct {
	// Name labels the breaker in metrics and logs.
	Name string

	// MaxRequests is the number of trial requests allowed while half-open. 0 means 1.
	MaxRequests uint32

	// Interval clears the counts while closed. 0 never clears them.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration

	// FailureRatio trips the breaker once failures/requests reaches it.
	FailureRatio float64

	// MinRequests is the sample size needed before FailureRatio applies.
	MinRequests uint32
}

// DefaultCircuitBreakerConfig returns defaults for a breaker named name.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      15 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// ErrCircuitOpen is returned while the breaker rejects requests.
var ErrCircuitOpen = gobreaker.ErrOpenState

// ServerError reports a 5xx response. The response body is consumed and
// closed; up to 4 KiB of it is kept.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Status, e.Body)
}

var (
	breakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "storefront_circuit_breaker_state",
			Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	breakerRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_circuit_breaker_rejected_total",
			Help: "Requests rejected while the breaker was open or probing",
		},
		[]string{"name"},
	)
)

func init() {
	prometheus.MustRegister(breakerState, breakerRejected)
}

var stateGauge = map[gobreaker.State]float64{
	gobreaker.StateClosed:   0,
	gobreaker.StateHalfOpen: 1,
	gobreaker.StateOpen:     2,
}

// CircuitBreakerClient guards a Client with a breaker. 5xx responses and
// transport errors count as failures; 4xx responses and caller
// cancellation do not.
type CircuitBreakerClient struct {
	client  *Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	logger  *slog.Logger
	name    string
}

// NewCircuitBreakerClient wraps client with a breaker built from cfg.
func NewCircuitBreakerClient(client *Client, cfg CircuitBreakerConfig, logger *slog.Logger) *CircuitBreakerClient {
	c := &CircuitBreakerClient{client: client, logger: logger, name: cfg.Name}

	c.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:          cfg.Name,
		MaxRequests:   cfg.MaxRequests,
		Interval:      cfg.Interval,
		Timeout:       cfg.Timeout,
		ReadyToTrip:   tripAt(cfg.MinRequests, cfg.FailureRatio),
		OnStateChange: c.stateChanged,
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})
	breakerState.WithLabelValues(cfg.Name).Set(stateGauge[gobreaker.StateClosed])

	return c
}

func tripAt(minRequests uint32, ratio float64) func(gobreaker.Counts) bool {
	return func(counts gobreaker.Counts) bool {
		if counts.Requests < minRequests {
			return false
		}
		return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
	}
}

func (c *CircuitBreakerClient) stateChanged(name string, from, to gobreaker.State) {
	c.logger.Warn("circuit breaker state change",
		slog.String("breaker", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
	breakerState.WithLabelValues(name).Set(stateGauge[to])
}

// Do executes req through the breaker. A 5xx response is returned as a
// *ServerError.
func (c *CircuitBreakerClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.client.Do(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, &ServerError{Status: resp.StatusCode, Body: string(body)}
	})

	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		breakerRejected.WithLabelValues(c.name).Inc()
		c.logger.WarnContext(ctx, "request rejected by circuit breaker",
			slog.String("breaker", c.name),
			slog.String("url", req.URL.Redacted()),
		)
	}
	return resp, err
}

// State returns the current state of the breaker.
func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.breaker.State()
}
