package network

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/logger"
)

// maxBody caps how much of a response is read.
const maxBody = 4 << 20

// Fetcher issues endpoint calls and returns the raw success payload.
type Fetcher interface {
	Fetch(ctx context.Context, ep Endpoint) ([]byte, error)
}

// ClientError is a 4xx answer. Body holds the undecoded error envelope.
type ClientError struct {
	Status int
	Body   []byte
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client error: status %d", e.Status)
}

// Config identifies the API and the basket owner.
type Config struct {
	BaseURL string
	UserID  string
}

// Client calls the storefront API through an httpclient.Doer, normally the
// circuit-breaking retry client.
type Client struct {
	baseURL *url.URL
	userID  string
	doer    httpclient.Doer
	logger  *slog.Logger
}

var _ Fetcher = (*Client)(nil)

// NewClient validates the base URL and builds a client.
func NewClient(cfg Config, doer httpclient.Doer, logger *slog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("parse base url: unsupported scheme %q", base.Scheme)
	}
	return &Client{baseURL: base, userID: cfg.UserID, doer: doer, logger: logger}, nil
}

// Fetch performs ep. 2xx returns the body; 4xx returns *ClientError; every
// other outcome is a wrapped transport error.
func (c *Client) Fetch(ctx context.Context, ep Endpoint) ([]byte, error) {
	req, err := c.newRequest(ctx, ep)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ep.Name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: read body: %w", ep.Name, err)
	}

	c.logger.DebugContext(ctx, "storefront api call",
		slog.String("endpoint", ep.Name),
		slog.String("method", ep.Method),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case httpclient.IsClientError(resp.StatusCode):
		return nil, &ClientError{Status: resp.StatusCode, Body: body}
	default:
		return nil, fmt.Errorf("fetch %s: unexpected status %d", ep.Name, resp.StatusCode)
	}
}

func (c *Client) newRequest(ctx context.Context, ep Endpoint) (*http.Request, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + ep.Path
	if len(ep.Query) > 0 {
		u.RawQuery = ep.Query.Encode()
	}

	var body io.Reader = http.NoBody
	if ep.Body != nil {
		raw, err := json.Marshal(ep.Body)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: encode body: %w", ep.Name, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: build request: %w", ep.Name, err)
	}

	req.Header.Set("Accept", "application/json")
	if ep.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}

	correlationID := logger.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	req.Header.Set("X-Correlation-ID", correlationID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return req, nil
}
