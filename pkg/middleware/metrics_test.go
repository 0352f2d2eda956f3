package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collectMetric returns the first metric of c whose labels include labels.
func collectMetric(c prometheus.Collector, labels map[string]string) *dto.Metric {
	ch := make(chan prometheus.Metric, 100)
	c.Collect(ch)
	close(ch)

	for m := range ch {
		d := &dto.Metric{}
		if err := m.Write(d); err != nil {
			continue
		}
		if hasLabels(d, labels) {
			return d
		}
	}
	return nil
}

func hasLabels(d *dto.Metric, labels map[string]string) bool {
	for k, v := range labels {
		found := false
		for _, lp := range d.GetLabel() {
			if lp.GetName() == k && lp.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func metricsRouter(service string, status int) *chi.Mux {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics(service))
	r.Get("/api/v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	return r
}

func TestPrometheusMetrics_CountsByRoutePattern(t *testing.T) {
	r := metricsRouter("count-svc", http.StatusOK)

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+id, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	m := collectMetric(httpRequestsTotal, map[string]string{
		"service": "count-svc", "method": "GET", "path": "/api/v1/products/{id}", "status": "200",
	})
	require.NotNil(t, m)
	assert.Equal(t, float64(3), m.GetCounter().GetValue())
}

func TestPrometheusMetrics_RecordsStatusAndDuration(t *testing.T) {
	r := metricsRouter("status-svc", http.StatusNotFound)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	m := collectMetric(httpRequestDuration, map[string]string{"service": "status-svc", "status": "404"})
	require.NotNil(t, m)
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
}

func TestPrometheusMetrics_InFlightGauge(t *testing.T) {
	seen := float64(-1)
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("inflight-svc"))
	r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		if m := collectMetric(httpRequestsInFlight, map[string]string{"service": "inflight-svc"}); m != nil {
			seen = m.GetGauge().GetValue()
		}
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, float64(1), seen)
	m := collectMetric(httpRequestsInFlight, map[string]string{"service": "inflight-svc"})
	require.NotNil(t, m)
	assert.Equal(t, float64(0), m.GetGauge().GetValue())
}

func TestPrometheusMetrics_DefaultStatusIs200(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("default-status-svc"))
	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.NotNil(t, collectMetric(httpRequestsTotal, map[string]string{"service": "default-status-svc", "status": "200"}))
}

type flushHijackWriter struct {
	http.ResponseWriter
	flushed  bool
	hijacked bool
}

func (m *flushHijackWriter) Flush() { m.flushed = true }

func (m *flushHijackWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	m.hijacked = true
	return nil, nil, nil
}

type bareWriter struct{ header http.Header }

func (b *bareWriter) Header() http.Header {
	if b.header == nil {
		b.header = make(http.Header)
	}
	return b.header
}
func (b *bareWriter) Write(p []byte) (int, error) { return len(p), nil }
func (b *bareWriter) WriteHeader(int)             {}

func TestStatusRecorder_Delegation(t *testing.T) {
	inner := &flushHijackWriter{ResponseWriter: httptest.NewRecorder()}
	rec := newStatusRecorder(inner)

	rec.Flush()
	_, _, err := rec.Hijack()

	assert.NoError(t, err)
	assert.True(t, inner.flushed)
	assert.True(t, inner.hijacked)

	bare := newStatusRecorder(&bareWriter{})
	bare.Flush()
	_, _, err = bare.Hijack()
	assert.ErrorIs(t, err, http.ErrNotSupported)
}

func TestStatusRecorder_FirstStatusWinsAndReuse(t *testing.T) {
	rec := newStatusRecorder(httptest.NewRecorder())
	_, _ = rec.Write([]byte("hello"))
	rec.WriteHeader(http.StatusTeapot)

	assert.Equal(t, http.StatusOK, rec.status)
	assert.Equal(t, 5, rec.bytes)
	assert.Same(t, rec, newStatusRecorder(rec))
}
