package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func up(context.Context) error { return nil }

func down(msg string) Checker {
	return func(context.Context) error { return fmt.Errorf("%s", msg) }
}

func serveReadiness(t *testing.T, h *Handler) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	h.ReadinessHandler().ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestLivenessHandler_AlwaysReturns200(t *testing.T) {
	h := NewHandler()
	h.Register("redis", down("connection refused"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	h.LivenessHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, StatusUp, resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name        string
		critical    map[string]Checker
		nonCritical map[string]Checker
		wantCode    int
		wantStatus  Status
	}{
		{
			name:       "no checkers",
			wantCode:   http.StatusOK,
			wantStatus: StatusUp,
		},
		{
			name:        "all up",
			critical:    map[string]Checker{"redis": up},
			nonCritical: map[string]Checker{"kafka": up},
			wantCode:    http.StatusOK,
			wantStatus:  StatusUp,
		},
		{
			name:        "non-critical down is degraded",
			critical:    map[string]Checker{"redis": up},
			nonCritical: map[string]Checker{"kafka": down("broker unreachable")},
			wantCode:    http.StatusOK,
			wantStatus:  StatusDegraded,
		},
		{
			name:        "critical down",
			critical:    map[string]Checker{"redis": down("connection refused")},
			nonCritical: map[string]Checker{"kafka": up},
			wantCode:    http.StatusServiceUnavailable,
			wantStatus:  StatusDown,
		},
		{
			name:        "critical and non-critical down",
			critical:    map[string]Checker{"redis": down("connection refused")},
			nonCritical: map[string]Checker{"kafka": down("broker unreachable")},
			wantCode:    http.StatusServiceUnavailable,
			wantStatus:  StatusDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler()
			for name, c := range tt.critical {
				h.RegisterCritical(name, c)
			}
			for name, c := range tt.nonCritical {
				h.RegisterNonCritical(name, c)
			}

			code, resp := serveReadiness(t, h)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Len(t, resp.Checks, len(tt.critical)+len(tt.nonCritical))
		})
	}
}

func TestReadinessHandler_ReportsPerCheckDetail(t *testing.T) {
	h := NewHandler()
	h.RegisterCritical("redis", up)
	h.RegisterNonCritical("kafka", down("broker unreachable"))

	_, resp := serveReadiness(t, h)

	assert.Equal(t, StatusUp, resp.Checks["redis"].Status)
	assert.True(t, resp.Checks["redis"].Critical)
	assert.Equal(t, StatusDown, resp.Checks["kafka"].Status)
	assert.False(t, resp.Checks["kafka"].Critical)
	assert.Equal(t, "broker unreachable", resp.Checks["kafka"].Error)
}

func TestRegister_IsCriticalByDefault(t *testing.T) {
	h := NewHandler()
	h.Register("redis", down("fail"))

	code, resp := serveReadiness(t, h)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.True(t, resp.Checks["redis"].Critical)
}

func TestRegister_Overwrite(t *testing.T) {
	h := NewHandler()
	h.Register("redis", down("fail"))
	h.Register("redis", up)

	code, resp := serveReadiness(t, h)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Checks["redis"].Status)
}
