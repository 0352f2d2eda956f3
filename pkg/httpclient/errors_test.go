package httpclient

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func structuredError(code, message string) string {
	return `{"error":{"code":"` + code + `","message":"` + message + `"}}`
}

func TestParseError_Structured(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		code     string
		sentinel error
	}{
		{"not found", http.StatusNotFound, "NOT_FOUND", apperrors.ErrNotFound},
		{"bad request", http.StatusBadRequest, "INVALID_INPUT", apperrors.ErrInvalidInput},
		{"conflict", http.StatusConflict, "CONFLICT", apperrors.ErrConflict},
		{"unauthorized", http.StatusUnauthorized, "UNAUTHORIZED", apperrors.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, "FORBIDDEN", apperrors.ErrForbidden},
		{"gone", http.StatusGone, "GONE", apperrors.ErrGone},
		{"payment failed", http.StatusUnprocessableEntity, "PAYMENT_FAILED", apperrors.ErrPaymentFailed},
		{"rate limited", http.StatusTooManyRequests, "RATE_LIMITED", apperrors.ErrTooManyRequests},
		{"unavailable", http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", apperrors.ErrServiceUnavail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseError(tt.status, []byte(structuredError(tt.code, "boom")), "mockapi")
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
			assert.Equal(t, tt.status, appErr.Status)
			assert.Equal(t, tt.code, appErr.Code)
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.Contains(t, appErr.Message, "mockapi")
		})
	}
}

func TestParseError_ServerError(t *testing.T) {
	err := ParseError(http.StatusInternalServerError, []byte(structuredError("INTERNAL_ERROR", "db down")), "mockapi")
	require.Error(t, err)

	var appErr *apperrors.AppError
	assert.False(t, errors.As(err, &appErr))
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "db down")
}

func TestParseError_UnstructuredServerBody(t *testing.T) {
	err := ParseError(http.StatusBadGateway, []byte("<html>502</html>"), "edge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "edge")
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "<html>502</html>")
}

func TestParseError_UnstructuredClientBody(t *testing.T) {
	err := ParseError(http.StatusBadRequest, []byte(`{"error":null}`), "svc")

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "INVALID_INPUT", appErr.Code)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, appErr.Message, `{"error":null}`)
}

func TestMapStatusError_KeepsServerCode(t *testing.T) {
	err := MapStatusError(http.StatusNotFound, "PRODUCT_MISSING", "product 9", "mockapi")

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PRODUCT_MISSING", appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = MapStatusError(http.StatusNotFound, "", "product 9", "mockapi")
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestDecodeErrorBody(t *testing.T) {
	body, err := DecodeErrorBody([]byte(`{"error":{"code":"VALIDATION_ERROR","message":"bad","fields":{"Card":"invalid"},"request_id":"r1"}}`))
	require.NoError(t, err)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "invalid", body.Fields["Card"])
	assert.Equal(t, "r1", body.RequestID)

	_, err = DecodeErrorBody([]byte(`{"data":{}}`))
	assert.Error(t, err)
	_, err = DecodeErrorBody([]byte(`nope`))
	assert.Error(t, err)
}

func TestMapStatusError_UnhandledClientStatus(t *testing.T) {
	err := MapStatusError(http.StatusTeapot, "TEAPOT", "short and stout", "mockapi")

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusTeapot, appErr.Status)
	assert.Equal(t, "TEAPOT", appErr.Code)
	assert.Nil(t, appErr.Err)
}

func TestIsClientError(t *testing.T) {
	for _, status := range []int{400, 404, 422, 429, 499} {
		assert.True(t, IsClientError(status), "status %d", status)
	}
	for _, status := range []int{200, 302, 399, 500, 503} {
		assert.False(t, IsClientError(status), "status %d", status)
	}
}
