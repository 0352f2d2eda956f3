package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// ErrorBody is the "error" member of a failed response as written by
// httputil.
type ErrorBody struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// ErrorEnvelope mirrors the {"error": {...}} body written by httputil.
type ErrorEnvelope struct {
	Error *ErrorBody `json:"error"`
}

// DecodeErrorBody extracts the error member of a failed response body.
func DecodeErrorBody(data []byte) (*ErrorBody, error) {
	var envelope ErrorEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode error body: %w", err)
	}
	if envelope.Error == nil {
		return nil, errors.New("decode error body: no error member")
	}
	return envelope.Error, nil
}

// ParseError translates the status and body of a non-2xx response into an
// error. Structured bodies keep their code and message. Unstructured 4xx
// bodies still map by status, with the raw text as message; unstructured
// 5xx bodies yield a plain error.
func ParseError(status int, body []byte, source string) error {
	eb, err := DecodeErrorBody(body)
	if err != nil {
		if IsClientError(status) {
			return MapStatusError(status, "", string(body), source)
		}
		return fmt.Errorf("%s returned status %d: %s", source, status, string(body))
	}
	return MapStatusError(status, eb.Code, eb.Message, source)
}

// MapStatusError translates a status code and decoded error body into an
// AppError that keeps the error's semantics across the wire. A non-empty
// code from the server replaces the default code of the status.
func MapStatusError(status int, code, message, source string) error {
	qualifiedMsg := fmt.Sprintf("%s: %s", source, message)

	var appErr *apperrors.AppError
	switch status {
	case http.StatusNotFound:
		appErr = &apperrors.AppError{Code: "NOT_FOUND", Message: qualifiedMsg, Status: status, Err: apperrors.ErrNotFound}
	case http.StatusBadRequest:
		appErr = apperrors.InvalidInput(qualifiedMsg)
	case http.StatusConflict:
		appErr = apperrors.Conflict(qualifiedMsg)
	case http.StatusUnauthorized:
		appErr = apperrors.Unauthorized(qualifiedMsg)
	case http.StatusForbidden:
		appErr = apperrors.Forbidden(qualifiedMsg)
	case http.StatusGone:
		appErr = apperrors.Gone(qualifiedMsg)
	case http.StatusUnprocessableEntity:
		appErr = apperrors.PaymentFailed(qualifiedMsg)
	case http.StatusTooManyRequests:
		appErr = apperrors.TooManyRequests(qualifiedMsg)
	case http.StatusServiceUnavailable:
		appErr = apperrors.ServiceUnavailable(qualifiedMsg)
	default:
		if status >= 500 {
			return fmt.Errorf("%s server error (%d/%s): %s", source, status, code, message)
		}
		appErr = &apperrors.AppError{Code: "CLIENT_ERROR", Message: qualifiedMsg, Status: status}
	}

	if code != "" {
		appErr.Code = code
	}
	return appErr
}

// IsClientError reports whether status is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
