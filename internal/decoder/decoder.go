package decoder

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/utafrali/storefront/pkg/httpclient"
)

// ErrMissingData is returned when a success payload has no "data" member.
var ErrMissingData = errors.New("response has no data")

// ErrorBody is the "error" member of a failed response.
type ErrorBody = httpclient.ErrorBody

type envelope[T any] struct {
	Data  *T         `json:"data"`
	Error *ErrorBody `json:"error"`
}

// Decode unwraps the {"data": ...} envelope into T.
func Decode[T any](data []byte) (T, error) {
	var zero T
	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, fmt.Errorf("decode %T: %w", zero, err)
	}
	if env.Data == nil {
		return zero, fmt.Errorf("decode %T: %w", zero, ErrMissingData)
	}
	return *env.Data, nil
}

// DecodeError decodes the {"error": ...} envelope of a client error.
func DecodeError(data []byte) (*ErrorBody, error) {
	return httpclient.DecodeErrorBody(data)
}

// ClientFailure turns a client error's status and body into an
// *errors.AppError carrying the server's error code. Undecodable bodies keep
// the status with the raw text as message.
func ClientFailure(status int, data []byte) error {
	return httpclient.ParseError(status, data, "storefront api")
}
