package domain

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
)

// ErrEmptyPaymentToken is returned when a payment token is built from an
// empty string.
var ErrEmptyPaymentToken = errors.New("payment token is empty")

// PaymentToken is an opaque card reference. Its raw value is only exposed
// on the wire through MarshalJSON; String and LogValue are masked.
type PaymentToken struct {
	raw string
}

// NewPaymentToken wraps raw after trimming surrounding whitespace.
func NewPaymentToken(raw string) (PaymentToken, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PaymentToken{}, ErrEmptyPaymentToken
	}
	return PaymentToken{raw: raw}, nil
}

// IsZero reports whether the token was never set.
func (t PaymentToken) IsZero() bool {
	return t.raw == ""
}

// String returns the masked token, e.g. "****1234".
func (t PaymentToken) String() string {
	if t.raw == "" {
		return ""
	}
	digits := t.digits()
	if len(digits) <= 4 {
		return "****"
	}
	return "****" + digits[len(digits)-4:]
}

// HasPrefix reports whether the card number starts with prefix, ignoring
// spaces and dashes.
func (t PaymentToken) HasPrefix(prefix string) bool {
	return strings.HasPrefix(t.digits(), prefix)
}

func (t PaymentToken) digits() string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return -1
		}
		return r
	}, t.raw)
}

// LogValue keeps the raw value out of structured logs.
func (t PaymentToken) LogValue() slog.Value {
	return slog.StringValue(t.String())
}

// GoString keeps the raw value out of %#v output.
func (t PaymentToken) GoString() string {
	return "domain.PaymentToken(" + t.String() + ")"
}

func (t PaymentToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.raw)
}

func (t *PaymentToken) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	tok, err := NewPaymentToken(raw)
	if err != nil {
		return err
	}
	*t = tok
	return nil
}
