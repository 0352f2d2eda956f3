package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SchemaVersion is stamped on every event this package creates.
const SchemaVersion = 1

// Event is the envelope of every message the mock API publishes. Key is the
// partition key, normally the basket owner.
type Event struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	Key           string            `json:"key"`
	Source        string            `json:"source"`
	SchemaVersion int               `json:"schema_version"`
	OccurredAt    time.Time         `json:"occurred_at"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Payload       json.RawMessage   `json:"payload"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

// NewEvent encodes payload and wraps it in a fresh envelope.
func NewEvent(eventType, key, source string, payload any) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", eventType, err)
	}

	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		Key:           key,
		Source:        source,
		SchemaVersion: SchemaVersion,
		OccurredAt:    time.Now().UTC(),
		Payload:       raw,
	}, nil
}

func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// WithAttribute sets a free-form string attribute.
func (e *Event) WithAttribute(name, value string) *Event {
	if e.Attributes == nil {
		e.Attributes = make(map[string]string, 1)
	}
	e.Attributes[name] = value
	return e
}

// Encode returns the wire form of the event.
func (e *Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent parses the wire form produced by Encode.
func DecodeEvent(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &e, nil
}

// DecodePayload unmarshals the payload into target.
func (e *Event) DecodePayload(target any) error {
	return json.Unmarshal(e.Payload, target)
}
