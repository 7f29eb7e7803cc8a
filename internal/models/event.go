package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RefetchEvent asks every element of a namespace to re-execute. An empty
// namespace targets all namespaces.
type RefetchEvent struct {
	ID        string    `json:"id"`
	Namespace string    `json:"namespace,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Origin    string    `json:"origin,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRefetchEvent creates an event with a fresh id
func NewRefetchEvent(namespace, reason, origin string) RefetchEvent {
	return RefetchEvent{
		ID:        uuid.New().String(),
		Namespace: namespace,
		Reason:    reason,
		Origin:    origin,
		Timestamp: time.Now().UTC(),
	}
}

// DecodeRefetchEvent parses a queue payload
func DecodeRefetchEvent(data []byte) (RefetchEvent, error) {
	var ev RefetchEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return RefetchEvent{}, fmt.Errorf("decode refetch event: %w", err)
	}
	if ev.ID == "" {
		return RefetchEvent{}, fmt.Errorf("decode refetch event: missing id")
	}
	return ev, nil
}
