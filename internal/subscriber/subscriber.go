// Package subscriber consumes refetch events from a message queue.
package subscriber

import (
	"context"
	"fmt"
)

// MessageHandler is a function that processes incoming messages
type MessageHandler func(ctx context.Context, subject string, data []byte) error

// Subscriber defines the interface for message subscription
type Subscriber interface {
	// Subscribe subscribes to a subject/topic with the given handler
	Subscribe(ctx context.Context, subject string, handler MessageHandler) error

	// Unsubscribe unsubscribes from a subject/topic
	Unsubscribe(subject string) error

	// Close closes the subscriber and releases resources
	Close() error
}

// Config holds common subscriber configuration
type Config struct {
	// NodeID is the unique identifier for this gateway replica
	NodeID string

	// ConsumerGroup prefixes durable consumer names
	ConsumerGroup string
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		NodeID:        "gateway-default-node",
		ConsumerGroup: "reportkit",
	}
}

// consumerName is unique per replica, so every replica receives every
// refetch event
func (c Config) consumerName() string {
	group := c.ConsumerGroup
	if group == "" {
		group = "reportkit"
	}
	if c.NodeID == "" {
		return group
	}
	return fmt.Sprintf("%s-%s", group, c.NodeID)
}
