// Package queue publishes refetch events to a message queue so that every
// gateway replica re-executes the elements of a namespace.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/models"
)

var queueLog = logging.Global().With("component", "queue")

// Publisher publishes messages to a queue
type Publisher interface {
	// Publish publishes a message to a subject/topic
	Publish(ctx context.Context, subject string, data []byte) error

	// Close closes the connection
	Close() error
}

// RefetchPublisher encodes refetch events onto one subject
type RefetchPublisher struct {
	pub     Publisher
	subject string
	origin  string
}

// NewRefetchPublisher creates a refetch publisher. origin identifies the
// publishing replica in the event payload.
func NewRefetchPublisher(pub Publisher, subject, origin string) *RefetchPublisher {
	return &RefetchPublisher{pub: pub, subject: subject, origin: origin}
}

// Subject returns the subject events are published on
func (p *RefetchPublisher) Subject() string {
	return p.subject
}

// Publish sends a refetch event for namespace
func (p *RefetchPublisher) Publish(ctx context.Context, namespace, reason string) (models.RefetchEvent, error) {
	ev := models.NewRefetchEvent(namespace, reason, p.origin)
	data, err := json.Marshal(ev)
	if err != nil {
		return models.RefetchEvent{}, fmt.Errorf("encode refetch event: %w", err)
	}

	if err := p.pub.Publish(ctx, p.subject, data); err != nil {
		return models.RefetchEvent{}, err
	}

	queueLog.Debug("Published refetch event",
		"subject", p.subject,
		"namespace", namespace,
		"event_id", ev.ID)
	return ev, nil
}

// Close closes the underlying publisher
func (p *RefetchPublisher) Close() error {
	return p.pub.Close()
}
