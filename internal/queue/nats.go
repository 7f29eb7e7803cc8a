package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSPublisher implements Publisher using NATS JetStream
type NATSPublisher struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	ownConn bool

	mu      sync.Mutex
	streams map[string]bool
}

// newNATSPublisher connects to url and enables JetStream
func newNATSPublisher(url, username, password string) (*NATSPublisher, error) {
	opts := []nats.Option{nats.Name("reportkit-publisher")}
	if username != "" {
		opts = append(opts, nats.UserInfo(username, password))
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	p, err := newNATSPublisherWithConn(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.ownConn = true
	return p, nil
}

// newNATSPublisherWithConn uses an existing connection, which Close leaves open
func newNATSPublisherWithConn(conn *nats.Conn) (*NATSPublisher, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &NATSPublisher{
		conn:    conn,
		js:      js,
		streams: make(map[string]bool),
	}, nil
}

// Publish publishes a message and waits for the JetStream ack
func (p *NATSPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := p.ensure(subject); err != nil {
		return err
	}

	if _, err := p.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

func (p *NATSPublisher) ensure(subject string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.streams[subject] {
		return nil
	}
	if err := EnsureStream(p.js, subject); err != nil {
		return err
	}
	p.streams[subject] = true
	return nil
}

// Close closes the connection when the publisher opened it
func (p *NATSPublisher) Close() error {
	if p.ownConn {
		p.conn.Close()
	}
	return nil
}

// EnsureStream creates the stream holding subject unless one exists.
// Refetch events are short-lived, so the stream keeps an hour of history.
func EnsureStream(js nats.JetStreamContext, subject string) error {
	if name, err := js.StreamNameBySubject(subject); err == nil && name != "" {
		return nil
	}

	streamName := StreamName(subject)
	if _, err := js.StreamInfo(streamName); err == nil {
		return nil
	}

	_, err := js.AddStream(&nats.StreamConfig{
		Name:      streamName,
		Subjects:  []string{subject},
		Retention: nats.LimitsPolicy,
		MaxAge:    time.Hour,
		Storage:   nats.FileStorage,
		Replicas:  1,
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		return fmt.Errorf("failed to create stream %s: %w", streamName, err)
	}
	return nil
}

// StreamName returns the stream name for a subject.
// NATS stream names cannot contain dots, so they become underscores.
func StreamName(subject string) string {
	return "STREAM_" + SanitizeName(subject)
}

// SanitizeName replaces characters not allowed in stream and consumer
// names. Only A-Z, a-z, 0-9, dash and underscore survive; "*" becomes "all".
func SanitizeName(subject string) string {
	var b strings.Builder
	b.Grow(len(subject))
	for i := 0; i < len(subject); i++ {
		c := subject[i]
		switch {
		case c == '*':
			b.WriteString("all")
		case (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
