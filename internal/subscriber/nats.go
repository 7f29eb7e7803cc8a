package subscriber

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/queue"
)

var natsLog = logging.Global().With("component", "subscriber.nats")

// NATSSubscriber implements Subscriber for NATS JetStream
type NATSSubscriber struct {
	conn          *nats.Conn
	js            nats.JetStreamContext
	cfg           Config
	subscriptions map[string]*nats.Subscription
	mu            sync.Mutex
}

// NewNATSSubscriber creates a new NATS subscriber
func NewNATSSubscriber(url string, cfg Config) (*NATSSubscriber, error) {
	opts := []nats.Option{
		nats.Name(fmt.Sprintf("reportkit-subscriber-%s", cfg.NodeID)),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				natsLog.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			natsLog.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &NATSSubscriber{
		conn:          conn,
		js:            js,
		cfg:           cfg,
		subscriptions: make(map[string]*nats.Subscription),
	}, nil
}

// Subscribe subscribes to a subject with the given handler. Only events
// published after the subscription are delivered.
func (s *NATSSubscriber) Subscribe(ctx context.Context, subject string, handler MessageHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	if err := queue.EnsureStream(s.js, subject); err != nil {
		return err
	}

	durableName := queue.SanitizeName(fmt.Sprintf("%s-%s", s.cfg.consumerName(), subject))

	sub, err := s.js.Subscribe(subject, func(msg *nats.Msg) {
		if ctx.Err() != nil {
			_ = msg.Nak()
			return
		}

		if err := handler(ctx, msg.Subject, msg.Data); err != nil {
			natsLog.Error("Failed to handle message",
				"subject", msg.Subject,
				"error", err,
				"data_preview", string(msg.Data[:min(100, len(msg.Data))]))
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable(durableName),
		nats.ManualAck(),
		nats.AckWait(30*time.Second), // Timeout before redeliver
		nats.MaxDeliver(3),           // Max redelivery attempts
		nats.DeliverNew(),            // Older refetch events are irrelevant
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	s.subscriptions[subject] = sub
	natsLog.Info("Subscribed to subject", "subject", subject, "durable", durableName)
	return nil
}

// Unsubscribe unsubscribes from a subject
func (s *NATSSubscriber) Unsubscribe(subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, exists := s.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe from %s: %w", subject, err)
	}

	delete(s.subscriptions, subject)
	natsLog.Info("Unsubscribed from subject", "subject", subject)
	return nil
}

// Close closes all subscriptions and the connection
func (s *NATSSubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for subject, sub := range s.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			natsLog.Warn("Failed to unsubscribe", "subject", subject, "error", err)
		}
	}
	s.subscriptions = make(map[string]*nats.Subscription)

	s.conn.Close()
	natsLog.Info("NATS subscriber closed")
	return nil
}
