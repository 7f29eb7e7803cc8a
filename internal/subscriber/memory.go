package subscriber

import (
	"context"
	"fmt"
	"sync"

	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/queue"
)

var memoryLog = logging.Global().With("component", "subscriber.memory")

// memorySubscription represents an active subscription
type memorySubscription struct {
	cancel      context.CancelFunc
	unsubscribe func()
}

// MemorySubscriber implements Subscriber on an in-process broker
type MemorySubscriber struct {
	broker        *queue.MemoryBroker
	subscriptions map[string]*memorySubscription
	mu            sync.Mutex
}

// NewMemorySubscriber creates a new in-memory subscriber
func NewMemorySubscriber(broker *queue.MemoryBroker) *MemorySubscriber {
	return &MemorySubscriber{
		broker:        broker,
		subscriptions: make(map[string]*memorySubscription),
	}
}

// Subscribe subscribes to a subject with the given handler
func (s *MemorySubscriber) Subscribe(ctx context.Context, subject string, handler MessageHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	subCtx, cancel := context.WithCancel(ctx)
	ch, unsubscribe := s.broker.Subscribe(subject, 1000)
	s.subscriptions[subject] = &memorySubscription{cancel: cancel, unsubscribe: unsubscribe}

	// Start consuming in a goroutine
	go func() {
		for {
			select {
			case <-subCtx.Done():
				return
			case msg := <-ch:
				if err := handler(subCtx, msg.Subject, msg.Data); err != nil {
					memoryLog.Error("Failed to handle message", "subject", msg.Subject, "error", err)
				}
			}
		}
	}()

	memoryLog.Info("Subscribed to in-memory subject", "subject", subject)
	return nil
}

// Unsubscribe unsubscribes from a subject
func (s *MemorySubscriber) Unsubscribe(subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, exists := s.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	sub.unsubscribe()
	sub.cancel()
	delete(s.subscriptions, subject)

	memoryLog.Info("Unsubscribed from in-memory subject", "subject", subject)
	return nil
}

// Close closes all subscriptions
func (s *MemorySubscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subscriptions {
		sub.unsubscribe()
		sub.cancel()
	}
	s.subscriptions = make(map[string]*memorySubscription)

	memoryLog.Info("Memory subscriber closed")
	return nil
}
