package queue

import (
	"context"
	"sync"
)

// Message is one delivery of the in-memory broker
type Message struct {
	Subject string
	Data    []byte
}

// MemoryBroker fans messages out to in-process subscribers. It backs the
// memory queue type and tests.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan Message
	nextID int
}

var (
	defaultBroker     *MemoryBroker
	defaultBrokerOnce sync.Once
)

// NewMemoryBroker creates an empty broker
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[int]chan Message)}
}

// DefaultBroker returns the process-wide broker shared by the memory
// publisher and subscriber
func DefaultBroker() *MemoryBroker {
	defaultBrokerOnce.Do(func() {
		defaultBroker = NewMemoryBroker()
	})
	return defaultBroker
}

// Subscribe registers a buffered channel for subject. The returned function
// removes it; the channel is not closed.
func (b *MemoryBroker) Subscribe(subject string, buffer int) (<-chan Message, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Message, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[subject] == nil {
		b.subs[subject] = make(map[int]chan Message)
	}
	b.subs[subject][id] = ch
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[subject], id)
		if len(b.subs[subject]) == 0 {
			delete(b.subs, subject)
		}
	}
}

// Publish delivers data to every subscriber of subject and returns the
// number of deliveries. Full subscribers miss the message.
func (b *MemoryBroker) Publish(subject string, data []byte) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, ch := range b.subs[subject] {
		// Make a copy of data to avoid race conditions
		dataCopy := make([]byte, len(data))
		copy(dataCopy, data)

		select {
		case ch <- Message{Subject: subject, Data: dataCopy}:
			delivered++
		default:
			queueLog.Warn("Subscriber channel full, dropping message", "subject", subject)
		}
	}
	return delivered
}

// Subscribers returns the number of subscribers of subject
func (b *MemoryBroker) Subscribers(subject string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs[subject])
}

// MemoryPublisher implements Publisher on a MemoryBroker
type MemoryPublisher struct {
	broker *MemoryBroker
}

// NewMemoryPublisher creates a publisher on broker
func NewMemoryPublisher(broker *MemoryBroker) *MemoryPublisher {
	return &MemoryPublisher{broker: broker}
}

// Publish publishes a message to the broker
func (p *MemoryPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.broker.Publish(subject, data)
	return nil
}

// Close is a no-op; the broker outlives its publishers
func (p *MemoryPublisher) Close() error {
	return nil
}
