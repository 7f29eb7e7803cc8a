package subscriber

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/reportkit/internal/queue"
)

func TestMemorySubscriber_Subscribe(t *testing.T) {
	broker := queue.NewMemoryBroker()
	sub := NewMemorySubscriber(broker)
	defer func() { _ = sub.Close() }()

	var received atomic.Int32
	err := sub.Subscribe(context.Background(), "test.subject", func(ctx context.Context, subject string, data []byte) error {
		assert.Equal(t, "test.subject", subject)
		received.Add(1)
		return nil
	})
	require.NoError(t, err)

	broker.Publish("test.subject", []byte("test message"))
	assert.Eventually(t, func() bool { return received.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestMemorySubscriber_SubscribeDuplicate(t *testing.T) {
	sub := NewMemorySubscriber(queue.NewMemoryBroker())
	defer func() { _ = sub.Close() }()

	handler := func(ctx context.Context, subject string, data []byte) error { return nil }
	require.NoError(t, sub.Subscribe(context.Background(), "dup", handler))

	err := sub.Subscribe(context.Background(), "dup", handler)
	assert.Error(t, err)
}

func TestMemorySubscriber_HandlerErrorKeepsConsuming(t *testing.T) {
	broker := queue.NewMemoryBroker()
	sub := NewMemorySubscriber(broker)
	defer func() { _ = sub.Close() }()

	var calls atomic.Int32
	require.NoError(t, sub.Subscribe(context.Background(), "s", func(ctx context.Context, subject string, data []byte) error {
		calls.Add(1)
		return errors.New("boom")
	}))

	broker.Publish("s", []byte("a"))
	broker.Publish("s", []byte("b"))
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 10*time.Millisecond)
}

func TestMemorySubscriber_Unsubscribe(t *testing.T) {
	broker := queue.NewMemoryBroker()
	sub := NewMemorySubscriber(broker)
	defer func() { _ = sub.Close() }()

	handler := func(ctx context.Context, subject string, data []byte) error { return nil }
	require.NoError(t, sub.Subscribe(context.Background(), "s", handler))
	assert.Equal(t, 1, broker.Subscribers("s"))

	require.NoError(t, sub.Unsubscribe("s"))
	assert.Equal(t, 0, broker.Subscribers("s"))
	assert.Error(t, sub.Unsubscribe("s"))
}

func TestMemorySubscriber_Close(t *testing.T) {
	broker := queue.NewMemoryBroker()
	sub := NewMemorySubscriber(broker)

	handler := func(ctx context.Context, subject string, data []byte) error { return nil }
	require.NoError(t, sub.Subscribe(context.Background(), "a", handler))
	require.NoError(t, sub.Subscribe(context.Background(), "b", handler))

	require.NoError(t, sub.Close())
	assert.Equal(t, 0, broker.Subscribers("a"))
	assert.Equal(t, 0, broker.Subscribers("b"))
}
