package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/reportkit/internal/models"
)

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, string, []byte) error {
	return errors.New("broker down")
}

func (failingPublisher) Close() error { return nil }

func TestRefetchPublisher_Publish(t *testing.T) {
	b := NewMemoryBroker()
	ch, unsub := b.Subscribe("reportkit.refetch", 1)
	defer unsub()

	p := NewRefetchPublisher(NewMemoryPublisher(b), "reportkit.refetch", "gateway-1")
	assert.Equal(t, "reportkit.refetch", p.Subject())

	ev, err := p.Publish(context.Background(), "reports", "import finished")
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)

	got, err := models.DecodeRefetchEvent(receive(t, ch).Data)
	require.NoError(t, err)
	assert.Equal(t, ev.ID, got.ID)
	assert.Equal(t, "reports", got.Namespace)
	assert.Equal(t, "import finished", got.Reason)
	assert.Equal(t, "gateway-1", got.Origin)
}

func TestRefetchPublisher_Error(t *testing.T) {
	p := NewRefetchPublisher(failingPublisher{}, "s", "")
	_, err := p.Publish(context.Background(), "reports", "")
	assert.EqualError(t, err, "broker down")
}
