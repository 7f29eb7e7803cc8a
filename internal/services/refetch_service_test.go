package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/queue"
	"github.com/soltixdb/reportkit/internal/session"
	"github.com/soltixdb/reportkit/internal/subscriber"
)

func refetchNamespaces(t *testing.T) *session.Namespaces {
	t.Helper()
	ns := session.NewNamespaces()
	ns.Provide("reports", session.New(session.Options{}))
	t.Cleanup(func() { _ = ns.Close() })
	return ns
}

func TestRefetchService_Local(t *testing.T) {
	ns := refetchNamespaces(t)
	svc := NewRefetchService(logging.NewDevelopment(), ns, nil)

	resp, err := svc.Refetch(context.Background(), &models.RefetchRequest{Namespace: "reports"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Refetch)
	assert.False(t, resp.Published)

	resp, err = svc.Refetch(context.Background(), &models.RefetchRequest{Namespace: "reports"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Refetch)
}

func TestRefetchService_UnknownNamespace(t *testing.T) {
	svc := NewRefetchService(logging.NewDevelopment(), refetchNamespaces(t), nil)

	_, err := svc.Refetch(context.Background(), &models.RefetchRequest{Namespace: "ghost"})
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, CodeUnresolvedContext, svcErr.Code)
	assert.Equal(t, "ghost", svcErr.Details["namespace"])
}

func TestRefetchService_Published(t *testing.T) {
	ns := refetchNamespaces(t)
	broker := queue.NewMemoryBroker()
	pub := queue.NewRefetchPublisher(queue.NewMemoryPublisher(broker), "reportkit.refetch", "node-1")

	listener := subscriber.NewRefetchListener(ns, subscriber.NewMemorySubscriber(broker), "reportkit.refetch")
	require.NoError(t, listener.Start(context.Background()))
	t.Cleanup(func() { _ = listener.Stop() })

	svc := NewRefetchService(logging.NewDevelopment(), ns, pub)
	resp, err := svc.Refetch(context.Background(), &models.RefetchRequest{Namespace: "reports", Reason: "import"})
	require.NoError(t, err)
	assert.True(t, resp.Published)

	sess, _ := ns.Lookup("reports")
	assert.Eventually(t, func() bool {
		return sess.Refetch() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRefetchService_PublishFailure(t *testing.T) {
	ns := refetchNamespaces(t)
	pub := queue.NewRefetchPublisher(queue.NewMemoryPublisher(queue.NewMemoryBroker()), "reportkit.refetch", "node-1")
	svc := NewRefetchService(logging.NewDevelopment(), ns, pub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Refetch(ctx, &models.RefetchRequest{Namespace: "reports"})
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, CodePublishFailed, svcErr.Code)
}
