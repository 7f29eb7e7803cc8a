package subscriber

import (
	"context"
	"sync"

	"github.com/soltixdb/reportkit/internal/logging"
	"github.com/soltixdb/reportkit/internal/models"
	"github.com/soltixdb/reportkit/internal/session"
)

var refetchLog = logging.Global().With("component", "subscriber.refetch")

// recentEvents bounds the redelivery dedupe window
const recentEvents = 256

// RefetchListener applies refetch events to the sessions of a namespace
// table. Redelivered events are applied once.
type RefetchListener struct {
	namespaces *session.Namespaces
	sub        Subscriber
	subject    string

	mu     sync.Mutex
	seen   map[string]struct{}
	order  []string
	latest func(models.RefetchEvent, int)
}

// NewRefetchListener creates a listener; Start begins consuming
func NewRefetchListener(namespaces *session.Namespaces, sub Subscriber, subject string) *RefetchListener {
	return &RefetchListener{
		namespaces: namespaces,
		sub:        sub,
		subject:    subject,
		seen:       make(map[string]struct{}),
	}
}

// OnApplied registers a callback run after each applied event with the
// number of bumped sessions
func (l *RefetchListener) OnApplied(fn func(ev models.RefetchEvent, bumped int)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.latest = fn
}

// Start subscribes to the refetch subject
func (l *RefetchListener) Start(ctx context.Context) error {
	return l.sub.Subscribe(ctx, l.subject, l.handle)
}

// Stop unsubscribes from the refetch subject
func (l *RefetchListener) Stop() error {
	return l.sub.Unsubscribe(l.subject)
}

func (l *RefetchListener) handle(_ context.Context, subject string, data []byte) error {
	ev, err := models.DecodeRefetchEvent(data)
	if err != nil {
		// a malformed payload never becomes valid; ack it
		refetchLog.Warn("Dropping malformed refetch event", "subject", subject, "error", err)
		return nil
	}
	l.Apply(ev)
	return nil
}

// Apply bumps the sessions targeted by ev and returns how many were bumped.
// An event id already applied is ignored.
func (l *RefetchListener) Apply(ev models.RefetchEvent) int {
	l.mu.Lock()
	if _, dup := l.seen[ev.ID]; dup {
		l.mu.Unlock()
		refetchLog.Debug("Ignoring duplicate refetch event", "event_id", ev.ID)
		return 0
	}
	l.remember(ev.ID)
	callback := l.latest
	l.mu.Unlock()

	bumped := BumpNamespaces(l.namespaces, ev.Namespace)
	refetchLog.Info("Applied refetch event",
		"event_id", ev.ID,
		"namespace", ev.Namespace,
		"origin", ev.Origin,
		"sessions", bumped)

	if callback != nil {
		callback(ev, bumped)
	}
	return bumped
}

func (l *RefetchListener) remember(id string) {
	l.seen[id] = struct{}{}
	l.order = append(l.order, id)
	if len(l.order) > recentEvents {
		delete(l.seen, l.order[0])
		l.order = l.order[1:]
	}
}

// BumpNamespaces bumps the refetch epoch of one namespace, or of every
// namespace when namespace is empty
func BumpNamespaces(namespaces *session.Namespaces, namespace string) int {
	if namespaces == nil {
		return 0
	}

	names := []string{namespace}
	if namespace == "" {
		names = namespaces.Names()
	}

	bumped := 0
	for _, name := range names {
		s, ok := namespaces.Lookup(name)
		if !ok {
			refetchLog.Debug("Refetch event for unknown namespace", "namespace", name)
			continue
		}
		s.BumpRefetch()
		bumped++
	}
	return bumped
}
