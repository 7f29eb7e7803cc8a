package session

import (
	"errors"
	"sort"
	"sync"

	"github.com/soltixdb/reportkit/internal/logging"
)

var sessionLog = logging.Global().With("component", "session")

// Setup errors returned by ElementContext. The messages are shown to host
// developers as is.
var (
	ErrMissingNamespace  = errors.New("SDK element component required namespace prop")
	ErrMissingDataSource = errors.New("SDK element component required datasource prop")
	ErrUnresolvedContext = errors.New("Invalid namespace cause inject context is undefined")
)

// Namespaces maps namespace tokens to sessions
type Namespaces struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewNamespaces creates an empty namespace table
func NewNamespaces() *Namespaces {
	return &Namespaces{sessions: make(map[string]*Session)}
}

// Provide binds a session to a namespace token, replacing any previous one.
// The replaced session is closed.
func (n *Namespaces) Provide(namespace string, s *Session) {
	n.mu.Lock()
	old := n.sessions[namespace]
	n.sessions[namespace] = s
	n.mu.Unlock()

	if old != nil && old != s {
		if err := old.Close(); err != nil {
			sessionLog.Warn("Failed to close replaced session", "namespace", namespace, "error", err)
		}
	}
}

// Lookup returns the session of a namespace
func (n *Namespaces) Lookup(namespace string) (*Session, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	s, ok := n.sessions[namespace]
	return s, ok && s != nil
}

// Names returns the provided namespaces, sorted
func (n *Namespaces) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	names := make([]string, 0, len(n.sessions))
	for name := range n.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remove closes and drops a namespace
func (n *Namespaces) Remove(namespace string) error {
	n.mu.Lock()
	s, ok := n.sessions[namespace]
	delete(n.sessions, namespace)
	n.mu.Unlock()

	if !ok || s == nil {
		return nil
	}
	return s.Close()
}

// Close closes every session
func (n *Namespaces) Close() error {
	n.mu.Lock()
	sessions := n.sessions
	n.sessions = make(map[string]*Session)
	n.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if s == nil {
			continue
		}
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ElementContext validates the setup of an element and returns its session
func ElementContext(n *Namespaces, namespace, dataSource string) (*Session, error) {
	if namespace == "" {
		return nil, ErrMissingNamespace
	}
	if dataSource == "" {
		return nil, ErrMissingDataSource
	}
	if n == nil {
		return nil, ErrUnresolvedContext
	}
	s, ok := n.Lookup(namespace)
	if !ok {
		return nil, ErrUnresolvedContext
	}
	return s, nil
}
