package datasource

import (
	"context"
	"sort"
	"sync"

	"github.com/soltixdb/reportkit/internal/models"
)

// Host holds the data source names bound by the embedding host. A binding
// may carry an implementation; without one the local data source returns
// empty results.
type Host struct {
	mu       sync.RWMutex
	bindings map[string]DataSource
}

// NewHost creates a host with the given names bound and no implementations
func NewHost(names ...string) *Host {
	h := &Host{bindings: make(map[string]DataSource)}
	for _, name := range names {
		if name != "" {
			h.bindings[name] = nil
		}
	}
	return h
}

// Bind binds name, optionally to an implementation
func (h *Host) Bind(name string, impl DataSource) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.bindings[name] = impl
}

// Unbind removes a binding. Already resolved data sources are not affected.
func (h *Host) Unbind(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.bindings, name)
}

// Lookup reports whether name is bound and returns its implementation
func (h *Host) Lookup(name string) (DataSource, bool) {
	if h == nil {
		return nil, false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	impl, ok := h.bindings[name]
	return impl, ok
}

// Names returns the bound names, sorted
func (h *Host) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.bindings))
	for name := range h.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Local serves a host-bound data source without network transport
type Local struct {
	name string
	impl DataSource
}

// NewLocal creates a local data source. A nil impl returns empty results.
func NewLocal(name string, impl DataSource) *Local {
	return &Local{name: name, impl: impl}
}

func (l *Local) Name() string { return l.name }

func (l *Local) Kind() Kind { return KindLocal }

// Exec runs the query on the bound implementation
func (l *Local) Exec(ctx context.Context, query models.DsQuery) (models.DsDataSource, error) {
	if l.impl == nil {
		return models.EmptyDataSource(), nil
	}
	return l.impl.Exec(ctx, query)
}

// Columns lists the columns of the bound implementation
func (l *Local) Columns(ctx context.Context) (models.DsColumns, error) {
	if l.impl == nil {
		return models.DsColumns{Columns: []models.DsColumn{}}, nil
	}
	return l.impl.Columns(ctx)
}

// Count counts rows on the bound implementation
func (l *Local) Count(ctx context.Context, query models.DsQuery) (models.DsCount, error) {
	if l.impl == nil {
		return models.DsCount{}, nil
	}
	return l.impl.Count(ctx, query)
}
