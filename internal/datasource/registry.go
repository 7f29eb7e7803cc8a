package datasource

import (
	"sort"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/reportkit/internal/logging"
)

var registryLog = logging.Global().With("component", "datasource.registry")

// Registry resolves data source names. The first resolution of a name wins:
// later changes to host bindings do not affect an already resolved name.
type Registry struct {
	mu      sync.Mutex
	host    *Host
	client  *fiber.Client
	opts    HTTPOptions
	sources map[string]DataSource
	closed  bool
}

// NewRegistry creates a registry. Names bound in host resolve locally, all
// others remotely through client.
func NewRegistry(host *Host, client *fiber.Client, opts HTTPOptions) *Registry {
	if host == nil {
		host = NewHost()
	}
	if client == nil {
		client = &fiber.Client{}
	}
	return &Registry{
		host:    host,
		client:  client,
		opts:    opts,
		sources: make(map[string]DataSource),
	}
}

// Resolve returns the data source for name, creating it on first use
func (r *Registry) Resolve(name string) (DataSource, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}
	if ds, ok := r.sources[name]; ok {
		return ds, nil
	}

	var ds DataSource
	if impl, ok := r.host.Lookup(name); ok {
		ds = NewLocal(name, impl)
	} else {
		ds = NewRemote(name, r.client, r.opts)
	}
	r.sources[name] = ds

	registryLog.Debug("Resolved data source",
		"datasource", name,
		"kind", string(ds.Kind()))
	return ds, nil
}

// Resolved returns the resolved names, sorted
func (r *Registry) Resolved() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Host returns the host bindings
func (r *Registry) Host() *Host {
	return r.host
}

// Close drops every resolved data source. Resolve fails afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.sources = make(map[string]DataSource)
	return nil
}
