// Package session holds the shared context handed to every element of one
// embedding host: the data source registry, the request cache, the refetch
// counter and the time settings used for presets and formatting.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/reportkit/internal/cache"
	"github.com/soltixdb/reportkit/internal/datasource"
	"github.com/soltixdb/reportkit/internal/expression"
	"github.com/soltixdb/reportkit/internal/format"
)

// Options configures a Session
type Options struct {
	Host     *datasource.Host
	Client   *fiber.Client
	HTTP     datasource.HTTPOptions
	Cache    cache.Options
	Location *time.Location
	Clock    expression.Clock
}

// Session is the shared context of one host
type Session struct {
	registry  *datasource.Registry
	cache     *cache.Cache
	resolver  *expression.Resolver
	formatter *format.Dispatcher

	refetch   atomic.Int64
	mu        sync.Mutex
	listeners map[int]func(epoch int64)
	nextID    int
	closeOnce sync.Once
}

// New creates a session
func New(opts Options) *Session {
	return &Session{
		registry:  datasource.NewRegistry(opts.Host, opts.Client, opts.HTTP),
		cache:     cache.New(opts.Cache),
		resolver:  expression.NewResolver(opts.Clock, opts.Location),
		formatter: format.NewDispatcher(opts.Location),
		listeners: make(map[int]func(int64)),
	}
}

func (s *Session) Registry() *datasource.Registry { return s.registry }

func (s *Session) Cache() *cache.Cache { return s.cache }

func (s *Session) Resolver() *expression.Resolver { return s.resolver }

func (s *Session) Formatter() *format.Dispatcher { return s.formatter }

// Refetch returns the current refetch epoch
func (s *Session) Refetch() int64 {
	return s.refetch.Load()
}

// BumpRefetch increments the refetch epoch, drops the cached results of the
// previous epochs and notifies listeners
func (s *Session) BumpRefetch() int64 {
	epoch := s.refetch.Add(1)
	s.cache.Clear()

	s.mu.Lock()
	listeners := make([]func(int64), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(epoch)
	}
	return epoch
}

// OnRefetch registers fn to run after every bump. The returned function
// unregisters it.
func (s *Session) OnRefetch(fn func(epoch int64)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Close tears down the registry and the cache
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.registry.Close()
		s.cache.Stop()
	})
	return err
}
