// Package cache is the shared request cache of a session. Entries are keyed
// by data source, operation kind, refetch epoch and serialized query, and
// expire after a fixed TTL.
package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Kind is the data source operation an entry belongs to
type Kind string

const (
	KindExec    Kind = "exec"
	KindCount   Kind = "count"
	KindColumns Kind = "columns"
)

// Key identifies one cached result
type Key struct {
	DataSource string
	Kind       Kind
	Epoch      int64
	Query      string
}

// String renders the key
func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%d|%s", k.DataSource, k.Kind, k.Epoch, k.Query)
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Options configures a Cache
type Options struct {
	TTL             time.Duration
	CleanupInterval time.Duration
	Compress        bool
}

// Cache is a TTL cache of encoded values
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
	codec   Codec
	now     func() time.Time
	stopCh  chan struct{}
	stopped sync.Once

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache and starts its cleanup goroutine
func New(opts Options) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = time.Minute
	}

	c := &Cache{
		entries: make(map[string]*entry),
		ttl:     opts.TTL,
		codec:   NewCodec(opts.Compress),
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}

	go c.cleanup(opts.CleanupInterval)

	return c
}

// Get returns the decoded value of key
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || c.now().After(e.expiresAt) {
		c.misses.Add(1)
		return nil, false
	}

	value, err := c.codec.Decode(e.value)
	if err != nil {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return value, true
}

// Set stores value under key
func (c *Cache) Set(key string, value []byte) error {
	encoded, err := c.codec.Encode(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{
		value:     encoded,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// GetJSON decodes the value of key into v
func (c *Cache) GetJSON(key string, v interface{}) bool {
	data, ok := c.Get(key)
	if !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// SetJSON stores v encoded as JSON
func (c *Cache) SetJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	return c.Set(key, data)
}

// Clear removes all entries
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
}

func (c *Cache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *Cache) evictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (c *Cache) Stop() {
	c.stopped.Do(func() {
		close(c.stopCh)
	})
}

// Stats returns cache statistics
func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	expired := 0
	now := c.now()
	for _, e := range c.entries {
		if now.After(e.expiresAt) {
			expired++
		}
	}

	return map[string]interface{}{
		"total_entries":   len(c.entries),
		"expired_entries": expired,
		"active_entries":  len(c.entries) - expired,
		"ttl_seconds":     c.ttl.Seconds(),
		"codec":           c.codec.Name(),
		"hits":            c.hits.Load(),
		"misses":          c.misses.Load(),
	}
}
