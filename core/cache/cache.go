package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry is a cached value with the time it was built.
type Entry[T any] struct {
	Value T
	Built time.Time
}

// Loader builds a fresh value for a key.
type Loader[T any] func(ctx context.Context) (T, error)

// TTLCache holds values keyed by name that expire after a fixed TTL.
// Concurrent misses for one key share a single load.
type TTLCache[T any] struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]Entry[T]
	sf      singleflight.Group
	now     func() time.Time
}

// New creates a cache. A zero TTL disables caching: every Get loads.
func New[T any](ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{
		ttl:     ttl,
		entries: make(map[string]Entry[T]),
		now:     time.Now,
	}
}

// expired reports whether an entry is too old to serve.
func (c *TTLCache[T]) expired(e Entry[T]) bool {
	if c.ttl == 0 {
		return true
	}
	return c.now().Sub(e.Built) > c.ttl
}

// GetOrLoad returns the cached value for key, or loads and stores a new one
// if it is missing or expired.
func (c *TTLCache[T]) GetOrLoad(ctx context.Context, key string, load Loader[T]) (T, error) {
	// Fast path
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if exists && !c.expired(entry) {
		return entry.Value, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring the singleflight slot
		c.mu.RLock()
		entry, exists := c.entries[key]
		c.mu.RUnlock()

		if exists && !c.expired(entry) {
			return entry.Value, nil
		}

		value, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = Entry[T]{Value: value, Built: c.now()}
		c.mu.Unlock()

		return value, nil
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result.(T), nil
}

// Invalidate removes the value for key.
func (c *TTLCache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
