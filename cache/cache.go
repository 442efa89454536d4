// Package cache provides a concurrency-safe pull-through cache with a
// fixed TTL per instance. Values are fetched on demand, kept until they
// expire, and only ever replaced by a successful non-empty fetch, so a
// flaky upstream degrades to stale data instead of no data.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ErrNoData indicates the fetch produced nothing usable and no prior entry
// exists to fall back on.
var ErrNoData = errors.New("no cached data available")

// FetchFunc produces a fresh value for a cache key.
type FetchFunc[V any] func(ctx context.Context) (V, error)

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithEmptyCheck installs a predicate deciding whether a fetched value is
// empty. Empty fetch results never replace a stored entry. Without the
// predicate every successful fetch counts as data.
func WithEmptyCheck[V any](fn func(V) bool) Option[V] {
	return func(c *Cache[V]) {
		c.empty = fn
	}
}

type entry[V any] struct {
	value   V
	expires time.Time
}

// Cache is a pull-through cache. Keys within one instance share the same
// TTL; data with different freshness needs belongs in separate instances.
type Cache[V any] struct {
	ttl    time.Duration
	logger zerolog.Logger
	empty  func(V) bool

	mu      sync.RWMutex
	entries map[string]entry[V]
	group   singleflight.Group
}

// New creates a cache whose entries stay fresh for ttl after each fetch.
func New[V any](ttl time.Duration, logger zerolog.Logger, opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		ttl:     ttl,
		logger:  logger,
		entries: make(map[string]entry[V]),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrFetch returns the cached value for key, fetching it first when the
// entry is absent or expired. Concurrent callers missing on the same key
// share a single fetch. A failed or empty fetch falls back to the prior
// entry when one exists, even an expired one.
func (c *Cache[V]) GetOrFetch(ctx context.Context, key string, fetch FetchFunc[V]) (V, error) {
	if v, ok := c.fresh(key); ok {
		return v, nil
	}
	return c.refresh(ctx, key, fetch, false)
}

// ForceRefresh fetches a fresh value regardless of the entry's age. The
// stored entry is still only replaced when the fetch yields data.
func (c *Cache[V]) ForceRefresh(ctx context.Context, key string, fetch FetchFunc[V]) (V, error) {
	return c.refresh(ctx, key, fetch, true)
}

// Peek returns the value stored for key, if it exists and is still fresh.
func (c *Cache[V]) Peek(key string) (V, bool) {
	return c.fresh(key)
}

// Invalidate drops the entry stored for key.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
}

// Len returns the number of stored entries, fresh or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[V]) fresh(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && time.Now().Before(e.expires) {
		return e.value, true
	}
	var zero V
	return zero, false
}

func (c *Cache[V]) refresh(ctx context.Context, key string, fetch FetchFunc[V], force bool) (V, error) {
	v, err, _ := c.group.Do(key, func() (any, error) {
		// A caller that waited on an in-flight refresh finds the entry
		// fresh by the time its own flight starts.
		if !force {
			if v, ok := c.fresh(key); ok {
				return v, nil
			}
		}

		value, err := fetch(ctx)
		now := time.Now()

		c.mu.RLock()
		prior, hasPrior := c.entries[key]
		c.mu.RUnlock()

		if err != nil {
			if hasPrior {
				c.logger.Warn().Err(err).Str("key", key).Msg("Refresh failed, serving cached data")
				return prior.value, nil
			}
			return nil, err
		}
		if c.empty != nil && c.empty(value) {
			if hasPrior {
				c.logger.Debug().Str("key", key).Msg("Empty refresh, keeping cached data")
				return prior.value, nil
			}
			return nil, ErrNoData
		}

		c.mu.Lock()
		c.entries[key] = entry[V]{value: value, expires: now.Add(c.ttl)}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
