// Package querycache is a query-key addressed cache for API reads.
//
// Concurrent fetches of the same key share one call. Mutations invalidate
// keys (or whole key prefixes) so the next read refetches; a fetch that was
// already in flight when its key was invalidated still answers its caller
// but its result is not stored.
package querycache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Key identifies a query, e.g. Key{"relations", "acme", "WEB-12"}
type Key []string

// String joins the key parts. Parts are escaped so prefixes stay unambiguous.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, p := range k {
		parts[i] = strings.ReplaceAll(p, "/", "%2F")
	}
	return strings.Join(parts, "/")
}

// HasPrefix reports whether k starts with prefix, part by part
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

type entry struct {
	key       Key
	value     any
	fetchedAt time.Time
}

// Stats are cumulative hit/miss counters
type Stats struct {
	Hits   int64
	Misses int64
}

// Cache stores fetched values per key
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	// generation counts invalidations per key; a fetch only stores its
	// result if the generation did not move while it ran
	generation map[string]uint64
	epoch      uint64

	group singleflight.Group
	ttl   time.Duration
	now   func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache. A zero ttl keeps entries until they are invalidated.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		generation: make(map[string]uint64),
		ttl:        ttl,
		now:        time.Now,
	}
}

// Fetch returns the cached value for key or calls fn to load it
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	v, err := c.get(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *Cache) get(ctx context.Context, key Key, fn func(context.Context) (any, error)) (any, error) {
	id := key.String()

	c.mu.Lock()
	if e, ok := c.entries[id]; ok && !c.expired(e) {
		c.mu.Unlock()
		c.hits.Add(1)
		return e.value, nil
	}
	c.mu.Unlock()
	c.misses.Add(1)

	v, err, _ := c.group.Do(id, func() (any, error) {
		c.mu.Lock()
		gen := c.generationOf(id)
		c.mu.Unlock()

		v, err := fn(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generationOf(id) == gen {
			c.entries[id] = entry{key: append(Key(nil), key...), value: v, fetchedAt: c.now()}
		}
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

func (c *Cache) expired(e entry) bool {
	return c.ttl > 0 && c.now().Sub(e.fetchedAt) > c.ttl
}

// generationOf must be called with mu held. The epoch moves on prefix
// invalidations so they also cover keys that were not cached yet.
func (c *Cache) generationOf(id string) uint64 {
	return c.generation[id] + c.epoch
}

// Invalidate drops key so the next Fetch reloads it
func (c *Cache) Invalidate(key Key) {
	id := key.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.generation[id]++
	c.group.Forget(id)
}

// InvalidatePrefix drops every key starting with prefix
func (c *Cache) InvalidatePrefix(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			delete(c.entries, id)
			c.group.Forget(id)
		}
	}
	// in-flight fetches under the prefix must not repopulate stale data
	c.epoch++
}

// Peek returns the cached value without fetching
func (c *Cache) Peek(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok || c.expired(e) {
		return nil, false
	}
	return e.value, true
}

// Len returns the number of stored entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counts
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
