package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultMaxEntries bounds a MemoryCache created with maxEntries <= 0.
const DefaultMaxEntries = 128

// MemoryCache is an in-process cache with a fixed entry budget. When full,
// the oldest inserted entry is evicted first.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	order      []string
	maxEntries int
	now        func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryCache creates a cache holding at most maxEntries values.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get retrieves a value. Expired entries are removed and reported as misses.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.removeLocked(key)
		return nil, false, nil
	}
	return e.data, true, nil
}

// Set stores a value, evicting the oldest entries if the cache is full.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = e
		return nil
	}
	for len(c.order) >= c.maxEntries {
		c.removeLocked(c.order[0])
	}
	c.entries[key] = e
	c.order = append(c.order, key)
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet
// evicted.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
	c.order = nil
	return nil
}

func (c *MemoryCache) removeLocked(key string) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Ensure MemoryCache implements Cache.
var _ Cache = (*MemoryCache)(nil)
