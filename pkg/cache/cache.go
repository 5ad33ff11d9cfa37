// Package cache provides in-process caching for computed fields and
// rendered artifacts.
//
// Entries live only as long as the process that created them. There is no
// on-disk or remote backend: a field computed in one session is never served
// to another.
//
// # Backends
//
//   - [MemoryCache]: bounded, TTL-aware, FIFO eviction. Used by the HTTP
//     server and the interactive explorer.
//   - [NullCache]: stores nothing. Used by one-shot CLI renders.
//
// # Keys
//
// A [Keyer] derives keys from generation inputs so identical requests map to
// the same entry:
//
//	k := cache.NewDefaultKeyer()
//	fieldKey := k.FieldKey(cache.FieldKeyOpts{View: v, Width: 800, Height: 600, MaxIterations: 256})
//	pngKey := k.ArtifactKey(fieldKey, cache.ArtifactKeyOpts{Palette: "gray", Format: "png"})
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default TTLs per entry kind.
const (
	TTLField    = 10 * time.Minute
	TTLArtifact = 10 * time.Minute
)
