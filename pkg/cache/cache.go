// Package cache stores smoothing results and rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers running several
//     replicas
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// # Keys
//
// Keys are derived by a [Keyer] from a content hash of the input graph and
// every option that affects the output, so a changed graph or ε never hits a
// stale entry. Wrap a keyer with [NewScopedKeyer] to namespace keys, e.g. by
// program version.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored data and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop all their entries.
type Clearer interface {
	// Clear removes every entry and reports how many were removed.
	Clear(ctx context.Context) (int, error)
}

// Default entry lifetimes.
const (
	TTLSmooth = 24 * time.Hour
	TTLSweep  = 24 * time.Hour
	TTLRender = 7 * 24 * time.Hour
)
