// Package cache provides the byte-oriented key/value stores that back the
// offline asset cache.
//
// Four implementations share the [Cache] interface:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [MemoryCache]: process-local map, used by the server when no backend
//     is configured and by tests
//   - [RedisCache]: shared store for multi-instance deployments
//   - [NullCache]: stores nothing, every read misses
//
// Keys are produced by a [Keyer]. Wrapping a keyer with [NewScopedKeyer]
// namespaces every key under a cache version identifier, so bumping the
// version yields an empty cache without touching older entries.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// AssetKey returns the key for a cached asset response identified by
	// its request URL (path plus query).
	AssetKey(url string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// AssetKey returns "asset:" followed by the URL.
func (DefaultKeyer) AssetKey(url string) string {
	return "asset:" + url
}
