// Package cache provides the key/value stores behind the fixture load ledger.
//
// The ledger records, per sink destination and fixture, the digest of the records that
// were last loaded successfully. Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per key under a directory (CLI default)
//   - [RedisCache]: keys in a Redis database, shared between machines
//   - [NullCache]: stores nothing, every lookup misses
//
// [NewScoped] prefixes every key of an inner cache, which lets several
// manifests or environments share one backend.
//
// The package also carries the retry helpers ([Retryable],
// [RetryWithBackoff]) that sinks use for transient network errors.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. The bool is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// LedgerKey builds the ledger key for a fixture of the named manifest loaded
// into sink at destination. The destination is hashed, so connection strings
// never end up in keys.
func LedgerKey(sink, destination, manifest, fixture string) string {
	return "ledger:" + sink + ":" + Hash([]byte(destination))[:16] + ":" + manifest + ":" + fixture
}

// keyType returns the key prefix before the first colon, used to label
// observability events.
func keyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "other"
}
