// Package cache stores computed layouts and sequences between runs.
//
// A [Cache] is a plain byte store with per-entry TTLs. Three backends are
// provided: [FileCache] for the CLI, [RedisCache] for shared deployments of
// the HTTP server, and [NullCache] when caching is disabled. Keys come from a
// [Keyer], which hashes the pipeline topology together with every option that
// influences the result, so a changed pipeline or option is always a miss.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cached entries.
const (
	// LayoutTTL is how long a computed layout stays valid.
	LayoutTTL = 7 * 24 * time.Hour
	// SequenceTTL is how long a computed execution sequence stays valid.
	SequenceTTL = 7 * 24 * time.Hour
)

// Cache is a key/value store for serialized results.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
