// Package cache provides byte-level caching for rendered artifacts.
//
// # Overview
//
// Layout passes are always recomputed; the expensive, repeatable work is
// rendering and rasterizing (SVG, PNG, PDF, DOT). The render pipeline keys
// each artifact by a hash of the positioned project plus the render options,
// so an unchanged tree is rendered once per option set.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory; used by the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] builds cache keys. [DefaultKeyer] hashes key options with
// SHA-256; [ScopedKeyer] adds a prefix so several deployments can share one
// Redis database.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	// TTLArtifact bounds how long a rendered artifact is kept.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss with ok=false and a nil error. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
