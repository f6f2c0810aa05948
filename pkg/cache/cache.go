// Package cache stores rendered graph artifacts between runs.
//
// Rendering a large expression graph through Graphviz is the slowest step
// of the CLI, so rendered SVG documents are cached by the hash of the DOT
// source that produced them. Two backends are provided:
//
//   - [FileCache]: one JSON file per entry under a local directory
//   - [RedisCache]: a shared Redis instance, for teams rendering the same graphs
//
// [NullCache] disables caching. [Instrument] wraps any backend and reports
// hits, misses and writes through the observability cache hooks.
//
// Keys are produced by a [Keyer] so that backends never see raw DOT text.
// [ScopedKeyer] prefixes every key, which lets several projects share one
// Redis database without collisions.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
//
// Get reports a miss with ok == false and a nil error. A ttl of zero means
// the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKeyOpts captures the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
	Regions  bool   `json:"regions,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key for a rendered artifact of the graph
	// whose DOT source hashes to graphHash.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys of the form "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key builder.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
