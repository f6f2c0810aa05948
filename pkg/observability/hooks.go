// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. The expression packages never log on
// their own; they report construction and rewrite events through these hooks
// and the CLI (or any other host) decides what to do with them.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Graph and rewrite hooks take no context: graph construction and rewriting
// are synchronous, non-blocking operations. Cache hooks keep the context of
// the cache call that triggered them.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRewriteHooks(&myRewriteHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Rewrite().OnRewriteStart("substitute", len(ex))
//	// ... rewrite ...
//	observability.Rewrite().OnRewriteComplete("substitute", stats, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Graph Hooks
// =============================================================================

// GraphHooks receives events from the node store.
type GraphHooks interface {
	// OnNodeCreated records the allocation of a new node.
	OnNodeCreated(kind string, id int64)

	// OnMemoHit records a construction request answered by the memo cache.
	OnMemoHit(kind string, id int64)
}

// =============================================================================
// Rewrite Hooks
// =============================================================================

// RewriteStats summarizes one rewrite operation.
type RewriteStats struct {
	Visited int // nodes traversed
	Created int // nodes rebuilt or allocated
}

// RewriteHooks receives events from graph rewriting operations
// (substitution, extraction, expansion).
type RewriteHooks interface {
	OnRewriteStart(op string, roots int)
	OnRewriteComplete(op string, stats RewriteStats, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from artifact cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGraphHooks is a no-op implementation of GraphHooks.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnNodeCreated(string, int64) {}
func (NoopGraphHooks) OnMemoHit(string, int64)     {}

// NoopRewriteHooks is a no-op implementation of RewriteHooks.
type NoopRewriteHooks struct{}

func (NoopRewriteHooks) OnRewriteStart(string, int)                                   {}
func (NoopRewriteHooks) OnRewriteComplete(string, RewriteStats, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	graphHooks   GraphHooks   = NoopGraphHooks{}
	rewriteHooks RewriteHooks = NoopRewriteHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetGraphHooks registers custom node store hooks.
// This should be called once at application startup before building graphs.
func SetGraphHooks(h GraphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphHooks = h
	}
}

// SetRewriteHooks registers custom rewrite hooks.
// This should be called once at application startup before any rewrite.
func SetRewriteHooks(h RewriteHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		rewriteHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Graph returns the registered node store hooks.
func Graph() GraphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphHooks
}

// Rewrite returns the registered rewrite hooks.
func Rewrite() RewriteHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return rewriteHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	graphHooks = NoopGraphHooks{}
	rewriteHooks = NoopRewriteHooks{}
	cacheHooks = NoopCacheHooks{}
}
