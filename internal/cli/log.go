package cli

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/symgraph/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Extracted 3 shared nodes (1ms)"
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks routes library events to the CLI logger. Node events are only
// counted; logging each one would drown everything else.
type logHooks struct {
	logger   *log.Logger
	created  atomic.Int64
	memoHits atomic.Int64
}

func (h *logHooks) OnNodeCreated(string, int64) { h.created.Add(1) }
func (h *logHooks) OnMemoHit(string, int64)     { h.memoHits.Add(1) }

func (h *logHooks) OnRewriteStart(op string, roots int) {
	h.logger.Debug("rewrite started", "op", op, "roots", roots)
}

func (h *logHooks) OnRewriteComplete(op string, stats observability.RewriteStats, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("rewrite failed", "op", op, "err", err)
		return
	}
	h.logger.Debug("rewrite done", "op", op, "visited", stats.Visited, "created", stats.Created, "took", d)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

// counts returns the number of created nodes and memo hits seen so far.
func (h *logHooks) counts() (created, memoHits int64) {
	return h.created.Load(), h.memoHits.Load()
}

// graphCounts reports the node counters of the installed hooks, if any.
func graphCounts() (created, memoHits int64, ok bool) {
	h, ok := observability.Graph().(*logHooks)
	if !ok {
		return 0, 0, false
	}
	created, memoHits = h.counts()
	return created, memoHits, true
}

var (
	_ observability.GraphHooks   = (*logHooks)(nil)
	_ observability.RewriteHooks = (*logHooks)(nil)
	_ observability.CacheHooks   = (*logHooks)(nil)
)
