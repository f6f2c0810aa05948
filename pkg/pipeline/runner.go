package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/symgraph/pkg/cache"
	"github.com/matzehuels/symgraph/pkg/demo"
	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr"
	"github.com/matzehuels/symgraph/pkg/expr/transform"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration // Lifetime of cached artifacts; zero never expires
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, ttl time.Duration) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    ttl,
	}
}

// Execute runs the complete build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Build
	buildStart := time.Now()
	g, err := r.Build(opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = transform.CountNodes(g.Outputs...)
	result.Stats.OutputCount = len(g.Outputs)

	r.Logger.Debug("built graph",
		"demo", opts.Demo,
		"file", opts.File,
		"nodes", result.Stats.NodeCount,
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, hash, hit, err := r.render(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.GraphHash = hash
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build constructs the graph named by opts in a fresh builder.
func (r *Runner) Build(opts Options) (*demo.Graph, error) {
	return Load(expr.NewBuilder(expr.WithMemo(!opts.NoMemo)), opts)
}

// RenderWithCacheInfo renders g and reports whether the SVG came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *demo.Graph, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	artifacts, _, hit, err := r.render(ctx, g, opts)
	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, g *demo.Graph, opts Options) (map[string][]byte, string, bool, error) {
	hash, err := HashGraph(g)
	if err != nil {
		return nil, "", false, err
	}
	dot, err := DOT(g, opts)
	if err != nil {
		return nil, "", false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	hit := false
	for _, format := range opts.Formats {
		var data []byte
		if format == FormatSVG {
			var cached bool
			if data, cached, err = r.renderSVG(ctx, hash, dot, opts); err != nil {
				return nil, "", false, err
			}
			hit = hit || cached
		} else if data, err = renderFormat(ctx, g, dot, format); err != nil {
			return nil, "", false, err
		}
		artifacts[format] = data
	}
	return artifacts, hash, hit, nil
}

// renderSVG returns the SVG for dot, from the cache when possible.
func (r *Runner) renderSVG(ctx context.Context, hash, dot string, opts Options) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(FormatSVG))

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		} else if hit {
			return data, true, nil
		}
	}

	svg, err := renderFormat(ctx, nil, dot, FormatSVG)
	if err != nil {
		return nil, false, err
	}
	if ctx.Err() != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, ctx.Err(), "render svg")
	}

	if err := r.Cache.Set(ctx, key, svg, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	}
	return svg, false, nil
}
