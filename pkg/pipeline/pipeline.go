// Package pipeline provides the build → render pipeline for demo graphs.
//
// This package implements the pipeline shared by the CLI and the HTTP
// server. By centralizing it, both entry points build, hash, cache and render
// graphs the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Build: Construct a demo graph, or import a JSON graph file, in a fresh
//     expr.Builder
//  2. Render: Generate output in the requested formats (DOT, SVG, JSON)
//
// SVG artifacts are cached under a key derived from the hash of the graph's
// JSON form and the render options. DOT and JSON are cheap and never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger, 24*time.Hour)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Demo:    "blocks",
//	    Formats: []string{"svg"},
//	    Regions: true,
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/symgraph/pkg/cache"
	"github.com/matzehuels/symgraph/pkg/demo"
	"github.com/matzehuels/symgraph/pkg/errors"
)

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// Formats lists every supported output format.
var Formats = []string{FormatDOT, FormatSVG, FormatJSON}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Demo     string   `json:"demo"`
	File     string   `json:"-"`                 // Graph in the JSON node-link format, instead of Demo
	NoMemo   bool     `json:"no_memo,omitempty"` // Disable hash-consing in the builder
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Ids, shapes and nnz in node labels
	Regions  bool     `json:"regions,omitempty"`  // Cluster expansion regions
	Refresh  bool     `json:"refresh,omitempty"`  // Skip cache reads

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the built demo graph.
	Graph *demo.Graph

	// GraphHash is the content hash of the graph's JSON form.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	OutputCount int
	BuildTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether the SVG came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// IsGraphFile reports whether a source name refers to a JSON graph file
// rather than a demo.
func IsGraphFile(name string) bool {
	return strings.HasSuffix(name, ".json")
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, Formats)
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if (o.Demo == "") == (o.File == "") {
		return errors.New(errors.ErrCodeInvalidArgument, "exactly one of demo or file is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
		Regions:  o.Regions,
	}
}
