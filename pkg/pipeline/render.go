package pipeline

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/symgraph/pkg/cache"
	"github.com/matzehuels/symgraph/pkg/demo"
	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr"
	"github.com/matzehuels/symgraph/pkg/expr/transform"
	"github.com/matzehuels/symgraph/pkg/graph"
	"github.com/matzehuels/symgraph/pkg/render/nodelink"
)

// Load builds the demo named by opts.Demo, or imports opts.File, into b.
// Imported graphs have no boundary, variables or definitions.
func Load(b *expr.Builder, opts Options) (*demo.Graph, error) {
	if opts.File != "" {
		g, err := graph.ReadGraphFile(opts.File)
		if err != nil {
			return nil, err
		}
		outputs, err := graph.ToExprs(b, g)
		if err != nil {
			return nil, err
		}
		return &demo.Graph{Outputs: outputs}, nil
	}
	d, err := demo.Get(opts.Demo)
	if err != nil {
		return nil, err
	}
	return d.Build(b)
}

// DOT returns the Graphviz source of g. With opts.Regions the expansion
// regions between g's outputs and boundary are drawn as clusters.
func DOT(g *demo.Graph, opts Options) (string, error) {
	dotOpts := nodelink.Options{Detailed: opts.Detailed}
	if opts.Regions {
		regions, err := transform.Partition(g.Outputs, g.Boundary)
		if err != nil {
			return "", err
		}
		dotOpts.Regions = regions
	}
	return nodelink.ToDOT(g.Outputs, dotOpts), nil
}

// Render generates output artifacts in the requested formats without
// touching any cache.
func Render(ctx context.Context, g *demo.Graph, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	dot, err := DOT(g, opts)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, g, dot, format)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderFormat renders one format. g may be nil for formats derived from dot.
func renderFormat(ctx context.Context, g *demo.Graph, dot, format string) ([]byte, error) {
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		svg, err := nodelink.RenderSVG(ctx, dot)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
		}
		return svg, nil
	case FormatJSON:
		return graph.MarshalGraph(g.Outputs...)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
}

// HashGraph returns the content hash of g: its outputs in the JSON
// node-link format plus the ids of its boundary nodes.
func HashGraph(g *demo.Graph) (string, error) {
	boundary := make([]int64, len(g.Boundary))
	for i, b := range g.Boundary {
		boundary[i] = b.ID()
	}
	data, err := json.Marshal(struct {
		Graph    graph.Graph `json:"graph"`
		Boundary []int64     `json:"boundary,omitempty"`
	}{graph.FromExprs(g.Outputs...), boundary})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "hash graph")
	}
	return cache.Hash(data), nil
}
