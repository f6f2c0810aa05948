package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/symgraph/pkg/expr"
	"github.com/matzehuels/symgraph/pkg/expr/transform"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the node id, shape and non-zero count to each label.
	Detailed bool

	// Regions groups the listed expansion regions into dashed clusters.
	// Typically the result of [transform.Partition] on the same outputs.
	Regions []transform.Region
}

// ToDOT converts the graph reachable from ex to Graphviz DOT. Every
// reachable node is emitted once, in ascending id; edges run from an
// operation to its operands in operand order. Outputs get a double border.
func ToDOT(ex []expr.Expr, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	outputs := make(map[int64]bool, len(ex))
	for _, e := range ex {
		if !e.IsNull() {
			outputs[e.ID()] = true
		}
	}
	// A node first mentioned inside a cluster belongs to it.
	for i, r := range opts.Regions {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", "region "+strconv.FormatInt(r.Root.ID(), 10))
		buf.WriteString("    style=dashed;\n")
		for _, n := range r.Nodes {
			fmt.Fprintf(&buf, "    %s;\n", nodeID(n))
		}
		buf.WriteString("  }\n")
	}
	if len(opts.Regions) > 0 {
		buf.WriteString("\n")
	}

	nodes := expr.TopoSort(ex...)
	for _, n := range nodes {
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(n), strings.Join(fmtAttrs(n, opts.Detailed, outputs[n.ID()]), ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		for _, c := range n.Children() {
			fmt.Fprintf(&buf, "  %s -> %s;\n", nodeID(n), nodeID(c))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(e expr.Expr) string {
	return "n" + strconv.FormatInt(e.ID(), 10)
}

func fmtLabel(e expr.Expr, detailed bool) string {
	label := headLabel(e)
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n#%d  %dx%d  nnz=%d", label, e.ID(), e.Rows(), e.Cols(), e.Sparsity().NNZ())
}

func headLabel(e expr.Expr) string {
	switch e.Kind() {
	case expr.KindSymbol:
		return e.Name()
	case expr.KindConstant:
		if e.IsScalar() {
			return strconv.FormatFloat(e.Values()[0], 'g', -1, 64)
		}
		return fmt.Sprintf("const %dx%d", e.Rows(), e.Cols())
	case expr.KindConcat:
		return e.Axis().String()
	case expr.KindSlice:
		r := e.Rect()
		return fmt.Sprintf("[%d:%d, %d:%d]", r.R0, r.R1, r.C0, r.C1)
	case expr.KindCall:
		return e.Callee().Name()
	default:
		if e.Op() == expr.OpReshape {
			t := e.Target()
			return fmt.Sprintf("reshape %dx%d", t.Rows, t.Cols)
		}
		return e.Op().String()
	}
}

func fmtAttrs(e expr.Expr, detailed, output bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(e, detailed))}
	switch e.Kind() {
	case expr.KindSymbol:
		attrs = append(attrs, "shape=ellipse", "fillcolor=\"#dbeafe\"")
	case expr.KindConstant:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	case expr.KindCall:
		attrs = append(attrs, "fillcolor=\"#fef3c7\"")
	}
	if output {
		attrs = append(attrs, "peripheries=2")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based root element with one
// whose viewBox starts at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
