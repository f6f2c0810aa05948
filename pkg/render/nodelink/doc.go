// Package nodelink renders expression graphs as node-link diagrams.
//
// # Overview
//
// Every node reachable from the rendered outputs becomes one box and every
// operand reference one arrow, so shared subexpressions are visible as
// nodes with several incoming edges. Outputs are drawn with a double
// border, symbols as ellipses, constants dashed and function calls shaded.
//
// # Usage
//
// Convert outputs to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(outputs, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Passing the regions found by transform.Partition draws each expansion
// region as a dashed cluster:
//
//	regions, _ := transform.Partition(outputs, nil)
//	dot := nodelink.ToDOT(outputs, nodelink.Options{Regions: regions})
//
// # Options
//
//   - Detailed: adds node id, shape and non-zero count to each label
//   - Regions: clusters region members together
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
