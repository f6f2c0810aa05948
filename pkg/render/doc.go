// Package render groups the visual outputs of symgraph.
//
// The [nodelink] subpackage draws expression graphs as Graphviz node-link
// diagrams (DOT source or SVG). Rendering is read-only: it walks a graph
// built by package expr and never creates nodes.
//
// [nodelink]: github.com/matzehuels/symgraph/pkg/render/nodelink
package render
