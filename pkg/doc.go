// Package pkg provides the core libraries for symgraph, a symbolic matrix
// expression graph engine.
//
// # Overview
//
// symgraph builds matrix-valued expressions as a hash-consed DAG in which
// every node carries a shape and a sparsity pattern, then rewrites those
// graphs: substitution, sequential elimination, common subexpression
// extraction and collapsing elementwise regions into calls. The pkg
// directory is organized into four main areas:
//
//  1. [expr] and [sparsity] - Domain logic (node store, block algebra, patterns)
//  2. [expr/transform] - Graph rewrites and queries
//  3. [graph], [render/nodelink] - Serialization and visualization
//  4. [pipeline], [cache], [config] - Orchestration and infrastructure
//
// # Architecture
//
// The typical data flow through symgraph:
//
//	Builder (symbols, constants, operations)
//	         ↓
//	    [expr] package (hash-consed DAG)
//	         ↓
//	    [expr/transform] package (substitute, extract, expand)
//	         ↓
//	    [graph] / [render/nodelink] (JSON, DOT, SVG)
//
// # Quick Start
//
// Build a graph and hoist its shared subexpressions:
//
//	b := expr.NewBuilder()
//	x, _ := b.Symbol("x", 1, 1)
//	y, _ := b.Symbol("y", 1, 1)
//	s := expr.Must(expr.Sin(expr.Must(expr.Mul(x, y))))
//	f := expr.Must(expr.Add(s, y))
//	g := expr.Must(expr.Mul(s, expr.Must(expr.Cos(s))))
//
//	out, v, vdef, _ := transform.ExtractShared([]expr.Expr{f, g}, "v_", "")
//	// v = [v_0], vdef = [sin((x*y))], out = [(v_0+y), (v_0*cos(v_0))]
//
// # Main Packages
//
// ## Core Domain Logic
//
// [sparsity] - Immutable compressed-column sparsity patterns with the
// algebra needed by expression nodes (union, product, transpose, blocks).
//
// [expr] - Handles and the node store. A [expr.Builder] owns the nodes;
// construction is hash-consed so structurally equal nodes share an id.
// Block operations split and concatenate along rows, columns or the
// diagonal, and splits of splits compose into a single slice.
//
// [expr/transform] - Rewrites over expression DAGs. [transform.Substitute]
// and [transform.SubstituteInPlace] replace symbols;
// [transform.ExtractShared] hoists shared nodes into named definitions;
// [transform.Symbols] and [transform.DependsOn] query free symbols;
// [transform.MatrixExpand] collapses elementwise regions into calls.
//
// ## Serialization and Visualization
//
// [graph] - The JSON node-link format. Graphs exported with
// [graph.WriteGraph] are imported back with [graph.ToExprs].
//
// [render/nodelink] - Graphviz DOT and SVG diagrams.
//
// ## Infrastructure
//
// [pipeline] - Build then render, used by the CLI and the HTTP server.
//
// [cache] - Artifact caches on the filesystem, Redis or MongoDB.
//
// [config] - TOML configuration with validation.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for rewrite and cache events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...             # All tests
//	go test ./pkg/expr/...        # Specific package
//	go test -run Example ./pkg/... # Examples only
//	go test -short ./...          # Skip Graphviz rendering
//
// [expr]: https://pkg.go.dev/github.com/matzehuels/symgraph/pkg/expr
// [sparsity]: https://pkg.go.dev/github.com/matzehuels/symgraph/pkg/sparsity
// [expr/transform]: https://pkg.go.dev/github.com/matzehuels/symgraph/pkg/expr/transform
// [graph]: https://pkg.go.dev/github.com/matzehuels/symgraph/pkg/graph
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/symgraph/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/symgraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/symgraph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/symgraph/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/symgraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/symgraph/pkg/observability
package pkg
