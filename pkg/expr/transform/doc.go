// Package transform provides the rewriting and analysis passes over
// expression graphs built with package expr.
//
// # Overview
//
// Every pass walks the graph bottom-up in ascending node id, which is a
// valid topological order, and memoises its result per node. A node whose
// children are all unchanged maps to itself, so untouched subgraphs keep
// their identity and shared nodes are rewritten once no matter how many
// parents reference them. Passes never modify nodes; they return new
// handles.
//
// # Substitution
//
// [Substitute] and [SubstituteAll] replace symbols by expressions. The
// batched form is simultaneous: every replacement is computed against the
// original expressions, and one memo is shared across all of them.
// [GraphSubstitute] runs the same rewrite with arbitrary nodes as targets.
//
// [SubstituteInPlace] eliminates a chain of definitions one variable at a
// time, forwards or in reverse, and hands back the updated definitions and
// expressions:
//
//	vdef, ex, err := transform.SubstituteInPlace(v, vdef, ex, false)
//
// # Shared Subexpressions
//
// [ExtractShared] hoists every node referenced from two or more places
// into a named definition. The extraction is exactly undone by
// [SubstituteInPlace] in reverse mode. [PrintCompact] uses it to print a
// graph without repeating shared subtrees.
//
// # Analysis
//
// [Symbols] lists the free symbols of a graph in depth-first order of first
// appearance. [DependsOn] tests whether a graph references any of a set of
// symbols. [CountNodes] counts distinct reachable nodes.
//
// # Partitioning
//
// [Partition] splits a graph into maximal regions of unary and n-ary
// operations bounded by a stop set. [MatrixExpand] hands each region to an
// [Expander] and splices the result back in place of the region.
// [CallExpander] packages each region as an expr.Function call.
package transform
