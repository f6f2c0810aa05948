// Package sparsity provides the structural sparsity pattern carried by every
// node of an expression graph.
//
// # Overview
//
// A [Pattern] is the set of structurally non-zero positions of a rows×cols
// matrix. Patterns are immutable values: every operation returns a new
// pattern and never modifies its operands, so they can be shared freely
// between nodes.
//
// Positions are stored as sorted column-major linear indices
// (index = col*rows + row). Column-major order makes horizontal
// concatenation an offset shift and keeps [Pattern.Indices] stable across
// reshapes.
//
// # Algebra
//
// The package implements the structural algebra needed by node
// constructors:
//
//   - [Union] and [Intersect] for elementwise addition and multiplication
//   - [Product] for matrix products
//   - [Horzcat], [Vertcat], [Diagcat] and [Pattern.Sub] for block algebra
//   - [Pattern.Transpose] and [Pattern.Reshape] for layout changes
//   - [Broadcast] for scalar operands of elementwise operations
//
// Operands of binary operations must have identical shapes. Callers are
// expected to validate shapes first; a mismatch here is a programming error
// and panics.
package sparsity
