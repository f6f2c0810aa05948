// Package expr provides the node store and expression handles of a
// symbolic matrix expression graph.
//
// # Overview
//
// Every matrix-valued computation is a directed acyclic graph of immutable
// nodes. A [Builder] owns the nodes it creates: it assigns each one a
// creation-order id and, unless disabled with [WithMemo], deduplicates
// structurally identical nodes so that building the same expression twice
// yields the same node. Children always exist before their parents, so the
// id order is a valid topological order and the graph is acyclic by
// construction.
//
// An [Expr] is a small value handle onto a node. Many handles may share one
// node; identity is tested with [Expr.Is], structural equality with
// [Equal].
//
// # Basic Usage
//
//	b := expr.NewBuilder()
//	x := expr.Must(b.Symbol("x", 3, 1))
//	y := expr.Must(expr.Sin(x))
//	z := expr.Must(expr.Add(x, y))
//	fmt.Println(z) // (x+sin(x))
//
// Package-level helpers such as [Add] and [Vertcat] take the builder from
// their operands. All operands of one call must come from the same builder.
//
// # Node Kinds
//
//   - [KindSymbol]: named free variable, never deduplicated
//   - [KindConstant]: numeric matrix; zero entries are structural zeros
//   - [KindUnary], [KindNary]: operations from the [Op] table
//   - [KindConcat]: horizontal, vertical or diagonal concatenation
//   - [KindSlice]: a rectangular block of another node
//   - [KindCall]: an opaque [Callee], used for expanded regions and
//     linear solves
//
// # Block Algebra
//
// Concatenation and splitting are exact inverses on node identity, not
// just on values:
//
//	y := expr.Must(expr.Vertcat(x, x))
//	parts, _ := expr.Vertsplit(y, []int{0, 3, 6}) // parts[0].Is(x) && parts[1].Is(x)
//	expr.Must(expr.Vertcat(parts...)).Is(y)       // true
//
// A block of a concatenation that falls inside one part is taken from that
// part, and a concatenation of adjacent blocks of one node is that node's
// enclosing block. [Blockcat], [Blocksplit] and [Diagsplit] extend this to
// grids and block-diagonal matrices.
//
// # Collaborators
//
// Result sparsity of unary and n-ary operations is computed by a
// [SparsityEngine]; [StructuralEngine] is the default. [Solve] and [Pinv]
// are delegated to a [LinearSolver]; the default [CallSolver] records them
// as call nodes with the solver name and options passed through.
//
// # Errors
//
// Every constructor validates its operands before creating a node and
// returns a *errors.Error with one of the codes from package errors:
// SHAPE_MISMATCH, DIMENSION_ERROR, INDEX_ERROR, EMPTY_INPUT or
// INVALID_ARGUMENT. A failed call never modifies existing nodes.
//
// # Concurrency
//
// A [Builder] is safe for concurrent use. Nodes are immutable, so handles
// may be shared between goroutines freely.
package expr
