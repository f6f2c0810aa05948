package expr

import (
	"slices"

	"github.com/matzehuels/symgraph/pkg/sparsity"
)

// Kind is the operation class of a node.
type Kind uint8

const (
	// KindSymbol is a free symbolic leaf.
	KindSymbol Kind = iota
	// KindConstant is a numeric leaf.
	KindConstant
	// KindUnary applies a one-operand operation.
	KindUnary
	// KindNary applies an operation to two or more operands.
	KindNary
	// KindConcat is a horizontal, vertical or diagonal concatenation.
	KindConcat
	// KindSlice is one block of a split: a rectangular view into its child.
	KindSlice
	// KindCall applies an opaque [Callee] (expanded region, linear solve).
	KindCall
)

var kindNames = [...]string{
	KindSymbol:   "symbol",
	KindConstant: "constant",
	KindUnary:    "unary",
	KindNary:     "nary",
	KindConcat:   "concat",
	KindSlice:    "slice",
	KindCall:     "call",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Axis selects the direction of a concatenation.
type Axis uint8

const (
	AxisHorz Axis = iota
	AxisVert
	AxisDiag
)

func (a Axis) String() string {
	switch a {
	case AxisHorz:
		return "horzcat"
	case AxisVert:
		return "vertcat"
	case AxisDiag:
		return "diagcat"
	}
	return "unknown"
}

// Shape is the (rows, cols) extent of a matrix-valued node.
type Shape struct {
	Rows, Cols int
}

// Numel returns Rows*Cols.
func (s Shape) Numel() int { return s.Rows * s.Cols }

// IsScalar reports whether the shape is 1×1.
func (s Shape) IsScalar() bool { return s.Rows == 1 && s.Cols == 1 }

// Rect is a half-open rectangle [R0, R1) × [C0, C1).
type Rect struct {
	R0, R1, C0, C1 int
}

// Shape returns the extent of the rectangle.
func (r Rect) Shape() Shape { return Shape{Rows: r.R1 - r.R0, Cols: r.C1 - r.C0} }

// Contains reports whether o lies within r.
func (r Rect) Contains(o Rect) bool {
	return o.R0 >= r.R0 && o.R1 <= r.R1 && o.C0 >= r.C0 && o.C1 <= r.C1
}

// node is the immutable unit of sharing. Nodes are only created by a
// [Builder] and never modified afterwards.
type node struct {
	id       int64
	b        *Builder
	kind     Kind
	op       Op
	children []Expr
	sp       sparsity.Pattern

	name   string    // KindSymbol
	values []float64 // KindConstant, row-major
	axis   Axis      // KindConcat
	rect   Rect      // KindSlice
	target Shape     // OpReshape
	callee Callee    // KindCall
}

// Expr is a handle to a node of the expression graph. Handles are plain
// values; copying one aliases the same node, which is how sharing in the
// DAG is expressed.
//
// The zero Expr is a null handle; see [Expr.IsNull].
type Expr struct {
	n *node
}

// IsNull reports whether e refers to no node.
func (e Expr) IsNull() bool { return e.n == nil }

// Is reports whether e and o refer to the same node.
func (e Expr) Is(o Expr) bool { return e.n == o.n }

// ID returns the creation-order id. Children always have smaller ids than
// their parents.
func (e Expr) ID() int64 { return e.n.id }

// Builder returns the node store that owns e.
func (e Expr) Builder() *Builder { return e.n.b }

// Kind returns the operation class.
func (e Expr) Kind() Kind { return e.n.kind }

// Op returns the operation of unary and n-ary nodes, OpNone otherwise.
func (e Expr) Op() Op { return e.n.op }

// Shape returns the (rows, cols) extent.
func (e Expr) Shape() Shape { return Shape{Rows: e.n.sp.Rows(), Cols: e.n.sp.Cols()} }

// Rows returns the row count.
func (e Expr) Rows() int { return e.n.sp.Rows() }

// Cols returns the column count.
func (e Expr) Cols() int { return e.n.sp.Cols() }

// Numel returns rows*cols.
func (e Expr) Numel() int { return e.n.sp.Numel() }

// IsScalar reports whether e is 1×1.
func (e Expr) IsScalar() bool { return e.n.sp.IsScalar() }

// Sparsity returns the structural sparsity pattern.
func (e Expr) Sparsity() sparsity.Pattern { return e.n.sp }

// IsSymbolic reports whether e is a symbol leaf.
func (e Expr) IsSymbolic() bool { return e.n != nil && e.n.kind == KindSymbol }

// IsConstant reports whether e is a constant leaf.
func (e Expr) IsConstant() bool { return e.n != nil && e.n.kind == KindConstant }

// Name returns the diagnostic name of a symbol, or "" for other kinds.
func (e Expr) Name() string { return e.n.name }

// Values returns a copy of a constant's row-major values.
func (e Expr) Values() []float64 { return slices.Clone(e.n.values) }

// Axis returns the concatenation axis of a KindConcat node.
func (e Expr) Axis() Axis { return e.n.axis }

// Rect returns the block a KindSlice node selects from its child.
func (e Expr) Rect() Rect { return e.n.rect }

// Target returns the shape an OpReshape node produces.
func (e Expr) Target() Shape { return e.n.target }

// Callee returns the callee of a KindCall node.
func (e Expr) Callee() Callee { return e.n.callee }

// NumDeps returns the number of children.
func (e Expr) NumDeps() int { return len(e.n.children) }

// Dep returns the i-th child.
func (e Expr) Dep(i int) Expr { return e.n.children[i] }

// Children returns a copy of the ordered child handles.
func (e Expr) Children() []Expr { return slices.Clone(e.n.children) }

// Must panics if err is non-nil and returns e otherwise. It is intended for
// graph literals in tests and examples where the shapes are known to agree.
func Must(e Expr, err error) Expr {
	if err != nil {
		panic(err)
	}
	return e
}
