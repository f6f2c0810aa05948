package expr

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/observability"
	"github.com/matzehuels/symgraph/pkg/sparsity"
)

// Builder is the node store. It assigns creation-order ids and optionally
// deduplicates structurally identical nodes through a construction-time
// memo cache.
//
// The memo cache is scoped to the builder, grows monotonically and is never
// invalidated: nodes are immutable, so a cached node stays a valid answer
// for its key for the builder's whole lifetime. Builders are safe for
// concurrent use; the id counter and the memo are guarded by one mutex.
type Builder struct {
	mu     sync.Mutex
	id     uuid.UUID
	next   int64
	memo   map[memoKey]*node // nil when memoisation is disabled
	engine SparsityEngine
	solver LinearSolver
}

// Option configures a [Builder].
type Option func(*Builder)

// WithMemo enables or disables the construction-time memo cache.
// It is enabled by default.
func WithMemo(enabled bool) Option {
	return func(b *Builder) {
		if enabled {
			b.memo = make(map[memoKey]*node)
		} else {
			b.memo = nil
		}
	}
}

// WithSparsityEngine replaces the [StructuralEngine].
func WithSparsityEngine(e SparsityEngine) Option {
	return func(b *Builder) {
		if e != nil {
			b.engine = e
		}
	}
}

// WithLinearSolver replaces the [CallSolver] used by [Solve] and [Pinv].
func WithLinearSolver(s LinearSolver) Option {
	return func(b *Builder) {
		if s != nil {
			b.solver = s
		}
	}
}

// NewBuilder creates an empty node store.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		id:     uuid.New(),
		memo:   make(map[memoKey]*node),
		engine: StructuralEngine{},
		solver: CallSolver{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ID returns the unique identity of this builder, used in diagnostics.
func (b *Builder) ID() uuid.UUID { return b.id }

// NodeCount returns the number of nodes allocated so far.
func (b *Builder) NodeCount() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.next
}

// MemoSize returns the number of entries in the memo cache.
func (b *Builder) MemoSize() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.memo)
}

// Memoized reports whether the memo cache is enabled.
func (b *Builder) Memoized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.memo != nil
}

// memoKey identifies a node by operation, children and scalar parameters.
// Call nodes also key on the callee value.
type memoKey struct {
	kind     Kind
	op       Op
	callee   Callee
	children string
	params   string
}

func newMemoKey(n *node) (memoKey, bool) {
	if n.kind == KindSymbol {
		return memoKey{}, false
	}
	if n.kind == KindCall && !reflect.TypeOf(n.callee).Comparable() {
		return memoKey{}, false
	}
	var ids strings.Builder
	for i, c := range n.children {
		if i > 0 {
			ids.WriteByte(',')
		}
		ids.WriteString(strconv.FormatInt(c.n.id, 10))
	}

	var params strings.Builder
	rows, cols := n.sp.Shape()
	switch n.kind {
	case KindConstant:
		params.WriteString(strconv.Itoa(rows) + "x" + strconv.Itoa(cols) + ":")
		for i, v := range n.values {
			if i > 0 {
				params.WriteByte(',')
			}
			params.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	case KindConcat:
		params.WriteString(n.axis.String())
	case KindSlice:
		r := n.rect
		params.WriteString(strconv.Itoa(r.R0) + ":" + strconv.Itoa(r.R1) + "," + strconv.Itoa(r.C0) + ":" + strconv.Itoa(r.C1))
	case KindUnary:
		if n.op == OpReshape {
			params.WriteString(strconv.Itoa(n.target.Rows) + "x" + strconv.Itoa(n.target.Cols))
		}
	}
	return memoKey{kind: n.kind, op: n.op, callee: n.callee, children: ids.String(), params: params.String()}, true
}

// add assigns an id to n, or returns the memoised equivalent.
func (b *Builder) add(n *node) Expr {
	n.b = b
	key, cacheable := newMemoKey(n)

	b.mu.Lock()
	if cacheable && b.memo != nil {
		if hit, ok := b.memo[key]; ok {
			b.mu.Unlock()
			observability.Graph().OnMemoHit(hit.kind.String(), hit.id)
			return Expr{n: hit}
		}
	}
	b.next++
	n.id = b.next
	if cacheable && b.memo != nil {
		b.memo[key] = n
	}
	b.mu.Unlock()

	observability.Graph().OnNodeCreated(n.kind.String(), n.id)
	return Expr{n: n}
}

// owns checks that every operand is a non-null handle created by b.
func (b *Builder) owns(xs ...Expr) error {
	for i, x := range xs {
		if x.IsNull() {
			return errors.New(errors.ErrCodeInvalidArgument, "operand %d is a null expression", i)
		}
		if x.n.b != b {
			return errors.New(errors.ErrCodeInvalidArgument,
				"operand %d belongs to builder %s, not %s", i, x.n.b.id, b.id)
		}
	}
	return nil
}

// builderOf returns the builder shared by all operands.
func builderOf(op string, xs []Expr) (*Builder, error) {
	if len(xs) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "%s: no operands", op)
	}
	if xs[0].IsNull() {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "%s: operand 0 is a null expression", op)
	}
	b := xs[0].n.b
	if err := b.owns(xs...); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "%s", op)
	}
	return b, nil
}

func checkDims(rows, cols int) error {
	if rows < 0 || cols < 0 {
		return errors.New(errors.ErrCodeDimension, "negative dimensions %dx%d", rows, cols)
	}
	return nil
}

// =============================================================================
// Leaves
// =============================================================================

// Symbol creates a dense rows×cols symbol. The name is used for printing
// only; two symbols with the same name are distinct.
func (b *Builder) Symbol(name string, rows, cols int) (Expr, error) {
	if err := checkDims(rows, cols); err != nil {
		return Expr{}, err
	}
	return b.SymbolWithPattern(name, sparsity.Dense(rows, cols))
}

// SymbolWithPattern creates a symbol with an explicit sparsity pattern.
func (b *Builder) SymbolWithPattern(name string, p sparsity.Pattern) (Expr, error) {
	if err := checkDims(p.Rows(), p.Cols()); err != nil {
		return Expr{}, err
	}
	return b.add(&node{kind: KindSymbol, name: name, sp: p}), nil
}

// Constant creates a rows×cols constant from row-major values. A single
// value is broadcast to every entry. Entries equal to zero are structural
// zeros of the resulting pattern.
func (b *Builder) Constant(values []float64, rows, cols int) (Expr, error) {
	if err := checkDims(rows, cols); err != nil {
		return Expr{}, err
	}
	n := rows * cols
	switch len(values) {
	case n:
		values = slices.Clone(values)
	case 1:
		v := values[0]
		values = make([]float64, n)
		for i := range values {
			values[i] = v
		}
	default:
		return Expr{}, errors.New(errors.ErrCodeShapeMismatch,
			"constant: %d values for a %dx%d matrix", len(values), rows, cols)
	}

	var pos [][2]int
	for i, v := range values {
		if v != 0 {
			pos = append(pos, [2]int{i / cols, i % cols})
		}
	}
	return b.add(&node{
		kind:   KindConstant,
		values: values,
		sp:     sparsity.FromPositions(rows, cols, pos),
	}), nil
}

// Scalar creates a 1×1 constant.
func (b *Builder) Scalar(v float64) Expr {
	return Must(b.Constant([]float64{v}, 1, 1))
}

// Zeros creates an all-zero rows×cols constant with an empty pattern.
func (b *Builder) Zeros(rows, cols int) (Expr, error) {
	return b.Constant([]float64{0}, rows, cols)
}

// =============================================================================
// Operations
// =============================================================================

// Unary applies a unary operation. OpReshape needs a target and must be
// built with [Reshape].
func (b *Builder) Unary(op Op, x Expr) (Expr, error) {
	if op == OpReshape {
		return Expr{}, errors.New(errors.ErrCodeInvalidArgument, "reshape needs a target shape; use Reshape")
	}
	if op.Kind() != KindUnary {
		return Expr{}, errors.New(errors.ErrCodeInvalidArgument, "%s is not a unary operation", op)
	}
	if err := b.owns(x); err != nil {
		return Expr{}, err
	}
	if op == OpTranspose && x.Kind() == KindUnary && x.Op() == OpTranspose {
		return x.Dep(0), nil
	}
	return b.apply(op, []Expr{x})
}

// Nary applies an n-ary operation.
func (b *Builder) Nary(op Op, xs ...Expr) (Expr, error) {
	if op.Kind() != KindNary {
		return Expr{}, errors.New(errors.ErrCodeInvalidArgument, "%s is not an n-ary operation", op)
	}
	if err := b.owns(xs...); err != nil {
		return Expr{}, err
	}
	return b.apply(op, xs)
}

func (b *Builder) apply(op Op, xs []Expr) (Expr, error) {
	if err := checkArity(op, len(xs)); err != nil {
		return Expr{}, err
	}
	shapes := make([]Shape, len(xs))
	patterns := make([]sparsity.Pattern, len(xs))
	for i, x := range xs {
		shapes[i] = x.Shape()
		patterns[i] = x.Sparsity()
	}
	shape, err := resultShape(op, shapes)
	if err != nil {
		return Expr{}, err
	}
	sp, err := b.engine.Propagate(op, patterns)
	if err != nil {
		return Expr{}, err
	}
	if sp.Rows() != shape.Rows || sp.Cols() != shape.Cols {
		return Expr{}, errors.New(errors.ErrCodeShapeMismatch,
			"%s: sparsity engine returned %s for a %dx%d result", op, sp, shape.Rows, shape.Cols)
	}
	return b.add(&node{
		kind:     op.Kind(),
		op:       op,
		children: slices.Clone(xs),
		sp:       sp,
	}), nil
}

// Reshape reinterprets x as rows×cols in column-major order.
func (b *Builder) Reshape(x Expr, rows, cols int) (Expr, error) {
	if err := b.owns(x); err != nil {
		return Expr{}, err
	}
	if err := checkDims(rows, cols); err != nil {
		return Expr{}, err
	}
	if rows*cols != x.Numel() {
		return Expr{}, errors.New(errors.ErrCodeShapeMismatch,
			"reshape: cannot reshape %dx%d to %dx%d", x.Rows(), x.Cols(), rows, cols)
	}
	if x.Rows() == rows && x.Cols() == cols {
		return x, nil
	}
	if x.Kind() == KindUnary && x.Op() == OpReshape {
		return b.Reshape(x.Dep(0), rows, cols)
	}
	return b.add(&node{
		kind:     KindUnary,
		op:       OpReshape,
		children: []Expr{x},
		target:   Shape{Rows: rows, Cols: cols},
		sp:       x.Sparsity().Reshape(rows, cols),
	}), nil
}

// Rebuild re-applies the operation of e to new children of the same count.
// When every child is identical to the current one, e itself is returned.
// Leaves have no children and are returned unchanged.
func (b *Builder) Rebuild(e Expr, children []Expr) (Expr, error) {
	if err := b.owns(e); err != nil {
		return Expr{}, err
	}
	if len(children) != e.NumDeps() {
		return Expr{}, errors.New(errors.ErrCodeInvalidArgument,
			"rebuild: %s node has %d children, got %d", e.Kind(), e.NumDeps(), len(children))
	}
	if slices.EqualFunc(children, e.n.children, Expr.Is) {
		return e, nil
	}
	if err := b.owns(children...); err != nil {
		return Expr{}, err
	}

	switch e.Kind() {
	case KindUnary:
		if e.Op() == OpReshape {
			t := e.Target()
			return b.Reshape(children[0], t.Rows, t.Cols)
		}
		return b.Unary(e.Op(), children[0])
	case KindNary:
		return b.Nary(e.Op(), children...)
	case KindConcat:
		return b.concat(e.Axis(), children)
	case KindSlice:
		if children[0].Shape() != e.Dep(0).Shape() {
			return Expr{}, errors.New(errors.ErrCodeShapeMismatch,
				"rebuild: slice source changed shape from %dx%d to %dx%d",
				e.Dep(0).Rows(), e.Dep(0).Cols(), children[0].Rows(), children[0].Cols())
		}
		return b.slice(children[0], e.Rect())
	case KindCall:
		return b.Call(e.Callee(), children...)
	}
	return e, nil
}
