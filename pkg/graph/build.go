package graph

import (
	"slices"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr"
	"github.com/matzehuels/symgraph/pkg/sparsity"
)

// MaxElements bounds the summed rows*cols of all nodes of an imported graph.
const MaxElements = 1 << 24

// ToExprs rebuilds g in b and returns its outputs in order.
//
// Every edge must point from a node to one with a smaller id, so the
// document is acyclic by construction. Call nodes are rejected with
// UNSUPPORTED. Node sizes are checked against MaxElements before anything
// is allocated for them.
func ToExprs(b *expr.Builder, g Graph) ([]expr.Expr, error) {
	nodes := slices.Clone(g.Nodes)
	slices.SortFunc(nodes, func(x, y Node) int {
		switch {
		case x.ID < y.ID:
			return -1
		case x.ID > y.ID:
			return 1
		}
		return 0
	})
	for i := 1; i < len(nodes); i++ {
		if nodes[i].ID == nodes[i-1].ID {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "duplicate node id %d", nodes[i].ID)
		}
	}

	operands, err := operandsOf(g.Edges)
	if err != nil {
		return nil, err
	}

	built := make(map[int64]expr.Expr, len(nodes))
	budget := MaxElements
	for _, n := range nodes {
		slots := operands[n.ID]
		children := make([]expr.Expr, len(slots))
		for i, id := range slots {
			if id >= n.ID {
				return nil, errors.New(errors.ErrCodeInvalidFormat,
					"node %d: operand %d does not precede it", n.ID, id)
			}
			c, ok := built[id]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d: unknown operand %d", n.ID, id)
			}
			children[i] = c
		}
		numel, err := numelOf(n, children)
		if err == nil && numel > budget {
			err = errors.New(errors.ErrCodeInvalidArgument,
				"graph exceeds %d elements", MaxElements)
		}
		var e expr.Expr
		if err == nil {
			budget -= numel
			e, err = buildNode(b, n, children)
		}
		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInvalidFormat
			}
			return nil, errors.Wrap(code, err, "node %d", n.ID)
		}
		built[n.ID] = e
	}

	out := make([]expr.Expr, len(g.Outputs))
	for i, id := range g.Outputs {
		e, ok := built[id]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown output %d", id)
		}
		out[i] = e
	}
	return out, nil
}

// numelOf returns the element count n will have, computed from its
// operands where they determine it. Declared dimensions are used for
// leaves and reshapes only.
func numelOf(n Node, children []expr.Expr) (int, error) {
	dims := func(rows, cols int) (int, error) {
		if rows < 0 || cols < 0 {
			return 0, errors.New(errors.ErrCodeDimension, "negative dimensions %dx%d", rows, cols)
		}
		if rows > 0 && cols > MaxElements/rows {
			return 0, errors.New(errors.ErrCodeInvalidArgument,
				"%dx%d exceeds %d elements", rows, cols, MaxElements)
		}
		return rows * cols, nil
	}

	switch n.Kind {
	case expr.KindUnary.String(), expr.KindNary.String():
		if len(children) == 0 || n.Op == expr.OpReshape.String() {
			break
		}
		if n.Op == expr.OpMatMul.String() && len(children) == 2 {
			return dims(children[0].Rows(), children[1].Cols())
		}
		numel := 1
		for _, c := range children {
			numel = max(numel, c.Numel())
		}
		return numel, nil

	case expr.KindConcat.String():
		rows, cols := 0, 0
		for _, c := range children {
			rows += c.Rows()
			cols += c.Cols()
		}
		switch n.Axis {
		case expr.AxisHorz.String():
			if len(children) > 0 {
				rows = children[0].Rows()
			}
		case expr.AxisVert.String():
			if len(children) > 0 {
				cols = children[0].Cols()
			}
		}
		return dims(rows, cols)

	case expr.KindSlice.String():
		if n.Rect == nil {
			return 0, nil
		}
		return dims(max(n.Rect.R1-n.Rect.R0, 0), max(n.Rect.C1-n.Rect.C0, 0))
	}
	return dims(n.Rows, n.Cols)
}

// operandsOf groups edges by their source node, ordered by slot. Slots must
// be dense from zero.
func operandsOf(edges []Edge) (map[int64][]int64, error) {
	bySlot := make(map[int64]map[int]int64)
	for _, e := range edges {
		m := bySlot[e.From]
		if m == nil {
			m = make(map[int]int64)
			bySlot[e.From] = m
		}
		if _, dup := m[e.Slot]; dup {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d: duplicate slot %d", e.From, e.Slot)
		}
		m[e.Slot] = e.To
	}

	out := make(map[int64][]int64, len(bySlot))
	for from, m := range bySlot {
		ids := make([]int64, len(m))
		for slot, to := range m {
			if slot < 0 || slot >= len(m) {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d: slot %d out of range", from, slot)
			}
			ids[slot] = to
		}
		out[from] = ids
	}
	return out, nil
}

func buildNode(b *expr.Builder, n Node, children []expr.Expr) (expr.Expr, error) {
	arity := func(want int) error {
		if len(children) != want {
			return errors.New(errors.ErrCodeInvalidFormat, "%s node has %d operands, want %d",
				n.Kind, len(children), want)
		}
		return nil
	}

	switch n.Kind {
	case expr.KindSymbol.String():
		if err := arity(0); err != nil {
			return expr.Expr{}, err
		}
		if n.NNZ < n.Rows*n.Cols {
			return b.SymbolWithPattern(n.Label, sparsity.FromIndices(n.Rows, n.Cols, n.NZ))
		}
		return b.Symbol(n.Label, n.Rows, n.Cols)

	case expr.KindConstant.String():
		if err := arity(0); err != nil {
			return expr.Expr{}, err
		}
		return b.Constant(n.Values, n.Rows, n.Cols)

	case expr.KindUnary.String():
		if err := arity(1); err != nil {
			return expr.Expr{}, err
		}
		op, err := parseOp(n.Op)
		if err != nil {
			return expr.Expr{}, err
		}
		if op == expr.OpReshape {
			return expr.Reshape(children[0], n.Rows, n.Cols)
		}
		return b.Unary(op, children[0])

	case expr.KindNary.String():
		op, err := parseOp(n.Op)
		if err != nil {
			return expr.Expr{}, err
		}
		return b.Nary(op, children...)

	case expr.KindConcat.String():
		switch n.Axis {
		case expr.AxisHorz.String():
			return expr.Horzcat(children...)
		case expr.AxisVert.String():
			return expr.Vertcat(children...)
		case expr.AxisDiag.String():
			return expr.Diagcat(children...)
		}
		return expr.Expr{}, errors.New(errors.ErrCodeInvalidFormat, "unknown axis %q", n.Axis)

	case expr.KindSlice.String():
		if err := arity(1); err != nil {
			return expr.Expr{}, err
		}
		if n.Rect == nil {
			return expr.Expr{}, errors.New(errors.ErrCodeInvalidFormat, "slice node without rect")
		}
		return sliceOf(children[0], *n.Rect)

	case expr.KindCall.String():
		return expr.Expr{}, errors.New(errors.ErrCodeUnsupported, "cannot import call to %q", n.Label)
	}
	return expr.Expr{}, errors.New(errors.ErrCodeInvalidFormat, "unknown node kind %q", n.Kind)
}

// sliceOf selects r from x with a row split followed by a column split.
// The split of a split composes into a single slice of x.
func sliceOf(x expr.Expr, r Rect) (expr.Expr, error) {
	if r.R0 >= r.R1 || r.C0 >= r.C1 {
		return expr.Expr{}, errors.New(errors.ErrCodeIndex, "empty block [%d:%d, %d:%d]", r.R0, r.R1, r.C0, r.C1)
	}
	rows, err := expr.Vertsplit(x, offsets(r.R0, r.R1))
	if err != nil {
		return expr.Expr{}, err
	}
	band := rows[0]
	if r.R0 > 0 {
		band = rows[1]
	}
	cols, err := expr.Horzsplit(band, offsets(r.C0, r.C1))
	if err != nil {
		return expr.Expr{}, err
	}
	if r.C0 > 0 {
		return cols[1], nil
	}
	return cols[0], nil
}

// offsets returns the split offsets that isolate [lo, hi) as one group.
func offsets(lo, hi int) []int {
	if lo == 0 {
		return []int{0, hi}
	}
	return []int{0, lo, hi}
}

func parseOp(name string) (expr.Op, error) {
	for op := expr.OpNeg; op.String() != expr.OpNone.String(); op++ {
		if op.String() == name {
			return op, nil
		}
	}
	return expr.OpNone, errors.New(errors.ErrCodeInvalidFormat, "unknown operation %q", name)
}
