package expr

import (
	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/sparsity"
)

func nullOperand(op string) error {
	return errors.New(errors.ErrCodeInvalidArgument, "%s: null expression", op)
}

// =============================================================================
// Concatenation
// =============================================================================

// Horzcat concatenates expressions left to right.
func Horzcat(xs ...Expr) (Expr, error) { return concatOf(AxisHorz, xs) }

// Vertcat concatenates expressions top to bottom.
func Vertcat(xs ...Expr) (Expr, error) { return concatOf(AxisVert, xs) }

// Diagcat places expressions along the diagonal of a block-diagonal matrix.
func Diagcat(xs ...Expr) (Expr, error) { return concatOf(AxisDiag, xs) }

// Veccat vertically concatenates the column-vectorized operands.
func Veccat(xs ...Expr) (Expr, error) {
	vs := make([]Expr, len(xs))
	for i, x := range xs {
		v, err := Vec(x)
		if err != nil {
			return Expr{}, err
		}
		vs[i] = v
	}
	return Vertcat(vs...)
}

func concatOf(axis Axis, xs []Expr) (Expr, error) {
	if len(xs) == 0 {
		return Expr{}, errors.New(errors.ErrCodeEmptyInput, "%s: no operands", axis)
	}
	b, err := builderOf(axis.String(), xs)
	if err != nil {
		return Expr{}, err
	}
	return b.concat(axis, xs)
}

func (b *Builder) concat(axis Axis, xs []Expr) (Expr, error) {
	if len(xs) == 0 {
		return Expr{}, errors.New(errors.ErrCodeEmptyInput, "%s: no operands", axis)
	}
	for i, x := range xs[1:] {
		switch {
		case axis == AxisHorz && x.Rows() != xs[0].Rows():
			return Expr{}, errors.New(errors.ErrCodeShapeMismatch,
				"horzcat: operand %d has %d rows, expected %d", i+1, x.Rows(), xs[0].Rows())
		case axis == AxisVert && x.Cols() != xs[0].Cols():
			return Expr{}, errors.New(errors.ErrCodeShapeMismatch,
				"vertcat: operand %d has %d columns, expected %d", i+1, x.Cols(), xs[0].Cols())
		}
	}
	if len(xs) == 1 {
		return xs[0], nil
	}
	if merged, ok := b.mergeSlices(axis, xs); ok {
		return merged, nil
	}

	patterns := make([]sparsity.Pattern, len(xs))
	for i, x := range xs {
		patterns[i] = x.Sparsity()
	}
	var sp sparsity.Pattern
	switch axis {
	case AxisHorz:
		sp = sparsity.Horzcat(patterns...)
	case AxisVert:
		sp = sparsity.Vertcat(patterns...)
	default:
		sp = sparsity.Diagcat(patterns...)
	}
	children := make([]Expr, len(xs))
	copy(children, xs)
	return b.add(&node{kind: KindConcat, axis: axis, children: children, sp: sp}), nil
}

// mergeSlices recognises a concatenation of adjacent blocks of one source
// and returns the single block they form. This is what makes
// concat(split(x)) return x itself.
func (b *Builder) mergeSlices(axis Axis, xs []Expr) (Expr, bool) {
	src := xs[0]
	if src.Kind() != KindSlice {
		return Expr{}, false
	}
	src = src.Dep(0)
	rects := make([]Rect, len(xs))
	for i, x := range xs {
		if x.Kind() != KindSlice || !x.Dep(0).Is(src) {
			return Expr{}, false
		}
		rects[i] = x.Rect()
	}

	out := rects[0]
	for _, r := range rects[1:] {
		switch axis {
		case AxisHorz:
			if r.R0 != out.R0 || r.R1 != out.R1 || r.C0 != out.C1 {
				return Expr{}, false
			}
			out.C1 = r.C1
		case AxisVert:
			if r.C0 != out.C0 || r.C1 != out.C1 || r.R0 != out.R1 {
				return Expr{}, false
			}
			out.R1 = r.R1
		case AxisDiag:
			if r.R0 != out.R1 || r.C0 != out.C1 {
				return Expr{}, false
			}
			out.R1, out.C1 = r.R1, r.C1
		}
	}

	if axis == AxisDiag {
		// The merged block equals the source region only if everything off
		// the diagonal blocks is structurally zero.
		for _, rc := range src.Sparsity().Positions() {
			if !out.Contains(Rect{R0: rc[0], R1: rc[0] + 1, C0: rc[1], C1: rc[1] + 1}) {
				continue
			}
			inBlock := false
			for _, r := range rects {
				if r.Contains(Rect{R0: rc[0], R1: rc[0] + 1, C0: rc[1], C1: rc[1] + 1}) {
					inBlock = true
					break
				}
			}
			if !inBlock {
				return Expr{}, false
			}
		}
	}

	merged, err := b.slice(src, out)
	if err != nil {
		return Expr{}, false
	}
	return merged, true
}

// =============================================================================
// Splitting
// =============================================================================

// slice returns the block rect of x, reusing existing nodes where possible:
// the whole of x is x itself, a block of a block is a block of the original
// source, and a block lying inside one part of a concatenation is taken from
// that part.
func (b *Builder) slice(x Expr, rect Rect) (Expr, error) {
	full := Rect{R1: x.Rows(), C1: x.Cols()}
	if rect.R0 > rect.R1 || rect.C0 > rect.C1 || !full.Contains(rect) {
		return Expr{}, errors.New(errors.ErrCodeIndex,
			"block [%d:%d, %d:%d] outside %dx%d", rect.R0, rect.R1, rect.C0, rect.C1, x.Rows(), x.Cols())
	}
	if rect == full {
		return x, nil
	}

	switch x.Kind() {
	case KindSlice:
		outer := x.Rect()
		return b.slice(x.Dep(0), Rect{
			R0: outer.R0 + rect.R0, R1: outer.R0 + rect.R1,
			C0: outer.C0 + rect.C0, C1: outer.C0 + rect.C1,
		})
	case KindConcat:
		ro, co := 0, 0
		for _, part := range x.n.children {
			pr := Rect{R0: ro, R1: ro + part.Rows(), C0: co, C1: co + part.Cols()}
			if pr.Contains(rect) {
				return b.slice(part, Rect{
					R0: rect.R0 - ro, R1: rect.R1 - ro,
					C0: rect.C0 - co, C1: rect.C1 - co,
				})
			}
			switch x.Axis() {
			case AxisHorz:
				co += part.Cols()
			case AxisVert:
				ro += part.Rows()
			default:
				ro += part.Rows()
				co += part.Cols()
			}
		}
	}

	return b.add(&node{
		kind:     KindSlice,
		children: []Expr{x},
		rect:     rect,
		sp:       x.Sparsity().Sub(rect.R0, rect.R1, rect.C0, rect.C1),
	}), nil
}

// boundaries validates split offsets for an axis of the given extent and
// returns them with the extent appended when the last group runs to the end.
func boundaries(op string, offsets []int, extent int) ([]int, error) {
	if len(offsets) == 0 {
		return nil, errors.New(errors.ErrCodeIndex, "%s: no offsets", op)
	}
	if offsets[0] != 0 {
		return nil, errors.New(errors.ErrCodeIndex, "%s: first offset must be 0, got %d", op, offsets[0])
	}
	for i, o := range offsets {
		if o < 0 || o > extent {
			return nil, errors.New(errors.ErrCodeIndex, "%s: offset %d outside [0, %d]", op, o, extent)
		}
		if i > 0 && o <= offsets[i-1] {
			return nil, errors.New(errors.ErrCodeIndex, "%s: offsets must be strictly increasing (%d after %d)",
				op, o, offsets[i-1])
		}
	}
	out := make([]int, len(offsets), len(offsets)+1)
	copy(out, offsets)
	// A zero extent still yields one empty group covering x.
	if out[len(out)-1] != extent || len(out) == 1 {
		out = append(out, extent)
	}
	return out, nil
}

// incrOffsets expands a fixed group size into offsets.
func incrOffsets(op string, incr, extent int) ([]int, error) {
	if incr <= 0 {
		return nil, errors.New(errors.ErrCodeIndex, "%s: increment must be positive, got %d", op, incr)
	}
	offsets := []int{0}
	for o := incr; o < extent; o += incr {
		offsets = append(offsets, o)
	}
	return offsets, nil
}

// Horzsplit splits x into column groups starting at offsets. The last group
// runs to the end. Horzcat of the result returns x.
func Horzsplit(x Expr, offsets []int) ([]Expr, error) {
	if x.IsNull() {
		return nil, nullOperand("horzsplit")
	}
	bounds, err := boundaries("horzsplit", offsets, x.Cols())
	if err != nil {
		return nil, err
	}
	out := make([]Expr, len(bounds)-1)
	for i := range out {
		if out[i], err = x.n.b.slice(x, Rect{R1: x.Rows(), C0: bounds[i], C1: bounds[i+1]}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// HorzsplitIncr splits x into groups of incr columns.
func HorzsplitIncr(x Expr, incr int) ([]Expr, error) {
	if x.IsNull() {
		return nil, nullOperand("horzsplit")
	}
	offsets, err := incrOffsets("horzsplit", incr, x.Cols())
	if err != nil {
		return nil, err
	}
	return Horzsplit(x, offsets)
}

// Vertsplit splits x into row groups starting at offsets. The last group
// runs to the end. Vertcat of the result returns x.
func Vertsplit(x Expr, offsets []int) ([]Expr, error) {
	if x.IsNull() {
		return nil, nullOperand("vertsplit")
	}
	bounds, err := boundaries("vertsplit", offsets, x.Rows())
	if err != nil {
		return nil, err
	}
	out := make([]Expr, len(bounds)-1)
	for i := range out {
		if out[i], err = x.n.b.slice(x, Rect{R0: bounds[i], R1: bounds[i+1], C1: x.Cols()}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// VertsplitIncr splits x into groups of incr rows.
func VertsplitIncr(x Expr, incr int) ([]Expr, error) {
	if x.IsNull() {
		return nil, nullOperand("vertsplit")
	}
	offsets, err := incrOffsets("vertsplit", incr, x.Rows())
	if err != nil {
		return nil, err
	}
	return Vertsplit(x, offsets)
}

// =============================================================================
// Block grids
// =============================================================================

// Blockcat builds a matrix from a grid of blocks. Blocks within one block
// row must have equal heights and every block row must have the same total
// width; otherwise the grid is jagged.
func Blockcat(grid [][]Expr) (Expr, error) {
	if len(grid) == 0 {
		return Expr{}, errors.New(errors.ErrCodeEmptyInput, "blockcat: no block rows")
	}
	width := -1
	rows := make([]Expr, len(grid))
	for i, row := range grid {
		if len(row) == 0 {
			return Expr{}, errors.New(errors.ErrCodeEmptyInput, "blockcat: block row %d is empty", i)
		}
		w := 0
		for j, blk := range row {
			if blk.IsNull() {
				return Expr{}, nullOperand("blockcat")
			}
			if blk.Rows() != row[0].Rows() {
				return Expr{}, errors.New(errors.ErrCodeDimension,
					"blockcat: block (%d,%d) has %d rows, expected %d", i, j, blk.Rows(), row[0].Rows())
			}
			w += blk.Cols()
		}
		if width >= 0 && w != width {
			return Expr{}, errors.New(errors.ErrCodeDimension,
				"blockcat: block row %d is %d columns wide, expected %d", i, w, width)
		}
		width = w

		r, err := Horzcat(row...)
		if err != nil {
			return Expr{}, err
		}
		rows[i] = r
	}
	return Vertcat(rows...)
}

// Blockcat4 builds the 2×2 block matrix [a b; c d].
func Blockcat4(a, b, c, d Expr) (Expr, error) {
	return Blockcat([][]Expr{{a, b}, {c, d}})
}

// Blocksplit chops x into a grid of blocks at the given row and column
// offsets. Blockcat of the result returns x.
func Blocksplit(x Expr, rowOffsets, colOffsets []int) ([][]Expr, error) {
	if x.IsNull() {
		return nil, nullOperand("blocksplit")
	}
	rb, err := boundaries("blocksplit", rowOffsets, x.Rows())
	if err != nil {
		return nil, err
	}
	cb, err := boundaries("blocksplit", colOffsets, x.Cols())
	if err != nil {
		return nil, err
	}
	grid := make([][]Expr, len(rb)-1)
	for i := range grid {
		grid[i] = make([]Expr, len(cb)-1)
		for j := range grid[i] {
			grid[i][j], err = x.n.b.slice(x, Rect{R0: rb[i], R1: rb[i+1], C0: cb[j], C1: cb[j+1]})
			if err != nil {
				return nil, err
			}
		}
	}
	return grid, nil
}

// BlocksplitIncr chops x into blocks of rowIncr×colIncr.
func BlocksplitIncr(x Expr, rowIncr, colIncr int) ([][]Expr, error) {
	if x.IsNull() {
		return nil, nullOperand("blocksplit")
	}
	ro, err := incrOffsets("blocksplit", rowIncr, x.Rows())
	if err != nil {
		return nil, err
	}
	co, err := incrOffsets("blocksplit", colIncr, x.Cols())
	if err != nil {
		return nil, err
	}
	return Blocksplit(x, ro, co)
}

// Diagsplit returns the diagonal blocks of x delimited by independent row
// and column offsets of equal length. Everything outside the diagonal
// blocks must be structurally zero, so that Diagcat of the result is x.
func Diagsplit(x Expr, rowOffsets, colOffsets []int) ([]Expr, error) {
	if x.IsNull() {
		return nil, nullOperand("diagsplit")
	}
	if len(rowOffsets) != len(colOffsets) {
		return nil, errors.New(errors.ErrCodeDimension,
			"diagsplit: %d row offsets but %d column offsets", len(rowOffsets), len(colOffsets))
	}
	rb, err := boundaries("diagsplit", rowOffsets, x.Rows())
	if err != nil {
		return nil, err
	}
	cb, err := boundaries("diagsplit", colOffsets, x.Cols())
	if err != nil {
		return nil, err
	}
	if len(rb) != len(cb) {
		return nil, errors.New(errors.ErrCodeDimension,
			"diagsplit: %d row groups but %d column groups", len(rb)-1, len(cb)-1)
	}

	blocks := make([]Rect, len(rb)-1)
	for i := range blocks {
		blocks[i] = Rect{R0: rb[i], R1: rb[i+1], C0: cb[i], C1: cb[i+1]}
	}
	for _, rc := range x.Sparsity().Positions() {
		cell := Rect{R0: rc[0], R1: rc[0] + 1, C0: rc[1], C1: rc[1] + 1}
		inBlock := false
		for _, r := range blocks {
			if r.Contains(cell) {
				inBlock = true
				break
			}
		}
		if !inBlock {
			return nil, errors.New(errors.ErrCodeDimension,
				"diagsplit: non-zero at (%d,%d) lies outside the diagonal blocks", rc[0], rc[1])
		}
	}

	out := make([]Expr, len(blocks))
	for i, r := range blocks {
		if out[i], err = x.n.b.slice(x, r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DiagsplitIncr returns diagonal blocks of rowIncr×colIncr.
func DiagsplitIncr(x Expr, rowIncr, colIncr int) ([]Expr, error) {
	if x.IsNull() {
		return nil, nullOperand("diagsplit")
	}
	ro, err := incrOffsets("diagsplit", rowIncr, x.Rows())
	if err != nil {
		return nil, err
	}
	co, err := incrOffsets("diagsplit", colIncr, x.Cols())
	if err != nil {
		return nil, err
	}
	return Diagsplit(x, ro, co)
}
