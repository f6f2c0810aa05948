package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/sparsity"
)

func TestVertsplit_OfVertcatReturnsParts(t *testing.T) {
	b := NewBuilder()
	x := sym(t, b, "x", 3, 1)
	y := Must(Vertcat(x, x))
	require.Equal(t, Shape{Rows: 6, Cols: 1}, y.Shape())

	parts, err := Vertsplit(y, []int{0, 3, 6})
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.True(t, parts[0].Is(x))
	assert.True(t, parts[1].Is(x))
}

func TestSplitConcatRoundTrip(t *testing.T) {
	b := NewBuilder()
	x := sym(t, b, "x", 5, 6)

	tests := []struct {
		name  string
		split func() ([]Expr, error)
		join  func(...Expr) (Expr, error)
		n     int
	}{
		{"horzsplit", func() ([]Expr, error) { return Horzsplit(x, []int{0, 2, 3}) }, Horzcat, 3},
		{"horzsplit full", func() ([]Expr, error) { return Horzsplit(x, []int{0, 6}) }, Horzcat, 1},
		{"horzsplit incr", func() ([]Expr, error) { return HorzsplitIncr(x, 4) }, Horzcat, 2},
		{"vertsplit", func() ([]Expr, error) { return Vertsplit(x, []int{0, 1, 4}) }, Vertcat, 3},
		{"vertsplit incr", func() ([]Expr, error) { return VertsplitIncr(x, 2) }, Vertcat, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, err := tt.split()
			require.NoError(t, err)
			assert.Len(t, parts, tt.n)
			joined, err := tt.join(parts...)
			require.NoError(t, err)
			assert.True(t, joined.Is(x), "join(split(x)) = %s", joined)
		})
	}
}

func TestSplit_PartShapes(t *testing.T) {
	b := NewBuilder()
	x := sym(t, b, "x", 5, 2)

	parts, err := VertsplitIncr(x, 2)
	require.NoError(t, err)
	require.Len(t, parts, 3)
	assert.Equal(t, Shape{2, 2}, parts[0].Shape())
	assert.Equal(t, Shape{2, 2}, parts[1].Shape())
	assert.Equal(t, Shape{1, 2}, parts[2].Shape())
	assert.Equal(t, Rect{R0: 4, R1: 5, C0: 0, C1: 2}, parts[2].Rect())
}

func TestSplit_SliceOfSliceComposes(t *testing.T) {
	b := NewBuilder()
	x := sym(t, b, "x", 6, 1)

	top := split(t)(Vertsplit(x, []int{0, 4}))[0]
	inner, err := Vertsplit(top, []int{0, 2})
	require.NoError(t, err)
	assert.True(t, inner[1].Dep(0).Is(x))
	assert.Equal(t, Rect{R0: 2, R1: 4, C0: 0, C1: 1}, inner[1].Rect())
}

func TestSplit_ZeroExtent(t *testing.T) {
	b := NewBuilder()
	wide := sym(t, b, "x", 3, 0)
	tall := sym(t, b, "y", 0, 2)

	cols := split(t)(Horzsplit(wide, []int{0}))
	require.Len(t, cols, 1)
	assert.True(t, cols[0].Is(wide))
	assert.True(t, Must(Horzcat(cols...)).Is(wide))

	rows := split(t)(VertsplitIncr(tall, 2))
	require.Len(t, rows, 1)
	assert.True(t, Must(Vertcat(rows...)).Is(tall))

	empty := sym(t, b, "z", 0, 0)
	diag := split(t)(Diagsplit(empty, []int{0}, []int{0}))
	require.Len(t, diag, 1)
	assert.True(t, Must(Diagcat(diag...)).Is(empty))
}

func TestSplit_InvalidOffsets(t *testing.T) {
	b := NewBuilder()
	x := sym(t, b, "x", 6, 1)

	tests := []struct {
		name    string
		offsets []int
	}{
		{"empty", nil},
		{"not starting at zero", []int{1, 3}},
		{"decreasing", []int{0, 4, 2}},
		{"repeated", []int{0, 2, 2}},
		{"beyond extent", []int{0, 7}},
		{"negative", []int{0, -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Vertsplit(x, tt.offsets)
			assert.True(t, errors.Is(err, errors.ErrCodeIndex), "got %v", err)
		})
	}

	_, err := HorzsplitIncr(x, 0)
	assert.True(t, errors.Is(err, errors.ErrCodeIndex), "got %v", err)
}

func TestConcat_Errors(t *testing.T) {
	b := NewBuilder()
	x := sym(t, b, "x", 3, 1)
	y := sym(t, b, "y", 2, 1)

	_, err := Horzcat()
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyInput), "got %v", err)

	_, err = Horzcat(x, y)
	assert.True(t, errors.Is(err, errors.ErrCodeShapeMismatch), "got %v", err)

	_, err = Vertcat(x, Must(Transpose(y)))
	assert.True(t, errors.Is(err, errors.ErrCodeShapeMismatch), "got %v", err)

	assert.True(t, Must(Diagcat(x)).Is(x), "single operand is returned unchanged")
}

func TestConcat_Sparsity(t *testing.T) {
	b := NewBuilder()
	d, err := b.SymbolWithPattern("d", sparsity.Diagonal(2))
	require.NoError(t, err)
	x := sym(t, b, "x", 1, 1)

	dc := Must(Diagcat(d, x))
	assert.Equal(t, Shape{3, 3}, dc.Shape())
	assert.Equal(t, 3, dc.Sparsity().NNZ())
	assert.Equal(t, AxisDiag, dc.Axis())
}

func TestBlockcat_RoundTrip(t *testing.T) {
	b := NewBuilder()
	a := sym(t, b, "a", 2, 2)
	bb := sym(t, b, "b", 2, 1)
	c := sym(t, b, "c", 1, 2)
	d := sym(t, b, "d", 1, 1)

	m, err := Blockcat4(a, bb, c, d)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 3}, m.Shape())

	grid, err := Blocksplit(m, []int{0, 2}, []int{0, 2})
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.True(t, grid[0][0].Is(a))
	assert.True(t, grid[0][1].Is(bb))
	assert.True(t, grid[1][0].Is(c))
	assert.True(t, grid[1][1].Is(d))
}

func TestBlocksplit_RoundTrip(t *testing.T) {
	b := NewBuilder()
	x := sym(t, b, "x", 3, 4)

	grid, err := Blocksplit(x, []int{0, 1}, []int{0, 2})
	require.NoError(t, err)
	assert.True(t, Must(Blockcat(grid)).Is(x))

	grid, err = BlocksplitIncr(x, 2, 3)
	require.NoError(t, err)
	require.Len(t, grid, 2)
	require.Len(t, grid[0], 2)
	assert.Equal(t, Shape{1, 1}, grid[1][1].Shape())
	assert.True(t, Must(Blockcat(grid)).Is(x))
}

func TestBlockcat_Errors(t *testing.T) {
	b := NewBuilder()
	a := sym(t, b, "a", 2, 2)
	c := sym(t, b, "c", 1, 3)
	e := sym(t, b, "e", 1, 2)

	_, err := Blockcat(nil)
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyInput), "got %v", err)

	_, err = Blockcat([][]Expr{{a}, {}})
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyInput), "got %v", err)

	_, err = Blockcat([][]Expr{{a}, {c}})
	assert.True(t, errors.Is(err, errors.ErrCodeDimension), "jagged widths: got %v", err)

	_, err = Blockcat([][]Expr{{a, e}})
	assert.True(t, errors.Is(err, errors.ErrCodeDimension), "jagged heights: got %v", err)
}

func TestDiagsplit(t *testing.T) {
	b := NewBuilder()
	a := sym(t, b, "a", 2, 2)
	d := sym(t, b, "d", 1, 3)

	m := Must(Diagcat(a, d))
	parts, err := Diagsplit(m, []int{0, 2}, []int{0, 2})
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.True(t, parts[0].Is(a))
	assert.True(t, parts[1].Is(d))

	// A block-diagonal symbol splits into slices that concatenate back to it.
	p := sparsity.Diagcat(sparsity.Dense(2, 2), sparsity.Dense(1, 1))
	x, err := b.SymbolWithPattern("x", p)
	require.NoError(t, err)
	blocks, err := DiagsplitIncr(x, 2, 2)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.True(t, Must(Diagcat(blocks...)).Is(x))
}

func TestDiagsplit_Errors(t *testing.T) {
	b := NewBuilder()
	x := sym(t, b, "x", 4, 4)

	_, err := Diagsplit(x, []int{0, 2}, []int{0})
	assert.True(t, errors.Is(err, errors.ErrCodeDimension), "got %v", err)

	_, err = Diagsplit(x, []int{0, 2}, []int{0, 2})
	assert.True(t, errors.Is(err, errors.ErrCodeDimension), "dense source: got %v", err)
}

func TestVeccat(t *testing.T) {
	b := NewBuilder()
	x := sym(t, b, "x", 3, 1)
	a := sym(t, b, "A", 2, 2)

	v, err := Veccat(x, a)
	require.NoError(t, err)
	assert.Equal(t, Shape{7, 1}, v.Shape())
	assert.True(t, v.Dep(0).Is(x), "column vectors are not reshaped")
}
