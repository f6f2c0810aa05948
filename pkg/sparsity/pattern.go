package sparsity

import (
	"fmt"
	"slices"
	"strings"
)

// Pattern is an immutable structural sparsity pattern.
//
// The zero value is a 0×0 pattern.
type Pattern struct {
	rows, cols int
	nz         []int // sorted column-major linear indices
}

// mustDims panics on negative dimensions.
func mustDims(rows, cols int) {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("sparsity: negative dimensions %dx%d", rows, cols))
	}
}

// FromIndices creates a pattern from column-major linear indices.
// Duplicates are removed and indices outside [0, rows*cols) are ignored.
// It panics on negative dimensions.
func FromIndices(rows, cols int, idx []int) Pattern {
	mustDims(rows, cols)
	n := rows * cols
	nz := make([]int, 0, len(idx))
	for _, k := range idx {
		if k >= 0 && k < n {
			nz = append(nz, k)
		}
	}
	slices.Sort(nz)
	return Pattern{rows: rows, cols: cols, nz: slices.Compact(nz)}
}

// FromPositions creates a pattern from (row, col) pairs.
func FromPositions(rows, cols int, pos [][2]int) Pattern {
	mustDims(rows, cols)
	idx := make([]int, 0, len(pos))
	for _, p := range pos {
		if p[0] < 0 || p[0] >= rows || p[1] < 0 || p[1] >= cols {
			continue
		}
		idx = append(idx, p[1]*rows+p[0])
	}
	return FromIndices(rows, cols, idx)
}

// Dense returns a pattern where every position is non-zero.
func Dense(rows, cols int) Pattern {
	mustDims(rows, cols)
	nz := make([]int, rows*cols)
	for i := range nz {
		nz[i] = i
	}
	return Pattern{rows: rows, cols: cols, nz: nz}
}

// Empty returns a pattern with no structural non-zeros.
func Empty(rows, cols int) Pattern {
	mustDims(rows, cols)
	return Pattern{rows: rows, cols: cols}
}

// Scalar returns the dense 1×1 pattern.
func Scalar() Pattern { return Dense(1, 1) }

// Diagonal returns the n×n pattern with non-zeros on the main diagonal.
func Diagonal(n int) Pattern {
	nz := make([]int, n)
	for i := range nz {
		nz[i] = i*n + i
	}
	return Pattern{rows: n, cols: n, nz: nz}
}

// Rows returns the number of rows.
func (p Pattern) Rows() int { return p.rows }

// Cols returns the number of columns.
func (p Pattern) Cols() int { return p.cols }

// Shape returns (rows, cols).
func (p Pattern) Shape() (int, int) { return p.rows, p.cols }

// Numel returns rows*cols.
func (p Pattern) Numel() int { return p.rows * p.cols }

// NNZ returns the number of structural non-zeros.
func (p Pattern) NNZ() int { return len(p.nz) }

// IsDense reports whether every position is non-zero.
func (p Pattern) IsDense() bool { return len(p.nz) == p.Numel() }

// IsEmpty reports whether the pattern has no structural non-zeros.
func (p Pattern) IsEmpty() bool { return len(p.nz) == 0 }

// IsScalar reports whether the pattern is 1×1.
func (p Pattern) IsScalar() bool { return p.rows == 1 && p.cols == 1 }

// Has reports whether (row, col) is a structural non-zero.
func (p Pattern) Has(row, col int) bool {
	if row < 0 || row >= p.rows || col < 0 || col >= p.cols {
		return false
	}
	_, ok := slices.BinarySearch(p.nz, col*p.rows+row)
	return ok
}

// Indices returns a copy of the sorted column-major linear indices.
func (p Pattern) Indices() []int { return slices.Clone(p.nz) }

// Positions returns the non-zero positions as (row, col) pairs in
// column-major order.
func (p Pattern) Positions() [][2]int {
	pos := make([][2]int, len(p.nz))
	for i, k := range p.nz {
		pos[i] = [2]int{k % p.rows, k / p.rows}
	}
	return pos
}

// Equal reports whether two patterns have the same shape and non-zeros.
func (p Pattern) Equal(o Pattern) bool {
	return p.rows == o.rows && p.cols == o.cols && slices.Equal(p.nz, o.nz)
}

// String returns a compact description such as "3x2 (4 nnz)" or "3x2 dense".
func (p Pattern) String() string {
	if p.IsDense() {
		return fmt.Sprintf("%dx%d dense", p.rows, p.cols)
	}
	return fmt.Sprintf("%dx%d (%d nnz)", p.rows, p.cols, len(p.nz))
}

// Render draws the pattern as a grid of '*' (non-zero) and '.' (zero).
func (p Pattern) Render() string {
	var b strings.Builder
	for r := 0; r < p.rows; r++ {
		for c := 0; c < p.cols; c++ {
			if p.Has(r, c) {
				b.WriteByte('*')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Transpose returns the transposed pattern.
func (p Pattern) Transpose() Pattern {
	idx := make([]int, len(p.nz))
	for i, k := range p.nz {
		r, c := k%p.rows, k/p.rows
		idx[i] = r*p.cols + c
	}
	return FromIndices(p.cols, p.rows, idx)
}

// Reshape reinterprets the pattern with a new shape of equal numel, keeping
// column-major order. It panics if the element counts differ.
func (p Pattern) Reshape(rows, cols int) Pattern {
	if rows*cols != p.Numel() {
		panic(fmt.Sprintf("sparsity: cannot reshape %dx%d to %dx%d", p.rows, p.cols, rows, cols))
	}
	return Pattern{rows: rows, cols: cols, nz: slices.Clone(p.nz)}
}

// Sub returns the sub-pattern of rows [r0, r1) and columns [c0, c1).
func (p Pattern) Sub(r0, r1, c0, c1 int) Pattern {
	rows, cols := r1-r0, c1-c0
	var idx []int
	for _, k := range p.nz {
		r, c := k%p.rows, k/p.rows
		if r >= r0 && r < r1 && c >= c0 && c < c1 {
			idx = append(idx, (c-c0)*rows+(r-r0))
		}
	}
	return FromIndices(rows, cols, idx)
}

func mustSameShape(op string, a, b Pattern) {
	if a.rows != b.rows || a.cols != b.cols {
		panic(fmt.Sprintf("sparsity: %s of %dx%d and %dx%d", op, a.rows, a.cols, b.rows, b.cols))
	}
}
