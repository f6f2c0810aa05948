package sparsity

import "fmt"

// Union returns the positions non-zero in any operand.
// All operands must share one shape.
func Union(ps ...Pattern) Pattern {
	if len(ps) == 0 {
		return Pattern{}
	}
	var idx []int
	for _, p := range ps {
		mustSameShape("union", ps[0], p)
		idx = append(idx, p.nz...)
	}
	return FromIndices(ps[0].rows, ps[0].cols, idx)
}

// Intersect returns the positions non-zero in every operand.
// All operands must share one shape.
func Intersect(ps ...Pattern) Pattern {
	if len(ps) == 0 {
		return Pattern{}
	}
	count := make(map[int]int)
	for _, p := range ps {
		mustSameShape("intersection", ps[0], p)
		for _, k := range p.nz {
			count[k]++
		}
	}
	var idx []int
	for k, n := range count {
		if n == len(ps) {
			idx = append(idx, k)
		}
	}
	return FromIndices(ps[0].rows, ps[0].cols, idx)
}

// Broadcast expands a scalar pattern to rows×cols: a structurally non-zero
// scalar becomes dense, a structural zero stays empty. Non-scalar patterns
// are returned unchanged.
func Broadcast(p Pattern, rows, cols int) Pattern {
	if !p.IsScalar() || (rows == 1 && cols == 1) {
		return p
	}
	if p.IsEmpty() {
		return Empty(rows, cols)
	}
	return Dense(rows, cols)
}

// Product returns the structural pattern of the matrix product a*b.
// It panics unless a.Cols() == b.Rows().
func Product(a, b Pattern) Pattern {
	if a.cols != b.rows {
		panic(fmt.Sprintf("sparsity: product of %dx%d and %dx%d", a.rows, a.cols, b.rows, b.cols))
	}
	colRows := make([][]int, a.cols) // column k of a -> its non-zero rows
	for _, k := range a.nz {
		colRows[k/a.rows] = append(colRows[k/a.rows], k%a.rows)
	}
	var idx []int
	for _, k := range b.nz {
		inner, j := k%b.rows, k/b.rows
		for _, i := range colRows[inner] {
			idx = append(idx, j*a.rows+i)
		}
	}
	return FromIndices(a.rows, b.cols, idx)
}

// Horzcat concatenates patterns left to right. All parts must have the same
// row count.
func Horzcat(ps ...Pattern) Pattern {
	if len(ps) == 0 {
		return Pattern{}
	}
	rows, cols := ps[0].rows, 0
	var idx []int
	for _, p := range ps {
		if p.rows != rows {
			panic(fmt.Sprintf("sparsity: horzcat row mismatch %d vs %d", p.rows, rows))
		}
		off := cols * rows
		for _, k := range p.nz {
			idx = append(idx, k+off)
		}
		cols += p.cols
	}
	return FromIndices(rows, cols, idx)
}

// Vertcat concatenates patterns top to bottom. All parts must have the same
// column count.
func Vertcat(ps ...Pattern) Pattern {
	if len(ps) == 0 {
		return Pattern{}
	}
	cols, rows := ps[0].cols, 0
	for _, p := range ps {
		if p.cols != cols {
			panic(fmt.Sprintf("sparsity: vertcat column mismatch %d vs %d", p.cols, cols))
		}
		rows += p.rows
	}
	var pos [][2]int
	off := 0
	for _, p := range ps {
		for _, rc := range p.Positions() {
			pos = append(pos, [2]int{rc[0] + off, rc[1]})
		}
		off += p.rows
	}
	return FromPositions(rows, cols, pos)
}

// Diagcat places patterns along the diagonal of a block-diagonal pattern.
func Diagcat(ps ...Pattern) Pattern {
	rows, cols := 0, 0
	for _, p := range ps {
		rows += p.rows
		cols += p.cols
	}
	var pos [][2]int
	ro, co := 0, 0
	for _, p := range ps {
		for _, rc := range p.Positions() {
			pos = append(pos, [2]int{rc[0] + ro, rc[1] + co})
		}
		ro += p.rows
		co += p.cols
	}
	return FromPositions(rows, cols, pos)
}
