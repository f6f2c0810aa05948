package sparsity

import (
	"slices"
	"testing"
)

func TestUnionIntersect(t *testing.T) {
	a := FromPositions(2, 2, [][2]int{{0, 0}, {1, 0}})
	b := FromPositions(2, 2, [][2]int{{1, 0}, {1, 1}})

	if got := Union(a, b); got.NNZ() != 3 || got.Has(0, 1) {
		t.Errorf("Union() = %v, want 3 non-zeros without (0,1)", got.Positions())
	}
	if got := Intersect(a, b); !slices.Equal(got.Positions(), [][2]int{{1, 0}}) {
		t.Errorf("Intersect() = %v, want [(1,0)]", got.Positions())
	}
}

func TestUnionPanicsOnShapeMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Union() of different shapes should panic")
		}
	}()
	Union(Dense(2, 2), Dense(2, 3))
}

func TestBroadcast(t *testing.T) {
	tests := []struct {
		name string
		in   Pattern
		want Pattern
	}{
		{"nonzero scalar", Scalar(), Dense(2, 3)},
		{"zero scalar", Empty(1, 1), Empty(2, 3)},
		{"matrix unchanged", Diagonal(2), Diagonal(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c := tt.want.Shape()
			if got := Broadcast(tt.in, r, c); !got.Equal(tt.want) {
				t.Errorf("Broadcast() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProduct(t *testing.T) {
	// Diagonal times a single column keeps only the matching row.
	col := FromPositions(3, 1, [][2]int{{1, 0}})
	got := Product(Diagonal(3), col)
	if !got.Equal(col) {
		t.Errorf("Product(I, e1) = %v, want %v", got.Positions(), col.Positions())
	}

	// Outer product of dense vectors is dense.
	outer := Product(Dense(3, 1), Dense(1, 2))
	if r, c := outer.Shape(); r != 3 || c != 2 || !outer.IsDense() {
		t.Errorf("Product(3x1, 1x2) = %v, want 3x2 dense", outer)
	}
}

func TestConcatenation(t *testing.T) {
	a := Diagonal(2)
	b := Dense(2, 1)

	h := Horzcat(a, b)
	if r, c := h.Shape(); r != 2 || c != 3 || h.NNZ() != 4 {
		t.Errorf("Horzcat() = %v, want 2x3 with 4 nnz", h)
	}
	if !h.Sub(0, 2, 0, 2).Equal(a) || !h.Sub(0, 2, 2, 3).Equal(b) {
		t.Error("Horzcat() parts should be recoverable with Sub()")
	}

	v := Vertcat(a, b.Transpose().Reshape(1, 2))
	if r, c := v.Shape(); r != 3 || c != 2 || v.NNZ() != 4 {
		t.Errorf("Vertcat() = %v, want 3x2 with 4 nnz", v)
	}

	d := Diagcat(Dense(1, 1), Dense(2, 2))
	if !d.Equal(FromPositions(3, 3, [][2]int{{0, 0}, {1, 1}, {2, 1}, {1, 2}, {2, 2}})) {
		t.Errorf("Diagcat() = %v", d.Positions())
	}
}
