package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr"
)

func sym(t *testing.T, b *expr.Builder, name string, rows, cols int) expr.Expr {
	t.Helper()
	x, err := b.Symbol(name, rows, cols)
	require.NoError(t, err)
	return x
}

func TestSubstitute(t *testing.T) {
	b := expr.NewBuilder()
	x := sym(t, b, "x", 2, 1)
	y := sym(t, b, "y", 2, 1)
	z := sym(t, b, "z", 2, 1)
	sz := expr.Must(expr.Sin(z))
	e := expr.Must(expr.Add(sz, x))

	got, err := Substitute(e, x, y)
	require.NoError(t, err)
	assert.Equal(t, e.Shape(), got.Shape())
	assert.True(t, got.Is(expr.Must(expr.Add(sz, y))))
	assert.True(t, got.Dep(0).Is(sz), "unchanged subgraph keeps its identity")
}

func TestSubstitute_SelfIsNoop(t *testing.T) {
	b := expr.NewBuilder()
	x := sym(t, b, "x", 1, 1)
	e := expr.Must(expr.Mul(expr.Must(expr.Exp(x)), x))

	got, err := Substitute(e, x, x)
	require.NoError(t, err)
	assert.True(t, got.Is(e))
}

func TestSubstituteAll_Simultaneous(t *testing.T) {
	b := expr.NewBuilder()
	x := sym(t, b, "x", 1, 1)
	y := sym(t, b, "y", 1, 1)
	two := b.Scalar(2)
	e := expr.Must(expr.Add(x, expr.Must(expr.Mul(y, two))))

	got, err := SubstituteAll([]expr.Expr{e}, []expr.Expr{x, y}, []expr.Expr{y, x})
	require.NoError(t, err)
	want := expr.Must(expr.Add(y, expr.Must(expr.Mul(x, two))))
	assert.True(t, got[0].Is(want), "got %s, want %s", got[0], want)
}

func TestSubstituteAll_SharedAcrossOutputs(t *testing.T) {
	b := expr.NewBuilder()
	x := sym(t, b, "x", 3, 1)
	w := sym(t, b, "w", 3, 1)
	s := expr.Must(expr.Sin(x))
	e1 := expr.Must(expr.Add(s, x))
	e2 := expr.Must(expr.Mul(s, s))

	got, err := SubstituteAll([]expr.Expr{e1, e2}, []expr.Expr{x}, []expr.Expr{w})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Dep(0).Is(got[1].Dep(0)), "shared node is rewritten once")
	assert.True(t, got[1].Dep(0).Is(got[1].Dep(1)))
}

func TestSubstitute_NoBlowUpOnSharedChains(t *testing.T) {
	b := expr.NewBuilder()
	x := sym(t, b, "x", 1, 1)
	y := sym(t, b, "y", 1, 1)
	e := x
	for range 60 {
		e = expr.Must(expr.Add(e, e))
	}
	require.Equal(t, 61, CountNodes(e))

	got, err := Substitute(e, x, y)
	require.NoError(t, err)
	assert.Equal(t, 61, CountNodes(got))
	assert.Equal(t, []expr.Expr{y}, Symbols(got))
}

func TestSubstitute_Errors(t *testing.T) {
	b := expr.NewBuilder()
	x := sym(t, b, "x", 2, 1)
	y := sym(t, b, "y", 3, 1)
	e := expr.Must(expr.Sin(x))
	other := sym(t, expr.NewBuilder(), "o", 2, 1)

	tests := []struct {
		name string
		v    []expr.Expr
		vdef []expr.Expr
		code errors.Code
	}{
		{"non-symbol variable", []expr.Expr{e}, []expr.Expr{x}, errors.ErrCodeInvalidArgument},
		{"length mismatch", []expr.Expr{x}, nil, errors.ErrCodeDimension},
		{"shape mismatch", []expr.Expr{x}, []expr.Expr{y}, errors.ErrCodeShapeMismatch},
		{"repeated variable", []expr.Expr{x, x}, []expr.Expr{x, x}, errors.ErrCodeInvalidArgument},
		{"foreign builder", []expr.Expr{x}, []expr.Expr{other}, errors.ErrCodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SubstituteAll([]expr.Expr{e}, tt.v, tt.vdef)
			assert.True(t, errors.Is(err, tt.code), "got %v, want %s", err, tt.code)
		})
	}
}

func TestGraphSubstitute(t *testing.T) {
	b := expr.NewBuilder()
	x := sym(t, b, "x", 1, 1)
	s := expr.Must(expr.Sin(x))
	c := expr.Must(expr.Cos(x))
	e := expr.Must(expr.Add(expr.Must(expr.Mul(s, x)), s))

	got, err := GraphSubstitute([]expr.Expr{e}, []expr.Expr{s}, []expr.Expr{c})
	require.NoError(t, err)
	want := expr.Must(expr.Add(expr.Must(expr.Mul(c, x)), c))
	assert.True(t, got[0].Is(want), "got %s", got[0])
}

func TestCreateParent_SubstitutionRoundTrip(t *testing.T) {
	b := expr.NewBuilder()
	x := sym(t, b, "x", 2, 1)
	a := sym(t, b, "A", 2, 2)
	e := expr.Must(expr.Add(expr.Must(expr.MatMul(a, x)), expr.Must(expr.Sin(x))))

	parent, children, err := expr.CreateParent("p", x, a)
	require.NoError(t, err)

	packed, err := SubstituteAll([]expr.Expr{e}, []expr.Expr{x, a}, children)
	require.NoError(t, err)
	assert.Equal(t, []expr.Expr{parent}, Symbols(packed[0]))

	restored, err := Substitute(packed[0], parent, expr.Must(expr.Veccat(x, a)))
	require.NoError(t, err)
	assert.True(t, restored.Is(e), "got %s, want %s", restored, e)
}
