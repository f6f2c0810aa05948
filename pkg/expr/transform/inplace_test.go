package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr"
)

func TestSubstituteInPlace_Forward(t *testing.T) {
	b := expr.NewBuilder()
	a := sym(t, b, "a", 1, 1)
	bb := sym(t, b, "b", 1, 1)
	one, two := b.Scalar(1), b.Scalar(2)

	v := []expr.Expr{a, bb}
	vdef := []expr.Expr{expr.Must(expr.Add(bb, one)), expr.Must(expr.Mul(a, two))}
	orig := append([]expr.Expr(nil), vdef...)

	newVdef, newEx, err := SubstituteInPlace(v, vdef, nil, false)
	require.NoError(t, err)
	assert.Empty(t, newEx)
	assert.True(t, newVdef[0].Is(vdef[0]))
	assert.True(t, newVdef[1].Is(expr.Must(expr.Mul(vdef[0], two))), "got %s", newVdef[1])
	assert.Equal(t, "((b+1)*2)", newVdef[1].String())

	for i := range vdef {
		assert.True(t, vdef[i].Is(orig[i]), "caller slice modified at %d", i)
	}
}

func TestSubstituteInPlace_Reverse(t *testing.T) {
	b := expr.NewBuilder()
	x := sym(t, b, "x", 1, 1)
	a := sym(t, b, "a", 1, 1)
	bb := sym(t, b, "b", 1, 1)

	v := []expr.Expr{a, bb}
	vdef := []expr.Expr{
		expr.Must(expr.Add(x, b.Scalar(1))),
		expr.Must(expr.Mul(a, b.Scalar(2))),
	}
	ex := []expr.Expr{expr.Must(expr.Add(bb, a))}

	newVdef, newEx, err := SubstituteInPlace(v, vdef, ex, true)
	require.NoError(t, err)
	assert.Equal(t, "(((x+1)*2)+(x+1))", newEx[0].String())
	assert.Equal(t, []expr.Expr{x}, Symbols(newEx[0]))
	assert.True(t, newVdef[1].Is(vdef[1]), "reverse mode never rewrites the last definition")
}

func TestSubstituteInPlace_ForwardIntoExpressions(t *testing.T) {
	b := expr.NewBuilder()
	x := sym(t, b, "x", 2, 1)
	a := sym(t, b, "a", 2, 1)
	c := sym(t, b, "c", 2, 1)

	v := []expr.Expr{a, c}
	vdef := []expr.Expr{expr.Must(expr.Sin(x)), expr.Must(expr.Cos(a))}
	ex := []expr.Expr{expr.Must(expr.Add(a, c))}

	_, newEx, err := SubstituteInPlace(v, vdef, ex, false)
	require.NoError(t, err)
	assert.Equal(t, "(sin(x)+cos(sin(x)))", newEx[0].String())
}

func TestSubstituteInPlace_Cyclic(t *testing.T) {
	b := expr.NewBuilder()
	a := sym(t, b, "a", 1, 1)

	_, _, err := SubstituteInPlace([]expr.Expr{a}, []expr.Expr{expr.Must(expr.Add(a, b.Scalar(1)))}, nil, false)
	assert.True(t, errors.Is(err, errors.ErrCodeCyclicDependency), "got %v", err)

	_, _, err = SubstituteInPlace([]expr.Expr{a}, []expr.Expr{a}, nil, true)
	assert.True(t, errors.Is(err, errors.ErrCodeCyclicDependency), "got %v", err)
}

func TestSubstituteInPlace_Errors(t *testing.T) {
	b := expr.NewBuilder()
	a := sym(t, b, "a", 1, 1)
	s := expr.Must(expr.Sin(a))

	_, _, err := SubstituteInPlace([]expr.Expr{s}, []expr.Expr{a}, nil, false)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument), "got %v", err)

	_, _, err = SubstituteInPlace([]expr.Expr{a}, nil, nil, false)
	assert.True(t, errors.Is(err, errors.ErrCodeDimension), "got %v", err)
}
