package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/sparsity"
)

func TestCreateParent(t *testing.T) {
	b := NewBuilder()
	x := sym(t, b, "x", 2, 1)
	a := sym(t, b, "A", 2, 3)
	s := sym(t, b, "s", 1, 1)

	parent, children, err := CreateParent("p", x, a, s)
	require.NoError(t, err)
	assert.True(t, parent.IsSymbolic())
	assert.Equal(t, Shape{9, 1}, parent.Shape())
	require.Len(t, children, 3)
	for i, dep := range []Expr{x, a, s} {
		assert.Equal(t, dep.Shape(), children[i].Shape(), "child %d", i)
	}
	assert.Equal(t, KindSlice, children[0].Kind())
	assert.Equal(t, OpReshape, children[1].Op())
	assert.Equal(t, Rect{R0: 8, R1: 9, C0: 0, C1: 1}, children[2].Rect())
}

func TestCreateParent_Errors(t *testing.T) {
	b := NewBuilder()
	x := sym(t, b, "x", 2, 1)

	_, _, err := CreateParent("p", x, Must(Neg(x)))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument), "got %v", err)

	_, _, err = CreateParent("p")
	assert.True(t, errors.Is(err, errors.ErrCodeEmptyInput), "got %v", err)
}

func TestCreateParentFromPatterns(t *testing.T) {
	b := NewBuilder()

	parent, children, err := b.CreateParentFromPatterns("p", sparsity.Diagonal(2), sparsity.Dense(0, 3), sparsity.Dense(1, 2))
	require.NoError(t, err)
	assert.Equal(t, Shape{6, 1}, parent.Shape())
	assert.Equal(t, 4, parent.Sparsity().NNZ())
	require.Len(t, children, 3)
	assert.True(t, children[0].Sparsity().Equal(sparsity.Diagonal(2)))
	assert.Equal(t, Shape{0, 3}, children[1].Shape())
	assert.Equal(t, Shape{1, 2}, children[2].Shape())
}
