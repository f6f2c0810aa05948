package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr"
)

func TestSymbols(t *testing.T) {
	b := expr.NewBuilder()
	x := sym(t, b, "x", 1, 1)
	y := sym(t, b, "y", 1, 1)
	z := sym(t, b, "z", 1, 1)
	e := expr.Must(expr.Add(expr.Must(expr.Mul(y, x)), expr.Must(expr.Sin(z)), x))

	assert.Equal(t, []expr.Expr{y, x, z}, Symbols(e))
	assert.Equal(t, []expr.Expr{z, y, x}, Symbols(expr.Must(expr.Sin(z)), e))
	assert.Empty(t, Symbols(b.Scalar(1)))
}

func TestDependsOn(t *testing.T) {
	b := expr.NewBuilder()
	x := sym(t, b, "x", 1, 1)
	z := sym(t, b, "z", 1, 1)
	w := sym(t, b, "w", 1, 1)
	e := expr.Must(expr.Mul(x, expr.Must(expr.Exp(z))))

	tests := []struct {
		name string
		args []expr.Expr
		want bool
	}{
		{"direct", []expr.Expr{x}, true},
		{"nested", []expr.Expr{w, z}, true},
		{"disjoint", []expr.Expr{w}, false},
		{"all symbols", Symbols(e), true},
		{"no args", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DependsOn(e, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DependsOn(e, expr.Must(expr.Exp(z)))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidArgument), "got %v", err)
}
