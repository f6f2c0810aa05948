package expr

import (
	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/sparsity"
)

// SparsityEngine computes the result pattern of a unary or n-ary operation
// from its operand patterns. It is a pure function of its inputs; operand
// shapes have already been validated when it is called.
//
// Block operations (concatenation, slicing, reshape) are purely structural
// and do not go through the engine.
type SparsityEngine interface {
	Propagate(op Op, operands []sparsity.Pattern) (sparsity.Pattern, error)
}

// StructuralEngine is the default [SparsityEngine]:
//
//   - zero-preserving unary ops keep the pattern, others are dense
//   - transpose transposes the pattern
//   - add and sub take the union, mul the intersection, div the numerator
//   - mtimes takes the structural product
//
// Scalar operands of elementwise ops are broadcast first.
type StructuralEngine struct{}

// Propagate implements [SparsityEngine].
func (StructuralEngine) Propagate(op Op, operands []sparsity.Pattern) (sparsity.Pattern, error) {
	switch op {
	case OpTranspose:
		return operands[0].Transpose(), nil
	case OpMatMul:
		return sparsity.Product(operands[0], operands[1]), nil
	}

	if op.Kind() == KindUnary {
		x := operands[0]
		if op.ZeroPreserving() {
			return x, nil
		}
		return sparsity.Dense(x.Rows(), x.Cols()), nil
	}

	rows, cols := 1, 1
	for _, p := range operands {
		if !p.IsScalar() {
			rows, cols = p.Shape()
			break
		}
	}
	in := make([]sparsity.Pattern, len(operands))
	for i, p := range operands {
		in[i] = sparsity.Broadcast(p, rows, cols)
	}

	switch op {
	case OpAdd, OpSub:
		return sparsity.Union(in...), nil
	case OpMul:
		return sparsity.Intersect(in...), nil
	case OpDiv:
		return in[0], nil
	}
	return sparsity.Pattern{}, errors.New(errors.ErrCodeUnsupported, "no sparsity rule for %s", op)
}
