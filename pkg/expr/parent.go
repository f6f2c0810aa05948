package expr

import (
	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/sparsity"
)

// CreateParent allocates one column symbol holding every element of deps
// and returns it together with children congruent to deps. Each child is a
// reshaped block of the parent. Substituting the children for deps turns
// several independent inputs into one aggregate input; substituting
// Veccat(deps...) for the parent maps every child back to its dep.
func CreateParent(name string, deps ...Expr) (Expr, []Expr, error) {
	b, err := builderOf("create_parent", deps)
	if err != nil {
		return Expr{}, nil, err
	}
	patterns := make([]sparsity.Pattern, len(deps))
	for i, d := range deps {
		if !d.IsSymbolic() {
			return Expr{}, nil, errors.New(errors.ErrCodeInvalidArgument,
				"create_parent: dep %d is a %s node, expected a symbol", i, d.Kind())
		}
		patterns[i] = d.Sparsity()
	}
	return b.CreateParentFromPatterns(name, patterns...)
}

// CreateParentFromPatterns is [CreateParent] for deps given only by their
// sparsity patterns.
func (b *Builder) CreateParentFromPatterns(name string, patterns ...sparsity.Pattern) (Expr, []Expr, error) {
	if len(patterns) == 0 {
		return Expr{}, nil, errors.New(errors.ErrCodeEmptyInput, "create_parent: no deps")
	}
	columns := make([]sparsity.Pattern, len(patterns))
	for i, p := range patterns {
		columns[i] = p.Reshape(p.Numel(), 1)
	}
	parent, err := b.SymbolWithPattern(name, sparsity.Vertcat(columns...))
	if err != nil {
		return Expr{}, nil, err
	}

	children := make([]Expr, len(patterns))
	offset := 0
	for i, p := range patterns {
		n := p.Numel()
		block, err := b.slice(parent, Rect{R0: offset, R1: offset + n, C1: 1})
		if err != nil {
			return Expr{}, nil, err
		}
		if children[i], err = b.Reshape(block, p.Rows(), p.Cols()); err != nil {
			return Expr{}, nil, err
		}
		offset += n
	}
	return parent, children, nil
}
