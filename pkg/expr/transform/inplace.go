package transform

import (
	"slices"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr"
)

// SubstituteInPlace eliminates a chain of definitions one variable at a
// time and returns the updated definitions and expressions. The inputs are
// not modified; callers replace their stored handles with the results.
//
// In forward mode (reverse == false) step i = 0..n-1 substitutes
// v[i] → vdef[i] into vdef[k] for every k > i and into ex, so vdef[i] may
// reference v[j] for j < i. In reverse mode step i = n-1..0 substitutes
// into vdef[k] for every k < i and into ex. Reverse mode undoes
// [ExtractShared].
//
// A definition that references its own variable fails with
// CYCLIC_DEPENDENCY before any step runs.
func SubstituteInPlace(v, vdef, ex []expr.Expr, reverse bool) (newVdef, newEx []expr.Expr, err error) {
	const op = "substitute_in_place"
	b, err := sameBuilder(op, v, vdef, ex)
	if err != nil {
		return nil, nil, err
	}
	if err := checkDefinitions(op, v, vdef, true); err != nil {
		return nil, nil, err
	}
	for i := range v {
		if references(vdef[i], v[i]) {
			return nil, nil, errors.New(errors.ErrCodeCyclicDependency,
				"%s: definition of %s references itself", op, v[i])
		}
	}

	newVdef, newEx = slices.Clone(vdef), slices.Clone(ex)
	if b == nil || len(v) == 0 {
		return newVdef, newEx, nil
	}

	r := newRewriter(b)
	defer track(op, len(vdef)+len(ex))(&r.stats, &err)

	n := len(v)
	for step := range n {
		i := step
		if reverse {
			i = n - 1 - step
		}
		var targets []expr.Expr
		if reverse {
			targets = newVdef[:i]
		} else {
			targets = newVdef[i+1:]
		}
		if len(targets) == 0 && len(newEx) == 0 {
			continue
		}

		roots := append(slices.Clone(targets), newEx...)
		out, err := r.replace(roots, v[i:i+1], newVdef[i:i+1])
		if err != nil {
			return nil, nil, err
		}
		copy(targets, out[:len(targets)])
		copy(newEx, out[len(targets):])
	}
	return newVdef, newEx, nil
}

// references reports whether e reaches the node target.
func references(e, target expr.Expr) bool {
	for _, n := range expr.TopoSort(e) {
		if n.Is(target) {
			return true
		}
	}
	return false
}
