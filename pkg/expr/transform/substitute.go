package transform

import (
	"slices"

	"github.com/matzehuels/symgraph/pkg/expr"
)

// Substitute replaces every occurrence of the symbol v in ex by vdef.
func Substitute(ex, v, vdef expr.Expr) (expr.Expr, error) {
	out, err := SubstituteAll([]expr.Expr{ex}, []expr.Expr{v}, []expr.Expr{vdef})
	if err != nil {
		return expr.Expr{}, err
	}
	return out[0], nil
}

// SubstituteAll replaces every occurrence of v[i] in every ex[j] by
// vdef[i], simultaneously: replacements are computed against the original
// expressions, so a definition that mentions another variable keeps
// mentioning it. Each v[i] must be a symbol of the same shape as vdef[i].
//
// Subgraphs that do not reach any v[i] keep their identity, and nodes
// shared between several ex[j] are rewritten once.
func SubstituteAll(ex, v, vdef []expr.Expr) ([]expr.Expr, error) {
	return substitute("substitute", ex, v, vdef, true)
}

// GraphSubstitute is [SubstituteAll] with arbitrary nodes as targets. It
// replaces exactly the given nodes and retains whatever sharing the rewrite
// produces; shared nodes are never re-expressed in terms of separately
// computed subexpressions.
func GraphSubstitute(ex, v, vdef []expr.Expr) ([]expr.Expr, error) {
	return substitute("graph_substitute", ex, v, vdef, false)
}

func substitute(op string, ex, v, vdef []expr.Expr, symbolsOnly bool) (out []expr.Expr, err error) {
	b, err := sameBuilder(op, ex, v, vdef)
	if err != nil {
		return nil, err
	}
	if err := checkDefinitions(op, v, vdef, symbolsOnly); err != nil {
		return nil, err
	}
	if b == nil || len(ex) == 0 || identical(v, vdef) {
		return slices.Clone(ex), nil
	}

	r := newRewriter(b)
	defer track(op, len(ex))(&r.stats, &err)
	return r.replace(ex, v, vdef)
}

// identical reports whether every definition is its own variable.
func identical(v, vdef []expr.Expr) bool {
	for i := range v {
		if !v[i].Is(vdef[i]) {
			return false
		}
	}
	return true
}
