package transform

import (
	"time"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr"
	"github.com/matzehuels/symgraph/pkg/observability"
)

// rewriter is the memoised bottom-up rewrite behind every substitution.
// The memo is keyed by node id and lives for one top-level call.
type rewriter struct {
	b     *expr.Builder
	memo  map[int64]expr.Expr
	stats observability.RewriteStats
}

func newRewriter(b *expr.Builder) *rewriter {
	return &rewriter{b: b, memo: make(map[int64]expr.Expr)}
}

// replace rewrites roots with every targets[i] mapped to repl[i].
// Replacements are used as given and never rewritten themselves.
func (r *rewriter) replace(roots, targets, repl []expr.Expr) ([]expr.Expr, error) {
	clear(r.memo)
	for i, t := range targets {
		r.memo[t.ID()] = repl[i]
	}
	order := expr.TopoSort(roots...)
	for _, n := range order {
		if _, done := r.memo[n.ID()]; done {
			continue
		}
		r.stats.Visited++
		out, err := r.rebuild(n)
		if err != nil {
			return nil, err
		}
		r.memo[n.ID()] = out
	}

	res := make([]expr.Expr, len(roots))
	for i, e := range roots {
		res[i] = r.memo[e.ID()]
	}
	return res, nil
}

// rebuild re-applies n to the already rewritten children of n.
func (r *rewriter) rebuild(n expr.Expr) (expr.Expr, error) {
	if n.NumDeps() == 0 {
		return n, nil
	}
	children := make([]expr.Expr, n.NumDeps())
	for i := range children {
		children[i] = r.memo[n.Dep(i).ID()]
	}
	out, err := r.b.Rebuild(n, children)
	if err != nil {
		return expr.Expr{}, err
	}
	if !out.Is(n) {
		r.stats.Created++
	}
	return out, nil
}

// track reports a pass to the rewrite hooks.
func track(op string, roots int) func(*observability.RewriteStats, *error) {
	start := time.Now()
	observability.Rewrite().OnRewriteStart(op, roots)
	return func(stats *observability.RewriteStats, err *error) {
		observability.Rewrite().OnRewriteComplete(op, *stats, time.Since(start), *err)
	}
}

// sameBuilder returns the builder shared by every handle in groups, or nil
// when all groups are empty.
func sameBuilder(op string, groups ...[]expr.Expr) (*expr.Builder, error) {
	var b *expr.Builder
	for _, g := range groups {
		for i, e := range g {
			if e.IsNull() {
				return nil, errors.New(errors.ErrCodeInvalidArgument, "%s: expression %d is null", op, i)
			}
			if b == nil {
				b = e.Builder()
			} else if e.Builder() != b {
				return nil, errors.New(errors.ErrCodeInvalidArgument,
					"%s: expressions from builders %s and %s", op, b.ID(), e.Builder().ID())
			}
		}
	}
	return b, nil
}

// checkDefinitions validates (v, vdef) pairs. With symbolsOnly every v[i]
// must be a symbol.
func checkDefinitions(op string, v, vdef []expr.Expr, symbolsOnly bool) error {
	if len(v) != len(vdef) {
		return errors.New(errors.ErrCodeDimension,
			"%s: %d variables but %d definitions", op, len(v), len(vdef))
	}
	seen := make(map[int64]bool, len(v))
	for i := range v {
		if symbolsOnly && !v[i].IsSymbolic() {
			return errors.New(errors.ErrCodeInvalidArgument,
				"%s: variable %d is a %s node, expected a symbol", op, i, v[i].Kind())
		}
		if seen[v[i].ID()] {
			return errors.New(errors.ErrCodeInvalidArgument, "%s: variable %d (%s) repeated", op, i, v[i])
		}
		seen[v[i].ID()] = true
		if v[i].Shape() != vdef[i].Shape() {
			return errors.New(errors.ErrCodeShapeMismatch,
				"%s: variable %d is %dx%d but its definition is %dx%d",
				op, i, v[i].Rows(), v[i].Cols(), vdef[i].Rows(), vdef[i].Cols())
		}
	}
	return nil
}

// codeOf returns the code of err, or INTERNAL_ERROR for foreign errors.
func codeOf(err error) errors.Code {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}
