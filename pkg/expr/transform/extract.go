package transform

import (
	"fmt"
	"io"
	"strconv"

	"github.com/matzehuels/symgraph/pkg/expr"
)

// DefaultSharedPrefix names hoisted definitions v_0, v_1, ...
const DefaultSharedPrefix = "v_"

// ExtractShared hoists every node referenced from two or more places into
// a definition. A reference is a parent slot (an operand position of
// another reachable node) or an entry of ex, so a node used twice by the
// same parent, or by two outputs, counts as shared. Symbols and constants
// are never hoisted.
//
// It returns the rewritten expressions together with the generated symbols
// v (named prefix + index + suffix) and their definitions vdef. Definitions
// are ordered by node id: vdef[k] may reference v[j] for j < k only.
// Passing the results to [SubstituteInPlace] in reverse mode restores ex.
func ExtractShared(ex []expr.Expr, prefix, suffix string) (out, v, vdef []expr.Expr, err error) {
	const op = "extract_shared"
	b, err := sameBuilder(op, ex)
	if err != nil {
		return nil, nil, nil, err
	}
	if b == nil {
		return nil, nil, nil, nil
	}

	order := expr.TopoSort(ex...)
	refs := make(map[int64]int, len(order))
	for _, n := range order {
		for i := range n.NumDeps() {
			refs[n.Dep(i).ID()]++
		}
	}
	for _, e := range ex {
		refs[e.ID()]++
	}

	r := newRewriter(b)
	defer track(op, len(ex))(&r.stats, &err)

	for _, n := range order {
		r.stats.Visited++
		rebuilt, err := r.rebuild(n)
		if err != nil {
			return nil, nil, nil, err
		}
		if refs[n.ID()] < 2 || n.IsSymbolic() || n.IsConstant() {
			r.memo[n.ID()] = rebuilt
			continue
		}
		name := prefix + strconv.Itoa(len(v)) + suffix
		s, err := b.SymbolWithPattern(name, n.Sparsity())
		if err != nil {
			return nil, nil, nil, err
		}
		v = append(v, s)
		vdef = append(vdef, rebuilt)
		r.memo[n.ID()] = s
	}

	out = make([]expr.Expr, len(ex))
	for i, e := range ex {
		out[i] = r.memo[e.ID()]
	}
	return out, v, vdef, nil
}

// CompactPrefix names the definitions printed by [PrintCompact].
const CompactPrefix = "@"

// PrintCompact writes ex with shared subexpressions printed once: one
// "@k = ..." line per hoisted definition, then one line per expression.
func PrintCompact(w io.Writer, ex ...expr.Expr) error {
	out, v, vdef, err := ExtractShared(ex, CompactPrefix, "")
	if err != nil {
		return err
	}
	for i := range v {
		if _, err := fmt.Fprintf(w, "%s = %s\n", v[i].Name(), vdef[i]); err != nil {
			return err
		}
	}
	for _, e := range out {
		if _, err := fmt.Fprintln(w, e); err != nil {
			return err
		}
	}
	return nil
}

// CountNodes returns the number of distinct nodes reachable from ex.
func CountNodes(ex ...expr.Expr) int {
	return len(expr.TopoSort(ex...))
}
