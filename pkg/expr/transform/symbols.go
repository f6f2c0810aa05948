package transform

import (
	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr"
)

// Symbols returns the symbols reachable from ex without duplicates, in
// order of first appearance in a pre-order depth-first traversal that
// visits the expressions in order and the children of each node in
// operand order.
func Symbols(ex ...expr.Expr) []expr.Expr {
	seen := make(map[int64]bool)
	var syms []expr.Expr

	stack := make([]expr.Expr, 0, len(ex))
	for i := len(ex) - 1; i >= 0; i-- {
		if !ex[i].IsNull() {
			stack = append(stack, ex[i])
		}
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n.ID()] {
			continue
		}
		seen[n.ID()] = true
		if n.IsSymbolic() {
			syms = append(syms, n)
			continue
		}
		for i := n.NumDeps() - 1; i >= 0; i-- {
			if c := n.Dep(i); !seen[c.ID()] {
				stack = append(stack, c)
			}
		}
	}
	return syms
}

// DependsOn reports whether ex references any of args. Every arg must be a
// symbol.
func DependsOn(ex expr.Expr, args ...expr.Expr) (bool, error) {
	if _, err := sameBuilder("depends_on", []expr.Expr{ex}, args); err != nil {
		return false, err
	}
	want := make(map[int64]bool, len(args))
	for i, a := range args {
		if !a.IsSymbolic() {
			return false, errors.New(errors.ErrCodeInvalidArgument,
				"depends_on: argument %d is a %s node, expected a symbol", i, a.Kind())
		}
		want[a.ID()] = true
	}
	if len(want) == 0 {
		return false, nil
	}
	for _, s := range Symbols(ex) {
		if want[s.ID()] {
			return true, nil
		}
	}
	return false, nil
}
