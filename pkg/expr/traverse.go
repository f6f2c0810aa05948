package expr

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// TopoSort returns every node reachable from roots exactly once, in
// ascending id order. Since children are always created before their
// parents this is a valid topological order.
func TopoSort(roots ...Expr) []Expr {
	seen := make(map[*node]bool)
	var out []Expr
	stack := make([]Expr, 0, len(roots))
	for _, r := range roots {
		if !r.IsNull() {
			stack = append(stack, r)
		}
	}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[e.n] {
			continue
		}
		seen[e.n] = true
		out = append(out, e)
		for _, c := range e.n.children {
			if !seen[c.n] {
				stack = append(stack, c)
			}
		}
	}
	slices.SortFunc(out, func(a, b Expr) int {
		switch {
		case a.n.id < b.n.id:
			return -1
		case a.n.id > b.n.id:
			return 1
		}
		return 0
	})
	return out
}

// Equal reports whether a and b are structurally equal up to the given
// depth. Identical nodes are always equal; distinct symbols never are.
// Beyond depth only identical nodes compare equal.
func Equal(a, b Expr, depth int) bool {
	type pair struct{ a, b *node }
	memo := make(map[pair]bool)

	var eq func(a, b Expr, depth int) bool
	eq = func(a, b Expr, depth int) bool {
		if a.n == b.n {
			return true
		}
		if a.IsNull() || b.IsNull() || depth <= 0 {
			return false
		}
		if res, ok := memo[pair{a.n, b.n}]; ok {
			return res
		}
		res := sameHead(a.n, b.n)
		for i := 0; res && i < len(a.n.children); i++ {
			res = eq(a.n.children[i], b.n.children[i], depth-1)
		}
		memo[pair{a.n, b.n}] = res
		return res
	}
	return eq(a, b, depth)
}

// sameHead compares everything about two nodes except their children.
func sameHead(a, b *node) bool {
	if a.kind != b.kind || a.op != b.op || !a.sp.Equal(b.sp) || len(a.children) != len(b.children) {
		return false
	}
	switch a.kind {
	case KindSymbol:
		return false
	case KindConstant:
		return slices.Equal(a.values, b.values)
	case KindConcat:
		return a.axis == b.axis
	case KindSlice:
		return a.rect == b.rect
	case KindUnary:
		return a.target == b.target
	case KindCall:
		return a.callee.Name() == b.callee.Name()
	}
	return true
}

// printBudget bounds the number of nodes String expands, since printing a
// DAG as a tree can be exponential in its depth.
const printBudget = 512

// String renders e as an infix expression for diagnostics. Shared nodes
// are printed every time they are reached; use transform.PrintCompact for
// a sharing-aware rendering.
func (e Expr) String() string {
	if e.IsNull() {
		return "<null>"
	}
	p := &printer{budget: printBudget}
	p.print(e)
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	budget int
}

func (p *printer) print(e Expr) {
	if p.budget <= 0 {
		p.sb.WriteString("...")
		return
	}
	p.budget--

	n := e.n
	switch n.kind {
	case KindSymbol:
		p.sb.WriteString(n.name)
	case KindConstant:
		p.constant(n)
	case KindUnary:
		switch n.op {
		case OpNeg:
			p.sb.WriteString("(-")
			p.print(n.children[0])
			p.sb.WriteByte(')')
		case OpTranspose:
			p.print(n.children[0])
			p.sb.WriteByte('\'')
		case OpReshape:
			p.sb.WriteString("reshape(")
			p.print(n.children[0])
			fmt.Fprintf(&p.sb, ", %dx%d)", n.target.Rows, n.target.Cols)
		default:
			p.call(n.op.String(), n.children)
		}
	case KindNary:
		if sym := n.op.info().infix; sym != "" {
			p.sb.WriteByte('(')
			for i, c := range n.children {
				if i > 0 {
					p.sb.WriteString(sym)
				}
				p.print(c)
			}
			p.sb.WriteByte(')')
			return
		}
		p.call(n.op.String(), n.children)
	case KindConcat:
		p.call(n.axis.String(), n.children)
	case KindSlice:
		p.print(n.children[0])
		fmt.Fprintf(&p.sb, "[%d:%d, %d:%d]", n.rect.R0, n.rect.R1, n.rect.C0, n.rect.C1)
	case KindCall:
		p.call(n.callee.Name(), n.children)
	}
}

func (p *printer) call(name string, args []Expr) {
	p.sb.WriteString(name)
	p.sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			p.sb.WriteString(", ")
		}
		p.print(a)
	}
	p.sb.WriteByte(')')
}

func (p *printer) constant(n *node) {
	rows, cols := n.sp.Shape()
	format := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	switch {
	case rows == 1 && cols == 1:
		p.sb.WriteString(format(n.values[0]))
	case n.sp.IsEmpty():
		fmt.Fprintf(&p.sb, "zeros(%dx%d)", rows, cols)
	default:
		p.sb.WriteByte('[')
		for r := range rows {
			if r > 0 {
				p.sb.WriteString("; ")
			}
			for c := range cols {
				if c > 0 {
					p.sb.WriteString(", ")
				}
				p.sb.WriteString(format(n.values[r*cols+c]))
			}
		}
		p.sb.WriteByte(']')
	}
}
