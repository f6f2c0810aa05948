// Package demo holds the built-in expression graphs used by the CLI.
//
// Each [Demo] builds a small graph on a fresh [expr.Builder]. The graphs
// are chosen to exercise one feature each: shared subexpressions, block
// algebra, linear solves, aggregate inputs and sequential elimination.
package demo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr"
	"github.com/matzehuels/symgraph/pkg/expr/transform"
)

// Graph is a built demo.
type Graph struct {
	// Outputs are the expressions of interest.
	Outputs []expr.Expr
	// Boundary nodes are never absorbed by expansion regions.
	Boundary []expr.Expr
	// Vars and Defs describe a chain of definitions v[i] = defs[i] for
	// sequential elimination. Empty for most demos.
	Vars, Defs []expr.Expr
}

// Demo is a named graph constructor.
type Demo struct {
	Name        string
	Description string
	build       func(b *expr.Builder) *Graph
}

// Build constructs the demo on b.
func (d Demo) Build(b *expr.Builder) (g *Graph, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeInternal, "demo %s: %v", d.Name, r)
		}
	}()
	return d.build(b), nil
}

var registry = []Demo{
	{
		Name:        "shared",
		Description: "sin(x*y) reused by two outputs",
		build:       buildShared,
	},
	{
		Name:        "blocks",
		Description: "4x4 block split, swap and reassembly",
		build:       buildBlocks,
	},
	{
		Name:        "rosenbrock",
		Description: "Rosenbrock function of a 2-vector and its split entries",
		build:       buildRosenbrock,
	},
	{
		Name:        "linsolve",
		Description: "symbolic linear solve with residual",
		build:       buildLinsolve,
	},
	{
		Name:        "parent",
		Description: "three inputs aggregated into one parent symbol",
		build:       buildParent,
	},
	{
		Name:        "chain",
		Description: "definition chain a = x+1, b = 2a for elimination",
		build:       buildChain,
	},
}

// All returns every demo sorted by name.
func All() []Demo {
	out := slices.Clone(registry)
	slices.SortFunc(out, func(a, b Demo) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Names returns the demo names sorted.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, d := range all {
		names[i] = d.Name
	}
	return names
}

// Get looks a demo up by name.
func Get(name string) (Demo, error) {
	for _, d := range registry {
		if d.Name == name {
			return d, nil
		}
	}
	return Demo{}, errors.New(errors.ErrCodeNotFound, "unknown demo %q (available: %s)", name, strings.Join(Names(), ", "))
}

func symbol(b *expr.Builder, name string, rows, cols int) expr.Expr {
	return expr.Must(b.Symbol(name, rows, cols))
}

func buildShared(b *expr.Builder) *Graph {
	x := symbol(b, "x", 1, 1)
	y := symbol(b, "y", 1, 1)
	s := expr.Must(expr.Sin(expr.Must(expr.Mul(x, y))))
	return &Graph{Outputs: []expr.Expr{
		expr.Must(expr.Add(s, y)),
		expr.Must(expr.Mul(s, expr.Must(expr.Cos(s)))),
	}}
}

func buildBlocks(b *expr.Builder) *Graph {
	x := symbol(b, "X", 4, 4)
	grid, err := expr.BlocksplitIncr(x, 2, 2)
	if err != nil {
		panic(err)
	}
	swapped := expr.Must(expr.Blockcat4(grid[1][1], grid[1][0], grid[0][1], grid[0][0]))
	same := expr.Must(expr.Blockcat(grid))
	diag := expr.Must(expr.Diagcat(expr.Must(expr.Exp(grid[0][0])), grid[1][1]))
	return &Graph{Outputs: []expr.Expr{swapped, same, diag}}
}

func buildRosenbrock(b *expr.Builder) *Graph {
	x := symbol(b, "x", 2, 1)
	parts, err := expr.VertsplitIncr(x, 1)
	if err != nil {
		panic(err)
	}
	x0, x1 := parts[0], parts[1]
	a := expr.Must(expr.Sub(b.Scalar(1), x0))
	c := expr.Must(expr.Sub(x1, expr.Must(expr.Mul(x0, x0))))
	f := expr.Must(expr.Add(
		expr.Must(expr.Mul(a, a)),
		expr.Must(expr.Mul(b.Scalar(100), c, c)),
	))
	return &Graph{Outputs: []expr.Expr{f}, Boundary: []expr.Expr{x0, x1}}
}

func buildLinsolve(b *expr.Builder) *Graph {
	a := symbol(b, "A", 3, 3)
	rhs := symbol(b, "b", 3, 1)
	sol := expr.Must(expr.Solve(a, rhs, "", nil))
	resid := expr.Must(expr.Sub(expr.Must(expr.MatMul(a, sol)), rhs))
	return &Graph{Outputs: []expr.Expr{sol, resid}}
}

func buildParent(b *expr.Builder) *Graph {
	p := symbol(b, "p", 2, 2)
	q := symbol(b, "q", 3, 1)
	r := symbol(b, "r", 1, 1)
	f := []expr.Expr{
		expr.Must(expr.Add(expr.Must(expr.Mul(r, expr.Must(expr.MatMul(p, p)))), b.Scalar(1))),
		expr.Must(expr.Sin(q)),
	}

	_, children, err := expr.CreateParent("w", p, q, r)
	if err != nil {
		panic(err)
	}
	out, err := transform.SubstituteAll(f, []expr.Expr{p, q, r}, children)
	if err != nil {
		panic(err)
	}
	return &Graph{Outputs: out}
}

func buildChain(b *expr.Builder) *Graph {
	x := symbol(b, "x", 1, 1)
	va := symbol(b, "a", 1, 1)
	vb := symbol(b, "b", 1, 1)
	defA := expr.Must(expr.Add(x, b.Scalar(1)))
	defB := expr.Must(expr.Mul(va, b.Scalar(2)))
	return &Graph{
		Outputs: []expr.Expr{expr.Must(expr.Add(va, vb))},
		Vars:    []expr.Expr{va, vb},
		Defs:    []expr.Expr{defA, defB},
	}
}

// String implements fmt.Stringer.
func (d Demo) String() string {
	return fmt.Sprintf("%s: %s", d.Name, d.Description)
}
