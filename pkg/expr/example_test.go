package expr_test

import (
	"fmt"

	"github.com/matzehuels/symgraph/pkg/expr"
)

func Example() {
	b := expr.NewBuilder()
	x := expr.Must(b.Symbol("x", 3, 1))
	y := expr.Must(expr.Sin(x))
	z := expr.Must(expr.Add(x, y))

	fmt.Println(z)
	fmt.Println(z.Shape())
	// Output:
	// (x+sin(x))
	// {3 1}
}

func ExampleVertsplit() {
	b := expr.NewBuilder()
	x := expr.Must(b.Symbol("x", 3, 1))
	y := expr.Must(expr.Vertcat(x, x))

	parts, _ := expr.Vertsplit(y, []int{0, 3, 6})
	fmt.Println(len(parts), parts[0].Is(x), parts[1].Is(x))
	fmt.Println(expr.Must(expr.Vertcat(parts...)).Is(y))
	// Output:
	// 2 true true
	// true
}

func ExampleBlockcat() {
	b := expr.NewBuilder()
	a := expr.Must(b.Symbol("a", 2, 2))
	c := expr.Must(b.Symbol("c", 1, 2))
	m := expr.Must(expr.Blockcat([][]expr.Expr{{a}, {c}}))

	grid, _ := expr.Blocksplit(m, []int{0, 2}, []int{0})
	fmt.Println(m.Shape(), grid[0][0].Is(a), grid[1][0].Is(c))
	// Output:
	// {3 2} true true
}

func ExampleSolve() {
	b := expr.NewBuilder()
	a := expr.Must(b.Symbol("A", 3, 3))
	rhs := expr.Must(b.Symbol("b", 3, 1))

	x, _ := expr.Solve(a, rhs, "", nil)
	fmt.Println(x)
	// Output:
	// solve[symbolicqr](A, b)
}
