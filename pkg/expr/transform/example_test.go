package transform_test

import (
	"fmt"
	"os"

	"github.com/matzehuels/symgraph/pkg/expr"
	"github.com/matzehuels/symgraph/pkg/expr/transform"
)

func ExampleSubstitute() {
	b := expr.NewBuilder()
	x := expr.Must(b.Symbol("x", 1, 1))
	y := expr.Must(b.Symbol("y", 1, 1))
	e := expr.Must(expr.Mul(expr.Must(expr.Sin(x)), x))

	got, _ := transform.Substitute(e, x, expr.Must(expr.Add(y, b.Scalar(1))))
	fmt.Println(got)
	// Output:
	// (sin((y+1))*(y+1))
}

func ExampleSubstituteInPlace() {
	b := expr.NewBuilder()
	a := expr.Must(b.Symbol("a", 1, 1))
	c := expr.Must(b.Symbol("b", 1, 1))
	v := []expr.Expr{a, c}
	vdef := []expr.Expr{
		expr.Must(expr.Add(c, b.Scalar(1))),
		expr.Must(expr.Mul(a, b.Scalar(2))),
	}

	vdef, _, _ = transform.SubstituteInPlace(v, vdef, nil, false)
	fmt.Println(vdef[1])
	// Output:
	// ((b+1)*2)
}

func ExamplePrintCompact() {
	b := expr.NewBuilder()
	x := expr.Must(b.Symbol("x", 1, 1))
	s := expr.Must(expr.Sin(x))
	e := expr.Must(expr.Add(expr.Must(expr.Mul(s, s)), s))

	_ = transform.PrintCompact(os.Stdout, e)
	// Output:
	// @0 = sin(x)
	// ((@0*@0)+@0)
}

func ExampleSymbols() {
	b := expr.NewBuilder()
	x := expr.Must(b.Symbol("x", 1, 1))
	y := expr.Must(b.Symbol("y", 1, 1))
	e := expr.Must(expr.Add(y, expr.Must(expr.Cos(x)), y))

	fmt.Println(transform.Symbols(e))
	// Output:
	// [y x]
}

func ExampleMatrixExpand() {
	b := expr.NewBuilder()
	x := expr.Must(b.Symbol("x", 2, 1))
	e := expr.Must(expr.Exp(expr.Must(expr.Vertcat(expr.Must(expr.Sin(x)), x))))

	regions, _ := transform.Partition([]expr.Expr{e}, nil)
	fmt.Println(len(regions))

	out, _ := transform.MatrixExpand([]expr.Expr{e}, nil, transform.CallExpander{Prefix: "f"})
	fmt.Println(out[0].Kind(), out[0].Dep(0).Kind())
	// Output:
	// 2
	// call concat
}
