package sparsity_test

import (
	"fmt"

	"github.com/matzehuels/symgraph/pkg/sparsity"
)

func ExamplePattern_Render() {
	p := sparsity.Diagcat(sparsity.Dense(1, 1), sparsity.Dense(2, 2))
	fmt.Print(p.Render())
	fmt.Println(p)
	// Output:
	// *..
	// .**
	// .**
	// 3x3 (5 nnz)
}

func ExampleProduct() {
	a := sparsity.Diagonal(3)
	b := sparsity.Dense(3, 2)
	fmt.Println(sparsity.Product(a, b))
	// Output:
	// 3x2 dense
}
