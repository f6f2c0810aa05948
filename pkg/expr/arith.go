package expr

// Package-level helpers derive the builder from their operands; all operands
// must come from the same builder.

// Add returns the elementwise sum of two or more operands.
func Add(xs ...Expr) (Expr, error) {
	b, err := builderOf("add", xs)
	if err != nil {
		return Expr{}, err
	}
	return b.Nary(OpAdd, xs...)
}

// Sub returns x - y.
func Sub(x, y Expr) (Expr, error) {
	b, err := builderOf("sub", []Expr{x, y})
	if err != nil {
		return Expr{}, err
	}
	return b.Nary(OpSub, x, y)
}

// Mul returns the elementwise product of two or more operands.
func Mul(xs ...Expr) (Expr, error) {
	b, err := builderOf("mul", xs)
	if err != nil {
		return Expr{}, err
	}
	return b.Nary(OpMul, xs...)
}

// Div returns the elementwise quotient x / y.
func Div(x, y Expr) (Expr, error) {
	b, err := builderOf("div", []Expr{x, y})
	if err != nil {
		return Expr{}, err
	}
	return b.Nary(OpDiv, x, y)
}

// MatMul returns the matrix product x*y.
func MatMul(x, y Expr) (Expr, error) {
	b, err := builderOf("mtimes", []Expr{x, y})
	if err != nil {
		return Expr{}, err
	}
	return b.Nary(OpMatMul, x, y)
}

func unary(op Op, x Expr) (Expr, error) {
	b, err := builderOf(op.String(), []Expr{x})
	if err != nil {
		return Expr{}, err
	}
	return b.Unary(op, x)
}

// Neg returns -x.
func Neg(x Expr) (Expr, error) { return unary(OpNeg, x) }

// Sin returns the elementwise sine.
func Sin(x Expr) (Expr, error) { return unary(OpSin, x) }

// Cos returns the elementwise cosine.
func Cos(x Expr) (Expr, error) { return unary(OpCos, x) }

// Exp returns the elementwise exponential.
func Exp(x Expr) (Expr, error) { return unary(OpExp, x) }

// Log returns the elementwise natural logarithm.
func Log(x Expr) (Expr, error) { return unary(OpLog, x) }

// Sqrt returns the elementwise square root.
func Sqrt(x Expr) (Expr, error) { return unary(OpSqrt, x) }

// Transpose returns x'. Transposing a transpose returns the original node.
func Transpose(x Expr) (Expr, error) { return unary(OpTranspose, x) }

// Reshape reinterprets x as rows×cols in column-major order.
func Reshape(x Expr, rows, cols int) (Expr, error) {
	b, err := builderOf("reshape", []Expr{x})
	if err != nil {
		return Expr{}, err
	}
	return b.Reshape(x, rows, cols)
}

// Vec returns x reshaped into a column vector.
func Vec(x Expr) (Expr, error) {
	if x.IsNull() {
		return Expr{}, nullOperand("vec")
	}
	return Reshape(x, x.Numel(), 1)
}
