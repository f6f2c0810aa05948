package expr

import (
	"github.com/matzehuels/symgraph/pkg/errors"
)

// Op identifies a unary or n-ary operation.
type Op uint8

const (
	OpNone Op = iota

	// Unary operations.
	OpNeg
	OpSin
	OpCos
	OpExp
	OpLog
	OpSqrt
	OpTranspose
	OpReshape

	// N-ary operations.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMatMul
)

// opInfo is one row of the per-operation handler table.
type opInfo struct {
	name  string
	kind  Kind
	arity int // 0 means variadic with at least two operands
	infix string

	// zeroPreserving marks unary ops with f(0) == 0, whose result keeps the
	// operand's pattern.
	zeroPreserving bool
}

var opTable = [...]opInfo{
	OpNone:      {name: "none"},
	OpNeg:       {name: "neg", kind: KindUnary, arity: 1, zeroPreserving: true},
	OpSin:       {name: "sin", kind: KindUnary, arity: 1, zeroPreserving: true},
	OpCos:       {name: "cos", kind: KindUnary, arity: 1},
	OpExp:       {name: "exp", kind: KindUnary, arity: 1},
	OpLog:       {name: "log", kind: KindUnary, arity: 1},
	OpSqrt:      {name: "sqrt", kind: KindUnary, arity: 1, zeroPreserving: true},
	OpTranspose: {name: "transpose", kind: KindUnary, arity: 1, zeroPreserving: true},
	OpReshape:   {name: "reshape", kind: KindUnary, arity: 1, zeroPreserving: true},
	OpAdd:       {name: "add", kind: KindNary, infix: "+"},
	OpSub:       {name: "sub", kind: KindNary, arity: 2, infix: "-"},
	OpMul:       {name: "mul", kind: KindNary, infix: "*"},
	OpDiv:       {name: "div", kind: KindNary, arity: 2, infix: "/"},
	OpMatMul:    {name: "mtimes", kind: KindNary, arity: 2},
}

func (op Op) info() opInfo {
	if int(op) < len(opTable) {
		return opTable[op]
	}
	return opTable[OpNone]
}

func (op Op) String() string { return op.info().name }

// Kind returns KindUnary or KindNary for valid operations.
func (op Op) Kind() Kind { return op.info().kind }

// IsElementwise reports whether op acts entry by entry.
func (op Op) IsElementwise() bool {
	switch op {
	case OpTranspose, OpReshape, OpMatMul, OpNone:
		return false
	}
	return true
}

// ZeroPreserving reports whether a unary op maps structural zeros to zero.
func (op Op) ZeroPreserving() bool { return op.info().zeroPreserving }

func checkArity(op Op, n int) error {
	info := op.info()
	if info.kind != KindUnary && info.kind != KindNary {
		return errors.New(errors.ErrCodeInvalidArgument, "unknown operation %d", op)
	}
	if info.arity == 0 && n < 2 {
		return errors.New(errors.ErrCodeInvalidArgument, "%s needs at least 2 operands, got %d", info.name, n)
	}
	if info.arity > 0 && n != info.arity {
		return errors.New(errors.ErrCodeInvalidArgument, "%s needs %d operands, got %d", info.name, info.arity, n)
	}
	return nil
}

// resultShape validates operand shapes and computes the shape of op applied
// to them. OpReshape is handled by the builder since it carries a target.
func resultShape(op Op, in []Shape) (Shape, error) {
	switch op {
	case OpTranspose:
		return Shape{Rows: in[0].Cols, Cols: in[0].Rows}, nil
	case OpMatMul:
		a, b := in[0], in[1]
		if a.Cols != b.Rows {
			return Shape{}, errors.New(errors.ErrCodeShapeMismatch,
				"mtimes: inner dimensions differ (%dx%d * %dx%d)", a.Rows, a.Cols, b.Rows, b.Cols)
		}
		return Shape{Rows: a.Rows, Cols: b.Cols}, nil
	}
	if op.Kind() == KindUnary {
		return in[0], nil
	}

	// Elementwise: all non-scalar operands must agree; scalars broadcast.
	out := Shape{Rows: 1, Cols: 1}
	found := false
	for _, s := range in {
		if s.IsScalar() {
			continue
		}
		if !found {
			out, found = s, true
			continue
		}
		if s != out {
			return Shape{}, errors.New(errors.ErrCodeShapeMismatch,
				"%s: operand shapes differ (%dx%d vs %dx%d)", op, out.Rows, out.Cols, s.Rows, s.Cols)
		}
	}
	return out, nil
}
