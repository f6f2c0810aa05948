package expr

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/sparsity"
)

// Callee is an opaque operation applied by a KindCall node. The graph core
// never looks inside a callee; it only needs the name for diagnostics and
// the result pattern for shape checking.
type Callee interface {
	Name() string
	Result(operands []sparsity.Pattern) (sparsity.Pattern, error)
}

// Call applies callee to args. With memoisation on, applying the same
// callee to the same args returns the existing node when the callee's
// dynamic type is comparable; other callees always create a new node.
func (b *Builder) Call(callee Callee, args ...Expr) (Expr, error) {
	if callee == nil {
		return Expr{}, errors.New(errors.ErrCodeInvalidArgument, "call: nil callee")
	}
	if err := b.owns(args...); err != nil {
		return Expr{}, err
	}
	patterns := make([]sparsity.Pattern, len(args))
	for i, a := range args {
		patterns[i] = a.Sparsity()
	}
	sp, err := callee.Result(patterns)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return Expr{}, errors.Wrap(code, err, "call %s", callee.Name())
	}
	return b.add(&node{
		kind:     KindCall,
		callee:   callee,
		children: slices.Clone(args),
		sp:       sp,
	}), nil
}

// Function is a named subgraph with symbolic inputs. It is the callee used
// to package an expanded region into a single call node.
type Function struct {
	name   string
	inputs []Expr
	output Expr
}

// NewFunction packages output as a function of the given input symbols.
func NewFunction(name string, inputs []Expr, output Expr) (*Function, error) {
	if output.IsNull() {
		return nil, nullOperand("function " + name)
	}
	if err := output.n.b.owns(inputs...); err != nil {
		return nil, err
	}
	seen := make(map[int64]bool, len(inputs))
	for i, in := range inputs {
		if !in.IsSymbolic() {
			return nil, errors.New(errors.ErrCodeInvalidArgument,
				"function %s: input %d is a %s node, expected a symbol", name, i, in.Kind())
		}
		if seen[in.ID()] {
			return nil, errors.New(errors.ErrCodeInvalidArgument,
				"function %s: input %d (%s) repeated", name, i, in.Name())
		}
		seen[in.ID()] = true
	}
	return &Function{name: name, inputs: slices.Clone(inputs), output: output}, nil
}

// Name implements [Callee].
func (f *Function) Name() string { return f.name }

// Inputs returns the input symbols.
func (f *Function) Inputs() []Expr { return slices.Clone(f.inputs) }

// Output returns the function body.
func (f *Function) Output() Expr { return f.output }

// Result implements [Callee]. Arguments must match the input shapes.
func (f *Function) Result(operands []sparsity.Pattern) (sparsity.Pattern, error) {
	if len(operands) != len(f.inputs) {
		return sparsity.Pattern{}, errors.New(errors.ErrCodeDimension,
			"%s expects %d arguments, got %d", f.name, len(f.inputs), len(operands))
	}
	for i, p := range operands {
		in := f.inputs[i]
		if p.Rows() != in.Rows() || p.Cols() != in.Cols() {
			return sparsity.Pattern{}, errors.New(errors.ErrCodeShapeMismatch,
				"%s argument %d is %dx%d, expected %dx%d", f.name, i, p.Rows(), p.Cols(), in.Rows(), in.Cols())
		}
	}
	return f.output.Sparsity(), nil
}

// =============================================================================
// Linear solvers
// =============================================================================

// DefaultSolver names the solver used when none is given.
const DefaultSolver = "symbolicqr"

// LinearSolver builds nodes for linear solves and pseudo-inverses. The
// solver name and options are passed through uninterpreted.
type LinearSolver interface {
	Solve(a, rhs Expr, solver string, options map[string]any) (Expr, error)
	Pinv(a Expr, solver string, options map[string]any) (Expr, error)
}

// CallSolver is the default [LinearSolver]. It records each request as an
// opaque call node for a downstream evaluator.
type CallSolver struct{}

// Solve implements [LinearSolver].
func (CallSolver) Solve(a, rhs Expr, solver string, options map[string]any) (Expr, error) {
	return a.n.b.Call(solveCallee{solver: solver, options: optionString(options)}, a, rhs)
}

// Pinv implements [LinearSolver].
func (CallSolver) Pinv(a Expr, solver string, options map[string]any) (Expr, error) {
	return a.n.b.Call(pinvCallee{solver: solver, options: optionString(options)}, a)
}

// solveCallee and pinvCallee hold formatted options so they stay comparable.
type solveCallee struct {
	solver  string
	options string
}

func (c solveCallee) Name() string { return "solve[" + c.solver + c.options + "]" }

func (c solveCallee) Result(ops []sparsity.Pattern) (sparsity.Pattern, error) {
	if len(ops) != 2 {
		return sparsity.Pattern{}, errors.New(errors.ErrCodeDimension, "solve expects 2 arguments, got %d", len(ops))
	}
	a, rhs := ops[0], ops[1]
	if a.Rows() != a.Cols() {
		return sparsity.Pattern{}, errors.New(errors.ErrCodeShapeMismatch,
			"solve: A must be square, got %dx%d", a.Rows(), a.Cols())
	}
	if rhs.Rows() != a.Rows() {
		return sparsity.Pattern{}, errors.New(errors.ErrCodeShapeMismatch,
			"solve: b has %d rows, A is %dx%d", rhs.Rows(), a.Rows(), a.Cols())
	}
	return sparsity.Dense(rhs.Rows(), rhs.Cols()), nil
}

type pinvCallee struct {
	solver  string
	options string
}

func (c pinvCallee) Name() string { return "pinv[" + c.solver + c.options + "]" }

func (c pinvCallee) Result(ops []sparsity.Pattern) (sparsity.Pattern, error) {
	if len(ops) != 1 {
		return sparsity.Pattern{}, errors.New(errors.ErrCodeDimension, "pinv expects 1 argument, got %d", len(ops))
	}
	return sparsity.Dense(ops[0].Cols(), ops[0].Rows()), nil
}

func optionString(options map[string]any) string {
	if len(options) == 0 {
		return ""
	}
	keys := slices.Collect(maps.Keys(options))
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, ",%s=%v", k, options[k])
	}
	return sb.String()
}

// Solve returns a node for the solution of A·x = b using the builder's
// [LinearSolver]. An empty solver name selects [DefaultSolver].
func Solve(a, rhs Expr, solver string, options map[string]any) (Expr, error) {
	b, err := builderOf("solve", []Expr{a, rhs})
	if err != nil {
		return Expr{}, err
	}
	if solver == "" {
		solver = DefaultSolver
	}
	return b.solver.Solve(a, rhs, solver, options)
}

// Pinv returns a node for the pseudo-inverse of A.
func Pinv(a Expr, solver string, options map[string]any) (Expr, error) {
	b, err := builderOf("pinv", []Expr{a})
	if err != nil {
		return Expr{}, err
	}
	if solver == "" {
		solver = DefaultSolver
	}
	return b.solver.Pinv(a, solver, options)
}
