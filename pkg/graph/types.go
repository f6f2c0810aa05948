package graph

import (
	"slices"

	"github.com/matzehuels/symgraph/pkg/expr"
)

// =============================================================================
// Graph - Expression Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for expression graphs.
//
// The format is human-readable and designed for round-trip fidelity:
// export → import → export produces the same document up to node ids.
type Graph struct {
	Outputs []int64 `json:"outputs" bson:"outputs"`
	Nodes   []Node  `json:"nodes" bson:"nodes"`
	Edges   []Edge  `json:"edges" bson:"edges"`
}

// Node is one expression node.
type Node struct {
	ID    int64  `json:"id" bson:"id"`
	Kind  string `json:"kind" bson:"kind"`
	Op    string `json:"op,omitempty" bson:"op,omitempty"`
	Label string `json:"label,omitempty" bson:"label,omitempty"` // Symbol name or callee name
	Rows  int    `json:"rows" bson:"rows"`
	Cols  int    `json:"cols" bson:"cols"`
	NNZ   int    `json:"nnz" bson:"nnz"`

	// NZ lists the column-major non-zero indices of a sparse symbol.
	NZ     []int     `json:"nz,omitempty" bson:"nz,omitempty"`
	Values []float64 `json:"values,omitempty" bson:"values,omitempty"` // Row-major constant entries
	Axis   string    `json:"axis,omitempty" bson:"axis,omitempty"`
	Rect   *Rect     `json:"rect,omitempty" bson:"rect,omitempty"`
}

// Rect is the block a slice node selects from its operand.
type Rect struct {
	R0 int `json:"r0" bson:"r0"`
	R1 int `json:"r1" bson:"r1"`
	C0 int `json:"c0" bson:"c0"`
	C1 int `json:"c1" bson:"c1"`
}

// Edge points from a node to its operand at position Slot.
type Edge struct {
	From int64 `json:"from" bson:"from"`
	To   int64 `json:"to" bson:"to"`
	Slot int   `json:"slot,omitempty" bson:"slot,omitempty"`
}

// =============================================================================
// Conversion from Exprs
// =============================================================================

// FromExprs converts the graph reachable from outputs into its serialization
// format. Nodes are sorted by id for deterministic output.
func FromExprs(outputs ...expr.Expr) Graph {
	order := expr.TopoSort(outputs...)
	slices.SortFunc(order, func(a, b expr.Expr) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})

	g := Graph{
		Outputs: make([]int64, 0, len(outputs)),
		Nodes:   make([]Node, 0, len(order)),
	}
	for _, o := range outputs {
		if !o.IsNull() {
			g.Outputs = append(g.Outputs, o.ID())
		}
	}
	for _, e := range order {
		g.Nodes = append(g.Nodes, toNode(e))
		for slot, c := range e.Children() {
			g.Edges = append(g.Edges, Edge{From: e.ID(), To: c.ID(), Slot: slot})
		}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	return g
}

func toNode(e expr.Expr) Node {
	sp := e.Sparsity()
	n := Node{
		ID:   e.ID(),
		Kind: e.Kind().String(),
		Rows: e.Rows(),
		Cols: e.Cols(),
		NNZ:  sp.NNZ(),
	}
	switch e.Kind() {
	case expr.KindSymbol:
		n.Label = e.Name()
		if !sp.IsDense() {
			n.NZ = sp.Indices()
		}
	case expr.KindConstant:
		n.Values = e.Values()
	case expr.KindUnary, expr.KindNary:
		n.Op = e.Op().String()
	case expr.KindConcat:
		n.Axis = e.Axis().String()
	case expr.KindSlice:
		r := e.Rect()
		n.Rect = &Rect{R0: r.R0, R1: r.R1, C0: r.C0, C1: r.C1}
	case expr.KindCall:
		n.Label = e.Callee().Name()
	}
	return n
}
