// Package graph provides the serialization format for expression graphs.
//
// This package defines the JSON wire format for symgraph's expression DAGs,
// used for the "json" render format, API responses and cross-tool
// interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between the in-memory node
// store and external formats:
//
//   - [Graph], [Node], [Edge]: Serialization types (this package)
//   - pkg/expr.Expr: In-memory handles owned by an expr.Builder
//
// Use [FromExprs] and [ToExprs] to convert between them.
//
// # Graph Serialization
//
// Graphs use a node-link JSON format. Nodes are listed in ascending id order,
// which is a topological order because a node is always created after its
// operands. Edges run from a node to its operands; Slot is the operand
// position:
//
//	{
//	  "outputs": [3],
//	  "nodes": [
//	    {"id": 1, "kind": "symbol", "label": "x", "rows": 1, "cols": 1, "nnz": 1},
//	    {"id": 2, "kind": "symbol", "label": "y", "rows": 1, "cols": 1, "nnz": 1},
//	    {"id": 3, "kind": "nary", "op": "mul", "rows": 1, "cols": 1, "nnz": 1}
//	  ],
//	  "edges": [{"from": 3, "to": 1}, {"from": 3, "to": 2, "slot": 1}]
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalGraph(outputs...)      // Exprs → []byte
//	graph.WriteGraphFile("out.json", outputs...)   // Exprs → File
//	g, _ := graph.UnmarshalGraph(data)             // []byte → Graph
//	ex, _ := graph.ToExprs(expr.NewBuilder(), g)   // Graph → Exprs
//
// Call nodes are exported with their callee name as label but cannot be
// imported: the callee itself is opaque.
package graph
