package transform

import (
	"slices"
	"strconv"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr"
)

// Region is a maximal connected set of unary and n-ary nodes that can be
// expanded as one unit.
type Region struct {
	// Root is the only node of the region referenced from outside it.
	Root expr.Expr
	// Nodes lists the members in ascending id; Root is last.
	Nodes []expr.Expr
	// Frontier lists the children of members that are not members
	// themselves, in ascending id. These are the region's inputs.
	Frontier []expr.Expr
	// Inputs holds the current expression for each Frontier node. During
	// MatrixExpand these are the already expanded replacements; from
	// Partition they equal Frontier.
	Inputs []expr.Expr
}

// Expander replaces a region by a single node of the same shape as its
// root.
type Expander interface {
	Expand(r Region) (expr.Expr, error)
}

// ExpanderFunc adapts a function to the [Expander] interface.
type ExpanderFunc func(r Region) (expr.Expr, error)

// Expand implements [Expander].
func (f ExpanderFunc) Expand(r Region) (expr.Expr, error) { return f(r) }

// CallExpander packages each region as an [expr.Function] of fresh input
// symbols and applies it to the region's inputs.
type CallExpander struct {
	// Prefix names the generated functions, followed by the root id.
	// Defaults to "region_".
	Prefix string
}

// Expand implements [Expander].
func (c CallExpander) Expand(r Region) (expr.Expr, error) {
	b := r.Root.Builder()
	params := make([]expr.Expr, len(r.Frontier))
	for i, f := range r.Frontier {
		p, err := b.SymbolWithPattern("i"+strconv.Itoa(i), f.Sparsity())
		if err != nil {
			return expr.Expr{}, err
		}
		params[i] = p
	}
	body, err := GraphSubstitute([]expr.Expr{r.Root}, r.Frontier, params)
	if err != nil {
		return expr.Expr{}, err
	}

	prefix := c.Prefix
	if prefix == "" {
		prefix = "region_"
	}
	fn, err := expr.NewFunction(prefix+strconv.FormatInt(r.Root.ID(), 10), params, body[0])
	if err != nil {
		return expr.Expr{}, err
	}
	return b.Call(fn, r.Inputs...)
}

// partition is the region assignment of the graph reachable from a set of
// outputs, stopping at boundary nodes.
type partition struct {
	order    []expr.Expr // reachable nodes, ascending id
	boundary map[int64]bool
	region   map[int64]int // node id -> index into regions
	regions  []Region
}

func expandable(n expr.Expr, boundary map[int64]bool) bool {
	k := n.Kind()
	return (k == expr.KindUnary || k == expr.KindNary) && !boundary[n.ID()]
}

func newPartition(ex, boundary []expr.Expr) *partition {
	p := &partition{
		boundary: make(map[int64]bool, len(boundary)),
		region:   make(map[int64]int),
	}
	for _, e := range boundary {
		p.boundary[e.ID()] = true
	}

	// Reachable nodes and their parents, never descending below the boundary.
	seen := make(map[int64]bool)
	parents := make(map[int64][]expr.Expr)
	stack := slices.Clone(ex)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[n.ID()] {
			continue
		}
		seen[n.ID()] = true
		p.order = append(p.order, n)
		if p.boundary[n.ID()] {
			continue
		}
		for i := range n.NumDeps() {
			c := n.Dep(i)
			if ps := parents[c.ID()]; len(ps) == 0 || !ps[len(ps)-1].Is(n) {
				parents[c.ID()] = append(ps, n)
			}
			stack = append(stack, c)
		}
	}
	slices.SortFunc(p.order, func(a, b expr.Expr) int { return int(a.ID() - b.ID()) })

	output := make(map[int64]bool, len(ex))
	for _, e := range ex {
		output[e.ID()] = true
	}

	// Assign regions from the outputs down. A node joins the region of its
	// parents when they all belong to one region; otherwise it roots a new one.
	for i := len(p.order) - 1; i >= 0; i-- {
		n := p.order[i]
		if !expandable(n, p.boundary) {
			continue
		}
		joined := -1
		if !output[n.ID()] {
			for _, par := range parents[n.ID()] {
				rid, ok := p.region[par.ID()]
				if !ok || (joined >= 0 && rid != joined) {
					joined = -1
					break
				}
				joined = rid
			}
		}
		if joined < 0 {
			joined = len(p.regions)
			p.regions = append(p.regions, Region{Root: n})
		}
		p.region[n.ID()] = joined
	}

	for _, n := range p.order {
		rid, ok := p.region[n.ID()]
		if !ok {
			continue
		}
		r := &p.regions[rid]
		r.Nodes = append(r.Nodes, n)
		for i := range n.NumDeps() {
			c := n.Dep(i)
			if cr, in := p.region[c.ID()]; in && cr == rid {
				continue
			}
			if !slices.ContainsFunc(r.Frontier, c.Is) {
				r.Frontier = append(r.Frontier, c)
			}
		}
	}
	for i := range p.regions {
		r := &p.regions[i]
		slices.SortFunc(r.Frontier, func(a, b expr.Expr) int { return int(a.ID() - b.ID()) })
		r.Inputs = slices.Clone(r.Frontier)
	}
	slices.SortFunc(p.regions, func(a, b Region) int { return int(a.Root.ID() - b.Root.ID()) })
	for i, r := range p.regions {
		for _, n := range r.Nodes {
			p.region[n.ID()] = i
		}
	}
	return p
}

// Partition splits the graph reachable from ex into maximal regions of
// unary and n-ary nodes. Boundary nodes are never part of a region and the
// traversal does not descend below them. Symbols, constants, concatenations,
// slices and calls end a region but are traversed. A node shared by parents
// in different regions, or referenced by a non-expandable node or by ex
// directly, roots its own region. Regions are returned in ascending root id.
func Partition(ex, boundary []expr.Expr) ([]Region, error) {
	if _, err := sameBuilder("partition", ex, boundary); err != nil {
		return nil, err
	}
	return newPartition(ex, boundary).regions, nil
}

// MatrixExpand replaces every region of the graph reachable from ex by the
// node the expander returns for it, rebuilding the non-expandable nodes
// around them. Regions are expanded children first, so the Inputs of each
// region already refer to expanded nodes. The expander must return a node
// of the same shape as the region root.
func MatrixExpand(ex, boundary []expr.Expr, expander Expander) (out []expr.Expr, err error) {
	const op = "matrix_expand"
	b, err := sameBuilder(op, ex, boundary)
	if err != nil {
		return nil, err
	}
	if expander == nil {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "%s: nil expander", op)
	}
	if b == nil {
		return nil, nil
	}

	p := newPartition(ex, boundary)
	r := newRewriter(b)
	defer track(op, len(ex))(&r.stats, &err)

	for _, n := range p.order {
		r.stats.Visited++
		switch rid, in := p.region[n.ID()]; {
		case p.boundary[n.ID()]:
			r.memo[n.ID()] = n
		case in:
			reg := p.regions[rid]
			if !reg.Root.Is(n) {
				continue
			}
			for i, f := range reg.Frontier {
				reg.Inputs[i] = r.memo[f.ID()]
			}
			res, err := expander.Expand(reg)
			if err != nil {
				return nil, errors.Wrap(codeOf(err), err, "%s: region %d", op, n.ID())
			}
			if res.IsNull() || res.Shape() != n.Shape() {
				return nil, errors.New(errors.ErrCodeShapeMismatch,
					"%s: expansion of region %d does not match its %dx%d root", op, n.ID(), n.Rows(), n.Cols())
			}
			r.stats.Created++
			r.memo[n.ID()] = res
		default:
			rebuilt, err := r.rebuild(n)
			if err != nil {
				return nil, err
			}
			r.memo[n.ID()] = rebuilt
		}
	}

	out = make([]expr.Expr, len(ex))
	for i, e := range ex {
		out[i] = r.memo[e.ID()]
	}
	return out, nil
}
