package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/symgraph/pkg/expr"
	"github.com/matzehuels/symgraph/pkg/expr/transform"
)

func sharedGraph(t *testing.T) []expr.Expr {
	t.Helper()
	b := expr.NewBuilder()
	x, _ := b.Symbol("x", 1, 1)
	y, _ := b.Symbol("y", 1, 1)
	s := expr.Must(expr.Sin(expr.Must(expr.Mul(x, y))))
	return []expr.Expr{expr.Must(expr.Add(s, y)), expr.Must(expr.Mul(s, b.Scalar(2)))}
}

func TestToDOT(t *testing.T) {
	out := sharedGraph(t)
	dot := ToDOT(out, Options{})

	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Fatalf("not a digraph:\n%s", dot)
	}
	for _, want := range []string{`label="x"`, `label="y"`, `label="sin"`, `label="2"`, "shape=ellipse"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s", want)
		}
	}

	// sin is shared: declared once, referenced by both outputs.
	if n := strings.Count(dot, `label="sin"`); n != 1 {
		t.Errorf("sin declared %d times, want 1", n)
	}
	if n := strings.Count(dot, "peripheries=2"); n != 2 {
		t.Errorf("outputs marked %d times, want 2", n)
	}

	edges := strings.Count(dot, "->")
	if edges != 7 {
		t.Errorf("edge count = %d, want 7", edges)
	}
}

func TestToDOTDetailed(t *testing.T) {
	b := expr.NewBuilder()
	x, _ := b.Symbol("x", 3, 2)
	parts, _ := expr.Vertsplit(x, []int{0, 1, 3})
	dot := ToDOT(parts, Options{Detailed: true})

	if !strings.Contains(dot, `[1:3, 0:2]`) {
		t.Errorf("slice label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `3x2  nnz=6`) {
		t.Errorf("detailed shape missing:\n%s", dot)
	}
}

func TestToDOTRegions(t *testing.T) {
	out := sharedGraph(t)
	regions, err := transform.Partition(out, nil)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	dot := ToDOT(out, Options{Regions: regions})
	if n := strings.Count(dot, "subgraph cluster_"); n != len(regions) {
		t.Errorf("clusters = %d, want %d", n, len(regions))
	}
	if !strings.Contains(dot, "style=dashed;") {
		t.Error("clusters should be dashed")
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(sharedGraph(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("root element not normalized: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox =\n%s\nwant\n%s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should pass through")
	}
}
