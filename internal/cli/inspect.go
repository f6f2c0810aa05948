package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr"
	"github.com/matzehuels/symgraph/pkg/expr/transform"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var dependsOn []string

	cmd := &cobra.Command{
		Use:   "inspect [demo|graph.json]",
		Short: "Summarize a demo graph",
		Long: `Print node counts, free symbols, shared nodes and expansion regions of
a demo graph, followed by each output.

With --depends-on, also report which outputs structurally depend on the
named symbols.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.OutOrStdout(), args[0], dependsOn)
		},
	}
	demoArgs(cmd)

	cmd.Flags().StringSliceVar(&dependsOn, "depends-on", nil, "symbol names to test dependency on")

	return cmd
}

func (c *CLI) runInspect(w io.Writer, name string, dependsOn []string) error {
	g, b, err := c.buildDemo(name)
	if err != nil {
		return err
	}

	syms := transform.Symbols(g.Outputs...)
	_, shared, _, err := transform.ExtractShared(g.Outputs, transform.DefaultSharedPrefix, "")
	if err != nil {
		return err
	}
	regions, err := transform.Partition(g.Outputs, g.Boundary)
	if err != nil {
		return err
	}

	names := make([]string, len(syms))
	for i, s := range syms {
		names[i] = fmt.Sprintf("%s (%dx%d)", s.Name(), s.Rows(), s.Cols())
	}

	fmt.Fprintln(w, StyleTitle.Render(name))
	printKeyValue(w, "outputs", strconv.Itoa(len(g.Outputs)))
	printKeyValue(w, "nodes", strconv.Itoa(transform.CountNodes(g.Outputs...)))
	printKeyValue(w, "symbols", strings.Join(names, ", "))
	printKeyValue(w, "shared", strconv.Itoa(len(shared)))
	printKeyValue(w, "regions", strconv.Itoa(len(regions)))
	printKeyValue(w, "memo", fmt.Sprintf("%d entries", b.MemoSize()))
	if _, hits, ok := graphCounts(); ok {
		printKeyValue(w, "memo hits", strconv.FormatInt(hits, 10))
	}
	printNewline(w)

	for i, e := range g.Outputs {
		printInfo(w, "out[%d] %s", i, e)
		printDetail(w, "%dx%d, %d non-zeros", e.Rows(), e.Cols(), e.Sparsity().NNZ())
	}

	if len(dependsOn) == 0 {
		return nil
	}
	args, err := lookupSymbols(syms, dependsOn)
	if err != nil {
		return err
	}
	printNewline(w)
	for i, e := range g.Outputs {
		dep, err := transform.DependsOn(e, args...)
		if err != nil {
			return err
		}
		if dep {
			printSuccess(w, "out[%d] depends on %s", i, strings.Join(dependsOn, ", "))
		} else {
			printWarning(w, "out[%d] does not depend on %s", i, strings.Join(dependsOn, ", "))
		}
	}
	return nil
}

// lookupSymbols resolves names against the free symbols of a graph.
func lookupSymbols(syms []expr.Expr, names []string) ([]expr.Expr, error) {
	byName := make(map[string]expr.Expr, len(syms))
	for _, s := range syms {
		byName[s.Name()] = s
	}
	out := make([]expr.Expr, len(names))
	for i, n := range names {
		s, ok := byName[n]
		if !ok {
			return nil, errors.New(errors.ErrCodeNotFound, "no symbol %q in graph", n)
		}
		out[i] = s
	}
	return out, nil
}
