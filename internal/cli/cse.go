package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr"
	"github.com/matzehuels/symgraph/pkg/expr/transform"
)

// cseCommand creates the cse command for shared-subexpression extraction.
func (c *CLI) cseCommand() *cobra.Command {
	var prefix, suffix string

	cmd := &cobra.Command{
		Use:   "cse [demo|graph.json]",
		Short: "Hoist shared subexpressions of a demo graph",
		Long: `Hoist every node referenced from two or more places into a named
definition and print the definitions followed by the rewritten outputs.

Names default to the [cse] prefix and suffix of the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("prefix") {
				prefix = c.Config.CSE.Prefix
			}
			if !cmd.Flags().Changed("suffix") {
				suffix = c.Config.CSE.Suffix
			}
			return c.runCSE(cmd.OutOrStdout(), args[0], prefix, suffix)
		},
	}
	demoArgs(cmd)

	cmd.Flags().StringVar(&prefix, "prefix", transform.DefaultSharedPrefix, "name prefix of hoisted definitions")
	cmd.Flags().StringVar(&suffix, "suffix", "", "name suffix of hoisted definitions")

	return cmd
}

func (c *CLI) runCSE(w io.Writer, name, prefix, suffix string) error {
	if err := errors.ValidateIdentifierPart("prefix", prefix); err != nil {
		return err
	}
	if err := errors.ValidateIdentifierPart("suffix", suffix); err != nil {
		return err
	}

	g, _, err := c.buildDemo(name)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	out, v, vdef, err := transform.ExtractShared(g.Outputs, prefix, suffix)
	if err != nil {
		return fmt.Errorf("extract shared: %w", err)
	}
	prog.done("Extracted shared subexpressions", "definitions", len(v))

	for i := range v {
		fmt.Fprintf(w, "%s = %s\n", StyleHighlight.Render(v[i].Name()), vdef[i])
	}
	if len(v) > 0 {
		printNewline(w)
	}
	for i, e := range out {
		fmt.Fprintf(w, "%s %s\n", StyleDim.Render(fmt.Sprintf("out[%d]", i)), e)
	}
	printNewline(w)
	printStats(w, transform.CountNodes(out...), len(out), false)
	return nil
}

// compactForm prints ex with shared nodes written once.
func compactForm(ex []expr.Expr) (string, error) {
	var sb strings.Builder
	if err := transform.PrintCompact(&sb, ex...); err != nil {
		return "", err
	}
	return sb.String(), nil
}
