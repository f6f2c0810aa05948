package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/symgraph/pkg/errors"
	"github.com/matzehuels/symgraph/pkg/expr/transform"
)

// eliminateCommand creates the eliminate command for sequential substitution.
func (c *CLI) eliminateCommand() *cobra.Command {
	var reverse bool

	cmd := &cobra.Command{
		Use:   "eliminate [demo]",
		Short: "Eliminate a demo's definition chain from its outputs",
		Long: `Substitute each definition of a demo's chain into the later definitions
and into the outputs, then print the results.

With --reverse the chain is walked from the last definition back to the
first, substituting only into earlier definitions and the outputs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEliminate(cmd.OutOrStdout(), args[0], reverse)
		},
	}
	demoArgs(cmd)

	cmd.Flags().BoolVar(&reverse, "reverse", false, "walk the definitions in reverse")

	return cmd
}

func (c *CLI) runEliminate(w io.Writer, name string, reverse bool) error {
	g, _, err := c.buildDemo(name)
	if err != nil {
		return err
	}
	if len(g.Vars) == 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "%q has no definitions to eliminate", name)
	}

	defs, out, err := transform.SubstituteInPlace(g.Vars, g.Defs, g.Outputs, reverse)
	if err != nil {
		return fmt.Errorf("eliminate: %w", err)
	}

	for i, v := range g.Vars {
		fmt.Fprintf(w, "%s = %s\n", StyleHighlight.Render(v.Name()), defs[i])
	}
	printNewline(w)
	for i, e := range out {
		fmt.Fprintf(w, "%s %s\n", StyleDim.Render(fmt.Sprintf("out[%d]", i)), e)
	}
	return nil
}
