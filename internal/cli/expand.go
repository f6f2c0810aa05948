package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/symgraph/pkg/expr/transform"
)

// expandCommand creates the expand command for the graph partitioner.
func (c *CLI) expandCommand() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "expand [demo|graph.json]",
		Short: "Collapse elementwise regions of a demo graph into calls",
		Long: `Partition a demo graph into maximal regions of unary and n-ary nodes and
replace each region by a call to a function built from it.

Prints one row per region, then the expanded outputs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExpand(cmd.OutOrStdout(), args[0], prefix)
		},
	}
	demoArgs(cmd)

	cmd.Flags().StringVar(&prefix, "prefix", "region_", "name prefix of generated functions")

	return cmd
}

func (c *CLI) runExpand(w io.Writer, name, prefix string) error {
	g, _, err := c.buildDemo(name)
	if err != nil {
		return err
	}

	regions, err := transform.Partition(g.Outputs, g.Boundary)
	if err != nil {
		return err
	}
	prog := newProgress(c.Logger)
	out, err := transform.MatrixExpand(g.Outputs, g.Boundary, transform.CallExpander{Prefix: prefix})
	if err != nil {
		return fmt.Errorf("expand: %w", err)
	}
	prog.done("Expanded regions", "regions", len(regions))

	if len(regions) == 0 {
		printInfo(w, "No expandable regions")
	} else {
		fmt.Fprintln(w, regionTable(regions).Render())
	}
	printNewline(w)
	for i, e := range out {
		fmt.Fprintf(w, "%s %s\n", StyleDim.Render(fmt.Sprintf("out[%d]", i)), e)
	}
	printNewline(w)
	printKeyValue(w, "before", strconv.Itoa(transform.CountNodes(g.Outputs...))+" nodes")
	printKeyValue(w, "after", strconv.Itoa(transform.CountNodes(out...))+" nodes")
	return nil
}

func regionTable(regions []transform.Region) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(regions))
	for i, r := range regions {
		rows[i] = []string{
			strconv.FormatInt(r.Root.ID(), 10),
			r.Root.Op().String(),
			strconv.Itoa(len(r.Nodes)),
			strconv.Itoa(len(r.Frontier)),
			fmt.Sprintf("%dx%d", r.Root.Rows(), r.Root.Cols()),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Root", "Op", "Nodes", "Inputs", "Shape").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}
