package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/symgraph/pkg/demo"
	"github.com/matzehuels/symgraph/pkg/expr"
	"github.com/matzehuels/symgraph/pkg/expr/transform"
)

// demoCommand creates the demo command group.
func (c *CLI) demoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Work with the built-in demo graphs",
	}
	cmd.AddCommand(c.demoListCommand())
	return cmd
}

// demoListCommand creates the "demo list" subcommand.
func (c *CLI) demoListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in demo graphs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := demoRows()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), demoTable(rows, -1).Render())
			printNewline(cmd.OutOrStdout())
			printNextStep(cmd.OutOrStdout(), "Inspect one", appName+" inspect "+rows[0].name)
			return nil
		},
	}
}

// demoRow summarizes one built demo for tables and the picker.
type demoRow struct {
	name        string
	description string
	outputs     int
	nodes       int
	compact     string
}

func demoRows() ([]demoRow, error) {
	all := demo.All()
	rows := make([]demoRow, len(all))
	for i, d := range all {
		g, err := d.Build(expr.NewBuilder())
		if err != nil {
			return nil, err
		}
		compact, err := compactForm(g.Outputs)
		if err != nil {
			return nil, err
		}
		rows[i] = demoRow{
			name:        d.Name,
			description: d.Description,
			outputs:     len(g.Outputs),
			nodes:       transform.CountNodes(g.Outputs...),
			compact:     compact,
		}
	}
	return rows, nil
}

// demoTable renders rows; the row at cursor (if any) is highlighted.
func demoTable(rows []demoRow, cursor int) *table.Table {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	data := make([][]string, len(rows))
	for i, r := range rows {
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		data[i] = []string{marker + r.name, strconv.Itoa(r.outputs), strconv.Itoa(r.nodes), r.description}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Demo", "Outputs", "Nodes", "Description").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == cursor:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case col == 3:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		})
}
