package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// browseCommand creates the interactive demo picker.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Pick a demo interactively and inspect it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := demoRows()
			if err != nil {
				return err
			}

			p := tea.NewProgram(NewDemoListModel(rows), tea.WithContext(cmd.Context()))
			finalModel, err := p.Run()
			if err != nil {
				return err
			}

			fm, ok := finalModel.(DemoListModel)
			if !ok || fm.Selected == "" {
				printDetail(cmd.OutOrStdout(), "No selection made")
				return nil
			}
			return c.runInspect(cmd.OutOrStdout(), fm.Selected, nil)
		},
	}
}
