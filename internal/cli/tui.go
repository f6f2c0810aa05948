package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DemoListModel - Interactive demo selection
// =============================================================================

// DemoListModel is the bubbletea model for picking a demo graph. The
// compact form of the highlighted demo is previewed under the table.
type DemoListModel struct {
	Rows     []demoRow
	Cursor   int
	Selected string
}

// NewDemoListModel creates a picker over rows.
func NewDemoListModel(rows []demoRow) DemoListModel {
	return DemoListModel{Rows: rows}
}

func (m DemoListModel) Init() tea.Cmd {
	return nil
}

func (m DemoListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Rows) > 0 {
				m.Selected = m.Rows[m.Cursor].name
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m DemoListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Demo"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")
	b.WriteString(demoTable(m.Rows, m.Cursor).Render())
	b.WriteString("\n")

	if len(m.Rows) > 0 {
		b.WriteString(previewStyle.Render(strings.TrimRight(m.Rows[m.Cursor].compact, "\n")))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
	return b.String()
}
