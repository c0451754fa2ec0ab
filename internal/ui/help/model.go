package help

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/crm-planner/internal/keys"
	"github.com/nhle/crm-planner/internal/theme"
)

// section groups related bindings under a heading.
type section struct {
	title    string
	bindings []key.Binding
}

// Model is the help overlay view.
type Model struct {
	sections []section
	width    int
	height   int
}

// New creates a help view for the given key map.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		sections: []section{
			{title: "Navigation", bindings: []key.Binding{
				k.Up, k.Down, k.Left, k.Right, k.Select, k.Back,
			}},
			{title: "Tasks", bindings: []key.Binding{
				k.Complete, k.Postpone, k.Filter, k.CycleSort, k.Refresh,
			}},
			{title: "Calendar", bindings: []key.Binding{
				k.Calendar, k.PrevWeek, k.NextWeek,
				k.PrevMonth, k.NextMonth, k.Today,
			}},
			{title: "General", bindings: []key.Binding{
				k.Help, k.Quit,
			}},
		},
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the grouped shortcut reference.
func (m Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Keyboard Shortcuts")

	keyStyle := lipgloss.NewStyle().Foreground(theme.ColorYellow).Width(8)
	descStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	parts := []string{title}
	for _, s := range m.sections {
		parts = append(parts, theme.SectionHeaderStyle.Render(s.title))
		for _, b := range s.bindings {
			if !b.Enabled() {
				continue
			}
			h := b.Help()
			parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top,
				keyStyle.Render(h.Key),
				descStyle.Render(h.Desc),
			))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
