package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/crm-planner/internal/keys"
	"github.com/nhle/crm-planner/internal/model"
	"github.com/nhle/crm-planner/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// CompleteMsg signals the parent to mark the shown task complete.
// Task IDs repeat across types, so the type travels with the id.
type CompleteMsg struct {
	Type   model.TaskType
	TaskID string
}

// RescheduleMsg signals the parent to push the shown activity's
// follow-up date out by one day.
type RescheduleMsg struct {
	Type   model.TaskType
	TaskID string
	Date   time.Time
}

// Model is the task detail view component.
type Model struct {
	task     *model.UnifiedTask
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(keyMsg, m.keys.Complete):
			if m.task != nil && !m.task.IsComplete {
				typ, id := m.task.Type, m.task.ID
				return m, func() tea.Msg {
					return CompleteMsg{Type: typ, TaskID: id}
				}
			}

		case key.Matches(keyMsg, m.keys.Postpone):
			if m.task != nil && !m.task.IsComplete && m.task.Type.IsActivity() {
				typ, id := m.task.Type, m.task.ID
				base := m.task.DueDate
				if now := time.Now(); base.Before(now) {
					base = now
				}
				date := base.AddDate(0, 0, 1)
				return m, func() tea.Msg {
					return RescheduleMsg{Type: typ, TaskID: id, Date: date}
				}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.task == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No task selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Title))

	// Badges line: parent kind + status + priority
	parentBadge := theme.ParentBadgeStyle(task.ParentType).
		Render(strings.ToUpper(string(task.ParentType)))
	statusBadge := theme.StatusStyle(task.Status).Render(string(task.Status))
	priBadge := theme.PriorityStyle(task.Priority).Render(priorityName(task.Priority))

	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top, parentBadge, "  ", statusBadge, "  ", priBadge,
	)
	sections = append(sections, badgeLine)
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	row := func(label, value string) string {
		return fmt.Sprintf("%s %s", metaStyle.Render(label), valStyle.Render(value))
	}

	sections = append(sections, row("Kind:     ", string(task.Type)))
	sections = append(sections, row("Parent:   ", task.ParentTitle))
	sections = append(sections, row("Due:      ", task.DueDate.Format("2006-01-02")))
	if task.AssignedToName != "" {
		sections = append(sections, row("Assignee: ", task.AssignedToName))
	} else if task.AssignedTo != "" {
		sections = append(sections, row("Assignee: ", task.AssignedTo))
	}
	if !task.CreatedAt.IsZero() {
		sections = append(sections, row("Created:  ", task.CreatedAt.Format("2006-01-02 15:04")))
	}
	if task.CompletedAt != nil {
		sections = append(sections, row("Completed:", task.CompletedAt.Format("2006-01-02 15:04")))
	}
	if task.LinkedURL != "" {
		sections = append(sections, row("Link:     ", task.LinkedURL))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	if task.IsComplete {
		sections = append(sections, theme.DimmedStyle.Render("This task is complete."))
	} else {
		sections = append(sections, theme.HelpStyle.Render("Press x to mark complete, esc to go back."))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetTask updates the task being displayed and re-renders the content.
func (m *Model) SetTask(task *model.UnifiedTask) {
	m.task = task
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

// priorityName returns a human-readable name for the priority.
func priorityName(p model.Priority) string {
	switch p {
	case model.PriorityCritical:
		return "Critical"
	case model.PriorityHigh:
		return "High"
	case model.PriorityMedium:
		return "Medium"
	case model.PriorityLow:
		return "Low"
	default:
		return "None"
	}
}
