package planner

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/crm-planner/internal/keys"
	"github.com/nhle/crm-planner/internal/model"
	plan "github.com/nhle/crm-planner/internal/planner"
	"github.com/nhle/crm-planner/internal/theme"
)

// TasksLoadedMsg is sent when the unified task list has been rebuilt.
type TasksLoadedMsg struct {
	Tasks []model.UnifiedTask
}

// SelectedTaskMsg is sent when a user selects a task to view details.
// Task IDs repeat across types, so the type travels with the id.
type SelectedTaskMsg struct {
	Type   model.TaskType
	TaskID string
}

// CompleteTaskMsg is sent when a user marks the selected task complete.
type CompleteTaskMsg struct {
	Type   model.TaskType
	TaskID string
}

// OpenFilterMsg is sent when a user requests the filter form.
type OpenFilterMsg struct{}

// sortModes defines the available sort fields cycled by Tab.
var sortModes = []plan.SortField{
	plan.SortByDueDate,
	plan.SortByPriority,
	plan.SortByTitle,
	plan.SortByParentTitle,
	plan.SortByCreatedAt,
}

// Model is the unified task list view component.
type Model struct {
	list      list.Model
	keys      *keys.KeyMap
	tasks     []model.UnifiedTask
	filter    plan.FilterSpec
	sort      plan.SortSpec
	sortIndex int
	width     int
	height    int
}

// New creates a new planner list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Tasks"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		sort:   plan.SortSpec{Field: plan.SortByDueDate},
		width:  width,
		height: height,
	}
}

// Init returns the initial command for the list view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		m.tasks = msg.Tasks
		return m, m.refreshItems()

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKeys processes key input for the list view.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{Type: item.Task.Type, TaskID: item.Task.ID}
		}

	case key.Matches(msg, m.keys.Complete):
		item, ok := m.list.SelectedItem().(TaskItem)
		if !ok || item.Task.IsComplete {
			return m, nil
		}
		return m, func() tea.Msg {
			return CompleteTaskMsg{Type: item.Task.Type, TaskID: item.Task.ID}
		}

	case key.Matches(msg, m.keys.Filter):
		return m, func() tea.Msg {
			return OpenFilterMsg{}
		}

	case key.Matches(msg, m.keys.CycleSort):
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		m.sort.Field = sortModes[m.sortIndex]
		return m, m.refreshItems()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// SetFilter replaces the active filter and re-renders the list.
func (m *Model) SetFilter(spec plan.FilterSpec) tea.Cmd {
	m.filter = spec
	return m.refreshItems()
}

// SetSort replaces the active sort and re-renders the list.
func (m *Model) SetSort(spec plan.SortSpec) tea.Cmd {
	m.sort = spec
	for i, f := range sortModes {
		if f == spec.Field {
			m.sortIndex = i
			break
		}
	}
	return m.refreshItems()
}

// Filter returns the active filter spec.
func (m Model) Filter() plan.FilterSpec {
	return m.filter
}

// Sort returns the active sort spec.
func (m Model) Sort() plan.SortSpec {
	return m.sort
}

// refreshItems applies the active filter and sort to the full task set
// and pushes the result into the list.
func (m *Model) refreshItems() tea.Cmd {
	visible := plan.Sort(plan.Filter(m.tasks, m.filter), m.sort)

	items := make([]list.Item, len(visible))
	for i, task := range visible {
		items[i] = TaskItem{Task: task}
	}
	return m.list.SetItems(items)
}

// View renders the task list view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	sortLine := theme.HelpStyle.Render(fmt.Sprintf("sort: %s", m.sort.Field))
	return lipgloss.JoinVertical(lipgloss.Left, m.list.View(), sortLine)
}

// renderEmptyState shows guidance text when no tasks are visible.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.filter.HasConditions() {
		return style.Render("No matching tasks.\nPress f to adjust your filters.")
	}

	return style.Render(
		"No open tasks.\n\n" +
			"Drop export files into the watched directory, or press r to refresh.",
	)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
