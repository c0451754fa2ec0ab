package filterform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/crm-planner/internal/model"
	plan "github.com/nhle/crm-planner/internal/planner"
	"github.com/nhle/crm-planner/internal/theme"
)

// FilterAppliedMsg is dispatched when the form is submitted.
type FilterAppliedMsg struct {
	Filter plan.FilterSpec
	Sort   plan.SortSpec
}

// FilterCancelMsg is dispatched when the user cancels the form.
type FilterCancelMsg struct{}

// anyValue marks a select option as imposing no constraint.
const anyValue = ""

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	status     string
	priority   string
	taskType   string
	parentType string
	assignedTo string
	dueFrom    string
	dueTo      string
	sortField  string
	sortDesc   bool
}

// Model is the Bubble Tea model for the filter/sort form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	users  []model.User
	width  int
	height int
}

// New creates a new filter form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{sortField: string(plan.SortByDueDate)},
		width:  width,
		height: height,
	}
}

// SetUsers sets the assignee options for the form selector.
func (m *Model) SetUsers(users []model.User) {
	m.users = users
}

// Start initializes the form, pre-filled from the active filter and sort.
func (m *Model) Start(filter plan.FilterSpec, sort plan.SortSpec) tea.Cmd {
	m.fb.status = stringOrAny((*string)(filter.Status))
	m.fb.priority = stringOrAny((*string)(filter.Priority))
	m.fb.taskType = stringOrAny((*string)(filter.Type))
	m.fb.parentType = stringOrAny((*string)(filter.ParentType))
	m.fb.assignedTo = stringOrAny(filter.AssignedTo)
	m.fb.dueFrom = dateOrEmpty(filter.DueFrom)
	m.fb.dueTo = dateOrEmpty(filter.DueTo)
	m.fb.sortField = string(sort.Field)
	m.fb.sortDesc = sort.Descending

	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the filter form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return FilterCancelMsg{} }
	}

	return m, cmd
}

// View renders the filter form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Filter & Sort") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewSelect[string]().
			Title("Status").
			Options(
				huh.NewOption("Any", anyValue),
				huh.NewOption("Overdue", string(model.TaskStatusOverdue)),
				huh.NewOption("Due Today", string(model.TaskStatusDueToday)),
				huh.NewOption("Upcoming", string(model.TaskStatusUpcoming)),
				huh.NewOption("Completed", string(model.TaskStatusCompleted)),
			).
			Value(&m.fb.status),
		huh.NewSelect[string]().
			Title("Priority").
			Options(
				huh.NewOption("Any", anyValue),
				huh.NewOption("Critical", string(model.PriorityCritical)),
				huh.NewOption("High", string(model.PriorityHigh)),
				huh.NewOption("Medium", string(model.PriorityMedium)),
				huh.NewOption("Low", string(model.PriorityLow)),
			).
			Value(&m.fb.priority),
		huh.NewSelect[string]().
			Title("Task Kind").
			Options(
				huh.NewOption("Any", anyValue),
				huh.NewOption("Opportunity Activity", string(model.TaskTypeOpportunityActivity)),
				huh.NewOption("Opportunity Checklist", string(model.TaskTypeOpportunityChecklist)),
				huh.NewOption("Opportunity Blocker", string(model.TaskTypeOpportunityBlocker)),
				huh.NewOption("Assignment Activity", string(model.TaskTypeAssignmentActivity)),
				huh.NewOption("Assignment Checklist", string(model.TaskTypeAssignmentChecklist)),
			).
			Value(&m.fb.taskType),
		huh.NewSelect[string]().
			Title("Parent").
			Options(
				huh.NewOption("Any", anyValue),
				huh.NewOption("Opportunity", string(model.ParentTypeOpportunity)),
				huh.NewOption("Assignment", string(model.ParentTypeAssignment)),
			).
			Value(&m.fb.parentType),
		m.assigneeField(),
		huh.NewInput().
			Title("Due From").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueFrom).
			Validate(validateOptionalDate),
		huh.NewInput().
			Title("Due To").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueTo).
			Validate(validateOptionalDate),
		huh.NewSelect[string]().
			Title("Sort By").
			Options(
				huh.NewOption("Due Date", string(plan.SortByDueDate)),
				huh.NewOption("Priority", string(plan.SortByPriority)),
				huh.NewOption("Title", string(plan.SortByTitle)),
				huh.NewOption("Parent", string(plan.SortByParentTitle)),
				huh.NewOption("Created", string(plan.SortByCreatedAt)),
			).
			Value(&m.fb.sortField),
		huh.NewConfirm().
			Title("Descending").
			Value(&m.fb.sortDesc),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) assigneeField() huh.Field {
	opts := []huh.Option[string]{
		huh.NewOption("Anyone", anyValue),
	}
	for _, u := range m.users {
		label := u.DisplayName
		if label == "" {
			label = u.ID
		}
		opts = append(opts, huh.NewOption(label, u.ID))
	}
	return huh.NewSelect[string]().
		Title("Assignee").
		Options(opts...).
		Value(&m.fb.assignedTo)
}

func (m Model) handleSubmit() tea.Cmd {
	var filter plan.FilterSpec

	if m.fb.status != anyValue {
		s := model.TaskStatus(m.fb.status)
		filter.Status = &s
	}
	if m.fb.priority != anyValue {
		p := model.Priority(m.fb.priority)
		filter.Priority = &p
	}
	if m.fb.taskType != anyValue {
		t := model.TaskType(m.fb.taskType)
		filter.Type = &t
	}
	if m.fb.parentType != anyValue {
		pt := model.ParentType(m.fb.parentType)
		filter.ParentType = &pt
	}
	if m.fb.assignedTo != anyValue {
		a := m.fb.assignedTo
		filter.AssignedTo = &a
	}
	// Due dates are local, so the range boundaries must be too.
	if t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(m.fb.dueFrom), time.Local); err == nil {
		filter.DueFrom = &t
	}
	if t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(m.fb.dueTo), time.Local); err == nil {
		// Inclusive upper bound: cover the whole calendar day.
		end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.DueTo = &end
	}

	sort := plan.SortSpec{
		Field:      plan.SortField(m.fb.sortField),
		Descending: m.fb.sortDesc,
	}

	return func() tea.Msg {
		return FilterAppliedMsg{Filter: filter, Sort: sort}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func stringOrAny(p *string) string {
	if p == nil {
		return anyValue
	}
	return *p
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
