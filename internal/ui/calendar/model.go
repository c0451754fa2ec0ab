package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/crm-planner/internal/keys"
	"github.com/nhle/crm-planner/internal/model"
	plan "github.com/nhle/crm-planner/internal/planner"
	"github.com/nhle/crm-planner/internal/theme"
)

// maxSectionTasks caps how many tasks are drawn per section before the
// view falls back to a "+N more" line.
const maxSectionTasks = 6

// Model is the calendar view: a month grid alongside the weekly
// planner sections.
type Model struct {
	keys   *keys.KeyMap
	cal    plan.Calendar
	tasks  []model.UnifiedTask
	now    func() time.Time
	width  int
	height int
}

// New creates a calendar model anchored on the current week.
func New(k *keys.KeyMap, weekStart time.Weekday, width, height int) Model {
	return Model{
		keys:   k,
		cal:    plan.NewCalendar(time.Now(), weekStart),
		now:    time.Now,
		width:  width,
		height: height,
	}
}

// SetTasks replaces the task set the calendar renders.
func (m *Model) SetTasks(tasks []model.UnifiedTask) {
	m.tasks = tasks
}

// Init returns the initial command for the calendar view.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the calendar view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.NextWeek):
		m.cal = m.cal.NextWeek()
	case key.Matches(keyMsg, m.keys.PrevWeek):
		m.cal = m.cal.PrevWeek()
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.cal = m.cal.NextMonth()
	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.cal = m.cal.PrevMonth()
	case key.Matches(keyMsg, m.keys.Today):
		m.cal = plan.NewCalendar(m.now(), m.weekStart())
	case key.Matches(keyMsg, m.keys.Right):
		m.cal = m.cal.Select(m.selectedOrToday().AddDate(0, 0, 1))
	case key.Matches(keyMsg, m.keys.Left):
		m.cal = m.cal.Select(m.selectedOrToday().AddDate(0, 0, -1))
	case key.Matches(keyMsg, m.keys.Back):
		if m.cal.Selected == nil {
			return m, nil
		}
		m.cal = m.cal.ClearSelection()
	}

	return m, nil
}

// weekStart recovers the configured week start from the current anchor.
func (m Model) weekStart() time.Weekday {
	return m.cal.WeekAnchor.Weekday()
}

// selectedOrToday returns the anchor for h/l day stepping.
func (m Model) selectedOrToday() time.Time {
	if m.cal.Selected != nil {
		return *m.cal.Selected
	}
	return plan.StartOfDay(m.now())
}

// View renders the month grid next to the weekly sections.
func (m Model) View() string {
	grid := m.renderMonthGrid()

	var right string
	if m.cal.Selected != nil {
		right = m.renderSelectedDay(*m.cal.Selected)
	} else {
		right = m.renderWeekSections()
	}

	gridPane := theme.BorderStyle.Padding(0, 1).Render(grid)
	return lipgloss.JoinHorizontal(lipgloss.Top, gridPane, "  ", right)
}

// renderMonthGrid draws the displayed month as a 7-column grid with a
// task count marker under each day that has work due.
func (m Model) renderMonthGrid() string {
	var b strings.Builder

	b.WriteString(theme.SectionHeaderStyle.Render(m.cal.Month.Format("January 2006")))
	b.WriteString("\n")

	ws := m.weekStart()
	for i := 0; i < 7; i++ {
		day := time.Weekday((int(ws) + i) % 7)
		b.WriteString(fmt.Sprintf("%-4s", day.String()[:2]))
	}
	b.WriteString("\n")

	cells := m.cal.MonthGrid(m.tasks)
	now := m.now()
	for i, cell := range cells {
		if i > 0 && i%7 == 0 {
			b.WriteString("\n")
		}
		if cell.Day == 0 {
			b.WriteString("    ")
			continue
		}

		label := fmt.Sprintf("%2d", cell.Day)
		switch {
		case m.cal.Selected != nil && plan.SameDay(cell.Date, *m.cal.Selected):
			label = theme.SelectedDayStyle.Render(label)
		case plan.SameDay(cell.Date, now):
			label = theme.TodayStyle.Render(label)
		}

		marker := " "
		if cell.Count > 0 {
			marker = theme.DueDateStyle.Render("•")
		}
		b.WriteString(label + marker + " ")
	}

	return b.String()
}

// renderWeekSections draws the Overdue/Today/Tomorrow/weekday/Later
// sections, skipping empty weekday buckets.
func (m Model) renderWeekSections() string {
	sections := m.cal.WeekSections(m.tasks, m.now())

	var parts []string
	for _, sec := range sections {
		if len(sec.Tasks) == 0 && sec.Key != plan.SectionToday {
			continue
		}
		parts = append(parts, m.renderSection(sec))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderSection draws one labelled bucket of tasks.
func (m Model) renderSection(sec plan.Section) string {
	label := sec.Label
	if !sec.Date.IsZero() && sec.Key != plan.SectionToday && sec.Key != plan.SectionTomorrow {
		label = fmt.Sprintf("%s %s", sec.Label, sec.Date.Format("Jan 02"))
	}

	header := theme.SectionHeaderStyle.Render(label)
	if sec.Key == plan.SectionOverdue {
		header = theme.StatusStyle(model.TaskStatusOverdue).Render(label)
	}

	lines := []string{header}
	if len(sec.Tasks) == 0 {
		lines = append(lines, theme.HelpStyle.Render("  nothing due"))
	}
	for i, t := range sec.Tasks {
		if i == maxSectionTasks {
			lines = append(lines, theme.HelpStyle.Render(
				fmt.Sprintf("  +%d more", len(sec.Tasks)-maxSectionTasks)))
			break
		}
		lines = append(lines, "  "+m.renderTaskLine(t))
	}
	lines = append(lines, "")

	return strings.Join(lines, "\n")
}

// renderSelectedDay draws the tasks due on the selected date.
func (m Model) renderSelectedDay(date time.Time) string {
	tasks := plan.TasksOn(m.tasks, date)

	lines := []string{
		theme.SectionHeaderStyle.Render(date.Format("Monday, Jan 02")),
	}
	if len(tasks) == 0 {
		lines = append(lines, theme.HelpStyle.Render("  nothing due"))
	}
	for _, t := range tasks {
		lines = append(lines, "  "+m.renderTaskLine(t))
	}
	lines = append(lines, "", theme.HelpStyle.Render("esc to return to week view"))

	return strings.Join(lines, "\n")
}

// renderTaskLine draws one compact task line for a calendar bucket.
func (m Model) renderTaskLine(t model.UnifiedTask) string {
	pri := theme.PriorityStyle(t.Priority).Render(string(t.Priority))
	line := fmt.Sprintf("%s %s  %s", pri, t.Title,
		theme.DueDateStyle.Render(t.ParentTitle))
	if t.IsComplete {
		line = theme.DimmedStyle.Render(line)
	}
	return line
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
