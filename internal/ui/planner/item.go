package planner

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/crm-planner/internal/model"
	"github.com/nhle/crm-planner/internal/theme"
)

// TaskItem wraps a model.UnifiedTask so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.UnifiedTask
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{
		string(i.Task.ParentType),
		i.Task.ParentTitle,
		string(i.Task.Status),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering task lines.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	taskItem, ok := item.(TaskItem)
	if !ok {
		return
	}

	task := taskItem.Task
	isSelected := index == m.Index()

	var prefix string
	if task.IsComplete {
		prefix = "✓"
	} else {
		prefix = "○"
	}

	parentBadge := theme.ParentBadgeStyle(task.ParentType).Render(parentLabel(task.ParentType))
	statusBadge := theme.StatusStyle(task.Status).Render(string(task.Status))
	priBadge := theme.PriorityStyle(task.Priority).Render(priorityLabel(task.Priority))

	dueStr := theme.DueDateStyle.Render(" " + dueLabel(task.DueDate))

	assignee := ""
	if task.AssignedToName != "" {
		assignee = theme.DueDateStyle.Render(" @" + task.AssignedToName)
	}

	line := fmt.Sprintf(
		"%s %s %s %s %s%s%s",
		prefix, parentBadge, statusBadge, priBadge, task.Title, dueStr, assignee,
	)

	if task.IsComplete {
		line = theme.DimmedStyle.Render(line)
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// dueLabel returns a human-friendly label for a due date relative to now.
func dueLabel(due time.Time) string {
	today := time.Now()
	switch {
	case sameDay(due, today):
		return "today"
	case sameDay(due, today.AddDate(0, 0, 1)):
		return "tomorrow"
	case sameDay(due, today.AddDate(0, 0, -1)):
		return "yesterday"
	default:
		return due.Format("Jan 02")
	}
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// parentLabel returns a short badge for the task's parent kind.
func parentLabel(pt model.ParentType) string {
	switch pt {
	case model.ParentTypeOpportunity:
		return "OPP"
	case model.ParentTypeAssignment:
		return "ASG"
	default:
		return "???"
	}
}

// priorityLabel returns a short label for the given priority.
func priorityLabel(p model.Priority) string {
	switch p {
	case model.PriorityCritical:
		return "P1"
	case model.PriorityHigh:
		return "P2"
	case model.PriorityMedium:
		return "P3"
	case model.PriorityLow:
		return "P4"
	default:
		return "P-"
	}
}
