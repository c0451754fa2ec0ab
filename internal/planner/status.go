// Package planner derives the unified task view from opportunity and
// assignment records: aggregation, status classification, filtering,
// sorting, and calendar bucketing. Everything here is a pure in-memory
// transformation; fetching and persisting the source records is the
// caller's concern.
package planner

import (
	"time"

	"github.com/nhle/crm-planner/internal/model"
)

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ClassifyStatus derives a task's scheduling status from its due date
// and completion flag. Completed wins unconditionally; otherwise the
// comparison is on calendar days, not a rolling 24-hour window, so an
// item due at 23:59 today is still DueToday.
func ClassifyStatus(dueDate time.Time, isComplete bool, now time.Time) model.TaskStatus {
	if isComplete {
		return model.TaskStatusCompleted
	}

	dueDay := StartOfDay(dueDate)
	today := StartOfDay(now)

	switch {
	case dueDay.Before(today):
		return model.TaskStatusOverdue
	case dueDay.Equal(today):
		return model.TaskStatusDueToday
	default:
		return model.TaskStatusUpcoming
	}
}

// InferAssignmentPriority derives a priority for assignment-owned items
// that carry none of their own. Work actively in progress outranks
// untouched backlog; finished assignments keep their leftovers quiet.
func InferAssignmentPriority(assignmentStatus string) model.Priority {
	switch assignmentStatus {
	case model.AssignmentStatusTodo:
		return model.PriorityMedium
	case model.AssignmentStatusInProgress:
		return model.PriorityHigh
	case model.AssignmentStatusDone:
		return model.PriorityLow
	default:
		return model.PriorityLow
	}
}
