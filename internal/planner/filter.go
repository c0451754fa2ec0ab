package planner

import (
	"sort"
	"strings"
	"time"

	"github.com/nhle/crm-planner/internal/model"
)

// FilterSpec selects unified tasks. Nil fields impose no constraint;
// set fields must all match (conjunctive).
type FilterSpec struct {
	Status     *model.TaskStatus
	Priority   *model.Priority
	Type       *model.TaskType
	ParentType *model.ParentType
	AssignedTo *string

	// DueFrom and DueTo bound the due date, inclusive on both ends.
	DueFrom *time.Time
	DueTo   *time.Time
}

// HasConditions reports whether any constraint is set.
func (s FilterSpec) HasConditions() bool {
	return s.Status != nil || s.Priority != nil || s.Type != nil ||
		s.ParentType != nil || s.AssignedTo != nil ||
		s.DueFrom != nil || s.DueTo != nil
}

// SortField names a sortable unified-task column.
type SortField string

const (
	SortByDueDate     SortField = "due_date"
	SortByPriority    SortField = "priority"
	SortByTitle       SortField = "title"
	SortByParentTitle SortField = "parent_title"
	SortByCreatedAt   SortField = "created_at"
)

// SortSpec orders unified tasks by a single field.
type SortSpec struct {
	Field      SortField
	Descending bool
}

// priorityRank maps priorities onto a fixed ordinal scale for sorting.
// Absent priority sorts with Low.
var priorityRank = map[model.Priority]int{
	model.PriorityCritical: 4,
	model.PriorityHigh:     3,
	model.PriorityMedium:   2,
	model.PriorityLow:      1,
}

// rank returns the sort ordinal for a priority.
func rank(p model.Priority) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return priorityRank[model.PriorityLow]
}

// Filter returns the tasks matching spec, preserving input order.
// The input slice is never modified.
func Filter(tasks []model.UnifiedTask, spec FilterSpec) []model.UnifiedTask {
	out := make([]model.UnifiedTask, 0, len(tasks))
	for _, t := range tasks {
		if matches(t, spec) {
			out = append(out, t)
		}
	}
	return out
}

// matches reports whether a task satisfies every set constraint.
func matches(t model.UnifiedTask, spec FilterSpec) bool {
	if spec.Status != nil && t.Status != *spec.Status {
		return false
	}
	if spec.Priority != nil && t.Priority != *spec.Priority {
		return false
	}
	if spec.Type != nil && t.Type != *spec.Type {
		return false
	}
	if spec.ParentType != nil && t.ParentType != *spec.ParentType {
		return false
	}
	if spec.AssignedTo != nil && t.AssignedTo != *spec.AssignedTo {
		return false
	}
	if spec.DueFrom != nil && t.DueDate.Before(*spec.DueFrom) {
		return false
	}
	if spec.DueTo != nil && t.DueDate.After(*spec.DueTo) {
		return false
	}
	return true
}

// Sort returns a new slice ordered by spec. The sort is stable, so
// ties keep the input's relative order, and the input is not mutated.
func Sort(tasks []model.UnifiedTask, spec SortSpec) []model.UnifiedTask {
	out := make([]model.UnifiedTask, len(tasks))
	copy(out, tasks)

	less := lessFunc(spec.Field)
	if spec.Descending {
		asc := less
		less = func(a, b model.UnifiedTask) bool { return asc(b, a) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})

	return out
}

// lessFunc returns the ascending comparison for a sort field.
// Unknown fields fall back to due date.
func lessFunc(field SortField) func(a, b model.UnifiedTask) bool {
	switch field {
	case SortByPriority:
		return func(a, b model.UnifiedTask) bool {
			return rank(a.Priority) < rank(b.Priority)
		}
	case SortByTitle:
		return func(a, b model.UnifiedTask) bool {
			return lexLess(a.Title, b.Title)
		}
	case SortByParentTitle:
		return func(a, b model.UnifiedTask) bool {
			return lexLess(a.ParentTitle, b.ParentTitle)
		}
	case SortByCreatedAt:
		return func(a, b model.UnifiedTask) bool {
			return a.CreatedAt.UnixMilli() < b.CreatedAt.UnixMilli()
		}
	default:
		return func(a, b model.UnifiedTask) bool {
			return a.DueDate.UnixMilli() < b.DueDate.UnixMilli()
		}
	}
}

// lexLess compares titles case-insensitively, falling back to a
// case-sensitive comparison to keep the ordering total.
func lexLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}
