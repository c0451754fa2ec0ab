package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/crm-planner/internal/model"
)

func sampleTasks() []model.UnifiedTask {
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	return []model.UnifiedTask{
		{ID: "t1", Title: "beta", ParentTitle: "Acme", Type: model.TaskTypeOpportunityBlocker,
			ParentType: model.ParentTypeOpportunity, Status: model.TaskStatusOverdue,
			Priority: model.PriorityCritical, AssignedTo: "u-1",
			DueDate: base.AddDate(0, 0, -2), CreatedAt: base.AddDate(0, 0, -10)},
		{ID: "t2", Title: "Alpha", ParentTitle: "Zenith", Type: model.TaskTypeAssignmentChecklist,
			ParentType: model.ParentTypeAssignment, Status: model.TaskStatusDueToday,
			Priority: model.PriorityHigh, AssignedTo: "u-2",
			DueDate: base, CreatedAt: base.AddDate(0, 0, -5)},
		{ID: "t3", Title: "alpha", ParentTitle: "Acme", Type: model.TaskTypeOpportunityChecklist,
			ParentType: model.ParentTypeOpportunity, Status: model.TaskStatusUpcoming,
			Priority: model.PriorityLow, AssignedTo: "u-1",
			DueDate: base.AddDate(0, 0, 3), CreatedAt: base.AddDate(0, 0, -1)},
		{ID: "t4", Title: "gamma", ParentTitle: "Midway", Type: model.TaskTypeAssignmentActivity,
			ParentType: model.ParentTypeAssignment, Status: model.TaskStatusUpcoming,
			AssignedTo: "u-2",
			DueDate:    base.AddDate(0, 0, 5), CreatedAt: base.AddDate(0, 0, -3)},
	}
}

func TestFilter(t *testing.T) {
	tasks := sampleTasks()

	t.Run("empty spec matches everything in order", func(t *testing.T) {
		got := Filter(tasks, FilterSpec{})
		require.Len(t, got, len(tasks))
		for i := range tasks {
			assert.Equal(t, tasks[i].ID, got[i].ID)
		}
	})

	t.Run("single field", func(t *testing.T) {
		status := model.TaskStatusUpcoming
		got := Filter(tasks, FilterSpec{Status: &status})
		require.Len(t, got, 2)
		assert.Equal(t, "t3", got[0].ID)
		assert.Equal(t, "t4", got[1].ID)
	})

	t.Run("conditions are conjunctive", func(t *testing.T) {
		status := model.TaskStatusUpcoming
		assignee := "u-1"
		got := Filter(tasks, FilterSpec{Status: &status, AssignedTo: &assignee})
		require.Len(t, got, 1)
		assert.Equal(t, "t3", got[0].ID)
	})

	t.Run("parent type", func(t *testing.T) {
		pt := model.ParentTypeAssignment
		got := Filter(tasks, FilterSpec{ParentType: &pt})
		require.Len(t, got, 2)
	})

	t.Run("due range is inclusive", func(t *testing.T) {
		from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
		to := time.Date(2026, 9, 4, 0, 0, 0, 0, time.Local)
		got := Filter(tasks, FilterSpec{DueFrom: &from, DueTo: &to})
		require.Len(t, got, 2)
		assert.Equal(t, "t2", got[0].ID)
		assert.Equal(t, "t3", got[1].ID)
	})

	t.Run("no match yields empty, non-nil input untouched", func(t *testing.T) {
		pri := model.PriorityMedium
		got := Filter(tasks, FilterSpec{Priority: &pri})
		assert.Empty(t, got)
		assert.Len(t, tasks, 4)
	})
}

func TestFilterSpecHasConditions(t *testing.T) {
	assert.False(t, FilterSpec{}.HasConditions())

	pri := model.PriorityHigh
	assert.True(t, FilterSpec{Priority: &pri}.HasConditions())

	from := time.Now()
	assert.True(t, FilterSpec{DueFrom: &from}.HasConditions())
}

func TestSort(t *testing.T) {
	tasks := sampleTasks()

	t.Run("due date ascending by default", func(t *testing.T) {
		got := Sort(tasks, SortSpec{Field: SortByDueDate})
		ids := []string{got[0].ID, got[1].ID, got[2].ID, got[3].ID}
		assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, ids)
	})

	t.Run("descending flips the order", func(t *testing.T) {
		got := Sort(tasks, SortSpec{Field: SortByDueDate, Descending: true})
		assert.Equal(t, "t4", got[0].ID)
		assert.Equal(t, "t1", got[3].ID)
	})

	t.Run("priority ranks critical highest and absent as low", func(t *testing.T) {
		got := Sort(tasks, SortSpec{Field: SortByPriority, Descending: true})
		assert.Equal(t, "t1", got[0].ID) // critical
		assert.Equal(t, "t2", got[1].ID) // high
	})

	t.Run("absent priority ties with low, input order kept", func(t *testing.T) {
		got := Sort(tasks, SortSpec{Field: SortByPriority})
		// t3 (low) and t4 (absent) share the lowest rank; t3 comes first.
		assert.Equal(t, "t3", got[0].ID)
		assert.Equal(t, "t4", got[1].ID)
	})

	t.Run("title sort is case-insensitive", func(t *testing.T) {
		got := Sort(tasks, SortSpec{Field: SortByTitle})
		assert.Equal(t, "beta", got[2].Title)
		assert.Equal(t, "gamma", got[3].Title)
		// "Alpha" and "alpha" compare equal folded; the case-sensitive
		// tiebreak puts the capitalized one first.
		assert.Equal(t, "Alpha", got[0].Title)
		assert.Equal(t, "alpha", got[1].Title)
	})

	t.Run("parent title groups tasks by record", func(t *testing.T) {
		got := Sort(tasks, SortSpec{Field: SortByParentTitle})
		assert.Equal(t, "Acme", got[0].ParentTitle)
		assert.Equal(t, "Acme", got[1].ParentTitle)
		// Equal parents keep input order.
		assert.Equal(t, "t1", got[0].ID)
		assert.Equal(t, "t3", got[1].ID)
	})

	t.Run("created at", func(t *testing.T) {
		got := Sort(tasks, SortSpec{Field: SortByCreatedAt})
		assert.Equal(t, "t1", got[0].ID)
		assert.Equal(t, "t3", got[3].ID)
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		before := make([]string, len(tasks))
		for i, task := range tasks {
			before[i] = task.ID
		}
		_ = Sort(tasks, SortSpec{Field: SortByTitle, Descending: true})
		for i, task := range tasks {
			assert.Equal(t, before[i], task.ID)
		}
	})
}
