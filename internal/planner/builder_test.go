package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/crm-planner/internal/model"
)

var buildNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

func testBuilder() *Builder {
	b := NewBuilder(nil)
	b.now = func() time.Time { return buildNow }
	return b
}

func datePtr(t time.Time) *time.Time { return &t }

func day(offset int) time.Time {
	return buildNow.AddDate(0, 0, offset)
}

func findByID(t *testing.T, tasks []model.UnifiedTask, id string) model.UnifiedTask {
	t.Helper()
	for _, task := range tasks {
		if task.ID == id {
			return task
		}
	}
	t.Fatalf("no task with id %q", id)
	return model.UnifiedTask{}
}

func TestBuildExtractsAllPendingItems(t *testing.T) {
	opp := model.Opportunity{
		ID:       "opp-1",
		Title:    "Acme Renewal",
		Stage:    model.StageProposal,
		Priority: model.PriorityHigh,
		OwnerID:  "u-1",
		Activities: []model.Activity{
			{ID: "act-1", Subject: "Call Bob", Status: model.ActivityStatusScheduled,
				DateTime: day(2), CreatedAt: day(-3)},
		},
		Checklist: []model.ChecklistItem{
			{ID: "chk-1", Text: "Send proposal", DueDate: datePtr(day(1)), CreatedAt: day(-2)},
		},
		Blockers: []model.ChecklistItem{
			{ID: "blk-1", Text: "Legal review", DueDate: datePtr(day(-1)), CreatedAt: day(-5)},
		},
	}
	asg := model.Assignment{
		ID:         "asg-1",
		Title:      "Q3 Report",
		Status:     model.AssignmentStatusInProgress,
		AssignedTo: "u-2",
		CreatedAt:  day(-10),
		Checklist: []model.ChecklistItem{
			{ID: "achk-1", Text: "Draft outline", DueDate: datePtr(day(0)), CreatedAt: day(-4)},
		},
		Activities: []model.Activity{
			{ID: "aact-1", Subject: "Review with manager", Status: model.ActivityStatusScheduled,
				FollowUpDate: datePtr(day(3)), CreatedAt: day(-1)},
		},
	}

	tasks := testBuilder().Build([]model.Opportunity{opp}, []model.Assignment{asg})
	require.Len(t, tasks, 5)

	t.Run("opportunity activity", func(t *testing.T) {
		task := findByID(t, tasks, "act-1")
		assert.Equal(t, model.TaskTypeOpportunityActivity, task.Type)
		assert.Equal(t, "Call Bob", task.Title)
		assert.Equal(t, "Acme Renewal", task.ParentTitle)
		assert.Equal(t, model.PriorityHigh, task.Priority)
		assert.Equal(t, model.ParentTypeOpportunity, task.ParentType)
		assert.Equal(t, "u-1", task.AssignedTo)
		assert.Equal(t, "/opportunities/opp-1", task.LinkedURL)
	})

	t.Run("opportunity checklist inherits parent priority", func(t *testing.T) {
		task := findByID(t, tasks, "chk-1")
		assert.Equal(t, model.TaskTypeOpportunityChecklist, task.Type)
		assert.Equal(t, model.PriorityHigh, task.Priority)
		assert.Equal(t, model.TaskStatusUpcoming, task.Status)
	})

	t.Run("blocker is always critical", func(t *testing.T) {
		task := findByID(t, tasks, "blk-1")
		assert.Equal(t, model.TaskTypeOpportunityBlocker, task.Type)
		assert.Equal(t, model.PriorityCritical, task.Priority)
		assert.Equal(t, model.TaskStatusOverdue, task.Status)
	})

	t.Run("assignment checklist infers priority from workflow state", func(t *testing.T) {
		task := findByID(t, tasks, "achk-1")
		assert.Equal(t, model.TaskTypeAssignmentChecklist, task.Type)
		assert.Equal(t, model.PriorityHigh, task.Priority)
		assert.Equal(t, model.TaskStatusDueToday, task.Status)
		assert.Equal(t, "u-2", task.AssignedTo)
	})

	t.Run("assignment activity uses follow-up date", func(t *testing.T) {
		task := findByID(t, tasks, "aact-1")
		assert.Equal(t, model.TaskTypeAssignmentActivity, task.Type)
		assert.True(t, task.DueDate.Equal(day(3)))
	})

	t.Run("output sorted ascending by due date", func(t *testing.T) {
		for i := 1; i < len(tasks); i++ {
			assert.False(t, tasks[i].DueDate.Before(tasks[i-1].DueDate))
		}
	})
}

func TestBuildActivityDateResolution(t *testing.T) {
	t.Run("follow-up wins over scheduled date-time", func(t *testing.T) {
		opp := model.Opportunity{
			ID: "opp-1", Title: "Deal",
			Activities: []model.Activity{
				{ID: "a", Subject: "Demo", Status: model.ActivityStatusScheduled,
					DateTime: day(5), FollowUpDate: datePtr(day(1))},
			},
		}
		tasks := testBuilder().Build([]model.Opportunity{opp}, nil)
		require.Len(t, tasks, 1)
		assert.True(t, tasks[0].DueDate.Equal(day(1)))
	})

	t.Run("scheduled without follow-up falls back to its own date", func(t *testing.T) {
		opp := model.Opportunity{
			ID: "opp-1", Title: "Deal",
			Activities: []model.Activity{
				{ID: "a", Subject: "Demo", Status: model.ActivityStatusScheduled, DateTime: day(5)},
			},
		}
		tasks := testBuilder().Build([]model.Opportunity{opp}, nil)
		require.Len(t, tasks, 1)
		assert.True(t, tasks[0].DueDate.Equal(day(5)))
	})

	t.Run("cancelled activity without follow-up is excluded", func(t *testing.T) {
		opp := model.Opportunity{
			ID: "opp-1", Title: "Deal",
			Activities: []model.Activity{
				{ID: "a", Subject: "Demo", Status: model.ActivityStatusCancelled, DateTime: day(5)},
			},
		}
		tasks := testBuilder().Build([]model.Opportunity{opp}, nil)
		assert.Empty(t, tasks)
	})

	t.Run("cancelled activity with follow-up stays planned", func(t *testing.T) {
		opp := model.Opportunity{
			ID: "opp-1", Title: "Deal",
			Activities: []model.Activity{
				{ID: "a", Subject: "Demo", Status: model.ActivityStatusCancelled,
					DateTime: day(5), FollowUpDate: datePtr(day(2))},
			},
		}
		tasks := testBuilder().Build([]model.Opportunity{opp}, nil)
		require.Len(t, tasks, 1)
		assert.True(t, tasks[0].DueDate.Equal(day(2)))
	})
}

func TestBuildExcludesCompletedAndDateless(t *testing.T) {
	opp := model.Opportunity{
		ID: "opp-1", Title: "Deal",
		Activities: []model.Activity{
			{ID: "done-act", Subject: "Old call", Status: model.ActivityStatusCompleted,
				FollowUpDate: datePtr(day(1))},
		},
		Checklist: []model.ChecklistItem{
			{ID: "done-chk", Text: "Signed", Completed: true, DueDate: datePtr(day(1))},
			{ID: "dateless-chk", Text: "Someday"},
		},
		Blockers: []model.ChecklistItem{
			{ID: "done-blk", Text: "Resolved", Completed: true, DueDate: datePtr(day(-1))},
		},
	}
	asg := model.Assignment{
		ID: "asg-1", Title: "Work", Status: model.AssignmentStatusTodo,
		Checklist: []model.ChecklistItem{
			{ID: "done-achk", Text: "Finished", Completed: true, DueDate: datePtr(day(0))},
			{ID: "dateless-achk", Text: "No date"},
		},
	}

	tasks := testBuilder().Build([]model.Opportunity{opp}, []model.Assignment{asg})
	assert.Empty(t, tasks)
}

func TestBuildAssignmentChecklistFallbacks(t *testing.T) {
	asg := model.Assignment{
		ID: "asg-1", Title: "Work", Status: model.AssignmentStatusTodo,
		CreatedAt: day(-30),
		Checklist: []model.ChecklistItem{
			{ID: "i-1", DueDate: datePtr(day(1))},
			{DueDate: datePtr(day(2))},
		},
	}

	tasks := testBuilder().Build(nil, []model.Assignment{asg})
	require.Len(t, tasks, 2)

	t.Run("title falls back to id, then placeholder", func(t *testing.T) {
		assert.Equal(t, "i-1", tasks[0].Title)
		assert.Equal(t, "Untitled Task", tasks[1].Title)
	})

	t.Run("created-at falls back to parent", func(t *testing.T) {
		assert.True(t, tasks[0].CreatedAt.Equal(day(-30)))
	})
}

func TestBuildAssignmentActivityPriority(t *testing.T) {
	asg := model.Assignment{
		ID: "asg-1", Title: "Work", Status: model.AssignmentStatusTodo,
		Activities: []model.Activity{
			{ID: "explicit", Subject: "Urgent call", Status: model.ActivityStatusScheduled,
				DateTime: day(1), Priority: model.PriorityCritical},
			{ID: "inherited", Subject: "Routine check", Status: model.ActivityStatusScheduled,
				DateTime: day(2)},
		},
	}

	tasks := testBuilder().Build(nil, []model.Assignment{asg})
	require.Len(t, tasks, 2)
	assert.Equal(t, model.PriorityCritical, findByID(t, tasks, "explicit").Priority)
	assert.Equal(t, model.PriorityMedium, findByID(t, tasks, "inherited").Priority)
}

// End-to-end: an overdue blocker on a deal and a due-today checklist
// item on an in-progress assignment come out as one ordered collection.
func TestBuildEndToEnd(t *testing.T) {
	opp := model.Opportunity{
		ID: "opp-x", Title: "Deal X", Stage: model.StageNegotiation,
		Priority: model.PriorityLow, OwnerID: "u-ann",
		Blockers: []model.ChecklistItem{
			{ID: "blk-x", Text: "Resolve pricing dispute", DueDate: datePtr(day(-2))},
		},
	}
	asg := model.Assignment{
		ID: "asg-y", Title: "Task Y", Status: model.AssignmentStatusInProgress,
		AssignedTo: "u-bob",
		Checklist: []model.ChecklistItem{
			{ID: "chk-y", Text: "Collect figures", DueDate: datePtr(day(0))},
		},
	}

	tasks := testBuilder().Build([]model.Opportunity{opp}, []model.Assignment{asg})
	require.Len(t, tasks, 2)

	// Overdue blocker first, Critical despite the deal's Low priority.
	assert.Equal(t, "blk-x", tasks[0].ID)
	assert.Equal(t, model.TaskStatusOverdue, tasks[0].Status)
	assert.Equal(t, model.PriorityCritical, tasks[0].Priority)
	assert.Equal(t, "Deal X", tasks[0].ParentTitle)

	assert.Equal(t, "chk-y", tasks[1].ID)
	assert.Equal(t, model.TaskStatusDueToday, tasks[1].Status)
	assert.Equal(t, model.PriorityHigh, tasks[1].Priority)
	assert.Equal(t, "Task Y", tasks[1].ParentTitle)
}
