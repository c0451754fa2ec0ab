package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/crm-planner/internal/model"
	"github.com/nhle/crm-planner/internal/store"
	"github.com/nhle/crm-planner/tests/testutil"
)

// seedDuplicateIDs stores an opportunity activity and an assignment
// checklist item that share the id "dup-1".
func seedDuplicateIDs(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	due := time.Date(2026, 9, 3, 9, 0, 0, 0, time.Local)

	require.NoError(t, s.UpsertOpportunities(ctx, []model.Opportunity{{
		ID:    "opp-1",
		Title: "Acme Renewal",
		Stage: model.StageProposal,
		Activities: []model.Activity{{
			ID:       "dup-1",
			Subject:  "Kickoff call",
			Kind:     "call",
			Status:   model.ActivityStatusScheduled,
			DateTime: due,
		}},
	}}))
	require.NoError(t, s.UpsertAssignments(ctx, []model.Assignment{{
		ID:     "asg-1",
		Title:  "Q3 Report",
		Status: model.AssignmentStatusTodo,
		Checklist: []model.ChecklistItem{{
			ID:      "dup-1",
			Text:    "Draft outline",
			DueDate: &due,
		}},
	}}))
}

func duplicateIDTasks() []model.UnifiedTask {
	return []model.UnifiedTask{
		{ID: "dup-1", Type: model.TaskTypeOpportunityActivity, ParentID: "opp-1"},
		{ID: "dup-1", Type: model.TaskTypeAssignmentChecklist, ParentID: "asg-1"},
	}
}

func TestFindTaskKeyedOnTypeAndID(t *testing.T) {
	tasks := duplicateIDTasks()

	got := findTask(tasks, model.TaskTypeAssignmentChecklist, "dup-1")
	require.NotNil(t, got)
	assert.Equal(t, "asg-1", got.ParentID)

	got = findTask(tasks, model.TaskTypeOpportunityActivity, "dup-1")
	require.NotNil(t, got)
	assert.Equal(t, "opp-1", got.ParentID)

	assert.Nil(t, findTask(tasks, model.TaskTypeOpportunityBlocker, "dup-1"))
}

func TestCompleteTaskTargetsOwningRecord(t *testing.T) {
	s := testutil.NewTestStore(t)
	seedDuplicateIDs(t, s)
	ctx := context.Background()

	m := Model{store: s}
	tasks := duplicateIDTasks()

	checklist := findTask(tasks, model.TaskTypeAssignmentChecklist, "dup-1")
	msg, ok := m.completeTask(*checklist)().(taskCompletedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.Equal(t, model.TaskTypeAssignmentChecklist, msg.taskType)

	asgs, err := s.GetAssignments(ctx, store.AssignmentFilter{})
	require.NoError(t, err)
	require.Len(t, asgs, 1)
	assert.True(t, asgs[0].Checklist[0].Completed)

	// The activity sharing the id must be untouched.
	opps, err := s.GetOpportunities(ctx, store.OpportunityFilter{})
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, model.ActivityStatusScheduled, opps[0].Activities[0].Status)
}

func TestMarkCompleteKeyedOnTypeAndID(t *testing.T) {
	tasks := duplicateIDTasks()
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	markComplete(tasks, model.TaskTypeAssignmentChecklist, "dup-1", now)

	assert.False(t, tasks[0].IsComplete)
	assert.Nil(t, tasks[0].CompletedAt)
	assert.True(t, tasks[1].IsComplete)
	require.NotNil(t, tasks[1].CompletedAt)
	assert.True(t, tasks[1].CompletedAt.Equal(now))
}

func TestRescheduleTaskWritesFollowUp(t *testing.T) {
	s := testutil.NewTestStore(t)
	seedDuplicateIDs(t, s)
	ctx := context.Background()

	m := Model{store: s}
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.Local)

	msg, ok := m.rescheduleTask(model.TaskTypeOpportunityActivity, "dup-1", date)().(taskRescheduledMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)

	opps, err := s.GetOpportunities(ctx, store.OpportunityFilter{})
	require.NoError(t, err)
	require.Len(t, opps, 1)
	followUp := opps[0].Activities[0].FollowUpDate
	require.NotNil(t, followUp)
	assert.True(t, followUp.Equal(date))
}
