package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/crm-planner/internal/model"
)

func writeExport(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "export.json", `{
		"opportunities": [{
			"id": "opp-1",
			"accountId": "acc-1",
			"title": "Acme Renewal",
			"stage": "Proposal",
			"value": 25000,
			"priority": "urgent",
			"ownerId": "u-1",
			"createdAt": "2026-08-01T09:00:00Z",
			"activities": [{
				"id": "act-1",
				"subject": "Kickoff",
				"type": "CALL",
				"status": "Scheduled",
				"dateTime": {"seconds": 1790000000, "nanoseconds": 0},
				"followUpDate": "2026-09-10"
			}],
			"checklist": [{
				"id": "chk-1",
				"text": "Send proposal",
				"dueDate": {"_seconds": 1790000000, "_nanoseconds": 0}
			}],
			"blockers": [{
				"id": "blk-1",
				"label": "Legal review",
				"dueDate": "2026-09-05T00:00:00Z"
			}]
		}],
		"assignments": [{
			"id": "asg-1",
			"title": "Q3 Report",
			"status": "In Progress",
			"assignedTo": "u-2",
			"checklist": [{
				"id": "achk-1",
				"text": "new name",
				"label": "old name",
				"dueDate": "2026-09-01"
			}]
		}],
		"users": [{"id": "u-1", "displayName": "Ann Chu"}]
	}`)

	loader := NewLoader(dir, nil)
	result, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Opportunities, 1)
	require.Len(t, result.Assignments, 1)
	require.Len(t, result.Users, 1)
	assert.Equal(t, 0, result.Skipped)

	opp := result.Opportunities[0]

	t.Run("tokens are normalized", func(t *testing.T) {
		assert.Equal(t, model.StageProposal, opp.Stage)
		assert.Equal(t, model.PriorityCritical, opp.Priority)
		assert.Equal(t, model.AssignmentStatusInProgress, result.Assignments[0].Status)
		require.Len(t, opp.Activities, 1)
		assert.Equal(t, "call", opp.Activities[0].Kind)
		assert.Equal(t, model.ActivityStatusScheduled, opp.Activities[0].Status)
	})

	t.Run("both timestamp conventions decode", func(t *testing.T) {
		want := time.Unix(1790000000, 0)
		assert.True(t, opp.Activities[0].DateTime.Equal(want))
		require.NotNil(t, opp.Checklist[0].DueDate)
		assert.True(t, opp.Checklist[0].DueDate.Equal(want))
	})

	t.Run("follow-up date string decodes to pointer", func(t *testing.T) {
		require.NotNil(t, opp.Activities[0].FollowUpDate)
		assert.Equal(t, 10, opp.Activities[0].FollowUpDate.Day())
	})

	t.Run("legacy label maps onto text, text wins", func(t *testing.T) {
		require.Len(t, opp.Blockers, 1)
		assert.Equal(t, "Legal review", opp.Blockers[0].Text)
		assert.Equal(t, "new name", result.Assignments[0].Checklist[0].Text)
	})

	t.Run("children carry the parent id", func(t *testing.T) {
		assert.Equal(t, "opp-1", opp.Checklist[0].ParentID)
		assert.Equal(t, "asg-1", result.Assignments[0].Checklist[0].ParentID)
	})
}

func TestLoadSkipsBadInput(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "a_bad.json", `{not json`)
	writeExport(t, dir, "b_good.json", `{
		"opportunities": [
			{"title": "No ID here"},
			{"id": "opp-1", "title": "Valid"}
		],
		"assignments": [{"title": "also no id"}]
	}`)
	writeExport(t, dir, "notes.txt", `ignore me`)

	loader := NewLoader(dir, nil)
	result, err := loader.Load(context.Background())
	require.NoError(t, err)

	// One bad file plus two id-less records.
	assert.Equal(t, 3, result.Skipped)
	require.Len(t, result.Opportunities, 1)
	assert.Equal(t, "opp-1", result.Opportunities[0].ID)
	assert.Empty(t, result.Assignments)
}

func TestLoadMissingPath(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent"), nil)
	result, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Opportunities)
	assert.Empty(t, result.Assignments)
}

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "one.json", `{"opportunities": [{"id": "opp-9", "title": "Solo"}]}`)

	loader := NewLoader(filepath.Join(dir, "one.json"), nil)
	result, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Opportunities, 1)
	assert.Equal(t, "opp-9", result.Opportunities[0].ID)
}

func TestLoadCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "one.json", `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loader := NewLoader(dir, nil)
	_, err := loader.Load(ctx)
	assert.Error(t, err)
}

func TestNormalizePriority(t *testing.T) {
	assert.Equal(t, model.PriorityCritical, normalizePriority("URGENT"))
	assert.Equal(t, model.PriorityMedium, normalizePriority("normal"))
	assert.Equal(t, model.Priority(""), normalizePriority("p1"))
	assert.Equal(t, model.Priority(""), normalizePriority(""))
}
