package filterform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/crm-planner/internal/model"
	plan "github.com/nhle/crm-planner/internal/planner"
)

func submit(t *testing.T, m Model) FilterAppliedMsg {
	t.Helper()
	msg, ok := m.handleSubmit()().(FilterAppliedMsg)
	require.True(t, ok, "expected a FilterAppliedMsg")
	return msg
}

func TestHandleSubmitDueRangeIsLocal(t *testing.T) {
	m := New(80, 24)
	m.fb.dueFrom = "2026-09-01"
	m.fb.dueTo = "2026-09-02"

	msg := submit(t, m)

	require.NotNil(t, msg.Filter.DueFrom)
	require.NotNil(t, msg.Filter.DueTo)

	wantFrom := time.Date(2026, 9, 1, 0, 0, 0, 0, time.Local)
	assert.True(t, msg.Filter.DueFrom.Equal(wantFrom))

	// The range covers the submitted days end to end in local time.
	early := model.UnifiedTask{ID: "t1", DueDate: time.Date(2026, 9, 1, 0, 30, 0, 0, time.Local)}
	late := model.UnifiedTask{ID: "t2", DueDate: time.Date(2026, 9, 2, 23, 30, 0, 0, time.Local)}
	outside := model.UnifiedTask{ID: "t3", DueDate: time.Date(2026, 9, 3, 0, 30, 0, 0, time.Local)}

	got := plan.Filter([]model.UnifiedTask{early, late, outside}, msg.Filter)
	require.Len(t, got, 2)
	assert.Equal(t, "t1", got[0].ID)
	assert.Equal(t, "t2", got[1].ID)
}

func TestHandleSubmitBlankDatesImposeNoRange(t *testing.T) {
	m := New(80, 24)

	msg := submit(t, m)

	assert.Nil(t, msg.Filter.DueFrom)
	assert.Nil(t, msg.Filter.DueTo)
	assert.Equal(t, plan.SortByDueDate, msg.Sort.Field)
}
