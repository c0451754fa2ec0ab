package sync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/crm-planner/internal/source"
	"github.com/nhle/crm-planner/internal/source/export"
	"github.com/nhle/crm-planner/internal/store"
	"github.com/nhle/crm-planner/tests/testutil"
)

// failingLoader always errors, for exercising the error path.
type failingLoader struct{}

func (failingLoader) Name() string { return "failing" }

func (failingLoader) Load(context.Context) (*source.LoadResult, error) {
	return nil, errors.New("load failed")
}

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func nextResult(t *testing.T, cmd tea.Cmd) ReloadResultMsg {
	t.Helper()
	msg, ok := cmd().(ReloadResultMsg)
	require.True(t, ok, "expected a ReloadResultMsg")
	return msg
}

func TestWatcherLoadsAndUpserts(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "export.json",
		`{"opportunities": [{"id": "opp-1", "title": "Acme Renewal"}]}`)

	s := testutil.NewTestStore(t)
	w := New(s, export.NewLoader(dir, nil), dir, nil)

	cmd := w.Start()
	require.NotNil(t, cmd)
	t.Cleanup(w.Stop)

	msg := nextResult(t, cmd)
	require.NoError(t, msg.Err)
	require.NotNil(t, msg.Result)
	assert.Len(t, msg.Result.Opportunities, 1)

	state, lastLoad := w.State()
	assert.Equal(t, ReloadIdle, state)
	assert.False(t, lastLoad.IsZero())

	opps, err := s.GetOpportunities(context.Background(), store.OpportunityFilter{})
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "Acme Renewal", opps[0].Title)

	t.Run("refresh picks up new files", func(t *testing.T) {
		writeFixture(t, dir, "export2.json",
			`{"assignments": [{"id": "asg-1", "title": "Q3 Report"}]}`)

		w.Refresh()
		wait := w.WaitForNextResult()
		msg := nextResult(t, wait)
		require.NoError(t, msg.Err)
		assert.Len(t, msg.Result.Assignments, 1)

		asgs, err := s.GetAssignments(context.Background(), store.AssignmentFilter{})
		require.NoError(t, err)
		assert.Len(t, asgs, 1)
	})

	t.Run("second start is a no-op", func(t *testing.T) {
		assert.Nil(t, w.Start())
	})
}

func TestWatcherReportsLoadErrors(t *testing.T) {
	dir := t.TempDir()
	s := testutil.NewTestStore(t)
	w := New(s, failingLoader{}, dir, nil)

	cmd := w.Start()
	t.Cleanup(w.Stop)

	msg := nextResult(t, cmd)
	assert.Error(t, msg.Err)

	state, _ := w.State()
	assert.Equal(t, ReloadError, state)
}
