package directory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/crm-planner/internal/model"
	"github.com/nhle/crm-planner/tests/testutil"
)

func TestDisplayName(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	testutil.SeedUsers(t, s, model.User{ID: "u-1", DisplayName: "Ann Chu"})

	r := New(s, 5*time.Minute)

	t.Run("resolves known users", func(t *testing.T) {
		assert.Equal(t, "Ann Chu", r.DisplayName(ctx, "u-1"))
	})

	t.Run("unknown ids degrade to the id", func(t *testing.T) {
		assert.Equal(t, "ghost", r.DisplayName(ctx, "ghost"))
	})

	t.Run("empty id resolves to empty", func(t *testing.T) {
		assert.Equal(t, "", r.DisplayName(ctx, ""))
	})
}

func TestDisplayNameCaching(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	testutil.SeedUsers(t, s, model.User{ID: "u-1", DisplayName: "Ann Chu"})

	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	current := base

	r := New(s, 5*time.Minute)
	r.now = func() time.Time { return current }

	require.Equal(t, "Ann Chu", r.DisplayName(ctx, "u-1"))

	// Rename the user behind the cache's back.
	testutil.SeedUsers(t, s, model.User{ID: "u-1", DisplayName: "Ann Chu-Smith"})

	t.Run("within ttl the cached name is served", func(t *testing.T) {
		current = base.Add(4 * time.Minute)
		assert.Equal(t, "Ann Chu", r.DisplayName(ctx, "u-1"))
	})

	t.Run("after ttl the entry is refreshed", func(t *testing.T) {
		current = base.Add(6 * time.Minute)
		assert.Equal(t, "Ann Chu-Smith", r.DisplayName(ctx, "u-1"))
	})

	t.Run("invalidate drops entries immediately", func(t *testing.T) {
		testutil.SeedUsers(t, s, model.User{ID: "u-1", DisplayName: "A. Chu-Smith"})
		r.Invalidate()
		assert.Equal(t, "A. Chu-Smith", r.DisplayName(ctx, "u-1"))
	})
}

func TestAnnotate(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	testutil.SeedUsers(t, s, model.User{ID: "u-1", DisplayName: "Ann Chu"})

	r := New(s, time.Minute)

	tasks := []model.UnifiedTask{
		{ID: "t1", AssignedTo: "u-1"},
		{ID: "t2", AssignedTo: "ghost"},
		{ID: "t3"},
	}
	r.Annotate(ctx, tasks)

	assert.Equal(t, "Ann Chu", tasks[0].AssignedToName)
	assert.Equal(t, "ghost", tasks[1].AssignedToName)
	assert.Equal(t, "", tasks[2].AssignedToName)
}
