// Package testutil provides shared helpers for store-backed tests.
package testutil

import (
	"context"
	"testing"

	"github.com/nhle/crm-planner/internal/model"
	"github.com/nhle/crm-planner/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations
// applied, closed automatically when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedUsers upserts the given users, failing the test on error.
func SeedUsers(t *testing.T, s store.Store, users ...model.User) {
	t.Helper()

	if err := s.UpsertUsers(context.Background(), users); err != nil {
		t.Fatalf("seeding users: %v", err)
	}
}
