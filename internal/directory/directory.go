// Package directory resolves user IDs to display names with a
// time-bounded cache. The cache is an explicit object owned by whoever
// constructs it, never package-level state, so tests and callers stay
// isolated from each other.
package directory

import (
	"context"
	"sync"
	"time"

	"github.com/nhle/crm-planner/internal/model"
	"github.com/nhle/crm-planner/internal/store"
)

// cachedName is one resolved entry with its expiry.
type cachedName struct {
	name    string
	expires time.Time
}

// Resolver looks up display names in the user directory, caching
// results for a fixed TTL.
type Resolver struct {
	store store.Store
	ttl   time.Duration

	mu    sync.Mutex
	names map[string]cachedName

	// now is overridable in tests.
	now func() time.Time
}

// New creates a Resolver backed by the given store. A zero or negative
// TTL disables caching.
func New(s store.Store, ttl time.Duration) *Resolver {
	return &Resolver{
		store: s,
		ttl:   ttl,
		names: make(map[string]cachedName),
		now:   time.Now,
	}
}

// DisplayName resolves a user ID to a display name. Unknown IDs
// resolve to the ID itself; the planner view degrades rather than
// erroring on stale references.
func (r *Resolver) DisplayName(ctx context.Context, id string) string {
	if id == "" {
		return ""
	}

	now := r.now()

	r.mu.Lock()
	if entry, ok := r.names[id]; ok && now.Before(entry.expires) {
		r.mu.Unlock()
		return entry.name
	}
	r.mu.Unlock()

	name := id
	if user, err := r.store.GetUserByID(ctx, id); err == nil {
		name = user.DisplayName
	}

	if r.ttl > 0 {
		r.mu.Lock()
		r.names[id] = cachedName{name: name, expires: now.Add(r.ttl)}
		r.mu.Unlock()
	}

	return name
}

// Annotate fills AssignedToName on each task from the directory.
func (r *Resolver) Annotate(ctx context.Context, tasks []model.UnifiedTask) {
	for i := range tasks {
		if tasks[i].AssignedTo != "" {
			tasks[i].AssignedToName = r.DisplayName(ctx, tasks[i].AssignedTo)
		}
	}
}

// Invalidate drops every cached entry.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = make(map[string]cachedName)
}
