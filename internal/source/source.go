// Package source defines the contract for loading planner records from
// an upstream system. Implementations hand back complete, in-memory
// collections; aggregation and persistence happen elsewhere.
package source

import (
	"context"

	"github.com/nhle/crm-planner/internal/model"
)

// LoadResult holds every record collection a loader produced, plus a
// count of records it had to skip.
type LoadResult struct {
	Opportunities []model.Opportunity
	Assignments   []model.Assignment
	Accounts      []model.Account
	Contacts      []model.Contact
	Products      []model.Product
	Users         []model.User

	// Skipped counts records dropped as undecodable. Loading is
	// best-effort: a malformed record is logged and skipped, never a
	// load failure.
	Skipped int
}

// Loader retrieves planner records from one upstream location.
type Loader interface {
	// Name identifies the loader for diagnostics.
	Name() string

	// Load reads and converts every available record.
	Load(ctx context.Context) (*LoadResult, error)
}
