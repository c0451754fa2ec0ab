package store

import (
	"context"
	"time"

	"github.com/nhle/crm-planner/internal/model"
)

// OpportunityFilter controls filtering, sorting, and pagination for
// opportunity queries.
type OpportunityFilter struct {
	AccountID *string
	Stage     *string
	OwnerID   *string
	Priority  *model.Priority
	Query     *string // search title
	SortBy    string  // "title", "stage", "value", "created_at", "updated_at"
	SortDesc  bool
	Limit     int
	Offset    int
}

// AssignmentFilter controls filtering, sorting, and pagination for
// assignment queries.
type AssignmentFilter struct {
	Status     *string
	AssignedTo *string
	AccountID  *string
	Query      *string // search title + description
	SortBy     string  // "title", "status", "created_at", "updated_at"
	SortDesc   bool
	Limit      int
	Offset     int
}

// Store defines the persistence interface for the planner's source
// records. Opportunities and assignments load with their sub-entities;
// user actions on unified tasks (completing an item, rescheduling) are
// applied to the owning record through this interface, after which the
// unified collection is rebuilt.
type Store interface {
	// === Opportunities ===

	UpsertOpportunities(ctx context.Context, opps []model.Opportunity) error
	GetOpportunities(ctx context.Context, filter OpportunityFilter) ([]model.Opportunity, error)
	GetOpportunityByID(ctx context.Context, id string) (*model.Opportunity, error)
	DeleteOpportunity(ctx context.Context, id string) error

	// === Assignments ===

	UpsertAssignments(ctx context.Context, asgs []model.Assignment) error
	GetAssignments(ctx context.Context, filter AssignmentFilter) ([]model.Assignment, error)
	GetAssignmentByID(ctx context.Context, id string) (*model.Assignment, error)
	DeleteAssignment(ctx context.Context, id string) error

	// === Unified-task write-through ===

	// SetChecklistItemCompleted toggles completion on the checklist or
	// blocker row a unified task of the given type originated from.
	SetChecklistItemCompleted(ctx context.Context, taskType model.TaskType, id string, completed bool) error

	// CompleteActivity marks an activity as completed.
	CompleteActivity(ctx context.Context, taskType model.TaskType, id string) error

	// SetActivityFollowUp reschedules an activity's follow-up date.
	// A nil followUp clears it.
	SetActivityFollowUp(ctx context.Context, taskType model.TaskType, id string, followUp *time.Time) error

	// === Context records ===

	UpsertAccounts(ctx context.Context, accounts []model.Account) error
	GetAccounts(ctx context.Context) ([]model.Account, error)
	UpsertContacts(ctx context.Context, contacts []model.Contact) error
	GetContacts(ctx context.Context, accountID string) ([]model.Contact, error)
	UpsertProducts(ctx context.Context, products []model.Product) error
	GetProducts(ctx context.Context, activeOnly bool) ([]model.Product, error)

	// === User directory ===

	UpsertUsers(ctx context.Context, users []model.User) error
	GetUsers(ctx context.Context) ([]model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}
