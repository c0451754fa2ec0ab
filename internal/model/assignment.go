package model

import "time"

// Assignment workflow status constants.
const (
	AssignmentStatusTodo       = "todo"
	AssignmentStatusInProgress = "in_progress"
	AssignmentStatusDone       = "done"
)

// Assignment is a work-item record with its own checklist and
// activity log.
type Assignment struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	Status      string    `json:"status" db:"status"`
	AssignedTo  string    `json:"assigned_to,omitempty" db:"assigned_to"`
	AccountID   string    `json:"account_id,omitempty" db:"account_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Sub-entities, loaded with the parent by the store.
	Checklist  []ChecklistItem `json:"checklist,omitempty" db:"-"`
	Activities []Activity      `json:"activities,omitempty" db:"-"`
}
