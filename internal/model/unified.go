package model

import "time"

// TaskType identifies which kind of sub-entity a unified task came from.
type TaskType string

const (
	TaskTypeOpportunityActivity  TaskType = "opportunity_activity"
	TaskTypeOpportunityChecklist TaskType = "opportunity_checklist"
	TaskTypeOpportunityBlocker   TaskType = "opportunity_blocker"
	TaskTypeAssignmentActivity   TaskType = "assignment_activity"
	TaskTypeAssignmentChecklist  TaskType = "assignment_checklist"
)

// IsActivity reports whether the task originated from an activity log
// rather than a checklist or blocker.
func (t TaskType) IsActivity() bool {
	return t == TaskTypeOpportunityActivity || t == TaskTypeAssignmentActivity
}

// ParentType identifies the kind of record a unified task belongs to.
type ParentType string

const (
	ParentTypeOpportunity ParentType = "opportunity"
	ParentTypeAssignment  ParentType = "assignment"
)

// TaskStatus is the derived scheduling state of a unified task,
// computed from its due date and completion flag.
type TaskStatus string

const (
	TaskStatusOverdue   TaskStatus = "overdue"
	TaskStatusDueToday  TaskStatus = "due_today"
	TaskStatusUpcoming  TaskStatus = "upcoming"
	TaskStatusCompleted TaskStatus = "completed"
)

// Priority is a normalized urgency level. The zero value means the
// originating record carried no priority.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// UnifiedTask is a flat, ephemeral projection of one actionable item
// drawn from an opportunity or assignment. It is rebuilt in full from
// the source records whenever they change and is never mutated in
// place; completing or editing a task goes through the owning record.
type UnifiedTask struct {
	// ID is the identifier of the originating sub-entity (activity or
	// checklist item). It is not unique across task types.
	ID string `json:"id"`

	// Title is the activity subject or checklist text.
	Title string `json:"title"`

	// Type identifies the originating sub-entity kind.
	Type TaskType `json:"type"`

	// ParentID is the ID of the owning opportunity or assignment.
	ParentID string `json:"parent_id"`

	// ParentTitle is the owning record's display name.
	ParentTitle string `json:"parent_title"`

	// DueDate is always set; items without a resolvable due date are
	// excluded from the unified collection entirely.
	DueDate time.Time `json:"due_date"`

	// Status is the classification snapshot taken at build time.
	// Callers that need a fresh value re-classify against current time.
	Status TaskStatus `json:"status"`

	// Priority is inherited, explicit, or inferred depending on Type.
	// Empty when the source carried none.
	Priority Priority `json:"priority,omitempty"`

	// IsComplete mirrors the source completion flag.
	IsComplete bool `json:"is_complete"`

	// LinkedURL is the deep link to the parent's detail view.
	LinkedURL string `json:"linked_url"`

	// ParentType identifies the owning record kind.
	ParentType ParentType `json:"parent_type"`

	// AssignedTo is the user ID responsible for the parent record.
	// AssignedToName is resolved against the user directory by the
	// hosting application, not by the builder.
	AssignedTo     string `json:"assigned_to,omitempty"`
	AssignedToName string `json:"assigned_to_name,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
