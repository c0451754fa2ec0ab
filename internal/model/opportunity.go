package model

import "time"

// Opportunity stage constants.
const (
	StageLead        = "lead"
	StageQualified   = "qualified"
	StageProposal    = "proposal"
	StageNegotiation = "negotiation"
	StageWon         = "won"
	StageLost        = "lost"
)

// Activity status constants, shared by opportunity and assignment
// activity logs.
const (
	ActivityStatusScheduled = "scheduled"
	ActivityStatusCompleted = "completed"
	ActivityStatusCancelled = "cancelled"
)

// Opportunity is a sales-pipeline record with an activity log,
// a checklist, and blockers.
type Opportunity struct {
	ID        string    `json:"id" db:"id"`
	AccountID string    `json:"account_id,omitempty" db:"account_id"`
	ContactID string    `json:"contact_id,omitempty" db:"contact_id"`
	Title     string    `json:"title" db:"title"`
	Stage     string    `json:"stage" db:"stage"`
	Value     float64   `json:"value" db:"value"`
	Priority  Priority  `json:"priority,omitempty" db:"priority"`
	OwnerID   string    `json:"owner_id,omitempty" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Sub-entities, loaded with the parent by the store.
	Activities []Activity      `json:"activities,omitempty" db:"-"`
	Checklist  []ChecklistItem `json:"checklist,omitempty" db:"-"`
	Blockers   []ChecklistItem `json:"blockers,omitempty" db:"-"`
}

// Activity is one entry in a record's activity log (a call, meeting,
// email, or similar touchpoint).
type Activity struct {
	ID       string `json:"id" db:"id"`
	ParentID string `json:"parent_id" db:"parent_id"`
	Subject  string `json:"subject" db:"subject"`
	Kind     string `json:"kind,omitempty" db:"kind"`
	Status   string `json:"status" db:"status"`

	// DateTime is when the activity happened or is scheduled for.
	// FollowUpDate, when set, is the explicit date the user intends to
	// act on it again; it takes precedence over DateTime for planning.
	DateTime     time.Time  `json:"date_time" db:"date_time"`
	FollowUpDate *time.Time `json:"follow_up_date,omitempty" db:"follow_up_date"`

	// Priority is optional; assignment activities may carry their own.
	Priority  Priority  `json:"priority,omitempty" db:"priority"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChecklistItem is one due-dated entry in a record's checklist.
// Opportunity blockers share this shape.
type ChecklistItem struct {
	ID       string `json:"id" db:"id"`
	ParentID string `json:"parent_id" db:"parent_id"`

	// Text is the item label. Older exports used "label"; the decoder
	// maps both onto Text.
	Text      string     `json:"text" db:"text"`
	Completed bool       `json:"completed" db:"completed"`
	DueDate   *time.Time `json:"due_date,omitempty" db:"due_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`

	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}
