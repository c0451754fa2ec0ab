package export

import "github.com/nhle/crm-planner/internal/timestamp"

// Document is the top-level shape of one export file. The upstream
// document store and its function transport disagree on timestamp
// serialization, so every date field is a timestamp.Timestamp, which
// accepts both conventions.
type Document struct {
	Opportunities []Opportunity `json:"opportunities"`
	Assignments   []Assignment  `json:"assignments"`
	Accounts      []Account     `json:"accounts"`
	Contacts      []Contact     `json:"contacts"`
	Products      []Product     `json:"products"`
	Users         []User        `json:"users"`
}

// Opportunity is the wire shape of a sales-pipeline record.
type Opportunity struct {
	ID         string              `json:"id"`
	AccountID  string              `json:"accountId"`
	ContactID  string              `json:"contactId"`
	Title      string              `json:"title"`
	Stage      string              `json:"stage"`
	Value      float64             `json:"value"`
	Priority   string              `json:"priority"`
	OwnerID    string              `json:"ownerId"`
	CreatedAt  timestamp.Timestamp `json:"createdAt"`
	UpdatedAt  timestamp.Timestamp `json:"updatedAt"`
	Activities []Activity          `json:"activities"`
	Checklist  []ChecklistItem     `json:"checklist"`
	Blockers   []ChecklistItem     `json:"blockers"`
}

// Assignment is the wire shape of a work-item record.
type Assignment struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      string              `json:"status"`
	AssignedTo  string              `json:"assignedTo"`
	AccountID   string              `json:"accountId"`
	CreatedAt   timestamp.Timestamp `json:"createdAt"`
	UpdatedAt   timestamp.Timestamp `json:"updatedAt"`
	Checklist   []ChecklistItem     `json:"checklist"`
	Activities  []Activity          `json:"activities"`
}

// Activity is the wire shape of one activity-log entry.
type Activity struct {
	ID           string              `json:"id"`
	Subject      string              `json:"subject"`
	Kind         string              `json:"type"`
	Status       string              `json:"status"`
	DateTime     timestamp.Timestamp `json:"dateTime"`
	FollowUpDate timestamp.Timestamp `json:"followUpDate"`
	Priority     string              `json:"priority"`
	CreatedAt    timestamp.Timestamp `json:"createdAt"`
}

// ChecklistItem is the wire shape of one checklist or blocker entry.
// Label is the pre-migration name of the Text field; old exports still
// carry it.
type ChecklistItem struct {
	ID          string              `json:"id"`
	Text        string              `json:"text"`
	Label       string              `json:"label"`
	Completed   bool                `json:"completed"`
	DueDate     timestamp.Timestamp `json:"dueDate"`
	CreatedAt   timestamp.Timestamp `json:"createdAt"`
	CompletedAt timestamp.Timestamp `json:"completedAt"`
}

// Account is the wire shape of an account record.
type Account struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Industry  string              `json:"industry"`
	Website   string              `json:"website"`
	OwnerID   string              `json:"ownerId"`
	CreatedAt timestamp.Timestamp `json:"createdAt"`
	UpdatedAt timestamp.Timestamp `json:"updatedAt"`
}

// Contact is the wire shape of a contact record.
type Contact struct {
	ID        string              `json:"id"`
	AccountID string              `json:"accountId"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Phone     string              `json:"phone"`
	Role      string              `json:"role"`
	CreatedAt timestamp.Timestamp `json:"createdAt"`
	UpdatedAt timestamp.Timestamp `json:"updatedAt"`
}

// Product is the wire shape of a catalog entry.
type Product struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	SKU       string              `json:"sku"`
	Price     float64             `json:"price"`
	Active    bool                `json:"active"`
	CreatedAt timestamp.Timestamp `json:"createdAt"`
	UpdatedAt timestamp.Timestamp `json:"updatedAt"`
}

// User is the wire shape of a directory entry.
type User struct {
	ID          string              `json:"id"`
	DisplayName string              `json:"displayName"`
	Email       string              `json:"email"`
	CreatedAt   timestamp.Timestamp `json:"createdAt"`
}
