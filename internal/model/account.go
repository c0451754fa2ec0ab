package model

import "time"

// Account is a company or organization the business has a
// relationship with.
type Account struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Industry  string    `json:"industry,omitempty" db:"industry"`
	Website   string    `json:"website,omitempty" db:"website"`
	OwnerID   string    `json:"owner_id,omitempty" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
