package model

import "time"

// Contact is an individual person attached to an account.
type Contact struct {
	ID        string    `json:"id" db:"id"`
	AccountID string    `json:"account_id,omitempty" db:"account_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email,omitempty" db:"email"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Role      string    `json:"role,omitempty" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
