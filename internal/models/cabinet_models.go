package models

import "time"

// Cabinet represents a named physical location that owns containers
type Cabinet struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name" db:"name" binding:"required"`
	Description *string     `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" db:"updated_at"`
	Containers  []Container `json:"containers,omitempty"` // For embedding owned containers
}
