package models

import "time"

// Role names carried in JWT claims and checked by route middleware.
const (
	RoleAdministrator = "ADMINISTRATOR"
	RoleOperator      = "OPERATOR"
)

// User represents an account in the system
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	Role         string    `json:"role" db:"role"`
	IsStaff      bool      `json:"is_staff" db:"is_staff"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// EffectiveRole normalizes the stored role for token claims. Accounts created
// before the role column was introduced may carry an empty role; for those the
// staff flag decides.
func (u *User) EffectiveRole() string {
	if u.Role != "" {
		return u.Role
	}
	if u.IsStaff {
		return RoleAdministrator
	}
	return RoleOperator
}
