package models

import "time"

// User roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "user"
)

// InternalUser is a user account stored in the internal database.
type InternalUser struct {
	UserID       string    `json:"user_id" badgerhold:"key"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	ModifiedAt   time.Time `json:"modified_at"`
}
