package models

import (
	"time"
)

// RoleType distinguishes internal bakery staff from client-company users.
type RoleType string

const (
	RoleInternal RoleType = "INTERNAL"
	RoleClient   RoleType = "CLIENT"
)

// Valid reports whether r is a known role type.
func (r RoleType) Valid() bool {
	return r == RoleInternal || r == RoleClient
}

type User struct {
	ID           int64      `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Name         string     `json:"name" db:"name"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never serialize in JSON
	Role         RoleType   `json:"role" db:"role"`
	ClientID     *int64     `json:"client_id" db:"client_id"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}
