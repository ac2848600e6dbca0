// FilePath: internal/models/models.user.go
package models

import (
	"net/mail"
	"time"

	"github.com/segmentio/ksuid"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperario Role = "operario"
)

// ValidRole reports whether r is one of the recognized roles.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleOperario
}

// User is the stored identity record. The password hash never leaves the
// service: it is excluded from JSON and carries a system-only read scope.
type User struct {
	ID             string    `json:"id" db:"id"`
	Email          string    `json:"email" db:"email"`
	FullName       string    `json:"full_name" db:"full_name"`
	Role           Role      `json:"role" db:"role"`
	Disabled       bool      `json:"disabled" db:"disabled"`
	HashedPassword string    `json:"-" db:"hashed_password" readxs:"system" writexs:"system"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// UserCreate is the admin-supplied payload for creating a user.
type UserCreate struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	Disabled bool   `json:"disabled"`
	Password string `json:"password"`
}

// UserUpdate carries a partial update. Pointer fields distinguish
// "not provided" from a zero value, so disabled=false is an explicit write.
type UserUpdate struct {
	FullName *string `json:"full_name"`
	Role     *Role   `json:"role"`
	Disabled *bool   `json:"disabled"`
}

// Empty reports whether no recognized field was supplied.
func (u UserUpdate) Empty() bool {
	return u.FullName == nil && u.Role == nil && u.Disabled == nil
}

// ValidUserID reports whether id is a structurally valid user identifier.
// Malformed ids are rejected before any store access.
func ValidUserID(id string) bool {
	_, err := ksuid.Parse(id)
	return err == nil
}

// ValidEmail reports whether addr parses as an email address.
func ValidEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}
