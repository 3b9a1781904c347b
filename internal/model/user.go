package model

import (
	"strings"
	"time"
)

// Role is the closed set of profiles a user can hold.  The string values are
// the ones stored in the `users.role` column and carried in token claims.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleExaminer  Role = "perito"
	RoleAssistant Role = "assistente"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleExaminer, RoleAssistant}

// ParseRole returns the Role named by s (case-insensitive, trimmed).
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Roles {
		if r == v {
			return r, true
		}
	}
	return "", false
}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// User represents a row in the `users` table.  PasswordHash is never
// serialized; handlers return the struct directly.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Validate checks required fields.  PasswordHash is checked separately by
// the handler because it is derived, not supplied.
func (u *User) Validate() error {
	v := Violations{}
	Required("name", u.Name, v)
	Required("email", u.Email, v)
	if u.Email != "" && !strings.Contains(u.Email, "@") {
		v["email"] = "invalid email"
	}
	if !u.Role.Valid() {
		v["role"] = "must be one of admin, perito, assistente"
	}
	return v.Err()
}
