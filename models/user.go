package models

import (
	"strings"
	"time"
)

// Role represents a forum role granted to an account
type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

// AllRoles lists every role an account may hold
var AllRoles = []Role{RoleUser, RoleAdmin, RoleModerator}

// ParseRole normalizes a role name (trimmed, upper-cased) and reports whether it is known
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllRoles {
		if role == known {
			return role, true
		}
	}
	return role, false
}

// User represents a forum account. Login is the primary key.
type User struct {
	Login        string    `json:"login" db:"login"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	Roles        []Role    `json:"roles" db:"roles"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
	UpdatedAt    time.Time `json:"-" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User holding the default USER role
func NewUser(login, passwordHash, firstName, lastName string) *User {
	now := time.Now().UTC()
	return &User{
		Login:        login,
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Roles:        []Role{RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasRole returns true if the user holds the given role
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleNames returns the roles as plain strings
func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = string(r)
	}
	return names
}

// RolesFromStrings converts stored role names back to Role values
func RolesFromStrings(names []string) []Role {
	roles := make([]Role, len(names))
	for i, n := range names {
		roles[i] = Role(n)
	}
	return roles
}
