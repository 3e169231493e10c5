package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyUsed   = errors.New("email already used")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrInvalidRole        = errors.New("invalid role")
)

// Role is the authorization level of a principal.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

// User represents a registered resident or administrator.
type User struct {
	ID           string // UUID
	Email        string
	PasswordHash string
	DisplayName  *string
	// Unit and Phone are contact details; read projections redact them
	// for non-admin viewers.
	Unit        *string
	Phone       *string
	Role        Role
	IsActive    bool
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Filter defines filter options for listing users.
type Filter struct {
	Email    string
	Role     string
	IsActive *bool // pointer to distinguish false from not set

	Page     int
	PageSize int
}
