package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrUserInactive = errors.New("account disabled")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")
var ErrTooManyAttempts = errors.New("too many login attempts")
var ErrStorageUnavailable = errors.New("storage unavailable")

// ValidRole reports whether r is a role the system knows about.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleAdmin
}

// User models an account in the tracker. The password hash never leaves
// the server.
type User struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	PasswordHash      string    `json:"-"`
	Role              string    `json:"role"`
	IsActive          bool      `json:"is_active"`
	ServicePercentage int       `json:"service_percentage"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
