// Package domain defines the core user domain entities and types.
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/gatekeeper/internal/errors"
)

// User represents a person who can sign in. Password holds the salted hash,
// never the plain text, and Salt is fed to the hash function exactly as stored.
type User struct {
	ID              uuid.UUID
	Email           string
	FullName        string
	Password        string
	Salt            string
	IsActive        bool
	OrganizationIDs []uuid.UUID
	Roles           []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasLocalAccount reports whether the user can authenticate with a password.
// Users provisioned through an external identity provider have no stored hash.
func (u *User) HasLocalAccount() bool {
	return u.Password != "" && u.Salt != ""
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrUserInactive indicates the user account has been deactivated.
	ErrUserInactive = errors.Wrap(errors.ErrForbidden, "user is inactive")
)
