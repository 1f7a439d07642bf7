package domain

import (
	"time"

	"github.com/google/uuid"
)

// Token is a stored API key. Only the SHA-256 hash of the plain value is kept.
// A token either belongs to a user (UserID set) or is scoped to an organization
// and optionally a project.
type Token struct {
	ID             uuid.UUID
	TokenHash      string
	Type           TokenType
	UserID         *uuid.UUID
	OrganizationID *uuid.UUID
	ProjectID      *uuid.UUID
	Notes          string
	IsDisabled     bool
	ExpiresAt      *time.Time
	CreatedAt      time.Time
}

// IsExpired reports whether the token lifetime has ended at the given instant.
func (t *Token) IsExpired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// CanAuthenticate reports whether the token is an enabled access token.
func (t *Token) CanAuthenticate() bool {
	return !t.IsDisabled && t.Type == TokenTypeAccess
}

// IssueTokenInput holds the parameters for creating an API key.
type IssueTokenInput struct {
	UserID         *uuid.UUID
	OrganizationID *uuid.UUID
	ProjectID      *uuid.UUID
	Notes          string
	ExpiresIn      time.Duration
}

// IssueTokenOutput carries the plain token, which is shown once and never stored.
type IssueTokenOutput struct {
	ID         uuid.UUID
	PlainToken string
	ExpiresAt  *time.Time
}
