// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	"time"

	"github.com/google/uuid"
)

// UserResponse represents the API response for a user.
// It excludes the password hash and salt.
type UserResponse struct {
	ID              uuid.UUID   `json:"id"`
	Email           string      `json:"email"`
	FullName        string      `json:"full_name"`
	OrganizationIDs []uuid.UUID `json:"organization_ids"`
	Roles           []string    `json:"roles"`
	IsActive        bool        `json:"is_active"`
	HasLocalAccount bool        `json:"has_local_account"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
