package domain

import (
	"slices"

	"github.com/google/uuid"

	userDomain "github.com/allisson/gatekeeper/internal/user/domain"
)

// Principal is the validated identity attached to a request.
type Principal struct {
	ID              uuid.UUID
	Kind            PrincipalKind
	UserID          *uuid.UUID
	Email           string
	FullName        string
	OrganizationIDs []uuid.UUID
	ProjectID       *uuid.UUID
	Roles           []string
	Scheme          Scheme
}

// NewUserPrincipal builds a principal for a signed-in user.
func NewUserPrincipal(user *userDomain.User, scheme Scheme) *Principal {
	userID := user.ID
	return &Principal{
		ID:              user.ID,
		Kind:            PrincipalKindUser,
		UserID:          &userID,
		Email:           user.Email,
		FullName:        user.FullName,
		OrganizationIDs: slices.Clone(user.OrganizationIDs),
		Roles:           slices.Clone(user.Roles),
		Scheme:          scheme,
	}
}

// IsUser reports whether the principal is backed by a user record.
func (p *Principal) IsUser() bool {
	return p.Kind == PrincipalKindUser && p.UserID != nil
}

// HasRole reports whether the principal carries the given role.
func (p *Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// IsMemberOf reports whether the principal may act within the organization.
// Global admins are members of every organization.
func (p *Principal) IsMemberOf(organizationID uuid.UUID) bool {
	if p.HasRole(RoleGlobalAdmin) {
		return true
	}
	return slices.Contains(p.OrganizationIDs, organizationID)
}

// Clone returns a deep copy of the principal. A nil principal clones to nil.
func (p *Principal) Clone() *Principal {
	if p == nil {
		return nil
	}
	clone := *p
	clone.UserID = clonePtr(p.UserID)
	clone.ProjectID = clonePtr(p.ProjectID)
	clone.OrganizationIDs = slices.Clone(p.OrganizationIDs)
	clone.Roles = slices.Clone(p.Roles)
	return &clone
}

func clonePtr(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

// SameIdentity reports whether two principals describe the same caller.
func (p *Principal) SameIdentity(other *Principal) bool {
	if p == nil || other == nil {
		return false
	}
	return p.Kind == other.Kind && p.ID == other.ID
}
