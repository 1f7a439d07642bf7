package dto

import (
	"github.com/google/uuid"

	"github.com/allisson/gatekeeper/internal/user/domain"
)

// ToUserResponse converts a domain User model to a UserResponse DTO.
// Nil lists are rendered as empty JSON arrays.
func ToUserResponse(user *domain.User) UserResponse {
	orgIDs := user.OrganizationIDs
	if orgIDs == nil {
		orgIDs = []uuid.UUID{}
	}
	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}

	return UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		FullName:        user.FullName,
		OrganizationIDs: orgIDs,
		Roles:           roles,
		IsActive:        user.IsActive,
		HasLocalAccount: user.HasLocalAccount(),
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}
