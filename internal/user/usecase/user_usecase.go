// Package usecase implements the user business logic and orchestrates user domain operations.
package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	"github.com/allisson/gatekeeper/internal/user/domain"
	appValidation "github.com/allisson/gatekeeper/internal/validation"
)

// Roles a user may be registered with.
const (
	RoleUser        = "user"
	RoleGlobalAdmin = "global_admin"
)

// RegisterUserInput contains the input data for user registration
type RegisterUserInput struct {
	FullName        string      `json:"full_name"`
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	OrganizationIDs []uuid.UUID `json:"organization_ids"`
	Roles           []string    `json:"roles"`
}

// UseCase defines the interface for user business logic operations
type UseCase interface {
	RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// UserRepository interface defines user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PasswordHasher produces the salted hash stored on the user record.
type PasswordHasher interface {
	SaltedHash(password, salt string) string
	GenerateSalt() (string, error)
}

// UserUseCase handles user-related business logic
type UserUseCase struct {
	txManager database.TxManager
	userRepo  UserRepository
	hasher    PasswordHasher
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	hasher PasswordHasher,
) UseCase {
	return &UserUseCase{
		txManager: txManager,
		userRepo:  userRepo,
		hasher:    hasher,
	}
}

// validateRegisterUserInput checks required fields, email format, password
// strength and that every role is known.
func (uc *UserUseCase) validateRegisterUserInput(input RegisterUserInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.FullName,
			validation.Required.Error("full name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("full name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.NotBlank,
			appValidation.Email,
			validation.Length(5, 255).Error("email must be between 5 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
			appValidation.PasswordStrength{
				MinLength:      8,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
		validation.Field(&input.Roles, appValidation.OneOfRoles(RoleUser, RoleGlobalAdmin)),
	)
	return appValidation.WrapValidationError(err)
}

// RegisterUser validates the input, hashes the password with a fresh salt and stores the user.
func (uc *UserUseCase) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	if err := uc.validateRegisterUserInput(input); err != nil {
		return nil, err
	}

	salt, err := uc.hasher.GenerateSalt()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate salt")
	}

	roles := input.Roles
	if len(roles) == 0 {
		roles = []string{RoleUser}
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:              uuid.Must(uuid.NewV7()),
		FullName:        strings.TrimSpace(input.FullName),
		Email:           strings.TrimSpace(strings.ToLower(input.Email)),
		Password:        uc.hasher.SaltedHash(input.Password, salt),
		Salt:            salt,
		IsActive:        true,
		OrganizationIDs: input.OrganizationIDs,
		Roles:           roles,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		return uc.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email
func (uc *UserUseCase) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// GetUserByID retrieves a user by ID
func (uc *UserUseCase) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}
