package usecase

import (
	"context"
	"log/slog"
	"strings"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authService "github.com/allisson/gatekeeper/internal/auth/service"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

type credentialUseCase struct {
	userRepo  UserRepository
	hasher    authService.SaltedHasher
	validator TokenValidator
	logger    *slog.Logger
}

// NewCredentialUseCase creates a CredentialUseCase.
func NewCredentialUseCase(
	userRepo UserRepository,
	hasher authService.SaltedHasher,
	validator TokenValidator,
	logger *slog.Logger,
) CredentialUseCase {
	return &credentialUseCase{
		userRepo:  userRepo,
		hasher:    hasher,
		validator: validator,
		logger:    logger,
	}
}

// AuthenticateBasic fails closed: lookup errors, unknown users, inactive users and
// users without a salt all produce the same ErrInvalidCredentials.
func (c *credentialUseCase) AuthenticateBasic(
	ctx context.Context,
	email, password string,
) (*authDomain.Principal, error) {
	user, err := c.userRepo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if canceled := apperrors.Canceled(ctx); canceled != nil {
			return nil, canceled
		}
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			c.logger.WarnContext(ctx, "user lookup failed during basic authentication", slog.Any("error", err))
		}
		return nil, authDomain.ErrInvalidCredentials
	}

	if !user.IsActive || user.Salt == "" {
		return nil, authDomain.ErrInvalidCredentials
	}

	if !c.hasher.Compare(password, user.Salt, user.Password) {
		return nil, authDomain.ErrInvalidCredentials
	}

	return authDomain.NewUserPrincipal(user, authDomain.SchemeBasic), nil
}

// AuthenticateToken returns the validator's result unchanged.
func (c *credentialUseCase) AuthenticateToken(ctx context.Context, token string) authDomain.TokenResult {
	if err := apperrors.Canceled(ctx); err != nil {
		return authDomain.FailedToken(authDomain.TokenStatusFailed, err)
	}
	return c.validator.Validate(ctx, token)
}
