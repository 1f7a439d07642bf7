// Package usecase resolves credential candidates into principals and issues API keys and JWTs.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	userDomain "github.com/allisson/gatekeeper/internal/user/domain"
)

// TokenRepository defines persistence operations for API keys.
type TokenRepository interface {
	// Create stores a new token.
	Create(ctx context.Context, token *authDomain.Token) error

	// GetByTokenHash retrieves a token by its SHA-256 hash. Returns ErrTokenNotFound if not found.
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error)
}

// UserRepository is the read-only view of the user store used during authentication.
type UserRepository interface {
	// GetByEmail retrieves a user by email. Returns ErrUserNotFound if not found.
	GetByEmail(ctx context.Context, email string) (*userDomain.User, error)

	// GetByID retrieves a user by ID. Returns ErrUserNotFound if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
}

// TokenValidator resolves an opaque token to a tagged result. Implementations
// never panic for unknown tokens and report backend failures as TokenStatusFailed.
type TokenValidator interface {
	Validate(ctx context.Context, token string) authDomain.TokenResult
}

// CredentialUseCase resolves credential candidates to principals.
type CredentialUseCase interface {
	// AuthenticateBasic checks an email/password pair against the user store.
	// Every failure is reported as ErrInvalidCredentials, except cancellation
	// which is reported as ErrRequestCanceled.
	AuthenticateBasic(ctx context.Context, email, password string) (*authDomain.Principal, error)

	// AuthenticateToken delegates to the configured TokenValidator.
	AuthenticateToken(ctx context.Context, token string) authDomain.TokenResult
}

// TokenUseCase issues credentials.
type TokenUseCase interface {
	// Issue creates an API key. The plain token is returned once and never stored.
	Issue(ctx context.Context, input *authDomain.IssueTokenInput) (*authDomain.IssueTokenOutput, error)

	// IssueJWT signs a JWT for an active user.
	IssueJWT(ctx context.Context, userID uuid.UUID) (string, error)
}
