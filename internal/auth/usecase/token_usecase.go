package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authService "github.com/allisson/gatekeeper/internal/auth/service"
	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	userDomain "github.com/allisson/gatekeeper/internal/user/domain"
	appValidation "github.com/allisson/gatekeeper/internal/validation"
)

// ErrJWTDisabled is returned by IssueJWT when no signing secret is configured.
var ErrJWTDisabled = apperrors.Wrap(apperrors.ErrInvalidInput, "jwt signing is not configured")

// tokenUseCase implements TokenUseCase.
type tokenUseCase struct {
	txManager    database.TxManager
	tokenRepo    TokenRepository
	userRepo     UserRepository
	tokenService authService.TokenService
	jwtService   authService.JWTService
	now          func() time.Time
}

// NewTokenUseCase creates a TokenUseCase. jwtService may be nil when JWTs are disabled.
func NewTokenUseCase(
	txManager database.TxManager,
	tokenRepo TokenRepository,
	userRepo UserRepository,
	tokenService authService.TokenService,
	jwtService authService.JWTService,
) TokenUseCase {
	return &tokenUseCase{
		txManager:    txManager,
		tokenRepo:    tokenRepo,
		userRepo:     userRepo,
		tokenService: tokenService,
		jwtService:   jwtService,
		now:          time.Now,
	}
}

func validateIssueTokenInput(input *authDomain.IssueTokenInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Notes, appValidation.NoWhitespace, validation.Length(0, 255)),
		validation.Field(&input.ExpiresIn, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return appValidation.WrapValidationError(err)
	}
	if input.UserID == nil && input.OrganizationID == nil {
		return authDomain.ErrTokenOwnerRequired
	}
	if input.ProjectID != nil && input.OrganizationID == nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "project scoped tokens require an organization")
	}
	return nil
}

// Issue creates an access token. A user-owned token requires an active owner
// that belongs to the token's organization, if one is given.
func (t *tokenUseCase) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	if err := validateIssueTokenInput(input); err != nil {
		return nil, err
	}

	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := t.now().UTC()
	token := &authDomain.Token{
		ID:             uuid.Must(uuid.NewV7()),
		TokenHash:      tokenHash,
		Type:           authDomain.TokenTypeAccess,
		UserID:         input.UserID,
		OrganizationID: input.OrganizationID,
		ProjectID:      input.ProjectID,
		Notes:          input.Notes,
		CreatedAt:      now,
	}
	if input.ExpiresIn > 0 {
		expiresAt := now.Add(input.ExpiresIn)
		token.ExpiresAt = &expiresAt
	}

	err = t.txManager.WithTx(ctx, func(ctx context.Context) error {
		if input.UserID != nil {
			user, err := t.activeUser(ctx, *input.UserID)
			if err != nil {
				return err
			}
			owner := authDomain.NewUserPrincipal(user, authDomain.SchemeToken)
			if input.OrganizationID != nil && !owner.IsMemberOf(*input.OrganizationID) {
				return authDomain.ErrTokenOrganizationForbidden
			}
		}
		return t.tokenRepo.Create(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	return &authDomain.IssueTokenOutput{
		ID:         token.ID,
		PlainToken: plainToken,
		ExpiresAt:  token.ExpiresAt,
	}, nil
}

// IssueJWT signs a JWT carrying the user's identity, organizations and roles.
func (t *tokenUseCase) IssueJWT(ctx context.Context, userID uuid.UUID) (string, error) {
	if t.jwtService == nil {
		return "", ErrJWTDisabled
	}

	user, err := t.activeUser(ctx, userID)
	if err != nil {
		return "", err
	}

	token, _, err := t.jwtService.Issue(authDomain.NewUserPrincipal(user, authDomain.SchemeToken))
	if err != nil {
		return "", err
	}
	return token, nil
}

func (t *tokenUseCase) activeUser(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	user, err := t.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, userDomain.ErrUserInactive
	}
	return user, nil
}
