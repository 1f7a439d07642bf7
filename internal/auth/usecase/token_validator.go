package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authService "github.com/allisson/gatekeeper/internal/auth/service"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	userDomain "github.com/allisson/gatekeeper/internal/user/domain"
)

// apiKeyTokenValidator resolves stored API keys by their SHA-256 hash.
type apiKeyTokenValidator struct {
	tokenRepo    TokenRepository
	userRepo     UserRepository
	tokenService authService.TokenService
	logger       *slog.Logger
	now          func() time.Time
}

// NewAPIKeyTokenValidator creates a TokenValidator for stored API keys.
func NewAPIKeyTokenValidator(
	tokenRepo TokenRepository,
	userRepo UserRepository,
	tokenService authService.TokenService,
	logger *slog.Logger,
) TokenValidator {
	return &apiKeyTokenValidator{
		tokenRepo:    tokenRepo,
		userRepo:     userRepo,
		tokenService: tokenService,
		logger:       logger,
		now:          time.Now,
	}
}

func (v *apiKeyTokenValidator) Validate(ctx context.Context, plainToken string) authDomain.TokenResult {
	token, err := v.tokenRepo.GetByTokenHash(ctx, v.tokenService.HashToken(plainToken))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return authDomain.UnrecognizedToken()
		}
		return v.failed(ctx, "token lookup failed", err)
	}

	if !token.CanAuthenticate() {
		return authDomain.UnrecognizedToken()
	}

	if token.IsExpired(v.now().UTC()) {
		return authDomain.FailedToken(authDomain.TokenStatusExpired, authDomain.ErrTokenExpired)
	}

	var expiresAt time.Time
	if token.ExpiresAt != nil {
		expiresAt = *token.ExpiresAt
	}

	if token.UserID == nil {
		return authDomain.ValidTokenUntil(tokenPrincipal(token), expiresAt)
	}

	user, err := v.userRepo.GetByID(ctx, *token.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return authDomain.UnrecognizedToken()
		}
		return v.failed(ctx, "token owner lookup failed", err)
	}

	if !user.IsActive {
		return authDomain.UnrecognizedToken()
	}

	return authDomain.ValidTokenUntil(userTokenPrincipal(user, token), expiresAt)
}

func (v *apiKeyTokenValidator) failed(ctx context.Context, msg string, err error) authDomain.TokenResult {
	if canceled := apperrors.Canceled(ctx); canceled != nil {
		return authDomain.FailedToken(authDomain.TokenStatusFailed, canceled)
	}
	v.logger.WarnContext(ctx, msg, slog.Any("error", err))
	return authDomain.FailedToken(authDomain.TokenStatusFailed, err)
}

// tokenPrincipal builds a principal for an organization or project scoped key.
func tokenPrincipal(token *authDomain.Token) *authDomain.Principal {
	p := &authDomain.Principal{
		ID:        token.ID,
		Kind:      authDomain.PrincipalKindToken,
		ProjectID: token.ProjectID,
		Roles:     []string{authDomain.RoleClient},
		Scheme:    authDomain.SchemeToken,
	}
	if token.OrganizationID != nil {
		p.OrganizationIDs = []uuid.UUID{*token.OrganizationID}
	}
	return p
}

// userTokenPrincipal builds a user principal narrowed to the token's scope.
func userTokenPrincipal(user *userDomain.User, token *authDomain.Token) *authDomain.Principal {
	p := authDomain.NewUserPrincipal(user, authDomain.SchemeToken)
	p.ProjectID = token.ProjectID
	if token.OrganizationID != nil {
		p.OrganizationIDs = []uuid.UUID{*token.OrganizationID}
	}
	return p
}

// jwtTokenValidator resolves signed JWTs. Tokens that are not shaped like a
// JWT are left for other validators.
type jwtTokenValidator struct {
	jwtService authService.JWTService
}

// NewJWTTokenValidator creates a TokenValidator for JWTs.
func NewJWTTokenValidator(jwtService authService.JWTService) TokenValidator {
	return &jwtTokenValidator{jwtService: jwtService}
}

func (v *jwtTokenValidator) Validate(_ context.Context, token string) authDomain.TokenResult {
	if !looksLikeJWT(token) {
		return authDomain.UnrecognizedToken()
	}

	claims, err := v.jwtService.Parse(token)
	if err != nil {
		switch {
		case apperrors.Is(err, authDomain.ErrTokenExpired):
			return authDomain.FailedToken(authDomain.TokenStatusExpired, err)
		case apperrors.Is(err, authDomain.ErrUntrustedSigner):
			return authDomain.FailedToken(authDomain.TokenStatusUntrustedSigner, err)
		default:
			return authDomain.FailedToken(authDomain.TokenStatusMalformed, err)
		}
	}

	principal, err := claimsPrincipal(claims)
	if err != nil {
		return authDomain.FailedToken(authDomain.TokenStatusMalformed, err)
	}
	if claims.ExpiresAt != nil {
		return authDomain.ValidTokenUntil(principal, claims.ExpiresAt.Time)
	}
	return authDomain.ValidToken(principal)
}

func looksLikeJWT(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if part == "" {
			return false
		}
	}
	return true
}

func claimsPrincipal(claims *authService.Claims) (*authDomain.Principal, error) {
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperrors.Wrap(authDomain.ErrMalformedToken, "invalid subject")
	}

	orgIDs := make([]uuid.UUID, 0, len(claims.OrganizationIDs))
	for _, raw := range claims.OrganizationIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperrors.Wrap(authDomain.ErrMalformedToken, "invalid organization id")
		}
		orgIDs = append(orgIDs, id)
	}

	return &authDomain.Principal{
		ID:              userID,
		Kind:            authDomain.PrincipalKindUser,
		UserID:          &userID,
		Email:           claims.Email,
		FullName:        claims.FullName,
		OrganizationIDs: orgIDs,
		Roles:           claims.Roles,
		Scheme:          authDomain.SchemeToken,
	}, nil
}

// chainTokenValidator asks each validator in order; the first result that is
// not "unrecognized" wins.
type chainTokenValidator struct {
	validators []TokenValidator
}

// NewChainTokenValidator combines validators. Nil entries are skipped.
func NewChainTokenValidator(validators ...TokenValidator) TokenValidator {
	chain := &chainTokenValidator{}
	for _, v := range validators {
		if v != nil {
			chain.validators = append(chain.validators, v)
		}
	}
	return chain
}

func (c *chainTokenValidator) Validate(ctx context.Context, token string) authDomain.TokenResult {
	for _, v := range c.validators {
		result := v.Validate(ctx, token)
		if result.Status != authDomain.TokenStatusUnrecognized {
			return result
		}
	}
	return authDomain.UnrecognizedToken()
}
