package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authService "github.com/allisson/gatekeeper/internal/auth/service"
	authUseCase "github.com/allisson/gatekeeper/internal/auth/usecase"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	"github.com/allisson/gatekeeper/internal/httputil"
)

// CredentialMiddleware resolves the caller's credential and attaches the
// resulting principal to the request context.
//
// The middleware:
//  1. Extracts a candidate from the Authorization header or the access token query parameter
//  2. Basic candidates are checked against the user store; any failure answers 401 and stops
//  3. Token candidates are passed to the token validator; failures are non-fatal
//  4. A resolved principal is attached once and the chain continues
//
// With distinctFailures set, expired tokens answer 440 and tokens with an
// untrusted signer or a malformed body answer 401. Unrecognized tokens and
// backend failures always continue unauthenticated.
//
// If the request context is canceled while waiting on the user store or the
// token validator, nothing is attached and the request ends with 499.
func CredentialMiddleware(
	extractor authService.CredentialExtractor,
	credentialUseCase authUseCase.CredentialUseCase,
	distinctFailures bool,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		candidate := extractor.Extract(c.Request)

		var principal *authDomain.Principal

		switch candidate.Scheme {
		case authDomain.SchemeBasic:
			p, err := credentialUseCase.AuthenticateBasic(ctx, candidate.Primary, candidate.Secondary)
			if cerr := apperrors.Canceled(ctx); cerr != nil {
				abortWithError(c, cerr, logger)
				return
			}
			if err != nil {
				logger.Debug("basic authentication rejected", slog.String("source", string(candidate.Source)))
				abortWithError(c, err, logger)
				return
			}
			principal = p

		case authDomain.SchemeToken:
			result := credentialUseCase.AuthenticateToken(ctx, candidate.Primary)
			if cerr := apperrors.Canceled(ctx); cerr != nil {
				abortWithError(c, cerr, logger)
				return
			}
			if err := tokenFailure(result, distinctFailures, logger); err != nil {
				abortWithError(c, err, logger)
				return
			}
			if !result.IsValid() {
				logger.Debug("token not accepted",
					slog.String("source", string(candidate.Source)),
					slog.String("status", string(result.Status)))
				c.Next()
				return
			}
			principal = result.Principal

		default:
			c.Next()
			return
		}

		attached, err := AttachPrincipal(ctx, principal)
		if err != nil {
			logger.Warn("refusing to replace attached principal",
				slog.String("principal_id", principal.ID.String()))
			abortWithError(c, err, logger)
			return
		}
		c.Request = c.Request.WithContext(attached)

		logger.Debug("principal attached",
			slog.String("principal_id", principal.ID.String()),
			slog.String("kind", string(principal.Kind)),
			slog.String("scheme", string(principal.Scheme)))

		c.Next()
	}
}

// tokenFailure returns the error a token result should end the request with,
// or nil when the request continues.
func tokenFailure(result authDomain.TokenResult, distinct bool, logger *slog.Logger) error {
	switch result.Status {
	case authDomain.TokenStatusFailed:
		logger.Warn("token validation failed", slog.Any("error", result.Err))
		return nil
	case authDomain.TokenStatusExpired:
		if distinct {
			return authDomain.ErrTokenExpired
		}
	case authDomain.TokenStatusUntrustedSigner:
		if distinct {
			return authDomain.ErrUntrustedSigner
		}
	case authDomain.TokenStatusMalformed:
		if distinct {
			return authDomain.ErrMalformedToken
		}
	}
	return nil
}

func abortWithError(c *gin.Context, err error, logger *slog.Logger) {
	httputil.HandleErrorGin(c, err, logger)
	c.Abort()
}

// RequireAuthentication rejects requests without an attached principal with 401.
func RequireAuthentication(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c.Request.Context()); !ok {
			abortWithError(c, apperrors.ErrUnauthorized, logger)
			return
		}
		c.Next()
	}
}

// RequireRole rejects requests whose principal lacks role. Anonymous requests get 401,
// authenticated ones 403.
func RequireRole(role string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		if !ok {
			abortWithError(c, apperrors.ErrUnauthorized, logger)
			return
		}
		if !principal.HasRole(role) {
			logger.Debug("authorization failed: missing role",
				slog.String("principal_id", principal.ID.String()),
				slog.String("role", role))
			abortWithError(c, apperrors.ErrForbidden, logger)
			return
		}
		c.Next()
	}
}
