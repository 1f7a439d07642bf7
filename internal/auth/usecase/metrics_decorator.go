package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	"github.com/allisson/gatekeeper/internal/metrics"
)

func errorStatus(err error) string {
	switch {
	case err == nil:
		return metrics.StatusSuccess
	case apperrors.Is(err, apperrors.ErrRequestCanceled):
		return metrics.StatusCanceled
	default:
		return metrics.StatusError
	}
}

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// AuthenticateBasic records metrics for basic authentication attempts.
func (c *credentialUseCaseWithMetrics) AuthenticateBasic(
	ctx context.Context,
	email, password string,
) (*authDomain.Principal, error) {
	start := time.Now()
	principal, err := c.next.AuthenticateBasic(ctx, email, password)

	metrics.Observe(ctx, c.metrics, "auth", "authenticate_basic", start, errorStatus(err))

	return principal, err
}

// AuthenticateToken records metrics labelled with the token status.
func (c *credentialUseCaseWithMetrics) AuthenticateToken(
	ctx context.Context,
	token string,
) authDomain.TokenResult {
	start := time.Now()
	result := c.next.AuthenticateToken(ctx, token)

	metrics.Observe(ctx, c.metrics, "auth", "authenticate_token", start, string(result.Status))

	return result
}

// tokenUseCaseWithMetrics decorates TokenUseCase with metrics instrumentation.
type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Issue records metrics for token issuance operations.
func (t *tokenUseCaseWithMetrics) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := t.next.Issue(ctx, input)

	metrics.Observe(ctx, t.metrics, "auth", "token_issue", start, errorStatus(err))

	return output, err
}

// IssueJWT records metrics for JWT issuance operations.
func (t *tokenUseCaseWithMetrics) IssueJWT(ctx context.Context, userID uuid.UUID) (string, error) {
	start := time.Now()
	token, err := t.next.IssueJWT(ctx, userID)

	metrics.Observe(ctx, t.metrics, "auth", "jwt_issue", start, errorStatus(err))

	return token, err
}
