package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/gatekeeper/internal/auth/domain"
)

func newTestJWTService(now time.Time) *jwtService {
	return &jwtService{
		cfg: JWTConfig{
			Secret:   "test-secret-with-enough-entropy",
			Issuer:   "gatekeeper",
			Audience: "gatekeeper-api",
			TTL:      time.Hour,
		},
		now: func() time.Time { return now },
	}
}

func testPrincipal() *domain.Principal {
	id := uuid.New()
	return &domain.Principal{
		ID:              id,
		Kind:            domain.PrincipalKindUser,
		UserID:          &id,
		Email:           "alice@example.com",
		FullName:        "Alice",
		OrganizationIDs: []uuid.UUID{uuid.New()},
		Roles:           []string{domain.RoleUser},
	}
}

func TestJWTService_IssueAndParse(t *testing.T) {
	now := time.Now()
	svc := newTestJWTService(now)
	principal := testPrincipal()

	token, issued, err := svc.Issue(principal)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))
	assert.Equal(t, principal.ID.String(), issued.Subject)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, principal.ID.String(), claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.FullName)
	assert.Equal(t, []string{principal.OrganizationIDs[0].String()}, claims.OrganizationIDs)
	assert.Equal(t, []string{domain.RoleUser}, claims.Roles)
}

func TestJWTService_Parse_Errors(t *testing.T) {
	now := time.Now()
	svc := newTestJWTService(now)

	validToken, _, err := svc.Issue(testPrincipal())
	require.NoError(t, err)

	t.Run("Expired", func(t *testing.T) {
		later := newTestJWTService(now.Add(2 * time.Hour))
		_, err := later.Parse(validToken)
		assert.ErrorIs(t, err, domain.ErrTokenExpired)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := newTestJWTService(now)
		other.cfg.Secret = "another-secret"
		_, err := other.Parse(validToken)
		assert.ErrorIs(t, err, domain.ErrUntrustedSigner)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		other := newTestJWTService(now)
		other.cfg.Issuer = "someone-else"
		_, err := other.Parse(validToken)
		assert.ErrorIs(t, err, domain.ErrUntrustedSigner)
	})

	t.Run("UnexpectedAlgorithm", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "gatekeeper",
			Audience:  jwt.ClaimStrings{"gatekeeper-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(svc.cfg.Secret))
		require.NoError(t, err)

		_, err = svc.Parse(token)
		assert.ErrorIs(t, err, domain.ErrUntrustedSigner)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.Parse("a.b.c")
		assert.ErrorIs(t, err, domain.ErrMalformedToken)
	})

	t.Run("SubjectNotUUID", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "not-a-uuid",
			Issuer:    "gatekeeper",
			Audience:  jwt.ClaimStrings{"gatekeeper-api"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(svc.cfg.Secret))
		require.NoError(t, err)

		_, err = svc.Parse(token)
		assert.ErrorIs(t, err, domain.ErrMalformedToken)
	})

	t.Run("MissingExpiration", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:  uuid.NewString(),
			Issuer:   "gatekeeper",
			Audience: jwt.ClaimStrings{"gatekeeper-api"},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(svc.cfg.Secret))
		require.NoError(t, err)

		_, err = svc.Parse(token)
		assert.ErrorIs(t, err, domain.ErrMalformedToken)
	})
}
