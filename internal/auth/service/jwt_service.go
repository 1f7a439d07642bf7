package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/allisson/gatekeeper/internal/auth/domain"
)

// JWTConfig holds JWT signing and verification settings.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Claims are the claims carried by gatekeeper JWTs.
type Claims struct {
	Email           string   `json:"email,omitempty"`
	FullName        string   `json:"name,omitempty"`
	OrganizationIDs []string `json:"org_ids,omitempty"`
	Roles           []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

type jwtService struct {
	cfg JWTConfig
	now func() time.Time
}

// NewJWTService creates a JWTService signing with HS256.
func NewJWTService(cfg JWTConfig) JWTService {
	return &jwtService{cfg: cfg, now: time.Now}
}

// Issue signs a token whose subject is the principal's user id.
func (s *jwtService) Issue(principal *domain.Principal) (string, *Claims, error) {
	now := s.now()

	orgIDs := make([]string, 0, len(principal.OrganizationIDs))
	for _, id := range principal.OrganizationIDs {
		orgIDs = append(orgIDs, id.String())
	}

	claims := &Claims{
		Email:           principal.Email,
		FullName:        principal.FullName,
		OrganizationIDs: orgIDs,
		Roles:           principal.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			Subject:   principal.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies signature, issuer, audience and lifetime.
func (s *jwtService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	}, s.parserOptions()...)
	if err != nil {
		return nil, classifyJWTError(err)
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, fmt.Errorf("%w: invalid subject", domain.ErrMalformedToken)
	}

	return claims, nil
}

func (s *jwtService) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.cfg.Audience))
	}
	return opts
}

func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", domain.ErrTokenExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrInvalidKey),
		errors.Is(err, jwt.ErrInvalidKeyType),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidAudience):
		return fmt.Errorf("%w: %w", domain.ErrUntrustedSigner, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrMalformedToken, err)
	}
}
