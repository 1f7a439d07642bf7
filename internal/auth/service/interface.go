// Package service provides the technical building blocks of credential resolution:
// extracting candidates from requests, salted password hashing, API-key generation,
// JWT signing and parsing, and KMS access for wrapped secrets.
package service

import (
	"context"
	"net/http"

	"github.com/allisson/gatekeeper/internal/auth/domain"
)

// CredentialExtractor turns an incoming request into a classified credential candidate.
type CredentialExtractor interface {
	// Extract inspects the Authorization header and the query string. It never fails;
	// malformed presentations yield domain.NoCandidate.
	Extract(r *http.Request) domain.Candidate
}

// SaltedHasher computes and compares salted password hashes.
type SaltedHasher interface {
	// SaltedHash derives the stored hash for password using salt exactly as given.
	SaltedHash(password, salt string) string

	// GenerateSalt creates a new random salt.
	GenerateSalt() (string, error)

	// Compare reports, in constant time, whether password and salt produce storedHash.
	Compare(password, salt, storedHash string) bool
}

// TokenService defines operations for API-key generation and hashing.
type TokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns both the plain text token (shown once to the caller) and
	// the hashed version (stored in the database).
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken hashes a plain text token using SHA-256.
	HashToken(plainToken string) string
}

// JWTService signs and parses structured tokens.
type JWTService interface {
	// Issue signs a token for the given principal.
	Issue(principal *domain.Principal) (token string, claims *Claims, err error)

	// Parse verifies a token and returns its claims. Errors are classified as
	// domain.ErrTokenExpired, domain.ErrUntrustedSigner or domain.ErrMalformedToken.
	Parse(token string) (*Claims, error)
}

// KMSKeeper is the subset of *secrets.Keeper used by this package.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens keepers for the configured KMS provider.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI.
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)

	// DecryptSecret decrypts a base64 ciphertext produced by the keeper behind keyURI.
	DecryptSecret(ctx context.Context, keyURI, ciphertext string) (string, error)
}
