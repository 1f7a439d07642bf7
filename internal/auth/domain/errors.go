package domain

import (
	"github.com/allisson/gatekeeper/internal/errors"
)

// Authentication errors.
var (
	// ErrTokenNotFound indicates no stored token matches the presented value.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrInvalidCredentials is returned for every basic-auth failure so callers
	// cannot tell an unknown email from a wrong password.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrTokenExpired indicates a recognized token whose lifetime has ended.
	ErrTokenExpired = errors.Wrap(errors.ErrTokenExpired, "token expired")

	// ErrUntrustedSigner indicates a structured token whose signature cannot be verified.
	ErrUntrustedSigner = errors.Wrap(errors.ErrUnauthorized, "untrusted token signer")

	// ErrMalformedToken indicates a structured token that cannot be parsed.
	ErrMalformedToken = errors.Wrap(errors.ErrUnauthorized, "malformed token")

	// ErrPrincipalConflict indicates a second, different principal was offered for
	// a request that already has one.
	ErrPrincipalConflict = errors.Wrap(errors.ErrConflict, "principal already attached")

	// ErrTokenOwnerRequired indicates a token must belong to a user or an organization.
	ErrTokenOwnerRequired = errors.Wrap(errors.ErrInvalidInput, "token requires a user or an organization")

	// ErrTokenOrganizationForbidden indicates the token owner is not a member of the requested organization.
	ErrTokenOrganizationForbidden = errors.Wrap(errors.ErrInvalidInput, "token owner is not a member of the organization")
)
