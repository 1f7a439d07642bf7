package domain

import "time"

// TokenStatus is the outcome of validating a token.
type TokenStatus string

const (
	// TokenStatusValid means the token resolved to a principal.
	TokenStatusValid TokenStatus = "valid"

	// TokenStatusUnrecognized means no validator knows the token.
	TokenStatusUnrecognized TokenStatus = "unrecognized"

	// TokenStatusExpired means the token was recognized but its lifetime ended.
	TokenStatusExpired TokenStatus = "expired"

	// TokenStatusUntrustedSigner means the token's signature could not be verified.
	TokenStatusUntrustedSigner TokenStatus = "untrusted_signer"

	// TokenStatusMalformed means the token looked structured but could not be parsed.
	TokenStatusMalformed TokenStatus = "malformed"

	// TokenStatusFailed means a backend failure prevented a decision.
	TokenStatusFailed TokenStatus = "failed"
)

// TokenResult is the tagged outcome of token validation. Principal is set only
// for TokenStatusValid; Err carries the cause for failed outcomes. ExpiresAt is
// the end of the token's own lifetime, zero when it never expires.
type TokenResult struct {
	Status    TokenStatus
	Principal *Principal
	ExpiresAt time.Time
	Err       error
}

// ValidToken builds a successful result.
func ValidToken(p *Principal) TokenResult {
	return TokenResult{Status: TokenStatusValid, Principal: p}
}

// ValidTokenUntil builds a successful result for a token that stops being valid at expiresAt.
func ValidTokenUntil(p *Principal, expiresAt time.Time) TokenResult {
	return TokenResult{Status: TokenStatusValid, Principal: p, ExpiresAt: expiresAt}
}

// UnrecognizedToken builds a result for a token no validator knows.
func UnrecognizedToken() TokenResult {
	return TokenResult{Status: TokenStatusUnrecognized}
}

// FailedToken builds a result with the given status and cause.
func FailedToken(status TokenStatus, err error) TokenResult {
	return TokenResult{Status: status, Err: err}
}

// IsValid reports whether the result carries a principal.
func (r TokenResult) IsValid() bool {
	return r.Status == TokenStatusValid && r.Principal != nil
}

// ExpiredAt reports whether the token's lifetime has ended at now.
func (r TokenResult) ExpiredAt(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// Clone returns a copy whose principal shares no memory with r.
func (r TokenResult) Clone() TokenResult {
	r.Principal = r.Principal.Clone()
	return r
}
