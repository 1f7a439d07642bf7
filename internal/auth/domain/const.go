// Package domain defines the credential-resolution model: how a request presents
// a credential (Candidate), what a validated identity looks like (Principal) and
// the stored API-key record (Token).
package domain

// Scheme classifies how a request presented its credential.
type Scheme string

const (
	// SchemeNone means no usable credential was presented.
	SchemeNone Scheme = "none"

	// SchemeToken means a single opaque token was presented.
	SchemeToken Scheme = "token"

	// SchemeBasic means an email/password pair was presented.
	SchemeBasic Scheme = "basic"
)

// Source records where a candidate was found.
type Source string

const (
	SourceNone         Source = ""
	SourceHeaderBearer Source = "header-bearer"
	SourceHeaderToken  Source = "header-token"
	SourceHeaderBasic  Source = "header-basic"
	SourceQuery        Source = "query"
)

// PrincipalKind distinguishes people from API keys.
type PrincipalKind string

const (
	PrincipalKindUser  PrincipalKind = "user"
	PrincipalKindToken PrincipalKind = "token"
)

// Well-known roles.
const (
	RoleUser        = "user"
	RoleGlobalAdmin = "global_admin"
	RoleClient      = "client"
)

// TokenType is the purpose of a stored token. Only access tokens authenticate.
type TokenType string

const (
	TokenTypeAccess TokenType = "access"
)
