// Package http provides the credential-resolution middleware and the helpers
// downstream handlers use to read the authenticated principal.
package http

import (
	"context"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

// principalKey is a context key type for storing the authenticated principal.
type principalKey struct{}

// AttachPrincipal binds p to ctx. A principal can be attached at most once per
// request: attaching the same identity again is a no-op, and attaching a
// different identity returns ErrPrincipalConflict with ctx unchanged.
func AttachPrincipal(ctx context.Context, p *authDomain.Principal) (context.Context, error) {
	if p == nil {
		return ctx, nil
	}
	if existing, ok := GetPrincipal(ctx); ok {
		if existing.SameIdentity(p) {
			return ctx, nil
		}
		return ctx, authDomain.ErrPrincipalConflict
	}
	return context.WithValue(ctx, principalKey{}, p), nil
}

// GetPrincipal retrieves the authenticated principal from the context.
// Returns (principal, true) if one is present, or (nil, false) otherwise.
func GetPrincipal(ctx context.Context) (*authDomain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*authDomain.Principal)
	return p, ok && p != nil
}
