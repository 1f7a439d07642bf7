package usecase

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authService "github.com/allisson/gatekeeper/internal/auth/service"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// sharedValidateTimeout bounds a backend lookup shared by concurrent callers.
const sharedValidateTimeout = 10 * time.Second

// cachedTokenValidator keeps recent valid and unrecognized results in an
// expiring LRU keyed by token hash. Concurrent lookups of the same token share
// a single backend call.
//
// A cached valid result is never served past the token's own expiry. Disabling
// a key or deactivating its owner takes effect once the entry ages out of the cache.
type cachedTokenValidator struct {
	next         TokenValidator
	tokenService authService.TokenService
	cache        *expirable.LRU[string, authDomain.TokenResult]
	group        singleflight.Group
	now          func() time.Time
}

// NewCachedTokenValidator wraps next with a result cache. A size <= 0 returns next unchanged.
func NewCachedTokenValidator(
	next TokenValidator,
	tokenService authService.TokenService,
	size int,
	ttl time.Duration,
) TokenValidator {
	if size <= 0 {
		return next
	}
	return &cachedTokenValidator{
		next:         next,
		tokenService: tokenService,
		cache:        expirable.NewLRU[string, authDomain.TokenResult](size, nil, ttl),
		now:          time.Now,
	}
}

func (c *cachedTokenValidator) Validate(ctx context.Context, token string) authDomain.TokenResult {
	key := c.tokenService.HashToken(token)

	if result, ok := c.cache.Get(key); ok {
		if !result.ExpiredAt(c.now()) {
			return result.Clone()
		}
		c.cache.Remove(key)
	}

	// The shared call must not inherit one caller's cancellation; each caller
	// waits on its own context instead.
	ch := c.group.DoChan(key, func() (any, error) {
		sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedValidateTimeout)
		defer cancel()

		result := c.next.Validate(sharedCtx, token)
		if c.cacheable(result) {
			c.cache.Add(key, result.Clone())
		}
		return result, nil
	})

	select {
	case <-ctx.Done():
		return authDomain.FailedToken(authDomain.TokenStatusFailed, apperrors.Canceled(ctx))
	case res := <-ch:
		return res.Val.(authDomain.TokenResult).Clone()
	}
}

func (c *cachedTokenValidator) cacheable(result authDomain.TokenResult) bool {
	switch result.Status {
	case authDomain.TokenStatusValid:
		return !result.ExpiredAt(c.now())
	case authDomain.TokenStatusUnrecognized:
		return true
	default:
		return false
	}
}
