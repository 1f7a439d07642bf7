package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
)

func rateLimitedRouter(t *testing.T, rps float64, burst int, principal *authDomain.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		ctx, _ := AttachPrincipal(c.Request.Context(), principal)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	router.Use(RateLimitMiddleware(t.Context(), rps, burst, testLogger()))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	router := rateLimitedRouter(t, 10, 20, userPrincipal("u@example.com"))

	for range 5 {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_BlocksRequestsExceedingLimit(t *testing.T) {
	router := rateLimitedRouter(t, 1, 2, userPrincipal("u@example.com"))

	for range 2 {
		w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestRateLimitMiddleware_AnonymousCallersKeyedByIP(t *testing.T) {
	router := rateLimitedRouter(t, 1, 1, nil)

	first := httptest.NewRequest(http.MethodGet, "/test", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, http.StatusOK, serve(router, first).Code)

	again := httptest.NewRequest(http.MethodGet, "/test", nil)
	again.RemoteAddr = "10.0.0.1:5678"
	assert.Equal(t, http.StatusTooManyRequests, serve(router, again).Code)

	other := httptest.NewRequest(http.MethodGet, "/test", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	assert.Equal(t, http.StatusOK, serve(router, other).Code)
}

func TestRateLimiterStore_RemoveIdle(t *testing.T) {
	now := time.Now()
	store := &rateLimiterStore{rps: 1, burst: 1, now: func() time.Time { return now }}

	store.getLimiter("stale")
	now = now.Add(2 * time.Hour)
	store.getLimiter("fresh")

	store.removeIdle(now.Add(-limiterIdleTimeout))

	_, staleFound := store.limiters.Load("stale")
	_, freshFound := store.limiters.Load("fresh")
	assert.False(t, staleFound)
	assert.True(t, freshFound)
}

func TestAuthFailureLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(AuthFailureLimitMiddleware(t.Context(), 0.001, 2, testLogger()))
	router.GET("/test", func(c *gin.Context) {
		if c.GetHeader("Authorization") == "bad" {
			c.Status(http.StatusUnauthorized)
			return
		}
		c.Status(http.StatusOK)
	})

	request := func(authorization, ip string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", authorization)
		req.RemoteAddr = ip + ":1234"
		return req
	}

	for range 5 {
		assert.Equal(t, http.StatusOK, serve(router, request("good", "10.0.0.1")).Code)
	}

	assert.Equal(t, http.StatusUnauthorized, serve(router, request("bad", "10.0.0.1")).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(router, request("bad", "10.0.0.1")).Code)

	blocked := serve(router, request("good", "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusUnauthorized, serve(router, request("bad", "10.0.0.2")).Code)
}
