package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/gatekeeper/internal/auth/http"
)

// CustomLoggerMiddleware writes one structured log line per request, including
// the request id and, when one was attached, the principal id. Query strings
// are not logged because they may carry access tokens.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if principal, ok := authHTTP.GetPrincipal(c.Request.Context()); ok {
			attrs = append(attrs,
				slog.String("principal_id", principal.ID.String()),
				slog.String("principal_kind", string(principal.Kind)),
			)
		}

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "http request", attrs...)
	}
}
