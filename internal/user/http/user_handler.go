// Package http provides HTTP handlers for user-related operations.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/gatekeeper/internal/auth/http"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	"github.com/allisson/gatekeeper/internal/httputil"
	"github.com/allisson/gatekeeper/internal/user/http/dto"
	"github.com/allisson/gatekeeper/internal/user/usecase"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userUseCase usecase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// GetCurrentUserHandler returns the signed-in user.
// GET /v1/me
//
// Anonymous requests get 401 and token principals without a user get 403.
func (h *UserHandler) GetCurrentUserHandler(c *gin.Context) {
	principal, ok := authHTTP.GetPrincipal(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}
	if !principal.IsUser() {
		httputil.HandleErrorGin(
			c,
			apperrors.Wrap(apperrors.ErrForbidden, "principal is not a user"),
			h.logger,
		)
		return
	}

	user, err := h.userUseCase.GetUserByID(c.Request.Context(), *principal.UserID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}
