package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/gatekeeper/internal/user/domain"
	userUsecase "github.com/allisson/gatekeeper/internal/user/usecase"
	userMocks "github.com/allisson/gatekeeper/internal/user/usecase/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunCreateUser(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	user := &domain.User{
		ID:              uuid.New(),
		Email:           "ada@example.com",
		FullName:        "Ada Lovelace",
		OrganizationIDs: []uuid.UUID{orgID},
		Roles:           []string{"user", "global_admin"},
	}

	t.Run("flags-text", func(t *testing.T) {
		uc := &userMocks.MockUseCase{}
		uc.On("RegisterUser", ctx, userUsecase.RegisterUserInput{
			FullName:        "Ada Lovelace",
			Email:           "ada@example.com",
			Password:        "Str0ng!Pass",
			OrganizationIDs: []uuid.UUID{orgID},
			Roles:           []string{"user", "global_admin"},
		}).Return(user, nil)

		var out bytes.Buffer
		err := RunCreateUser(ctx, uc, discardLogger(), CreateUserParams{
			FullName:        "Ada Lovelace",
			Email:           "ada@example.com",
			Password:        "Str0ng!Pass",
			OrganizationIDs: orgID.String(),
			Roles:           "user, global_admin",
			Format:          FormatText,
		}, IOTuple{Writer: &out})

		require.NoError(t, err)
		assert.Contains(t, out.String(), user.ID.String())
		assert.Contains(t, out.String(), "user, global_admin")
		uc.AssertExpectations(t)
	})

	t.Run("prompted-password-json", func(t *testing.T) {
		uc := &userMocks.MockUseCase{}
		uc.On("RegisterUser", ctx, mock.MatchedBy(func(input userUsecase.RegisterUserInput) bool {
			return input.Password == "Prompted!1a" && input.OrganizationIDs == nil && input.Roles == nil
		})).Return(user, nil)

		var out bytes.Buffer
		err := RunCreateUser(ctx, uc, discardLogger(), CreateUserParams{
			FullName: "Ada Lovelace",
			Email:    "ada@example.com",
			Format:   FormatJSON,
		}, IOTuple{Reader: strings.NewReader("Prompted!1a\n"), Writer: &out})

		require.NoError(t, err)

		jsonStart := strings.Index(out.String(), "{")
		require.GreaterOrEqual(t, jsonStart, 0)
		var result map[string]any
		require.NoError(t, json.Unmarshal([]byte(out.String()[jsonStart:]), &result))
		assert.Equal(t, user.ID.String(), result["user_id"])
		assert.Equal(t, "ada@example.com", result["email"])
		uc.AssertExpectations(t)
	})

	t.Run("invalid-organization-id", func(t *testing.T) {
		uc := &userMocks.MockUseCase{}

		err := RunCreateUser(ctx, uc, discardLogger(), CreateUserParams{
			Email:           "ada@example.com",
			Password:        "x",
			OrganizationIDs: "not-a-uuid",
			Format:          FormatText,
		}, IOTuple{Writer: io.Discard})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid organization ids")
		uc.AssertNotCalled(t, "RegisterUser", mock.Anything, mock.Anything)
	})

	t.Run("invalid-format", func(t *testing.T) {
		err := RunCreateUser(ctx, &userMocks.MockUseCase{}, discardLogger(), CreateUserParams{
			Format: "yaml",
		}, IOTuple{Writer: io.Discard})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})

	t.Run("use-case-error", func(t *testing.T) {
		uc := &userMocks.MockUseCase{}
		uc.On("RegisterUser", ctx, mock.Anything).Return(nil, domain.ErrUserAlreadyExists)

		err := RunCreateUser(ctx, uc, discardLogger(), CreateUserParams{
			Email:    "ada@example.com",
			Password: "Str0ng!Pass",
			Format:   FormatText,
		}, IOTuple{Writer: io.Discard})

		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUserAlreadyExists))
	})
}
