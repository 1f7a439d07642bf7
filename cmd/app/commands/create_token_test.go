package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authMocks "github.com/allisson/gatekeeper/internal/auth/usecase/mocks"
	"github.com/allisson/gatekeeper/internal/user/domain"
	userMocks "github.com/allisson/gatekeeper/internal/user/usecase/mocks"
)

func TestRunCreateToken(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: uuid.New(), Email: "ada@example.com"}
	expiresAt := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	output := &authDomain.IssueTokenOutput{ID: uuid.New(), PlainToken: "plain-token", ExpiresAt: &expiresAt}

	t.Run("user-token-text", func(t *testing.T) {
		uc := &userMocks.MockUseCase{}
		uc.On("GetUserByEmail", ctx, "ada@example.com").Return(user, nil)

		tuc := &authMocks.MockTokenUseCase{}
		tuc.On("Issue", ctx, mock.MatchedBy(func(input *authDomain.IssueTokenInput) bool {
			return input.UserID != nil && *input.UserID == user.ID &&
				input.OrganizationID == nil && input.ExpiresIn == time.Hour && input.Notes == "ci"
		})).Return(output, nil)

		var out bytes.Buffer
		err := RunCreateToken(ctx, uc, tuc, discardLogger(), CreateTokenParams{
			UserEmail: "ada@example.com",
			Notes:     "ci",
			ExpiresIn: time.Hour,
			Format:    FormatText,
		}, IOTuple{Writer: &out})

		require.NoError(t, err)
		assert.Contains(t, out.String(), "plain-token")
		assert.Contains(t, out.String(), "2030-01-02T03:04:05Z")
		uc.AssertExpectations(t)
		tuc.AssertExpectations(t)
	})

	t.Run("organization-token-json", func(t *testing.T) {
		orgID := uuid.New()
		projectID := uuid.New()

		tuc := &authMocks.MockTokenUseCase{}
		tuc.On("Issue", ctx, &authDomain.IssueTokenInput{
			OrganizationID: &orgID,
			ProjectID:      &projectID,
		}).Return(&authDomain.IssueTokenOutput{ID: output.ID, PlainToken: "org-token"}, nil)

		var out bytes.Buffer
		err := RunCreateToken(ctx, &userMocks.MockUseCase{}, tuc, discardLogger(), CreateTokenParams{
			OrganizationID: orgID.String(),
			ProjectID:      projectID.String(),
			Format:         FormatJSON,
		}, IOTuple{Writer: &out})

		require.NoError(t, err)
		var result map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, "org-token", result["token"])
		assert.Equal(t, output.ID.String(), result["token_id"])
		assert.NotContains(t, result, "expires_at")
		tuc.AssertExpectations(t)
	})

	t.Run("unknown-user", func(t *testing.T) {
		uc := &userMocks.MockUseCase{}
		uc.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrUserNotFound)
		tuc := &authMocks.MockTokenUseCase{}

		err := RunCreateToken(ctx, uc, tuc, discardLogger(), CreateTokenParams{
			UserEmail: "ghost@example.com",
			Format:    FormatText,
		}, IOTuple{Writer: io.Discard})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		tuc.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything)
	})

	t.Run("invalid-project-id", func(t *testing.T) {
		err := RunCreateToken(ctx, &userMocks.MockUseCase{}, &authMocks.MockTokenUseCase{}, discardLogger(),
			CreateTokenParams{OrganizationID: uuid.NewString(), ProjectID: "nope", Format: FormatText},
			IOTuple{Writer: io.Discard})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid project id")
	})
}
