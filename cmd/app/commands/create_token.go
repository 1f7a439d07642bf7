package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	authUseCase "github.com/allisson/gatekeeper/internal/auth/usecase"
	userUsecase "github.com/allisson/gatekeeper/internal/user/usecase"
)

// CreateTokenParams holds the create-token flag values.
type CreateTokenParams struct {
	UserEmail      string
	OrganizationID string
	ProjectID      string
	Notes          string
	ExpiresIn      time.Duration
	Format         string
}

// RunCreateToken issues an API key owned either by a user (looked up by email)
// or by an organization and optional project. The plain token is printed once.
//
// Requirements: Database must be migrated and accessible.
func RunCreateToken(
	ctx context.Context,
	userUseCase userUsecase.UseCase,
	tokenUseCase authUseCase.TokenUseCase,
	logger *slog.Logger,
	params CreateTokenParams,
	io IOTuple,
) error {
	if err := validateFormat(params.Format); err != nil {
		return err
	}

	input := &authDomain.IssueTokenInput{
		Notes:     params.Notes,
		ExpiresIn: params.ExpiresIn,
	}

	if params.UserEmail != "" {
		user, err := userUseCase.GetUserByEmail(ctx, params.UserEmail)
		if err != nil {
			return fmt.Errorf("failed to find user: %w", err)
		}
		input.UserID = &user.ID
	}

	var err error
	if input.OrganizationID, err = parseOptionalUUID(params.OrganizationID); err != nil {
		return fmt.Errorf("invalid organization id: %w", err)
	}
	if input.ProjectID, err = parseOptionalUUID(params.ProjectID); err != nil {
		return fmt.Errorf("invalid project id: %w", err)
	}

	logger.Info("issuing api key",
		slog.String("user_id", uuidOrEmpty(input.UserID)),
		slog.String("organization_id", uuidOrEmpty(input.OrganizationID)),
	)

	output, err := tokenUseCase.Issue(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create token: %w", err)
	}

	if params.Format == FormatJSON {
		result := map[string]any{
			"token_id": output.ID.String(),
			"token":    output.PlainToken,
		}
		if output.ExpiresAt != nil {
			result["expires_at"] = output.ExpiresAt.UTC().Format(time.RFC3339)
		}
		if err := writeJSON(io.Writer, result); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(io.Writer, "\nToken created successfully!")
		_, _ = fmt.Fprintf(io.Writer, "Token ID: %s\n", output.ID)
		_, _ = fmt.Fprintf(io.Writer, "Token: %s\n", output.PlainToken)
		if output.ExpiresAt != nil {
			_, _ = fmt.Fprintf(io.Writer, "Expires At: %s\n", output.ExpiresAt.UTC().Format(time.RFC3339))
		}
		_, _ = fmt.Fprintln(io.Writer, "\nIMPORTANT: The token is shown only once. Store it securely.")
	}

	logger.Info("api key issued", slog.String("token_id", output.ID.String()))

	return nil
}

func uuidOrEmpty(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
