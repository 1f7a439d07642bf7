package commands

import (
	"context"
	"fmt"
	"log/slog"

	authUseCase "github.com/allisson/gatekeeper/internal/auth/usecase"
	userUsecase "github.com/allisson/gatekeeper/internal/user/usecase"
)

// RunIssueJWT signs a JWT for the active user with the given email.
func RunIssueJWT(
	ctx context.Context,
	userUseCase userUsecase.UseCase,
	tokenUseCase authUseCase.TokenUseCase,
	logger *slog.Logger,
	email string,
	format string,
	io IOTuple,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	user, err := userUseCase.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	token, err := tokenUseCase.IssueJWT(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to issue jwt: %w", err)
	}

	if format == FormatJSON {
		if err := writeJSON(io.Writer, map[string]string{"token": token}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintln(io.Writer, token)
	}

	logger.Info("jwt issued", slog.String("user_id", user.ID.String()))

	return nil
}
