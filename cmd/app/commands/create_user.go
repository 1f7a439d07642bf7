package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/allisson/gatekeeper/internal/user/domain"
	userUsecase "github.com/allisson/gatekeeper/internal/user/usecase"
)

// CreateUserParams holds the create-user flag values.
type CreateUserParams struct {
	FullName        string
	Email           string
	Password        string
	OrganizationIDs string
	Roles           string
	Format          string
}

// RunCreateUser registers a local user. When no password is given it is read
// from the command input.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	userUseCase userUsecase.UseCase,
	logger *slog.Logger,
	params CreateUserParams,
	io IOTuple,
) error {
	if err := validateFormat(params.Format); err != nil {
		return err
	}

	orgIDs, err := parseUUIDList(params.OrganizationIDs)
	if err != nil {
		return fmt.Errorf("invalid organization ids: %w", err)
	}

	password := params.Password
	if password == "" {
		password, err = promptLine(bufio.NewReader(io.Reader), io.Writer, "Enter password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	logger.Info("creating new user", slog.String("email", params.Email))

	user, err := userUseCase.RegisterUser(ctx, userUsecase.RegisterUserInput{
		FullName:        params.FullName,
		Email:           params.Email,
		Password:        password,
		OrganizationIDs: orgIDs,
		Roles:           splitList(params.Roles),
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if params.Format == FormatJSON {
		if err := writeUserJSON(user, io); err != nil {
			return err
		}
	} else {
		writeUserText(user, io)
	}

	logger.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("email", user.Email),
	)

	return nil
}

func writeUserText(user *domain.User, io IOTuple) {
	_, _ = fmt.Fprintln(io.Writer, "\nUser created successfully!")
	_, _ = fmt.Fprintf(io.Writer, "User ID: %s\n", user.ID)
	_, _ = fmt.Fprintf(io.Writer, "Email: %s\n", user.Email)
	_, _ = fmt.Fprintf(io.Writer, "Roles: %s\n", strings.Join(user.Roles, ", "))
}

func writeUserJSON(user *domain.User, io IOTuple) error {
	orgIDs := make([]string, 0, len(user.OrganizationIDs))
	for _, id := range user.OrganizationIDs {
		orgIDs = append(orgIDs, id.String())
	}
	return writeJSON(io.Writer, map[string]any{
		"user_id":          user.ID.String(),
		"email":            user.Email,
		"full_name":        user.FullName,
		"organization_ids": orgIDs,
		"roles":            user.Roles,
	})
}
