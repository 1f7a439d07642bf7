package usecase

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	authService "github.com/allisson/gatekeeper/internal/auth/service"
	userDomain "github.com/allisson/gatekeeper/internal/user/domain"
)

func createTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTxManager runs fn inline without a database.
type fakeTxManager struct{}

func (f *fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// newActiveUser returns an active user whose password is stored with the SHA-256 hasher.
func newActiveUser(email, password string) *userDomain.User {
	hasher := authService.NewSHA256Hasher()
	salt := "c2FsdC12YWx1ZQ=="
	return &userDomain.User{
		ID:              uuid.Must(uuid.NewV7()),
		Email:           email,
		FullName:        "Test User",
		Password:        hasher.SaltedHash(password, salt),
		Salt:            salt,
		IsActive:        true,
		OrganizationIDs: []uuid.UUID{uuid.New()},
		Roles:           []string{"user"},
	}
}
