package commands

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("invalid-driver", func(t *testing.T) {
		err := RunMigrations(logger, "invalid", "postgres://localhost")
		require.Error(t, err)
		require.Contains(t, err.Error(), "unsupported database driver")
	})

	t.Run("invalid-connection-string", func(t *testing.T) {
		err := RunMigrations(logger, "postgres", "invalid-connection-string")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create migrate instance")
	})
}

func TestMigrationURL(t *testing.T) {
	tests := []struct {
		driver string
		dsn    string
		want   string
	}{
		{"postgres", "postgres://u:p@localhost:5432/db", "postgres://u:p@localhost:5432/db"},
		{"mysql", "u:p@tcp(localhost:3306)/db", "mysql://u:p@tcp(localhost:3306)/db"},
		{"mysql", "mysql://u:p@tcp(localhost:3306)/db", "mysql://u:p@tcp(localhost:3306)/db"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, migrationURL(tt.driver, tt.dsn), tt.dsn)
	}
}
