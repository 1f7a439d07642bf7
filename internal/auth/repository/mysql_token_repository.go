package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/allisson/gatekeeper/internal/auth/domain"
	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

// MySQLTokenRepository implements Token persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLTokenRepository struct {
	db *sql.DB
}

// Create inserts a new Token into the MySQL database.
func (m *MySQLTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO tokens (id, token_hash, type, user_id, organization_id, project_id, notes, is_disabled, expires_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal token id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		token.TokenHash,
		string(token.Type),
		database.NullableUUIDBytes(token.UserID),
		database.NullableUUIDBytes(token.OrganizationID),
		database.NullableUUIDBytes(token.ProjectID),
		token.Notes,
		token.IsDisabled,
		token.ExpiresAt,
		token.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create token")
	}
	return nil
}

// GetByTokenHash retrieves a Token by its SHA-256 hash. Returns ErrTokenNotFound
// if no token matches.
func (m *MySQLTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, type, user_id, organization_id, project_id, notes, is_disabled, expires_at, created_at
			  FROM tokens WHERE token_hash = ?`

	var token authDomain.Token
	var id, userID, organizationID, projectID []byte
	var tokenType string

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&id,
		&token.TokenHash,
		&tokenType,
		&userID,
		&organizationID,
		&projectID,
		&token.Notes,
		&token.IsDisabled,
		&token.ExpiresAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get token by hash")
	}

	if token.ID, err = uuid.FromBytes(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal token id")
	}
	if token.UserID, err = database.ParseNullableUUIDBytes(userID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	if token.OrganizationID, err = database.ParseNullableUUIDBytes(organizationID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal organization id")
	}
	if token.ProjectID, err = database.ParseNullableUUIDBytes(projectID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal project id")
	}

	token.Type = authDomain.TokenType(tokenType)
	return &token, nil
}

// NewMySQLTokenRepository creates a new MySQL Token repository.
func NewMySQLTokenRepository(db *sql.DB) *MySQLTokenRepository {
	return &MySQLTokenRepository{db: db}
}
