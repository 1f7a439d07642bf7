// Package repository implements user persistence for PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	"github.com/allisson/gatekeeper/internal/user/domain"
)

const pgUniqueViolation = "23505"

// PostgreSQLUserRepository handles user persistence for PostgreSQL.
// Organization ids and roles are stored as JSONB arrays.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

// Create inserts a new user. Returns ErrUserAlreadyExists when the email is taken.
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	orgIDs, roles, err := marshalUserLists(user)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (id, email, full_name, password, salt, is_active, organization_ids, roles, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = querier.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.FullName,
		user.Password,
		user.Salt,
		user.IsActive,
		orgIDs,
		roles,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *PostgreSQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT id, email, full_name, password, salt, is_active, organization_ids, roles, created_at, updated_at
			  FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves a user by email.
func (r *PostgreSQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, full_name, password, salt, is_active, organization_ids, roles, created_at, updated_at
			  FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *PostgreSQLUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	var user domain.User
	var orgIDs, roles []byte

	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.Password,
		&user.Salt,
		&user.IsActive,
		&orgIDs,
		&roles,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	if err := unmarshalUserLists(&user, orgIDs, roles); err != nil {
		return nil, err
	}
	return &user, nil
}

func marshalUserLists(user *domain.User) (orgIDs string, roles string, err error) {
	ids := user.OrganizationIDs
	if ids == nil {
		ids = []uuid.UUID{}
	}
	rs := user.Roles
	if rs == nil {
		rs = []string{}
	}

	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to marshal organization ids")
	}
	rolesJSON, err := json.Marshal(rs)
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to marshal roles")
	}
	return string(idsJSON), string(rolesJSON), nil
}

func unmarshalUserLists(user *domain.User, orgIDs, roles []byte) error {
	if len(orgIDs) > 0 {
		if err := json.Unmarshal(orgIDs, &user.OrganizationIDs); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal organization ids")
		}
	}
	if len(roles) > 0 {
		if err := json.Unmarshal(roles, &user.Roles); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal roles")
		}
	}
	return nil
}
