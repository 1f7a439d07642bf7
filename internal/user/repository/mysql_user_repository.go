package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"github.com/allisson/gatekeeper/internal/database"
	apperrors "github.com/allisson/gatekeeper/internal/errors"
	"github.com/allisson/gatekeeper/internal/user/domain"
)

const mysqlDuplicateEntry = 1062

// MySQLUserRepository handles user persistence for MySQL.
// Uses BINARY(16) for UUIDs and JSON columns for organization ids and roles.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts a new user. Returns ErrUserAlreadyExists when the email is taken.
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	orgIDs, roles, err := marshalUserLists(user)
	if err != nil {
		return err
	}

	query := `INSERT INTO users (id, email, full_name, password, salt, is_active, organization_ids, roles, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(ctx, query,
		id,
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
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *MySQLUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	query := `SELECT id, email, full_name, password, salt, is_active, organization_ids, roles, created_at, updated_at
			  FROM users WHERE id = ?`
	return r.getOne(ctx, query, idBytes)
}

// GetByEmail retrieves a user by email.
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, full_name, password, salt, is_active, organization_ids, roles, created_at, updated_at
			  FROM users WHERE email = ?`
	return r.getOne(ctx, query, email)
}

func (r *MySQLUserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	var user domain.User
	var id, orgIDs, roles []byte

	err := querier.QueryRowContext(ctx, query, arg).Scan(
		&id,
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

	if user.ID, err = uuid.FromBytes(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}
	if err := unmarshalUserLists(&user, orgIDs, roles); err != nil {
		return nil, err
	}
	return &user, nil
}
