package postgres

import (
	"context"
	"errors"

	"stock-service/internal/auth"
	"stock-service/internal/domain/user"
	"stock-service/internal/repository"
	apperrors "stock-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, email, password_hash, name, role, created_at, updated_at`

type UserRepository struct {
	db *DB
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) CreateIfAbsent(ctx context.Context, input user.CreateUserInput) (*user.User, bool, error) {
	query := `
		INSERT INTO users (username, email, password_hash, name, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO NOTHING
		RETURNING ` + userColumns

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query,
		input.Username,
		input.Email,
		input.PasswordHash,
		input.Name,
		string(input.Role),
	))
	if err == nil {
		return u, true, nil
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		existing, getErr := r.GetByUsername(ctx, input.Username)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	case isUniqueViolation(err):
		return nil, false, apperrors.Conflict(errUsernameTaken)
	case isCheckViolation(err):
		return nil, false, apperrors.Validation(errRoleNotPermitted)
	default:
		return nil, false, errFailedCreateUser(err)
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, errFailedCheckUser(err)
	}
	return exists, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	var role string
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = auth.Role(role)
	return u, nil
}
