package repository

import (
	"context"

	"stock-service/internal/domain/user"

	"github.com/google/uuid"
)

// UserRepository defines account data access operations
type UserRepository interface {
	// CreateIfAbsent inserts the account unless the username is taken.
	// created is false when an account with that username already existed.
	CreateIfAbsent(ctx context.Context, input user.CreateUserInput) (u *user.User, created bool, err error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
