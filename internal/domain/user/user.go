package user

import (
	"time"

	"stock-service/internal/auth"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Role         auth.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateUserInput struct {
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Role         auth.Role
}
