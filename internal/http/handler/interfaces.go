package handler

import (
	"context"
	"time"

	"stock-service/internal/audit"
	"stock-service/internal/auth"
	"stock-service/internal/domain/user"

	"github.com/labstack/echo/v4"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

// AuthHandler interfaces
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

type TokenIssuer interface {
	Generate(subject string, role auth.Role) (string, error)
	Expiry() time.Duration
}

type LoginLimiter interface {
	IsLocked(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) (bool, error)
	Reset(ctx context.Context, username string) error
}

type AuditLogger interface {
	LogFromContext(c echo.Context, actorID string, resourceType audit.ResourceType, action audit.Action, status audit.Status, metadata map[string]any)
}

// AdminHandler interfaces
type AuditQuerier interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]*audit.Event, error)
}

// HealthHandler interfaces
type Pinger interface {
	Ping(ctx context.Context) error
}
