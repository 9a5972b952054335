package app

import (
	"context"
	"fmt"

	"stock-service/internal/audit"
	"stock-service/internal/auth"
	"stock-service/internal/config"
	"stock-service/internal/domain/user"
	"stock-service/pkg/logger"
	"stock-service/pkg/password"

	"github.com/sirupsen/logrus"
)

// BootstrapResult reports what EnsureDefaultAdmin did.
type BootstrapResult string

const (
	BootstrapCreated        BootstrapResult = "created"
	BootstrapAlreadyPresent BootstrapResult = "already_present"
	BootstrapSkipped        BootstrapResult = "skipped"
	BootstrapFailed         BootstrapResult = "failed"

	errHashAdminPasswordFmt = "hash admin password: %w"
	errCreateAdminFmt       = "create admin account: %w"
)

type AccountCreator interface {
	CreateIfAbsent(ctx context.Context, input user.CreateUserInput) (*user.User, bool, error)
}

type EventLogger interface {
	Log(ctx context.Context, event *audit.Event) error
}

// Bootstrapper seeds the default admin account at startup.
type Bootstrapper struct {
	users AccountCreator
	audit EventLogger
	hash  func(string) (string, error)
}

// NewBootstrapper builds a Bootstrapper. auditLogger may be nil.
func NewBootstrapper(users AccountCreator, auditLogger EventLogger) *Bootstrapper {
	return &Bootstrapper{
		users: users,
		audit: auditLogger,
		hash:  password.Hash,
	}
}

// EnsureDefaultAdmin creates the configured admin account unless an account
// with that username already exists. It is skipped when no password is configured.
// Running it any number of times leaves at most one such account.
func (b *Bootstrapper) EnsureDefaultAdmin(ctx context.Context, cfg config.BootstrapConfig) (BootstrapResult, error) {
	log := logger.FromContext(ctx).WithField("username", cfg.AdminUsername)

	if cfg.AdminPassword == "" || cfg.AdminUsername == "" {
		log.Info("default admin bootstrap skipped: ADMIN_PASSWORD not set")
		return BootstrapSkipped, nil
	}

	hash, err := b.hash(cfg.AdminPassword)
	if err != nil {
		b.record(ctx, cfg.AdminUsername, audit.StatusFailure, err)
		return BootstrapFailed, fmt.Errorf(errHashAdminPasswordFmt, err)
	}

	u, created, err := b.users.CreateIfAbsent(ctx, user.CreateUserInput{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Name:         cfg.AdminName,
		Role:         auth.RoleAdmin,
	})
	if err != nil {
		b.record(ctx, cfg.AdminUsername, audit.StatusFailure, err)
		return BootstrapFailed, fmt.Errorf(errCreateAdminFmt, err)
	}

	if !created {
		if !u.Role.Is(auth.RoleAdmin) {
			log.WithField("role", u.Role).Warn("default admin username is taken by a non-admin account")
		}
		log.Info("default admin already present")
		return BootstrapAlreadyPresent, nil
	}

	b.record(ctx, u.Username, audit.StatusSuccess, nil)
	log.WithFields(logrus.Fields{"id": u.ID}).Info("default admin created")
	return BootstrapCreated, nil
}

func (b *Bootstrapper) record(ctx context.Context, username string, status audit.Status, cause error) {
	if b.audit == nil {
		return
	}

	event := &audit.Event{
		ActorType:    audit.ActorTypeSystem,
		ResourceType: audit.ResourceTypeUser,
		ResourceID:   username,
		Action:       audit.ActionBootstrap,
		Status:       status,
	}
	if cause != nil {
		event.ErrorMessage = cause.Error()
	}

	if err := b.audit.Log(ctx, event); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("failed to audit admin bootstrap")
	}
}
