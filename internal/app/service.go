package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"stock-service/internal/config"
	httpserver "stock-service/internal/http"
	"stock-service/internal/repository/postgres"
	"stock-service/pkg/logger"
)

const serverAddrPrefix = ":"

// Service is the running stock-management API
type Service struct {
	config       *config.Config
	db           *postgres.DB
	closeLimiter func()
	server       *httpserver.Server
}

// NewService creates and initializes a new Service instance
// This is a convenience wrapper around InitializeService
func NewService(ctx context.Context) (*Service, error) {
	return InitializeService(ctx)
}

// Start serves HTTP until Shutdown is called. A graceful stop returns nil.
func (s *Service) Start() error {
	addr := serverAddrPrefix + s.config.Server.Port
	logger.Default().WithField("addr", addr).Info("starting stock service")

	if err := s.server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server, then releases the stores
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)

	if s.closeLimiter != nil {
		s.closeLimiter()
	}
	if s.db != nil {
		s.db.Close()
	}
	return err
}

// ShutdownTimeout is the grace period granted to in-flight requests
func (s *Service) ShutdownTimeout() time.Duration {
	return s.config.Server.ShutdownTimeout
}
