package handler

import (
	"context"
	"net/http"
	"time"

	"stock-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

const healthPingTimeout = 2 * time.Second

type HealthHandler struct {
	db  Pinger
	now func() time.Time
}

// NewHealthHandler reports database reachability when db is non-nil.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, now: time.Now}
}

type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service,omitempty"`
	Message   string `json:"message,omitempty"`
	Database  string `json:"database,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    statusUp,
		Service:   serviceName,
		Message:   msgAPIRunning,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Health(c echo.Context) error {
	resp := HealthResponse{
		Status:    statusUp,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	}

	if h.db == nil {
		return c.JSON(http.StatusOK, resp)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.FromContext(c.Request().Context()).WithError(err).Warn("health check: database unreachable")
		resp.Status = statusDown
		resp.Database = statusDown
		return c.JSON(http.StatusServiceUnavailable, resp)
	}

	resp.Database = statusUp
	return c.JSON(http.StatusOK, resp)
}
