package handler

import (
	"net/http"
	"strconv"

	"stock-service/internal/audit"
	"stock-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	audit AuditQuerier
}

func NewAdminHandler(auditQuerier AuditQuerier) *AdminHandler {
	return &AdminHandler{audit: auditQuerier}
}

type AuditEventsResponse struct {
	Events []*audit.Event `json:"events"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ListAuditEvents serves GET /api/admin/audit-events?actor=&action=&status=&limit=&offset=
func (h *AdminHandler) ListAuditEvents(c echo.Context) error {
	limit, err := intQueryParam(c, queryParamLimit)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidQueryParam)
	}
	offset, err := intQueryParam(c, queryParamOffset)
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidQueryParam)
	}

	filter := audit.QueryFilter{
		ActorID: c.QueryParam(queryParamActor),
		Action:  audit.Action(c.QueryParam(queryParamAction)),
		Status:  audit.Status(c.QueryParam(queryParamStatus)),
		Limit:   limit,
		Offset:  offset,
	}

	events, err := h.audit.Query(c.Request().Context(), filter)
	if err != nil {
		logger.FromContext(c.Request().Context()).WithError(err).Error(msgAuditUnavailable)
		return respondError(c, http.StatusInternalServerError, msgAuditUnavailable)
	}

	return c.JSON(http.StatusOK, AuditEventsResponse{
		Events: events,
		Limit:  limit,
		Offset: offset,
	})
}

func intQueryParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, echo.ErrBadRequest
	}
	return v, nil
}
