package http

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "stock-service/pkg/errors"
	"stock-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	msgInternalServerError = "Internal server error"
	requestIDUnknown       = "unknown"
)

// CustomHTTPErrorHandler handles all errors returned by handlers and middleware.
// It maps sentinel errors to HTTP status codes, hides internal errors
// and logs with request context.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, message := mapError(err)

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	if requestID == "" {
		requestID = requestIDUnknown
	}

	log := logger.FromContext(c.Request().Context()).WithFields(logrus.Fields{
		"status": code,
		"error":  err.Error(),
	})
	if code >= http.StatusInternalServerError {
		log.Error("internal_server_error")
		message = msgInternalServerError
	} else {
		log.Debug("client_error")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, map[string]any{
			"error":      message,
			"request_id": requestID,
		})
	}
	if err != nil {
		log.WithError(err).Error("failed to write error response")
	}
}

func mapError(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if msg, ok := httpErr.Message.(string); ok {
			return httpErr.Code, msg
		}
		return httpErr.Code, fmt.Sprintf("%v", httpErr.Message)
	}

	code := http.StatusInternalServerError
	message := msgInternalServerError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code, message = http.StatusNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		code, message = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, apperrors.ErrUnauthorized):
		code, message = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrForbidden):
		code, message = http.StatusForbidden, "Forbidden"
	case errors.Is(err, apperrors.ErrLocked):
		code, message = http.StatusTooManyRequests, "Too many attempts"
	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrValidation):
		code, message = http.StatusBadRequest, "Bad request"
	case errors.Is(err, apperrors.ErrConflict):
		code, message = http.StatusConflict, "Resource already exists"
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && code < http.StatusInternalServerError {
		message = appErr.Message
	}

	return code, message
}
