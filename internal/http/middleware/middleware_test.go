package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stock-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// RequestID
// ============================================================================

func TestRequestID_Generated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	err := RequestID()(func(c echo.Context) error {
		seen = GetRequestID(c)
		assert.Equal(t, seen, logger.FromContext(c.Request().Context()).Data[logger.RequestIDField])
		return nil
	})(c)

	require.NoError(t, err)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_Propagated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, RequestID()(func(echo.Context) error { return nil })(c))
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestRequestID_OversizedReplaced(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, RequestID()(func(echo.Context) error { return nil })(c))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

// ============================================================================
// SecurityHeaders
// ============================================================================

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, SecurityHeaders()(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})(c))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

// ============================================================================
// RequestLogger
// ============================================================================

func TestRequestLogger_HandlesErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/boom", nil), rec)

	err := RequestLogger()(func(echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRequestLogger_PlainError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/boom", nil), rec)

	err := RequestLogger()(func(echo.Context) error {
		return errors.New("kaput")
	})(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
