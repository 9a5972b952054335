package auth

import (
	"strings"

	apperrors "stock-service/pkg/errors"
	"stock-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TokenVerifier turns a raw bearer token into an Identity.
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

type Middleware struct {
	verifier TokenVerifier
}

func NewMiddleware(verifier TokenVerifier) *Middleware {
	return &Middleware{verifier: verifier}
}

// Authenticate resolves the caller's Identity from the Authorization header.
// It never rejects a request: a missing, malformed, forged or expired token
// leaves the request anonymous and the access decision to the rule engine.
func (m *Middleware) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(headerAuthorization)
			if header == "" {
				return next(c)
			}

			log := logger.FromContext(c.Request().Context())

			token := extractBearerToken(header)
			if token == "" {
				log.WithField("authorization", logger.RedactToken(header)).Debug(msgAuthorizationHeaderShape)
				return next(c)
			}

			id, err := m.verifier.Verify(token)
			if err != nil {
				log.WithError(err).
					WithField("path", c.Request().URL.Path).
					WithField("authorization", logger.RedactToken(header)).
					Debug(msgTokenRejected)
				return next(c)
			}

			SetIdentity(c, id)
			logger.FromContext(c.Request().Context()).WithField("role", id.Role).Debug(msgIdentityResolved)

			return next(c)
		}
	}
}

func extractBearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}
	return parts[1]
}

// SetIdentity stores id in the echo context and in the request context,
// and tags the request logger with the subject.
func SetIdentity(c echo.Context, id Identity) {
	c.Set(ContextKeyIdentity, id)

	req := c.Request()
	ctx := WithIdentity(req.Context(), id)
	ctx, _ = logger.WithIdentity(ctx, id.Subject)
	c.SetRequest(req.WithContext(ctx))
}

// GetIdentity returns the Identity resolved for this request, if any.
func GetIdentity(c echo.Context) (Identity, bool) {
	id, ok := c.Get(ContextKeyIdentity).(Identity)
	return id, ok
}

// RequireIdentity is GetIdentity for handlers that cannot run anonymously.
func RequireIdentity(c echo.Context) (Identity, error) {
	raw := c.Get(ContextKeyIdentity)
	if raw == nil {
		return Identity{}, apperrors.Unauthorized(msgUserNotAuthenticated)
	}

	id, ok := raw.(Identity)
	if !ok || id.Subject == "" {
		return Identity{}, apperrors.InternalServer(msgInvalidIdentityCtx, nil)
	}

	return id, nil
}
