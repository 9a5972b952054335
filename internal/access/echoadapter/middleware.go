package echoadapter

import (
	"net/http"

	"stock-service/internal/access"
	"stock-service/internal/auth"
	"stock-service/pkg/logger"
	"stock-service/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const (
	headerWWWAuthenticate = "WWW-Authenticate"
	bearerChallenge       = `Bearer realm="api"`

	msgUnauthorized  = "Unauthorized"
	msgForbidden     = "Forbidden"
	msgAccessDenied  = "access denied"
	msgAccessAllowed = "access allowed"
)

// Authorizer decides a single request. *access.Engine implements it.
type Authorizer interface {
	Authorize(path, method string, identity *auth.Identity) access.Decision
}

// DecisionRecorder counts outcomes. *metrics.Metrics implements it.
type DecisionRecorder interface {
	RecordDecision(outcome string)
}

// Authorize runs every request through the rule table. It must be installed
// after the authentication middleware. A DENY short-circuits with 401 (plus a
// Bearer challenge) or 403; the handler is never invoked. recorder may be nil.
func Authorize(authorizer Authorizer, recorder DecisionRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			d := authorizer.Authorize(req.URL.Path, req.Method, ExtractIdentity(c))

			if recorder != nil {
				recorder.RecordDecision(outcome(d))
			}

			log := logger.FromContext(req.Context()).WithFields(logrus.Fields{
				"method": req.Method,
				"path":   req.URL.Path,
				"rule":   d.Pattern,
			})

			if d.Allowed {
				log.Debug(msgAccessAllowed)
				c.Set(ContextKeyDecision, d)
				return next(c)
			}

			log.WithField("reason", d.Reason).Info(msgAccessDenied)

			if d.Reason == access.ReasonForbidden {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": msgForbidden,
				})
			}

			c.Response().Header().Set(headerWWWAuthenticate, bearerChallenge)
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": msgUnauthorized,
			})
		}
	}
}

func outcome(d access.Decision) string {
	switch {
	case d.Allowed:
		return metrics.OutcomeAllow
	case d.Reason == access.ReasonForbidden:
		return metrics.OutcomeForbidden
	default:
		return metrics.OutcomeUnauthenticated
	}
}
