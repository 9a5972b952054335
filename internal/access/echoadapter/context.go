package echoadapter

import (
	"stock-service/internal/access"
	"stock-service/internal/auth"

	"github.com/labstack/echo/v4"
)

// ContextKeyDecision holds the access.Decision that let the request through.
const ContextKeyDecision = "access_decision"

// ExtractIdentity returns the caller's identity as the engine expects it:
// nil when the request is anonymous.
func ExtractIdentity(c echo.Context) *auth.Identity {
	id, ok := auth.GetIdentity(c)
	if !ok || id.Subject == "" {
		return nil
	}
	return &id
}

// GetDecision returns the decision recorded by Authorize.
func GetDecision(c echo.Context) (access.Decision, bool) {
	d, ok := c.Get(ContextKeyDecision).(access.Decision)
	return d, ok
}
