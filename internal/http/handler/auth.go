package handler

import (
	"errors"
	"net/http"
	"strings"

	"stock-service/internal/audit"
	"stock-service/internal/auth"
	"stock-service/internal/domain/user"
	apperrors "stock-service/pkg/errors"
	"stock-service/pkg/logger"
	"stock-service/pkg/password"

	"github.com/labstack/echo/v4"
)

const (
	tokenTypeBearer = "Bearer"

	reasonUnknownUser   = "unknown_user"
	reasonWrongPassword = "wrong_password"
	reasonNotAdmin      = "not_admin"
)

type AuthHandler struct {
	users   UserReader
	tokens  TokenIssuer
	limiter LoginLimiter
	audit   AuditLogger
}

func NewAuthHandler(users UserReader, tokens TokenIssuer, limiter LoginLimiter, auditLogger AuditLogger) *AuthHandler {
	return &AuthHandler{
		users:   users,
		tokens:  tokens,
		limiter: limiter,
		audit:   auditLogger,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	User      UserResponse `json:"user"`
}

// Login signs in any account.
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, audit.ActionLogin, false)
}

// AdminLogin signs in ADMIN accounts only.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	return h.login(c, audit.ActionAdminLogin, true)
}

func (h *AuthHandler) login(c echo.Context, action audit.Action, adminOnly bool) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" || len(username) > maxUsernameLength || len(req.Password) > maxPasswordLength {
		password.BurnTime(req.Password)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	ctx := c.Request().Context()
	log := logger.FromContext(ctx).WithField("username", username)

	locked, err := h.limiter.IsLocked(ctx, username)
	if err != nil {
		log.WithError(err).Error(msgLoginUnavailable)
		return respondError(c, http.StatusServiceUnavailable, msgLoginUnavailable)
	}
	if locked {
		h.audit.LogFromContext(c, username, audit.ResourceTypeSession, action, audit.StatusLocked, nil)
		return respondError(c, http.StatusTooManyRequests, msgAccountLocked)
	}

	u, err := h.users.GetByUsername(ctx, username)
	if err != nil {
		password.BurnTime(req.Password)
		if !errors.Is(err, apperrors.ErrNotFound) {
			return RespondWithMappedError(c, err)
		}
		return h.rejectLogin(c, username, action, reasonUnknownUser)
	}

	if !password.Verify(req.Password, u.PasswordHash) {
		return h.rejectLogin(c, username, action, reasonWrongPassword)
	}

	if adminOnly && !u.Role.Is(auth.RoleAdmin) {
		h.audit.LogFromContext(c, username, audit.ResourceTypeSession, action, audit.StatusDenied, map[string]any{"reason": reasonNotAdmin})
		return respondError(c, http.StatusForbidden, msgAdminOnly)
	}

	token, err := h.tokens.Generate(u.Username, u.Role)
	if err != nil {
		log.WithError(err).Error(msgGenerateTokenFail)
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	if err := h.limiter.Reset(ctx, username); err != nil {
		log.WithError(err).Warn("failed to clear login failures")
	}

	h.audit.LogFromContext(c, username, audit.ResourceTypeSession, action, audit.StatusSuccess, map[string]any{"role": string(u.Role)})

	return c.JSON(http.StatusOK, LoginResponse{
		Token:     token,
		TokenType: tokenTypeBearer,
		ExpiresIn: int64(h.tokens.Expiry().Seconds()),
		User:      toUserResponse(u),
	})
}

func (h *AuthHandler) rejectLogin(c echo.Context, username string, action audit.Action, reason string) error {
	ctx := c.Request().Context()

	status := audit.StatusFailure
	locked, err := h.limiter.RecordFailure(ctx, username)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warn("failed to record login failure")
	}
	if locked {
		status = audit.StatusLocked
	}

	h.audit.LogFromContext(c, username, audit.ResourceTypeSession, action, status, map[string]any{"reason": reason})
	return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
}

// Me returns the identity resolved from the caller's token.
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := auth.RequireIdentity(c)
	if err != nil {
		return RespondWithMappedError(c, err)
	}
	return c.JSON(http.StatusOK, id)
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		Role:     string(auth.NormalizeRole(string(u.Role))),
	}
}
