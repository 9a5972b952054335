package http

import (
	"context"
	stdhttp "net/http"

	"stock-service/internal/access/echoadapter"
	"stock-service/internal/auth"
	"stock-service/internal/config"
	"stock-service/internal/http/handler"
	"stock-service/internal/http/middleware"
	"stock-service/pkg/metrics"
	"stock-service/pkg/profiling"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

var (
	corsAllowMethods = []string{
		stdhttp.MethodGet, stdhttp.MethodPost, stdhttp.MethodPut,
		stdhttp.MethodDelete, stdhttp.MethodPatch, stdhttp.MethodOptions,
	}
	corsAllowHeaders = []string{
		echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept,
		echo.HeaderOrigin, echo.HeaderXRequestedWith, echo.HeaderXRequestID,
	}
	corsExposeHeaders = []string{echo.HeaderAuthorization, echo.HeaderXRequestID}
)

type ServerDependencies struct {
	Config       *config.Config
	Users        handler.UserReader
	DB           handler.Pinger
	JWTService   *auth.JWTService
	Authorizer   echoadapter.Authorizer
	LoginLimiter handler.LoginLimiter
	AuditLogger  handler.AuditLogger
	AuditQuerier handler.AuditQuerier
	Metrics      *metrics.Metrics
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = CustomHTTPErrorHandler

	cfg := deps.Config
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	// Request ID first, so every log line carries it
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.SecurityHeaders())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORS.Origins(),
		AllowMethods:     corsAllowMethods,
		AllowHeaders:     corsAllowHeaders,
		ExposeHeaders:    corsExposeHeaders,
		AllowCredentials: true,
		MaxAge:           cfg.CORS.MaxAge,
	}))
	e.Use(echomiddleware.BodyLimit(cfg.Server.BodyLimit))
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
	}

	// Authentication never rejects; the rule engine decides every request.
	e.Use(auth.NewMiddleware(deps.JWTService).Authenticate())
	e.Use(echoadapter.Authorize(deps.Authorizer, recorder(deps.Metrics)))

	globalRateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst)
	e.Use(globalRateLimiter.Middleware())
	strictRateLimiter := middleware.NewStrictRateLimiter()

	healthHandler := handler.NewHealthHandler(deps.DB)
	authHandler := handler.NewAuthHandler(deps.Users, deps.JWTService, deps.LoginLimiter, deps.AuditLogger)
	adminHandler := handler.NewAdminHandler(deps.AuditQuerier)

	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Health)
	e.GET("/actuator/health", healthHandler.Health)

	authGroup := e.Group("/api/auth")
	authGroup.POST("/login", authHandler.Login, strictRateLimiter.Middleware())
	authGroup.POST("/customer/login", authHandler.Login, strictRateLimiter.Middleware())
	authGroup.POST("/admin/login", authHandler.AdminLogin, strictRateLimiter.Middleware())
	authGroup.GET("/me", authHandler.Me)

	admin := e.Group("/api/admin")
	if deps.Metrics != nil {
		admin.GET("/metrics", deps.Metrics.SnapshotHandler)
		admin.POST("/metrics/reset", deps.Metrics.ResetHandler)
	}
	if deps.AuditQuerier != nil {
		admin.GET("/audit-events", adminHandler.ListAuditEvents)
	}
	admin.GET("/runtime", profiling.MemoryHandler)
	if cfg.Server.Profiling {
		profiling.RegisterPprofRoutes(admin)
	}

	return &Server{
		echo: e,
		deps: deps,
	}
}

// recorder keeps a nil *metrics.Metrics from becoming a non-nil interface.
func recorder(m *metrics.Metrics) echoadapter.DecisionRecorder {
	if m == nil {
		return nil
	}
	return m
}

// ServeHTTP lets the server be driven directly by httptest.
func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
