package app

import (
	"context"
	"fmt"

	"stock-service/internal/access"
	"stock-service/internal/access/presets"
	"stock-service/internal/audit"
	"stock-service/internal/auth"
	"stock-service/internal/config"
	httpserver "stock-service/internal/http"
	"stock-service/internal/kv"
	"stock-service/internal/repository/postgres"
	"stock-service/pkg/logger"
	"stock-service/pkg/metrics"

	"github.com/sirupsen/logrus"
)

const (
	rulesSourcePreset = "preset:stock-management"

	errLoadConfigFmt   = "failed to load config: %w"
	errInitLoggerFmt   = "failed to init logger: %w"
	errConnectDBFmt    = "failed to connect to database: %w"
	errLoadRulesFmt    = "failed to load access rules: %w"
	errBuildEngineFmt  = "failed to build access engine: %w"
	errLoginLimiterFmt = "failed to create login limiter: %w"
)

// InitializeService wires up all dependencies and returns a configured Service
func InitializeService(ctx context.Context) (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf(errLoadConfigFmt, err)
	}

	if err := logger.Init(cfg.Log.Level); err != nil {
		return nil, fmt.Errorf(errInitLoggerFmt, err)
	}
	log := logger.Default()

	rules, source, err := loadRules(cfg.Access)
	if err != nil {
		return nil, fmt.Errorf(errLoadRulesFmt, err)
	}
	engine, err := access.New(rules)
	if err != nil {
		return nil, fmt.Errorf(errBuildEngineFmt, err)
	}
	log.WithFields(logrus.Fields{"source": source, "rules": len(rules)}).Info("access rules loaded")

	db, err := postgres.New(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf(errConnectDBFmt, err)
	}
	log.Info("database connection established")

	svc := &Service{config: cfg, db: db}

	limiter, closeLimiter, err := newLoginLimiter(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf(errLoginLimiterFmt, err)
	}
	svc.closeLimiter = closeLimiter

	userRepo := postgres.NewUserRepository(db)
	auditLogger := audit.NewLogger(db.Pool)
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryDuration)

	result, err := NewBootstrapper(userRepo, auditLogger).EnsureDefaultAdmin(ctx, cfg.Bootstrap)
	if err != nil {
		log.WithError(err).WithField("result", result).Error("default admin bootstrap failed")
	} else {
		log.WithField("result", result).Info("default admin bootstrap finished")
	}

	svc.server = httpserver.NewServer(&httpserver.ServerDependencies{
		Config:       cfg,
		Users:        userRepo,
		DB:           db,
		JWTService:   jwtService,
		Authorizer:   engine,
		LoginLimiter: limiter,
		AuditLogger:  auditLogger,
		AuditQuerier: auditLogger,
		Metrics:      metrics.New(),
	})

	return svc, nil
}

// loadRules returns the table from ACCESS_RULES_FILE when set, the built-in
// stock-management table otherwise, and names the source for the startup log.
func loadRules(cfg config.AccessConfig) ([]access.Rule, string, error) {
	if cfg.RulesFile == "" {
		return presets.StockManagement(), rulesSourcePreset, nil
	}

	rules, err := access.LoadRulesFile(cfg.RulesFile)
	if err != nil {
		return nil, "", err
	}
	return rules, cfg.RulesFile, nil
}

func newLoginLimiter(ctx context.Context, cfg *config.Config) (kv.LoginLimiter, func(), error) {
	if !cfg.Redis.Enabled() {
		logger.Default().Warn("REDIS_URL not set, login lockout is kept in process memory")
		return kv.NewMemoryLoginLimiter(cfg.Login.MaxAttempts, cfg.Login.Lockout), func() {}, nil
	}

	limiter, err := kv.NewRedisLoginLimiter(ctx, cfg.Redis.URL, cfg.Login.MaxAttempts, cfg.Login.Lockout)
	if err != nil {
		return nil, nil, err
	}
	return limiter, func() {
		if err := limiter.Close(); err != nil {
			logger.Default().WithError(err).Warn("failed to close redis client")
		}
	}, nil
}
