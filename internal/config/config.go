package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"
)

const (
	minJWTSecretLength       = 32
	minUniqueCharsInSecret   = 16
	minRepeatedCharThreshold = 4
	maxRepeatedChars         = 2
	minAdminPasswordLength   = 8
)

var defaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Redis     RedisConfig
	Login     LoginConfig
	Bootstrap BootstrapConfig
	Access    AccessConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port            string        `env:"PORT,default=8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT,default=10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT,default=10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	BodyLimit       string        `env:"SERVER_BODY_LIMIT,default=2M"`
	RateLimit       float64       `env:"RATE_LIMIT_RPS,default=20"`
	RateBurst       int           `env:"RATE_LIMIT_BURST,default=40"`
	Profiling       bool          `env:"PROFILING_ENABLED,default=false"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST,default=localhost"`
	Port     int    `env:"DB_PORT,default=5432"`
	Database string `env:"DB_NAME,default=stock"`
	User     string `env:"DB_USER,default=stock_app"`
	Password string `env:"DB_PASSWORD"`
	SSLMode  string `env:"DB_SSL_MODE,default=disable"`
	MaxConns int    `env:"DB_MAX_CONNS,default=25"`
	MinConns int    `env:"DB_MIN_CONNS,default=5"`
}

type JWTConfig struct {
	Secret         string        `env:"JWT_SECRET"`
	ExpiryDuration time.Duration `env:"JWT_EXPIRY,default=24h"`
}

type CORSConfig struct {
	AllowedOrigins string `env:"CORS_ORIGINS"`
	MaxAge         int    `env:"CORS_MAX_AGE,default=3600"`
}

type RedisConfig struct {
	URL string `env:"REDIS_URL"`
}

type LoginConfig struct {
	MaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS,default=5"`
	Lockout     time.Duration `env:"LOGIN_LOCKOUT,default=15m"`
}

type BootstrapConfig struct {
	AdminUsername string `env:"ADMIN_USERNAME,default=admin"`
	AdminEmail    string `env:"ADMIN_EMAIL,default=admin@stockmanagement.com"`
	AdminName     string `env:"ADMIN_NAME,default=System Administrator"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

type AccessConfig struct {
	RulesFile string `env:"ACCESS_RULES_FILE"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL,default=info"`
}

// Load decodes the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf(errDecodeEnvFmt, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfigurationFmt, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequired)
	}

	if c.Database.Password == "" {
		return fmt.Errorf(errDBPasswordRequired)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf(errJWTSecretRequired)
	}

	if len(c.JWT.Secret) < minJWTSecretLength {
		return fmt.Errorf(errJWTSecretMinLengthFmt, minJWTSecretLength)
	}

	if !hasMinimumEntropy(c.JWT.Secret) {
		return fmt.Errorf(errJWTSecretLowEntropy)
	}

	if c.JWT.ExpiryDuration <= 0 {
		return fmt.Errorf(errJWTExpiryPositive)
	}

	if c.Login.MaxAttempts < 1 {
		return fmt.Errorf(errLoginMaxAttemptsFmt, c.Login.MaxAttempts)
	}

	if c.Bootstrap.AdminPassword != "" && len(c.Bootstrap.AdminPassword) < minAdminPasswordLength {
		return fmt.Errorf(errAdminPasswordLengthFmt, minAdminPasswordLength)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf(errLogLevelFmt, c.Log.Level)
	}

	return nil
}

func hasMinimumEntropy(secret string) bool {
	if len(secret) < minJWTSecretLength {
		return false
	}

	charCounts := make(map[rune]int)
	for _, char := range secret {
		charCounts[char]++
	}

	uniqueChars := len(charCounts)
	if uniqueChars < minUniqueCharsInSecret {
		return false
	}

	repeatedChars := 0
	for _, count := range charCounts {
		if count > len(secret)/minRepeatedCharThreshold {
			repeatedChars++
		}
	}

	return repeatedChars <= maxRepeatedChars
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Origins splits the comma separated origin list, dropping blanks.
// Local development origins are used when none are configured.
func (c *CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), defaultCORSOrigins...)
	}
	return out
}

// Enabled reports whether a Redis URL was configured.
func (c *RedisConfig) Enabled() bool {
	return c.URL != ""
}
