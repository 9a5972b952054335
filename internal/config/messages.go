package config

const (
	errDecodeEnvFmt            = "failed to decode environment: %w"
	errInvalidConfigurationFmt = "invalid configuration: %w"
	errPortRequired            = "PORT must be set"
	errDBPasswordRequired      = "DB_PASSWORD must be set"
	errJWTSecretRequired       = "JWT_SECRET must be set"
	errJWTSecretMinLengthFmt   = "JWT_SECRET must be at least %d characters"
	errJWTSecretLowEntropy     = "JWT_SECRET has insufficient entropy (appears non-random). Use a cryptographically secure random string."
	errJWTExpiryPositive       = "JWT_EXPIRY must be positive"
	errLoginMaxAttemptsFmt     = "LOGIN_MAX_ATTEMPTS must be at least 1, got %d"
	errAdminPasswordLengthFmt  = "ADMIN_PASSWORD must be at least %d characters"
	errLogLevelFmt             = "LOG_LEVEL %q is not a valid level"
)
