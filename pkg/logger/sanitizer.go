package logger

import (
	"regexp"
	"strings"
)

// Sensitive field patterns to filter from logs
var (
	passwordPattern = regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+[^\s]+`)
	tokenPattern    = regexp.MustCompile(`(?i)(token|jwt|bearer)[\s:=]+[^\s]+`)
	secretPattern   = regexp.MustCompile(`(?i)(secret|private[_-]?key)[\s:=]+[^\s]+`)
)

const (
	redactedPlaceholder = "[REDACTED]"
	tokenPreviewLength  = 12
	emptyHeader         = "<none>"
)

var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"token", "jwt", "bearer", "authorization",
	"secret", "private_key", "private-key",
	"password_hash", "passwordhash",
}

// SanitizeLogMessage removes sensitive information from log messages
func SanitizeLogMessage(message string) string {
	message = passwordPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = tokenPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	return message
}

// SanitizeMap removes sensitive keys from a map
func SanitizeMap(data map[string]any) map[string]any {
	sanitized := make(map[string]any, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			sanitized[k] = redactedPlaceholder
		} else {
			sanitized[k] = v
		}
	}
	return sanitized
}

// RedactToken returns a short, non-replayable preview of an Authorization header value.
func RedactToken(header string) string {
	if header == "" {
		return emptyHeader
	}
	if len(header) <= tokenPreviewLength {
		return redactedPlaceholder
	}
	return header[:tokenPreviewLength] + "..." + redactedPlaceholder
}

func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitiveKey := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitiveKey) {
			return true
		}
	}
	return false
}
