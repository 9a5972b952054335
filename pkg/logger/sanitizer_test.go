package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLogMessage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"password", "login failed password=hunter2", "login failed password=[REDACTED]"},
		{"bearer", "header bearer abc.def.ghi", "header bearer=[REDACTED]"},
		{"secret", "secret: s3cr3t", "secret=[REDACTED]"},
		{"plain", "nothing to hide", "nothing to hide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeLogMessage(tt.input))
		})
	}
}

func TestSanitizeMap(t *testing.T) {
	out := SanitizeMap(map[string]any{
		"username":      "alice",
		"Authorization": "Bearer x",
		"password_hash": "$2a$...",
	})

	assert.Equal(t, "alice", out["username"])
	assert.Equal(t, redactedPlaceholder, out["Authorization"])
	assert.Equal(t, redactedPlaceholder, out["password_hash"])
}

func TestRedactToken(t *testing.T) {
	assert.Equal(t, emptyHeader, RedactToken(""))
	assert.Equal(t, redactedPlaceholder, RedactToken("Bearer abc"))
	assert.Equal(t, "Bearer eyJhb..."+redactedPlaceholder, RedactToken("Bearer eyJhbGciOiJIUzI1NiJ9.payload.sig"))
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	ctx, entry := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", entry.Data[RequestIDField])

	ctx, entry = WithIdentity(ctx, "alice")
	assert.Equal(t, "req-1", entry.Data[RequestIDField])
	assert.Equal(t, "alice", FromContext(ctx).Data[IdentityField])
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("loud"))
	assert.NoError(t, Init("info"))
}
