package logger

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	// RequestIDField is the log field carrying the request ID
	RequestIDField = "requestID"
	// IdentityField is the log field carrying the authenticated subject
	IdentityField = "identity"

	timestampFormat = "2006-01-02 15:04:05"
)

type contextKeyLoggerType struct{}

var contextKeyLogger = &contextKeyLoggerType{}

// Init sets up the text formatter and level for all log statements.
func Init(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	formatter := new(logrus.TextFormatter)
	formatter.TimestampFormat = timestampFormat
	formatter.FullTimestamp = true
	logrus.SetFormatter(formatter)
	logrus.SetLevel(lvl)
	return nil
}

// Default returns a logger without request fields.
func Default() *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger())
}

// WithRequestID returns a context holding a logger tagged with the request ID.
func WithRequestID(ctx context.Context, requestID string) (context.Context, *logrus.Entry) {
	entry := FromContext(ctx).WithField(RequestIDField, requestID)
	return context.WithValue(ctx, contextKeyLogger, entry), entry
}

// WithIdentity returns a context whose logger additionally carries the subject.
func WithIdentity(ctx context.Context, subject string) (context.Context, *logrus.Entry) {
	entry := FromContext(ctx).WithField(IdentityField, subject)
	return context.WithValue(ctx, contextKeyLogger, entry), entry
}

// FromContext returns the request logger, or the default logger if the context has none.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(contextKeyLogger).(*logrus.Entry); ok {
			return entry
		}
	}
	return Default()
}
