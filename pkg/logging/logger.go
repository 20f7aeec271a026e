package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// StructuredLogger provides structured JSON logging with context.
// Backed by zerolog; every entry carries the service name, version
// and hostname alongside the caller-supplied fields.
type StructuredLogger struct {
	base zerolog.Logger
}

// ParseLevel maps a configuration string to a zerolog level,
// defaulting to info for empty or unknown values.
func ParseLevel(value string) zerolog.Level {
	levelString := strings.ToLower(strings.TrimSpace(value))
	if levelString == "" {
		return zerolog.InfoLevel
	}
	if lvl, err := zerolog.ParseLevel(levelString); err == nil {
		return lvl
	}
	return zerolog.InfoLevel
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(service, version string, level zerolog.Level) *StructuredLogger {
	hostname, _ := os.Hostname()

	zerolog.TimeFieldFormat = time.RFC3339Nano

	base := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", service).
		Str("version", version).
		Str("hostname", hostname).
		Logger().
		Level(level)

	return &StructuredLogger{base: base}
}

// SetOutput returns a copy of the logger writing to w. Used by tests
// to capture log output.
func (l *StructuredLogger) SetOutput(w io.Writer) *StructuredLogger {
	return &StructuredLogger{base: l.base.Output(w)}
}

// Debug logs a debug message with structured fields
func (l *StructuredLogger) Debug(ctx context.Context, message string, fields Fields) {
	l.emit(ctx, l.base.Debug(), message, fields, nil)
}

// Info logs an info message with structured fields
func (l *StructuredLogger) Info(ctx context.Context, message string, fields Fields) {
	l.emit(ctx, l.base.Info(), message, fields, nil)
}

// Warn logs a warning message with structured fields
func (l *StructuredLogger) Warn(ctx context.Context, message string, fields Fields) {
	l.emit(ctx, l.base.Warn(), message, fields, nil)
}

// Error logs an error message with structured fields and error details
func (l *StructuredLogger) Error(ctx context.Context, message string, fields Fields, err error) {
	l.emit(ctx, l.base.Error(), message, fields, err)
}

// Fatal logs a fatal message and exits the program
func (l *StructuredLogger) Fatal(ctx context.Context, message string, fields Fields, err error) {
	l.emit(ctx, l.base.Fatal(), message, fields, err)
}

func (l *StructuredLogger) emit(ctx context.Context, event *zerolog.Event, message string, fields Fields, err error) {
	if ctx != nil {
		if requestID, ok := ctx.Value("request_id").(string); ok {
			event = event.Str("request_id", requestID)
		}
	}
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(message)
}

// WithFields creates a new logger with additional fields attached to
// every entry.
func (l *StructuredLogger) WithFields(fields Fields) *StructuredLogger {
	builder := l.base.With()
	for k, v := range fields {
		builder = builder.Interface(k, v)
	}
	return &StructuredLogger{base: builder.Logger()}
}
