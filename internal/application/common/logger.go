package common

import (
	"context"
	"log"
)

// OperationLogger provides structured logging for command handlers
type OperationLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger OperationLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) OperationLogger {
	if logger, ok := ctx.Value(loggerKey).(OperationLogger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {
}

// StdLogger writes operation logs through the process logger
type StdLogger struct{}

func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	if len(metadata) == 0 {
		log.Printf("[%s] %s", level, message)
		return
	}
	log.Printf("[%s] %s %v", level, message, metadata)
}
