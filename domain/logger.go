package domain

import (
	"context"
	"strings"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	// LogLevelCritical silences everything the Logger interface can emit.
	LogLevelCritical
)

// ParseLogLevel maps a level name, case-insensitively, to a LogLevel.
// "warning" is accepted as an alias of "warn".
func ParseLogLevel(name string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LogLevelDebug, true
	case "info":
		return LogLevelInfo, true
	case "warn", "warning":
		return LogLevelWarn, true
	case "error":
		return LogLevelError, true
	case "critical":
		return LogLevelCritical, true
	default:
		return LogLevelInfo, false
	}
}

type Field struct {
	Key   string
	Value interface{}
}

type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)

	WithFields(fields ...Field) Logger
}

func NewField(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
