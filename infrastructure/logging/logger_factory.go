package logging

import (
	"context"
	"time"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/infrastructure/config"
)

type LoggerFactoryImpl struct {
	config *config.LoggingConfig
}

func NewLoggerFactory(config *config.LoggingConfig) domain.LoggerFactory {
	return &LoggerFactoryImpl{
		config: config,
	}
}

// CreateLogger builds the logger chain for a component: Loki shipping when a
// Promtail URL is configured, console output when debugging or when nothing
// ships, and level filtering outermost.
func (f *LoggerFactoryImpl) CreateLogger(component string) domain.Logger {
	if f.config == nil {
		return &NoOpLogger{}
	}

	minLevel := f.parseLogLevel(f.config.Level)
	if f.config.Debug {
		minLevel = domain.LogLevelDebug
	}
	if minLevel == domain.LogLevelCritical {
		return &NoOpLogger{}
	}

	var logger domain.Logger = &NoOpLogger{}
	shipping := false
	if p := f.config.Promtail; p != nil && p.URL != "" {
		promtailLogger, err := NewPromtailLogger(p.URL, p.Username, p.Password, component, PromtailOptions{
			BatchSize:    p.BatchCapacity,
			BatchWait:    time.Duration(p.BatchWaitSeconds) * time.Second,
			CloseTimeout: time.Duration(p.TimeoutSeconds) * time.Second,
		})
		if err == nil {
			logger = promtailLogger
			shipping = true
		}
	}

	if f.config.Debug || !shipping {
		logger = NewDebugLogger(logger, component)
	}

	return NewLevelFilterLogger(logger, minLevel)
}

func (f *LoggerFactoryImpl) parseLogLevel(level string) domain.LogLevel {
	if parsed, ok := domain.ParseLogLevel(level); ok {
		return parsed
	}
	return domain.LogLevelCritical
}

// LevelFilterLogger filters log messages based on minimum level
type LevelFilterLogger struct {
	wrapped  domain.Logger
	minLevel domain.LogLevel
}

func NewLevelFilterLogger(wrapped domain.Logger, minLevel domain.LogLevel) *LevelFilterLogger {
	return &LevelFilterLogger{
		wrapped:  wrapped,
		minLevel: minLevel,
	}
}

func (l *LevelFilterLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelDebug >= l.minLevel {
		l.wrapped.Debug(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Info(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelInfo >= l.minLevel {
		l.wrapped.Info(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Warn(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelWarn >= l.minLevel {
		l.wrapped.Warn(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {
	if domain.LogLevelError >= l.minLevel {
		l.wrapped.Error(ctx, msg, fields...)
	}
}

func (l *LevelFilterLogger) WithFields(fields ...domain.Field) domain.Logger {
	return &LevelFilterLogger{
		wrapped:  l.wrapped.WithFields(fields...),
		minLevel: l.minLevel,
	}
}

func (l *LevelFilterLogger) Shutdown() error {
	if shutdowner, ok := l.wrapped.(interface{ Shutdown() error }); ok {
		return shutdowner.Shutdown()
	}
	return nil
}

// NoOpLogger is a logger that does nothing
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(ctx context.Context, msg string, fields ...domain.Field) {}
func (n *NoOpLogger) Info(ctx context.Context, msg string, fields ...domain.Field)  {}
func (n *NoOpLogger) Warn(ctx context.Context, msg string, fields ...domain.Field)  {}
func (n *NoOpLogger) Error(ctx context.Context, msg string, fields ...domain.Field) {}
func (n *NoOpLogger) WithFields(fields ...domain.Field) domain.Logger {
	return n
}
