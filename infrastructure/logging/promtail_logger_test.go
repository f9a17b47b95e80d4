package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/infrastructure/config"
)

func TestPromtailLogger_WithoutClient(t *testing.T) {
	logger := &PromtailLogger{component: "test"}

	// Must not panic when the client was never created
	logger.Warn(context.Background(), "dropped", domain.NewField("zone", "UTC"))
	assert.NoError(t, logger.Shutdown())
}

func TestPromtailLogger_WithFields(t *testing.T) {
	logger := &PromtailLogger{
		component: "test",
		fields:    []domain.Field{},
	}

	baseLogger := logger.WithFields(
		domain.NewField("app", "propertime"),
		domain.NewField("version", "1.0.0"),
	)
	childLogger := baseLogger.WithFields(domain.NewField("module", "test"))

	assert.NotSame(t, logger, baseLogger)

	childLoggerImpl, ok := childLogger.(*PromtailLogger)
	require.True(t, ok)
	assert.Len(t, childLoggerImpl.fields, 3)
	assert.Len(t, baseLogger.(*PromtailLogger).fields, 2)
}

func TestLevelToString(t *testing.T) {
	tests := []struct {
		level    domain.LogLevel
		expected string
	}{
		{domain.LogLevelDebug, "DEBUG"},
		{domain.LogLevelInfo, "INFO"},
		{domain.LogLevelWarn, "WARN"},
		{domain.LogLevelError, "ERROR"},
		{domain.LogLevelCritical, "CRITICAL"},
		{domain.LogLevel(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, levelToString(tt.level))
		})
	}
}

func TestLevelFilterLogger(t *testing.T) {
	tests := []struct {
		name     string
		minLevel domain.LogLevel
		expected [4]int
	}{
		{"debug passes everything", domain.LogLevelDebug, [4]int{1, 1, 1, 1}},
		{"warn drops debug and info", domain.LogLevelWarn, [4]int{0, 0, 1, 1}},
		{"critical drops everything", domain.LogLevelCritical, [4]int{0, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockLogger{}
			logger := NewLevelFilterLogger(mock, tt.minLevel)
			ctx := context.Background()

			logger.Debug(ctx, "d")
			logger.Info(ctx, "i")
			logger.Warn(ctx, "w")
			logger.Error(ctx, "e")

			assert.Len(t, mock.debugCalls, tt.expected[0])
			assert.Len(t, mock.infoCalls, tt.expected[1])
			assert.Len(t, mock.warnCalls, tt.expected[2])
			assert.Len(t, mock.errorCalls, tt.expected[3])
		})
	}
}

func TestLoggerFactory_CreateLogger(t *testing.T) {
	t.Run("critical level yields a no-op logger", func(t *testing.T) {
		factory := NewLoggerFactory(&config.LoggingConfig{Level: "critical"})
		_, ok := factory.CreateLogger("test").(*NoOpLogger)
		assert.True(t, ok)
	})

	t.Run("unknown level is treated as critical", func(t *testing.T) {
		factory := NewLoggerFactory(&config.LoggingConfig{Level: "chatty"})
		_, ok := factory.CreateLogger("test").(*NoOpLogger)
		assert.True(t, ok)
	})

	t.Run("warn level without promtail writes to the console", func(t *testing.T) {
		factory := NewLoggerFactory(&config.LoggingConfig{Level: "warning", Promtail: &config.PromtailConfig{}})
		logger, ok := factory.CreateLogger("test").(*LevelFilterLogger)
		require.True(t, ok)
		assert.Equal(t, domain.LogLevelWarn, logger.minLevel)
		_, ok = logger.wrapped.(*DebugLogger)
		assert.True(t, ok)
	})

	t.Run("debug flag lowers the level", func(t *testing.T) {
		factory := NewLoggerFactory(&config.LoggingConfig{Level: "critical", Debug: true})
		logger, ok := factory.CreateLogger("test").(*LevelFilterLogger)
		require.True(t, ok)
		assert.Equal(t, domain.LogLevelDebug, logger.minLevel)
	})

	t.Run("nil config", func(t *testing.T) {
		_, ok := NewLoggerFactory(nil).CreateLogger("test").(*NoOpLogger)
		assert.True(t, ok)
	})
}
