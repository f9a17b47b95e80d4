package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommaSeparated(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: []string{},
		},
		{
			name:     "single zone",
			input:    "Europe/Rome",
			expected: []string{"Europe/Rome"},
		},
		{
			name:     "multiple zones without spaces",
			input:    "UTC,Europe/Rome,Asia/Tokyo",
			expected: []string{"UTC", "Europe/Rome", "Asia/Tokyo"},
		},
		{
			name:     "multiple zones with spaces",
			input:    "UTC, Europe/Rome,  Asia/Tokyo",
			expected: []string{"UTC", "Europe/Rome", "Asia/Tokyo"},
		},
		{
			name:     "trailing comma",
			input:    "UTC,Europe/Rome,",
			expected: []string{"UTC", "Europe/Rome"},
		},
		{
			name:     "only commas",
			input:    ",,,",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitCommaSeparated(tt.input))
		})
	}
}

func TestSlicesEqual(t *testing.T) {
	tests := []struct {
		name     string
		a        []string
		b        []string
		expected bool
	}{
		{"both empty", []string{}, []string{}, true},
		{"same elements", []string{"a", "b", "c"}, []string{"a", "b", "c"}, true},
		{"different length", []string{"a", "b"}, []string{"a", "b", "c"}, false},
		{"different elements", []string{"a", "b", "c"}, []string{"a", "b", "d"}, false},
		{"different order", []string{"a", "b", "c"}, []string{"c", "b", "a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slicesEqual(tt.a, tt.b))
		})
	}
}

func TestWatchZonesEnvironmentVariable(t *testing.T) {
	t.Setenv("PROPERTIME_WATCH_ZONES", "UTC, Europe/Rome, Asia/Tokyo")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"UTC", "Europe/Rome", "Asia/Tokyo"}, config.Zone.WatchZones)
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Zone.WatchZones"])
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PROPERTIME_DEFAULT_ZONE", "Europe/Rome")
	t.Setenv("PROPERTIME_GUESSING", "true")
	t.Setenv("PROPERTIME_DEFAULT_SPAN", "15m")
	t.Setenv("PROPERTIME_LOG_LEVEL", "warning")
	t.Setenv("PROPERTIME_LOKI_URL", "http://localhost:3100/loki/api/v1/push")
	t.Setenv("PROPERTIME_LOKI_BATCH_CAPACITY", "50")
	t.Setenv("PROPERTIME_DB_PATH", "/tmp/propertime.db")
	t.Setenv("PROPERTIME_EXPORT_FORMAT", "jsonl")
	t.Setenv("PROPERTIME_EXPORT_COMPRESS", "true")

	config := DefaultConfig()
	config.MarkDefaults()
	require.NoError(t, config.LoadFromEnv())
	require.NoError(t, config.Validate())

	assert.Equal(t, "Europe/Rome", config.Zone.DefaultZone)
	assert.True(t, config.Zone.Guessing)
	assert.Equal(t, "15m", config.Span.DefaultSpan)
	assert.Equal(t, "warning", config.Logging.Level)
	assert.Equal(t, "http://localhost:3100/loki/api/v1/push", config.Logging.Promtail.URL)
	assert.Equal(t, 50, config.Logging.Promtail.BatchCapacity)
	assert.Equal(t, "/tmp/propertime.db", config.Storage.DatabasePath)
	assert.Equal(t, "jsonl", config.Export.Format)
	assert.True(t, config.Export.Compress)

	for _, field := range []string{
		"Zone.DefaultZone", "Zone.Guessing", "Span.DefaultSpan", "Logging.Level",
		"Promtail.URL", "Promtail.BatchCapacity", "Storage.DatabasePath",
		"Export.Format", "Export.Compress",
	} {
		assert.Equal(t, SourceEnvironment, config.ConfigSources[field], field)
	}
	assert.Equal(t, SourceDefault, config.ConfigSources["Span.Rounding"])
	assert.Equal(t, SourceDefault, config.ConfigSources["Export.OutputDir"])
}

func TestLoadFromEnv_KeepsJSONValues(t *testing.T) {
	config := DefaultConfig()
	config.MarkDefaults()
	config.MergeJSONConfig(&AppConfig{
		Version: 1,
		Zone:    &ZoneConfig{DefaultZone: "Asia/Tokyo"},
		Logging: &LoggingConfig{Level: "info"},
	})
	require.NoError(t, config.LoadFromEnv())

	assert.Equal(t, "Asia/Tokyo", config.Zone.DefaultZone)
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, SourceJSONFile, config.ConfigSources["Zone.DefaultZone"])
	assert.Equal(t, SourceJSONFile, config.ConfigSources["Logging.Level"])
}

func TestLoadFromEnv_InvalidValue(t *testing.T) {
	t.Setenv("PROPERTIME_LOKI_BATCH_CAPACITY", "many")

	config := DefaultConfig()
	err := config.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Promtail")
}
