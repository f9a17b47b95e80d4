package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/valueobject"
)

// ZoneConfig holds time zone configuration
type ZoneConfig struct {
	// DefaultZone is the IANA zone used when a command does not name one
	DefaultZone string `json:"default_zone,omitempty" env:"PROPERTIME_DEFAULT_ZONE"`

	// WatchZones is the list of zones reported by the zone command
	WatchZones []string `json:"watch_zones,omitempty"`

	// Guessing resolves ambiguous wall-clock times instead of failing
	Guessing bool `json:"guessing,omitempty" env:"PROPERTIME_GUESSING"`
}

// SpanConfig holds span defaults
type SpanConfig struct {
	// DefaultSpan is the step used by the series command
	DefaultSpan string `json:"default_span,omitempty" env:"PROPERTIME_DEFAULT_SPAN"`

	// Rounding is the default rounding strategy (half, floor, ceil)
	Rounding string `json:"rounding,omitempty" env:"PROPERTIME_ROUNDING"`
}

// PromtailConfig holds Promtail logging configuration
type PromtailConfig struct {
	// URL is the Promtail push endpoint URL
	URL string `json:"url" env:"PROPERTIME_LOKI_URL"`

	// Username is the username for basic authentication
	Username string `json:"username" env:"PROPERTIME_LOKI_USERNAME"`

	// Password is the password for basic authentication
	Password string `json:"password" env:"PROPERTIME_LOKI_PASSWORD"`

	// BatchWaitSeconds is the time to wait before sending a batch
	BatchWaitSeconds int `json:"batch_wait_seconds,omitempty" env:"PROPERTIME_LOKI_BATCH_WAIT_SECONDS"`

	// BatchCapacity is the maximum number of log entries in a batch
	BatchCapacity int `json:"batch_capacity,omitempty" env:"PROPERTIME_LOKI_BATCH_CAPACITY"`

	// TimeoutSeconds is the timeout for sending logs
	TimeoutSeconds int `json:"timeout_seconds,omitempty" env:"PROPERTIME_LOKI_TIMEOUT_SECONDS"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error, critical)
	Level string `json:"level,omitempty" env:"PROPERTIME_LOG_LEVEL"`

	// Debug enables debug mode with stderr logging
	Debug bool `json:"debug,omitempty" env:"PROPERTIME_LOG_DEBUG"`

	// Promtail holds Promtail configuration
	Promtail *PromtailConfig `json:"promtail,omitempty"`
}

// StorageConfig holds series storage configuration
type StorageConfig struct {
	// DatabasePath is the SQLite database file; empty means the default under the config directory
	DatabasePath string `json:"database_path,omitempty" env:"PROPERTIME_DB_PATH"`
}

// ExportConfig holds series export configuration
type ExportConfig struct {
	// OutputDir is the default output directory for exported series
	OutputDir string `json:"output_dir,omitempty" env:"PROPERTIME_EXPORT_DIR"`

	// Format is the default export format (csv, jsonl, cbor)
	Format string `json:"format,omitempty" env:"PROPERTIME_EXPORT_FORMAT"`

	// Compress enables snappy framing for JSONL exports
	Compress bool `json:"compress,omitempty" env:"PROPERTIME_EXPORT_COMPRESS"`
}

// ConfigSource represents the source of a configuration value
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceJSONFile    ConfigSource = "json"
	SourceEnvironment ConfigSource = "env"
)

// ConfigSourceMap tracks the source of each configuration field
type ConfigSourceMap map[string]ConfigSource

// AppConfig holds application configuration
type AppConfig struct {
	// Version is the configuration schema version
	Version int `json:"version,omitempty"`

	// Zone holds time zone configuration
	Zone *ZoneConfig `json:"zone,omitempty"`

	// Span holds span defaults
	Span *SpanConfig `json:"span,omitempty"`

	// Logging holds logging configuration
	Logging *LoggingConfig `json:"logging,omitempty"`

	// Storage holds series storage configuration
	Storage *StorageConfig `json:"storage,omitempty"`

	// Export holds series export configuration
	Export *ExportConfig `json:"export,omitempty"`

	// ConfigSources tracks the source of each configuration field
	ConfigSources ConfigSourceMap `json:"-"`
}

var validExportFormats = map[string]bool{"csv": true, "jsonl": true, "cbor": true}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Version: 1,
		Zone: &ZoneConfig{
			DefaultZone: "UTC",
			WatchZones:  []string{"UTC"},
			Guessing:    false,
		},
		Span: &SpanConfig{
			DefaultSpan: "1h",
			Rounding:    "half",
		},
		Logging: &LoggingConfig{
			Level: "critical",
			Debug: false,
			Promtail: &PromtailConfig{
				URL:              "",
				BatchWaitSeconds: 1,
				BatchCapacity:    100,
				TimeoutSeconds:   5,
			},
		},
		Storage: &StorageConfig{
			DatabasePath: "",
		},
		Export: &ExportConfig{
			OutputDir: ".",
			Format:    "csv",
			Compress:  false,
		},
		ConfigSources: make(ConfigSourceMap),
	}
}

// MinimalDefaultConfig returns the minimal configuration template for initial setup
func MinimalDefaultConfig() *AppConfig {
	return &AppConfig{
		Version: 1,
		Zone: &ZoneConfig{
			DefaultZone: "UTC",
		},
		Logging: &LoggingConfig{
			Level: "critical",
			Promtail: &PromtailConfig{
				BatchWaitSeconds: 1,
				BatchCapacity:    100,
				TimeoutSeconds:   5,
			},
		},
		ConfigSources: make(ConfigSourceMap),
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadFromEnv loads configuration from environment variables using Netflix/go-env.
// Unset variables leave the current values untouched.
func (c *AppConfig) LoadFromEnv() error {
	if c.ConfigSources == nil {
		c.ConfigSources = make(ConfigSourceMap)
	}

	if c.Zone != nil {
		original := *c.Zone
		if _, err := env.UnmarshalFromEnviron(c.Zone); err != nil {
			return fmt.Errorf("failed to unmarshal Zone environment variables: %w", err)
		}
		// Custom handling for WatchZones slice
		if zonesEnv := os.Getenv("PROPERTIME_WATCH_ZONES"); zonesEnv != "" {
			c.Zone.WatchZones = splitCommaSeparated(zonesEnv)
		}
		c.trackZoneEnvOverrides(&original)
	}

	if c.Span != nil {
		original := *c.Span
		if _, err := env.UnmarshalFromEnviron(c.Span); err != nil {
			return fmt.Errorf("failed to unmarshal Span environment variables: %w", err)
		}
		c.trackEnvOverride("Span.DefaultSpan", original.DefaultSpan != c.Span.DefaultSpan, "PROPERTIME_DEFAULT_SPAN")
		c.trackEnvOverride("Span.Rounding", original.Rounding != c.Span.Rounding, "PROPERTIME_ROUNDING")
	}

	if c.Logging != nil {
		original := *c.Logging
		if _, err := env.UnmarshalFromEnviron(c.Logging); err != nil {
			return fmt.Errorf("failed to unmarshal Logging environment variables: %w", err)
		}
		c.trackEnvOverride("Logging.Level", original.Level != c.Logging.Level, "PROPERTIME_LOG_LEVEL")
		c.trackEnvOverride("Logging.Debug", original.Debug != c.Logging.Debug, "PROPERTIME_LOG_DEBUG")

		if c.Logging.Promtail != nil {
			originalPromtail := *c.Logging.Promtail
			if _, err := env.UnmarshalFromEnviron(c.Logging.Promtail); err != nil {
				return fmt.Errorf("failed to unmarshal Promtail environment variables: %w", err)
			}
			c.trackPromtailEnvOverrides(&originalPromtail)
		}
	}

	if c.Storage != nil {
		original := *c.Storage
		if _, err := env.UnmarshalFromEnviron(c.Storage); err != nil {
			return fmt.Errorf("failed to unmarshal Storage environment variables: %w", err)
		}
		c.trackEnvOverride("Storage.DatabasePath", original.DatabasePath != c.Storage.DatabasePath, "PROPERTIME_DB_PATH")
	}

	if c.Export != nil {
		original := *c.Export
		if _, err := env.UnmarshalFromEnviron(c.Export); err != nil {
			return fmt.Errorf("failed to unmarshal Export environment variables: %w", err)
		}
		c.trackEnvOverride("Export.OutputDir", original.OutputDir != c.Export.OutputDir, "PROPERTIME_EXPORT_DIR")
		c.trackEnvOverride("Export.Format", original.Format != c.Export.Format, "PROPERTIME_EXPORT_FORMAT")
		c.trackEnvOverride("Export.Compress", original.Compress != c.Export.Compress, "PROPERTIME_EXPORT_COMPRESS")
	}

	return nil
}

// trackEnvOverride records an environment override when the value changed and the variable is set
func (c *AppConfig) trackEnvOverride(field string, changed bool, name string) {
	if changed && os.Getenv(name) != "" {
		c.ConfigSources[field] = SourceEnvironment
	}
}

// trackZoneEnvOverrides tracks environment variable overrides for Zone config
func (c *AppConfig) trackZoneEnvOverrides(original *ZoneConfig) {
	c.trackEnvOverride("Zone.DefaultZone", c.Zone.DefaultZone != original.DefaultZone, "PROPERTIME_DEFAULT_ZONE")
	c.trackEnvOverride("Zone.WatchZones", !slicesEqual(c.Zone.WatchZones, original.WatchZones), "PROPERTIME_WATCH_ZONES")
	c.trackEnvOverride("Zone.Guessing", c.Zone.Guessing != original.Guessing, "PROPERTIME_GUESSING")
}

// trackPromtailEnvOverrides tracks environment variable overrides for Promtail config
func (c *AppConfig) trackPromtailEnvOverrides(original *PromtailConfig) {
	p := c.Logging.Promtail
	c.trackEnvOverride("Promtail.URL", p.URL != original.URL, "PROPERTIME_LOKI_URL")
	c.trackEnvOverride("Promtail.Username", p.Username != original.Username, "PROPERTIME_LOKI_USERNAME")
	c.trackEnvOverride("Promtail.Password", p.Password != original.Password, "PROPERTIME_LOKI_PASSWORD")
	c.trackEnvOverride("Promtail.BatchWaitSeconds", p.BatchWaitSeconds != original.BatchWaitSeconds, "PROPERTIME_LOKI_BATCH_WAIT_SECONDS")
	c.trackEnvOverride("Promtail.BatchCapacity", p.BatchCapacity != original.BatchCapacity, "PROPERTIME_LOKI_BATCH_CAPACITY")
	c.trackEnvOverride("Promtail.TimeoutSeconds", p.TimeoutSeconds != original.TimeoutSeconds, "PROPERTIME_LOKI_TIMEOUT_SECONDS")
}

// Validate validates the configuration
func (c *AppConfig) Validate() error {
	if c.Zone != nil {
		if err := c.validateZone(); err != nil {
			return err
		}
	}

	if c.Span != nil {
		if err := c.validateSpan(); err != nil {
			return err
		}
	}

	if c.Logging != nil {
		if err := c.validateLogging(); err != nil {
			return err
		}
	}

	if c.Export != nil {
		if err := c.validateExport(); err != nil {
			return err
		}
	}

	return nil
}

// validateZone validates Zone configuration
func (c *AppConfig) validateZone() error {
	if c.Zone.DefaultZone != "" && c.Zone.DefaultZone != "local" {
		if _, err := time.LoadLocation(c.Zone.DefaultZone); err != nil {
			return fmt.Errorf("default zone is invalid: %w", err)
		}
	}
	for _, name := range c.Zone.WatchZones {
		if _, err := time.LoadLocation(name); err != nil {
			return fmt.Errorf("watch zone %q is invalid: %w", name, err)
		}
	}
	return nil
}

// validateSpan validates Span configuration
func (c *AppConfig) validateSpan() error {
	if c.Span.DefaultSpan != "" {
		if _, err := valueobject.ParseSpan(c.Span.DefaultSpan); err != nil {
			return fmt.Errorf("default span is invalid: %w", err)
		}
	}
	if c.Span.Rounding != "" {
		if _, err := valueobject.ParseRounding(c.Span.Rounding); err != nil {
			return fmt.Errorf("rounding is invalid: %w", err)
		}
	}
	return nil
}

// validateLogging validates Logging configuration
func (c *AppConfig) validateLogging() error {
	if c.Logging.Level != "" {
		if _, ok := domain.ParseLogLevel(c.Logging.Level); !ok {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn, error, or critical)", c.Logging.Level)
		}
	}

	if c.Logging.Promtail != nil {
		// Skip validation if Promtail URL is empty (shipping disabled)
		if c.Logging.Promtail.URL == "" {
			return nil
		}

		if c.Logging.Promtail.BatchWaitSeconds < 1 {
			return fmt.Errorf("promtail batch wait must be at least 1 second")
		}

		if c.Logging.Promtail.BatchCapacity < 1 {
			return fmt.Errorf("promtail batch capacity must be at least 1")
		}

		if c.Logging.Promtail.TimeoutSeconds < 1 {
			return fmt.Errorf("promtail timeout must be at least 1 second")
		}
	}

	return nil
}

// validateExport validates Export configuration
func (c *AppConfig) validateExport() error {
	if c.Export.Format != "" && !validExportFormats[strings.ToLower(c.Export.Format)] {
		return fmt.Errorf("invalid export format: %s (must be csv, jsonl, or cbor)", c.Export.Format)
	}
	if c.Export.Compress && c.Export.Format != "" && strings.ToLower(c.Export.Format) != "jsonl" {
		return fmt.Errorf("export compression is only available for jsonl")
	}
	return nil
}

// MarkDefaults marks all configuration fields as coming from defaults
func (c *AppConfig) MarkDefaults() {
	for _, field := range []string{
		"Version",
		"Zone.DefaultZone", "Zone.WatchZones", "Zone.Guessing",
		"Span.DefaultSpan", "Span.Rounding",
		"Logging.Level", "Logging.Debug",
		"Promtail.URL", "Promtail.Username", "Promtail.Password",
		"Promtail.BatchWaitSeconds", "Promtail.BatchCapacity", "Promtail.TimeoutSeconds",
		"Storage.DatabasePath",
		"Export.OutputDir", "Export.Format", "Export.Compress",
	} {
		c.ConfigSources[field] = SourceDefault
	}
}

// MergeJSONConfig merges JSON configuration into the current configuration
func (c *AppConfig) MergeJSONConfig(jsonConfig *AppConfig) {
	if c.ConfigSources == nil {
		c.ConfigSources = make(ConfigSourceMap)
	}

	// Always merge version from JSON, even if it's 0 (legacy config)
	c.Version = jsonConfig.Version
	c.ConfigSources["Version"] = SourceJSONFile

	if jsonConfig.Zone != nil {
		if c.Zone == nil {
			c.Zone = &ZoneConfig{}
		}
		c.mergeZoneConfig(jsonConfig.Zone)
	}

	if jsonConfig.Span != nil {
		if c.Span == nil {
			c.Span = &SpanConfig{}
		}
		c.mergeSpanConfig(jsonConfig.Span)
	}

	if jsonConfig.Logging != nil {
		if c.Logging == nil {
			c.Logging = &LoggingConfig{}
		}
		c.mergeLoggingConfig(jsonConfig.Logging)
	}

	if jsonConfig.Storage != nil {
		if c.Storage == nil {
			c.Storage = &StorageConfig{}
		}
		if jsonConfig.Storage.DatabasePath != "" {
			c.Storage.DatabasePath = jsonConfig.Storage.DatabasePath
			c.ConfigSources["Storage.DatabasePath"] = SourceJSONFile
		}
	}

	if jsonConfig.Export != nil {
		if c.Export == nil {
			c.Export = &ExportConfig{}
		}
		c.mergeExportConfig(jsonConfig.Export)
	}
}

// mergeZoneConfig merges Zone configuration from JSON
func (c *AppConfig) mergeZoneConfig(jsonConfig *ZoneConfig) {
	if jsonConfig.DefaultZone != "" {
		c.Zone.DefaultZone = jsonConfig.DefaultZone
		c.ConfigSources["Zone.DefaultZone"] = SourceJSONFile
	}
	if len(jsonConfig.WatchZones) > 0 {
		c.Zone.WatchZones = jsonConfig.WatchZones
		c.ConfigSources["Zone.WatchZones"] = SourceJSONFile
	}
	// Note: bool field
	c.Zone.Guessing = jsonConfig.Guessing
	c.ConfigSources["Zone.Guessing"] = SourceJSONFile
}

// mergeSpanConfig merges Span configuration from JSON
func (c *AppConfig) mergeSpanConfig(jsonConfig *SpanConfig) {
	if jsonConfig.DefaultSpan != "" {
		c.Span.DefaultSpan = jsonConfig.DefaultSpan
		c.ConfigSources["Span.DefaultSpan"] = SourceJSONFile
	}
	if jsonConfig.Rounding != "" {
		c.Span.Rounding = jsonConfig.Rounding
		c.ConfigSources["Span.Rounding"] = SourceJSONFile
	}
}

// mergeLoggingConfig merges Logging configuration from JSON
func (c *AppConfig) mergeLoggingConfig(jsonConfig *LoggingConfig) {
	if jsonConfig.Level != "" {
		c.Logging.Level = jsonConfig.Level
		c.ConfigSources["Logging.Level"] = SourceJSONFile
	}

	// Note: bool field
	c.Logging.Debug = jsonConfig.Debug
	c.ConfigSources["Logging.Debug"] = SourceJSONFile

	if jsonConfig.Promtail != nil {
		if c.Logging.Promtail == nil {
			c.Logging.Promtail = &PromtailConfig{}
		}
		c.mergePromtailConfig(jsonConfig.Promtail)
	}
}

// mergePromtailConfig merges Promtail configuration from JSON
func (c *AppConfig) mergePromtailConfig(jsonConfig *PromtailConfig) {
	if jsonConfig.URL != "" {
		c.Logging.Promtail.URL = jsonConfig.URL
		c.ConfigSources["Promtail.URL"] = SourceJSONFile
	}
	if jsonConfig.Username != "" {
		c.Logging.Promtail.Username = jsonConfig.Username
		c.ConfigSources["Promtail.Username"] = SourceJSONFile
	}
	if jsonConfig.Password != "" {
		c.Logging.Promtail.Password = jsonConfig.Password
		c.ConfigSources["Promtail.Password"] = SourceJSONFile
	}
	if jsonConfig.BatchWaitSeconds != 0 {
		c.Logging.Promtail.BatchWaitSeconds = jsonConfig.BatchWaitSeconds
		c.ConfigSources["Promtail.BatchWaitSeconds"] = SourceJSONFile
	}
	if jsonConfig.BatchCapacity != 0 {
		c.Logging.Promtail.BatchCapacity = jsonConfig.BatchCapacity
		c.ConfigSources["Promtail.BatchCapacity"] = SourceJSONFile
	}
	if jsonConfig.TimeoutSeconds != 0 {
		c.Logging.Promtail.TimeoutSeconds = jsonConfig.TimeoutSeconds
		c.ConfigSources["Promtail.TimeoutSeconds"] = SourceJSONFile
	}
}

// mergeExportConfig merges Export configuration from JSON
func (c *AppConfig) mergeExportConfig(jsonConfig *ExportConfig) {
	if jsonConfig.OutputDir != "" {
		c.Export.OutputDir = jsonConfig.OutputDir
		c.ConfigSources["Export.OutputDir"] = SourceJSONFile
	}
	if jsonConfig.Format != "" {
		c.Export.Format = jsonConfig.Format
		c.ConfigSources["Export.Format"] = SourceJSONFile
	}
	// Note: bool field
	c.Export.Compress = jsonConfig.Compress
	c.ConfigSources["Export.Compress"] = SourceJSONFile
}

// splitCommaSeparated splits a comma-separated string into a slice of strings
// It also trims whitespace from each element
func splitCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// slicesEqual compares two string slices for equality
func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if v != b[i] {
			return false
		}
	}
	return true
}
