package impl

import (
	"context"
	"fmt"
	"strings"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/infrastructure/config"
	usecase "github.com/ca-srg/propertime/usecase/interface"
)

// ConfigMigrationServiceImpl は ConfigMigrationService の実装
type ConfigMigrationServiceImpl struct {
	logger domain.Logger
}

// NewConfigMigrationService は新しい ConfigMigrationService を作成する
func NewConfigMigrationService(logger domain.Logger) usecase.ConfigMigrationService {
	return &ConfigMigrationServiceImpl{
		logger: logger,
	}
}

// NeedsMigration は設定がマイグレーションを必要とするかチェックする
func (s *ConfigMigrationServiceImpl) NeedsMigration(cfg *config.AppConfig) bool {
	// バージョンフィールドが存在しない、または0の場合はマイグレーションが必要
	return cfg.Version == 0
}

// GetCurrentVersion は現在の設定バージョンを返す
func (s *ConfigMigrationServiceImpl) GetCurrentVersion() int {
	return 1
}

// Migrate はレガシー形式から現在の形式への移行を実行する
func (s *ConfigMigrationServiceImpl) Migrate(cfg *config.AppConfig) (*config.AppConfig, error) {
	ctx := context.Background()

	// すでに最新バージョンの場合はそのまま返す
	if !s.NeedsMigration(cfg) {
		s.logger.Debug(ctx, "Configuration is already at current version",
			domain.NewField("version", cfg.Version))
		return cfg, nil
	}

	s.logger.Info(ctx, "Starting configuration migration",
		domain.NewField("from_version", cfg.Version),
		domain.NewField("to_version", s.GetCurrentVersion()))

	// 設定のコピーを作成（元の設定を変更しないため）
	migratedCfg := s.copyConfig(cfg)

	if err := s.migrateV0ToV1(migratedCfg); err != nil {
		s.logger.Error(ctx, "Failed to migrate configuration",
			domain.NewField("error", err.Error()))
		return nil, fmt.Errorf("failed to migrate configuration: %w", err)
	}

	// マイグレーション後の検証
	if err := s.validateMigratedConfig(migratedCfg); err != nil {
		s.logger.Error(ctx, "Migrated configuration validation failed",
			domain.NewField("error", err.Error()))
		return nil, fmt.Errorf("migrated configuration validation failed: %w", err)
	}

	s.logger.Info(ctx, "Configuration migration completed successfully",
		domain.NewField("new_version", migratedCfg.Version))

	return migratedCfg, nil
}

// migrateV0ToV1 はバージョン0から1へのマイグレーションを実行する
func (s *ConfigMigrationServiceImpl) migrateV0ToV1(cfg *config.AppConfig) error {
	ctx := context.Background()

	// 旧形式ではログレベル "warning" と大文字表記を許していた
	if cfg.Logging != nil && cfg.Logging.Level != "" {
		level := strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
		if level == "warning" {
			level = "warn"
		}
		if level != cfg.Logging.Level {
			s.logger.Debug(ctx, "Normalized logging.level",
				domain.NewField("from", cfg.Logging.Level),
				domain.NewField("to", level))
		}
		cfg.Logging.Level = level
	}

	if cfg.Span != nil {
		cfg.Span.Rounding = strings.ToLower(strings.TrimSpace(cfg.Span.Rounding))
	}

	if cfg.Export != nil {
		cfg.Export.Format = strings.ToLower(strings.TrimSpace(cfg.Export.Format))
		// 旧形式では CSV にも圧縮フラグを指定できた（実際には無視されていた）
		if cfg.Export.Compress && cfg.Export.Format != "" && cfg.Export.Format != "jsonl" {
			cfg.Export.Compress = false
			s.logger.Debug(ctx, "Cleared export.compress for non-jsonl format",
				domain.NewField("format", cfg.Export.Format))
		}
	}

	// 旧形式の空の watch_zones は既定ゾーンのみを意味する
	if cfg.Zone != nil && len(cfg.Zone.WatchZones) == 0 && cfg.Zone.DefaultZone != "" && cfg.Zone.DefaultZone != "local" {
		cfg.Zone.WatchZones = []string{cfg.Zone.DefaultZone}
	}

	// バージョンフィールドを設定
	cfg.Version = 1
	s.logger.Debug(ctx, "Set configuration version to 1")

	return nil
}

// validateMigratedConfig はマイグレーション後の設定を検証する
func (s *ConfigMigrationServiceImpl) validateMigratedConfig(cfg *config.AppConfig) error {
	// バージョンが正しく設定されているか確認
	if cfg.Version != s.GetCurrentVersion() {
		return fmt.Errorf("invalid version after migration: expected %d, got %d",
			s.GetCurrentVersion(), cfg.Version)
	}

	return cfg.Validate()
}

// copyConfig は設定のディープコピーを作成する
func (s *ConfigMigrationServiceImpl) copyConfig(src *config.AppConfig) *config.AppConfig {
	dst := &config.AppConfig{
		Version:       src.Version,
		ConfigSources: make(config.ConfigSourceMap),
	}

	// ConfigSourcesをコピー
	for k, v := range src.ConfigSources {
		dst.ConfigSources[k] = v
	}

	if src.Zone != nil {
		dst.Zone = &config.ZoneConfig{
			DefaultZone: src.Zone.DefaultZone,
			WatchZones:  append([]string{}, src.Zone.WatchZones...),
			Guessing:    src.Zone.Guessing,
		}
	}

	if src.Span != nil {
		span := *src.Span
		dst.Span = &span
	}

	// Logging設定をコピー
	if src.Logging != nil {
		dst.Logging = &config.LoggingConfig{
			Level: src.Logging.Level,
			Debug: src.Logging.Debug,
		}
		if src.Logging.Promtail != nil {
			promtail := *src.Logging.Promtail
			dst.Logging.Promtail = &promtail
		}
	}

	if src.Storage != nil {
		storage := *src.Storage
		dst.Storage = &storage
	}

	if src.Export != nil {
		export := *src.Export
		dst.Export = &export
	}

	return dst
}
