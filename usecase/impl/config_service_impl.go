package impl

import (
	"context"
	"fmt"
	"sync"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/repository"
	"github.com/ca-srg/propertime/infrastructure/config"
	usecase "github.com/ca-srg/propertime/usecase/interface"
)

// ConfigServiceImpl は ConfigService の実装
type ConfigServiceImpl struct {
	configRepo       repository.ConfigRepository
	migrationService usecase.ConfigMigrationService
	config           *config.AppConfig
	logger           domain.Logger
	mu               sync.RWMutex
}

// NewConfigService は新しい ConfigService を作成する
func NewConfigService(configRepo repository.ConfigRepository, migrationService usecase.ConfigMigrationService, logger domain.Logger) (usecase.ConfigService, error) {
	// 設定を読み込む（ロガーとマイグレーションサービスを渡す）
	cfg, err := loadConfigWithMigration(configRepo, migrationService, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &ConfigServiceImpl{
		configRepo:       configRepo,
		migrationService: migrationService,
		config:           cfg,
		logger:           logger,
	}, nil
}

// loadConfigWithMigration loads configuration with migration support
func loadConfigWithMigration(configRepo repository.ConfigRepository, migrationService usecase.ConfigMigrationService, logger domain.Logger) (*config.AppConfig, error) {
	ctx := context.Background()

	cfg, err := loadConfigWithFallback(configRepo, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// マイグレーションが必要かチェック
	if !migrationService.NeedsMigration(cfg) {
		return cfg, nil
	}

	logger.Info(ctx, "Configuration migration required",
		domain.NewField("current_version", cfg.Version),
		domain.NewField("target_version", migrationService.GetCurrentVersion()))

	migratedCfg, err := migrationService.Migrate(cfg)
	if err != nil {
		logger.Error(ctx, "Configuration migration failed, using original configuration",
			domain.NewField("error", err.Error()))
		// マイグレーション失敗時は元の設定を使用（フォールバック）
		return cfg, nil
	}

	// マイグレーション成功時は新しい設定を保存
	if err := configRepo.Save(migratedCfg); err != nil {
		logger.Error(ctx, "Failed to save migrated configuration",
			domain.NewField("error", err.Error()))
	} else {
		logger.Info(ctx, "Migrated configuration saved successfully",
			domain.NewField("config_path", configRepo.GetConfigPath()))
	}

	return migratedCfg, nil
}

// loadConfigWithFallback loads configuration with fallback to defaults on errors
func loadConfigWithFallback(configRepo repository.ConfigRepository, logger domain.Logger) (*config.AppConfig, error) {
	ctx := context.Background()

	cfg := config.DefaultConfig()
	logger.Debug(ctx, "Loading configuration with fallback", domain.NewField("config_path", configRepo.GetConfigPath()))
	cfg.MarkDefaults()

	jsonConfig, err := configRepo.Load()
	if err != nil {
		// JSON読み込みエラーは無視してデフォルト設定で継続
		logger.Warn(ctx, "Failed to load JSON configuration, using defaults",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configRepo.GetConfigPath()))
	} else if jsonConfig != nil {
		cfg.MergeJSONConfig(jsonConfig)
		logger.Debug(ctx, "Successfully loaded JSON configuration",
			domain.NewField("config_path", configRepo.GetConfigPath()))
	} else {
		logger.Debug(ctx, "No JSON configuration file found, using defaults",
			domain.NewField("config_path", configRepo.GetConfigPath()))
	}

	// Load environment variables (they override JSON values)
	if err := cfg.LoadFromEnv(); err != nil {
		// 環境変数のエラーは無視して継続
		logger.Warn(ctx, "Failed to load environment variables, using fallback values",
			domain.NewField("error", err.Error()))
	}

	if err := cfg.Validate(); err != nil {
		// 検証エラー時はデフォルト設定にフォールバック
		logger.Warn(ctx, "Configuration validation failed, using default values",
			domain.NewField("error", err.Error()))
		version := cfg.Version
		cfg = config.DefaultConfig()
		cfg.Version = version
		cfg.MarkDefaults()
	}

	return cfg, nil
}

// GetConfig は現在の設定を取得する
func (s *ConfigServiceImpl) GetConfig() *config.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config
}

// UpdateConfig は設定を更新する
func (s *ConfigServiceImpl) UpdateConfig(newConfig *config.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := newConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := s.configRepo.Save(newConfig); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	s.config = newConfig

	return nil
}

// GetConfigWithSources は設定とそのソース情報を取得する
func (s *ConfigServiceImpl) GetConfigWithSources() (*config.AppConfig, config.ConfigSourceMap) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.config, s.config.ConfigSources
}

// SaveConfig は現在の設定をファイルに保存する
func (s *ConfigServiceImpl) SaveConfig() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.configRepo.Save(s.config)
}

// ReloadConfig は設定を再読み込みする
func (s *ConfigServiceImpl) ReloadConfig() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info(ctx, "Reloading configuration")

	newConfig, err := loadConfigWithMigration(s.configRepo, s.migrationService, s.logger)
	if err != nil {
		s.logger.Error(ctx, "Failed to reload configuration",
			domain.NewField("error", err.Error()))
		return fmt.Errorf("failed to reload config: %w", err)
	}

	s.config = newConfig
	s.logger.Info(ctx, "Configuration reloaded successfully")
	return nil
}

// GetConfigPath は設定ファイルのパスを返す
func (s *ConfigServiceImpl) GetConfigPath() string {
	return s.configRepo.GetConfigPath()
}

// GetConfigDir は設定ディレクトリのパスを返す
func (s *ConfigServiceImpl) GetConfigDir() string {
	return s.configRepo.GetConfigDir()
}

// CreateDefaultConfig はデフォルト設定ファイルを作成する
func (s *ConfigServiceImpl) CreateDefaultConfig() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 設定ファイルが既に存在する場合はエラー
	exists, err := s.configRepo.Exists()
	if err != nil {
		return fmt.Errorf("failed to check config existence: %w", err)
	}
	if exists {
		return fmt.Errorf("config file already exists at %s", s.configRepo.GetConfigPath())
	}

	defaultConfig := config.MinimalDefaultConfig()
	if err := s.configRepo.Save(defaultConfig); err != nil {
		return fmt.Errorf("failed to save default config: %w", err)
	}

	s.config = defaultConfig

	return nil
}

// ExportConfig は現在の設定をエクスポート用に整形する（パスワードなどをマスク）
func (s *ConfigServiceImpl) ExportConfig() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exportMap := make(map[string]interface{})
	exportMap["version"] = s.config.Version

	// Zone設定
	if s.config.Zone != nil {
		exportMap["zone"] = map[string]interface{}{
			"default_zone": s.config.Zone.DefaultZone,
			"watch_zones":  s.config.Zone.WatchZones,
			"guessing":     s.config.Zone.Guessing,
		}
	}

	// Span設定
	if s.config.Span != nil {
		exportMap["span"] = map[string]interface{}{
			"default_span": s.config.Span.DefaultSpan,
			"rounding":     s.config.Span.Rounding,
		}
	}

	// Logging設定
	if s.config.Logging != nil {
		loggingMap := make(map[string]interface{})
		loggingMap["level"] = s.config.Logging.Level
		loggingMap["debug"] = s.config.Logging.Debug

		if s.config.Logging.Promtail != nil {
			promtailMap := make(map[string]interface{})
			promtailMap["url"] = s.config.Logging.Promtail.URL
			promtailMap["username"] = s.config.Logging.Promtail.Username
			// パスワードはマスク
			if s.config.Logging.Promtail.Password != "" {
				promtailMap["password"] = "****"
			}
			promtailMap["batch_wait_seconds"] = s.config.Logging.Promtail.BatchWaitSeconds
			promtailMap["batch_capacity"] = s.config.Logging.Promtail.BatchCapacity
			promtailMap["timeout_seconds"] = s.config.Logging.Promtail.TimeoutSeconds
			loggingMap["promtail"] = promtailMap
		}
		exportMap["logging"] = loggingMap
	}

	// Storage設定
	if s.config.Storage != nil {
		exportMap["storage"] = map[string]interface{}{
			"database_path": s.config.Storage.DatabasePath,
		}
	}

	// Export設定
	if s.config.Export != nil {
		exportMap["export"] = map[string]interface{}{
			"output_dir": s.config.Export.OutputDir,
			"format":     s.config.Export.Format,
			"compress":   s.config.Export.Compress,
		}
	}

	// ソース情報を追加
	sourcesMap := make(map[string]string)
	for key, source := range s.config.ConfigSources {
		sourcesMap[key] = string(source)
	}
	exportMap["_sources"] = sourcesMap

	return exportMap
}

// EnsureConfigExists は設定ファイルが存在することを確認し、存在しない場合はテンプレートを作成する
func (s *ConfigServiceImpl) EnsureConfigExists() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	configPath := s.configRepo.GetConfigPath()
	exists, err := s.configRepo.Exists()
	if err != nil {
		s.logger.Error(ctx, "Failed to check config existence",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configPath))
		return fmt.Errorf("failed to check config existence: %w", err)
	}

	if exists {
		s.logger.Debug(ctx, "Configuration file already exists",
			domain.NewField("config_path", configPath))
		return nil
	}

	s.logger.Info(ctx, "Configuration file not found, creating template",
		domain.NewField("config_path", configPath))

	defaultConfig := config.MinimalDefaultConfig()
	if err := s.configRepo.Save(defaultConfig); err != nil {
		s.logger.Error(ctx, "Failed to create template configuration",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configPath))
		return fmt.Errorf("failed to create template config: %w", err)
	}

	// メモリ内の設定は既定値と環境変数を反映済みのため更新しない
	s.logger.Info(ctx, "Template configuration created successfully",
		domain.NewField("config_path", configPath))
	return nil
}

// CreateTemplateConfig はテンプレート設定ファイルを作成する（既存ファイルは上書き）
func (s *ConfigServiceImpl) CreateTemplateConfig() error {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	configPath := s.configRepo.GetConfigPath()
	if err := s.configRepo.Save(config.MinimalDefaultConfig()); err != nil {
		s.logger.Error(ctx, "Failed to save template configuration",
			domain.NewField("error", err.Error()),
			domain.NewField("config_path", configPath))
		return fmt.Errorf("failed to save template config: %w", err)
	}

	s.logger.Info(ctx, "Template configuration file created successfully",
		domain.NewField("config_path", configPath))
	return nil
}

// LoadConfigWithFallback はエラー耐性のある設定読み込みを行う
func (s *ConfigServiceImpl) LoadConfigWithFallback() (*config.AppConfig, error) {
	return loadConfigWithFallback(s.configRepo, s.logger)
}
