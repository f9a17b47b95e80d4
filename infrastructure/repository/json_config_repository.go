package repository

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/ca-srg/propertime/domain/repository"
	"github.com/ca-srg/propertime/domain/valueobject"
	"github.com/ca-srg/propertime/infrastructure/config"
)

const (
	configFileName = "config.json"
	configFileMode = os.FileMode(0600)
	configDirMode  = os.FileMode(0700)
)

// JSONConfigRepository は JSON形式で設定を管理するリポジトリ実装
type JSONConfigRepository struct {
	configDir  string
	configFile string
	// warnOut は整合性チェックの警告の出力先
	warnOut io.Writer
}

// NewJSONConfigRepository は ~/.config/propertime を使う JSONConfigRepository を作成する
func NewJSONConfigRepository() repository.ConfigRepository {
	homeDir, _ := os.UserHomeDir()
	return NewJSONConfigRepositoryIn(filepath.Join(homeDir, ".config", "propertime"))
}

// NewJSONConfigRepositoryIn は dir/config.json を使う JSONConfigRepository を作成する
func NewJSONConfigRepositoryIn(dir string) *JSONConfigRepository {
	return &JSONConfigRepository{
		configDir:  dir,
		configFile: filepath.Join(dir, configFileName),
		warnOut:    os.Stderr,
	}
}

// Exists は設定ファイルが存在するかどうかを確認する
func (r *JSONConfigRepository) Exists() (bool, error) {
	_, err := os.Stat(r.configFile)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check config file existence: %w", err)
}

// Load は設定ファイルから設定を読み込む。ファイルがなければ nil を返す
func (r *JSONConfigRepository) Load() (*config.AppConfig, error) {
	data, err := os.ReadFile(r.configFile)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Promtail のパスワードを含むため他ユーザーから読めないようにする
	if err := restrictMode(r.configFile, configFileMode); err != nil {
		return nil, fmt.Errorf("config file security check failed: %w", err)
	}

	var cfg config.AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Save は設定を検証してファイルに保存する。既存ファイルは .bak に残す
func (r *JSONConfigRepository) Save(cfg *config.AppConfig) error {
	if err := r.Validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if err := r.EnsureConfigDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if previous, err := os.ReadFile(r.configFile); err == nil {
		if err := os.WriteFile(r.BackupPath(), previous, configFileMode); err != nil {
			// バックアップ失敗は保存を止めない
			_, _ = fmt.Fprintf(r.warnOut, "Warning: failed to back up config: %v\n", err)
		}
	}

	if err := writeFileAtomic(r.configFile, data, configFileMode); err != nil {
		return fmt.Errorf("failed to save config file: %w", err)
	}

	for _, warning := range integrityWarnings(cfg) {
		_, _ = fmt.Fprintf(r.warnOut, "Warning: %s\n", warning)
	}

	return nil
}

// GetConfigPath は設定ファイルのパスを返す
func (r *JSONConfigRepository) GetConfigPath() string {
	return r.configFile
}

// GetConfigDir は設定ディレクトリのパスを返す（系列DBの既定の置き場所）
func (r *JSONConfigRepository) GetConfigDir() string {
	return r.configDir
}

// BackupPath は直前の設定ファイルの保存先を返す
func (r *JSONConfigRepository) BackupPath() string {
	return r.configFile + ".bak"
}

// EnsureConfigDir は設定ディレクトリが存在することを保証する
func (r *JSONConfigRepository) EnsureConfigDir() error {
	if err := os.MkdirAll(r.configDir, configDirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := restrictMode(r.configDir, configDirMode); err != nil {
		return fmt.Errorf("failed to secure config directory: %w", err)
	}
	return nil
}

// Validate は設定内容の妥当性を検証する
func (r *JSONConfigRepository) Validate(cfg *config.AppConfig) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	return cfg.Validate()
}

// integrityWarnings は単独では有効だが組み合わせると使えない設定を列挙する
func integrityWarnings(cfg *config.AppConfig) []string {
	var warnings []string

	if cfg.Span != nil && cfg.Span.DefaultSpan != "" {
		span, err := valueobject.ParseSpan(cfg.Span.DefaultSpan)
		if err == nil {
			// round コマンドは既定スパンで丸めるので、丸められないスパンは警告
			how, _ := valueobject.ParseRounding(cfg.Span.Rounding)
			epoch, _ := valueobject.FromEpoch(0)
			if _, err := span.Round(epoch, how); err != nil {
				warnings = append(warnings,
					fmt.Sprintf("span.default_span %q cannot be used by round: %v", cfg.Span.DefaultSpan, err))
			}
		}
	}

	if cfg.Zone != nil {
		seen := make([]string, 0, len(cfg.Zone.WatchZones))
		for _, name := range cfg.Zone.WatchZones {
			if slices.Contains(seen, name) {
				warnings = append(warnings, fmt.Sprintf("zone.watch_zones lists %q more than once", name))
				continue
			}
			seen = append(seen, name)
		}
	}

	if cfg.Export != nil && cfg.Export.OutputDir != "" {
		if info, err := os.Stat(cfg.Export.OutputDir); err == nil && !info.IsDir() {
			warnings = append(warnings, fmt.Sprintf("export.output_dir %q is not a directory", cfg.Export.OutputDir))
		}
	}

	return warnings
}

// restrictMode はグループや他ユーザーの権限が付いていれば mode に戻す
func restrictMode(path string, mode os.FileMode) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if info.Mode().Perm()&^mode == 0 {
		return nil
	}
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	return nil
}

// writeFileAtomic は同じディレクトリの一時ファイルに書いてから置き換える
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
