package di

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/repository"
	"github.com/ca-srg/propertime/domain/valueobject"
	"github.com/ca-srg/propertime/infrastructure/config"
	"github.com/ca-srg/propertime/infrastructure/logging"
	infraRepo "github.com/ca-srg/propertime/infrastructure/repository"
	"github.com/ca-srg/propertime/infrastructure/service"
	"github.com/ca-srg/propertime/usecase/impl"
	usecase "github.com/ca-srg/propertime/usecase/interface"
)

// Container is the dependency injection container
type Container struct {
	// Configuration
	config        *config.AppConfig
	configRepo    repository.ConfigRepository
	configService usecase.ConfigService

	// Repositories
	seriesRepo repository.SeriesRepository

	// Services
	zoneService repository.ZoneService

	// Use Cases
	instantService usecase.InstantService
	seriesService  usecase.SeriesService

	// Logging
	loggerFactory domain.LoggerFactory
	logger        domain.Logger
	loggers       []domain.Logger

	// Options
	debugMode bool
	configDir string
	clock     valueobject.Clock
}

// ContainerOption is a function that configures the container
type ContainerOption func(*Container)

// WithDebugMode sets the debug mode
func WithDebugMode(debug bool) ContainerOption {
	return func(c *Container) {
		c.debugMode = debug
	}
}

// WithConfigDir reads the configuration and the series database from dir
// instead of ~/.config/propertime
func WithConfigDir(dir string) ContainerOption {
	return func(c *Container) {
		c.configDir = dir
	}
}

// WithClock sets the clock used for "now"
func WithClock(clock valueobject.Clock) ContainerOption {
	return func(c *Container) {
		c.clock = clock
	}
}

// NewContainer creates a new DI container
func NewContainer(opts ...ContainerOption) (*Container, error) {
	container := &Container{}

	// Apply options
	for _, opt := range opts {
		opt(container)
	}

	// Load configuration
	if err := container.initConfig(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}

	if err := container.initRemaining(); err != nil {
		return nil, err
	}

	return container, nil
}

func (c *Container) initRemaining() error {
	// Initialize logging
	if err := c.initLogging(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	// Initialize domain services
	if err := c.initDomainServices(); err != nil {
		return fmt.Errorf("failed to initialize domain services: %w", err)
	}

	// Initialize repositories
	if err := c.initRepositories(); err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	// Initialize use cases
	if err := c.initUseCases(); err != nil {
		return fmt.Errorf("failed to initialize use cases: %w", err)
	}

	return nil
}

// initConfig initializes configuration
func (c *Container) initConfig() error {
	// Create config repository
	if c.configRepo == nil {
		c.configRepo = newConfigRepository(c.configDir)
	}

	// Create temporary NoOpLogger for initial configuration loading
	tempLogger := &logging.NoOpLogger{}

	// Create config service with temporary logger
	configService, err := impl.NewConfigService(c.configRepo, impl.NewConfigMigrationService(tempLogger), tempLogger)
	if err != nil {
		// ConfigServiceがないとシステムが動作しないので、エラーを返す
		return fmt.Errorf("failed to create config service: %w", err)
	}
	c.configService = configService

	// Ensure config file exists (create template if needed)
	if err := configService.EnsureConfigExists(); err != nil {
		// エラーメッセージを標準エラー出力に表示
		fmt.Fprintf(os.Stderr, "Warning: Failed to create config file: %v\n", err)
		// デフォルト設定で継続
	}

	// Get configuration from service (with fallback to defaults)
	c.config = configService.GetConfig()
	c.applyDebugMode()
	return nil
}

// applyDebugMode overrides the logging configuration when --debug is set
func (c *Container) applyDebugMode() {
	if !c.debugMode {
		return
	}
	if c.config.Logging == nil {
		c.config.Logging = &config.LoggingConfig{}
	}
	c.config.Logging.Debug = true
}

// initLogging initializes logging components
func (c *Container) initLogging() error {
	// Ensure logging configuration exists
	if c.config.Logging == nil {
		c.config.Logging = config.DefaultConfig().Logging
	}

	// Create logger factory
	c.loggerFactory = logging.NewLoggerFactory(c.config.Logging)

	// Create main logger for the container
	c.logger = c.CreateLogger("propertime")

	return nil
}

// initDomainServices initializes domain services
func (c *Container) initDomainServices() error {
	c.zoneService = service.NewZoneServiceImpl(c.config, c.CreateLogger("zone"))
	if c.clock == nil {
		c.clock = valueobject.RealClock()
	}
	return nil
}

// initRepositories initializes repository implementations
func (c *Container) initRepositories() error {
	if c.seriesRepo != nil {
		return nil
	}

	dbPath := c.configRepo.GetConfigDir()
	dbPath = infraRepo.DefaultSeriesDBPath(dbPath)
	if c.config.Storage != nil && c.config.Storage.DatabasePath != "" {
		dbPath = c.config.Storage.DatabasePath
	}

	seriesRepo, err := infraRepo.NewSQLiteSeriesRepository(dbPath)
	if err != nil {
		// ストレージなしで継続（--save を使わない series create は動作する）
		c.logger.Warn(context.Background(), "Series storage unavailable",
			domain.NewField("path", dbPath),
			domain.NewField("error", err.Error()))
		return nil
	}
	c.seriesRepo = seriesRepo
	return nil
}

// initUseCases initializes use case implementations
func (c *Container) initUseCases() error {
	instantService, err := impl.NewInstantService(c.config, c.zoneService, c.clock, c.CreateLogger("instant"))
	if err != nil {
		return fmt.Errorf("failed to create instant service: %w", err)
	}
	c.instantService = instantService

	exportLogger := c.CreateLogger("export")
	writerFactory := func(format string, compress bool) (repository.SeriesWriter, error) {
		return infraRepo.NewSeriesWriter(format, compress, exportLogger)
	}
	seriesService, err := impl.NewSeriesService(
		c.config,
		c.seriesRepo,
		writerFactory,
		c.zoneService,
		c.clock,
		c.CreateLogger("series"),
	)
	if err != nil {
		return fmt.Errorf("failed to create series service: %w", err)
	}
	c.seriesService = seriesService

	return nil
}

// GetConfig returns the application configuration
func (c *Container) GetConfig() *config.AppConfig {
	return c.config
}

// GetConfigService returns the configuration service
func (c *Container) GetConfigService() usecase.ConfigService {
	return c.configService
}

// GetZoneService returns the zone service
func (c *Container) GetZoneService() repository.ZoneService {
	return c.zoneService
}

// GetSeriesRepository returns the series repository, nil when storage could not be opened
func (c *Container) GetSeriesRepository() repository.SeriesRepository {
	return c.seriesRepo
}

// GetInstantService returns the instant use case
func (c *Container) GetInstantService() usecase.InstantService {
	return c.instantService
}

// GetSeriesService returns the series use case
func (c *Container) GetSeriesService() usecase.SeriesService {
	return c.seriesService
}

// GetLogger returns the main logger
func (c *Container) GetLogger() domain.Logger {
	return c.logger
}

// CreateLogger creates a logger for a component. Created loggers are
// flushed by Close.
func (c *Container) CreateLogger(component string) domain.Logger {
	if c.loggerFactory == nil {
		return &logging.NoOpLogger{}
	}
	logger := c.loggerFactory.CreateLogger(component)
	c.loggers = append(c.loggers, logger)
	return logger
}

// Close flushes the loggers and closes the series database
func (c *Container) Close() error {
	var errs []error
	if c.seriesRepo != nil {
		if err := c.seriesRepo.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, logger := range c.loggers {
		if shutdowner, ok := logger.(interface{ Shutdown() error }); ok {
			if err := shutdowner.Shutdown(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	c.loggers = nil
	return errors.Join(errs...)
}

func newConfigRepository(dir string) repository.ConfigRepository {
	if dir == "" {
		return infraRepo.NewJSONConfigRepository()
	}
	return infraRepo.NewJSONConfigRepositoryIn(dir)
}

// Builder pattern for custom container configuration

// ContainerBuilder builds a custom container
type ContainerBuilder struct {
	config     *config.AppConfig
	configRepo repository.ConfigRepository
	seriesRepo repository.SeriesRepository
	clock      valueobject.Clock
	debugMode  bool
}

// NewContainerBuilder creates a new container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{}
}

// WithConfig sets a custom configuration
func (b *ContainerBuilder) WithConfig(cfg *config.AppConfig) *ContainerBuilder {
	b.config = cfg
	return b
}

// WithConfigRepository sets a custom config repository
func (b *ContainerBuilder) WithConfigRepository(repo repository.ConfigRepository) *ContainerBuilder {
	b.configRepo = repo
	return b
}

// WithSeriesRepository sets a custom series repository
func (b *ContainerBuilder) WithSeriesRepository(repo repository.SeriesRepository) *ContainerBuilder {
	b.seriesRepo = repo
	return b
}

// WithClock sets the clock used for "now"
func (b *ContainerBuilder) WithClock(clock valueobject.Clock) *ContainerBuilder {
	b.clock = clock
	return b
}

// WithDebugMode sets the debug mode
func (b *ContainerBuilder) WithDebugMode(debug bool) *ContainerBuilder {
	b.debugMode = debug
	return b
}

// Build builds the container with custom components
func (b *ContainerBuilder) Build() (*Container, error) {
	container := &Container{
		configRepo: b.configRepo,
		seriesRepo: b.seriesRepo,
		clock:      b.clock,
		debugMode:  b.debugMode,
	}

	// Use custom config or load default
	if b.config != nil {
		if container.configRepo == nil {
			container.configRepo = infraRepo.NewJSONConfigRepository()
		}
		container.config = b.config
		// Create config service with custom config using temporary logger
		tempLogger := &logging.NoOpLogger{}
		configService, err := impl.NewConfigService(container.configRepo, impl.NewConfigMigrationService(tempLogger), tempLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create config service: %w", err)
		}
		container.configService = configService
		container.applyDebugMode()
	} else {
		if err := container.initConfig(); err != nil {
			return nil, fmt.Errorf("failed to initialize config: %w", err)
		}
	}

	if err := container.initRemaining(); err != nil {
		return nil, err
	}

	return container, nil
}
