package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"tfsettings/internal/adapters/terminal"
	"tfsettings/internal/bridge"
	"tfsettings/internal/domain"
	"tfsettings/internal/services/settings"
	"tfsettings/internal/ui"
)

// App contains all application dependencies.
type App struct {
	// Façade and its bridge
	Facade     domain.FileFacade
	Locator    domain.ConfigLocator
	Dispatcher *bridge.Dispatcher
	Server     *bridge.Server

	// Factories for creating clients on-demand
	BridgeClients *BridgeClientFactory

	// File operations
	FileSystem domain.FileSystemAdapter

	// I/O dependencies
	Contents *terminal.Adapter
	UI       *ui.UI

	// Logging
	Logger *slog.Logger

	// Configuration
	Config *Config
}

// Config holds application configuration.
type Config struct {
	Settings     settings.Settings
	SettingsPath string
	Verbose      bool
	LogOutput    io.Writer
	FileSystem   domain.FileSystemAdapter
	Stdin        io.Reader
	Stdout       io.Writer
	Exit         func(code int)
	HTTPTimeout  time.Duration
}

// Option is a functional option for configuring the App.
type Option func(*Config)

// WithSettings sets the effective application settings.
func WithSettings(s settings.Settings) Option {
	return func(cfg *Config) {
		cfg.Settings = s
	}
}

// WithSettingsPath sets where `settings init` writes the settings file.
func WithSettingsPath(path string) Option {
	return func(cfg *Config) {
		cfg.SettingsPath = path
	}
}

// WithVerbose enables verbose logging.
func WithVerbose(verbose bool) Option {
	return func(cfg *Config) {
		cfg.Verbose = verbose
	}
}

// WithFileSystem replaces the OS filesystem adapter.
func WithFileSystem(fs domain.FileSystemAdapter) Option {
	return func(cfg *Config) {
		cfg.FileSystem = fs
	}
}

// WithIO replaces the process streams used by the CLI and the logger.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(cfg *Config) {
		cfg.Stdin = stdin
		cfg.Stdout = stdout
		cfg.LogOutput = stderr
	}
}

// WithExitFunc replaces os.Exit for the fail-fast configuration policy.
func WithExitFunc(exit func(code int)) Option {
	return func(cfg *Config) {
		cfg.Exit = exit
	}
}

// NewApp creates a new App with the given options.
func NewApp(ctx context.Context, opts ...Option) (*App, error) {
	cfg := &Config{
		Settings:    settings.Defaults(),
		HTTPTimeout: defaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return NewAppWithConfig(ctx, cfg)
}

// SettingsRepository opens the settings file. It is created on demand so that
// ordinary commands never touch the settings directory.
func (a *App) SettingsRepository() (*settings.Repository, error) {
	return settings.NewRepository(a.FileSystem, a.Config.SettingsPath, a.Logger)
}
