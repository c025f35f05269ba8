package app

import (
	"context"
	"os"

	"tfsettings/internal/adapters/filesystem"
	"tfsettings/internal/adapters/terminal"
	"tfsettings/internal/bridge"
	"tfsettings/internal/logging"
	"tfsettings/internal/services/config"
	"tfsettings/internal/services/files"
	"tfsettings/internal/ui"
)

// NewAppWithConfig creates a new App with the given configuration, wiring all dependencies.
func NewAppWithConfig(ctx context.Context, cfg *Config) (*App, error) {
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	applyStreamDefaults(cfg)

	// Create logger.
	level := logging.ParseLevel(cfg.Settings.LogLevel)
	if cfg.Verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewLogger(logging.Config{
		Level:  level,
		Format: cfg.Settings.LogFormat,
		Output: cfg.LogOutput,
	}).Logger

	// Create filesystem adapter.
	fs := cfg.FileSystem
	if fs == nil {
		fs = filesystem.New()
	}

	// Resolve the fixed configuration path once; the façade never looks it up again.
	locator := config.NewLocator(fs, logger,
		config.WithOverride(cfg.Settings.ConfigDir),
		config.WithFileName(cfg.Settings.ConfigFile))
	configPath := locator.ConfigPath()

	facade := files.NewFacade(fs, configPath, logger)

	dispatcherOpts := []bridge.Option{bridge.WithFailurePolicy(bridge.PolicyFor(cfg.Settings.FailFast))}
	if cfg.Exit != nil {
		dispatcherOpts = append(dispatcherOpts, bridge.WithExitFunc(cfg.Exit))
	}
	dispatcher := bridge.NewDispatcher(facade, logger, dispatcherOpts...)

	server := bridge.NewServer(dispatcher, cfg.Settings.Listen,
		cfg.Settings.RateLimit, cfg.Settings.RateBurst, logger)

	logger.DebugContext(ctx, "Initializing tfsettings with configuration",
		"logLevel", string(level),
		"verbose", cfg.Verbose,
		"configPath", configPath,
		"failurePolicy", bridge.PolicyFor(cfg.Settings.FailFast).String(),
		"listen", cfg.Settings.Listen)

	return &App{
		Facade:        facade,
		Locator:       locator,
		Dispatcher:    dispatcher,
		Server:        server,
		BridgeClients: NewBridgeClientFactory(logger, cfg.HTTPTimeout),
		FileSystem:    fs,
		Contents:      terminal.NewAdapter(cfg.Stdin, cfg.LogOutput),
		UI:            ui.NewWithWriters(cfg.Stdout, cfg.LogOutput),
		Logger:        logger,
		Config:        cfg,
	}, nil
}

func applyStreamDefaults(cfg *Config) {
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.LogOutput == nil {
		cfg.LogOutput = os.Stderr
	}
}
