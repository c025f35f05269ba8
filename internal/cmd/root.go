package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"tfsettings/internal/adapters/filesystem"
	"tfsettings/internal/app"
	"tfsettings/internal/domain"
	"tfsettings/internal/services/settings"
	"tfsettings/internal/ui"
)

const envPrefix = "TFSETTINGS"

// Build information
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// SetVersionInfo updates the build information variables
func SetVersionInfo(v, c, d, b string) {
	version = v
	commit = c
	date = d
	builtBy = b
}

// rootOptions carries state shared by all subcommands of one root command.
type rootOptions struct {
	settingsFile string
	verbose      bool

	v           *viper.Viper
	fs          domain.FileSystemAdapter
	appOpts     []app.Option
	application *app.App
}

// settingFlags maps settings keys onto their command-line flags.
var settingFlags = map[string]string{
	"config_dir":  "config-dir",
	"config_file": "config-file",
	"listen":      "listen",
	"fail_fast":   "fail-fast",
	"log_level":   "log-level",
	"log_format":  "log-format",
	"rate_limit":  "rate-limit",
	"rate_burst":  "rate-burst",
}

// NewRootCommand builds the tfsettings command tree. appOpts are applied
// before the options derived from flags and settings.
func NewRootCommand(appOpts ...app.Option) *cobra.Command {
	o := &rootOptions{
		v:       viper.New(),
		fs:      fileSystemFrom(appOpts),
		appOpts: appOpts,
	}

	rootCmd := &cobra.Command{
		Use:   "tfsettings",
		Short: "Desktop backend for the TouchFree settings front-end",
		Long: `tfsettings exposes a small file access façade (read a file, write a file,
read the TouchFree configuration) to the embedded settings web view, either
through the bridge server or directly from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.initialize(cmd.Context())
		},
	}

	defaults := settings.Defaults()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&o.settingsFile, "settings", "", "settings file (default is $HOME/.config/tfsettings/settings.yaml)")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.String("config-dir", "", "TouchFree configuration directory (used only if it exists)")
	flags.String("config-file", defaults.ConfigFile, "TouchFree configuration file name")
	flags.String("listen", defaults.Listen, "Bridge listen address")
	flags.Bool("fail-fast", defaults.FailFast, "Terminate when the TouchFree configuration cannot be read")
	flags.String("log-level", defaults.LogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-format", defaults.LogFormat, "Log format (text or json)")
	flags.Float64("rate-limit", defaults.RateLimit, "Bridge invocations per second")
	flags.Int("rate-burst", defaults.RateBurst, "Bridge invocation burst size")

	o.bindSettings(flags, defaults)

	rootCmd.AddCommand(
		newReadCommand(o),
		newWriteCommand(o),
		newConfigCommand(o),
		newServeCommand(o),
		newInvokeCommand(o),
		newSettingsCommand(o),
		newVersionCommand(),
	)

	return rootCmd
}

func (o *rootOptions) bindSettings(flags *pflag.FlagSet, defaults settings.Settings) {
	o.v.SetEnvPrefix(envPrefix)
	o.v.AutomaticEnv()

	o.v.SetDefault("version", defaults.Version)
	o.v.SetDefault("config_dir", defaults.ConfigDir)
	o.v.SetDefault("config_file", defaults.ConfigFile)
	o.v.SetDefault("listen", defaults.Listen)
	o.v.SetDefault("fail_fast", defaults.FailFast)
	o.v.SetDefault("log_level", defaults.LogLevel)
	o.v.SetDefault("log_format", defaults.LogFormat)
	o.v.SetDefault("rate_limit", defaults.RateLimit)
	o.v.SetDefault("rate_burst", defaults.RateBurst)

	for key, flag := range settingFlags {
		_ = o.v.BindPFlag(key, flags.Lookup(flag))
	}
}

// initialize reads the settings file and wires the application.
func (o *rootOptions) initialize(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	settingsPath, err := o.readSettingsFile()
	if err != nil {
		return err
	}

	var effective settings.Settings
	if err := o.v.Unmarshal(&effective); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}

	opts := append([]app.Option{}, o.appOpts...)
	opts = append(opts,
		app.WithSettings(effective),
		app.WithSettingsPath(settingsPath),
		app.WithVerbose(o.verbose))

	o.application, err = app.NewApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return nil
}

// readSettingsFile loads the settings file into viper and returns its path.
// A missing default file is not an error; a missing explicit one is.
func (o *rootOptions) readSettingsFile() (string, error) {
	if o.settingsFile != "" {
		o.v.SetConfigFile(o.settingsFile)
		if err := o.v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read settings file: %w", err)
		}
		return o.settingsFile, nil
	}

	home, err := o.fs.UserHomeDir()
	if err != nil || home == "" {
		return "", nil
	}

	path := filepath.Join(home, ".config", "tfsettings", "settings.yaml")
	o.v.SetConfigFile(path)
	o.v.SetConfigType("yaml")
	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return "", fmt.Errorf("failed to read settings file: %w", err)
		}
	}
	return path, nil
}

// fileSystemFrom returns the filesystem the application will be wired with.
func fileSystemFrom(opts []app.Option) domain.FileSystemAdapter {
	cfg := &app.Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.FileSystem != nil {
		return cfg.FileSystem
	}
	return filesystem.New()
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		ui.New().Error(err.Error())
		os.Exit(1)
	}
}
