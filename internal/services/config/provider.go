package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"tfsettings/internal/domain"
)

// DefaultConfigFileName is the TouchFree configuration file read by the façade.
const DefaultConfigFileName = "TouchFreeConfig.json"

const (
	linuxConfigDirectory  = "/storage/sd/ultraleap/touchfree/configuration/"
	darwinConfigDirectory = "/Library/Application Support/Ultraleap/TouchFree/Configuration/"
	windowsConfigSuffix   = `Ultraleap\TouchFree\Configuration\`
	windowsProgramData    = `C:\ProgramData`
)

// Locator resolves the TouchFree configuration directory and file.
type Locator struct {
	fs       domain.FileSystemAdapter
	override string
	fileName string
	goos     string
	getenv   func(string) string
	logger   *slog.Logger
}

// LocatorOption customizes a Locator.
type LocatorOption func(*Locator)

// WithOverride sets a directory that replaces the platform default when it exists.
func WithOverride(dir string) LocatorOption {
	return func(l *Locator) {
		l.override = dir
	}
}

// WithFileName sets the configuration file name.
func WithFileName(name string) LocatorOption {
	return func(l *Locator) {
		if name != "" {
			l.fileName = name
		}
	}
}

// WithPlatform pretends to run on goos, reading environment variables through getenv.
func WithPlatform(goos string, getenv func(string) string) LocatorOption {
	return func(l *Locator) {
		l.goos = goos
		if getenv != nil {
			l.getenv = getenv
		}
	}
}

// NewLocator creates a new configuration locator.
func NewLocator(fs domain.FileSystemAdapter, logger *slog.Logger, opts ...LocatorOption) *Locator {
	l := &Locator{
		fs:       fs,
		fileName: DefaultConfigFileName,
		goos:     runtime.GOOS,
		getenv:   os.Getenv,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ConfigDirectory returns the override directory if it exists, otherwise the platform default.
func (l *Locator) ConfigDirectory() string {
	if l.override != "" {
		exists, err := l.fs.DirExists(l.override)
		if err == nil && exists {
			return l.override
		}
		l.logger.Warn("Configuration directory override does not exist, using default",
			"override", l.override, "error", err)
	}
	return DefaultConfigDirectory(l.goos, l.getenv)
}

// ConfigPath returns the full path of the TouchFree configuration file.
func (l *Locator) ConfigPath() string {
	dir := l.ConfigDirectory()
	if l.goos == "windows" {
		return strings.TrimRight(dir, `\`) + `\` + l.fileName
	}
	return filepath.Join(dir, l.fileName)
}

// DefaultConfigDirectory returns where TouchFree keeps its configuration on goos.
func DefaultConfigDirectory(goos string, getenv func(string) string) string {
	switch goos {
	case "windows":
		programData := windowsProgramData
		if getenv != nil {
			if value := getenv("ProgramData"); value != "" {
				programData = value
			}
		}
		return programData + `\` + windowsConfigSuffix
	case "darwin":
		return darwinConfigDirectory
	default:
		return linuxConfigDirectory
	}
}
