// Package testutil provides test utilities and constructors with pre-injected dependencies.
package testutil

import (
	"log/slog"
	"path/filepath"
	"testing"

	"tfsettings/internal/adapters/filesystem"
	"tfsettings/internal/logging"
	"tfsettings/internal/services/files"
)

// Logger returns a test logger for use in tests.
func Logger() *slog.Logger {
	return logging.NewTestLogger()
}

// MemoryFacade returns a façade over an in-memory filesystem together with
// the adapter, so tests can seed files directly.
func MemoryFacade(configPath string) (*files.Facade, *filesystem.Adapter) {
	fs := filesystem.NewMemory()
	return files.NewFacade(fs, configPath, Logger()), fs
}

// DiskFacade returns a façade over the real filesystem whose configuration
// path points inside a fresh temporary directory.
func DiskFacade(t *testing.T) (*files.Facade, string) {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "TouchFreeConfig.json")
	return files.NewFacade(filesystem.New(), configPath, Logger()), dir
}
