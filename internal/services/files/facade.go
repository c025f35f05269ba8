// Package files implements the file access façade used by the settings front-end.
package files

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"tfsettings/internal/domain"
	apperrors "tfsettings/internal/errors"
	"tfsettings/internal/logging"
)

const filePermissions = 0o644 // Front-end files stay readable by the TouchFree service

// Facade passes file reads and writes through to the filesystem adapter.
// It holds no mutable state, so one instance may serve concurrent callers.
type Facade struct {
	fs         domain.FileSystemAdapter
	configPath string
	logger     *slog.Logger
}

// NewFacade creates a façade. configPath is the location read by ReadFixedConfig.
func NewFacade(fs domain.FileSystemAdapter, configPath string, logger *slog.Logger) *Facade {
	return &Facade{
		fs:         fs,
		configPath: configPath,
		logger:     logger,
	}
}

// ConfigPath returns the fixed configuration path this façade reads.
func (f *Facade) ConfigPath() string {
	return f.configPath
}

// ReadFileToString reads the whole file at path and returns it as text.
func (f *Facade) ReadFileToString(ctx context.Context, path string) (string, error) {
	logger := logging.WithPath(logging.WithOperation(f.logger, domain.CommandReadFile), path)

	data, err := f.fs.ReadFile(path)
	if err != nil {
		logger.DebugContext(ctx, "Failed to read file", "error", err)
		return "", apperrors.NewIOError("read", path, err)
	}

	if !utf8.Valid(data) {
		logger.DebugContext(ctx, "File is not valid text", "bytes", len(data))
		return "", apperrors.NewIOError("read", path, apperrors.ErrInvalidText)
	}

	logger.DebugContext(ctx, "File read", "bytes", len(data))
	return string(data), nil
}

// WriteStringToFile creates or truncates the file at path and writes contents to it.
func (f *Facade) WriteStringToFile(ctx context.Context, path, contents string) error {
	logger := logging.WithPath(logging.WithOperation(f.logger, domain.CommandWriteFile), path)

	if err := f.fs.WriteFile(path, []byte(contents), filePermissions); err != nil {
		logger.DebugContext(ctx, "Failed to write file", "error", err)
		return apperrors.NewIOError("write", path, err)
	}

	logger.DebugContext(ctx, "File written", "bytes", len(contents))
	return nil
}

// ReadFixedConfig reads the TouchFree configuration file. A missing file is
// reported as a configuration-missing error rather than a plain I/O error.
func (f *Facade) ReadFixedConfig(ctx context.Context) (string, error) {
	logger := logging.WithPath(logging.WithOperation(f.logger, domain.CommandReadConfig), f.configPath)

	if f.configPath == "" {
		return "", apperrors.NewConfigMissingError(f.configPath, apperrors.NewValidationError("config_path", "not configured"))
	}

	data, err := f.fs.ReadFile(f.configPath)
	if err != nil {
		if apperrors.IsNotFound(err) {
			logger.WarnContext(ctx, "Configuration file not found")
			return "", apperrors.NewConfigMissingError(f.configPath, err)
		}
		logger.ErrorContext(ctx, "Failed to read configuration file", "error", err)
		return "", apperrors.NewIOError("read", f.configPath, err)
	}

	if !utf8.Valid(data) {
		return "", apperrors.NewIOError("read", f.configPath, apperrors.ErrInvalidText)
	}

	logger.DebugContext(ctx, "Configuration read", "bytes", len(data))
	return string(data), nil
}
