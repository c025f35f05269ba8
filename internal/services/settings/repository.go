package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tfsettings/internal/domain"
)

const (
	dirPermissions  = 0o700 // Owner-only access
	filePermissions = 0o600 // Read/write owner only
)

// Repository handles settings persistence.
type Repository struct {
	fs       domain.FileSystemAdapter
	path     string
	settings Settings
	logger   *slog.Logger
}

// NewRepository creates a settings repository and loads the file at path if present.
func NewRepository(fs domain.FileSystemAdapter, path string, logger *slog.Logger) (*Repository, error) {
	repo := &Repository{
		fs:       fs,
		path:     path,
		settings: Defaults(),
		logger:   logger,
	}

	if err := fs.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	if err := repo.Load(context.Background()); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to load existing settings, starting with defaults", "error", err)
		}
	}

	return repo, nil
}

// Path returns the settings file location.
func (r *Repository) Path() string {
	return r.path
}

// Get returns the currently loaded settings.
func (r *Repository) Get(ctx context.Context) Settings {
	r.logger.DebugContext(ctx, "Getting settings", "path", r.path)
	return r.settings
}

// Save validates and writes settings to disk.
func (r *Repository) Save(ctx context.Context, s Settings) error {
	if s.Version == "" {
		s.Version = settingsVersion
	}
	if err := s.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if writeErr := r.fs.WriteFile(r.path, data, filePermissions); writeErr != nil {
		return fmt.Errorf("failed to write settings file: %w", writeErr)
	}

	r.settings = s
	r.logger.DebugContext(ctx, "Settings saved", "path", r.path)
	return nil
}

// Load reads settings from disk. Missing fields keep their default values.
func (r *Repository) Load(ctx context.Context) error {
	data, err := r.fs.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.DebugContext(ctx, "Settings file does not exist", "path", r.path)
			return os.ErrNotExist
		}
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	loaded := Defaults()
	if unmarshalErr := yaml.Unmarshal(data, &loaded); unmarshalErr != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", unmarshalErr)
	}

	r.settings = loaded
	r.logger.InfoContext(ctx, "Settings loaded", "path", r.path, "version", loaded.Version)
	return nil
}

// Marshal renders settings as YAML.
func Marshal(s Settings) ([]byte, error) {
	return yaml.Marshal(s)
}
