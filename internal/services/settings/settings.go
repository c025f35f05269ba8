// Package settings persists the tfsettings application settings file.
package settings

import (
	"fmt"
	"strings"

	apperrors "tfsettings/internal/errors"
)

const (
	settingsVersion = "1.0"

	DefaultListen    = "127.0.0.1:7780"
	DefaultRateLimit = 50.0
	DefaultRateBurst = 100
)

// Settings are the knobs of the desktop backend. Field tags are shared by
// yaml.v3 (settings file) and viper (flags and environment).
type Settings struct {
	Version    string  `yaml:"version" mapstructure:"version"`
	ConfigDir  string  `yaml:"config_dir,omitempty" mapstructure:"config_dir"`
	ConfigFile string  `yaml:"config_file" mapstructure:"config_file"`
	Listen     string  `yaml:"listen" mapstructure:"listen"`
	FailFast   bool    `yaml:"fail_fast" mapstructure:"fail_fast"`
	LogLevel   string  `yaml:"log_level" mapstructure:"log_level"`
	LogFormat  string  `yaml:"log_format" mapstructure:"log_format"`
	RateLimit  float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst  int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		Version:    settingsVersion,
		ConfigFile: "TouchFreeConfig.json",
		Listen:     DefaultListen,
		LogLevel:   "info",
		LogFormat:  "text",
		RateLimit:  DefaultRateLimit,
		RateBurst:  DefaultRateBurst,
	}
}

// Validate checks that the settings can be used to start the backend.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Listen) == "" {
		return apperrors.NewValidationError("listen", "must not be empty")
	}
	if strings.TrimSpace(s.ConfigFile) == "" {
		return apperrors.NewValidationError("config_file", "must not be empty")
	}
	if s.LogFormat != "text" && s.LogFormat != "json" {
		return apperrors.NewValidationError("log_format", fmt.Sprintf("must be 'text' or 'json', got '%s'", s.LogFormat))
	}
	if s.RateLimit <= 0 {
		return apperrors.NewValidationError("rate_limit", "must be greater than zero")
	}
	if s.RateBurst < 1 {
		return apperrors.NewValidationError("rate_burst", "must be at least 1")
	}
	return nil
}
