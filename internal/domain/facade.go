package domain

import "context"

// FileFacade is the set of file operations exposed to the embedded front-end.
type FileFacade interface {
	// ReadFileToString reads the whole file at path and returns it as text.
	ReadFileToString(ctx context.Context, path string) (string, error)

	// WriteStringToFile creates or truncates the file at path and writes contents to it.
	WriteStringToFile(ctx context.Context, path, contents string) error

	// ReadFixedConfig reads the TouchFree configuration file from its configured location.
	ReadFixedConfig(ctx context.Context) (string, error)
}

// ConfigLocator resolves where the TouchFree configuration file lives.
type ConfigLocator interface {
	ConfigDirectory() string
	ConfigPath() string
}
