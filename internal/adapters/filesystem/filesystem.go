package filesystem

import (
	"os"

	"github.com/spf13/afero"
)

// Adapter provides file system operations on top of an afero filesystem.
type Adapter struct {
	fs afero.Fs
}

// New creates a filesystem adapter backed by the host operating system.
func New() *Adapter {
	return &Adapter{fs: afero.NewOsFs()}
}

// NewMemory creates a filesystem adapter that keeps everything in memory.
func NewMemory() *Adapter {
	return &Adapter{fs: afero.NewMemMapFs()}
}

// ReadFile reads a file from disk.
func (a *Adapter) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(a.fs, path)
}

// WriteFile writes data to a file, creating it if needed and truncating it otherwise.
func (a *Adapter) WriteFile(path string, data []byte, perm os.FileMode) error {
	return afero.WriteFile(a.fs, path, data, perm)
}

// MkdirAll creates a directory and all necessary parents.
func (a *Adapter) MkdirAll(path string, perm os.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}

// Stat returns file info.
func (a *Adapter) Stat(path string) (os.FileInfo, error) {
	return a.fs.Stat(path)
}

// DirExists reports whether path exists and is a directory.
func (a *Adapter) DirExists(path string) (bool, error) {
	return afero.DirExists(a.fs, path)
}

// UserHomeDir returns the user's home directory.
func (a *Adapter) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}
