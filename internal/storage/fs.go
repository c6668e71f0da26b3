package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FS stores files on the local filesystem
type FS struct{}

// NewFS returns a filesystem store
func NewFS() *FS {
	return &FS{}
}

func (s *FS) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotExist)
	}
	return f, err
}

// Create creates name and any missing parent directories
func (s *FS) Create(_ context.Context, name string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	return os.Create(name)
}

func (s *FS) FileExists(_ context.Context, name string) (bool, error) {
	info, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (s *FS) DirectoryExists(_ context.Context, name string) (bool, error) {
	info, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// RemoveAll removes name and its children. A missing name is not an error.
func (s *FS) RemoveAll(_ context.Context, name string) error {
	return os.RemoveAll(name)
}

func (s *FS) MkdirAll(_ context.Context, name string) error {
	return os.MkdirAll(name, 0o755)
}

func joinPath(base string, elem ...string) string {
	return filepath.Join(append([]string{base}, elem...)...)
}
