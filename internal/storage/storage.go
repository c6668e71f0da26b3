// Package storage reads and writes snapshot, configuration and export files
// on the local filesystem or in S3. Names are plain paths or s3://bucket/key
// URIs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// ErrNotExist is returned when a named file does not exist
var ErrNotExist = errors.New("file does not exist")

// Store is the file surface used by the snapshot task, the exporter and the
// qualification runner
type Store interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Create(ctx context.Context, name string) (io.WriteCloser, error)
	FileExists(ctx context.Context, name string) (bool, error)
	DirectoryExists(ctx context.Context, name string) (bool, error)
	RemoveAll(ctx context.Context, name string) error
	MkdirAll(ctx context.Context, name string) error
}

// IsS3 reports whether name is an s3:// URI
func IsS3(name string) bool {
	return strings.HasPrefix(name, "s3://")
}

// Join joins name elements with a slash for URIs and the OS separator otherwise
func Join(base string, elem ...string) string {
	if IsS3(base) {
		parts := append([]string{strings.TrimSuffix(base, "/")}, elem...)
		return strings.Join(parts, "/")
	}
	return joinPath(base, elem...)
}

// parseURI splits s3://bucket/key into bucket and key
func parseURI(name string) (bucket, key string, err error) {
	u, err := url.Parse(name)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 uri %q: %w", name, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("invalid s3 uri %q", name)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// Mux dispatches s3:// names to S3 and everything else to FS. S3 may be nil,
// in which case s3:// names fail.
type Mux struct {
	FS *FS
	S3 *S3
}

func (m *Mux) pick(name string) (Store, error) {
	if IsS3(name) {
		if m.S3 == nil {
			return nil, fmt.Errorf("s3 storage not configured for %s", name)
		}
		return m.S3, nil
	}
	return m.FS, nil
}

func (m *Mux) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	s, err := m.pick(name)
	if err != nil {
		return nil, err
	}
	return s.Open(ctx, name)
}

func (m *Mux) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	s, err := m.pick(name)
	if err != nil {
		return nil, err
	}
	return s.Create(ctx, name)
}

func (m *Mux) FileExists(ctx context.Context, name string) (bool, error) {
	s, err := m.pick(name)
	if err != nil {
		return false, err
	}
	return s.FileExists(ctx, name)
}

func (m *Mux) DirectoryExists(ctx context.Context, name string) (bool, error) {
	s, err := m.pick(name)
	if err != nil {
		return false, err
	}
	return s.DirectoryExists(ctx, name)
}

func (m *Mux) RemoveAll(ctx context.Context, name string) error {
	s, err := m.pick(name)
	if err != nil {
		return err
	}
	return s.RemoveAll(ctx, name)
}

func (m *Mux) MkdirAll(ctx context.Context, name string) error {
	s, err := m.pick(name)
	if err != nil {
		return err
	}
	return s.MkdirAll(ctx, name)
}
