// Package codec reads and writes snapshot projects as JSON or YAML.
// Documents written by older snapshot versions are upgraded while parsing.
package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"pksnap/internal/snapshot"
)

// Importer interface for importing snapshot projects from various formats
type Importer interface {
	Parse(r io.Reader) (*snapshot.Project, error)
	Format() string
}

// Exporter interface for exporting snapshot projects to various formats
type Exporter interface {
	Export(project *snapshot.Project, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format
type Codec interface {
	Importer
	Exporter
}

// ForPath picks the codec matching a file extension
func ForPath(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONCodec(), nil
	case ".yaml", ".yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("no snapshot codec for %q", path)
}
