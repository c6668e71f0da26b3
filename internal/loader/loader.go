// Package loader reads and writes legacy XML project files.
//
// Load parses the markup, lets the converter chain rewrite it up to the
// current version, materializes the domain project and finally runs the
// chain's object steps on it. Write always produces the current version.
package loader

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"pksnap/internal/converter"
	"pksnap/internal/ctxlog"
	"pksnap/internal/domain"
	"pksnap/internal/markup"
)

// Loader loads legacy project files through a converter chain
type Loader struct {
	chain *converter.Chain
}

// New creates a loader
func New(chain *converter.Chain) *Loader {
	return &Loader{chain: chain}
}

// Load reads a project file of any supported version. The returned version
// is the one the file was written with.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*domain.Project, int, error) {
	root, err := markup.Parse(r)
	if err != nil {
		return nil, 0, err
	}
	if root.Name() != "Project" {
		return nil, 0, fmt.Errorf("expected <Project>, found <%s>", root.Name())
	}
	version, err := strconv.Atoi(root.Attr("version"))
	if err != nil {
		return nil, 0, fmt.Errorf("invalid project version %q: %w", root.Attr("version"), err)
	}

	if _, err := l.chain.ConvertMarkup(ctx, root, version); err != nil {
		return nil, version, err
	}
	p, err := readProject(root)
	if err != nil {
		return nil, version, fmt.Errorf("failed to read project: %w", err)
	}
	if _, err := l.chain.Convert(ctx, p, version); err != nil {
		return nil, version, err
	}

	ctxlog.FromContext(ctx).Info("project loaded",
		"project", p.Name,
		"version", version,
		"building_blocks", len(p.BuildingBlocks()))
	return p, version, nil
}

// Write writes a project at the current version
func Write(w io.Writer, p *domain.Project) error {
	root, err := writeProject(p)
	if err != nil {
		return err
	}
	return markup.Write(w, root)
}
