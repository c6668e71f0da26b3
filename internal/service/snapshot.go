package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"pksnap/internal/codec"
	"pksnap/internal/ctxlog"
	"pksnap/internal/domain"
	"pksnap/internal/loader"
	"pksnap/internal/mapper"
	"pksnap/internal/snapshot"
	"pksnap/internal/storage"
)

// SnapshotTask loads and writes snapshot files and converts legacy project
// files into snapshots
type SnapshotTask struct {
	store    storage.Store
	mapper   *mapper.ProjectMapper
	loader   *loader.Loader
	eventBus *EventBus
}

// NewSnapshotTask creates a snapshot task. eventBus may be nil.
func NewSnapshotTask(store storage.Store, m *mapper.ProjectMapper, l *loader.Loader, eventBus *EventBus) *SnapshotTask {
	return &SnapshotTask{store: store, mapper: m, loader: l, eventBus: eventBus}
}

// LoadSnapshotFromFile parses a JSON or YAML snapshot file. Older snapshot
// versions are upgraded while parsing.
func (t *SnapshotTask) LoadSnapshotFromFile(ctx context.Context, path string) (*snapshot.Project, error) {
	c, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}
	r, err := t.store.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer r.Close()

	project, err := c.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	if project.Name == "" {
		project.Name = ProjectNameFromPath(path)
	}

	ctxlog.FromContext(ctx).Debug("snapshot loaded", "path", path, "project", project.Name)
	t.eventBus.Publish(Event{Type: EventSnapshotLoaded, Path: path, Name: project.Name})
	return project, nil
}

// LoadProjectFromSnapshot builds the domain project described by a snapshot
func (t *SnapshotTask) LoadProjectFromSnapshot(ctx context.Context, s *snapshot.Project) (*domain.Project, error) {
	p, err := t.mapper.MapToModel(ctx, s)
	if err != nil {
		return nil, err
	}
	t.eventBus.Publish(Event{Type: EventProjectLoaded, Name: p.Name})
	return p, nil
}

// WriteSnapshot writes a snapshot in the format matching the path extension
func (t *SnapshotTask) WriteSnapshot(ctx context.Context, s *snapshot.Project, path string) error {
	c, err := codec.ForPath(path)
	if err != nil {
		return err
	}
	w, err := t.store.Create(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := c.Export(s, w); err != nil {
		w.Close()
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return err
	}
	t.eventBus.Publish(Event{Type: EventSnapshotWritten, Path: path, Name: s.Name})
	return nil
}

// ExportProjectToSnapshot maps a domain project and writes it to path
func (t *SnapshotTask) ExportProjectToSnapshot(ctx context.Context, p *domain.Project, path string) error {
	s, err := t.mapper.MapToSnapshot(ctx, p)
	if err != nil {
		return err
	}
	return t.WriteSnapshot(ctx, s, path)
}

// LoadLegacyProject reads a legacy XML project file and upgrades it to the
// current version
func (t *SnapshotTask) LoadLegacyProject(ctx context.Context, path string) (*domain.Project, error) {
	r, err := t.store.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}
	defer r.Close()

	p, version, err := t.loader.Load(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", path, err)
	}
	t.eventBus.Publish(Event{Type: EventProjectConverted, Path: path, Name: p.Name, Payload: version})
	return p, nil
}

// ConvertLegacyProject upgrades a legacy project file and writes it to dst.
// A .xml destination is written as a current-version project file, anything
// else as a snapshot.
func (t *SnapshotTask) ConvertLegacyProject(ctx context.Context, src, dst string) error {
	p, err := t.LoadLegacyProject(ctx, src)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(dst), ".xml") {
		w, err := t.store.Create(ctx, dst)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", dst, err)
		}
		if err := loader.Write(w, p); err != nil {
			w.Close()
			return fmt.Errorf("failed to write project %s: %w", dst, err)
		}
		return w.Close()
	}
	return t.ExportProjectToSnapshot(ctx, p, dst)
}

// ProjectNameFromPath returns the file name without directory and extension
func ProjectNameFromPath(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
