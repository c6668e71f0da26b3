package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pksnap/internal/codec"
	"pksnap/internal/converter"
	"pksnap/internal/domain"
	"pksnap/internal/factory"
	"pksnap/internal/loader"
	"pksnap/internal/lookup/sqlite"
	"pksnap/internal/mapper"
	"pksnap/internal/snapshot"
	"pksnap/internal/storage"
)

func newTestTask(t *testing.T, bus *EventBus) *SnapshotTask {
	t.Helper()
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	f := factory.New(repo)
	return NewSnapshotTask(storage.NewFS(), mapper.NewProjectMapper(f, nil), loader.New(converter.Default(f, nil)), bus)
}

func TestLoadSnapshotFromFile(t *testing.T) {
	ctx := context.Background()
	events := make(chan Event, 4)
	bus := NewEventBus()
	bus.Subscribe(events)
	task := newTestTask(t, bus)

	s, err := task.LoadSnapshotFromFile(ctx, filepath.Join("testdata", "Qualification.json"))
	require.NoError(t, err)
	assert.Equal(t, "Qualification", s.Name, "name defaults to the file name")
	assert.Equal(t, snapshot.CurrentVersion, s.Version)
	assert.Equal(t, EventSnapshotLoaded, (<-events).Type)

	p, err := task.LoadProjectFromSnapshot(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, EventProjectLoaded, (<-events).Type)

	ind, ok := domain.ByName[*domain.Individual](p, "Adult")
	require.True(t, ok)
	assert.InDelta(t, 80, ind.Organism().Parameter(domain.ParamWeight).Value(), 1e-9)

	sim, ok := domain.ByName[*domain.Simulation](p, "S1")
	require.True(t, ok)
	require.Len(t, sim.EventProperties.EventMappings, 1)
	assert.InDelta(t, 120, sim.EventProperties.EventMappings[0].StartTime.Value(), 1e-9)
}

func TestLoadSnapshotFromFileErrors(t *testing.T) {
	ctx := context.Background()
	task := newTestTask(t, nil)
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		body string
	}{
		{"missing file", filepath.Join(dir, "missing.json"), ""},
		{"unknown extension", filepath.Join(dir, "project.txt"), "{}"},
		{"invalid json", filepath.Join(dir, "broken.json"), "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.body != "" {
				require.NoError(t, os.WriteFile(tt.path, []byte(tt.body), 0o644))
			}
			_, err := task.LoadSnapshotFromFile(ctx, tt.path)
			assert.Error(t, err)
		})
	}
}

func TestSimulationExporter(t *testing.T) {
	ctx := context.Background()
	task := newTestTask(t, nil)
	s, err := task.LoadSnapshotFromFile(ctx, filepath.Join("testdata", "Qualification.json"))
	require.NoError(t, err)
	p, err := task.LoadProjectFromSnapshot(ctx, s)
	require.NoError(t, err)

	tests := []struct {
		name  string
		mode  ExportMode
		files []string
	}{
		{"all", ExportModeAll, []string{"S1.json", "S1.yaml"}},
		{"json", ExportModeJSON, []string{"S1.json"}},
		{"yaml", ExportModeYAML, []string{"S1.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := t.TempDir()
			err := NewSimulationExporter(task).Export(ctx, p, ExportRunOptions{OutputFolder: out, ExportMode: tt.mode})
			require.NoError(t, err)

			entries, err := os.ReadDir(out)
			require.NoError(t, err)
			var names []string
			for _, e := range entries {
				names = append(names, e.Name())
			}
			assert.ElementsMatch(t, tt.files, names)
		})
	}

	t.Run("exported simulation reloads on its own", func(t *testing.T) {
		out := t.TempDir()
		require.NoError(t, NewSimulationExporter(task).Export(ctx, p, ExportRunOptions{OutputFolder: out, ExportMode: ExportModeYAML}))

		single, err := task.LoadSnapshotFromFile(ctx, filepath.Join(out, "S1.yaml"))
		require.NoError(t, err)
		assert.Len(t, single.Individuals, 1)
		assert.Len(t, single.Compounds, 1)
		assert.Len(t, single.Events, 1)
		assert.Len(t, single.Simulations, 1)

		_, err = task.LoadProjectFromSnapshot(ctx, single)
		assert.NoError(t, err)
	})

	t.Run("output folder required", func(t *testing.T) {
		err := NewSimulationExporter(task).Export(ctx, p, ExportRunOptions{})
		assert.Error(t, err)
	})
}

func TestConvertLegacyProject(t *testing.T) {
	ctx := context.Background()
	task := newTestTask(t, nil)
	src := filepath.Join("..", "loader", "testdata", "project_510.xml")

	t.Run("to snapshot", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "converted.json")
		require.NoError(t, task.ConvertLegacyProject(ctx, src, dst))

		f, err := os.Open(dst)
		require.NoError(t, err)
		defer f.Close()
		s, err := codec.NewJSONCodec().Parse(f)
		require.NoError(t, err)
		assert.NotEmpty(t, s.Individuals)
		assert.NotEmpty(t, s.Simulations)
	})

	t.Run("to current project file", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "converted.xml")
		require.NoError(t, task.ConvertLegacyProject(ctx, src, dst))

		p, err := task.LoadLegacyProject(ctx, dst)
		require.NoError(t, err)
		assert.NotEmpty(t, domain.All[*domain.Simulation](p))
	})
}

func TestProjectNameFromPath(t *testing.T) {
	tests := map[string]string{
		"Qualification.json":              "Qualification",
		"/data/snapshots/Midazolam.yaml":  "Midazolam",
		"s3://bucket/snapshots/Base.json": "Base",
		`C:\snapshots\Win.json`:           "Win",
	}
	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, want, ProjectNameFromPath(path))
		})
	}
}

func TestEventBusDropsForSlowSubscribers(t *testing.T) {
	bus := NewEventBus()
	ch := make(chan Event, 1)
	bus.Subscribe(ch)
	bus.Publish(Event{Type: EventSnapshotLoaded})
	bus.Publish(Event{Type: EventSnapshotWritten})
	assert.Len(t, ch, 1)
	assert.Equal(t, EventSnapshotLoaded, (<-ch).Type)

	var nilBus *EventBus
	assert.NotPanics(t, func() { nilBus.Publish(Event{Type: EventProjectLoaded}) })
}
