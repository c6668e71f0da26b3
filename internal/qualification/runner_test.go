package qualification

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pksnap/internal/ctxlog"
	"pksnap/internal/domain"
	"pksnap/internal/metrics"
	"pksnap/internal/service"
	"pksnap/internal/snapshot"
)

type fakeFS struct {
	files   map[string]bool
	dirs    map[string]bool
	removed []string
	created []string
}

func (f *fakeFS) FileExists(_ context.Context, path string) (bool, error) { return f.files[path], nil }
func (f *fakeFS) DirectoryExists(_ context.Context, path string) (bool, error) {
	return f.dirs[path], nil
}
func (f *fakeFS) RemoveAll(_ context.Context, path string) error {
	f.removed = append(f.removed, path)
	delete(f.dirs, path)
	return nil
}
func (f *fakeFS) MkdirAll(_ context.Context, path string) error {
	f.created = append(f.created, path)
	f.dirs[path] = true
	return nil
}

type fakeTask struct {
	snapshots map[string]*snapshot.Project
	loaded    *snapshot.Project
	project   *domain.Project
}

func (f *fakeTask) LoadSnapshotFromFile(_ context.Context, path string) (*snapshot.Project, error) {
	s, ok := f.snapshots[path]
	if !ok {
		return nil, errors.New("no such snapshot")
	}
	return s, nil
}

func (f *fakeTask) LoadProjectFromSnapshot(_ context.Context, s *snapshot.Project) (*domain.Project, error) {
	f.loaded = s
	f.project = domain.NewProject(s.Name)
	return f.project, nil
}

type fakeExporter struct {
	calls   int
	project *domain.Project
	opts    service.ExportRunOptions
}

func (f *fakeExporter) Export(_ context.Context, p *domain.Project, opts service.ExportRunOptions) error {
	f.calls++
	f.project = p
	f.opts = opts
	return nil
}

// recorder keeps every log record
type recorder struct {
	mu      sync.Mutex
	records []slog.Record
}

func (r *recorder) Enabled(context.Context, slog.Level) bool { return true }
func (r *recorder) Handle(_ context.Context, rec slog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}
func (r *recorder) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recorder) WithGroup(string) slog.Handler      { return r }

func (r *recorder) errorMessages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, rec := range r.records {
		if rec.Level == slog.LevelError {
			out = append(out, rec.Message)
		}
	}
	return out
}

const projectName = "toto"

type fixture struct {
	fs       *fakeFS
	task     *fakeTask
	exporter *fakeExporter
	log      *recorder
	base     *snapshot.Project
	original *snapshot.Individual
	runner   *Runner
}

func newFixture() *fixture {
	original := &snapshot.Individual{Name: "Ind", Description: "original"}
	base := &snapshot.Project{Individuals: []*snapshot.Individual{original}}
	fx := &fixture{
		fs:       &fakeFS{files: map[string]bool{projectName + ".json": true}, dirs: map[string]bool{}},
		task:     &fakeTask{snapshots: map[string]*snapshot.Project{projectName + ".json": base}},
		exporter: &fakeExporter{},
		log:      &recorder{},
		base:     base,
		original: original,
	}
	fx.runner = NewRunner(fx.fs, fx.task, fx.exporter, nil)
	return fx
}

func (fx *fixture) run(t *testing.T, configuration string) error {
	t.Helper()
	ctx := ctxlog.WithLogger(context.Background(), slog.New(fx.log))
	return fx.runner.RunBatch(ctx, RunOptions{Configuration: configuration})
}

func requireCode(t *testing.T, err error, code ErrorCode) *RunError {
	t.Helper()
	var runErr *RunError
	require.ErrorAs(t, err, &runErr)
	assert.Equal(t, code, runErr.Code)
	return runErr
}

func TestRunBatchInvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{"not json", "XXX"},
		{"unknown field", `{"SnapshotPath":"toto.json","OutputFolder":"out","Bogus":1}`},
		{"missing snapshot path", `{"OutputFolder":"out"}`},
		{"unknown building block type", `{"SnapshotPath":"toto.json","OutputFolder":"out","BuildingBlocks":[{"Name":"Ind","Type":"Formulation","SnapshotPath":"ref.json"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			err := fx.run(t, tt.config)
			requireCode(t, err, CodeInvalidConfiguration)
			assert.Contains(t, fx.log.errorMessages(), invalidConfigurationMessage)
			assert.Zero(t, fx.exporter.calls)
		})
	}
}

func TestRunBatchOutputFolderNotDefined(t *testing.T) {
	fx := newFixture()
	err := fx.run(t, `{"SnapshotPath":"toto.json","OutputFolder":""}`)
	requireCode(t, err, CodeOutputFolderNotDefined)
	assert.Contains(t, fx.log.errorMessages(), outputFolderNotDefinedMessage)
	assert.Zero(t, fx.exporter.calls)
}

func TestRunBatchPublishesFailure(t *testing.T) {
	fx := newFixture()
	bus := service.NewEventBus()
	events := make(chan service.Event, 1)
	bus.Subscribe(events)
	fx.runner.WithEventBus(bus)

	require.Error(t, fx.run(t, `{"SnapshotPath":"toto.json","OutputFolder":""}`))
	select {
	case ev := <-events:
		assert.Equal(t, service.EventQualificationFailed, ev.Type)
		assert.Equal(t, string(CodeOutputFolderNotDefined), ev.Name)
		assert.Equal(t, outputFolderNotDefinedMessage, ev.Payload)
	default:
		t.Fatal("no failure event published")
	}

	require.NoError(t, fx.run(t, `{"SnapshotPath":"toto.json","OutputFolder":"out"}`))
	assert.Empty(t, events, "successful runs publish nothing")
}

func TestRunBatchSnapshotFileDoesNotExist(t *testing.T) {
	fx := newFixture()
	fx.fs.files = map[string]bool{}
	err := fx.run(t, `{"SnapshotPath":"toto.json","OutputFolder":"AnOutputFolder"}`)
	requireCode(t, err, CodeCannotLoadSnapshot)
	assert.Contains(t, fx.log.errorMessages(), CannotLoadSnapshotFromFile("toto.json"))
	assert.Zero(t, fx.exporter.calls)
}

func TestRunBatchValidSnapshot(t *testing.T) {
	fx := newFixture()
	expected := filepath.Join("AnOutputFolder", projectName)
	fx.fs.dirs[expected] = true

	reg := prometheus.NewRegistry()
	fx.runner.metrics = metrics.New(reg)

	err := fx.run(t, `{"SnapshotPath":"toto.json","OutputFolder":"AnOutputFolder"}`)
	require.NoError(t, err)

	assert.Equal(t, projectName, fx.base.Name, "snapshot takes the file name")
	assert.Equal(t, []string{expected}, fx.fs.removed)
	assert.Equal(t, []string{expected}, fx.fs.created)
	assert.Equal(t, 1, fx.exporter.calls)
	assert.Same(t, fx.task.project, fx.exporter.project)
	assert.Equal(t, expected, fx.exporter.opts.OutputFolder)
	assert.Equal(t, service.ExportModeAll, fx.exporter.opts.ExportMode)
	assert.Empty(t, fx.log.errorMessages())
	assert.Equal(t, 1.0, testutil.ToFloat64(fx.runner.metrics.QualificationRuns.WithLabelValues("success")))
}

func TestRunBatchMissingOutputFolderIsCreated(t *testing.T) {
	fx := newFixture()
	require.NoError(t, fx.run(t, `{"SnapshotPath":"toto.json","OutputFolder":"AnOutputFolder"}`))
	assert.Empty(t, fx.fs.removed)
	assert.Equal(t, []string{filepath.Join("AnOutputFolder", projectName)}, fx.fs.created)
}

func TestRunBatchSwaps(t *testing.T) {
	const config = `{"SnapshotPath":"toto.json","OutputFolder":"out","BuildingBlocks":[{"Name":"Ind","Type":"Individual","SnapshotPath":"ref.json"}]}`

	t.Run("reference snapshot cannot be loaded", func(t *testing.T) {
		fx := newFixture()
		err := fx.run(t, config)
		requireCode(t, err, CodeCannotLoadSnapshot)
		assert.Contains(t, fx.log.errorMessages(), CannotLoadSnapshotFromFile("ref.json"))
		assert.Zero(t, fx.exporter.calls)
	})

	t.Run("building block missing in reference", func(t *testing.T) {
		fx := newFixture()
		fx.task.snapshots["ref.json"] = &snapshot.Project{}
		err := fx.run(t, config)
		requireCode(t, err, CodeBuildingBlockNotFound)
		assert.Contains(t, fx.log.errorMessages(), CannotFindBuildingBlockInSnapshot("Individual", "Ind", "ref.json"))
		assert.Zero(t, fx.exporter.calls)
	})

	t.Run("building block missing in project", func(t *testing.T) {
		fx := newFixture()
		fx.base.Individuals = nil
		fx.task.snapshots["ref.json"] = &snapshot.Project{Individuals: []*snapshot.Individual{{Name: "Ind"}}}
		err := fx.run(t, config)
		requireCode(t, err, CodeBuildingBlockNotFound)
		assert.Contains(t, fx.log.errorMessages(), CannotFindBuildingBlockInSnapshot("Individual", "Ind", projectName))
		assert.Zero(t, fx.exporter.calls)
	})

	t.Run("building block swapped", func(t *testing.T) {
		fx := newFixture()
		replacement := &snapshot.Individual{Name: "Ind", Description: "reference"}
		fx.task.snapshots["ref.json"] = &snapshot.Project{Individuals: []*snapshot.Individual{replacement}}
		require.NoError(t, fx.run(t, config))

		assert.NotContains(t, fx.task.loaded.Individuals, fx.original)
		assert.Contains(t, fx.task.loaded.Individuals, replacement)
		assert.Len(t, fx.task.loaded.Individuals, 1)
		assert.Equal(t, 1, fx.exporter.calls)
	})
}
