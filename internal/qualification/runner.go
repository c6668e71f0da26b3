// Package qualification runs batch qualification: load a project snapshot,
// swap building blocks in from reference snapshots, rebuild the project and
// export its simulations into a clean output folder.
package qualification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pksnap/internal/ctxlog"
	"pksnap/internal/domain"
	"pksnap/internal/metrics"
	"pksnap/internal/service"
	"pksnap/internal/snapshot"
	"pksnap/internal/storage"
)

// FileSystem is the file surface of a run
type FileSystem interface {
	FileExists(ctx context.Context, path string) (bool, error)
	DirectoryExists(ctx context.Context, path string) (bool, error)
	RemoveAll(ctx context.Context, path string) error
	MkdirAll(ctx context.Context, path string) error
}

// SnapshotTask loads snapshots and the projects they describe
type SnapshotTask interface {
	LoadSnapshotFromFile(ctx context.Context, path string) (*snapshot.Project, error)
	LoadProjectFromSnapshot(ctx context.Context, s *snapshot.Project) (*domain.Project, error)
}

// Exporter writes the simulations of a project
type Exporter interface {
	Export(ctx context.Context, p *domain.Project, opts service.ExportRunOptions) error
}

// RunOptions holds the JSON configuration of a run
type RunOptions struct {
	Configuration string
}

// Runner executes qualification runs
type Runner struct {
	fs        FileSystem
	snapshots SnapshotTask
	exporter  Exporter
	metrics   *metrics.Metrics
	eventBus  *service.EventBus
}

// NewRunner creates a runner. m may be nil.
func NewRunner(fs FileSystem, snapshots SnapshotTask, exporter Exporter, m *metrics.Metrics) *Runner {
	return &Runner{fs: fs, snapshots: snapshots, exporter: exporter, metrics: m}
}

// WithEventBus publishes an EventQualificationFailed for every failed run
func (r *Runner) WithEventBus(eb *service.EventBus) *Runner {
	r.eventBus = eb
	return r
}

// RunBatch executes one run. Every failure is logged at error level and
// returned as a *RunError; nothing is exported after a failure.
func (r *Runner) RunBatch(ctx context.Context, opts RunOptions) error {
	start := time.Now()
	err := r.run(ctx, opts)

	outcome := "success"
	if err != nil {
		var runErr *RunError
		if !errors.As(err, &runErr) {
			runErr = newRunError(CodeExportFailed, "Qualification run failed", err)
			err = runErr
		}
		outcome = string(runErr.Code)
		ctxlog.FromContext(ctx).Error(runErr.Message, "code", runErr.Code, "error", runErr.Err)
		r.eventBus.Publish(service.Event{Type: service.EventQualificationFailed, Name: string(runErr.Code), Payload: runErr.Message})
	}
	r.metrics.ObserveRun(outcome, time.Since(start))
	return err
}

func (r *Runner) run(ctx context.Context, opts RunOptions) error {
	log := ctxlog.FromContext(ctx)

	cfg, err := ParseConfiguration([]byte(opts.Configuration))
	if err != nil {
		return err
	}

	project, err := r.loadSnapshot(ctx, cfg.SnapshotPath)
	if err != nil {
		return err
	}
	project.Name = service.ProjectNameFromPath(cfg.SnapshotPath)

	for _, swap := range cfg.BuildingBlocks {
		if err := r.swap(ctx, project, swap); err != nil {
			return err
		}
		log.Info("building block swapped", "type", swap.Type, "name", swap.Name, "source", swap.SnapshotPath)
	}

	p, err := r.snapshots.LoadProjectFromSnapshot(ctx, project)
	if err != nil {
		return newRunError(CodeCannotLoadProject, fmt.Sprintf("Cannot load project '%s' from snapshot", project.Name), err)
	}

	output := storage.Join(cfg.OutputFolder, project.Name)
	if err := r.prepareOutputFolder(ctx, output); err != nil {
		return newRunError(CodeOutputFolderFailure, fmt.Sprintf("Cannot prepare output folder '%s'", output), err)
	}

	if err := r.exporter.Export(ctx, p, service.ExportRunOptions{OutputFolder: output, ExportMode: service.ExportModeAll}); err != nil {
		return newRunError(CodeExportFailed, fmt.Sprintf("Cannot export simulations of project '%s'", project.Name), err)
	}
	log.Info("qualification run finished", "project", project.Name, "output", output)
	return nil
}

func (r *Runner) loadSnapshot(ctx context.Context, path string) (*snapshot.Project, error) {
	exists, err := r.fs.FileExists(ctx, path)
	if err != nil || !exists {
		return nil, newRunError(CodeCannotLoadSnapshot, CannotLoadSnapshotFromFile(path), err)
	}
	s, err := r.snapshots.LoadSnapshotFromFile(ctx, path)
	if err != nil || s == nil {
		return nil, newRunError(CodeCannotLoadSnapshot, CannotLoadSnapshotFromFile(path), err)
	}
	return s, nil
}

func (r *Runner) swap(ctx context.Context, project *snapshot.Project, swap BuildingBlockSwap) error {
	reference, err := r.snapshots.LoadSnapshotFromFile(ctx, swap.SnapshotPath)
	if err != nil || reference == nil {
		return newRunError(CodeCannotLoadSnapshot, CannotLoadSnapshotFromFile(swap.SnapshotPath), err)
	}

	err = project.Swap(swap.Kind(), swap.Name, reference)
	var notFound *snapshot.BuildingBlockNotFoundError
	if errors.As(err, &notFound) {
		source := project.Name
		if notFound.InReference {
			source = swap.SnapshotPath
		}
		return newRunError(CodeBuildingBlockNotFound, CannotFindBuildingBlockInSnapshot(swap.Type, swap.Name, source), nil)
	}
	if err != nil {
		return newRunError(CodeInvalidConfiguration, invalidConfigurationMessage, err)
	}
	return nil
}

// prepareOutputFolder deletes an existing folder and creates it empty
func (r *Runner) prepareOutputFolder(ctx context.Context, path string) error {
	exists, err := r.fs.DirectoryExists(ctx, path)
	if err != nil {
		return err
	}
	if exists {
		if err := r.fs.RemoveAll(ctx, path); err != nil {
			return err
		}
	}
	return r.fs.MkdirAll(ctx, path)
}
