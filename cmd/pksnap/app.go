package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"pksnap/internal/config"
	"pksnap/internal/converter"
	"pksnap/internal/factory"
	"pksnap/internal/loader"
	"pksnap/internal/lookup/sqlite"
	"pksnap/internal/mapper"
	"pksnap/internal/metrics"
	"pksnap/internal/qualification"
	"pksnap/internal/service"
	"pksnap/internal/storage"
)

// app holds the wired components shared by the commands
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	repo     *sqlite.Repository
	registry *prometheus.Registry
	store    storage.Store
	eventBus *service.EventBus
	task     *service.SnapshotTask
	exporter *service.SimulationExporter
	runner   *qualification.Runner
}

func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup database: %w", err)
	}

	store := &storage.Mux{FS: storage.NewFS()}
	if s3cfg := cfg.Storage.S3; s3cfg != nil {
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			PathStyle:       s3cfg.PathStyle,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
		})
		if err != nil {
			repo.Close()
			return nil, err
		}
		store.S3 = s3
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	f := factory.New(repo)
	eventBus := service.NewEventBus()
	task := service.NewSnapshotTask(store, mapper.NewProjectMapper(f, m), loader.New(converter.Default(f, m)), eventBus)
	exporter := service.NewSimulationExporter(task)

	return &app{
		cfg:      cfg,
		log:      log,
		repo:     repo,
		registry: registry,
		store:    store,
		eventBus: eventBus,
		task:     task,
		exporter: exporter,
		runner:   qualification.NewRunner(store, task, exporter, m).WithEventBus(eventBus),
	}, nil
}

// subscribe logs task events at debug level until ctx is done
func (a *app) subscribe(ctx context.Context) {
	events := make(chan service.Event, 100)
	a.eventBus.Subscribe(events)
	go func() {
		for {
			select {
			case ev := <-events:
				a.log.Debug("event", "type", ev.Type, "name", ev.Name, "path", ev.Path)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close releases the database and writes the metrics textfile if configured
func (a *app) Close() error {
	var err error
	if a.cfg.Metrics.Textfile != "" {
		err = metrics.WriteTextfile(a.cfg.Metrics.Textfile, a.registry)
	}
	if cerr := a.repo.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
