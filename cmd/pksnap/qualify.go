package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pksnap/internal/ctxlog"
	"pksnap/internal/qualification"
	"pksnap/internal/storage"
	"pksnap/internal/watcher"
)

func newQualifyCmd(opts *rootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "qualify <configuration.json>",
		Short: "Run a batch qualification",
		Long: `Loads the snapshot named in the configuration, swaps in the listed
building blocks from reference snapshots, and exports every simulation into
<OutputFolder>/<project name>. The output folder is recreated on each run.

Configuration:
  {
    "SnapshotPath": "project.json",
    "OutputFolder": "out",
    "BuildingBlocks": [
      {"Name": "Adult", "Type": "Individual", "SnapshotPath": "reference.json"}
    ]
  }

With --watch the run repeats whenever the configuration or a snapshot it
names changes locally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a := opts.app
			path := args[0]

			err := runQualification(ctx, a, path)
			if !watch {
				return err
			}

			paths := []string{path}
			if cfg, err := readQualificationConfig(ctx, a.store, path); err == nil {
				paths = append(paths, watchedSnapshots(cfg)...)
			}
			w := watcher.New(paths, func(ctx context.Context, changed string) {
				if err := runQualification(ctx, a, path); err != nil {
					ctxlog.FromContext(ctx).Warn("qualification run failed", "trigger", changed, "error", err)
				}
			}).WithDebounce(a.cfg.Qualification.WatchDebounce.Duration())

			if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "rerun when the configuration or its snapshots change")
	return cmd
}

func runQualification(ctx context.Context, a *app, path string) error {
	data, err := readFile(ctx, a.store, path)
	if err != nil {
		return err
	}
	return a.runner.RunBatch(ctx, qualification.RunOptions{Configuration: string(data)})
}

func readQualificationConfig(ctx context.Context, store storage.Store, path string) (*qualification.Configuration, error) {
	data, err := readFile(ctx, store, path)
	if err != nil {
		return nil, err
	}
	return qualification.ParseConfiguration(data)
}

// watchedSnapshots lists the local snapshot files named by a configuration
func watchedSnapshots(cfg *qualification.Configuration) []string {
	var paths []string
	add := func(p string) {
		if !storage.IsS3(p) {
			paths = append(paths, p)
		}
	}
	add(cfg.SnapshotPath)
	for _, swap := range cfg.BuildingBlocks {
		add(swap.SnapshotPath)
	}
	return paths
}

func readFile(ctx context.Context, store storage.Store, path string) ([]byte, error) {
	r, err := store.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}
