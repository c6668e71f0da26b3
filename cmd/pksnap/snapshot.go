package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pksnap/internal/service"
)

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	var exportDir string

	cmd := &cobra.Command{
		Use:   "snapshot <input> [output]",
		Short: "Load a snapshot into a project and write it back",
		Long: `Parses a JSON or YAML snapshot of any snapshot version, rebuilds the
project it describes and writes the project as a current-version snapshot.
Without an output the project is only validated.

Examples:
  pksnap snapshot project.json                  # validate
  pksnap snapshot project.json project.yaml     # upgrade and convert to YAML
  pksnap snapshot project.json --export out/    # one snapshot per simulation`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			task := opts.app.task

			s, err := task.LoadSnapshotFromFile(ctx, args[0])
			if err != nil {
				return err
			}
			p, err := task.LoadProjectFromSnapshot(ctx, s)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "project %s: %d building blocks\n", p.Name, len(p.BuildingBlocks()))

			if len(args) == 2 {
				if err := task.ExportProjectToSnapshot(ctx, p, args[1]); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", args[1])
			}
			if exportDir != "" {
				if err := opts.app.exporter.Export(ctx, p, service.ExportRunOptions{OutputFolder: exportDir, ExportMode: service.ExportModeAll}); err != nil {
					return err
				}
				fmt.Fprintf(out, "exported simulations to %s\n", exportDir)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&exportDir, "export", "", "export every simulation into this folder")
	return cmd
}
