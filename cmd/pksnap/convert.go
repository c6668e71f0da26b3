package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConvertCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <project.xml> <output>",
		Short: "Upgrade a legacy project file to the current version",
		Long: `Reads a project file written by any supported version, runs the
converter chain and writes the result. An .xml output is written as a
current-version project file, .json and .yaml outputs as snapshots.

Examples:
  pksnap convert old.xml upgraded.xml
  pksnap convert old.xml snapshot.json
  pksnap convert old.xml s3://bucket/snapshots/project.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.app.task.ConvertLegacyProject(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "converted %s -> %s\n", args[0], args[1])
			return nil
		},
	}
}
