package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

type exportOptions struct {
	output string
}

func newExportCmd(app *AppContext) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export <collection-id>",
		Short: "Write the rendered icons of a collection to a ZIP archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.services(cmd, "export collection"); err != nil {
				return err
			}
			ctx, logger := app.CommandContext(cmd, "command.export")

			var archive bytes.Buffer
			name, err := app.Repository.Download(ctx, args[0], &archive)
			if err != nil {
				logger.Error(ctx, "export failed", "collection_id", args[0], "error", err)
				return newCommandError("export collection", fmt.Sprintf("building the archive for %q", args[0]), err, collectionSuggestion(err))
			}

			path := opts.output
			if path == "" {
				path = filepath.Base(name)
			}
			if err := os.WriteFile(path, archive.Bytes(), 0o644); err != nil {
				logger.Error(ctx, "writing archive failed", "path", path, "error", err)
				return newCommandError("export collection", fmt.Sprintf("writing %s", path), err, "Check that the output directory exists and is writable.")
			}

			logger.Info(ctx, "wrote archive", "collection_id", args[0], "path", path, "bytes", archive.Len())
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", path, archive.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Archive path (defaults to <collection name>.zip)")

	return cmd
}
