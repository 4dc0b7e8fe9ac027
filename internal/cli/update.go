package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/johnallen3d/home-assistant/internal/document"
	"github.com/johnallen3d/home-assistant/internal/logging"
)

type updateOptions struct {
	source string
	output string
}

func newUpdateCommand() *cobra.Command {
	opts := &updateOptions{}

	cmd := &cobra.Command{
		Use:   "update <entry-file>...",
		Short: "Fold edited entry files back into a combined file",
		Long: `Replace entries in a combined configuration file using edited split
files as the source. Each entry file must carry the id of the entry it
replaces; entries are matched by id, never by position or name.

The combined file is rewritten in place unless --output is given. One
unmatched entry does not abort the batch, but a run in which nothing
matched fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.source, "source", "s", "", "combined configuration file to update (required)")
	f.StringVarP(&opts.output, "output", "o", "", "write the updated file here instead of in place")

	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func runUpdate(ctx context.Context, entryFiles []string, opts *updateOptions) error {
	logger := logging.FromContext(ctx)

	doc, err := loadDocument(opts.source)
	if err != nil {
		return err
	}

	updated := 0

	for _, path := range entryFiles {
		rec, err := document.LoadRecord(path)
		if err != nil {
			var parseErr *document.ParseError
			if errors.As(err, &parseErr) {
				return &ExitError{Code: exitParse, Err: err}
			}

			return &ExitError{Code: exitRuntime, Err: err}
		}

		pos, err := doc.ReplaceByID(rec)
		if err != nil {
			// One bad entry must not abort the batch.
			logger.Warn("entry not applied",
				slog.String("file", path),
				slog.String("error", err.Error()),
			)

			continue
		}

		logger.Info("entry updated",
			slog.String("file", path),
			slog.String("id", rec.ID()),
			slog.Int("position", pos),
		)

		updated++
	}

	if updated == 0 {
		return &ExitError{Code: exitRuntime, Err: fmt.Errorf("no entries were updated in %s", opts.source)}
	}

	dest := opts.output
	if dest == "" {
		dest = opts.source
	}

	if err := doc.Save(dest); err != nil {
		return &ExitError{Code: exitWrite, Err: err}
	}

	logger.Info("combined file written",
		slog.String("path", dest),
		slog.Int("updated", updated),
	)

	return nil
}
