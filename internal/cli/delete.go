package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/johnallen3d/home-assistant/internal/logging"
)

type deleteOptions struct {
	source    string
	output    string
	kindName  string
	nameField string
}

func newDeleteCommand() *cobra.Command {
	opts := &deleteOptions{}

	cmd := &cobra.Command{
		Use:   "delete <name>...",
		Short: "Delete entries from a combined file by name",
		Long: `Delete entries from a combined configuration file by their
human-readable name (the alias of an automation, the name of a scene).

Names that match nothing are reported but do not abort the run; a run
in which nothing matched fails.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.Context(), args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.source, "source", "s", "", "combined configuration file to edit (required)")
	f.StringVarP(&opts.output, "output", "o", "", "write the updated file here instead of in place")
	f.StringVar(&opts.kindName, "kind", "scene", "document kind: automation, scene, script")
	f.StringVar(&opts.nameField, "name-field", "", "record key holding the name (overrides --kind)")

	_ = cmd.MarkFlagRequired("source")

	return cmd
}

func runDelete(ctx context.Context, names []string, opts *deleteOptions) error {
	logger := logging.FromContext(ctx)

	nameField, err := resolveNameField(opts.kindName, opts.nameField)
	if err != nil {
		return err
	}

	doc, err := loadDocument(opts.source)
	if err != nil {
		return err
	}

	deleted := doc.DeleteByName(nameField, names)

	deletedSet := make(map[string]bool, len(deleted))
	for _, name := range deleted {
		logger.Info("entry deleted", slog.String("name", name))
		deletedSet[name] = true
	}

	for _, name := range names {
		if !deletedSet[name] {
			logger.Warn("no entry with that name", slog.String("name", name))
		}
	}

	if len(deleted) == 0 {
		return &ExitError{Code: exitRuntime, Err: fmt.Errorf("no matching entries in %s", opts.source)}
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
		slog.Int("deleted", len(deleted)),
	)

	return nil
}
