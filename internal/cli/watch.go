package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnallen3d/home-assistant/internal/logging"
	"github.com/johnallen3d/home-assistant/internal/splitter"
	"github.com/johnallen3d/home-assistant/internal/watch"
)

type watchOptions struct {
	outputDir string
	kindName  string
	nameField string
	debounce  time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <source-file>",
		Short: "Re-split a combined file whenever it changes",
		Long: `Watch a combined configuration file and re-run the split whenever it
changes, e.g. after each pull from the server. Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for the per-entry files (required)")
	f.StringVar(&opts.kindName, "kind", "automation", "document kind: automation, scene, script")
	f.StringVar(&opts.nameField, "name-field", "", "record key supplying the filename (overrides --kind)")
	f.DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "quiet period before re-splitting")

	_ = cmd.MarkFlagRequired("output-dir")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, source string, opts *watchOptions) error {
	logger := logging.FromContext(ctx)

	nameField, err := resolveNameField(opts.kindName, opts.nameField)
	if err != nil {
		return err
	}

	watchOpts := watch.DefaultOptions()
	watchOpts.Source = source
	watchOpts.Debounce = opts.debounce
	watchOpts.Logger = logger
	watchOpts.Out = cmd.ErrOrStderr()

	runFn := func(context.Context) (*watch.RunResult, error) {
		doc, err := loadDocument(source)
		if err != nil {
			return nil, err
		}

		res, err := splitter.Split(doc, opts.outputDir, splitter.Options{NameField: nameField, Logger: logger})
		if err != nil {
			return nil, err
		}

		return &watch.RunResult{Files: len(res.Files), OutputDir: opts.outputDir}, nil
	}

	if err := watch.Run(ctx, watchOpts, runFn); err != nil {
		return &ExitError{Code: exitRuntime, Err: err}
	}

	return nil
}
