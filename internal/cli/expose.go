package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnallen3d/home-assistant/internal/logging"
	"github.com/johnallen3d/home-assistant/internal/registry"
)

type exposeOptions struct {
	registryPath string
	exposedPath  string
	output       string
	assistant    string
	haVersion    string
	dryRun       bool
}

func newExposeCommand() *cobra.Command {
	opts := &exposeOptions{}

	cmd := &cobra.Command{
		Use:   "expose",
		Short: "Reconcile voice-assistant exposure flags in the entity registry",
		Long: `Set should_expose in the entity registry so that exactly the entities
listed true in the exposure config are exposed to the assistant, and
every other entity in the auto-exposed domains is hidden. Entities
outside those domains are never touched.

The registry file is the server's .storage/core.entity_registry,
fetched beforehand; restart Home Assistant after pushing it back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExpose(cmd.Context(), cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.registryPath, "registry", "", "entity registry JSON file (required)")
	f.StringVar(&opts.exposedPath, "exposed", "", "exposure config YAML: entity_id: true|false (required)")
	f.StringVarP(&opts.output, "output", "o", "", "write the updated registry here instead of in place")
	f.StringVar(&opts.assistant, "assistant", registry.DefaultAssistant, "assistant option key, e.g. conversation, cloud.alexa")
	f.StringVar(&opts.haVersion, "ha-version", "", "Home Assistant version to check compatibility against (contents of .HA_VERSION)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "show changes without writing")

	_ = cmd.MarkFlagRequired("registry")
	_ = cmd.MarkFlagRequired("exposed")

	return cmd
}

func runExpose(ctx context.Context, cmd *cobra.Command, opts *exposeOptions) error {
	logger := logging.FromContext(ctx)

	if opts.haVersion != "" {
		if err := registry.CheckVersion(opts.haVersion); err != nil {
			return &ExitError{Code: exitRuntime, Err: err}
		}
	}

	exposed, err := registry.LoadExposureConfig(opts.exposedPath)
	if err != nil {
		return storageExitErr(err)
	}

	logger.Info("exposure config loaded",
		slog.String("path", opts.exposedPath),
		slog.Int("exposed", len(exposed)),
	)

	reg, err := registry.Load(opts.registryPath)
	if err != nil {
		return storageExitErr(err)
	}

	stats, changes := reg.UpdateExposure(exposed, opts.assistant)

	printExposeSummary(cmd.ErrOrStderr(), stats, changes, opts.dryRun)

	if opts.dryRun {
		return nil
	}

	if len(changes) == 0 {
		logger.Info("registry already up to date", slog.String("path", opts.registryPath))
		return nil
	}

	dest := opts.output
	if dest == "" {
		dest = opts.registryPath
	}

	if err := reg.Save(dest); err != nil {
		return &ExitError{Code: exitWrite, Err: err}
	}

	logger.Info("entity registry written",
		slog.String("path", dest),
		slog.Int("changes", len(changes)),
	)

	return nil
}

// printExposeSummary prints the change list and stats, mirroring the
// shape of the summary operators already know.
func printExposeSummary(w io.Writer, stats registry.Stats, changes []registry.Change, dryRun bool) {
	header := "Changes:"
	if dryRun {
		header = "Changes (dry run):"
	}

	_, _ = fmt.Fprintf(w, "\n%s\n", header)

	if len(changes) == 0 {
		_, _ = fmt.Fprintln(w, "  No changes needed")
	}

	for _, c := range changes {
		sign := "-"
		if c.Expose {
			sign = "+"
		}

		_, _ = fmt.Fprintf(w, "  %s %s\n", sign, c.EntityID)
	}

	_, _ = fmt.Fprintf(w, "\nSummary:\n")
	_, _ = fmt.Fprintf(w, "  Exposed:   %d\n", stats.Exposed)
	_, _ = fmt.Fprintf(w, "  Hidden:    %d\n", stats.Hidden)
	_, _ = fmt.Fprintf(w, "  Unchanged: %d\n", stats.Unchanged)
	_, _ = fmt.Fprintf(w, "  Unmanaged: %d\n", stats.Unmanaged)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", 22))
}
