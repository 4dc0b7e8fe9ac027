package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/johnallen3d/home-assistant/internal/logging"
	"github.com/johnallen3d/home-assistant/internal/registry"
)

type homekitOptions struct {
	configEntriesPath string
	filterPath        string
	output            string
	dryRun            bool
}

func newHomeKitCommand() *cobra.Command {
	opts := &homekitOptions{}

	cmd := &cobra.Command{
		Use:   "homekit",
		Short: "Reconcile the HomeKit Bridge entity filter",
		Long: `Replace the HomeKit Bridge's entity filter (options.filter in its
core.config_entries entry) with the include/exclude lists from a filter
config YAML. HomeKit exposure lives in the bridge's config entry, not
the entity registry, so this is a separate path from the expose command.

The config entries file is the server's .storage/core.config_entries,
fetched beforehand; Home Assistant must be stopped while the modified
file is pushed back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHomeKit(cmd.Context(), cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configEntriesPath, "config-entries", "", "config entries JSON file (required)")
	f.StringVar(&opts.filterPath, "filter", "", "filter config YAML with include/exclude lists (required)")
	f.StringVarP(&opts.output, "output", "o", "", "write the updated config entries here instead of in place")
	f.BoolVar(&opts.dryRun, "dry-run", false, "show changes without writing")

	_ = cmd.MarkFlagRequired("config-entries")
	_ = cmd.MarkFlagRequired("filter")

	return cmd
}

func runHomeKit(ctx context.Context, cmd *cobra.Command, opts *homekitOptions) error {
	logger := logging.FromContext(ctx)

	filter, err := registry.LoadHomeKitFilter(opts.filterPath)
	if err != nil {
		return storageExitErr(err)
	}

	logger.Info("HomeKit filter config loaded",
		slog.String("path", opts.filterPath),
		slog.Int("includeDomains", len(filter.IncludeDomains)),
		slog.Int("includeEntities", len(filter.IncludeEntities)),
	)

	entries, err := registry.LoadConfigEntries(opts.configEntriesPath)
	if err != nil {
		return storageExitErr(err)
	}

	title, changes, err := entries.UpdateHomeKitFilter(filter)
	if err != nil {
		return &ExitError{Code: exitRuntime, Err: err}
	}

	printHomeKitSummary(cmd.ErrOrStderr(), title, filter, changes, opts.dryRun)

	if opts.dryRun {
		return nil
	}

	if len(changes) == 0 {
		logger.Info("bridge filter already up to date", slog.String("path", opts.configEntriesPath))
		return nil
	}

	dest := opts.output
	if dest == "" {
		dest = opts.configEntriesPath
	}

	if err := entries.Save(dest); err != nil {
		return &ExitError{Code: exitWrite, Err: err}
	}

	logger.Info("config entries written",
		slog.String("path", dest),
		slog.String("bridge", title),
		slog.Int("sections", len(changes)),
	)

	return nil
}

// printHomeKitSummary prints the per-section change list and the final
// filter sizes.
func printHomeKitSummary(w io.Writer, title string, filter registry.HomeKitFilter, changes []registry.FilterChange, dryRun bool) {
	suffix := ""
	if dryRun {
		suffix = " (dry run)"
	}

	_, _ = fmt.Fprintf(w, "\nChanges to HomeKit Bridge %q%s:\n", title, suffix)

	if len(changes) == 0 {
		_, _ = fmt.Fprintln(w, "  No changes needed")
	}

	for _, c := range changes {
		_, _ = fmt.Fprintf(w, "\n  %s:\n", c.Section)

		for _, item := range c.Added {
			_, _ = fmt.Fprintf(w, "    + %s\n", item)
		}

		for _, item := range c.Removed {
			_, _ = fmt.Fprintf(w, "    - %s\n", item)
		}
	}

	_, _ = fmt.Fprintf(w, "\nFinal filter:\n")
	_, _ = fmt.Fprintf(w, "  include_domains:  %d\n", len(filter.IncludeDomains))
	_, _ = fmt.Fprintf(w, "  include_entities: %d\n", len(filter.IncludeEntities))
	_, _ = fmt.Fprintf(w, "  exclude_domains:  %d\n", len(filter.ExcludeDomains))
	_, _ = fmt.Fprintf(w, "  exclude_entities: %d\n", len(filter.ExcludeEntities))
}
