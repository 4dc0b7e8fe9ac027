package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/johnallen3d/home-assistant/internal/config"
	"github.com/johnallen3d/home-assistant/internal/diff"
	"github.com/johnallen3d/home-assistant/internal/document"
	"github.com/johnallen3d/home-assistant/internal/logging"
	"github.com/johnallen3d/home-assistant/internal/splitter"
)

type splitOptions struct {
	outputDir string
	kindName  string
	nameField string
	dryRun    bool
}

func newSplitCommand() *cobra.Command {
	opts := &splitOptions{}

	cmd := &cobra.Command{
		Use:   "split <source-file>",
		Short: "Split a combined configuration file into one file per entry",
		Long: `Split a combined Home Assistant configuration file (a top-level YAML
sequence such as automations.yaml) into one file per entry.

Filenames derive from each entry's name field: lower-cased, spaces
replaced with underscores, non-ASCII and special characters removed.
Duplicate names get a numeric suffix in input order. The output
directory is recreated on every run and holds exactly the files of the
most recent split.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd.Context(), cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for the per-entry files (required)")
	f.StringVar(&opts.kindName, "kind", "automation", "document kind: automation, scene, script")
	f.StringVar(&opts.nameField, "name-field", "", "record key supplying the filename (overrides --kind)")
	f.BoolVar(&opts.dryRun, "dry-run", false, "show what would change without writing")

	_ = cmd.MarkFlagRequired("output-dir")

	return cmd
}

func runSplit(ctx context.Context, cmd *cobra.Command, source string, opts *splitOptions) error {
	logger := logging.FromContext(ctx)

	nameField, err := resolveNameField(opts.kindName, opts.nameField)
	if err != nil {
		return err
	}

	doc, err := loadDocument(source)
	if err != nil {
		return err
	}

	if opts.dryRun {
		cfg := config.FromContext(ctx)
		return previewSplit(cmd.OutOrStdout(), doc, nameField, opts.outputDir, !cfg.NoColor, logger)
	}

	res, err := splitter.Split(doc, opts.outputDir, splitter.Options{NameField: nameField, Logger: logger})
	if err != nil {
		return &ExitError{Code: exitWrite, Err: err}
	}

	logger.Info("split complete",
		slog.String("source", source),
		slog.String("dir", opts.outputDir),
		slog.Int("files", len(res.Files)),
	)

	printSplitSummary(cmd.ErrOrStderr(), source, opts.outputDir, res)

	return nil
}

// previewSplit diffs the planned output against the current directory
// contents without touching the filesystem.
func previewSplit(w io.Writer, doc *document.Document, nameField, outDir string, color bool, logger *slog.Logger) error {
	planned, err := splitter.Plan(doc, splitter.Options{NameField: nameField, Logger: logger})
	if err != nil {
		return &ExitError{Code: exitRuntime, Err: err}
	}

	plannedNames := make(map[string]bool, len(planned))

	for _, f := range planned {
		plannedNames[f.Name] = true

		current := ""
		if data, readErr := os.ReadFile(filepath.Join(outDir, f.Name)); readErr == nil { //nolint:gosec // preview of user dir
			current = string(data)
		}

		d, diffErr := diff.Compute(current, string(f.Data), diff.Options{
			OldLabel: filepath.Join(outDir, f.Name),
			NewLabel: f.Name + " (proposed)",
			Context:  3,
		})
		if diffErr != nil {
			return &ExitError{Code: exitRuntime, Err: diffErr}
		}

		if d.HasDifferences {
			diff.Write(w, d, color)
		}
	}

	// Files the destructive replace would remove.
	for _, stale := range staleFiles(outDir, plannedNames) {
		_, _ = fmt.Fprintf(w, "would remove %s\n", stale)
	}

	_, _ = fmt.Fprintf(w, "dry run: %d file(s) would be written to %s\n", len(planned), outDir)

	return nil
}

// staleFiles lists current directory entries a split would delete.
func staleFiles(outDir string, planned map[string]bool) []string {
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil
	}

	var stale []string

	for _, e := range entries {
		if !planned[e.Name()] {
			stale = append(stale, e.Name())
		}
	}

	sort.Strings(stale)

	return stale
}

// printSplitSummary prints a human-readable summary of the split.
func printSplitSummary(w io.Writer, source, outDir string, res *splitter.Result) {
	_, _ = fmt.Fprintf(w, "\n--- Split Summary ---\n")
	_, _ = fmt.Fprintf(w, "Source:  %s\n", source)
	_, _ = fmt.Fprintf(w, "Output:  %s\n", outDir)
	_, _ = fmt.Fprintf(w, "Entries: %d\n", len(res.Files))
	_, _ = fmt.Fprintf(w, "---------------------\n")
}
