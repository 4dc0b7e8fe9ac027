// Package splitter partitions a combined configuration document into one
// YAML file per record, the layout kept under version control. File names
// derive from a record's name field; collisions resolve by sequential
// numeric suffix in input order.
package splitter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/johnallen3d/home-assistant/internal/document"
	"github.com/johnallen3d/home-assistant/internal/slug"
)

// Options configures a split run.
type Options struct {
	// NameField is the record key supplying the human-readable name,
	// e.g. "alias" for automations, "name" for scenes. An empty or
	// absent field degrades to an empty name.
	NameField string

	// Logger receives per-record warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

// File is one planned output file: a record serialized standalone.
type File struct {
	// Name is the resolved filename, unique within the run.
	Name string

	// Data is the record's standalone YAML serialization.
	Data []byte
}

// Result reports a completed split.
type Result struct {
	// Files are the written filenames in record order.
	Files []string
}

// Plan computes the files a split would produce without touching the
// filesystem. The returned slice has one entry per record, in input
// order. Records whose name field is not a scalar fall back to an empty
// name rather than aborting the run.
func Plan(doc *document.Document, opts Options) ([]File, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	used := make(map[string]bool, len(doc.Records))
	files := make([]File, 0, len(doc.Records))

	for i, rec := range doc.Records {
		name, err := rec.Name(opts.NameField)
		if err != nil {
			// One bad name must not abort the whole batch.
			logger.Warn("record name is not a scalar, using empty name",
				slog.Int("record", i),
				slog.String("source", doc.Path),
				slog.String("error", err.Error()),
			)
		}

		filename := resolveFilename(slug.Make(name), used)
		used[filename] = true

		data, err := rec.Encode()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}

		files = append(files, File{Name: filename, Data: data})
	}

	return files, nil
}

// Split transforms doc into a directory of per-record files. The output
// directory is deleted and recreated first: after a successful run it
// holds exactly the files of this run, never leftovers from a previous
// one. An empty document succeeds with an empty directory and a warning.
func Split(doc *document.Document, outDir string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Plan before mutating the destination so parse and encode failures
	// leave the previous run's output intact.
	planned, err := Plan(doc, opts)
	if err != nil {
		return nil, err
	}

	if err := os.RemoveAll(outDir); err != nil {
		return nil, fmt.Errorf("clearing output directory %s: %w", outDir, err)
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	if len(planned) == 0 {
		logger.Warn("document has no records", slog.String("source", doc.Path))
		return &Result{}, nil
	}

	files := make([]string, 0, len(planned))

	for i, f := range planned {
		path := filepath.Join(outDir, f.Name)
		if err := os.WriteFile(path, f.Data, 0o644); err != nil { //nolint:gosec // config files are not secrets
			return nil, fmt.Errorf("writing record %d to %s: %w", i, path, err)
		}

		files = append(files, f.Name)
	}

	return &Result{Files: files}, nil
}

// resolveFilename appends _1, _2, ... to the slug until the name is
// unused within this run. Which colliding record gets the bare name
// depends on input order.
func resolveFilename(s string, used map[string]bool) string {
	name := s + ".yaml"
	for n := 1; used[name]; n++ {
		name = fmt.Sprintf("%s_%d.yaml", s, n)
	}

	return name
}
