// Package watch re-runs the splitter whenever the combined source file
// changes, for a pull-edit-split loop without manual re-invocation. It
// watches the file's directory rather than the file itself because most
// editors (and scp) replace files via rename.
package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc is called each time the watcher triggers a re-split. It returns
// the run result for the status line.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult holds the output of a single split run.
type RunResult struct {
	// Files is the number of files written.
	Files int

	// OutputDir is the directory the run wrote to.
	OutputDir string
}

// Options configures the watch behaviour.
type Options struct {
	// Source is the combined document file to watch.
	Source string

	// Debounce is the quiet period before triggering a re-split.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status lines.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 500 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	source, err := filepath.Abs(opts.Source)
	if err != nil {
		return fmt.Errorf("resolving source path %q: %w", opts.Source, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(source)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(source), err)
	}

	// Trap SIGINT / SIGTERM for graceful shutdown.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", source, opts.Debounce)

	// Initial run.
	doRun(sigCtx, opts, runFn, "(initial)")

	debouncer := NewDebouncer(opts.Debounce, func() {
		doRun(sigCtx, opts, runFn, filepath.Base(source))
	})
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, source) {
				continue
			}

			debouncer.Trigger()

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// doRun executes a single split run and prints the status line.
func doRun(ctx context.Context, opts Options, runFn RunFunc, trigger string) {
	now := time.Now().Format("15:04:05")

	result, err := runFn(ctx)
	if err != nil {
		fmt.Fprintf(opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	fmt.Fprintf(opts.Out, "[%s] %s → OK (%d files in %s)\n",
		now, trigger, result.Files, result.OutputDir)
}

// isRelevant reports whether the event concerns the watched source and is
// a content-affecting operation.
func isRelevant(event fsnotify.Event, source string) bool {
	if event.Name != source {
		return false
	}

	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename)
}
