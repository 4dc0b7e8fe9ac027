// Package cli implements the cobra command tree for hactl.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/johnallen3d/home-assistant/internal/config"
	"github.com/johnallen3d/home-assistant/internal/logging"
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Exit codes by failure class.
const (
	exitRuntime = 1
	exitUsage   = 2
	exitParse   = 3
	exitWrite   = 6
)

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	cmd := NewRootCommand()

	if err := cmd.Execute(); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		return exitRuntime
	}

	return 0
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "hactl",
		Short: "Manage Home Assistant configuration files from version control",
		Long: `hactl works on the combined YAML configuration files Home Assistant
maintains (automations.yaml, scenes.yaml, scripts.yaml) and the entity
registry in .storage.

It splits combined files into one file per entry for version control,
folds edited entries back into the combined file, deletes entries by
name, reconciles voice-assistant exposure flags in the entity registry,
and maintains the HomeKit Bridge entity filter in the config entries.
Fetching files from and pushing them back to the server is left to
scp/ssh tooling around it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return &ExitError{Code: exitUsage, Err: err}
			}

			logger := logging.Setup(cfg)

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("logFormat", cfg.LogFormat),
			)

			return nil
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .hactl.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: exitUsage, Err: err}
	})

	// Register subcommands.
	cmd.AddCommand(
		newVersionCommand(),
		newSplitCommand(),
		newUpdateCommand(),
		newDeleteCommand(),
		newExposeCommand(),
		newHomeKitCommand(),
		newWatchCommand(),
		newCompletionCommand(),
	)

	return cmd
}
