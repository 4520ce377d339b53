/*
PURPOSE:
  Defines the root Cobra command for the Tree Trial CLI.
  Handles global flags, configuration loading and logger setup.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Config and logger are prepared once in PersistentPreRunE so every
    subcommand sees the same settings.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/tree-trial/main.go
  - Calls: Child commands (run, analyze, datasets)
  - Modifies: Global configuration state (temporarily, until passed down).

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands, Root is usually empty or helps.

USAGE:
  Called by main.go.

SELF-HEALING INSTRUCTIONS:
  - If adding new global flags, add them to init().

RELATED FILES:
  - cmd/tree-trial/main.go
  - internal/config/config.go
*/

package cli

import (
	"context"
	"os"

	"github.com/daryltucker/tree-trial/internal/config"
	"github.com/daryltucker/tree-trial/internal/output"
	"github.com/spf13/cobra"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile   string
	logLevel  string
	logFormat string

	// cfg is loaded before any subcommand runs.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "tree-trial",
		Short: "Timed tree search experiments and their analysis",
		Long: `Runs timed search trials over hierarchical datasets and analyzes the results.
Use 'run --help' to start a trial and 'analyze --help' to summarize results.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext executes the root command with ctx (e.g. for signal handling).
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if logFormat != "" {
		c.LogFormat = logFormat
	}
	output.Configure(c.LogLevel, c.LogFormat, os.Stderr)
	cfg = c
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./tree_trial.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: auto, text, json")
}
