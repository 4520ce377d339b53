/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes one timed search trial for a participant.

REQUIREMENTS:
  User-specified:
  - Ask for the participant's name before starting.
  - Pick a dataset (or a random one) and a random target entry.
  - Save the result when the entry is found.

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config.
  - The name prompt and the selection loop share one buffered stdin reader.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Runner
  - Uses: internal/config, internal/output.Store

ERROR HANDLING:
  - Returns error if config load fails, no name is given, or saving fails.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> Runner.Run.

USAGE:
  tree-trial run --name Ada --dataset biological_taxonomy

RELATED FILES:
  - internal/cli/root.go
  - internal/engine/runner.go
*/

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/daryltucker/tree-trial/internal/engine"
	"github.com/daryltucker/tree-trial/internal/output"
	"github.com/daryltucker/tree-trial/internal/trial"
	"github.com/spf13/cobra"
)

var (
	participantName string
	datasetID       string
	resultsOverride string
	shapeOverride   string
	hideTree        bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one timed search trial",
	Long: `Starts a search trial for one participant.
The process follows a fixed protocol:
1. Setup: The participant's name is taken from --name or asked for.
2. Target: A dataset is loaded (random unless --dataset is set) and one entry is drawn.
3. Search: Type entry labels, one per line. An empty line shows the elapsed time.
4. Result: When the target is typed, the time is appended to the results file.`,
	Example: `  # Run on a random built-in dataset
  tree-trial run --name Ada

  # Run on a specific dataset and write legacy-shaped records
  tree-trial run -n Ada -d biological_taxonomy --shape legacy

  # Write results somewhere else
  tree-trial run -n Ada -r ./study/results.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if resultsOverride != "" {
			cfg.ResultsPath = resultsOverride
		}
		if shapeOverride != "" {
			cfg.RecordShape = shapeOverride
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		in := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		name := participantName
		if strings.TrimSpace(name) == "" {
			var err error
			name, err = promptName(in, out)
			if err != nil {
				return err
			}
		}

		catalog, err := engine.NewCatalog(cfg)
		if err != nil {
			return err
		}
		store := output.NewStore(cfg.ResultsPath, output.Shape(cfg.RecordShape))

		runner := engine.NewRunner(cfg, catalog, store, in, out)
		runner.ShowTree = !hideTree

		_, err = runner.Run(cmd.Context(), name, datasetID)
		if errors.Is(err, trial.ErrInvalidName) {
			return fmt.Errorf("please enter your name: %w", err)
		}
		return err
	},
}

func promptName(in *bufio.Reader, out io.Writer) (string, error) {
	if output.IsTerminal(os.Stdin) {
		fmt.Fprint(out, "Enter your name: ")
	}
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&participantName, "name", "n", "", "Participant name (asked for when empty)")
	runCmd.Flags().StringVarP(&datasetID, "dataset", "d", "", "Dataset ID (random when empty); see 'datasets list'")
	runCmd.Flags().StringVarP(&resultsOverride, "results", "r", "", "Results file to append to (overrides config)")
	runCmd.Flags().StringVar(&shapeOverride, "shape", "", "Record field naming: canonical or legacy")
	runCmd.Flags().BoolVar(&hideTree, "no-tree", false, "Do not print the dataset outline")
}
