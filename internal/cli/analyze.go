/*
PURPOSE:
  Defines the 'analyze' subcommand.
  Loads results files and prints the records table, time histogram and
  mean times per dataset and participant.

REQUIREMENTS:
  User-specified:
  - Load a results file and show the records.
  - Histogram of times, average time per dataset, average time per participant.

  Implementation-discovered:
  - Several files can be merged (one per study session).
  - Hand-edited files may contain bad lines; --lenient reports and skips them.
  - --watch re-renders whenever a results file changes.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.LoadResults, internal/analysis.Aggregate
  - Uses: internal/output (rendering, CSV)

ERROR HANDLING:
  - Strict mode returns the first bad line (file + line number).
  - Empty input is reported, not rendered.

USAGE:
  tree-trial analyze results.json --bins 20 --csv records.csv

RELATED FILES:
  - internal/analysis/aggregate.go
  - internal/engine/watch.go
*/

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/daryltucker/tree-trial/internal/analysis"
	"github.com/daryltucker/tree-trial/internal/engine"
	"github.com/daryltucker/tree-trial/internal/model"
	"github.com/daryltucker/tree-trial/internal/output"
	"github.com/spf13/cobra"
)

var (
	binsOverride int
	csvPath      string
	summaryPath  string
	lenientLoad  bool
	watchResults bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [results files...]",
	Short: "Summarize recorded trial results",
	Example: `  # Analyze the configured results file
  tree-trial analyze

  # Merge two files, skip bad lines, export CSV
  tree-trial analyze morning.json afternoon.json --lenient --csv records.csv --summary-csv summary.csv

  # Keep the summary on screen while a study runs
  tree-trial analyze --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := args
		if len(paths) == 0 {
			paths = []string{cfg.ResultsPath}
			if _, err := os.Stat(cfg.ResultsPath); errors.Is(err, os.ErrNotExist) && !watchResults {
				fmt.Fprintf(cmd.OutOrStdout(), "No results to analyze yet (%s does not exist).\n", cfg.ResultsPath)
				return nil
			}
		}
		bins := cfg.HistogramBins
		if binsOverride > 0 {
			bins = binsOverride
		}

		out := cmd.OutOrStdout()
		if !watchResults {
			return analyze(cmd, paths, bins, out)
		}

		if err := analyze(cmd, paths, bins, out); err != nil {
			output.Logger.Error("Analysis failed", "error", err)
		}
		output.Logger.Info("Watching results", "files", paths)
		return engine.WatchResults(cmd.Context(), paths, engine.DefaultDebounce, func() {
			fmt.Fprintln(out)
			if err := analyze(cmd, paths, bins, out); err != nil {
				output.Logger.Error("Analysis failed", "error", err)
			}
		})
	},
}

func analyze(cmd *cobra.Command, paths []string, bins int, out io.Writer) error {
	records, bad, err := engine.LoadResults(cmd.Context(), paths, lenientLoad)
	if err != nil {
		return err
	}

	if err := output.RenderRecords(out, records); err != nil {
		return err
	}
	if len(bad) > 0 {
		fmt.Fprintf(out, "%d line(s) skipped:\n", len(bad))
		for _, b := range bad {
			fmt.Fprintf(out, "  %v\n", b)
		}
	}

	if csvPath != "" {
		if err := exportRecords(csvPath, records); err != nil {
			return err
		}
	}

	rep, err := analysis.Aggregate(records, bins)
	if errors.Is(err, analysis.ErrEmptyInput) {
		fmt.Fprintln(out, "No results to analyze yet.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	if err := output.RenderReport(out, rep); err != nil {
		return err
	}

	if summaryPath != "" {
		f, err := os.Create(summaryPath)
		if err != nil {
			return fmt.Errorf("failed to create summary CSV %s: %w", summaryPath, err)
		}
		defer f.Close()
		if err := output.WriteSummaryCSV(f, rep); err != nil {
			return fmt.Errorf("failed to write summary CSV %s: %w", summaryPath, err)
		}
	}
	return nil
}

func exportRecords(path string, records []model.ResultRecord) error {
	w, err := output.NewCSVWriter(path)
	if err != nil {
		return fmt.Errorf("failed to init CSV writer at %s: %w", path, err)
	}
	for _, r := range records {
		if err := w.Write(r); err != nil {
			w.Close()
			return fmt.Errorf("failed to write CSV %s: %w", path, err)
		}
	}
	return w.Close()
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVarP(&binsOverride, "bins", "b", 0, "Histogram bin count (overrides config)")
	analyzeCmd.Flags().StringVar(&csvPath, "csv", "", "Export the records table to this CSV file")
	analyzeCmd.Flags().StringVar(&summaryPath, "summary-csv", "", "Export histogram and means to this CSV file")
	analyzeCmd.Flags().BoolVar(&lenientLoad, "lenient", false, "Report and skip bad lines instead of failing")
	analyzeCmd.Flags().BoolVarP(&watchResults, "watch", "w", false, "Re-run the analysis whenever a results file changes")
}
