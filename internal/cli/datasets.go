/*
PURPOSE:
  Defines the 'datasets' subcommand group.
  Lists, previews and exports the datasets trials can run on.

REQUIREMENTS:
  User-specified:
  - List available datasets.

  Implementation-discovered:
  - Useful validation step before a study: check a custom dataset decodes,
    see its outline and the label index targets are drawn from.
  - Exporting the built-ins gives researchers a template to edit.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Catalog, internal/assets

ERROR HANDLING:
  - Prints per-dataset errors in 'list' and keeps going.

IMPLEMENTATION RULES:
  - Simple output to stdout.

USAGE:
  tree-trial datasets list
  tree-trial datasets show biological_taxonomy
  tree-trial datasets export ./data

RELATED FILES:
  - internal/engine/catalog.go
  - internal/assets/assets.go
*/

package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/daryltucker/tree-trial/internal/assets"
	"github.com/daryltucker/tree-trial/internal/engine"
	"github.com/daryltucker/tree-trial/internal/output"
	"github.com/daryltucker/tree-trial/internal/tree"
	"github.com/spf13/cobra"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Inspect and export experiment datasets",
}

var listDatasetsCmd = &cobra.Command{
	Use:   "list",
	Short: "List available datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := engine.NewCatalog(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, id := range catalog.IDs() {
			src, _ := catalog.Source(id)
			root, err := catalog.Tree(id)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s: %v\n", id, err)
				continue
			}
			fmt.Fprintf(out, "- %s (%d entries, %s)\n", id, len(tree.Flatten(root)), src)
		}
		return nil
	},
}

var showDatasetCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a dataset outline and its label index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := engine.NewCatalog(cfg)
		if err != nil {
			return err
		}
		root, err := catalog.Tree(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := output.RenderTree(out, root); err != nil {
			return err
		}
		fmt.Fprintln(out)
		for i, label := range tree.Flatten(root) {
			fmt.Fprintf(out, "%4d  %s\n", i, label)
		}
		return nil
	},
}

var exportDatasetsCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write the built-in datasets to a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		targetDir := args[0]
		output.Logger.Info("Exporting datasets...", "target", targetDir)

		if err := os.MkdirAll(targetDir, 0755); err != nil {
			return fmt.Errorf("failed to create target directory %s: %w", targetDir, err)
		}

		names, err := assets.Names()
		if err != nil {
			return fmt.Errorf("failed to read embedded datasets: %w", err)
		}

		count := 0
		for _, id := range names {
			file, err := assets.File(id)
			if err != nil {
				output.Logger.Error("Failed to resolve embedded dataset", "dataset", id, "error", err)
				continue
			}
			content, err := fs.ReadFile(assets.Datasets, "datasets/"+file)
			if err != nil {
				output.Logger.Error("Failed to read embedded file", "file", file, "error", err)
				continue
			}

			targetPath := filepath.Join(targetDir, file)
			if err := os.WriteFile(targetPath, content, 0644); err != nil {
				output.Logger.Error("Failed to write to target", "path", targetPath, "error", err)
				continue
			}

			output.Logger.Info("Exported dataset", "name", id, "path", targetPath)
			count++
		}

		output.Logger.Info("Export complete", "total_files", count)
		if count != len(names) {
			return fmt.Errorf("exported %d of %d datasets", count, len(names))
		}
		return nil
	},
}

func init() {
	datasetsCmd.AddCommand(listDatasetsCmd, showDatasetCmd, exportDatasetsCmd)
	rootCmd.AddCommand(datasetsCmd)
}
