package cli

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daryltucker/tree-trial/internal/assets"
	"github.com/daryltucker/tree-trial/internal/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with fresh flag state and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	prev := output.Logger
	t.Cleanup(func() { output.SetLogger(prev) })

	cfgFile, logLevel, logFormat = "", "", ""
	participantName, datasetID, resultsOverride, shapeOverride, hideTree = "", "", "", "", false
	binsOverride, csvPath, summaryPath, lenientLoad, watchResults = 0, "", "", false, false

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

// studyDir writes a config with a single-entry dataset so the target is known.
func studyDir(t *testing.T) (configPath, resultsPath string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.yaml"), []byte("- only\n"), 0644))

	resultsPath = filepath.Join(dir, "results.json")
	configPath = filepath.Join(dir, "tree_trial.yaml")
	body := "results_path: " + resultsPath + "\n" +
		"datasets:\n" +
		"  - id: one\n" +
		"    path: " + filepath.Join(dir, "one.yaml") + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0644))
	return configPath, resultsPath
}

func TestRunCommand_RecordsResult(t *testing.T) {
	configPath, resultsPath := studyDir(t)

	out, err := execute(t, "nope\nonly\n", "--config", configPath, "run", "--name", "Ada", "--dataset", "one")
	require.NoError(t, err)
	assert.Contains(t, out, "- only")
	assert.Contains(t, out, "Find the following entry: only")
	assert.Contains(t, out, "Not it. Find: only")
	assert.Contains(t, out, "Found! Time:")

	data, err := os.ReadFile(resultsPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"participant":"Ada"`)
	assert.Contains(t, lines[0], `"dataset":"one"`)
}

func TestRunCommand_LegacyShape(t *testing.T) {
	configPath, resultsPath := studyDir(t)

	_, err := execute(t, "only\n", "--config", configPath, "run", "-n", "Ada", "-d", "one", "--shape", "legacy", "--no-tree")
	require.NoError(t, err)

	data, err := os.ReadFile(resultsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Teilnehmer_in":"Ada"`)
}

func TestRunCommand_NameFromInput(t *testing.T) {
	configPath, resultsPath := studyDir(t)

	_, err := execute(t, "Grace\nonly\n", "--config", configPath, "run", "-d", "one")
	require.NoError(t, err)

	data, err := os.ReadFile(resultsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"participant":"Grace"`)
}

func TestRunCommand_EmptyName(t *testing.T) {
	configPath, resultsPath := studyDir(t)

	_, err := execute(t, "   \n", "--config", configPath, "run", "-d", "one")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please enter your name")
	assert.NoFileExists(t, resultsPath)
}

func TestAnalyzeCommand(t *testing.T) {
	configPath, resultsPath := studyDir(t)
	body := `{"participant": "Ada", "dataset": "one", "entry": "only", "time": 1.5}` + "\n" +
		`{"Teilnehmer_in": "Grace", "Zeit": 2.5, "Datensatz": "one", "Eintrag": "only"}` + "\n"
	require.NoError(t, os.WriteFile(resultsPath, []byte(body), 0644))

	dir := t.TempDir()
	recordsCSV := filepath.Join(dir, "records.csv")
	summaryCSV := filepath.Join(dir, "summary.csv")

	out, err := execute(t, "", "--config", configPath, "analyze", "--bins", "2", "--csv", recordsCSV, "--summary-csv", summaryCSV)
	require.NoError(t, err)
	assert.Contains(t, out, "Results (2)")
	assert.Contains(t, out, "Histogram of times")
	assert.Contains(t, out, "Mean time per dataset")
	assert.Contains(t, out, "Grace")

	f, err := os.Open(recordsCSV)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	summary, err := os.ReadFile(summaryCSV)
	require.NoError(t, err)
	assert.Contains(t, string(summary), "mean_by_dataset,one,2.0000")
}

func TestAnalyzeCommand_StrictAndLenient(t *testing.T) {
	configPath, resultsPath := studyDir(t)
	body := `{"participant": "Ada", "dataset": "one", "entry": "only", "time": 1.5}` + "\n" +
		"not json\n"
	require.NoError(t, os.WriteFile(resultsPath, []byte(body), 0644))

	_, err := execute(t, "", "--config", configPath, "analyze")
	require.Error(t, err)
	assert.ErrorIs(t, err, output.ErrCorruptRecord)

	out, err := execute(t, "", "--config", configPath, "analyze", "--lenient")
	require.NoError(t, err)
	assert.Contains(t, out, "1 line(s) skipped")
	assert.Contains(t, out, "Results (1)")
}

func TestAnalyzeCommand_EmptyFile(t *testing.T) {
	configPath, resultsPath := studyDir(t)
	require.NoError(t, os.WriteFile(resultsPath, nil, 0644))

	out, err := execute(t, "", "--config", configPath, "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "No results to analyze yet.")
}

func TestDatasetsList(t *testing.T) {
	configPath, _ := studyDir(t)

	out, err := execute(t, "", "--config", configPath, "datasets", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "- one (1 entries,")
	assert.Contains(t, out, "- biological_taxonomy (")
	assert.Contains(t, out, "built-in)")
}

func TestDatasetsShow(t *testing.T) {
	configPath, _ := studyDir(t)

	out, err := execute(t, "", "--config", configPath, "datasets", "show", "synthetic_data")
	require.NoError(t, err)
	assert.Contains(t, out, "+ root")
	assert.Contains(t, out, "   2  target_entry")

	_, err = execute(t, "", "--config", configPath, "datasets", "show", "missing")
	assert.Error(t, err)
}

func TestDatasetsExport(t *testing.T) {
	configPath, _ := studyDir(t)
	dir := filepath.Join(t.TempDir(), "export")

	_, err := execute(t, "", "--config", configPath, "datasets", "export", dir)
	require.NoError(t, err)

	names, err := assets.Names()
	require.NoError(t, err)
	for _, id := range names {
		file, err := assets.File(id)
		require.NoError(t, err)
		want, err := assets.Read(id)
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(dir, file))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestAnalyzeCommand_NoResultsFileYet(t *testing.T) {
	configPath, _ := studyDir(t)

	out, err := execute(t, "", "--config", configPath, "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, "No results to analyze yet")

	_, err = execute(t, "", "--config", configPath, "analyze", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
