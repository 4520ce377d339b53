package output

import (
	"bytes"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daryltucker/tree-trial/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.csv")
	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	for _, rec := range sample {
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(sample)+1)
	assert.Equal(t, []string{"participant", "time_s", "dataset", "entry"}, rows[0])
	assert.Equal(t, []string{"Grace", "11.2500", "biological_taxonomy", "Homo sapiens"}, rows[2])
}

func TestWriteSummaryCSV(t *testing.T) {
	rep, err := analysis.Aggregate(sample, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, rep))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"kind", "key", "value"}, rows[0])
	assert.Equal(t, []string{"histogram", "0.0000-5.6250", "2"}, rows[1])
	assert.Equal(t, []string{"histogram", "5.6250-11.2500", "1"}, rows[2])
	assert.Equal(t, []string{"mean_by_dataset", "biological_taxonomy", "11.2500"}, rows[3])
	assert.Equal(t, []string{"mean_by_participant", "Ada", "1.2500"}, rows[6])
	assert.Len(t, rows, 8)
}

func TestRenderReport(t *testing.T) {
	rep, err := analysis.Aggregate(sample, 3)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderReport(&buf, rep))
	out := buf.String()
	assert.Contains(t, out, "Histogram of times")
	assert.Contains(t, out, "Mean time per dataset")
	assert.Contains(t, out, "Grace")
	assert.Contains(t, out, "#")

	buf.Reset()
	require.NoError(t, RenderRecords(&buf, sample))
	assert.Equal(t, len(sample)+2, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "Homo sapiens")
}

func TestConfigureLogger(t *testing.T) {
	defer SetLogger(Logger)

	var buf bytes.Buffer
	Configure("warn", "json", &buf)
	Logger.Info("hidden")
	Logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	Configure("debug", "auto", &buf)
	Logger.Debug("auto picks json for non-terminals")
	assert.Contains(t, buf.String(), `"level":"DEBUG"`)

	buf.Reset()
	Configure("info", "text", &buf)
	Logger.Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
