/*
PURPOSE:
  Exports result records and aggregate summaries to CSV for spreadsheets.

REQUIREMENTS:
  User-specified:
  - Output the records table (participant, time, dataset, entry).
  - Output the derived statistics next to it.

  Implementation-discovered:
  - Export is an overwrite (a snapshot), unlike the append-only results log.
  - Summary rows use a kind/key/value layout so one file holds the
    histogram and both grouped means.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (analyze --csv)
  - Consumes: internal/model.ResultRecord, internal/analysis.Report

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write.
  - Mutex-protected.

USAGE:
  w, err := output.NewCSVWriter("records.csv")
  w.Write(rec)
  w.Close()

RELATED FILES:
  - internal/model/types.go
  - internal/analysis/report.go
*/

package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/daryltucker/tree-trial/internal/analysis"
	"github.com/daryltucker/tree-trial/internal/model"
)

// CSVWriter handles writing records to a CSV file.
type CSVWriter struct {
	file   io.Closer
	writer *csv.Writer
	mu     sync.Mutex
}

var recordHeader = []string{"participant", "time_s", "dataset", "entry"}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	cw, err := newCSVWriter(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return cw, nil
}

func newCSVWriter(w io.Writer, c io.Closer) (*CSVWriter, error) {
	cw := &CSVWriter{file: c, writer: csv.NewWriter(w)}
	if err := cw.writer.Write(recordHeader); err != nil {
		return nil, err
	}
	cw.writer.Flush()
	return cw, cw.writer.Error()
}

// Write writes a single record.
// It is thread-safe.
func (cw *CSVWriter) Write(r model.ResultRecord) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	row := []string{
		r.Participant,
		fmt.Sprintf("%.4f", r.Time),
		r.Dataset,
		r.Entry,
	}
	if err := cw.writer.Write(row); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	if cw.file == nil {
		return cw.writer.Error()
	}
	return cw.file.Close()
}

// WriteSummaryCSV writes the report as kind,key,value rows. Histogram rows
// use "lower-upper" as key and the count as value; mean rows are sorted by key.
func WriteSummaryCSV(w io.Writer, rep analysis.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"kind", "key", "value"}); err != nil {
		return err
	}
	for _, b := range rep.Histogram {
		key := fmt.Sprintf("%.4f-%.4f", b.LowerBound, b.UpperBound)
		if err := cw.Write([]string{"histogram", key, fmt.Sprintf("%d", b.Count)}); err != nil {
			return err
		}
	}
	for _, k := range analysis.SortedKeys(rep.MeanTimeByDataset) {
		if err := cw.Write([]string{"mean_by_dataset", k, fmt.Sprintf("%.4f", rep.MeanTimeByDataset[k])}); err != nil {
			return err
		}
	}
	for _, k := range analysis.SortedKeys(rep.MeanTimeByParticipant) {
		if err := cw.Write([]string{"mean_by_participant", k, fmt.Sprintf("%.4f", rep.MeanTimeByParticipant[k])}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
