/*
PURPOSE:
  Result Store. Appends trial results to a JSON Lines file (NDJSON) and
  reads them back.

REQUIREMENTS:
  User-specified:
  - One JSON object per line, append-only.
  - Accept both the legacy German keys (Teilnehmer_in, Zeit, Datensatz,
    Eintrag) and the English keys (participant, dataset, entry, time).
  - Bad lines are reported with their 1-based line number, never skipped.

  Implementation-discovered:
  - JSON Lines is append-friendly; a crash mid-run loses at most one line.
  - The full line is marshalled into memory first and written with one
    Write call on an O_APPEND descriptor, so callers never see half a record.
  - Blank lines (hand-edited files) are skipped but still counted.

ARCHITECTURE INTEGRATION:
  - Called by: internal/trial.Session (Append), internal/cli (LoadAll).
  - Consumes/produces: internal/model.ResultRecord

ERROR HANDLING:
  - Append: *PersistenceError wrapping the cause.
  - Read: *CorruptRecordError / *MissingFieldError with the line number.

IMPLEMENTATION RULES:
  - Use encoding/json.
  - Thread-safe.
  - Never rewrite or reorder existing lines.

USAGE:
  s := output.NewStore("results.json", output.ShapeCanonical)
  err := s.Append(ctx, rec)
  recs, err := s.LoadAll()

RELATED FILES:
  - internal/model/types.go
  - internal/output/errors.go

MAINTENANCE:
  - Add new key aliases to the shape tables when older logs surface.
*/

package output

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/daryltucker/tree-trial/internal/model"
)

// Shape selects the field naming used when writing records.
type Shape string

const (
	// ShapeCanonical writes participant, dataset, entry, time.
	ShapeCanonical Shape = "canonical"
	// ShapeLegacy writes Teilnehmer_in, Zeit, Datensatz, Eintrag.
	ShapeLegacy Shape = "legacy"
)

// fieldNames lists the keys of one shape in participant, dataset, entry,
// time order.
type fieldNames [4]string

var (
	canonicalFields = fieldNames{"participant", "dataset", "entry", "time"}
	legacyFields    = fieldNames{"Teilnehmer_in", "Datensatz", "Eintrag", "Zeit"}
)

type legacyRecord struct {
	Participant string  `json:"Teilnehmer_in"`
	Time        float64 `json:"Zeit"`
	Dataset     string  `json:"Datensatz"`
	Entry       string  `json:"Eintrag"`
}

// maxLineSize bounds a single results line.
const maxLineSize = 1 << 20

// Store is an append-only results log on disk.
type Store struct {
	path  string
	shape Shape
	mu    sync.Mutex
}

// NewStore creates a Store for path. The file is created on first Append.
func NewStore(path string, shape Shape) *Store {
	if shape == "" {
		shape = ShapeCanonical
	}
	return &Store{path: path, shape: shape}
}

// Path returns the file backing the store.
func (s *Store) Path() string { return s.path }

// Append writes rec as one line at the end of the log.
func (s *Store) Append(ctx context.Context, rec model.ResultRecord) error {
	line, err := MarshalRecord(rec, s.shape)
	if err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return &PersistenceError{Path: s.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}

	Logger.Debug("Result appended", "path", s.path, "participant", rec.Participant, "time_s", rec.Time)
	return nil
}

// LoadAll reads every record in the store. A missing file holds no records.
func (s *Store) LoadAll() ([]model.ResultRecord, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open results %s: %w", s.path, err)
	}
	defer f.Close()
	return LoadAll(f)
}

// MarshalRecord encodes rec as a newline-terminated JSON line.
func MarshalRecord(rec model.ResultRecord, shape Shape) ([]byte, error) {
	var v any = rec
	if shape == ShapeLegacy {
		v = legacyRecord{Participant: rec.Participant, Time: rec.Time, Dataset: rec.Dataset, Entry: rec.Entry}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadAll reads records in file order and stops at the first bad line.
func LoadAll(r io.Reader) ([]model.ResultRecord, error) {
	rr := NewRecordReader(r)
	var records []model.ResultRecord
	for rr.Next() {
		rec, err := rr.Record()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rr.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// LoadLenient reads every line, returning the good records and one error per
// bad line. The final error is non-nil only if reading itself failed.
func LoadLenient(r io.Reader) ([]model.ResultRecord, []error, error) {
	rr := NewRecordReader(r)
	var records []model.ResultRecord
	var bad []error
	for rr.Next() {
		rec, err := rr.Record()
		if err != nil {
			bad = append(bad, err)
			continue
		}
		records = append(records, rec)
	}
	return records, bad, rr.Err()
}

// RecordReader iterates over a results log one line at a time.
type RecordReader struct {
	scanner *bufio.Scanner
	line    int
	rec     model.ResultRecord
	err     error
}

// NewRecordReader returns a reader over r.
func NewRecordReader(r io.Reader) *RecordReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &RecordReader{scanner: sc}
}

// Next advances to the next non-blank line.
func (rr *RecordReader) Next() bool {
	for rr.scanner.Scan() {
		rr.line++
		raw := bytes.TrimSpace(rr.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		rr.rec, rr.err = ParseRecord(raw, rr.line)
		return true
	}
	return false
}

// Record returns the current record or the error for the current line.
func (rr *RecordReader) Record() (model.ResultRecord, error) {
	return rr.rec, rr.err
}

// Line returns the 1-based number of the current line.
func (rr *RecordReader) Line() int { return rr.line }

// Err returns the first read error, if any.
func (rr *RecordReader) Err() error {
	if err := rr.scanner.Err(); err != nil {
		return &CorruptRecordError{Line: rr.line + 1, Err: err}
	}
	return nil
}

// ParseRecord decodes one results line in either accepted shape.
func ParseRecord(raw []byte, line int) (model.ResultRecord, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return model.ResultRecord{}, &CorruptRecordError{Line: line, Err: err}
	}
	if obj == nil {
		return model.ResultRecord{}, &CorruptRecordError{Line: line, Err: errors.New("not a JSON object")}
	}

	names, missing := pickShape(obj)
	if missing != "" {
		return model.ResultRecord{}, &MissingFieldError{Line: line, Field: missing}
	}

	var rec model.ResultRecord
	targets := []*string{&rec.Participant, &rec.Dataset, &rec.Entry}
	for i, dst := range targets {
		if err := json.Unmarshal(obj[names[i]], dst); err != nil {
			return model.ResultRecord{}, &CorruptRecordError{Line: line, Err: fmt.Errorf("field %q: %w", names[i], err)}
		}
	}
	if err := json.Unmarshal(obj[names[3]], &rec.Time); err != nil {
		return model.ResultRecord{}, &CorruptRecordError{Line: line, Err: fmt.Errorf("field %q: %w", names[3], err)}
	}
	if rec.Time < 0 {
		return model.ResultRecord{}, &CorruptRecordError{Line: line, Err: fmt.Errorf("field %q: negative time %v", names[3], rec.Time)}
	}
	return rec, nil
}

// pickShape returns the field names of the first complete shape. If neither
// is complete it names the first missing key of the shape the line most
// resembles.
func pickShape(obj map[string]json.RawMessage) (fieldNames, string) {
	shapes := []fieldNames{canonicalFields, legacyFields}
	for _, names := range shapes {
		if firstMissing(obj, names) == "" {
			return names, ""
		}
	}
	for _, names := range shapes {
		if hasAny(obj, names) {
			return names, firstMissing(obj, names)
		}
	}
	return canonicalFields, canonicalFields[0]
}

func firstMissing(obj map[string]json.RawMessage, names fieldNames) string {
	for _, n := range names {
		v, ok := obj[n]
		if !ok || string(v) == "null" {
			return n
		}
	}
	return ""
}

func hasAny(obj map[string]json.RawMessage, names fieldNames) bool {
	for _, n := range names {
		if _, ok := obj[n]; ok {
			return true
		}
	}
	return false
}
