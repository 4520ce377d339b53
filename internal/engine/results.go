package engine

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/daryltucker/tree-trial/internal/model"
	"github.com/daryltucker/tree-trial/internal/output"
	"golang.org/x/sync/errgroup"
)

// FileError ties a per-line results error to the file it came from.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }

func (e *FileError) Unwrap() error { return e.Err }

// LoadResults reads the given results files in parallel and concatenates
// their records in argument order. In strict mode the first bad line of any
// file fails the load. In lenient mode bad lines are returned as
// *FileError values and loading continues.
func LoadResults(ctx context.Context, paths []string, lenient bool) ([]model.ResultRecord, []error, error) {
	perFile := make([][]model.ResultRecord, len(paths))
	badPerFile := make([][]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open results %s: %w", path, err)
			}
			defer f.Close()

			if !lenient {
				recs, err := output.LoadAll(f)
				if err != nil {
					return &FileError{Path: path, Err: err}
				}
				perFile[i] = recs
				return nil
			}

			recs, bad, err := output.LoadLenient(f)
			if err != nil {
				return &FileError{Path: path, Err: err}
			}
			perFile[i] = recs
			for _, b := range bad {
				badPerFile[i] = append(badPerFile[i], &FileError{Path: path, Err: b})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var records []model.ResultRecord
	var bad []error
	for i := range paths {
		records = append(records, perFile[i]...)
		bad = append(bad, badPerFile[i]...)
	}
	for _, b := range bad {
		var ce *output.CorruptRecordError
		if errors.As(b, &ce) {
			output.Logger.Warn("Skipping corrupt record", "error", b)
		} else {
			output.Logger.Warn("Skipping incomplete record", "error", b)
		}
	}
	return records, bad, nil
}
