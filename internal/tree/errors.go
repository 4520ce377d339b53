package tree

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDataset     = errors.New("dataset has no entries")
	ErrMalformedDataset = errors.New("malformed dataset")
)

// MalformedDatasetError reports input the builder refuses to turn into a tree.
type MalformedDatasetError struct {
	Depth  int
	Reason string
}

func (e *MalformedDatasetError) Error() string {
	if e == nil {
		return ""
	}
	if e.Reason == "" {
		return ErrMalformedDataset.Error()
	}
	return fmt.Sprintf("%s: %s (depth %d)", ErrMalformedDataset.Error(), e.Reason, e.Depth)
}

func (e *MalformedDatasetError) Unwrap() error { return ErrMalformedDataset }

func tooDeep(depth, limit int) error {
	return &MalformedDatasetError{
		Depth:  depth,
		Reason: fmt.Sprintf("nesting exceeds limit of %d", limit),
	}
}
