package output

import (
	"errors"
	"fmt"
)

var (
	ErrPersistence   = errors.New("failed to persist result")
	ErrCorruptRecord = errors.New("corrupt result record")
	ErrMissingField  = errors.New("result record missing field")
)

// PersistenceError wraps an I/O failure while appending a record.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s to %s: %v", ErrPersistence.Error(), e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// CorruptRecordError identifies a results line that could not be parsed.
// Line is 1-based.
type CorruptRecordError struct {
	Line int
	Err  error
}

func (e *CorruptRecordError) Error() string {
	return fmt.Sprintf("%s on line %d: %v", ErrCorruptRecord.Error(), e.Line, e.Err)
}

func (e *CorruptRecordError) Unwrap() []error { return []error{ErrCorruptRecord, e.Err} }

// MissingFieldError names the required field absent from a results line.
type MissingFieldError struct {
	Line  int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s %q on line %d", ErrMissingField.Error(), e.Field, e.Line)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }
