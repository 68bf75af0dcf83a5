package patcher

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPattern is returned when the old text of an operation is empty.
	ErrEmptyPattern = errors.New("old text cannot be empty")

	// ErrEmptyPath is returned when an operation names no file.
	ErrEmptyPath = errors.New("file path cannot be empty")
)

// PatternNotFoundError reports that the expected old text is not in the file.
// The file has not been modified.
type PatternNotFoundError struct {
	Path    string
	Pattern string
}

func (e *PatternNotFoundError) Error() string {
	return fmt.Sprintf("pattern not found in %s: %q", e.Path, e.Pattern)
}

// OccurrenceMismatchError reports that the old text occurs a different number
// of times than the operation requires. The file has not been modified.
type OccurrenceMismatchError struct {
	Path    string
	Pattern string
	Want    int
	Got     int
}

func (e *OccurrenceMismatchError) Error() string {
	return fmt.Sprintf("expected %d occurrence(s) of %q in %s, found %d", e.Want, e.Pattern, e.Path, e.Got)
}

// FileAccessError wraps a failure to stat, read or write the target file.
type FileAccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}
