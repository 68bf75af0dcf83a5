package docpatch

import (
	"errors"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/sokinpui/docpatch/internal/patcher"
	"github.com/sokinpui/docpatch/model"
)

// Errors returned by Apply and ApplyOperation. Match them with errors.Is and errors.As.
type (
	PatternNotFoundError    = patcher.PatternNotFoundError
	OccurrenceMismatchError = patcher.OccurrenceMismatchError
	FileAccessError         = patcher.FileAccessError
)

var (
	ErrEmptyPattern = patcher.ErrEmptyPattern
	ErrEmptyPath    = patcher.ErrEmptyPath
)

// Process exit statuses used by the docpatch command.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitPatternError = 2
	ExitAccessError  = 3
)

// Options for using docpatch as a library.
type Options struct {
	// Check the operation without writing the file.
	DryRun bool
	// Filesystem to patch. Defaults to the OS filesystem.
	Fs     afero.Fs
	Logger *zap.SugaredLogger
}

// Apply replaces every occurrence of oldText in the file at path with newText.
// The file is left unchanged unless oldText is present.
func Apply(path, oldText, newText string) error {
	_, err := ApplyOperation(model.Operation{Path: path, Old: oldText, New: newText}, Options{})
	return err
}

// ApplyOperation applies op and reports what changed.
func ApplyOperation(op model.Operation, opts Options) (model.Result, error) {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	p := patcher.New(fsys, opts.Logger)
	p.DryRun = opts.DryRun
	return p.Apply(op)
}

// ExitCode maps an Execute or Apply error to the command's exit status.
func ExitCode(err error) int {
	var (
		notFound  *PatternNotFoundError
		mismatch  *OccurrenceMismatchError
		accessErr *FileAccessError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &notFound), errors.As(err, &mismatch):
		return ExitPatternError
	case errors.As(err, &accessErr):
		return ExitAccessError
	default:
		return ExitError
	}
}
