package docpatch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/sokinpui/docpatch/cli"
	"github.com/sokinpui/docpatch/internal/config"
	"github.com/sokinpui/docpatch/internal/fs"
	"github.com/sokinpui/docpatch/internal/parser"
	"github.com/sokinpui/docpatch/internal/patcher"
	"github.com/sokinpui/docpatch/internal/source"
	"github.com/sokinpui/docpatch/model"
)

var (
	// ErrEmptyRequest is returned when stdin and the clipboard hold nothing to apply.
	ErrEmptyRequest = errors.New("patch request is empty")

	// ErrNoTarget is returned when a patch request names no file and --file is not set.
	ErrNoTarget = errors.New("patch request names no file, pass --file")
)

// contentSource supplies a markdown patch request.
type contentSource interface {
	GetContent() (string, error)
}

// App orchestrates a single patch run.
type App struct {
	cfg          *cli.Config
	fs           afero.Fs
	logger       *zap.SugaredLogger
	pathResolver *fs.PathResolver
	source       contentSource
	patcher      *patcher.Patcher
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App working on fsys. A nil logger disables logging.
func New(cfg *cli.Config, fsys afero.Fs, logger *zap.SugaredLogger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	pathResolver, err := fs.NewPathResolver(fsys, cfg.LookupDirs)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize path resolver: %w", err)
	}

	p := patcher.New(fsys, logger)
	p.DryRun = cfg.DryRun

	return &App{
		cfg:          cfg,
		fs:           fsys,
		logger:       logger,
		pathResolver: pathResolver,
		source:       source.New(logger),
		patcher:      p,
	}, nil
}

// Execute builds the patch operation from the configured source and applies it.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	op, err := a.operation()
	if err != nil {
		return model.Summary{}, err
	}
	op.Path = a.pathResolver.Resolve(op.Path)

	result, err := a.patcher.Apply(op)
	if err != nil {
		summary = model.Summary{Failed: []string{op.Path}}
		a.relativizeSummaryPaths(&summary)
		return summary, err
	}

	summary = model.Summary{
		Patched: []string{result.Path},
		DryRun:  !result.Written,
		Result:  &result,
		Message: fmt.Sprintf("Replaced %d occurrence(s).", result.Replacements),
	}
	if summary.DryRun {
		summary.Message = fmt.Sprintf("Dry run: %d occurrence(s) would be replaced.", result.Replacements)
	}
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

// operation assembles the patch operation from whichever source the flags select.
func (a *App) operation() (model.Operation, error) {
	var (
		op  model.Operation
		err error
	)

	switch a.cfg.Mode() {
	case cli.ModePatchFile:
		op, err = config.LoadOperation(a.fs, a.cfg.PatchFile)
		if err != nil {
			return model.Operation{}, err
		}
	case cli.ModeFlags:
		op, err = a.operationFromFlags()
		if err != nil {
			return model.Operation{}, err
		}
	default:
		op, err = a.operationFromRequest()
		if err != nil {
			return model.Operation{}, err
		}
	}

	if a.cfg.Count > 0 {
		op.Count = a.cfg.Count
	}
	a.logger.Debugw("patch operation ready", "mode", a.cfg.Mode(), "path", op.Path, "count", op.Count)
	return op, nil
}

func (a *App) operationFromFlags() (model.Operation, error) {
	oldText, err := a.text(a.cfg.Old, a.cfg.OldFrom)
	if err != nil {
		return model.Operation{}, err
	}
	newText, err := a.text(a.cfg.New, a.cfg.NewFrom)
	if err != nil {
		return model.Operation{}, err
	}
	return model.Operation{Path: a.cfg.File, Old: oldText, New: newText}, nil
}

// text returns the literal value, or the content of fromPath when one is given.
func (a *App) text(literal, fromPath string) (string, error) {
	if fromPath == "" {
		return literal, nil
	}
	data, err := afero.ReadFile(a.fs, fromPath)
	if err != nil {
		return "", fmt.Errorf("failed to read text from '%s': %w", fromPath, err)
	}
	return string(data), nil
}

func (a *App) operationFromRequest() (model.Operation, error) {
	content, err := a.source.GetContent()
	if err != nil {
		return model.Operation{}, err
	}
	if content == "" {
		return model.Operation{}, ErrEmptyRequest
	}

	op, err := parser.ParseRequest(content)
	if err != nil {
		return model.Operation{}, err
	}
	if a.cfg.File != "" {
		op.Path = a.cfg.File
	}
	if op.Path == "" {
		return model.Operation{}, ErrNoTarget
	}
	return op, nil
}

// relativizeSummaryPaths converts absolute file paths in a summary to be
// relative to the current working directory for cleaner display.
func (a *App) relativizeSummaryPaths(summary *model.Summary) {
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	makeRelative := func(absPaths []string) []string {
		relPaths := make([]string, len(absPaths))
		for i, p := range absPaths {
			rel, err := filepath.Rel(wd, p)
			if err != nil {
				relPaths[i] = p
			} else {
				relPaths[i] = rel
			}
		}
		return relPaths
	}

	summary.Patched = makeRelative(summary.Patched)
	summary.Failed = makeRelative(summary.Failed)
}
