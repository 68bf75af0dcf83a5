package patcher

import (
	"bytes"
	"errors"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/sokinpui/docpatch/internal/fs"
	"github.com/sokinpui/docpatch/model"
)

var errNotRegular = errors.New("not a regular file")

// Patcher applies exact-match operations to files on an afero filesystem.
type Patcher struct {
	fs     afero.Fs
	logger *zap.SugaredLogger
	// DryRun runs every check and computes the result without writing.
	DryRun bool
}

// New creates a Patcher. A nil logger disables logging.
func New(fsys afero.Fs, logger *zap.SugaredLogger) *Patcher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Patcher{fs: fsys, logger: logger}
}

// Apply replaces every occurrence of op.Old in op.Path with op.New.
//
// The file is only written once all preconditions hold: op.Old must occur at
// least once, and exactly op.Count times when op.Count is positive. On any
// error the file content is unchanged.
func (p *Patcher) Apply(op model.Operation) (model.Result, error) {
	if op.Path == "" {
		return model.Result{}, ErrEmptyPath
	}
	if op.Old == "" {
		return model.Result{}, ErrEmptyPattern
	}

	p.logger.Debugw("applying patch", "path", op.Path, "old_len", len(op.Old), "new_len", len(op.New), "count", op.Count)

	info, err := p.fs.Stat(op.Path)
	if err != nil {
		return model.Result{}, &FileAccessError{Op: "stat", Path: op.Path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return model.Result{}, &FileAccessError{Op: "read", Path: op.Path, Err: errNotRegular}
	}

	content, err := afero.ReadFile(p.fs, op.Path)
	if err != nil {
		return model.Result{}, &FileAccessError{Op: "read", Path: op.Path, Err: err}
	}

	old := []byte(op.Old)
	found := bytes.Count(content, old)
	if found == 0 {
		return model.Result{}, &PatternNotFoundError{Path: op.Path, Pattern: op.Old}
	}
	if op.Count > 0 && found != op.Count {
		return model.Result{}, &OccurrenceMismatchError{Path: op.Path, Pattern: op.Old, Want: op.Count, Got: found}
	}

	updated := bytes.ReplaceAll(content, old, []byte(op.New))
	result := model.Result{
		Path:         op.Path,
		Replacements: found,
		BeforeSHA256: fs.SHA256(content),
		AfterSHA256:  fs.SHA256(updated),
	}

	if p.DryRun {
		p.logger.Debugw("dry run, skipping write", "path", op.Path, "replacements", found)
		return result, nil
	}

	if err := fs.WriteFileAtomic(p.fs, op.Path, updated, info.Mode().Perm()); err != nil {
		return model.Result{}, &FileAccessError{Op: "write", Path: op.Path, Err: err}
	}
	result.Written = true

	p.logger.Debugw("patch applied", "path", op.Path, "replacements", found, "sha256", result.AfterSHA256)
	return result, nil
}
