package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const tempPattern = ".docpatch-*"

// PathResolver finds the file a patch targets.
type PathResolver struct {
	fs         afero.Fs
	lookupDirs []string
}

// NewPathResolver creates a new PathResolver. With no lookup directories,
// paths resolve against the current working directory.
func NewPathResolver(fsys afero.Fs, lookupDirs []string) (*PathResolver, error) {
	if len(lookupDirs) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get current working directory: %w", err)
		}
		return &PathResolver{fs: fsys, lookupDirs: []string{wd}}, nil
	}

	absDirs := make([]string, 0, len(lookupDirs))
	for _, dir := range lookupDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("invalid lookup directory '%s': %w", dir, err)
		}
		absDirs = append(absDirs, abs)
	}
	return &PathResolver{fs: fsys, lookupDirs: absDirs}, nil
}

// Resolve returns the first existing match for relativePath across the lookup
// directories. If nothing exists, the path under the first lookup directory is
// returned so the caller's read reports the missing file.
func (r *PathResolver) Resolve(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return relativePath
	}
	if existing := r.ResolveExisting(relativePath); existing != "" {
		return existing
	}
	return filepath.Join(r.lookupDirs[0], relativePath)
}

// ResolveExisting finds an absolute path only if the file exists.
func (r *PathResolver) ResolveExisting(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		if _, err := r.fs.Stat(relativePath); err == nil {
			return relativePath
		}
		return ""
	}
	for _, dir := range r.lookupDirs {
		absPath := filepath.Join(dir, relativePath)
		if _, err := r.fs.Stat(absPath); err == nil {
			return absPath
		}
	}
	return ""
}

// maxSymlinks bounds how many links WriteFileAtomic follows before giving up.
const maxSymlinks = 40

// WriteFileAtomic replaces the content of path with data. The bytes go to a
// temporary file next to path which is then renamed over it, so readers see
// either the old content or the new content, never a mix. The temporary file
// is removed on any failure.
//
// Symlinks are followed, so the file a link points to is replaced and the link
// itself stays. The target must be writable by the caller even though the
// rename itself only needs write access to the directory.
func WriteFileAtomic(fsys afero.Fs, path string, data []byte, perm os.FileMode) (err error) {
	target, err := ResolveSymlinks(fsys, path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err = checkWritable(fsys, target); err != nil {
		return err
	}

	tmp, err := afero.TempFile(fsys, filepath.Dir(target), tempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = fsys.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = fsys.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err = fsys.Rename(tmpName, target); err != nil {
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}
	return nil
}

// ResolveSymlinks follows path through every symlink the filesystem can
// report and returns the final path. Filesystems without link support return
// path unchanged.
func ResolveSymlinks(fsys afero.Fs, path string) (string, error) {
	lstater, ok := fsys.(afero.Lstater)
	if !ok {
		return path, nil
	}
	reader, ok := fsys.(afero.LinkReader)
	if !ok {
		return path, nil
	}

	for i := 0; i < maxSymlinks; i++ {
		info, lstatCalled, err := lstater.LstatIfPossible(path)
		if err != nil {
			return "", err
		}
		if !lstatCalled || info.Mode()&os.ModeSymlink == 0 {
			return path, nil
		}
		link, err := reader.ReadlinkIfPossible(path)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(link) {
			link = filepath.Join(filepath.Dir(path), link)
		}
		path = link
	}
	return "", fmt.Errorf("too many levels of symbolic links: %s", path)
}

// checkWritable opens path for writing without truncating it.
func checkWritable(fsys afero.Fs, path string) error {
	f, err := fsys.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("file is not writable: %w", err)
	}
	return f.Close()
}

// SHA256 returns the hex encoded SHA-256 digest of data.
func SHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
