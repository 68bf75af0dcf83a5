package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathResolver_Resolve(t *testing.T) {
	t.Parallel()

	first := t.TempDir()
	second := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(second, "guia.md"), []byte("x"), 0o644))

	r, err := NewPathResolver(afero.NewOsFs(), []string{first, second})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(second, "guia.md"), r.Resolve("guia.md"))
	assert.Equal(t, filepath.Join(second, "guia.md"), r.ResolveExisting("guia.md"))

	// Missing files resolve under the first lookup directory.
	assert.Equal(t, filepath.Join(first, "nuevo.md"), r.Resolve("nuevo.md"))
	assert.Empty(t, r.ResolveExisting("nuevo.md"))
}

func TestPathResolver_AbsolutePath(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/srv/docs/a.md", []byte("x"), 0o644))

	r, err := NewPathResolver(fsys, []string{"/elsewhere"})
	require.NoError(t, err)

	assert.Equal(t, "/srv/docs/a.md", r.Resolve("/srv/docs/a.md"))
	assert.Equal(t, "/srv/docs/a.md", r.ResolveExisting("/srv/docs/a.md"))
	assert.Equal(t, "/srv/docs/b.md", r.Resolve("/srv/docs/b.md"))
	assert.Empty(t, r.ResolveExisting("/srv/docs/b.md"))
}

func TestPathResolver_DefaultsToWorkingDirectory(t *testing.T) {
	t.Parallel()

	wd, err := os.Getwd()
	require.NoError(t, err)

	r, err := NewPathResolver(afero.NewMemMapFs(), nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "README.md"), r.Resolve("README.md"))
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/docs/a.md", []byte("old"), 0o644))

	require.NoError(t, WriteFileAtomic(fsys, "/docs/a.md", []byte("new content"), 0o640))

	data, err := afero.ReadFile(fsys, "/docs/a.md")
	require.NoError(t, err)
	assert.Equal(t, "new content", string(data))

	info, err := fsys.Stat("/docs/a.md")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	entries, err := afero.ReadDir(fsys, "/docs")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileAtomic_ReadOnly(t *testing.T) {
	t.Parallel()

	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, "/docs/a.md", []byte("old"), 0o644))

	err := WriteFileAtomic(afero.NewReadOnlyFs(base), "/docs/a.md", []byte("new"), 0o644)
	require.Error(t, err)

	data, err := afero.ReadFile(base, "/docs/a.md")
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestWriteFileAtomic_WriteProtectedTarget(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permission bits")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "flujo-bodas.md")
	require.NoError(t, os.WriteFile(path, []byte("hola mundo\n"), 0o444))

	err := WriteFileAtomic(afero.NewOsFs(), path, []byte("hola bodas\n"), 0o444)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hola mundo\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileAtomic_FollowsSymlink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "target", "flujo-bodas.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("hola mundo\n"), 0o644))
	link := filepath.Join(dir, "enlace.md")
	require.NoError(t, os.Symlink(filepath.Join("target", "flujo-bodas.md"), link))

	require.NoError(t, WriteFileAtomic(afero.NewOsFs(), link, []byte("hola bodas\n"), 0o644))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hola bodas\n", string(data))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink, "link must survive the write")

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestResolveSymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	first := filepath.Join(dir, "b.md")
	second := filepath.Join(dir, "c.md")
	require.NoError(t, os.Symlink(target, first))
	require.NoError(t, os.Symlink("b.md", second))

	got, err := ResolveSymlinks(afero.NewOsFs(), second)
	require.NoError(t, err)
	assert.Equal(t, target, got)

	// Filesystems without links return the path as given.
	got, err = ResolveSymlinks(afero.NewMemMapFs(), "/docs/a.md")
	require.NoError(t, err)
	assert.Equal(t, "/docs/a.md", got)
}

func TestResolveSymlinks_Loop(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.Symlink(b, a))
	require.NoError(t, os.Symlink(a, b))

	_, err := ResolveSymlinks(afero.NewOsFs(), a)
	require.Error(t, err)
}

func TestSHA256(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", SHA256(nil))
	assert.Equal(t, SHA256([]byte("bodas")), SHA256([]byte("bodas")))
	assert.NotEqual(t, SHA256([]byte("bodas")), SHA256([]byte("boda")))
}
