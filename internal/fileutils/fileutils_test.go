package fileutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
}

func TestFileAndDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "statement.pdf")
	touch(t, file)

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir), "directories are not files")
	assert.False(t, FileExists(filepath.Join(dir, "absent.pdf")))

	assert.True(t, DirectoryExists(dir))
	assert.False(t, DirectoryExists(file))
}

func TestEnsureDirectoryExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output", "2024")
	require.NoError(t, EnsureDirectoryExists(dir))
	assert.True(t, DirectoryExists(dir))

	// Idempotent on an existing directory.
	assert.NoError(t, EnsureDirectoryExists(dir))
}

func TestListFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "triangle-dec.PDF"))
	touch(t, filepath.Join(dir, "triangle-jan.pdf"))
	touch(t, filepath.Join(dir, "wealthsimple.csv"))
	touch(t, filepath.Join(dir, "notes.txt"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0750))

	files, err := ListFilesByExtension(dir, ".pdf", "csv")
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(dir, "triangle-dec.PDF"), files[0])
	assert.Equal(t, filepath.Join(dir, "triangle-jan.pdf"), files[1])
	assert.Equal(t, filepath.Join(dir, "wealthsimple.csv"), files[2])

	_, err = ListFilesByExtension(filepath.Join(dir, "missing"), ".pdf")
	assert.Error(t, err)
}

func TestListFilesByExtensionDescendsSubfolders(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "top.pdf"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "triangle"), 0750))
	touch(t, filepath.Join(dir, "triangle", "nested.pdf"))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "wealthsimple", "q1"), 0750))
	touch(t, filepath.Join(dir, "wealthsimple", "q1", "deep.csv"))

	files, err := ListFilesByExtension(dir, ".pdf", ".csv")
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Contains(t, files, filepath.Join(dir, "top.pdf"))
	assert.Contains(t, files, filepath.Join(dir, "triangle", "nested.pdf"))
	assert.Contains(t, files, filepath.Join(dir, "wealthsimple", "q1", "deep.csv"))
}

func TestBaseNameWithoutExt(t *testing.T) {
	assert.Equal(t, "triangle-dec", BaseNameWithoutExt("/data/2024/triangle-dec.pdf"))
	assert.Equal(t, "archive.tar", BaseNameWithoutExt("archive.tar.gz"))
	assert.Equal(t, "noext", BaseNameWithoutExt("noext"))
}
