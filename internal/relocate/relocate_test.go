// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relocate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "in", "doc1.pdf")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("pdf"), 0o640))

	dstDir := filepath.Join(root, "out", "sub")
	dst, err := Move(src, dstDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dstDir, "doc1.pdf"), dst)
	assert.NoFileExists(t, src)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "pdf", string(data))
}

func TestMove_ReplacesExisting(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "doc.csv")
	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	dstDir := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(dstDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dstDir, "doc.csv"), []byte("old"), 0o644))

	dst, err := Move(src, dstDir)
	require.NoError(t, err)
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestMove_MissingSource(t *testing.T) {
	root := t.TempDir()
	_, err := Move(filepath.Join(root, "gone.pdf"), filepath.Join(root, "out"))
	require.Error(t, err)

	var moveErr *Error
	require.ErrorAs(t, err, &moveErr)
	assert.Equal(t, filepath.Join(root, "out", "gone.pdf"), moveErr.Dst)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMove_UncreatableTarget(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.pdf")
	require.NoError(t, os.WriteFile(src, []byte("pdf"), 0o644))
	blocker := filepath.Join(root, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := Move(src, filepath.Join(blocker, "sub"))
	var moveErr *Error
	require.ErrorAs(t, err, &moveErr)
	assert.FileExists(t, src, "source stays in place when the move fails")
}

func TestCopyFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "a.pdf")
	require.NoError(t, os.WriteFile(src, []byte("content"), 0o600))

	dst := filepath.Join(root, "b.pdf")
	require.NoError(t, copyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	assert.Error(t, copyFile(root, filepath.Join(root, "dir-copy")), "directories are refused")
}
