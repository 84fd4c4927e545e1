// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf-convert/pkg/types"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		path := filepath.Join(root, r)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func collect(t *testing.T, root string, opts Options) []types.WorkItem {
	t.Helper()
	var items []types.WorkItem
	for item, err := range Walk(root, opts) {
		require.NoError(t, err)
		items = append(items, item)
	}
	return items
}

func relPaths(items []types.WorkItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.RelPath
	}
	return out
}

func TestWalk_Recursive(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "b.pdf", "a.PDF", "notes.txt", "a.csv", "sub/c.pdf", "sub/deeper/d.Pdf", "sub/e.pdf.bak")
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir.pdf"), 0o755))

	items := collect(t, root, Options{Recursive: true})
	assert.Equal(t, []string{
		"a.PDF",
		"b.pdf",
		filepath.Join("sub", "c.pdf"),
		filepath.Join("sub", "deeper", "d.Pdf"),
	}, relPaths(items))
}

func TestWalk_Flat(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.pdf", "b.pdf", "sub/c.pdf")

	items := collect(t, root, Options{Recursive: false})
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, relPaths(items))
}

func TestWalk_ItemFields(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "sub/report.final.pdf")

	items := collect(t, root, Options{Recursive: true, Meta: "csv"})
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, filepath.Join(root, "sub", "report.final.pdf"), it.Path)
	assert.Equal(t, "sub", it.RelDir)
	assert.Equal(t, "report.final.pdf", it.Name)
	assert.Equal(t, "report.final", it.BaseName)
	assert.Equal(t, filepath.Join(root, "sub", "report.final.csv"), it.MetaPath)
}

func TestWalk_RootItemsHaveDotRelDir(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.pdf")

	items := collect(t, root, Options{Recursive: true})
	require.Len(t, items, 1)
	assert.Equal(t, ".", items[0].RelDir)
	assert.Empty(t, items[0].MetaPath, "no companion without meta")
}

func TestWalk_ExcludesNestedTarget(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.pdf", "out/a.pdf", "out/sub/b.pdf", "keep/c.pdf")

	items := collect(t, root, Options{Recursive: true, Exclude: []string{filepath.Join(root, "out")}})
	assert.Equal(t, []string{"a.pdf", filepath.Join("keep", "c.pdf")}, relPaths(items))
}

func TestWalk_SymlinkedRoot(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf", "sub/b.pdf")
	link := filepath.Join(t.TempDir(), "source")
	if err := os.Symlink(dir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	tests := []struct {
		name      string
		recursive bool
		want      []string
	}{
		{name: "recursive", recursive: true, want: []string{"a.pdf", filepath.Join("sub", "b.pdf")}},
		{name: "flat", recursive: false, want: []string{"a.pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := collect(t, link, Options{Recursive: tt.recursive, Meta: "csv"})
			assert.Equal(t, tt.want, relPaths(items))
			for _, it := range items {
				assert.Equal(t, filepath.Join(link, it.RelPath), it.Path)
			}
			assert.Equal(t, filepath.Join(link, "a.csv"), items[0].MetaPath)
		})
	}
}

func TestWalk_ExcludesTargetThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.pdf", "out/a.pdf")
	link := filepath.Join(t.TempDir(), "source")
	if err := os.Symlink(dir, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	items := collect(t, link, Options{Recursive: true, Exclude: []string{filepath.Join(link, "out")}})
	assert.Equal(t, []string{"a.pdf"}, relPaths(items))
}

func TestBaseName(t *testing.T) {
	tests := map[string]string{
		"report.pdf":       "report",
		"report.final.pdf": "report.final",
		".pdf":             ".pdf",
		"..pdf":            "..pdf",
		".hidden.pdf":      ".hidden",
		"noext":            "noext",
	}
	for in, want := range tests {
		assert.Equal(t, want, BaseName(in), in)
	}
}

func TestWalk_DotPDFKeepsFullName(t *testing.T) {
	root := t.TempDir()
	touch(t, root, ".pdf")

	items := collect(t, root, Options{Recursive: true, Meta: "csv"})
	require.Len(t, items, 1)
	assert.Equal(t, ".pdf", items[0].BaseName)
	assert.Equal(t, filepath.Join(root, ".pdf.csv"), items[0].MetaPath)
}

func TestWalk_MissingRoot(t *testing.T) {
	for _, recursive := range []bool{true, false} {
		var errs int
		for _, err := range Walk(filepath.Join(t.TempDir(), "missing"), Options{Recursive: recursive}) {
			require.Error(t, err)
			errs++
		}
		assert.Equal(t, 1, errs)
	}
}

func TestWalk_StopsEarly(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.pdf", "b.pdf", "c.pdf")

	var seen int
	for range Walk(root, Options{Recursive: true}) {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF("a.pdf"))
	assert.True(t, IsPDF("A.PDF"))
	assert.False(t, IsPDF("a.pdfx"))
	assert.False(t, IsPDF("pdf"))
}
