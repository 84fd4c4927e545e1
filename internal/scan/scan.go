// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan enumerates the PDF files of a source directory as work items.
package scan

import (
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pdf-convert/pkg/types"
)

const pdfExt = ".pdf"

// Options controls a walk.
type Options struct {
	// Recursive descends into subdirectories. Otherwise only the immediate
	// entries of the root are listed.
	Recursive bool

	// Meta is the companion extension. When set, each item carries the
	// expected companion path.
	Meta string

	// Exclude lists directories that are never descended, typically a
	// target tree nested inside the source.
	Exclude []string
}

// IsPDF reports whether name ends in .pdf, ignoring case.
func IsPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), pdfExt)
}

// Walk yields the PDF files under root in lexical order. The sequence is
// lazy and single-use: each iteration reads the directory tree again.
// Unreadable directories are yielded as errors and the walk moves on.
// Entries that are not regular files are ignored. A root that is a
// symlink to a directory is followed; item paths stay under root.
func Walk(root string, opts Options) iter.Seq2[types.WorkItem, error] {
	return func(yield func(types.WorkItem, error) bool) {
		if !opts.Recursive {
			walkFlat(root, opts.Meta, yield)
			return
		}

		walkRoot, err := filepath.EvalSymlinks(root)
		if err != nil {
			yield(types.WorkItem{}, fmt.Errorf("walking %s: %w", root, err))
			return
		}

		err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == walkRoot {
					return err
				}
				if !yield(types.WorkItem{}, fmt.Errorf("reading %s: %w", path, err)) {
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != walkRoot && isExcluded(opts.Exclude, path) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !IsPDF(d.Name()) {
				return nil
			}
			rel, err := filepath.Rel(walkRoot, path)
			if err != nil {
				return nil
			}
			item, err := NewItem(root, filepath.Join(root, rel), opts.Meta)
			if !yield(item, err) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			yield(types.WorkItem{}, fmt.Errorf("walking %s: %w", root, err))
		}
	}
}

func walkFlat(root, meta string, yield func(types.WorkItem, error) bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		yield(types.WorkItem{}, fmt.Errorf("reading directory %s: %w", root, err))
		return
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsPDF(entry.Name()) {
			continue
		}
		item, err := NewItem(root, filepath.Join(root, entry.Name()), meta)
		if !yield(item, err) {
			return
		}
	}
}

// NewItem describes the PDF at path, found under root. When meta is not
// empty the companion path <dir>/<base>.<meta> is filled in.
func NewItem(root, path, meta string) (types.WorkItem, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return types.WorkItem{}, fmt.Errorf("relative path of %s: %w", path, err)
	}
	name := filepath.Base(path)
	base := BaseName(name)

	item := types.WorkItem{
		Path:     path,
		RelPath:  rel,
		RelDir:   filepath.Dir(rel),
		Name:     name,
		BaseName: base,
	}
	if meta != "" {
		item.MetaPath = item.CompanionPath(meta)
	}
	return item, nil
}

// BaseName strips the extension from name. Leading dots do not start an
// extension, so ".pdf" is its own base name and ".a.pdf" has base ".a".
func BaseName(name string) string {
	ext := filepath.Ext(strings.TrimLeft(name, "."))
	return strings.TrimSuffix(name, ext)
}

// isExcluded compares resolved paths, so an excluded directory created
// during the walk or named through a symlink still matches.
func isExcluded(excluded []string, dir string) bool {
	if len(excluded) == 0 {
		return false
	}
	resolved := resolve(dir)
	for _, ex := range excluded {
		if resolve(ex) == resolved {
			return true
		}
	}
	return false
}

// resolve returns the absolute, symlink-free form of path, or the absolute
// form alone when path does not exist.
func resolve(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if target, err := filepath.EvalSymlinks(abs); err == nil {
		return target
	}
	return abs
}
