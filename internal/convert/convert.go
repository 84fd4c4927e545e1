// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns the first page of a PDF into a JPEG file.
package convert

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"github.com/pdiddy/pdf-convert/internal/raster"
)

const jpgExt = ".jpg"

// Error reports a failed conversion. The item is abandoned; the run goes on.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("converting %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Result describes a written JPEG.
type Result struct {
	JPEGPath string

	// Pages is the source page count as reported by the renderer.
	Pages int
}

// Converter renders PDFs through a raster.Renderer and encodes JPEGs.
type Converter struct {
	renderer raster.Renderer
	dpi      int
	quality  int
}

// New returns a converter rendering at dpi and encoding at quality (1-100).
func New(r raster.Renderer, dpi, quality int) *Converter {
	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	return &Converter{renderer: r, dpi: dpi, quality: quality}
}

// Convert renders page one of pdfPath and writes targetDir/baseName.jpg,
// creating targetDir when needed. The JPEG appears under its final name
// only once it is completely written.
func (c *Converter) Convert(pdfPath, targetDir, baseName string) (Result, error) {
	page, err := c.renderer.RenderFirstPage(pdfPath, c.dpi)
	if err != nil {
		return Result{}, &Error{Path: pdfPath, Err: err}
	}
	if page.Image == nil {
		return Result{}, &Error{Path: pdfPath, Err: errors.New("renderer returned no image")}
	}

	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return Result{}, &Error{Path: pdfPath, Err: fmt.Errorf("creating %s: %w", targetDir, err)}
	}

	jpgPath := filepath.Join(targetDir, baseName+jpgExt)
	if err := writeJPEG(jpgPath, page.Image, c.quality); err != nil {
		return Result{}, &Error{Path: pdfPath, Err: err}
	}
	return Result{JPEGPath: jpgPath, Pages: page.Pages}, nil
}

// writeJPEG encodes img to a temp file next to path, then renames it.
func writeJPEG(path string, img image.Image, quality int) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if err := jpeg.Encode(tmp, img, &jpeg.Options{Quality: quality}); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s: %w", tmpPath, err)
	}
	return nil
}
