// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// FitzRenderer renders in-process with MuPDF.
type FitzRenderer struct{}

// NewFitzRenderer returns a MuPDF-backed renderer.
func NewFitzRenderer() *FitzRenderer {
	return &FitzRenderer{}
}

func (FitzRenderer) RenderFirstPage(pdfPath string, dpi int) (Page, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return Page{}, fmt.Errorf("opening %s: %w", pdfPath, err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if n < 1 {
		return Page{}, fmt.Errorf("%s has no pages", pdfPath)
	}

	img, err := doc.ImageDPI(0, float64(dpi))
	if err != nil {
		return Page{}, fmt.Errorf("rendering page 1 of %s: %w", pdfPath, err)
	}
	return Page{Image: img, Pages: n}, nil
}
