// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package raster renders the first page of a PDF to an image. Backends:
// MuPDF through go-fitz, and poppler's pdftoppm run on the host or in a
// container.
package raster

import (
	"fmt"
	"image"

	"github.com/pdiddy/pdf-convert/internal/container"
	"github.com/pdiddy/pdf-convert/pkg/types"
)

// Page is a rendered first page.
type Page struct {
	Image image.Image

	// Pages is the document's page count, 0 when unknown. Pages after the
	// first are never rendered.
	Pages int
}

// Renderer rasterizes page one of a PDF. Different backends (fitz,
// pdftoppm) implement this interface.
type Renderer interface {
	// RenderFirstPage renders the first page of the PDF at pdfPath at the
	// given resolution.
	RenderFirstPage(pdfPath string, dpi int) (Page, error)
}

// New builds the renderer selected by cfg.
func New(cfg types.ImageConfig) (Renderer, error) {
	switch cfg.Renderer {
	case types.RendererFitz, "":
		return NewFitzRenderer(), nil
	case types.RendererPdftoppm:
		if !cfg.Container {
			return NewPdftoppmRenderer(container.Host(), pdftoppmBin)
		}
		rt, err := container.DetectRuntime()
		if err != nil {
			return nil, err
		}
		return NewPdftoppmRenderer(rt, cfg.PopplerImage)
	default:
		return nil, fmt.Errorf("unknown renderer %q", cfg.Renderer)
	}
}
