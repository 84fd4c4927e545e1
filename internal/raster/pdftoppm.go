// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"strconv"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/pdf-convert/internal/container"
)

const pdftoppmBin = "pdftoppm"

// PdftoppmRenderer pipes the PDF through poppler's pdftoppm. It depends on a
// container.Runtime injected at construction time: the host runtime runs
// the pdftoppm binary, docker or podman run it inside an image.
type PdftoppmRenderer struct {
	runtime container.Runtime
	image   string
	prefix  []string
}

// NewPdftoppmRenderer creates a renderer that runs pdftoppm through rt.
// For the host runtime image is the binary name; otherwise it is a
// container image that has pdftoppm on its PATH. It verifies that the
// image exists before returning.
func NewPdftoppmRenderer(rt container.Runtime, image string) (*PdftoppmRenderer, error) {
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("pdftoppm not available in %s: %w", rt.Name(), err)
	}
	r := &PdftoppmRenderer{runtime: rt, image: image}
	if image != pdftoppmBin {
		r.prefix = []string{pdftoppmBin}
	}
	return r, nil
}

// RenderFirstPage writes page one as PNG to stdout and decodes it.
func (p *PdftoppmRenderer) RenderFirstPage(pdfPath string, dpi int) (Page, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return Page{}, fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	args := make([]string, 0, len(p.prefix)+10)
	args = append(args, p.prefix...)
	args = append(args,
		"-png", "-singlefile",
		"-f", "1", "-l", "1",
		"-r", strconv.Itoa(dpi),
		"-",
	)

	var out bytes.Buffer
	if err := p.runtime.Run(p.image, args, f, &out); err != nil {
		return Page{}, fmt.Errorf("rendering %s with pdftoppm: %w", pdfPath, err)
	}
	if out.Len() == 0 {
		return Page{}, fmt.Errorf("pdftoppm produced empty output for %s", pdfPath)
	}

	img, err := png.Decode(&out)
	if err != nil {
		return Page{}, fmt.Errorf("decoding pdftoppm output for %s: %w", pdfPath, err)
	}
	return Page{Image: img, Pages: CountPages(pdfPath)}, nil
}

// CountPages returns the page count of the PDF at path, or 0 when the
// document cannot be parsed.
func CountPages(path string) (n int) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if recover() != nil {
			n = 0
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	return r.NumPage()
}
