// Package render rasterizes PDF pages to images for OCR and AI-vision
// consumption. It never decides whether rendering is needed — callers
// (OCR tokenizer, AI fallback) own that decision and any DPI retry.
package render

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// BaselineDPI and RetryDPI are the two zoom levels the spec names (§4.2).
// The renderer itself is DPI-agnostic; these are conventional defaults for
// callers.
const (
	BaselineDPI = 300
	RetryDPI    = 400
)

// Image is a rendered page: PNG-encoded bytes plus declared format.
type Image struct {
	Bytes  []byte
	Format string // always "png"
	Width  int
	Height int
}

// Page renders page number (1-based) of the PDF at path, at the given DPI.
// Zoom factor is dpi/72, per spec §4.2.
func Page(path string, pageNumber int, dpi int) (*Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("render: opening %s: %w", path, err)
	}
	defer doc.Close()

	if pageNumber < 1 || pageNumber > doc.NumPage() {
		return nil, fmt.Errorf("render: page %d out of range (document has %d pages)", pageNumber, doc.NumPage())
	}

	img, err := doc.ImageDPI(pageNumber-1, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render: rasterizing page %d: %w", pageNumber, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("render: encoding page %d: %w", pageNumber, err)
	}

	bounds := img.Bounds()
	return &Image{
		Bytes:  buf.Bytes(),
		Format: "png",
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
