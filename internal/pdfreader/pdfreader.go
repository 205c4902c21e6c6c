// Package pdfreader opens a PDF file and yields a model.Document describing
// its pages. It is the only layer allowed to fail with a CorruptPdfError.
package pdfreader

import (
	"fmt"

	"github.com/ledongthuc/pdf"
	pdfcpuapi "github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/ramirent/faktura-extract/internal/model"
)

// Open validates the file structurally with pdfcpu, then reads page
// dimensions with ledongthuc/pdf. Both failures are reported as
// *model.CorruptPdfError.
func Open(path string) (*model.Document, error) {
	conf := pdfcpumodel.NewDefaultConfiguration()
	if err := pdfcpuapi.ValidateFile(path, conf); err != nil {
		return nil, &model.CorruptPdfError{Path: path, Message: "structural validation failed", Cause: err}
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &model.CorruptPdfError{Path: path, Message: "could not open PDF", Cause: err}
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages < 1 {
		return nil, &model.CorruptPdfError{Path: path, Message: "document has no pages"}
	}

	pages := make([]*model.Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		pg := r.Page(i)
		if pg.V.IsNull() {
			return nil, &model.CorruptPdfError{Path: path, Message: fmt.Sprintf("page %d is null", i)}
		}
		w, h := pageDimensions(pg)
		if w <= 0 || h <= 0 {
			return nil, &model.CorruptPdfError{Path: path, Message: fmt.Sprintf("page %d has invalid dimensions", i)}
		}
		pages = append(pages, &model.Page{Number: i, Width: w, Height: h})
	}

	return model.NewDocument(path, pages), nil
}

// pageDimensions reads the page's MediaBox, falling back to A4 (595x842 pt)
// when the box is absent or degenerate.
func pageDimensions(pg pdf.Page) (float64, float64) {
	box := pg.V.Key("MediaBox")
	if box.Kind() != pdf.Array || box.Len() != 4 {
		return 595, 842
	}
	x0, y0, x1, y1 := box.Index(0).Float64(), box.Index(1).Float64(), box.Index(2).Float64(), box.Index(3).Float64()
	w, h := x1-x0, y1-y0
	if w <= 0 || h <= 0 {
		return 595, 842
	}
	return w, h
}
