// Package model defines the core entities of the extraction pipeline:
// documents, tokens, rows, segments, virtual invoices, and the header/line/
// validation records produced while walking a PDF from bytes to a
// validated invoice.
package model

// Page is one page of a Document. Page numbers are 1-based and unique
// within a Document.
type Page struct {
	Number int
	Width  float64
	Height float64

	doc *Document
}

// Document returns the owning Document. The back-reference is weak: the
// Document, not the Page, controls the lifetime of this relationship.
func (p *Page) Document() *Document {
	return p.doc
}

// Document is an opened PDF: an ordered, immutable list of Pages.
type Document struct {
	Path  string
	Pages []*Page
}

// NewDocument builds a Document from already-constructed pages, wiring
// each Page's back-reference. Page numbers must already be set and unique;
// NewDocument does not renumber them.
func NewDocument(path string, pages []*Page) *Document {
	doc := &Document{Path: path, Pages: pages}
	for _, pg := range pages {
		pg.doc = doc
	}
	return doc
}

// PageCount returns len(Pages).
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Page returns the page with the given 1-based number, or nil if out of
// range.
func (d *Document) Page(number int) *Page {
	if number < 1 || number > len(d.Pages) {
		return nil
	}
	return d.Pages[number-1]
}
