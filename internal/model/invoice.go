package model

import "fmt"

// PageRange is an inclusive [Start,End] page range within a Document.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// VirtualInvoice is one logical invoice inside a (possibly multi-invoice)
// PDF, identified by an invoice-number anchor and a page range.
type VirtualInvoice struct {
	Index int       `json:"index"`
	Pages PageRange `json:"pages"`
	ID    string    `json:"id"`

	Header     *InvoiceHeader    `json:"header"`
	Lines      []InvoiceLine     `json:"lines"`
	Validation *ValidationResult `json:"validation"`
	Extraction *ExtractionDetail `json:"extraction"`
}

// NewVirtualInvoiceID builds the id "{filename}__{index}" used across the
// pipeline and the artefact layout.
func NewVirtualInvoiceID(filename string, index int) string {
	return fmt.Sprintf("%s__%d", filename, index)
}

// Traceability proves where an extracted field came from: the page, the
// bounding box enclosing the source tokens, a short text excerpt, and the
// source tokens themselves.
type Traceability struct {
	Page         int     `json:"page"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	W            float64 `json:"w"`
	H            float64 `json:"h"`
	TextExcerpt  string  `json:"text_excerpt"`
	SourceTokens []Token `json:"source_tokens"`
}

// NewTraceability builds a Traceability record whose bbox encloses all of
// the given tokens (testable property 8).
func NewTraceability(page int, tokens []Token, excerpt string) Traceability {
	if len(tokens) == 0 {
		return Traceability{Page: page, TextExcerpt: excerpt}
	}
	xmin, ymin := tokens[0].X, tokens[0].Y
	xmax, ymax := tokens[0].X+tokens[0].W, tokens[0].Y+tokens[0].H
	for _, t := range tokens[1:] {
		if t.X < xmin {
			xmin = t.X
		}
		if t.Y < ymin {
			ymin = t.Y
		}
		if t.X+t.W > xmax {
			xmax = t.X + t.W
		}
		if t.Y+t.H > ymax {
			ymax = t.Y + t.H
		}
	}
	return Traceability{
		Page:         page,
		X:            xmin,
		Y:            ymin,
		W:            xmax - xmin,
		H:            ymax - ymin,
		TextExcerpt:  excerpt,
		SourceTokens: tokens,
	}
}
