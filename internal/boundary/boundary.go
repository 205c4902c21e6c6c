// Package boundary partitions a possibly multi-invoice PDF into
// VirtualInvoices (spec §4.8).
package boundary

import (
	"regexp"

	"github.com/ramirent/faktura-extract/internal/model"
	"github.com/ramirent/faktura-extract/internal/routing"
)

// strongAnchor matches the "Faktura" keyword with an adjacent
// invoice-number candidate, the signal that a new invoice starts here.
var strongAnchor = regexp.MustCompile(`(?i)Faktura(?:nummer)?\D{0,20}(\d{4,})`)

// TokenSource supplies per-page text and tokens on demand. Tokens are
// fetched only for the source the Routing Oracle actually chose, so a
// page never gets rendered and OCR'd unless its text layer is
// insufficient.
type TokenSource interface {
	Text(page int) (string, error)
	Tokens(page int, source model.RoutingSource) ([]model.Token, error)
}

// Detect partitions pages 1..pageCount into VirtualInvoices. A new
// invoice starts on any page after the first whose text contains the
// strong anchor; consecutive pages without a new anchor continue the
// current invoice. Returns the per-page routing decisions alongside the
// invoices, for the run summary (spec §6.3).
func Detect(filename string, pageCount int, src TokenSource, cfg routing.Config) ([]model.VirtualInvoice, []model.PageRoutingDecision, error) {
	if pageCount == 0 {
		return nil, nil, nil
	}

	var invoices []model.VirtualInvoice
	var decisions []model.PageRoutingDecision
	curStart := 1
	index := 1

	for page := 1; page <= pageCount; page++ {
		text, err := src.Text(page)
		if err != nil {
			return nil, nil, err
		}

		probe := routing.Decide(routing.Input{Page: page, Text: text}, cfg)
		tokens, err := src.Tokens(page, probe.Source)
		if err != nil {
			return nil, nil, err
		}
		decisions = append(decisions, routing.Decide(routing.Input{Page: page, Text: text, Tokens: tokens}, cfg))

		if page > 1 && strongAnchor.MatchString(text) {
			invoices = append(invoices, model.VirtualInvoice{
				Index: index,
				Pages: model.PageRange{Start: curStart, End: page - 1},
				ID:    model.NewVirtualInvoiceID(filename, index),
			})
			index++
			curStart = page
		}
	}

	invoices = append(invoices, model.VirtualInvoice{
		Index: index,
		Pages: model.PageRange{Start: curStart, End: pageCount},
		ID:    model.NewVirtualInvoiceID(filename, index),
	})
	return invoices, decisions, nil
}
