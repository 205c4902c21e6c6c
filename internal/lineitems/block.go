// Package lineitems parses an invoice's product rows into InvoiceLines
// (spec §4.10): table-block delimitation, footer-row filtering, Mode A
// (text/VAT-anchored parsing) with wrap detection, and a Mode B
// position/column-clustering fallback.
package lineitems

import (
	"regexp"

	"github.com/ramirent/faktura-extract/internal/model"
)

var tableHeaderNetto = regexp.MustCompile(`(?i)nettobelopp`)
var tableHeaderItemWords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)artikelnr`),
	regexp.MustCompile(`(?i)artikel`),
	regexp.MustCompile(`(?i)benämning`),
}
var tableBlockEnd = regexp.MustCompile(`(?i)nettobelopp\s+exkl\.?\s*moms`)

var hardFooterKeywords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)summa att betala`),
	regexp.MustCompile(`(?i)totalt`),
	regexp.MustCompile(`(?i)delsumma`),
	regexp.MustCompile(`(?i)nettobelopp`),
	regexp.MustCompile(`(?i)fakturabelopp`),
	regexp.MustCompile(`(?i)moms`),
	regexp.MustCompile(`(?i)exkl\.?\s*moms`),
	regexp.MustCompile(`(?i)inkl\.?\s*moms`),
}

var softFooterKeywords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)summa`),
	regexp.MustCompile(`(?i)exkl`),
	regexp.MustCompile(`(?i)inkl`),
	regexp.MustCompile(`(?i)förskott`),
	regexp.MustCompile(`(?i)fraktavgift`),
	regexp.MustCompile(`(?i)avgift`),
}

var largeAmountSignal = regexp.MustCompile(`\b\d{1,3}(?:[ \x{00A0}]\d{3})*[.,]\d{2}\b`)

// DelimitBlock finds the [start,end) row-index range of actual product
// rows within segment rows (spec §4.10). If no header row is found it
// returns the whole range with ok=false ("no-table-boundary").
func DelimitBlock(rows []model.Row) (start, end int, ok bool) {
	headerIdx := -1
	for i, r := range rows {
		text := r.Text()
		if tableHeaderNetto.MatchString(text) && matchesAny(tableHeaderItemWords, text) {
			headerIdx = i
			break
		}
	}
	if headerIdx == -1 {
		return 0, len(rows), false
	}

	end = len(rows)
	for i := headerIdx + 1; i < len(rows); i++ {
		if tableBlockEnd.MatchString(rows[i].Text()) {
			end = i
			break
		}
	}
	return headerIdx + 1, end, true
}

// IsFooterRow reports whether row is a footer row per the two-tier
// keyword rejection (spec §4.10).
func IsFooterRow(r model.Row) bool {
	text := r.Text()
	if matchesAny(hardFooterKeywords, text) {
		return true
	}
	if matchesAny(softFooterKeywords, text) && largeAmountSignal.MatchString(text) {
		return true
	}
	return false
}

// IsTableHeaderRow reports whether row is the table's own header row
// (e.g. "Artikelnr Benämning Antal Enhet Á-pris ... Nettobelopp").
func IsTableHeaderRow(r model.Row) bool {
	text := r.Text()
	return tableHeaderNetto.MatchString(text) && matchesAny(tableHeaderItemWords, text)
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
