// Package footer scans an invoice's footer rows for the net total and
// the grand (to-pay) total (spec §4.11).
package footer

import (
	"regexp"

	sdecimal "github.com/shopspring/decimal"

	"github.com/ramirent/faktura-extract/internal/decimal"
	"github.com/ramirent/faktura-extract/internal/model"
)

var nettoKeyword = regexp.MustCompile(`(?i)Nettobelopp exkl\.?\s*moms`)
var toPayKeywords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Att betala`),
	regexp.MustCompile(`(?i)Summa att betala`),
}

// Totals is the Footer/Totals Extractor's result. Either value may be
// absent when its keyword was not found.
type Totals struct {
	NetTotal      *sdecimal.Decimal
	NetTrace      *model.Traceability
	ToPayTotal    *sdecimal.Decimal
	ToPayTrace    *model.Traceability
}

// Extract scans rows (expected to be the footer rows of an invoice's
// last page(s)) for the net total and grand total.
func Extract(rows []model.Row) Totals {
	var t Totals
	for _, r := range rows {
		text := r.Text()
		if t.NetTotal == nil && nettoKeyword.MatchString(text) {
			if amt, toks, ok := lastAmount(r); ok {
				t.NetTotal = &amt
				trace := model.NewTraceability(r.Page(), toks, text)
				t.NetTrace = &trace
			}
		}
		if t.ToPayTotal == nil && matchesAny(toPayKeywords, text) {
			if amt, toks, ok := lastAmount(r); ok {
				t.ToPayTotal = &amt
				trace := model.NewTraceability(r.Page(), toks, text)
				t.ToPayTrace = &trace
			}
		}
	}
	return t
}

func lastAmount(r model.Row) (sdecimal.Decimal, []model.Token, bool) {
	for i := len(r.Tokens) - 1; i >= 0; i-- {
		t := r.Tokens[i]
		amt, err := decimal.NormalizeSwedishAmount(t.Text)
		if err == nil {
			return amt, []model.Token{t}, true
		}
	}
	return sdecimal.Zero, nil, false
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
