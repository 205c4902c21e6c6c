// Package header extracts an invoice's number, total amount, supplier,
// and date from its header rows (spec §4.9), sealing the result through
// Builder into an immutable model.InvoiceHeader.
package header

import (
	"regexp"
	"strings"

	sdecimal "github.com/shopspring/decimal"

	"github.com/ramirent/faktura-extract/internal/decimal"
	"github.com/ramirent/faktura-extract/internal/model"
)

var invoiceNumberLabels = []*regexp.Regexp{
	regexp.MustCompile(`(?i)fakturanummer`),
	regexp.MustCompile(`(?i)fakt\.?\s*nr`),
	regexp.MustCompile(`(?i)faktura\s*nr`),
	regexp.MustCompile(`(?i)invoice\s*number`),
	regexp.MustCompile(`(?i)inv\s*no`),
}

var invoiceNumberPrimary = regexp.MustCompile(`\b\d{6,10}\b`)
var invoiceNumberFallback = regexp.MustCompile(`\b\d{5,12}\b`)

var totalKeywords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)att betala`),
	regexp.MustCompile(`(?i)summa att betala`),
	regexp.MustCompile(`(?i)totalt`),
	regexp.MustCompile(`(?i)total\b`),
}

var fakturadatumLabel = regexp.MustCompile(`(?i)fakturadatum`)

var dateISO = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
var dateDMYSlash = regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`)
var dateDMYDot = regexp.MustCompile(`\b\d{2}\.\d{2}\.\d{4}\b`)

var swedishMonths = map[string]string{
	"januari": "01", "februari": "02", "mars": "03", "april": "04",
	"maj": "05", "juni": "06", "juli": "07", "augusti": "08",
	"september": "09", "oktober": "10", "november": "11", "december": "12",
}
var dateSwedishMonth = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(januari|februari|mars|april|maj|juni|juli|augusti|september|oktober|november|december)\s+(\d{4})\b`)

// Extract runs the invoice-number, total, supplier, and date strategies
// over a VirtualInvoice's header rows and seals the result. It never
// returns an error: every field is best-effort, and a low-confidence
// candidate is still recorded rather than discarded (spec §4.9).
func Extract(rows []model.Row, pageWidth, pageHeight float64) *model.InvoiceHeader {
	b := NewBuilder()

	num, numConf, numTrace := extractInvoiceNumber(rows, pageHeight)
	b.WithInvoiceNumber(num, numConf, numTrace)

	total, totalConf, totalTrace := extractTotal(rows)
	b.WithTotal(total, totalConf, totalTrace)

	b.WithSupplier(extractSupplier(rows, pageWidth))
	b.WithDate(extractDate(rows))

	return b.Seal()
}

func extractInvoiceNumber(rows []model.Row, pageHeight float64) (string, float64, *model.Traceability) {
	for _, r := range rows {
		text := r.Text()
		if !matchesAny(invoiceNumberLabels, text) {
			continue
		}
		if v, toks := findAmountLikeValue(r, invoiceNumberPrimary); v != "" {
			return v, 0.97, model.NewTraceability(r.Page(), toks, r.Text())
		}
	}

	// label hit on one row, value on the next 1-2 rows
	for i, r := range rows {
		if !matchesAny(invoiceNumberLabels, r.Text()) {
			continue
		}
		for j := i + 1; j < len(rows) && j <= i+2; j++ {
			if v, toks := findAmountLikeValue(rows[j], invoiceNumberPrimary); v != "" {
				return v, 0.93, model.NewTraceability(rows[j].Page(), toks, rows[j].Text())
			}
		}
		if v, toks := findAmountLikeValue(rows[i], invoiceNumberFallback); v != "" {
			return v, 0.80, model.NewTraceability(rows[i].Page(), toks, rows[i].Text())
		}
	}

	// no label hit: scan top 25% of the page for a plausible run
	for _, r := range rows {
		if pageHeight > 0 && r.Y/pageHeight > 0.25 {
			continue
		}
		if v, toks := findAmountLikeValue(r, invoiceNumberFallback); v != "" && plausibleInvoiceNumber(v) {
			return v, 0.55, model.NewTraceability(r.Page(), toks, r.Text())
		}
	}
	return "", 0, nil
}

// plausibleInvoiceNumber rejects a 4-digit run in the range 1900-2100
// (a year) and accepts everything else. Values from the fallback pattern
// have at least 5 digits, so for those it accepts every run; dates,
// amounts and postal codes are not checked.
func plausibleInvoiceNumber(v string) bool {
	if len(v) == 4 {
		if v >= "1900" && v <= "2100" {
			return false
		}
	}
	return true
}

func findAmountLikeValue(r model.Row, pattern *regexp.Regexp) (string, []model.Token) {
	text := r.Text()
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return "", nil
	}
	value := text[loc[0]:loc[1]]
	var toks []model.Token
	for _, t := range r.Tokens {
		if strings.Contains(value, t.Text) {
			toks = append(toks, t)
		}
	}
	return value, toks
}

func extractTotal(rows []model.Row) (*float64, float64, *model.Traceability) {
	for _, r := range rows {
		text := r.Text()
		if !matchesAny(totalKeywords, text) {
			continue
		}
		amt, toks, ok := lastAmountOnRow(r)
		if ok {
			f, _ := amt.Float64()
			return &f, 0.97, model.NewTraceability(r.Page(), toks, r.Text())
		}
	}
	return nil, 0, nil
}

func lastAmountOnRow(r model.Row) (d sdecimal.Decimal, toks []model.Token, ok bool) {
	for i := len(r.Tokens) - 1; i >= 0; i-- {
		t := r.Tokens[i]
		amt, err := decimal.NormalizeSwedishAmount(t.Text)
		if err == nil {
			return amt, []model.Token{t}, true
		}
	}
	return sdecimal.Zero, nil, false
}

func extractSupplier(rows []model.Row, pageWidth float64) string {
	for _, r := range rows {
		text := strings.TrimSpace(r.Text())
		if text == "" {
			continue
		}
		if looksLikeAddress(text) {
			continue
		}
		if isMostlyUpper(text) {
			return text
		}
	}
	for _, r := range rows {
		text := strings.TrimSpace(r.Text())
		if text != "" && !looksLikeAddress(text) {
			return text
		}
	}
	return ""
}

var addressWords = []string{"box", "gatan", "vägen", "postnummer", "se-", "sverige"}

func looksLikeAddress(text string) bool {
	lower := strings.ToLower(text)
	for _, w := range addressWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func isMostlyUpper(text string) bool {
	letters, upper := 0, 0
	for _, r := range text {
		if r >= 'A' && r <= 'Z' {
			letters++
			upper++
		} else if r >= 'a' && r <= 'z' {
			letters++
		}
	}
	return letters > 0 && float64(upper)/float64(letters) > 0.6
}

func extractDate(rows []model.Row) *string {
	for i, r := range rows {
		if !fakturadatumLabel.MatchString(r.Text()) {
			continue
		}
		if d := findDate(r.Text()); d != "" {
			return &d
		}
		for j := i + 1; j < len(rows) && j <= i+2; j++ {
			if d := findDate(rows[j].Text()); d != "" {
				return &d
			}
		}
	}
	for _, r := range rows {
		if d := findDate(r.Text()); d != "" {
			return &d
		}
	}
	return nil
}

func findDate(text string) string {
	if m := dateISO.FindString(text); m != "" {
		return m
	}
	if m := dateDMYSlash.FindString(text); m != "" {
		return toISOFromDMY(m, "/")
	}
	if m := dateDMYDot.FindString(text); m != "" {
		return toISOFromDMY(m, ".")
	}
	if m := dateSwedishMonth.FindStringSubmatch(text); m != nil {
		day := m[1]
		if len(day) == 1 {
			day = "0" + day
		}
		month := swedishMonths[strings.ToLower(m[2])]
		return m[3] + "-" + month + "-" + day
	}
	return ""
}

func toISOFromDMY(s, sep string) string {
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return ""
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}
