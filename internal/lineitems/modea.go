package lineitems

import (
	"regexp"
	"strings"

	sdecimal "github.com/shopspring/decimal"

	"github.com/ramirent/faktura-extract/internal/decimal"
	"github.com/ramirent/faktura-extract/internal/model"
)

var vatAnchor = regexp.MustCompile(`\b25[.,]00\b`)
var amountToken = regexp.MustCompile(`^-?\d{1,3}(?:[ \x{00A0}]\d{3})*(?:[.,]\d{1,2})?-?$`)
var unitToken = regexp.MustCompile(`(?i)^(st|kg|tim|h|ea|pcs|m²|m2|m3|dagar)$`)
var articleNumberStart = regexp.MustCompile(`^\d{5,}`)
var articleCodeStart = regexp.MustCompile(`^[A-Z]{2,}\d{2,}`)

// ParseModeA runs the text/VAT-anchored parser over the candidate rows
// of a table block, folds wrap rows into the preceding item's
// description, and returns InvoiceLines in row order.
func ParseModeA(rows []model.Row, pageWidth float64) []model.InvoiceLine {
	var primaries []primaryCandidate
	for _, r := range rows {
		if IsFooterRow(r) || IsTableHeaderRow(r) {
			continue
		}
		if c, ok := parsePrimaryRow(r); ok {
			primaries = append(primaries, c)
		}
	}
	if len(primaries) == 0 {
		return nil
	}

	foldWraps(rows, primaries, pageWidth)

	lines := make([]model.InvoiceLine, 0, len(primaries))
	for i, c := range primaries {
		lines = append(lines, model.InvoiceLine{
			LineNumber:  i + 1,
			Description: strings.TrimSpace(c.description),
			Quantity:    c.quantity,
			Unit:        c.unit,
			UnitPrice:   c.unitPrice,
			Discount:    c.discount,
			VATRate:     sdecimalPtr(sdecimal.NewFromInt(25)),
			TotalAmount: c.netAmount,
			SourceRows:  c.sourceRows,
		})
	}
	return lines
}

type primaryCandidate struct {
	row         model.Row
	description string
	quantity    *sdecimal.Decimal
	unit        string
	unitPrice   *sdecimal.Decimal
	discount    *sdecimal.Decimal
	netAmount   sdecimal.Decimal
	sourceRows  []model.Row
}

// parsePrimaryRow implements Mode A steps 3-6 for a single row.
func parsePrimaryRow(r model.Row) (primaryCandidate, bool) {
	text := r.Text()
	vatLoc := vatAnchor.FindStringIndex(text)
	if vatLoc == nil {
		return primaryCandidate{}, false
	}

	// Amount tokens positioned after the VAT anchor's end index.
	type amountHit struct {
		idx int
		pos float64
		val sdecimal.Decimal
	}
	var amounts []amountHit
	cursor := 0
	for _, t := range r.Tokens {
		tokStart := strings.Index(text[cursor:], t.Text)
		if tokStart == -1 {
			continue
		}
		tokStart += cursor
		cursor = tokStart + len(t.Text)
		if tokStart < vatLoc[1] {
			continue
		}
		if !amountToken.MatchString(strings.TrimSpace(t.Text)) {
			continue
		}
		amt, err := decimal.NormalizeSwedishAmount(t.Text)
		if err != nil {
			continue
		}
		amounts = append(amounts, amountHit{pos: t.X, val: amt})
	}
	if len(amounts) == 0 {
		return primaryCandidate{}, false
	}

	var netIdx = -1
	for i := len(amounts) - 1; i >= 0; i-- {
		if amounts[i].val.IsPositive() {
			netIdx = i
			break
		}
	}
	if netIdx == -1 {
		return primaryCandidate{}, false
	}
	net := amounts[netIdx]

	var discount *sdecimal.Decimal
	for i := len(amounts) - 1; i >= 0; i-- {
		if amounts[i].pos < net.pos && amounts[i].val.IsNegative() {
			d := amounts[i].val.Abs()
			discount = &d
			break
		}
	}

	quantity, unit, unitPrice := extractQtyUnitPrice(r, net.pos)
	description := extractDescription(r)

	return primaryCandidate{
		row:         r,
		description: description,
		quantity:    quantity,
		unit:        unit,
		unitPrice:   unitPrice,
		discount:    discount,
		netAmount:   net.val,
		sourceRows:  []model.Row{r},
	}, true
}

func extractQtyUnitPrice(r model.Row, netPos float64) (*sdecimal.Decimal, string, *sdecimal.Decimal) {
	var unitTok *model.Token
	for i, t := range r.Tokens {
		if unitToken.MatchString(strings.TrimSpace(t.Text)) {
			unitTok = &r.Tokens[i]
			break
		}
	}
	if unitTok == nil {
		return nil, "", nil
	}

	var quantity *sdecimal.Decimal
	for i := len(r.Tokens) - 1; i >= 0; i-- {
		t := r.Tokens[i]
		if t.X >= unitTok.X {
			continue
		}
		if amt, err := decimal.NormalizeSwedishAmount(t.Text); err == nil {
			quantity = &amt
			break
		}
	}

	var unitPrice *sdecimal.Decimal
	for _, t := range r.Tokens {
		if t.X <= unitTok.X || t.X >= netPos {
			continue
		}
		if amt, err := decimal.NormalizeSwedishAmount(t.Text); err == nil {
			unitPrice = &amt
			break
		}
	}

	return quantity, unitTok.Text, unitPrice
}

func extractDescription(r model.Row) string {
	var parts []string
	started := false
	for _, t := range r.Tokens {
		s := strings.TrimSpace(t.Text)
		if !started {
			if articleNumberStart.MatchString(s) || articleCodeStart.MatchString(s) {
				continue
			}
			started = true
		}
		if amountToken.MatchString(s) || unitToken.MatchString(s) || vatAnchor.MatchString(s) {
			break
		}
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

func sdecimalPtr(d sdecimal.Decimal) *sdecimal.Decimal { return &d }
