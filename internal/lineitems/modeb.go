package lineitems

import (
	"regexp"
	"sort"
	"strings"

	sdecimal "github.com/shopspring/decimal"

	"github.com/ramirent/faktura-extract/internal/decimal"
	"github.com/ramirent/faktura-extract/internal/model"
)

type fieldKind string

const (
	fieldDescription fieldKind = "description"
	fieldQuantity    fieldKind = "quantity"
	fieldUnit        fieldKind = "unit"
	fieldUnitPrice   fieldKind = "unit_price"
	fieldVAT         fieldKind = "vat_percent"
	fieldNetto       fieldKind = "netto"
)

var columnKeywords = map[fieldKind][]string{
	fieldDescription: {"benämning", "beskrivning", "artikel", "text"},
	fieldQuantity:     {"antal", "kvantitet", "st"},
	fieldUnit:         {"enhet", "unit"},
	fieldUnitPrice:    {"pris", "á-pris", "á pris", "enhetspris"},
	fieldVAT:          {"moms", "moms%", "vat"},
	fieldNetto:        {"nettobelopp", "netto", "belopp"},
}

// column is a detected table column: a center x-coordinate and,
// optionally, the field it was mapped to via a header row.
type column struct {
	center float64
	field  fieldKind
}

// ParseModeB clusters the table block's tokens into columns by
// x-position and extracts one InvoiceLine per row (spec §4.10 Mode B).
// If column detection fails outright, it returns nil so the caller keeps
// the Mode A result.
func ParseModeB(rows []model.Row, headerRow *model.Row, pageWidth float64) []model.InvoiceLine {
	cols := detectColumns(rows, pageWidth)
	if len(cols) == 0 {
		return nil
	}
	if headerRow != nil {
		mapColumns(cols, *headerRow)
	}

	var lines []model.InvoiceLine
	n := 0
	for _, r := range rows {
		if IsFooterRow(r) || IsTableHeaderRow(r) {
			continue
		}
		line, ok := parseRowByColumns(r, cols)
		if !ok {
			continue
		}
		n++
		line.LineNumber = n
		line.SourceRows = []model.Row{r}
		lines = append(lines, line)
	}
	return lines
}

func detectColumns(rows []model.Row, pageWidth float64) []column {
	var centers []float64
	for _, r := range rows {
		for _, t := range r.Tokens {
			centers = append(centers, t.X+t.W/2)
		}
	}
	if len(centers) == 0 {
		return nil
	}
	sort.Float64s(centers)

	gaps := make([]float64, 0, len(centers)-1)
	for i := 1; i < len(centers); i++ {
		gaps = append(gaps, centers[i]-centers[i-1])
	}
	threshold := 20.0
	if m := medianOf(gaps); m*1.5 > threshold {
		threshold = m * 1.5
	}

	var boundaries []float64
	for i := 1; i < len(centers); i++ {
		if centers[i]-centers[i-1] >= threshold {
			boundaries = append(boundaries, (centers[i]+centers[i-1])/2)
		}
	}
	if len(boundaries) == 0 {
		return []column{{center: medianOf(centers)}}
	}

	var cols []column
	prev := 0.0
	for _, b := range boundaries {
		cols = append(cols, column{center: (prev + b) / 2})
		prev = b
	}
	cols = append(cols, column{center: (prev + pageWidth) / 2})
	return cols
}

func mapColumns(cols []column, headerRow model.Row) {
	for i := range cols {
		var nearestText string
		best := -1.0
		for _, t := range headerRow.Tokens {
			d := abs(t.X - cols[i].center)
			if best < 0 || d < best {
				best = d
				nearestText = t.Text
			}
		}
		cols[i].field = matchField(strings.ToLower(nearestText))
	}
}

func matchField(text string) fieldKind {
	for field, keywords := range columnKeywords {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return field
			}
		}
	}
	return ""
}

var vatPercentPattern = regexp.MustCompile(`\b\d{1,2}[.,]\d{2}\b`)

func parseRowByColumns(r model.Row, cols []column) (model.InvoiceLine, bool) {
	byCol := make(map[int][]model.Token)
	for _, t := range r.Tokens {
		idx := nearestColumn(t.X+t.W/2, cols)
		byCol[idx] = append(byCol[idx], t)
	}

	mapped := false
	for _, c := range cols {
		if c.field != "" {
			mapped = true
			break
		}
	}

	var line model.InvoiceLine
	if mapped {
		for i, c := range cols {
			toks := byCol[i]
			text := joinTokens(toks)
			switch c.field {
			case fieldDescription:
				line.Description = text
			case fieldQuantity:
				if amt, err := decimal.NormalizeSwedishAmount(text); err == nil {
					line.Quantity = &amt
				}
			case fieldUnit:
				line.Unit = text
			case fieldUnitPrice:
				if amt, err := decimal.NormalizeSwedishAmount(text); err == nil {
					line.UnitPrice = &amt
				}
			case fieldVAT:
				if amt, err := decimal.NormalizeSwedishAmount(text); err == nil {
					line.VATRate = &amt
				}
			case fieldNetto:
				if amt, err := decimal.NormalizeSwedishAmount(text); err == nil {
					line.TotalAmount = amt
				}
			}
		}
		if line.TotalAmount.IsZero() && line.Description == "" {
			return model.InvoiceLine{}, false
		}
		return line, true
	}

	// content fallback: locate VAT% column by regex, net = rightmost
	// column amount after it.
	vatColIdx := -1
	for i := range cols {
		if vatPercentPattern.MatchString(joinTokens(byCol[i])) {
			vatColIdx = i
			break
		}
	}
	if vatColIdx == -1 {
		return model.InvoiceLine{}, false
	}
	var net *sdecimal.Decimal
	for i := len(cols) - 1; i > vatColIdx; i-- {
		if amt, err := decimal.NormalizeSwedishAmount(joinTokens(byCol[i])); err == nil {
			net = &amt
			break
		}
	}
	if net == nil {
		return model.InvoiceLine{}, false
	}
	line.TotalAmount = *net
	line.Description = joinTokens(byCol[0])
	return line, true
}

func joinTokens(toks []model.Token) string {
	sort.SliceStable(toks, func(i, j int) bool { return toks[i].X < toks[j].X })
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

func nearestColumn(x float64, cols []column) int {
	best, bestDist := 0, abs(x-cols[0].center)
	for i := 1; i < len(cols); i++ {
		d := abs(x - cols[i].center)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func medianOf(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	cp := append([]float64(nil), vs...)
	sort.Float64s(cp)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return (cp[n/2-1] + cp[n/2]) / 2
}
