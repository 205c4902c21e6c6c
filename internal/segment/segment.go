// Package segment labels contiguous blocks of a page's rows as header,
// items, or footer (spec §4.7). Segmentation is coarse; downstream
// extractors apply their own finer rules within a segment.
package segment

import (
	"regexp"
	"strings"

	"github.com/ramirent/faktura-extract/internal/model"
)

const (
	headerBand = 0.25 // top 25% of page height
	footerBand = 0.20 // bottom 20% of page height
)

var headerKeywords = []string{"Faktura", "Fakturanummer", "Fakturadatum"}

var footerKeywordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Summa att betala`),
	regexp.MustCompile(`(?i)Nettobelopp exkl\.? moms`),
	regexp.MustCompile(`(?i)Totalt`),
	regexp.MustCompile(`(?i)Moms`),
}

// Identify labels rows into header/items/footer Segments using the page
// band heuristic with keyword corrections, and merges adjacent rows of
// the same kind into a single Segment.
func Identify(rows []model.Row, pageHeight float64) []model.Segment {
	if len(rows) == 0 {
		return nil
	}

	kinds := make([]model.SegmentKind, len(rows))
	for i, r := range rows {
		kinds[i] = baseKind(r.Y, pageHeight)
	}
	for i, r := range rows {
		text := r.Text()
		if hasHeaderKeyword(text) {
			kinds[i] = model.SegmentHeader
		} else if hasFooterKeyword(text) {
			kinds[i] = model.SegmentFooter
		}
	}

	return merge(rows, kinds)
}

func baseKind(y, pageHeight float64) model.SegmentKind {
	if pageHeight <= 0 {
		return model.SegmentItems
	}
	ratio := y / pageHeight
	switch {
	case ratio <= headerBand:
		return model.SegmentHeader
	case ratio >= 1-footerBand:
		return model.SegmentFooter
	default:
		return model.SegmentItems
	}
}

func hasHeaderKeyword(text string) bool {
	for _, kw := range headerKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func hasFooterKeyword(text string) bool {
	for _, p := range footerKeywordPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func merge(rows []model.Row, kinds []model.SegmentKind) []model.Segment {
	var segments []model.Segment
	var cur *model.Segment
	for i, r := range rows {
		if cur == nil || cur.Kind != kinds[i] {
			if cur != nil {
				segments = append(segments, *cur)
			}
			cur = &model.Segment{Kind: kinds[i], YMin: r.Y, YMax: r.Y}
		}
		cur.Rows = append(cur.Rows, r)
		if r.Y < cur.YMin {
			cur.YMin = r.Y
		}
		if r.Y > cur.YMax {
			cur.YMax = r.Y
		}
	}
	if cur != nil {
		segments = append(segments, *cur)
	}
	return segments
}
