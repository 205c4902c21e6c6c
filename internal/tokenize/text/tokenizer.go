// Package text extracts positioned tokens from a PDF page's embedded text
// layer, in reading order (spec §4.3). It never rasterizes.
package text

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ramirent/faktura-extract/internal/model"
)

// clampLine bounds the y-proximity clustering threshold to [2, 15] points.
func clampLine(v float64) float64 {
	if v < 2 {
		return 2
	}
	if v > 15 {
		return 15
	}
	return v
}

// Tokenize opens path, reads page's content stream, and returns its
// text-layer tokens clustered into reading-order lines. Font information is
// attached when the content stream exposes it; extraction never fails for a
// missing font — it degrades to a token with no font/size.
//
// ledongthuc/pdf reports Y in native PDF space (origin bottom-left, y
// up-positive); page.Height flips it to this system's convention (origin
// top-left, y down-positive).
func Tokenize(path string, page *model.Page) ([]model.Token, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, &model.CorruptPdfError{Path: path, Message: "could not reopen for tokenizing", Cause: err}
	}
	defer f.Close()

	pg := r.Page(page.Number)
	if pg.V.IsNull() {
		return nil, &model.CorruptPdfError{Path: path, Message: "page not found for tokenizing"}
	}

	content := pg.Content()
	if len(content.Text) == 0 {
		return nil, nil
	}

	raw := make([]model.Token, 0, len(content.Text))
	for _, t := range content.Text {
		s := t.S
		if strings.TrimSpace(s) == "" {
			continue
		}
		raw = append(raw, model.Token{
			Text:     s,
			X:        t.X,
			Y:        page.Height - t.Y,
			W:        t.W,
			H:        t.FontSize,
			Page:     page.Number,
			FontSize: t.FontSize,
			FontName: t.Font,
		})
	}
	if len(raw) == 0 {
		return nil, nil
	}

	return ClusterIntoLines(raw), nil
}

// ClusterIntoLines groups tokens into reading-order lines by y-proximity
// (threshold = 0.5 * median(token height), clamped to [2,15]), sorts lines
// top-to-bottom, and tokens left-to-right within a line. Exported so the
// clustering rule itself (independent of PDF I/O) is directly testable.
func ClusterIntoLines(tokens []model.Token) []model.Token {
	heights := make([]float64, 0, len(tokens))
	for _, t := range tokens {
		if t.H > 0 {
			heights = append(heights, t.H)
		}
	}
	threshold := clampLine(0.5 * medianOf(heights))

	byY := make([]model.Token, len(tokens))
	copy(byY, tokens)
	sort.SliceStable(byY, func(i, j int) bool { return byY[i].Y < byY[j].Y })

	type line struct {
		y      float64
		tokens []model.Token
	}
	var lines []*line
	var cur *line
	for _, t := range byY {
		if cur == nil || abs(t.Y-cur.y) > threshold {
			lines = append(lines, &line{y: t.Y})
			cur = lines[len(lines)-1]
		}
		cur.tokens = append(cur.tokens, t)
	}

	out := make([]model.Token, 0, len(tokens))
	for _, l := range lines {
		sort.SliceStable(l.tokens, func(i, j int) bool { return l.tokens[i].X < l.tokens[j].X })
		out = append(out, l.tokens...)
	}
	return out
}

func medianOf(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	cp := make([]float64, len(vs))
	copy(cp, vs)
	sort.Float64s(cp)
	n := len(cp)
	if n%2 == 1 {
		return cp[n/2]
	}
	return (cp[n/2-1] + cp[n/2]) / 2
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
