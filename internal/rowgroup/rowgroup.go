// Package rowgroup clusters a page's tokens into Rows in reading order
// (spec §4.6). The y-band threshold is the same median-height rule used by
// internal/tokenize/text.
package rowgroup

import (
	"sort"

	"github.com/ramirent/faktura-extract/internal/model"
)

func clampLine(v float64) float64 {
	if v < 2 {
		return 2
	}
	if v > 15 {
		return 15
	}
	return v
}

// Group clusters tokens into Rows ordered top-to-bottom, tokens within a
// Row ordered left-to-right. Tokens must already share a Page.
func Group(tokens []model.Token) []model.Row {
	if len(tokens) == 0 {
		return nil
	}

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

	var bands [][]model.Token
	var cur []model.Token
	var curY float64
	for _, t := range byY {
		if cur == nil || abs(t.Y-curY) > threshold {
			if cur != nil {
				bands = append(bands, cur)
			}
			cur = nil
			curY = t.Y
		}
		cur = append(cur, t)
	}
	if cur != nil {
		bands = append(bands, cur)
	}

	rows := make([]model.Row, 0, len(bands))
	for _, band := range bands {
		sort.SliceStable(band, func(i, j int) bool { return band[i].X < band[j].X })
		rows = append(rows, model.NewRow(band))
	}
	return rows
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
