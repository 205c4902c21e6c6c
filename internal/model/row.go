package model

import (
	"sort"
	"strings"
)

// Row is a horizontal band of Tokens clustered by y-proximity, ordered
// left to right. Text is a convenience join; positional invariants are
// always derived from Tokens, never from Text.
type Row struct {
	Tokens []Token `json:"tokens"`
	Y      float64 `json:"y"` // median token y
	XMin   float64 `json:"x_min"`
	XMax   float64 `json:"x_max"`
}

// NewRow builds a Row from tokens already sorted left-to-right, computing
// XMin/XMax and the median Y.
func NewRow(tokens []Token) Row {
	if len(tokens) == 0 {
		return Row{}
	}
	xmin, xmax := tokens[0].X, tokens[0].X+tokens[0].W
	ys := make([]float64, 0, len(tokens))
	for _, t := range tokens {
		if t.X < xmin {
			xmin = t.X
		}
		if t.X+t.W > xmax {
			xmax = t.X + t.W
		}
		ys = append(ys, t.Y)
	}
	return Row{Tokens: tokens, Y: median(ys), XMin: xmin, XMax: xmax}
}

// Text space-joins the row's token texts in order.
func (r Row) Text() string {
	parts := make([]string, len(r.Tokens))
	for i, t := range r.Tokens {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// Page returns the page number of the row's tokens, or 0 if empty.
func (r Row) Page() int {
	if len(r.Tokens) == 0 {
		return 0
	}
	return r.Tokens[0].Page
}

func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
