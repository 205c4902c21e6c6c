package lineitems

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ramirent/faktura-extract/internal/model"
)

var startPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{5,}`),
	regexp.MustCompile(`^[A-Z]{2,}\d{3,}`),
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`^\d{2}/\d{2}`),
	regexp.MustCompile(`^\d{6,8}-\d{4}`),
	regexp.MustCompile(`^\d{4}\s`),
}

const defaultWrapThreshold = 15.0

// foldWraps folds continuation rows into the description of the
// preceding primary candidate (spec §4.10 "Wrap detection"), mutating
// primaries in place.
func foldWraps(blockRows []model.Row, primaries []primaryCandidate, pageWidth float64) {
	if len(primaries) == 0 {
		return
	}

	threshold := adaptiveThreshold(blockRows)
	primaryIdx := indexByRow(blockRows, primaries)

	wrapCount := 0
	for i := range primaries {
		lastAcceptedY := primaries[i].row.Y
		firstTokenX := firstTokenX(primaries[i].row)

		start := primaryIdx[i] + 1
		end := len(blockRows)
		if i+1 < len(primaries) {
			end = primaryIdx[i+1]
		}

		for j := start; j < end; j++ {
			cand := blockRows[j]
			if IsFooterRow(cand) {
				break
			}
			if matchesAny(startPatterns, cand.Text()) {
				break
			}
			if abs(cand.Y-lastAcceptedY) > threshold {
				break
			}
			if hasNetAmountAfterVAT(cand) {
				break
			}
			candX := firstTokenX(cand)
			dev := candX - firstTokenX
			if dev > 0.02*pageWidth && dev < 0.05*pageWidth {
				// within the right-indent allowance; accept
			} else if abs(dev) > 0.02*pageWidth {
				break
			}

			primaries[i].description = strings.TrimSpace(primaries[i].description + " " + strings.TrimSpace(cand.Text()))
			primaries[i].sourceRows = append(primaries[i].sourceRows, cand)
			lastAcceptedY = cand.Y
			wrapCount++
		}
	}
	_ = wrapCount // wrap rows are not capped; no warning is emitted for long wraps
}

func hasNetAmountAfterVAT(r model.Row) bool {
	text := r.Text()
	loc := vatAnchor.FindStringIndex(text)
	if loc == nil {
		return largeAmountSignal.MatchString(text)
	}
	return amountToken.MatchString(strings.TrimSpace(text[loc[1]:]))
}

func adaptiveThreshold(rows []model.Row) float64 {
	if len(rows) < 2 {
		return defaultWrapThreshold
	}
	gaps := make([]float64, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		gaps = append(gaps, abs(rows[i].Y-rows[i-1].Y))
	}
	sort.Float64s(gaps)
	n := len(gaps)
	var median float64
	if n%2 == 1 {
		median = gaps[n/2]
	} else {
		median = (gaps[n/2-1] + gaps[n/2]) / 2
	}
	t := 1.5 * median
	if t <= 0 {
		return defaultWrapThreshold
	}
	return t
}

func indexByRow(rows []model.Row, primaries []primaryCandidate) []int {
	idx := make([]int, len(primaries))
	rowIdx := 0
	for i, p := range primaries {
		for rowIdx < len(rows) && rows[rowIdx].Y != p.row.Y {
			rowIdx++
		}
		idx[i] = rowIdx
		rowIdx++
	}
	return idx
}

func firstTokenX(r model.Row) float64 {
	if len(r.Tokens) == 0 {
		return 0
	}
	return r.Tokens[0].X
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
