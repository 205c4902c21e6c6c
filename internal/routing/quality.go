package routing

import (
	"sort"
	"strings"
	"unicode"

	"github.com/ramirent/faktura-extract/internal/model"
)

var qualityKeywords = []string{"Total", "Moms", "Faktura", "Bankgiro"}

// TextQuality blends several signals over a page's tokens into a [0,1]
// score (spec §4.5): non-empty ratio, fraction of "weird" characters,
// alphanumeric ratio, median token length sanity, and a small keyword
// bonus capped at 0.2. When tokens carry OCR confidence, the median
// confidence (scaled to [0,1]) is blended in too.
func TextQuality(tokens []model.Token) float64 {
	if len(tokens) == 0 {
		return 0
	}

	nonEmpty := 0
	var allText strings.Builder
	lengths := make([]float64, 0, len(tokens))
	var confidences []float64
	for _, t := range tokens {
		s := strings.TrimSpace(t.Text)
		if s == "" {
			continue
		}
		nonEmpty++
		allText.WriteString(s)
		lengths = append(lengths, float64(len([]rune(s))))
		if t.Confidence != nil {
			confidences = append(confidences, *t.Confidence)
		}
	}
	nonEmptyRatio := float64(nonEmpty) / float64(len(tokens))

	text := allText.String()
	weirdRatio, alnumRatio := charRatios(text)

	medianLen := medianOf(lengths)
	lengthSanity := 1.0
	if medianLen < 2 || medianLen > 20 {
		lengthSanity = 0.5
	}

	bonus := 0.0
	for _, kw := range qualityKeywords {
		if strings.Contains(text, kw) {
			bonus += 0.05
		}
	}
	if bonus > 0.2 {
		bonus = 0.2
	}

	score := 0.3*nonEmptyRatio + 0.3*(1-weirdRatio) + 0.2*alnumRatio
	score *= lengthSanity
	score += bonus

	if len(confidences) > 0 {
		medianConf := medianOf(confidences) / 100
		score = (score + medianConf) / 2
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

// charRatios returns (weirdRatio, alphanumericRatio) over text's runes.
// "Weird" is anything outside letters, digits, and `.,-/:; ` plus typical
// ASCII punctuation.
func charRatios(text string) (weird, alnum float64) {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0, 0
	}
	var weirdCount, alnumCount int
	for _, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			alnumCount++
		case strings.ContainsRune(".,-/:; !?()%&", r) || unicode.IsSpace(r):
			// typical punctuation and whitespace, not weird
		default:
			weirdCount++
		}
	}
	n := float64(len(runes))
	return float64(weirdCount) / n, float64(alnumCount) / n
}

func medianOf(vs []float64) float64 {
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
