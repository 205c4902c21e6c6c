package routing

import (
	"regexp"
	"strings"

	"github.com/ramirent/faktura-extract/internal/model"
)

// Input is what the Routing Oracle needs for one page decision: its text
// (cached per page, per spec §4.5) and, optionally, the tokens behind it
// (text-layer or OCR).
type Input struct {
	Page   int
	Text   string
	Tokens []model.Token
}

// Decide evaluates base_ok/override_ok and returns the routing decision
// for one page. Identical inputs and cfg always yield an identical
// decision (testable property 9).
func Decide(in Input, cfg Config) model.PageRoutingDecision {
	textChars := len([]rune(in.Text))
	wordTokens := countWordTokens(in.Tokens)
	quality := TextQuality(in.Tokens)

	anchorHits, requiredOK := matchAnchors(in.Text, cfg.RequiredAnchors, true)
	extraHits, extraOK := matchAnchors(in.Text, cfg.ExtraAnchors, false)
	anchorHits = append(anchorHits, extraHits...)

	baseOK := textChars >= cfg.MinTextChars && requiredOK && extraOK
	overrideOK := cfg.AllowQualityOverride && quality >= cfg.MinTextQuality && wordTokens >= cfg.MinWordTokens
	useTextLayer := baseOK || overrideOK

	var reasons []string
	if textChars < cfg.MinTextChars {
		reasons = append(reasons, "text_chars_below_minimum")
	}
	if !requiredOK {
		reasons = append(reasons, "required_anchor_missing")
	}
	if !extraOK {
		reasons = append(reasons, "extra_anchor_missing")
	}
	if !baseOK && overrideOK {
		reasons = append(reasons, "quality_override_applied")
	}
	if !useTextLayer {
		reasons = append(reasons, "routed_to_ocr")
	}

	decision := model.PageRoutingDecision{
		Page:           in.Page,
		TextCharCount:  textChars,
		WordTokenCount: wordTokens,
		TextQuality:    quality,
		AnchorHits:     anchorHits,
		ReasonFlags:    reasons,
	}
	if useTextLayer {
		decision.Source = model.RoutingText
	} else {
		decision.Source = model.RoutingOCR
	}
	return decision
}

// matchAnchors reports which patterns matched text, per the
// required-vs-extra semantics in spec §4.5 ("every required anchor
// matches" vs "at least one extra anchor matches if any configured").
func matchAnchors(text string, patterns []*regexp.Regexp, requireAll bool) ([]string, bool) {
	if len(patterns) == 0 {
		return nil, true
	}
	var hits []string
	matchCount := 0
	for _, p := range patterns {
		if p.MatchString(text) {
			matchCount++
			hits = append(hits, p.String())
		}
	}
	if requireAll {
		return hits, matchCount == len(patterns)
	}
	return hits, matchCount > 0
}

func countWordTokens(tokens []model.Token) int {
	n := 0
	for _, t := range tokens {
		if strings.TrimSpace(t.Text) != "" {
			n++
		}
	}
	return n
}
