// Package routing implements the Routing Oracle (spec §4.5): per page, it
// decides whether the PDF's embedded text layer is trustworthy enough to
// skip OCR, and records why.
package routing

import "regexp"

// Config holds the Routing Oracle's decision thresholds. Defaults match
// spec §4.5.
type Config struct {
	MinTextChars         int
	RequiredAnchors      []*regexp.Regexp
	ExtraAnchors         []*regexp.Regexp
	MinWordTokens        int
	MinTextQuality       float64
	AllowQualityOverride bool
}

// DefaultConfig returns the Routing Oracle's built-in defaults.
func DefaultConfig() Config {
	return Config{
		MinTextChars:         500,
		RequiredAnchors:      []*regexp.Regexp{regexp.MustCompile(`Faktura\s`)},
		ExtraAnchors: []*regexp.Regexp{
			regexp.MustCompile(`Sida\s*\d+\s*/\s*\d+`),
			regexp.MustCompile(`Ramirent`),
		},
		MinWordTokens:        40,
		MinTextQuality:       0.5,
		AllowQualityOverride: true,
	}
}
