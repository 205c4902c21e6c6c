package config

import (
	"fmt"
	"regexp"

	"github.com/ramirent/faktura-extract/internal/routing"
)

// ToRoutingConfig compiles the OCR routing anchors into the form the
// Routing Oracle expects.
func (c OCRRoutingConfig) ToRoutingConfig() (routing.Config, error) {
	required, err := compileAll(c.RequiredAnchors)
	if err != nil {
		return routing.Config{}, fmt.Errorf("compile required_anchors: %w", err)
	}
	extra, err := compileAll(c.ExtraAnchors)
	if err != nil {
		return routing.Config{}, fmt.Errorf("compile extra_anchors: %w", err)
	}
	return routing.Config{
		MinTextChars:         c.MinTextChars,
		RequiredAnchors:      required,
		ExtraAnchors:         extra,
		MinWordTokens:        c.MinWordTokens,
		MinTextQuality:       c.MinTextQuality,
		AllowQualityOverride: c.AllowQualityOverride,
	}, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}
