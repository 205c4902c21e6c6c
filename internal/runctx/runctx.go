// Package runctx implements the per-document token source shared across
// routing, boundary detection, and extraction: it owns the page-text
// cache and defers OCR rendering until a page's routing decision actually
// calls for it (spec §4.2, §5 "Shared resources").
package runctx

import (
	"context"
	"fmt"

	"github.com/ramirent/faktura-extract/internal/model"
	"github.com/ramirent/faktura-extract/internal/render"
	"github.com/ramirent/faktura-extract/internal/tokenize/ocr"
	"github.com/ramirent/faktura-extract/internal/tokenize/text"
)

// DPIConfig controls the baseline render resolution and the OCR-quality
// retry escalation (spec §4.2).
type DPIConfig struct {
	Baseline              int
	Retry                 int
	OCRMeanRetryThreshold int
	MaxRetriesPerPage     int
}

// DefaultDPIConfig returns the spec's built-in DPI defaults.
func DefaultDPIConfig() DPIConfig {
	return DPIConfig{Baseline: 300, Retry: 400, OCRMeanRetryThreshold: 55, MaxRetriesPerPage: 1}
}

// Context owns one Document's extraction state: the opened PDF, its text
// and OCR caches, and the OCR detector. One Context is created per file
// processed and is not shared across files or goroutines.
type Context struct {
	Doc      *model.Document
	Detector ocr.Detector
	DPI      DPIConfig

	textCache   map[int]string
	tokenCache  map[cacheKey][]model.Token
	ocrMetrics  map[int]ocr.Metrics
}

type cacheKey struct {
	page   int
	source model.RoutingSource
}

// New builds a Context over an already-opened Document.
func New(doc *model.Document, detector ocr.Detector, dpi DPIConfig) *Context {
	return &Context{
		Doc:        doc,
		Detector:   detector,
		DPI:        dpi,
		textCache:  make(map[int]string),
		tokenCache: make(map[cacheKey][]model.Token),
		ocrMetrics: make(map[int]ocr.Metrics),
	}
}

// Text returns the page's text-layer content joined from its tokens,
// caching per page (spec §6.4 cache_pdfplumber_text).
func (c *Context) Text(page int) (string, error) {
	if cached, ok := c.textCache[page]; ok {
		return cached, nil
	}
	tokens, err := c.Tokens(page, model.RoutingText)
	if err != nil {
		return "", err
	}
	var joined string
	for i, t := range tokens {
		if i > 0 {
			joined += " "
		}
		joined += t.Text
	}
	c.textCache[page] = joined
	return joined, nil
}

// Tokens returns page's tokens from the requested source, rendering and
// running OCR only on first request for an OCR source (lazy, per spec
// §4.9's TokenSource contract). With no Detector, an OCR request returns
// the page's text-layer tokens instead.
func (c *Context) Tokens(page int, source model.RoutingSource) ([]model.Token, error) {
	key := cacheKey{page: page, source: source}
	if cached, ok := c.tokenCache[key]; ok {
		return cached, nil
	}

	pg := c.Doc.Page(page)
	if pg == nil {
		return nil, fmt.Errorf("runctx: page %d out of range", page)
	}

	var tokens []model.Token
	var err error
	switch source {
	case model.RoutingText:
		tokens, err = text.Tokenize(c.Doc.Path, pg)
	case model.RoutingOCR:
		if c.Detector == nil {
			tokens, err = text.Tokenize(c.Doc.Path, pg)
			break
		}
		tokens, err = c.tokensViaOCR(pg)
	default:
		return nil, fmt.Errorf("runctx: unknown routing source %q", source)
	}
	if err != nil {
		return nil, err
	}
	c.tokenCache[key] = tokens
	return tokens, nil
}

// OCRMetrics returns the last OCR confidence metrics computed for page, if
// OCR has been run on it.
func (c *Context) OCRMetrics(page int) (ocr.Metrics, bool) {
	m, ok := c.ocrMetrics[page]
	return m, ok
}

func (c *Context) tokensViaOCR(pg *model.Page) ([]model.Token, error) {
	ctx := context.Background()
	tokens, metrics, err := ocr.Tokenize(ctx, c.Detector, c.Doc.Path, pg, c.DPI.Baseline)
	if err != nil {
		return nil, err
	}
	if metrics.MeanConfidence < float64(c.DPI.OCRMeanRetryThreshold) && c.DPI.MaxRetriesPerPage > 0 {
		retryTokens, retryMetrics, retryErr := ocr.Tokenize(ctx, c.Detector, c.Doc.Path, pg, c.DPI.Retry)
		if retryErr == nil && retryMetrics.MeanConfidence > metrics.MeanConfidence {
			tokens, metrics = retryTokens, retryMetrics
		}
	}
	c.ocrMetrics[pg.Number] = metrics
	return tokens, nil
}

// RenderPageImage rasterizes page at the baseline DPI, for AI-vision use.
func (c *Context) RenderPageImage(page int) ([]byte, error) {
	img, err := render.Page(c.Doc.Path, page, c.DPI.Baseline)
	if err != nil {
		return nil, err
	}
	return img.Bytes, nil
}
