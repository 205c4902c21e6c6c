// Package ocr renders a page and runs it through an OCR engine, yielding
// positioned word-level tokens with confidence (spec §4.4).
package ocr

import (
	"context"
	"sort"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/ramirent/faktura-extract/internal/model"
	"github.com/ramirent/faktura-extract/internal/render"
)

// Engine wraps a Google Cloud Vision document-text-detection client.
// Tests substitute a fake via the Detector interface.
type Engine struct {
	client *vision.ImageAnnotatorClient
}

// NewEngine builds an Engine over an already-authenticated Vision client.
func NewEngine(client *vision.ImageAnnotatorClient) *Engine {
	return &Engine{client: client}
}

// Detector is the subset of behaviour the tokenizer needs from an OCR
// engine; Engine implements it against the real Vision API, tests against
// a fake.
type Detector interface {
	DetectDocumentText(ctx context.Context, pngBytes []byte) (*visionpb.TextAnnotation, error)
}

func (e *Engine) DetectDocumentText(ctx context.Context, pngBytes []byte) (*visionpb.TextAnnotation, error) {
	img := &visionpb.Image{Content: pngBytes}
	resp, err := e.client.DetectDocumentText(ctx, img, nil)
	if err != nil {
		return nil, &model.OcrFailureError{Message: "vision API call failed", Cause: err}
	}
	return resp, nil
}

// Metrics aggregates OCR confidence over a page's kept tokens (spec §4.4).
type Metrics struct {
	MeanConfidence     float64
	MedianConfidence   float64
	LowConfidenceShare float64 // share of kept tokens with confidence < 50
}

// Tokenize renders page at dpi, runs OCR, and returns word-level tokens.
// Rows with negative confidence are dropped; only word-level entries are
// kept. Returns Metrics computed over emitted tokens only.
func Tokenize(ctx context.Context, det Detector, path string, page *model.Page, dpi int) ([]model.Token, Metrics, error) {
	img, err := render.Page(path, page.Number, dpi)
	if err != nil {
		return nil, Metrics{}, &model.OcrFailureError{Page: page.Number, Message: "render failed", Cause: err}
	}

	annotation, err := det.DetectDocumentText(ctx, img.Bytes)
	if err != nil {
		return nil, Metrics{}, err
	}

	tokens, metrics := TokensFromAnnotation(annotation, page.Number, float64(dpi)/72.0)
	return tokens, metrics, nil
}

// TokensFromAnnotation converts a Vision TextAnnotation into word-level
// tokens, dropping rows with negative confidence, and computes Metrics over
// the kept tokens. Exported so the conversion can be tested without a real
// render+API round trip.
func TokensFromAnnotation(annotation *visionpb.TextAnnotation, pageNumber int, zoom float64) ([]model.Token, Metrics) {
	if annotation == nil {
		return nil, Metrics{}
	}

	var tokens []model.Token
	var confidences []float64

	for _, p := range annotation.Pages {
		for _, block := range p.Blocks {
			for _, para := range block.Paragraphs {
				for _, w := range para.Words {
					text := wordText(w)
					if strings.TrimSpace(text) == "" {
						continue
					}
					conf := float64(w.Confidence) * 100
					if conf < 0 {
						continue
					}
					x, y, width, height := boundingBox(w.BoundingBox, zoom)
					c := conf
					tokens = append(tokens, model.Token{
						Text:       text,
						X:          x,
						Y:          y,
						W:          width,
						H:          height,
						Page:       pageNumber,
						Confidence: &c,
					})
					confidences = append(confidences, conf)
				}
			}
		}
	}

	return tokens, computeMetrics(confidences)
}

func wordText(word *visionpb.Word) string {
	var sb strings.Builder
	for _, sym := range word.Symbols {
		sb.WriteString(sym.Text)
	}
	return sb.String()
}

func boundingBox(box *visionpb.BoundingPoly, zoom float64) (x, y, w, h float64) {
	if box == nil || len(box.Vertices) == 0 {
		return 0, 0, 0, 0
	}
	verts := box.Vertices
	minX, minY := float64(verts[0].X), float64(verts[0].Y)
	maxX, maxY := minX, minY
	for _, v := range verts[1:] {
		fx, fy := float64(v.X), float64(v.Y)
		if fx < minX {
			minX = fx
		}
		if fx > maxX {
			maxX = fx
		}
		if fy < minY {
			minY = fy
		}
		if fy > maxY {
			maxY = fy
		}
	}
	if zoom <= 0 {
		zoom = 1
	}
	return minX / zoom, minY / zoom, (maxX - minX) / zoom, (maxY - minY) / zoom
}

func computeMetrics(confidences []float64) Metrics {
	if len(confidences) == 0 {
		return Metrics{}
	}
	sum := 0.0
	low := 0
	sorted := make([]float64, len(confidences))
	copy(sorted, confidences)
	sort.Float64s(sorted)
	for _, c := range confidences {
		sum += c
		if c < 50 {
			low++
		}
	}
	n := len(sorted)
	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return Metrics{
		MeanConfidence:     sum / float64(n),
		MedianConfidence:   median,
		LowConfidenceShare: float64(low) / float64(n),
	}
}
