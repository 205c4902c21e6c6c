package ocr_test

import (
	"testing"

	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/tokenize/ocr"
)

func word(text string, confidence float32) *visionpb.Word {
	var symbols []*visionpb.Symbol
	for _, r := range text {
		symbols = append(symbols, &visionpb.Symbol{Text: string(r)})
	}
	return &visionpb.Word{
		Symbols:    symbols,
		Confidence: confidence,
		BoundingBox: &visionpb.BoundingPoly{
			Vertices: []*visionpb.Vertex{{X: 10, Y: 10}, {X: 50, Y: 40}},
		},
	}
}

func annotationWith(words ...*visionpb.Word) *visionpb.TextAnnotation {
	return &visionpb.TextAnnotation{
		Pages: []*visionpb.Page{{
			Blocks: []*visionpb.Block{{
				Paragraphs: []*visionpb.Paragraph{{Words: words}},
			}},
		}},
	}
}

func TestTokensFromAnnotation_DropsNegativeConfidenceWords(t *testing.T) {
	annotation := annotationWith(
		word("Faktura", 0.95),
		word("12345", -1),
		word("Moms", 0.40),
	)

	tokens, metrics := ocr.TokensFromAnnotation(annotation, 1, 300.0/72.0)
	require.Len(t, tokens, 2)
	assert.Equal(t, "Faktura", tokens[0].Text)
	assert.Equal(t, "Moms", tokens[1].Text)
	assert.InDelta(t, 0.5, metrics.LowConfidenceShare, 0.001) // Moms(40) is low, Faktura(95) is not
}

func TestTokensFromAnnotation_BoundingBoxScaledByZoom(t *testing.T) {
	annotation := annotationWith(word("Faktura", 0.95))
	tokens, _ := ocr.TokensFromAnnotation(annotation, 1, 300.0/72.0)
	require.Len(t, tokens, 1)

	zoom := 300.0 / 72.0
	assert.InDelta(t, 10/zoom, tokens[0].X, 0.001)
	assert.InDelta(t, 10/zoom, tokens[0].Y, 0.001)
	assert.InDelta(t, 40/zoom, tokens[0].W, 0.001)
	assert.InDelta(t, 30/zoom, tokens[0].H, 0.001)
	require.NotNil(t, tokens[0].Confidence)
	assert.InDelta(t, 95.0, *tokens[0].Confidence, 0.01)
}

func TestTokensFromAnnotation_Nil(t *testing.T) {
	tokens, metrics := ocr.TokensFromAnnotation(nil, 1, 1)
	assert.Empty(t, tokens)
	assert.Zero(t, metrics.MeanConfidence)
}
