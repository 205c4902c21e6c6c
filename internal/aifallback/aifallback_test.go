package aifallback_test

import (
	"context"
	"testing"

	sdecimal "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/aifallback"
	"github.com/ramirent/faktura-extract/internal/model"
)

type fakeClient struct {
	responses []string
	calls     int
}

func (f *fakeClient) ChatText(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func (f *fakeClient) ChatWithImage(ctx context.Context, model, systemPrompt, userPrompt string, imageData []byte, mimeType string) (string, error) {
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func TestInvoke_TextStrategySucceedsFirstTry(t *testing.T) {
	client := &fakeClient{responses: []string{`{"total_amount": 1072.60, "reasoning": "found in footer"}`}}
	result, err := aifallback.Invoke(context.Background(), client, "Att betala 1 072,60", nil, nil, aifallback.DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, result.TotalAmount)
	assert.True(t, result.TotalAmount.Equal(sdecimal.NewFromFloat(1072.6)))
	assert.Equal(t, model.MethodAIText, result.MethodUsed)
	assert.Equal(t, 1, client.calls)
}

func TestInvoke_RetriesOnceOnInvalidJSON(t *testing.T) {
	client := &fakeClient{responses: []string{
		"sorry, I cannot help with that",
		`{"total_amount": 500.00, "reasoning": "retry succeeded"}`,
	}}
	result, err := aifallback.Invoke(context.Background(), client, "excerpt", nil, nil, aifallback.DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, result.TotalAmount)
	assert.Equal(t, 2, client.calls)
}

func TestInvoke_NeverRetriesMoreThanOnce(t *testing.T) {
	client := &fakeClient{responses: []string{
		"garbage 1",
		"garbage 2",
	}}
	_, err := aifallback.Invoke(context.Background(), client, "excerpt", nil, nil, aifallback.DefaultConfig())
	require.Error(t, err)
	assert.Equal(t, 2, client.calls)
	var aiErr *model.AiFailureError
	require.ErrorAs(t, err, &aiErr)
}

func TestInvoke_NullTotalAmountIsNotAnError(t *testing.T) {
	client := &fakeClient{responses: []string{`{"total_amount": null, "reasoning": "no trustworthy total"}`}}
	result, err := aifallback.Invoke(context.Background(), client, "excerpt", nil, nil, aifallback.DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, result.TotalAmount)
}

func TestInvoke_VisionPathUsedWhenImagePresent(t *testing.T) {
	client := &fakeClient{responses: []string{`{"total_amount": 250.00, "reasoning": "read from image"}`}}
	reasons := []string{"pdf_text_quality<0.5"}
	result, err := aifallback.Invoke(context.Background(), client, "excerpt", []byte{0xFF}, reasons, aifallback.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, model.MethodAIVision, result.MethodUsed)
	assert.Equal(t, reasons, result.VisionReason)
}

func TestVisionReasons_BothSignalsBelowThreshold(t *testing.T) {
	reasons := aifallback.VisionReasons(aifallback.QualitySignals{
		PDFTextQuality: 0.2, HasPDFTextQuality: true,
		OCRMedianConfidence: 60, HasOCRConfidence: true,
	})
	assert.ElementsMatch(t, []string{"pdf_text_quality<0.5", "ocr_median_conf<70"}, reasons)
}

func TestVisionReasons_NoSignalsBelowThreshold(t *testing.T) {
	reasons := aifallback.VisionReasons(aifallback.QualitySignals{
		PDFTextQuality: 0.9, HasPDFTextQuality: true,
	})
	assert.Empty(t, reasons)
}
