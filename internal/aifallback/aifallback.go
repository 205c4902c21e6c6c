// Package aifallback wraps internal/llm with the AI Fallback contract
// (spec §4.13): given candidate total-amount excerpts and, optionally,
// one page image, it returns a normalised decimal total or nil.
package aifallback

import (
	"context"
	"encoding/json"
	"fmt"

	sdecimal "github.com/shopspring/decimal"

	"github.com/ramirent/faktura-extract/internal/llm"
	"github.com/ramirent/faktura-extract/internal/model"
)

// Config holds the AI Fallback's threshold and model settings.
type Config struct {
	Threshold float64 // calibrated total-confidence below this triggers the fallback; typical 0.5
	TextModel string
	VisionModel string
}

// DefaultConfig returns the AI Fallback's built-in defaults.
func DefaultConfig() Config {
	return Config{Threshold: 0.5, TextModel: llm.ModelClaude35Sonnet, VisionModel: llm.ModelGPT4o}
}

// TextClient is the subset of llm.Client the fallback needs; a fake
// implements it in tests without a real HTTP round-trip.
type TextClient interface {
	ChatText(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
	ChatWithImage(ctx context.Context, model, systemPrompt, userPrompt string, imageData []byte, mimeType string) (string, error)
}

type totalResponse struct {
	TotalAmount *float64 `json:"total_amount"`
	Reasoning   string   `json:"reasoning"`
}

// Result is the AI Fallback's output: a normalised total (or nil), the
// method actually used, and the vision_reason flags when vision was
// invoked (spec §4.13).
type Result struct {
	TotalAmount  *sdecimal.Decimal
	MethodUsed   model.ExtractionMethod
	VisionReason []string
}

// Invoke runs the text-only strategy, or the vision strategy when
// pageImage is non-nil and visionReason explains why vision was chosen
// (e.g. low pdf/ocr text quality). It retries at most once with a
// stricter JSON-only reinforcement on a schema-invalid or failed first
// response, and never recurses.
func Invoke(ctx context.Context, client TextClient, excerpts string, pageImage []byte, visionReason []string, cfg Config) (Result, error) {
	if pageImage != nil {
		resp, err := callWithRetry(ctx, client, cfg.VisionModel, llm.SystemPromptTotalExtractor,
			fmt.Sprintf(llm.UserPromptImageExtraction, excerpts), pageImage, true, string(model.MethodAIVision))
		if err != nil {
			return Result{}, err
		}
		return toResult(resp, model.MethodAIVision, visionReason), nil
	}

	resp, err := callWithRetry(ctx, client, cfg.TextModel, llm.SystemPromptTotalExtractor,
		fmt.Sprintf(llm.UserPromptTextExtraction, excerpts), nil, false, string(model.MethodAIText))
	if err != nil {
		return Result{}, err
	}
	return toResult(resp, model.MethodAIText, nil), nil
}

func callWithRetry(ctx context.Context, client TextClient, modelName, systemPrompt, userPrompt string, image []byte, vision bool, method string) (totalResponse, error) {
	resp, err := call(ctx, client, modelName, systemPrompt, userPrompt, image, vision, method)
	if err == nil {
		return resp, nil
	}
	retryPrompt := userPrompt + "\n\n" + llm.UserPromptRetryReinforcement
	return call(ctx, client, modelName, systemPrompt, retryPrompt, image, vision, method)
}

func call(ctx context.Context, client TextClient, modelName, systemPrompt, userPrompt string, image []byte, vision bool, method string) (totalResponse, error) {
	var raw string
	var err error
	if vision {
		raw, err = client.ChatWithImage(ctx, modelName, systemPrompt, userPrompt, image, "image/png")
	} else {
		raw, err = client.ChatText(ctx, modelName, systemPrompt, userPrompt)
	}
	if err != nil {
		return totalResponse{}, &model.AiFailureError{Method: method, Message: "AI call failed", Cause: err}
	}

	jsonText := llm.ExtractJSON(raw)
	var parsed totalResponse
	if jsonErr := json.Unmarshal([]byte(jsonText), &parsed); jsonErr != nil {
		return totalResponse{}, &model.AiFailureError{Method: method, Message: "AI response failed schema validation", Cause: jsonErr}
	}
	return parsed, nil
}

func toResult(resp totalResponse, method model.ExtractionMethod, visionReason []string) Result {
	if resp.TotalAmount == nil {
		return Result{MethodUsed: method, VisionReason: visionReason}
	}
	d := sdecimal.NewFromFloat(*resp.TotalAmount).Round(2)
	return Result{TotalAmount: &d, MethodUsed: method, VisionReason: visionReason}
}
