package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/llm"
)

func TestNewClient(t *testing.T) {
	client := llm.NewClient("test-api-key")
	require.NotNil(t, client)
}

func TestNewClient_WithOptions(t *testing.T) {
	client := llm.NewClient("test-api-key",
		llm.WithBaseURL("https://custom.api.com/v1"),
		llm.WithDefaultModel(llm.ModelGPT4o),
	)
	require.NotNil(t, client)
}

func TestExtractJSON_CodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "Here is the total:\n```json\n{\"total_amount\": 1072.60}\n```",
			expected: `{"total_amount": 1072.60}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"total_amount\": 1072.60}\n```",
			expected: `{"total_amount": 1072.60}`,
		},
		{
			name:     "raw json object",
			input:    `{"total_amount": 1072.60}`,
			expected: `{"total_amount": 1072.60}`,
		},
		{
			name:     "json with explanation",
			input:    "I found the following data:\n```json\n{\"total_amount\": 1072.60}\n```\nThis is the grand total.",
			expected: `{"total_amount": 1072.60}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := llm.ExtractJSON(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestModelConstants(t *testing.T) {
	models := []string{
		llm.ModelClaude35Sonnet,
		llm.ModelClaude3Haiku,
		llm.ModelGPT4oMini,
		llm.ModelGPT4o,
		llm.ModelGeminiFlash,
	}

	for _, m := range models {
		assert.NotEmpty(t, m)
		assert.Contains(t, m, "/") // All models have provider/model format
	}
}

func TestPromptTemplates(t *testing.T) {
	assert.NotEmpty(t, llm.SystemPromptTotalExtractor)
	assert.NotEmpty(t, llm.UserPromptTextExtraction)
	assert.NotEmpty(t, llm.UserPromptImageExtraction)
	assert.NotEmpty(t, llm.UserPromptRetryReinforcement)

	assert.Contains(t, llm.SystemPromptTotalExtractor, "Swedish")
	assert.Contains(t, llm.UserPromptTextExtraction, "JSON")
	assert.Contains(t, llm.UserPromptImageExtraction, "JSON")
}

func TestDefaultBaseURL(t *testing.T) {
	assert.Equal(t, "https://openrouter.ai/api/v1", llm.DefaultBaseURL)
}

func BenchmarkExtractJSON(b *testing.B) {
	input := "Here is the data:\n```json\n{\"total_amount\": 1072.60}\n```"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		llm.ExtractJSON(input)
	}
}
