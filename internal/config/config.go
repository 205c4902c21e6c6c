// Package config loads the hierarchical run profile (spec §6.4) from
// built-in defaults, a config file, and environment variables, in that
// order of increasing priority.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds every recognised configuration key.
type Config struct {
	OCRRouting OCRRoutingConfig `mapstructure:"ocr_routing"`
	TableParserMode string      `mapstructure:"table_parser_mode"`
	Validation ValidationConfig `mapstructure:"validation"`
	AI         AIConfig         `mapstructure:"ai"`
	DPI        DPIConfig        `mapstructure:"dpi"`
	Vision     VisionConfig     `mapstructure:"vision"`
}

// OCRRoutingConfig is the Routing Oracle's profile (spec §4.5).
type OCRRoutingConfig struct {
	MinTextChars         int      `mapstructure:"min_text_chars"`
	RequiredAnchors      []string `mapstructure:"required_anchors"`
	ExtraAnchors         []string `mapstructure:"extra_anchors"`
	MinWordTokens        int      `mapstructure:"min_word_tokens"`
	MinTextQuality       float64  `mapstructure:"min_text_quality"`
	AllowQualityOverride bool     `mapstructure:"allow_quality_override"`
	CachePdfplumberText  bool     `mapstructure:"cache_pdfplumber_text"`
}

// ValidationConfig holds the Validator's tolerances (spec §4.12).
type ValidationConfig struct {
	Tolerance     float64 `mapstructure:"tolerance"`
	ToleranceNet  float64 `mapstructure:"tolerance_net"`
	TolerancePay  float64 `mapstructure:"tolerance_pay"`
}

// AIConfig gates and configures the AI Fallback (spec §4.13).
type AIConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Provider  string  `mapstructure:"provider"`
	Model     string  `mapstructure:"model"`
	APIKey    string  `mapstructure:"api_key"`
	Threshold float64 `mapstructure:"threshold"`
}

// DPIConfig controls page-render resolution and retry escalation.
type DPIConfig struct {
	Baseline              int `mapstructure:"baseline"`
	Retry                 int `mapstructure:"retry"`
	OCRMeanRetryThreshold int `mapstructure:"ocr_mean_retry_threshold"`
	MaxRetriesPerPage     int `mapstructure:"max_retries_per_page"`
}

// VisionConfig constrains images sent to the AI Fallback's vision path.
type VisionConfig struct {
	MaxLongestSide  int      `mapstructure:"max_longest_side"`
	MaxBytes        int64    `mapstructure:"max_bytes"`
	AllowedFormats  []string `mapstructure:"allowed_formats"`
	JSONRetryCount  int      `mapstructure:"json_retry_count"`
}

// Load reads configPath (if non-empty) via viper, with built-in defaults
// underneath it and environment variables taking precedence over it, and
// unmarshals into a Config. A missing configPath is not an error: defaults and
// environment variables alone produce a usable Config.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FAKTURA")
	v.AutomaticEnv()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ocr_routing.min_text_chars", 500)
	v.SetDefault("ocr_routing.required_anchors", []string{`Faktura\s`})
	v.SetDefault("ocr_routing.extra_anchors", []string{`Sida\s*\d+\s*/\s*\d+`, `Ramirent`})
	v.SetDefault("ocr_routing.min_word_tokens", 40)
	v.SetDefault("ocr_routing.min_text_quality", 0.5)
	v.SetDefault("ocr_routing.allow_quality_override", true)
	v.SetDefault("ocr_routing.cache_pdfplumber_text", true)

	v.SetDefault("table_parser_mode", "auto")

	v.SetDefault("validation.tolerance", 1.0)
	v.SetDefault("validation.tolerance_net", 0.5)
	v.SetDefault("validation.tolerance_pay", 0.5)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.threshold", 0.5)

	v.SetDefault("dpi.baseline", 300)
	v.SetDefault("dpi.retry", 400)
	v.SetDefault("dpi.ocr_mean_retry_threshold", 55)
	v.SetDefault("dpi.max_retries_per_page", 1)

	v.SetDefault("vision.max_longest_side", 4096)
	v.SetDefault("vision.max_bytes", int64(20*1024*1024))
	v.SetDefault("vision.allowed_formats", []string{"png", "jpeg"})
	v.SetDefault("vision.json_retry_count", 1)

	v.BindEnv("ai.api_key", "FAKTURA_AI_API_KEY", "LLM_API_KEY")
	v.BindEnv("ai.provider", "FAKTURA_AI_PROVIDER")
	v.BindEnv("ai.model", "FAKTURA_AI_MODEL")
}
