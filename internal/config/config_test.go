package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/config"
)

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.OCRRouting.MinTextChars)
	assert.Equal(t, "auto", cfg.TableParserMode)
	assert.Equal(t, 1.0, cfg.Validation.Tolerance)
	assert.Equal(t, 0.5, cfg.AI.Threshold)
	assert.Equal(t, 300, cfg.DPI.Baseline)
	assert.Equal(t, 4096, cfg.Vision.MaxLongestSide)
	assert.Equal(t, []string{"png", "jpeg"}, cfg.Vision.AllowedFormats)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("table_parser_mode: pos\nai:\n  enabled: true\n  threshold: 0.7\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pos", cfg.TableParserMode)
	assert.True(t, cfg.AI.Enabled)
	assert.Equal(t, 0.7, cfg.AI.Threshold)
	assert.Equal(t, 500, cfg.OCRRouting.MinTextChars) // untouched default survives
}

func TestOCRRoutingConfig_ToRoutingConfigCompilesAnchors(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	routingCfg, err := cfg.OCRRouting.ToRoutingConfig()
	require.NoError(t, err)
	require.Len(t, routingCfg.RequiredAnchors, 1)
	assert.True(t, routingCfg.RequiredAnchors[0].MatchString("Faktura 12345"))
}
