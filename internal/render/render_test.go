package render_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/render"
)

func TestPage_MissingFile(t *testing.T) {
	_, err := render.Page(filepath.Join(t.TempDir(), "missing.pdf"), 1, render.BaselineDPI)
	require.Error(t, err)
}

func TestDPIConstants(t *testing.T) {
	assert.Equal(t, 300, render.BaselineDPI)
	assert.Equal(t, 400, render.RetryDPI)
	assert.Greater(t, render.RetryDPI, render.BaselineDPI)
}
