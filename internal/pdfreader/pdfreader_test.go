package pdfreader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/model"
	"github.com/ramirent/faktura-extract/internal/pdfreader"
)

func TestOpen_MissingFile(t *testing.T) {
	_, err := pdfreader.Open(filepath.Join(t.TempDir(), "does-not-exist.pdf"))
	require.Error(t, err)
	var corrupt *model.CorruptPdfError
	assert.ErrorAs(t, err, &corrupt)
}

func TestOpen_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	_, err := pdfreader.Open(path)
	require.Error(t, err)
	var corrupt *model.CorruptPdfError
	assert.ErrorAs(t, err, &corrupt)
	assert.Equal(t, path, corrupt.Path)
}
