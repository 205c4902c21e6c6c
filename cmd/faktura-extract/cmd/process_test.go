package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/model"
)

func TestIsPDF(t *testing.T) {
	assert.True(t, isPDF("invoice.pdf"))
	assert.True(t, isPDF("INVOICE.PDF"))
	assert.False(t, isPDF("invoice.txt"))
}

func TestCollectPDFs_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))

	files, err := collectPDFs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestCollectPDFs_DirectoryWalksAndFiltersByExtension(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "a.pdf")
	txtPath := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.WriteFile(txtPath, []byte("not a pdf"), 0o644))

	files, err := collectPDFs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{pdfPath}, files)
}

func TestCollectPDFs_MissingPathReturnsError(t *testing.T) {
	_, err := collectPDFs("/does/not/exist")
	assert.Error(t, err)
}

func TestWriteFileFailures_WritesOneJSONPerFailure(t *testing.T) {
	dir := t.TempDir()
	failures := []model.FileFailure{
		{File: "/in/bad.pdf", Message: "corrupt pdf bad.pdf: unexpected EOF"},
	}

	require.NoError(t, writeFileFailures(dir, failures))

	data, err := os.ReadFile(filepath.Join(dir, "bad.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "corrupt pdf bad.pdf")
}

func TestWriteRenderedPage_PicksExtensionFromMIME(t *testing.T) {
	dir := t.TempDir()

	path, err := writeRenderedPage(dir, "bill.pdf__0", 2, []byte("fake-png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pages", "bill.pdf__0_p2.png"), path)

	path, err = writeRenderedPage(dir, "bill.pdf__0", 2, []byte("fake-jpg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pages", "bill.pdf__0_p2.jpg"), path)
}
