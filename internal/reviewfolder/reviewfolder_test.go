package reviewfolder_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramirent/faktura-extract/internal/model"
	"github.com/ramirent/faktura-extract/internal/reviewfolder"
)

func TestWrite_CopiesPDFAndWritesMetadata(t *testing.T) {
	srcDir := t.TempDir()
	srcPDF := filepath.Join(srcDir, "source.pdf")
	require.NoError(t, os.WriteFile(srcPDF, []byte("%PDF-1.4 fake"), 0o644))

	reviewDir := t.TempDir()
	inv := model.VirtualInvoice{
		ID:         "source.pdf__0",
		Header:     &model.InvoiceHeader{InvoiceNumber: "123456"},
		Lines:      []model.InvoiceLine{{LineNumber: 1}},
		Validation: &model.ValidationResult{Status: model.StatusReview, Errors: []string{"Hard gate failed"}},
	}

	folder, err := reviewfolder.Write(reviewDir, inv, srcPDF, time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(reviewDir, "source.pdf__0"), folder)

	pdfBytes, err := os.ReadFile(filepath.Join(folder, "source.pdf__0.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(pdfBytes))

	metaBytes, err := os.ReadFile(filepath.Join(folder, "metadata.json"))
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(metaBytes, &parsed))
	assert.Contains(t, parsed, "invoice_header")
	assert.Contains(t, parsed, "validation")
	assert.Contains(t, parsed, "timestamp")
	assert.Equal(t, "2026-07-30T12:00:00Z", parsed["timestamp"])

	validation := parsed["validation"].(map[string]interface{})
	assert.Equal(t, float64(1), validation["line_count"])
}

func TestWrite_MissingSourcePDFReturnsError(t *testing.T) {
	reviewDir := t.TempDir()
	inv := model.VirtualInvoice{ID: "missing.pdf__0"}
	_, err := reviewfolder.Write(reviewDir, inv, filepath.Join(t.TempDir(), "nope.pdf"), time.Now())
	require.Error(t, err)
}
