// Package reviewfolder writes the human-review artefact for each
// REVIEW-status invoice (spec §6.2): a copy of the source PDF and a
// metadata.json describing the header, validation result, and when the
// artefact was written.
package reviewfolder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ramirent/faktura-extract/internal/model"
)

// metadata is the JSON shape written to metadata.json. Traceability
// fields come through as nullable since the model's own Traceability
// pointers are nil when a field was never located.
type metadata struct {
	InvoiceHeader *model.InvoiceHeader    `json:"invoice_header"`
	Validation    *validationWithLineCount `json:"validation"`
	Timestamp     string                  `json:"timestamp"`
}

type validationWithLineCount struct {
	*model.ValidationResult
	LineCount int `json:"line_count"`
}

// Write copies sourcePDF and writes metadata.json into
// <reviewDir>/<folderName>/, where folderName is the invoice's id.
// timestamp is supplied by the caller (ISO-8601) rather than taken from
// time.Now, since Write must be deterministic for a given invoice.
func Write(reviewDir string, inv model.VirtualInvoice, sourcePDF string, timestamp time.Time) (string, error) {
	folder := filepath.Join(reviewDir, inv.ID)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("reviewfolder: create folder: %w", err)
	}

	if err := copyFile(sourcePDF, filepath.Join(folder, inv.ID+".pdf")); err != nil {
		return "", fmt.Errorf("reviewfolder: copy pdf: %w", err)
	}

	meta := metadata{
		InvoiceHeader: inv.Header,
		Timestamp:     timestamp.Format(time.RFC3339),
	}
	if inv.Validation != nil {
		meta.Validation = &validationWithLineCount{ValidationResult: inv.Validation, LineCount: len(inv.Lines)}
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("reviewfolder: marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folder, "metadata.json"), data, 0o644); err != nil {
		return "", fmt.Errorf("reviewfolder: write metadata: %w", err)
	}

	return folder, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
