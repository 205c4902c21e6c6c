// Package tabledebug writes the table_debug/ artefact dump for an
// invoice whose validation re-extraction flow never settled on a
// passing table-parser mode (spec §4.12, scenario F): the raw row
// text, the parsed tokens, the lines the fallback mode produced, and
// the validation result that triggered the dump.
package tabledebug

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ramirent/faktura-extract/internal/model"
)

// Write creates <artifactsDir>/invoices/<invoiceID>/table_debug/ and
// writes its four files. dump must be non-nil.
func Write(artifactsDir, invoiceID string, dump *model.TableDebugDump) (string, error) {
	folder := filepath.Join(artifactsDir, "invoices", invoiceID, "table_debug")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("tabledebug: create folder: %w", err)
	}

	if err := os.WriteFile(filepath.Join(folder, "table_block_raw_text.txt"), []byte(dump.RawText), 0o644); err != nil {
		return "", fmt.Errorf("tabledebug: write raw text: %w", err)
	}
	if err := writeJSON(filepath.Join(folder, "parsed_lines.json"), dump.Lines); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(folder, "validation_result.json"), dump.Validation); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(folder, "table_block_tokens.json"), dump.Tokens); err != nil {
		return "", err
	}

	return folder, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("tabledebug: marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("tabledebug: write %s: %w", filepath.Base(path), err)
	}
	return nil
}
