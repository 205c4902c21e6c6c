// Package runsummary writes the batch run's RunSummary to JSON (spec
// §6.3): total files, per-status counts, per-invoice extraction details,
// and output artefact paths.
package runsummary

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ramirent/faktura-extract/internal/model"
)

// Write marshals summary to outputPath as indented JSON.
func Write(summary *model.RunSummary, outputPath string) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("runsummary: marshal: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("runsummary: write: %w", err)
	}
	return nil
}
