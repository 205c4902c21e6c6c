package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramirent/faktura-extract/internal/config"
	"github.com/ramirent/faktura-extract/internal/model"
	"github.com/ramirent/faktura-extract/internal/pipeline"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run extraction and report per-invoice status without writing artefacts",
	Long: `Run the full extraction pipeline over --input and print each
invoice's status (OK / PARTIAL / REVIEW), without writing a spreadsheet,
review folders, or a run summary to disk. Useful for a quick sanity
check before a full --output run.

Examples:
  faktura-extract validate --input invoices/`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&inputPath, "input", "", "Input PDF file or directory of PDF files (required)")
	validateCmd.MarkFlagRequired("input")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	files, err := collectPDFs(inputPath)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDF files found under %s", inputPath)
	}

	summary := pipeline.Run(cmd.Context(), files, pipeline.Options{Config: *cfg})

	for i, inv := range summary.FullInvoices {
		reportInvoiceStatus(i+1, len(summary.FullInvoices), inv)
	}

	fmt.Printf("%d files, %d OK, %d PARTIAL, %d REVIEW, %d failed\n",
		summary.TotalFiles, summary.Counts[model.StatusOK], summary.Counts[model.StatusPartial],
		summary.Counts[model.StatusReview], summary.Failed)

	return nil
}
