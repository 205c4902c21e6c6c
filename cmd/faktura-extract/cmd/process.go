package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"github.com/spf13/cobra"

	"github.com/ramirent/faktura-extract/internal/config"
	"github.com/ramirent/faktura-extract/internal/llm"
	"github.com/ramirent/faktura-extract/internal/logging"
	"github.com/ramirent/faktura-extract/internal/model"
	"github.com/ramirent/faktura-extract/internal/pipeline"
	"github.com/ramirent/faktura-extract/internal/reviewfolder"
	"github.com/ramirent/faktura-extract/internal/runsummary"
	"github.com/ramirent/faktura-extract/internal/tabledebug"
	"github.com/ramirent/faktura-extract/internal/tokenize/ocr"
	"github.com/ramirent/faktura-extract/internal/xlsxwriter"
)

var (
	inputPath  string
	outputDir  string
	workers    int
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract invoices from a PDF file or a directory of PDFs",
	Long: `Process one or more invoice PDFs and extract structured data.

Writes a consolidated spreadsheet, a review package per uncertain
invoice, and a run summary into --output.

Examples:
  faktura-extract process --input invoices/ --output out/
  faktura-extract process --input invoice.pdf --output out/ --verbose`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&inputPath, "input", "", "Input PDF file or directory of PDF files (required)")
	processCmd.Flags().StringVar(&outputDir, "output", "", "Output directory for artefacts (required)")
	processCmd.Flags().IntVar(&workers, "workers", 0, "Cross-invoice concurrency cap (default: pipeline.DefaultWorkers)")
	processCmd.MarkFlagRequired("input")
	processCmd.MarkFlagRequired("output")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logCfg := logging.DefaultConfig()
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Setup(logCfg); err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}

	files, err := collectPDFs(inputPath)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDF files found under %s", inputPath)
	}
	printVerbose("found %d PDF files\n", len(files))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	opts := pipeline.Options{Config: *cfg, Workers: workers}

	if detector, err := buildOCRDetector(cmd.Context()); err != nil {
		printVerbose("OCR disabled: %v\n", err)
	} else {
		opts.OCRDetector = detector
	}

	if cfg.AI.Enabled && cfg.AI.APIKey != "" {
		opts.AIClient = llm.NewClient(cfg.AI.APIKey)
	}

	summary := pipeline.Run(cmd.Context(), files, opts)

	timestamp := time.Now().UTC()
	xlsxPath := filepath.Join(outputDir, fmt.Sprintf("invoices_%s.xlsx", timestamp.Format("20060102T150405Z")))
	if err := xlsxwriter.Write(collectInvoices(summary), xlsxPath); err != nil {
		return fmt.Errorf("write spreadsheet: %w", err)
	}
	summary.OutputPaths["spreadsheet"] = xlsxPath

	reviewDir := filepath.Join(outputDir, "review")
	artifactsDir := filepath.Join(outputDir, "artifacts")
	for i, inv := range collectInvoices(summary) {
		reportInvoiceStatus(i+1, len(summary.Invoices), inv)

		if inv.Extraction != nil && inv.Extraction.TableDebug != nil {
			path, err := tabledebug.Write(artifactsDir, inv.ID, inv.Extraction.TableDebug)
			if err != nil {
				printVerbose("table debug dump for %s: %v\n", inv.ID, err)
			} else {
				summary.OutputPaths["table_debug/"+inv.ID] = path
			}
		}

		if inv.Extraction != nil && len(inv.Extraction.RenderedPage) > 0 {
			path, err := writeRenderedPage(artifactsDir, inv.ID, inv.Extraction.RenderedPageIndex, inv.Extraction.RenderedPage, inv.Extraction.RenderedPageMIME)
			if err != nil {
				printVerbose("page render cache for %s: %v\n", inv.ID, err)
			} else {
				summary.OutputPaths["pages/"+inv.ID] = path
			}
		}

		if inv.Validation == nil || inv.Validation.Status != model.StatusReview {
			continue
		}
		path, err := reviewfolder.Write(reviewDir, inv, sourcePDFFor(files, inv), timestamp)
		if err != nil {
			printVerbose("review folder for %s: %v\n", inv.ID, err)
			continue
		}
		summary.OutputPaths["review/"+inv.ID] = path
	}

	if len(summary.FileFailures) > 0 {
		errorsDir := filepath.Join(outputDir, "errors")
		if err := writeFileFailures(errorsDir, summary.FileFailures); err != nil {
			printVerbose("write errors/: %v\n", err)
		} else {
			summary.OutputPaths["errors"] = errorsDir
		}
	}

	summaryPath := filepath.Join(outputDir, "run_summary.json")
	if err := runsummary.Write(summary, summaryPath); err != nil {
		return fmt.Errorf("write run summary: %w", err)
	}
	summary.OutputPaths["run_summary"] = summaryPath

	fmt.Printf("%d files, %d OK, %d PARTIAL, %d REVIEW, %d failed\n",
		summary.TotalFiles, summary.Counts[model.StatusOK], summary.Counts[model.StatusPartial],
		summary.Counts[model.StatusReview], summary.Failed)

	return nil
}

// collectInvoices returns the full VirtualInvoice records the writers
// need. RunSummary.Invoices holds only InvoiceSummary (id/status/
// extraction) for the batch-level JSON artefact; the full records travel
// alongside it in RunSummary.FullInvoices.
func collectInvoices(summary *model.RunSummary) []model.VirtualInvoice {
	return summary.FullInvoices
}

func reportInvoiceStatus(n, total int, inv model.VirtualInvoice) {
	extra := ""
	switch {
	case inv.Validation != nil && inv.Validation.Status == model.StatusReview:
		extra = fmt.Sprintf(" (invoice_conf=%.2f, total_conf=%.2f)", inv.Validation.InvoiceNumberConf, inv.Validation.TotalConf)
	case inv.Validation != nil && inv.Validation.Status == model.StatusPartial && inv.Validation.Diff != nil:
		extra = fmt.Sprintf(" (Diff=%s)", inv.Validation.Diff.StringFixed(2))
	}
	status := "REVIEW"
	if inv.Validation != nil {
		status = string(inv.Validation.Status)
	}
	fmt.Printf("[%d/%d] %s → %s%s (%d rader)\n", n, total, inv.ID, status, extra, len(inv.Lines))
}

func sourcePDFFor(files []string, inv model.VirtualInvoice) string {
	for _, f := range files {
		if strings.HasPrefix(inv.ID, filepath.Base(f)) {
			return f
		}
	}
	return ""
}

// writeRenderedPage persists the page image rendered for AI Fallback
// vision into artifacts/pages/, keyed by invoice id and page number
// (spec §5 "shared resources", spec §6.6).
func writeRenderedPage(artifactsDir, invoiceID string, page int, image []byte, mimeType string) (string, error) {
	dir := filepath.Join(artifactsDir, "pages")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create pages directory: %w", err)
	}
	ext := ".png"
	if mimeType == "image/jpeg" {
		ext = ".jpg"
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_p%d%s", invoiceID, page, ext))
	if err := os.WriteFile(path, image, 0o644); err != nil {
		return "", fmt.Errorf("write rendered page: %w", err)
	}
	return path, nil
}

// writeFileFailures writes one JSON file per catastrophic per-file
// failure into dir (spec §6.6 "optional JSON of catastrophic per-file
// failures").
func writeFileFailures(dir string, failures []model.FileFailure) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create errors directory: %w", err)
	}
	for _, f := range failures {
		name := strings.TrimSuffix(filepath.Base(f.File), filepath.Ext(f.File)) + ".json"
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal failure for %s: %w", f.File, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("write failure for %s: %w", f.File, err)
		}
	}
	return nil
}

func buildOCRDetector(ctx context.Context) (ocr.Detector, error) {
	if os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") == "" {
		return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS not set")
	}
	client, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, err
	}
	return ocr.NewEngine(client), nil
}

func collectPDFs(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("input not found: %w", err)
	}

	var files []string
	if !info.IsDir() {
		if isPDF(root) {
			files = append(files, root)
		}
		return files, nil
	}

	err = filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() && isPDF(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
