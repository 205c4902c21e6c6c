package fakturalib

import (
	"context"

	vision "cloud.google.com/go/vision/v2/apiv1"

	"github.com/ramirent/faktura-extract/internal/aifallback"
	"github.com/ramirent/faktura-extract/internal/calibrate"
	"github.com/ramirent/faktura-extract/internal/config"
	"github.com/ramirent/faktura-extract/internal/llm"
	"github.com/ramirent/faktura-extract/internal/pipeline"
	"github.com/ramirent/faktura-extract/internal/tokenize/ocr"
)

// ProcessorOptions configures a Processor. A zero Workers or a nil
// Calibrator falls back to the pipeline's defaults. Config is passed to
// the pipeline as given: a zero Config is not filled from
// internal/config's defaults.
type ProcessorOptions struct {
	Config config.Config

	// OCRClient is an already-authenticated Google Cloud Vision client.
	// Leave nil to run without OCR: pages that routing sends to OCR are
	// then tokenized from the text layer instead, at whatever confidence
	// the text layer yields.
	OCRClient *vision.ImageAnnotatorClient

	// Calibrator maps raw confidence to calibrated probability. Leave
	// nil for the identity calibrator.
	Calibrator *calibrate.Calibrator

	// Workers bounds cross-invoice concurrency; 0 uses
	// pipeline.DefaultWorkers.
	Workers int
}

// DefaultProcessorOptions loads config.Config from its built-in defaults
// (no file, no environment overrides beyond FAKTURA_*) and disables OCR
// and AI fallback, matching a zero-configuration embedding.
func DefaultProcessorOptions() ProcessorOptions {
	cfg, _ := config.Load("")
	opts := ProcessorOptions{Calibrator: calibrate.Identity()}
	if cfg != nil {
		opts.Config = *cfg
	}
	return opts
}

// Processor extracts structured data from batches of Swedish invoice
// PDFs. It wraps the internal extraction pipeline behind a stable,
// dependency-light surface for embedding in other Go programs.
type Processor struct {
	opts     ProcessorOptions
	aiClient aifallback.TextClient
	detector ocr.Detector
}

// NewProcessor builds a Processor from explicit options.
func NewProcessor(opts ProcessorOptions) *Processor {
	p := &Processor{opts: opts}
	if opts.OCRClient != nil {
		p.detector = ocr.NewEngine(opts.OCRClient)
	}
	if opts.Config.AI.Enabled && opts.Config.AI.APIKey != "" {
		p.aiClient = llm.NewClient(opts.Config.AI.APIKey)
	}
	return p
}

// NewDefaultProcessor builds a Processor with DefaultProcessorOptions.
func NewDefaultProcessor() *Processor {
	return NewProcessor(DefaultProcessorOptions())
}

// ProcessBatch runs the full extraction pipeline over paths (PDF files)
// and returns the batch RunSummary. Results preserve input order; a file
// that fails to open is counted in RunSummary.Failed rather than aborting
// the batch. Directories are not expanded: a directory path fails to open
// and is counted in RunSummary.Failed.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string) (*RunSummary, error) {
	runOpts := pipeline.Options{
		Config:      p.opts.Config,
		Calibrator:  p.opts.Calibrator,
		OCRDetector: p.detector,
		AIClient:    p.aiClient,
		Workers:     p.opts.Workers,
	}
	return pipeline.Run(ctx, paths, runOpts), nil
}

// Process runs the full extraction pipeline over a single PDF file and
// returns its RunSummary (always exactly one file, possibly several
// VirtualInvoices when the PDF is multi-invoice).
func (p *Processor) Process(ctx context.Context, path string) (*RunSummary, error) {
	return p.ProcessBatch(ctx, []string{path})
}
