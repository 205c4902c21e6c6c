// Package pipeline orchestrates the full extraction pipeline across a
// batch of PDF files: per-file boundary detection is sequential, but
// the resulting VirtualInvoices are processed concurrently across a
// bounded worker pool, each under its own wall-clock budget, with
// results collected back into input order (spec §5).
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	sdecimal "github.com/shopspring/decimal"

	"github.com/ramirent/faktura-extract/internal/aifallback"
	"github.com/ramirent/faktura-extract/internal/assemble"
	"github.com/ramirent/faktura-extract/internal/boundary"
	"github.com/ramirent/faktura-extract/internal/calibrate"
	"github.com/ramirent/faktura-extract/internal/config"
	"github.com/ramirent/faktura-extract/internal/footer"
	"github.com/ramirent/faktura-extract/internal/header"
	"github.com/ramirent/faktura-extract/internal/logging"
	"github.com/ramirent/faktura-extract/internal/model"
	"github.com/ramirent/faktura-extract/internal/pdfreader"
	"github.com/ramirent/faktura-extract/internal/rowgroup"
	"github.com/ramirent/faktura-extract/internal/runctx"
	"github.com/ramirent/faktura-extract/internal/segment"
	"github.com/ramirent/faktura-extract/internal/tokenize/ocr"
	"github.com/ramirent/faktura-extract/internal/validate"
)

// DefaultPerInvoiceTimeout is the wall-clock budget a single invoice's
// extraction gets before it is downgraded to REVIEW (spec §5).
const DefaultPerInvoiceTimeout = 120 * time.Second

// DefaultAITimeout bounds a single AI Fallback call.
const DefaultAITimeout = 30 * time.Second

// DefaultWorkers is the cross-invoice concurrency cap used when Options
// does not specify one.
const DefaultWorkers = 4

// Options configures a Run.
type Options struct {
	Config            config.Config
	Calibrator        *calibrate.Calibrator
	OCRDetector       ocr.Detector
	AIClient          aifallback.TextClient
	Workers           int
	PerInvoiceTimeout time.Duration
	AITimeout         time.Duration
}

func (o *Options) applyDefaults() {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.PerInvoiceTimeout <= 0 {
		o.PerInvoiceTimeout = DefaultPerInvoiceTimeout
	}
	if o.AITimeout <= 0 {
		o.AITimeout = DefaultAITimeout
	}
	if o.Calibrator == nil {
		o.Calibrator = calibrate.Identity()
	}
}

// job is one VirtualInvoice queued for concurrent processing, carrying
// everything processInvoice needs without reaching back into the file
// loop's state.
type job struct {
	index      int
	file       string
	runContext *runctx.Context
	invoice    model.VirtualInvoice
	decisions  []model.PageRoutingDecision // this invoice's page range only
}

// Run processes every file in paths and returns the batch RunSummary,
// preserving input order across files and within each file's invoices.
func Run(ctx context.Context, paths []string, opts Options) *model.RunSummary {
	opts.applyDefaults()

	var jobs []job
	var fileFailures []model.FileFailure
	log := logging.Logger()

	for _, path := range paths {
		fileJobs, err := discoverInvoices(path, opts)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("failed to open or partition file")
			fileFailures = append(fileFailures, model.FileFailure{File: path, Message: err.Error()})
			continue
		}
		jobs = append(jobs, fileJobs...)
	}
	for i := range jobs {
		jobs[i].index = i
	}

	results := make([]model.VirtualInvoice, len(jobs))
	sem := make(chan struct{}, opts.Workers)
	var wg sync.WaitGroup

	for _, j := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(j job) {
			defer wg.Done()
			defer func() { <-sem }()
			results[j.index] = processInvoiceSafely(ctx, j, opts)
		}(j)
	}
	wg.Wait()

	summary := assemble.AssembleBatch(results, len(fileFailures))
	summary.TotalFiles = len(paths)
	summary.FileFailures = fileFailures
	return summary
}

// discoverInvoices opens path, runs boundary detection, and returns one
// job per VirtualInvoice found, indexed for later order-preserving
// collection by the caller.
func discoverInvoices(path string, opts Options) ([]job, error) {
	doc, err := pdfreader.Open(path)
	if err != nil {
		return nil, err
	}

	rc := runctx.New(doc, opts.OCRDetector, runctx.DefaultDPIConfig())
	routingCfg, err := opts.Config.OCRRouting.ToRoutingConfig()
	if err != nil {
		return nil, fmt.Errorf("compile routing config: %w", err)
	}

	filename := filepath.Base(path)
	invoices, decisions, err := boundary.Detect(filename, doc.PageCount(), rc, routingCfg)
	if err != nil {
		return nil, err
	}

	jobs := make([]job, 0, len(invoices))
	for _, inv := range invoices {
		jobs = append(jobs, job{
			file:       path,
			runContext: rc,
			invoice:    inv,
			decisions:  decisions[inv.Pages.Start-1 : inv.Pages.End],
		})
	}
	return jobs, nil
}

// processInvoiceSafely runs processInvoice under a per-invoice deadline,
// recovering from any panic and converting both outcomes into a REVIEW
// VirtualInvoice rather than losing the invoice from the run (spec §7:
// "no error ever causes silent data loss").
func processInvoiceSafely(ctx context.Context, j job, opts Options) model.VirtualInvoice {
	deadlineCtx, cancel := context.WithTimeout(ctx, opts.PerInvoiceTimeout)
	defer cancel()

	type outcome struct {
		inv model.VirtualInvoice
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{inv: reviewInvoice(j.invoice, fmt.Sprintf("panic during extraction: %v", r))}
			}
		}()
		done <- outcome{inv: processInvoice(deadlineCtx, j, opts)}
	}()

	select {
	case o := <-done:
		return o.inv
	case <-deadlineCtx.Done():
		err := &model.ExtractionTimeoutError{InvoiceID: j.invoice.ID, Budget: opts.PerInvoiceTimeout.String()}
		return reviewInvoice(j.invoice, err.Error())
	}
}

func reviewInvoice(inv model.VirtualInvoice, reason string) model.VirtualInvoice {
	validation := model.ValidationResult{Status: model.StatusReview, Errors: []string{reason}}
	extraction := model.ExtractionDetail{MethodUsed: model.MethodPDFPlumber}
	return assemble.Assemble(inv, nil, validation, extraction)
}

// processInvoice runs the single-threaded, cooperative extraction
// pipeline for one VirtualInvoice: row grouping, segment identification,
// header/footer/line-item extraction, validation, and — only if the
// total's calibrated confidence is below threshold — the AI Fallback.
func processInvoice(ctx context.Context, j job, opts Options) model.VirtualInvoice {
	var headerRows, itemRows, footerRows []model.Row
	pageWidth, pageHeight := 0.0, 0.0
	var pdfQuality, ocrMedianConf *float64

	for page := j.invoice.Pages.Start; page <= j.invoice.Pages.End; page++ {
		pg := j.runContext.Doc.Page(page)
		if pg == nil {
			continue
		}
		pageWidth, pageHeight = pg.Width, pg.Height

		decision := j.decisions[page-j.invoice.Pages.Start]
		tokens, err := j.runContext.Tokens(page, decision.Source)
		if err != nil {
			continue
		}
		if decision.Source == model.RoutingOCR {
			if m, ok := j.runContext.OCRMetrics(page); ok {
				v := m.MedianConfidence
				ocrMedianConf = &v
			}
		} else {
			q := decision.TextQuality
			pdfQuality = &q
		}

		rows := rowgroup.Group(tokens)
		segments := segment.Identify(rows, pageHeight)
		for _, seg := range segments {
			switch seg.Kind {
			case model.SegmentHeader:
				headerRows = append(headerRows, seg.Rows...)
			case model.SegmentFooter:
				footerRows = append(footerRows, seg.Rows...)
			default:
				itemRows = append(itemRows, seg.Rows...)
			}
		}
	}

	hdr := header.Extract(headerRows, pageWidth, pageHeight)
	totals := footer.Extract(footerRows)

	validateCfg := validate.Config{
		TableParserMode: opts.Config.TableParserMode,
		ToleranceNet:    sdecimal.NewFromFloat(opts.Config.Validation.ToleranceNet),
		TolerancePay:    sdecimal.NewFromFloat(opts.Config.Validation.TolerancePay),
		SumTolerance:    sdecimal.NewFromFloat(opts.Config.Validation.Tolerance),
	}
	reextracted := validate.ReExtract(itemRows, pageWidth, totals.NetTotal, totals.ToPayTotal, validateCfg)
	lines := reextracted.Lines

	calibratedTotalConf := opts.Calibrator.Calibrate(hdr.TotalConf)
	method := model.MethodPDFPlumber
	if anyOCR(j.decisions) {
		method = model.MethodOCR
	}
	visionReason := []string{}
	var renderedPage []byte
	var renderedPageMIME string

	if opts.Config.AI.Enabled && opts.AIClient != nil && calibratedTotalConf < opts.Config.AI.Threshold {
		hdr, method, visionReason, renderedPage, renderedPageMIME = runAIFallback(ctx, j, hdr, pdfQuality, ocrMedianConf, opts)
	}

	validation := validate.Validate(hdr, lines, totals.NetTotal, totals.ToPayTotal, validateCfg)

	extraction := model.ExtractionDetail{
		MethodUsed:        method,
		PDFTextQuality:    pdfQuality,
		OCRMedianConf:     ocrMedianConf,
		VisionReason:      visionReason,
		PageRouting:       j.decisions,
		RenderedPage:      renderedPage,
		RenderedPageIndex: j.invoice.Pages.End,
		RenderedPageMIME:  renderedPageMIME,
	}
	if reextracted.DebugDump {
		extraction.TableDebug = buildTableDebug(reextracted, validation)
	}

	inv := j.invoice
	inv.Header = hdr
	return assemble.Assemble(inv, lines, validation, extraction)
}

// buildTableDebug assembles the table_debug/ artefact material for an
// invoice whose re-extraction flow never settled on a passing mode
// (spec §4.12, §6.6).
func buildTableDebug(r validate.ReExtractResult, validation model.ValidationResult) *model.TableDebugDump {
	var lines []string
	var tokens []model.Token
	for _, row := range r.Rows {
		lines = append(lines, row.Text())
		tokens = append(tokens, row.Tokens...)
	}
	return &model.TableDebugDump{
		RawText:    strings.Join(lines, "\n"),
		Tokens:     tokens,
		Lines:      r.Lines,
		Validation: validation,
	}
}

func anyOCR(decisions []model.PageRoutingDecision) bool {
	for _, d := range decisions {
		if d.Source == model.RoutingOCR {
			return true
		}
	}
	return false
}

// runAIFallback invokes the AI Fallback for the total field only, under
// its own timeout, and returns a header with the total replaced when the
// fallback produced one. It never retries beyond aifallback.Invoke's own
// single retry, and never re-invokes itself.
func runAIFallback(ctx context.Context, j job, hdr *model.InvoiceHeader, pdfQuality, ocrMedianConf *float64, opts Options) (*model.InvoiceHeader, model.ExtractionMethod, []string, []byte, string) {
	aiCtx, cancel := context.WithTimeout(ctx, opts.AITimeout)
	defer cancel()

	signals := aifallback.QualitySignals{}
	if pdfQuality != nil {
		signals.PDFTextQuality, signals.HasPDFTextQuality = *pdfQuality, true
	}
	if ocrMedianConf != nil {
		signals.OCRMedianConfidence, signals.HasOCRConfidence = *ocrMedianConf, true
	}
	reasons := aifallback.VisionReasons(signals)

	excerpts := footerExcerpt(hdr)
	var image []byte
	var imageMIME string
	if len(reasons) > 0 {
		if img, err := j.runContext.RenderPageImage(j.invoice.Pages.End); err == nil {
			if prepared, mime, err := aifallback.PrepareImage(img); err == nil {
				image, imageMIME = prepared, mime
			}
		}
	}

	aiCfg := aifallback.DefaultConfig()
	aiCfg.Threshold = opts.Config.AI.Threshold
	if opts.Config.AI.Model != "" {
		aiCfg.TextModel = opts.Config.AI.Model
		aiCfg.VisionModel = opts.Config.AI.Model
	}
	result, err := aifallback.Invoke(aiCtx, opts.AIClient, excerpts, image, reasons, aiCfg)
	if err != nil || result.TotalAmount == nil {
		method := model.MethodPDFPlumber
		if anyOCR(j.decisions) {
			method = model.MethodOCR
		}
		return hdr, method, reasons, image, imageMIME
	}

	source := model.SourceAIText
	if result.MethodUsed == model.MethodAIVision {
		source = model.SourceAIVision
	}
	f, _ := result.TotalAmount.Float64()
	b := header.NewBuilder().
		WithInvoiceNumber(hdr.InvoiceNumber, hdr.InvoiceNumberConf, hdr.InvoiceNumberTrace).
		WithTotal(&f, 1.0, hdr.TotalTrace).
		WithSupplier(hdr.Supplier).
		WithDate(hdr.Date).
		WithExtractionSource(source)
	return b.Seal(), result.MethodUsed, reasons, image, imageMIME
}

func footerExcerpt(hdr *model.InvoiceHeader) string {
	if hdr == nil || hdr.TotalTrace == nil {
		return ""
	}
	return hdr.TotalTrace.TextExcerpt
}
