// Package fakturalib provides a public API for extracting structured data
// from Swedish invoice PDFs.
//
// This package exposes the core types and a Processor facade over the
// internal extraction pipeline, so external Go programs can embed batch
// invoice extraction without depending on internal/ packages directly.
//
// Example usage:
//
//	proc := fakturalib.NewDefaultProcessor()
//	summary, err := proc.ProcessBatch(ctx, []string{"invoices/a.pdf", "invoices/b.pdf"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(summary.Counts)
package fakturalib

import "github.com/ramirent/faktura-extract/internal/model"

// Re-export core types for public API.
type (
	VirtualInvoice   = model.VirtualInvoice
	InvoiceHeader    = model.InvoiceHeader
	InvoiceLine      = model.InvoiceLine
	ValidationResult = model.ValidationResult
	ExtractionDetail = model.ExtractionDetail
	RunSummary       = model.RunSummary
	InvoiceSummary   = model.InvoiceSummary
	ExtractionMethod = model.ExtractionMethod
	ExtractionSource = model.ExtractionSource
	Status           = model.Status
)

// Re-export status constants.
const (
	StatusOK      = model.StatusOK
	StatusPartial = model.StatusPartial
	StatusReview  = model.StatusReview
)

// Re-export extraction-method constants.
const (
	MethodPDFPlumber = model.MethodPDFPlumber
	MethodOCR        = model.MethodOCR
	MethodAIText     = model.MethodAIText
	MethodAIVision   = model.MethodAIVision
)

// Re-export error types.
type (
	CorruptPdfError         = model.CorruptPdfError
	OcrFailureError         = model.OcrFailureError
	AiFailureError          = model.AiFailureError
	RoutingUncertainError   = model.RoutingUncertainError
	ValidationMismatchError = model.ValidationMismatchError
	ExtractionTimeoutError  = model.ExtractionTimeoutError
)
