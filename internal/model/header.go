package model

// ExtractionSource tags which strategy ultimately produced a header field
// or an invoice's tokens. It is the "tagged variant" the design notes (§9
// of the spec) ask for in place of subclass polymorphism.
type ExtractionSource string

const (
	SourceText     ExtractionSource = "text"
	SourceOCR      ExtractionSource = "ocr"
	SourceAIText   ExtractionSource = "ai_text"
	SourceAIVision ExtractionSource = "ai_vision"
)

// InvoiceHeader is the sealed, immutable result of header extraction. The
// extraction code builds it through header.Builder.Seal (internal/header)
// and never mutates it in place once built, per the builder design note.
type InvoiceHeader struct {
	InvoiceNumber      string        `json:"invoice_number"`
	InvoiceNumberConf  float64       `json:"invoice_number_confidence"`
	InvoiceNumberTrace *Traceability `json:"invoice_number_trace"`

	TotalAmount *float64      `json:"total_amount"`
	TotalConf   float64       `json:"total_confidence"`
	TotalTrace  *Traceability `json:"total_trace"`

	Supplier string  `json:"supplier"`
	Date     *string `json:"date"` // ISO-8601 date, when recognised

	ExtractionSource ExtractionSource `json:"extraction_source"`
}

// HardGatePass reports whether both confidences clear the 0.95 hard gate
// (spec §3, §4.9).
func (h *InvoiceHeader) HardGatePass() bool {
	if h == nil {
		return false
	}
	return h.InvoiceNumberConf >= 0.95 && h.TotalConf >= 0.95
}
