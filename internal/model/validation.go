package model

import "github.com/shopspring/decimal"

// Status is the tri-state classification a Validator assigns to an
// invoice.
type Status string

const (
	StatusOK      Status = "OK"
	StatusPartial Status = "PARTIAL"
	StatusReview  Status = "REVIEW"
)

// DefaultTolerance is the default sum-vs-header tolerance (1.0 SEK).
const DefaultTolerance = 1.0

// ValidationResult is the Validator's verdict for one VirtualInvoice.
type ValidationResult struct {
	Status    Status          `json:"status"`
	LinesSum  decimal.Decimal `json:"lines_sum"`
	Diff      *decimal.Decimal `json:"diff"` // header.total - lines_sum; nil when header total unknown
	Tolerance decimal.Decimal `json:"tolerance"`

	HardGatePass      bool    `json:"hard_gate_pass"`
	InvoiceNumberConf float64 `json:"invoice_number_confidence"`
	TotalConf         float64 `json:"total_confidence"`

	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}
