package model

import "github.com/shopspring/decimal"

// InvoiceLine is one parsed line item. TotalAmount is required and may be
// negative for credit lines; all other amount fields are optional.
type InvoiceLine struct {
	LineNumber  int    `json:"line_number"`
	Description string `json:"description"`

	Quantity  *decimal.Decimal `json:"quantity"`
	Unit      string           `json:"unit"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Discount  *decimal.Decimal `json:"discount"`
	VATRate   *decimal.Decimal `json:"vat_rate"`

	TotalAmount decimal.Decimal `json:"total_amount"`

	SourceRows []Row `json:"source_rows"`
}
