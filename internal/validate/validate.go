// Package validate assigns a Status to a VirtualInvoice's extraction
// result and drives mode-A-to-mode-B re-extraction (spec §4.12).
package validate

import (
	"fmt"

	sdecimal "github.com/shopspring/decimal"

	"github.com/ramirent/faktura-extract/internal/model"
)

// Config holds the Validator's tolerances and parser-mode policy (spec
// §4.12 config key table).
type Config struct {
	TableParserMode string // auto, text, pos
	ToleranceNet    sdecimal.Decimal
	TolerancePay    sdecimal.Decimal
	SumTolerance    sdecimal.Decimal
}

// DefaultConfig returns the Validator's built-in defaults.
func DefaultConfig() Config {
	return Config{
		TableParserMode: "auto",
		ToleranceNet:    sdecimal.NewFromFloat(0.50),
		TolerancePay:    sdecimal.NewFromFloat(0.50),
		SumTolerance:    sdecimal.NewFromFloat(model.DefaultTolerance),
	}
}

// Validate computes lines_sum, diff, the VAL-01/VAL-02 hard gates, and
// assigns a Status per the ordered rules in spec §4.12.
func Validate(header *model.InvoiceHeader, lines []model.InvoiceLine, footerNet, footerToPay *sdecimal.Decimal, cfg Config) model.ValidationResult {
	linesSum := sumLines(lines)

	var diff *sdecimal.Decimal
	if header != nil && header.TotalAmount != nil {
		d := sdecimal.NewFromFloat(*header.TotalAmount).Sub(linesSum)
		diff = &d
	}

	result := model.ValidationResult{
		LinesSum:  linesSum,
		Diff:      diff,
		Tolerance: cfg.SumTolerance,
	}
	if header != nil {
		result.HardGatePass = header.HardGatePass()
		result.InvoiceNumberConf = header.InvoiceNumberConf
		result.TotalConf = header.TotalConf
	}

	hardGateFail := !result.HardGatePass || header == nil || header.TotalAmount == nil
	switch {
	case hardGateFail || len(lines) == 0:
		result.Status = model.StatusReview
		if header == nil || !result.HardGatePass {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"Hard gate failed: invoice_number_conf=%.2f, total_conf=%.2f", result.InvoiceNumberConf, result.TotalConf))
		}
		if header == nil || header.TotalAmount == nil {
			result.Errors = append(result.Errors, "Total amount not extracted")
		}
		if len(lines) == 0 {
			result.Errors = append(result.Errors, "No invoice lines extracted")
		}
	case diff != nil && diff.Abs().LessThanOrEqual(cfg.SumTolerance):
		result.Status = model.StatusOK
	default:
		result.Status = model.StatusPartial
		if diff != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"Sum mismatch: diff=%.2f SEK (tolerance: ±%.1f SEK)", diff.InexactFloat64(), cfg.SumTolerance.InexactFloat64()))
		}
	}

	result.Warnings = append(result.Warnings, lineLevelWarnings(lines)...)
	return result
}

// PassesVAL01 checks |lines_sum - footer_net| <= tolerance_net.
func PassesVAL01(linesSum sdecimal.Decimal, footerNet *sdecimal.Decimal, cfg Config) bool {
	if footerNet == nil {
		return true
	}
	return linesSum.Sub(*footerNet).Abs().LessThanOrEqual(cfg.ToleranceNet)
}

// PassesVAL02 checks |lines_sum * 1.25 - to_pay| <= tolerance_pay.
func PassesVAL02(linesSum sdecimal.Decimal, footerToPay *sdecimal.Decimal, cfg Config) bool {
	if footerToPay == nil {
		return true
	}
	withVAT := linesSum.Mul(sdecimal.NewFromFloat(1.25))
	return withVAT.Sub(*footerToPay).Abs().LessThanOrEqual(cfg.TolerancePay)
}

func sumLines(lines []model.InvoiceLine) sdecimal.Decimal {
	total := sdecimal.Zero
	for _, l := range lines {
		total = total.Add(l.TotalAmount)
	}
	return total
}

func lineLevelWarnings(lines []model.InvoiceLine) []string {
	var warnings []string
	for _, l := range lines {
		if l.Quantity == nil || l.UnitPrice == nil {
			continue
		}
		expected := l.Quantity.Mul(*l.UnitPrice)
		delta := expected.Sub(l.TotalAmount).Abs()
		if delta.GreaterThan(sdecimal.NewFromFloat(0.01)) {
			warnings = append(warnings, fmt.Sprintf(
				"Row %d: quantity×unit_price ≠ total (Δ=%.2f)", l.LineNumber, delta.InexactFloat64()))
		}
	}
	return warnings
}
