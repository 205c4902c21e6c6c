// Package assemble groups a VirtualInvoice's parsed header, lines,
// validation result, and extraction detail into the ordered record that
// external collaborators (spreadsheet, review-folder, run-summary
// writers) consume (spec §4.15). It does not write files itself.
package assemble

import "github.com/ramirent/faktura-extract/internal/model"

// Assemble attaches lines, a validation result, and an extraction detail
// to a VirtualInvoice, returning the completed record. The writers in
// internal/xlsxwriter, internal/reviewfolder, and internal/runsummary
// read this record; none of them re-derive these fields.
func Assemble(inv model.VirtualInvoice, lines []model.InvoiceLine, validation model.ValidationResult, extraction model.ExtractionDetail) model.VirtualInvoice {
	inv.Lines = lines
	inv.Validation = &validation
	inv.Extraction = &extraction
	return inv
}

// AssembleBatch assembles a RunSummary from finished VirtualInvoices,
// preserving input order (spec §5 "output order must match input
// order").
func AssembleBatch(invoices []model.VirtualInvoice, failedFiles int) *model.RunSummary {
	summary := model.NewRunSummary()
	summary.TotalFiles = len(invoices) + failedFiles
	summary.Failed = failedFiles
	summary.FullInvoices = invoices

	for _, inv := range invoices {
		status := model.StatusReview
		var detail model.ExtractionDetail
		if inv.Validation != nil {
			status = inv.Validation.Status
		}
		if inv.Extraction != nil {
			detail = *inv.Extraction
		}
		summary.Counts[status]++
		summary.Invoices = append(summary.Invoices, model.InvoiceSummary{
			ID:         inv.ID,
			Status:     status,
			Extraction: detail,
		})
	}
	return summary
}
