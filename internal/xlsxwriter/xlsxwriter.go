// Package xlsxwriter writes the batch run's VirtualInvoices to an xlsx
// workbook (spec §6.1), one row per invoice line (or one row per invoice
// when it has no lines), in the exact column order Ramirent's
// accounting import expects.
package xlsxwriter

import (
	"fmt"

	sdecimal "github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ramirent/faktura-extract/internal/model"
)

// columns is the spreadsheet's exact column order (spec §6.1). Changing
// this slice changes the workbook's contract with downstream import
// tooling.
var columns = []string{
	"Fakturanummer", "Referenser", "Företag", "Fakturadatum", "Beskrivning",
	"Antal", "Enhet", "Á-pris", "Rabatt", "Summa", "Hela summan",
	"Faktura-ID", "Status", "Radsumma", "Avvikelse",
	"Fakturanummer-konfidens", "Totalsumma-konfidens",
}

const sheetName = "Invoices"

// Write builds a workbook from invoices and saves it to outputPath.
func Write(invoices []model.VirtualInvoice, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetList()[0], sheetName); err != nil {
		return fmt.Errorf("xlsxwriter: rename sheet: %w", err)
	}

	for i, name := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("xlsxwriter: write header: %w", err)
		}
	}

	row := 2
	for _, inv := range invoices {
		if len(inv.Lines) == 0 {
			if err := writeRow(f, row, inv, nil); err != nil {
				return err
			}
			row++
			continue
		}
		for _, line := range inv.Lines {
			if err := writeRow(f, row, inv, &line); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("xlsxwriter: save workbook: %w", err)
	}
	return nil
}

// writeRow writes one spreadsheet row: invoice-level fields repeat
// identically across every line row of the same invoice (spec §6.1).
func writeRow(f *excelize.File, row int, inv model.VirtualInvoice, line *model.InvoiceLine) error {
	values := []interface{}{
		headerField(inv, func(h *model.InvoiceHeader) interface{} { return h.InvoiceNumber }),
		"", // Referenser: no source field in this pipeline yet
		headerField(inv, func(h *model.InvoiceHeader) interface{} { return h.Supplier }),
		headerField(inv, func(h *model.InvoiceHeader) interface{} {
			if h.Date == nil {
				return ""
			}
			return *h.Date
		}),
		lineField(line, func(l *model.InvoiceLine) interface{} { return l.Description }),
		lineField(line, func(l *model.InvoiceLine) interface{} { return decimalOrEmpty(l.Quantity) }),
		lineField(line, func(l *model.InvoiceLine) interface{} { return l.Unit }),
		lineField(line, func(l *model.InvoiceLine) interface{} { return decimalOrEmpty(l.UnitPrice) }),
		lineField(line, func(l *model.InvoiceLine) interface{} { return decimalOrEmpty(l.Discount) }),
		lineField(line, func(l *model.InvoiceLine) interface{} { f, _ := l.TotalAmount.Float64(); return f }),
		totalOrNA(inv.Header),
		inv.ID,
		statusOf(inv.Validation),
		radsumma(inv.Validation),
		avvikelse(inv.Validation),
		headerField(inv, func(h *model.InvoiceHeader) interface{} { return h.InvoiceNumberConf }),
		headerField(inv, func(h *model.InvoiceHeader) interface{} { return h.TotalConf }),
	}

	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("xlsxwriter: write row %d col %d: %w", row, i+1, err)
		}
	}
	return nil
}

func headerField(inv model.VirtualInvoice, get func(*model.InvoiceHeader) interface{}) interface{} {
	if inv.Header == nil {
		return ""
	}
	return get(inv.Header)
}

func lineField(line *model.InvoiceLine, get func(*model.InvoiceLine) interface{}) interface{} {
	if line == nil {
		return ""
	}
	return get(line)
}

func decimalOrEmpty(d *sdecimal.Decimal) interface{} {
	if d == nil {
		return ""
	}
	f, _ := d.Float64()
	return f
}

func totalOrNA(h *model.InvoiceHeader) interface{} {
	if h == nil || h.TotalAmount == nil {
		return "N/A"
	}
	return *h.TotalAmount
}

func statusOf(v *model.ValidationResult) interface{} {
	if v == nil {
		return string(model.StatusReview)
	}
	return string(v.Status)
}

func radsumma(v *model.ValidationResult) interface{} {
	if v == nil {
		return ""
	}
	f, _ := v.LinesSum.Float64()
	return f
}

func avvikelse(v *model.ValidationResult) interface{} {
	if v == nil || v.Diff == nil {
		return "N/A"
	}
	f, _ := v.Diff.Float64()
	return f
}
