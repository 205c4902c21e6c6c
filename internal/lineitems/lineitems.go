package lineitems

import "github.com/ramirent/faktura-extract/internal/model"

// TableParserMode selects which line-item parsing strategy runs (spec
// §4.10, §4.12 config key table).
type TableParserMode string

const (
	ModeAuto TableParserMode = "auto"
	ModeText TableParserMode = "text"
	ModePos  TableParserMode = "pos"
)

// Result is the line-item parser's output for one invoice: the parsed
// lines, which mode actually produced them, and whether a table
// boundary was found at all.
type Result struct {
	Lines          []model.InvoiceLine
	ModeUsed       TableParserMode
	NoTableBoundary bool
}

// Parse delimits the table block within segmentRows and runs mode A
// (and, if requested, mode B) over it. Mode selection beyond an
// unconditional "pos" request is the Validator's job (spec §4.12); this
// function runs exactly the mode asked for.
func Parse(segmentRows []model.Row, mode TableParserMode, pageWidth float64) Result {
	start, end, boundaryFound := DelimitBlock(segmentRows)
	block := segmentRows[start:end]

	var headerRow *model.Row
	if boundaryFound && start > 0 {
		h := segmentRows[start-1]
		headerRow = &h
	}

	switch mode {
	case ModePos:
		lines := ParseModeB(block, headerRow, pageWidth)
		return Result{Lines: lines, ModeUsed: ModePos, NoTableBoundary: !boundaryFound}
	default:
		lines := ParseModeA(block, pageWidth)
		return Result{Lines: lines, ModeUsed: ModeText, NoTableBoundary: !boundaryFound}
	}
}

// RunModeB runs the position/column-clustering fallback over the same
// block Parse(segmentRows, ModeText, ...) used, for the Validator's
// auto-mode re-extraction (spec §4.12).
func RunModeB(segmentRows []model.Row, pageWidth float64) Result {
	start, end, boundaryFound := DelimitBlock(segmentRows)
	block := segmentRows[start:end]

	var headerRow *model.Row
	if boundaryFound && start > 0 {
		h := segmentRows[start-1]
		headerRow = &h
	}

	lines := ParseModeB(block, headerRow, pageWidth)
	return Result{Lines: lines, ModeUsed: ModePos, NoTableBoundary: !boundaryFound}
}
