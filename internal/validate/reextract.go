package validate

import (
	sdecimal "github.com/shopspring/decimal"

	"github.com/ramirent/faktura-extract/internal/lineitems"
	"github.com/ramirent/faktura-extract/internal/model"
)

// ReExtractResult records which table-parser mode the auto-mode
// re-extraction flow settled on and whether a debug dump is warranted.
type ReExtractResult struct {
	Lines     []model.InvoiceLine
	ModeUsed  lineitems.TableParserMode
	DebugDump bool

	// Rows is the segment's line-item rows, carried through only so a
	// debug dump can render their raw text and tokens; nil when
	// DebugDump is false.
	Rows []model.Row
}

// ReExtract implements the auto-mode validation-driven re-extraction
// flow (spec §4.12): run mode A, check VAL-01 against the footer net
// total; on failure run mode B and recheck VAL-01/VAL-02; keep whichever
// result passes, falling back to mode A (flagged for a debug dump) if
// neither does.
func ReExtract(segmentRows []model.Row, pageWidth float64, footerNet, footerToPay *sdecimal.Decimal, cfg Config) ReExtractResult {
	modeA := lineitems.Parse(segmentRows, lineitems.ModeText, pageWidth)
	if cfg.TableParserMode == string(lineitems.ModePos) {
		modeB := lineitems.RunModeB(segmentRows, pageWidth)
		return ReExtractResult{Lines: modeB.Lines, ModeUsed: lineitems.ModePos}
	}
	if cfg.TableParserMode == string(lineitems.ModeText) {
		return ReExtractResult{Lines: modeA.Lines, ModeUsed: lineitems.ModeText}
	}

	sumA := sumLines(modeA.Lines)
	if PassesVAL01(sumA, footerNet, cfg) {
		return ReExtractResult{Lines: modeA.Lines, ModeUsed: lineitems.ModeText}
	}

	modeB := lineitems.RunModeB(segmentRows, pageWidth)
	sumB := sumLines(modeB.Lines)
	if PassesVAL01(sumB, footerNet, cfg) && PassesVAL02(sumB, footerToPay, cfg) {
		return ReExtractResult{Lines: modeB.Lines, ModeUsed: lineitems.ModePos}
	}

	return ReExtractResult{Lines: modeA.Lines, ModeUsed: lineitems.ModeText, DebugDump: true, Rows: segmentRows}
}
