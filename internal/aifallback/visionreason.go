package aifallback

import "fmt"

// QualitySignals carries the routing/extraction quality inputs that can
// trigger the vision path instead of the cheaper text path.
type QualitySignals struct {
	PDFTextQuality     float64 // internal/routing.TextQuality for the page, [0,1]
	HasPDFTextQuality  bool
	OCRMedianConfidence float64 // 0-100 scale
	HasOCRConfidence   bool
}

const (
	minPDFTextQuality  = 0.5
	minOCRMedianConf   = 70.0
)

// VisionReasons enumerates the threshold conditions that justify
// spending a vision call instead of a text-only one (spec §4.13). An
// empty slice means none of the known signals justify vision; callers
// should prefer the text strategy in that case.
func VisionReasons(sig QualitySignals) []string {
	var reasons []string
	if sig.HasPDFTextQuality && sig.PDFTextQuality < minPDFTextQuality {
		reasons = append(reasons, fmt.Sprintf("pdf_text_quality<%.1f", minPDFTextQuality))
	}
	if sig.HasOCRConfidence && sig.OCRMedianConfidence < minOCRMedianConf {
		reasons = append(reasons, fmt.Sprintf("ocr_median_conf<%.0f", minOCRMedianConf))
	}
	return reasons
}
