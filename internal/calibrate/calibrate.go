// Package calibrate maps raw per-field confidence scores to calibrated
// 0-1 probabilities (spec §4.14). All hard-gate comparisons use the
// calibrated value, never the raw score.
package calibrate

import "sort"

// Point is one (raw, calibrated) anchor of a monotone map.
type Point struct {
	Raw        float64
	Calibrated float64
}

// Calibrator is a monotone non-decreasing map from raw score to
// calibrated probability, learned offline and loaded at startup.
type Calibrator struct {
	points []Point
}

// Identity returns a Calibrator that passes raw scores through
// unchanged. This is the fallback used when no calibration artefact is
// supplied (spec §4.14) — it is not a design choice about accuracy, only
// the absence of a fitted one.
func Identity() *Calibrator {
	return &Calibrator{}
}

// FromPoints builds a Calibrator from offline-fitted (raw, calibrated)
// points. Points must already be sorted by Raw ascending with
// non-decreasing Calibrated values; FromPoints does not re-sort or
// enforce monotonicity, since that is the fitting process's
// responsibility, not the runtime's.
func FromPoints(points []Point) *Calibrator {
	return &Calibrator{points: points}
}

// Calibrate maps a raw score in [0,1] to its calibrated value via
// piecewise-linear interpolation over the fitted points. With no points
// loaded, it is the identity map.
func (c *Calibrator) Calibrate(raw float64) float64 {
	if len(c.points) == 0 {
		return clamp01(raw)
	}
	if raw <= c.points[0].Raw {
		return clamp01(c.points[0].Calibrated)
	}
	last := c.points[len(c.points)-1]
	if raw >= last.Raw {
		return clamp01(last.Calibrated)
	}

	i := sort.Search(len(c.points), func(i int) bool { return c.points[i].Raw >= raw })
	lo, hi := c.points[i-1], c.points[i]
	if hi.Raw == lo.Raw {
		return clamp01(lo.Calibrated)
	}
	frac := (raw - lo.Raw) / (hi.Raw - lo.Raw)
	return clamp01(lo.Calibrated + frac*(hi.Calibrated-lo.Calibrated))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
