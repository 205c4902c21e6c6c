package calibrate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ramirent/faktura-extract/internal/calibrate"
)

func TestIdentity_PassesThrough(t *testing.T) {
	c := calibrate.Identity()
	assert.Equal(t, 0.73, c.Calibrate(0.73))
	assert.Equal(t, 1.0, c.Calibrate(1.5))
	assert.Equal(t, 0.0, c.Calibrate(-0.5))
}

func TestFromPoints_InterpolatesMonotonically(t *testing.T) {
	c := calibrate.FromPoints([]calibrate.Point{
		{Raw: 0.0, Calibrated: 0.0},
		{Raw: 0.5, Calibrated: 0.8},
		{Raw: 1.0, Calibrated: 1.0},
	})
	assert.InDelta(t, 0.8, c.Calibrate(0.5), 0.001)
	assert.InDelta(t, 0.4, c.Calibrate(0.25), 0.001)
	assert.Equal(t, 0.0, c.Calibrate(-1))
	assert.Equal(t, 1.0, c.Calibrate(2))
}
