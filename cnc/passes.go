// Package cnc synthesizes tool paths: multi-pass vector profiles from
// parsed artwork and depth-corrected raster reliefs from height maps.
package cnc

import "math"

// PassDepths returns the Z of every pass cutting down to targetDepth in
// steps of stepDown. Depths are negative; the last pass is clamped to the
// target. A non-positive step cuts in a single pass.
func PassDepths(targetDepth, stepDown float64) []float64 {
	targetDepth = math.Abs(targetDepth)
	if targetDepth == 0 {
		return nil
	}
	if stepDown <= 0 || stepDown >= targetDepth {
		return []float64{-targetDepth}
	}
	n := int(math.Ceil(targetDepth/stepDown - 1e-9))
	zs := make([]float64, n)
	for i := range zs {
		zs[i] = -math.Min(float64(i+1)*stepDown, targetDepth)
	}
	return zs
}
