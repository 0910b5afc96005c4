package domain

import "math"

// Depth colors, darkest (deepest) first.
const (
	ColorOver90  = "#320064"
	ColorOver70  = "#5B2F76"
	ColorOver50  = "#845E88"
	ColorOver30  = "#AD8D9B"
	ColorOver10  = "#D6BCAD"
	ColorShallow = "#FFEBBF"
)

// radiusScale converts magnitude to marker radius in pixels.
const radiusScale = 5

// DepthColor returns the fill color for a depth in kilometers. Thresholds
// are strict, so exactly 90 km falls in the 70–90 bucket.
func DepthColor(depth float64) string {
	switch {
	case depth > 90:
		return ColorOver90
	case depth > 70:
		return ColorOver70
	case depth > 50:
		return ColorOver50
	case depth > 30:
		return ColorOver30
	case depth > 10:
		return ColorOver10
	default:
		return ColorShallow
	}
}

// MarkerRadius scales a magnitude to a marker radius. Non-finite magnitudes
// return 0. Negative magnitudes return a negative radius; callers treat any
// radius <= 0 as invisible.
func MarkerRadius(magnitude float64) float64 {
	if math.IsNaN(magnitude) || math.IsInf(magnitude, 0) {
		return 0
	}
	return magnitude * radiusScale
}
