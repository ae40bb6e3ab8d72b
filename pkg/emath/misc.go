package emath

import "math"

// Some functions that only operate on basic types, that are useful

// https://www.sjbrown.co.uk/posts/gamma-correct-rendering/ - "linear RGB to sRGB"
// `f` is assumed to be in the range [0,1]
func GammaExpand_F64(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055*math.Pow(f, 1.0/2.4) - 0.055
}

func IsFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// ArcsecToRad converts an angle in arcseconds to radians.
func ArcsecToRad(a float64) float64 { return a / 3600.0 * math.Pi / 180.0 }
