package imsim

import (
	"fmt"
	"math"

	"github.com/abworrall/lensim/pkg/emath"
)

// MagnitudeToCounts is the flux, in counts per second, of an object of
// magnitude mag: 10^(-(mag - zeroPoint)/2.5).
func MagnitudeToCounts(mag, zeroPoint float64) (float64, error) {
	if !emath.IsFinite(mag) || !emath.IsFinite(zeroPoint) {
		return 0, fmt.Errorf("magnitude %g and zero point %g must be finite", mag, zeroPoint)
	}
	return math.Pow(10, -(mag-zeroPoint)/2.5), nil
}

func CountsToMagnitude(counts, zeroPoint float64) float64 {
	return zeroPoint - 2.5*math.Log10(counts)
}
