package psf

import (
	"fmt"
	"math"

	"github.com/abworrall/lensim/pkg/emath"
)

type Kind string

const (
	Gaussian Kind = "GAUSSIAN"
	Pixel    Kind = "PIXEL"
	None     Kind = "NONE"
)

// Gaussian kernels are truncated at this many sigma.
const Truncation = 5.0

// A PSF is the point spread function of an instrument, as a normalised
// kernel sampled at the pixel scale of the image it will be applied to.
// Kernels always have odd dimensions, so they have a central pixel.
type PSF struct {
	Kind   Kind
	FWHM   float64 // arcsec; only for GAUSSIAN
	Kernel emath.FloatGrid
}

// New looks up a PSF by kind; fwhm is only used by GAUSSIAN, and kernel
// only by PIXEL.
func New(kind string, fwhm, deltaPix float64, kernel emath.FloatGrid) (PSF, error) {
	switch Kind(kind) {
	case Gaussian:
		return NewGaussian(fwhm, deltaPix)
	case Pixel:
		return NewPixel(kernel)
	case None:
		return NewNone(), nil
	}
	return PSF{}, fmt.Errorf("psf type '%s' not supported, want one of GAUSSIAN, PIXEL, NONE", kind)
}

func NewNone() PSF {
	k := emath.NewFloatGrid(1, 1)
	k.Set(0, 0, 1)
	return PSF{Kind: None, Kernel: k}
}

func NewGaussian(fwhm, deltaPix float64) (PSF, error) {
	if fwhm <= 0 || deltaPix <= 0 || !emath.IsFinite(fwhm) || !emath.IsFinite(deltaPix) {
		return PSF{}, fmt.Errorf("gaussian psf: fwhm %g and pixel scale %g must be positive", fwhm, deltaPix)
	}

	sigma := fwhm / (2 * math.Sqrt(2*math.Ln2)) / deltaPix // in pixels
	half := int(math.Ceil(Truncation * sigma))
	size := 2*half + 1

	k := emath.NewFloatGrid(size, size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x-half), float64(y-half)
			k.Set(x, y, math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma)))
		}
	}
	k.Scale(1 / k.Sum())

	return PSF{Kind: Gaussian, FWHM: fwhm, Kernel: k}, nil
}

// NewPixel wraps a caller supplied kernel, which gets normalised to unit sum.
func NewPixel(kernel emath.FloatGrid) (PSF, error) {
	if kernel.IsEmpty() {
		return PSF{}, fmt.Errorf("pixel psf: empty kernel")
	}
	if kernel.Dx()%2 == 0 || kernel.Dy()%2 == 0 {
		return PSF{}, fmt.Errorf("pixel psf: kernel must have odd dimensions, got %dx%d", kernel.Dx(), kernel.Dy())
	}
	k := kernel.Copy()
	sum := k.Sum()
	if sum <= 0 || !emath.IsFinite(sum) {
		return PSF{}, fmt.Errorf("pixel psf: kernel sum %g must be positive", sum)
	}
	k.Scale(1 / sum)
	return PSF{Kind: Pixel, Kernel: k}, nil
}

func (p PSF) String() string {
	return fmt.Sprintf("PSF[%s, fwhm %g, kernel %dx%d]", p.Kind, p.FWHM, p.Kernel.Dx(), p.Kernel.Dy())
}

// IsIdentity is true when convolving with the PSF is a no-op.
func (p PSF) IsIdentity() bool {
	return p.Kernel.Dx() == 1 && p.Kernel.Dy() == 1
}
