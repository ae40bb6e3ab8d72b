package imsim

import (
	"fmt"

	"github.com/abworrall/lensim/pkg/band"
	"github.com/abworrall/lensim/pkg/emath"
	"github.com/abworrall/lensim/pkg/psf"
)

// A SimAPI binds a band configuration to a square image of NumPix
// pixels, centred on the origin of the sky coordinates.
type SimAPI struct {
	NumPix int
	Band   band.Settings
	Grid   emath.PixelGrid
	PSF    psf.PSF
}

// NewSimAPI builds the pixel grid and PSF for the band. kernel is only
// used when the band's psf type is PIXEL.
func NewSimAPI(numPix int, b band.Settings, kernel emath.FloatGrid) (SimAPI, error) {
	grid, err := DataClass(numPix, b.PixelScale)
	if err != nil {
		return SimAPI{}, err
	}
	p, err := psf.New(b.PSFType, b.Seeing, b.PixelScale, kernel)
	if err != nil {
		return SimAPI{}, fmt.Errorf("band %s/%s: %w", b.Observatory, b.Band, err)
	}
	return SimAPI{NumPix: numPix, Band: b, Grid: grid, PSF: p}, nil
}

// DataClass is the pixel grid of the simulated image: numPix square,
// pixels of deltaPix arcsec, with the image centre at (0,0).
func DataClass(numPix int, deltaPix float64) (emath.PixelGrid, error) {
	if numPix <= 0 {
		return emath.PixelGrid{}, fmt.Errorf("num_pix must be positive, got %d", numPix)
	}
	if deltaPix <= 0 || !emath.IsFinite(deltaPix) {
		return emath.PixelGrid{}, fmt.Errorf("pixel scale must be positive, got %g", deltaPix)
	}
	return emath.NewCenteredPixelGrid(numPix, deltaPix)
}

func (sa SimAPI) MagnitudeToAmplitude(sc Scene) (Amplitudes, error) {
	return MagnitudeToAmplitude(sc, sa.Band.MagnitudeZeroPoint)
}

func (sa SimAPI) ImageModel(n Numerics) (ImageModel, error) {
	if err := n.Validate(); err != nil {
		return ImageModel{}, err
	}
	return ImageModel{Grid: sa.Grid, PSF: sa.PSF, Numerics: n}, nil
}

func (sa SimAPI) String() string {
	return fmt.Sprintf("SimAPI[%dpix, %s/%s, %s]", sa.NumPix, sa.Band.Observatory, sa.Band.Band, sa.PSF)
}
