package simulation

import (
	"fmt"

	"github.com/abworrall/lensim/pkg/emath"
	"github.com/abworrall/lensim/pkg/imsim"
	"github.com/abworrall/lensim/pkg/psf"
	"github.com/abworrall/lensim/pkg/variability"
)

// PointSourceProperties locate the deflector and point source images on
// the pixel grid, along with the images' brightness. One record covers
// every image.
type PointSourceProperties struct {
	DeflectorPix   [2]float64   `yaml:"deflector_pix"`
	ImagePix       [][2]float64 `yaml:"image_pix"`
	RAImage        []float64    `yaml:"ra_image"`
	DecImage       []float64    `yaml:"dec_image"`
	ImageAmplitude []float64    `yaml:"image_amplitude"`
	ImageMagnitude []float64    `yaml:"image_magnitude"`
	RADecAtXY0     [2]float64   `yaml:"radec_at_xy_0"`
}

// PointSourceRow is one image's slice of PointSourceProperties.
type PointSourceRow struct {
	Image     int     `yaml:"image"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	RA        float64 `yaml:"ra"`
	Dec       float64 `yaml:"dec"`
	Amplitude float64 `yaml:"amplitude"`
	Magnitude float64 `yaml:"magnitude"`
}

func (p PointSourceProperties) Rows() []PointSourceRow {
	rows := []PointSourceRow{}
	for i := range p.RAImage {
		rows = append(rows, PointSourceRow{
			Image:     i,
			X:         p.ImagePix[i][0],
			Y:         p.ImagePix[i][1],
			RA:        p.RAImage[i],
			Dec:       p.DecImage[i],
			Amplitude: p.ImageAmplitude[i],
			Magnitude: p.ImageMagnitude[i],
		})
	}
	return rows
}

// PointSourceImageProperties maps the lens onto a numPix square grid of
// deltaPix pixels centred on the sky origin.
func PointSourceImageProperties(sys LensSystem, bandName string, zp, deltaPix float64, numPix int) (PointSourceProperties, error) {
	grid, err := imsim.DataClass(numPix, deltaPix)
	if err != nil {
		return PointSourceProperties{}, fmt.Errorf("point source properties: %w", err)
	}

	props := PointSourceProperties{}
	lx, ly := sys.DeflectorPosition()
	props.DeflectorPix[0], props.DeflectorPix[1] = grid.MapCoord2Pix(lx, ly)

	ra, dec := sys.ImagePositions()
	mags, err := sys.PointSourceMagnitude(bandName, true)
	if err != nil {
		return PointSourceProperties{}, fmt.Errorf("point source properties: %w", err)
	}
	if len(ra) != len(dec) || len(ra) != len(mags) {
		return PointSourceProperties{}, fmt.Errorf("point source properties: %d ra, %d dec, %d magnitudes", len(ra), len(dec), len(mags))
	}

	for i := range ra {
		x, y := grid.MapCoord2Pix(ra[i], dec[i])
		props.ImagePix = append(props.ImagePix, [2]float64{x, y})
		amp, err := imsim.MagnitudeToCounts(mags[i], zp)
		if err != nil {
			return PointSourceProperties{}, fmt.Errorf("point source properties, image %d: %w", i, err)
		}
		props.ImageAmplitude = append(props.ImageAmplitude, amp)
	}
	props.RAImage = append([]float64{}, ra...)
	props.DecImage = append([]float64{}, dec...)
	props.ImageMagnitude = append([]float64{}, mags...)
	props.RADecAtXY0[0], props.RADecAtXY0[1] = grid.MapPix2Coord(0, 0)

	return props, nil
}

// PointSourceImage renders each point source image with its own PSF
// kernel. The result is indexed [image][epoch]; without variability
// there is a single epoch. With variability, each image is drawn at each
// of the observation times, shifted by that image's time delay.
func PointSourceImage(sys LensSystem, bandName string, zp, deltaPix float64, numPix int, kernels []emath.FloatGrid, v *variability.Spec) ([][]emath.FloatGrid, error) {
	props, err := PointSourceImageProperties(sys, bandName, zp, deltaPix, numPix)
	if err != nil {
		return nil, err
	}

	// TODO: take the telescope's orientation on the sky into account
	transform := [2][2]float64{{deltaPix, 0}, {0, deltaPix}}
	grid, err := emath.NewPixelGrid(numPix, numPix, transform, props.RADecAtXY0[0], props.RADecAtXY0[1])
	if err != nil {
		return nil, fmt.Errorf("point source image: %w", err)
	}

	n := len(props.RAImage)
	if len(kernels) != n {
		return nil, fmt.Errorf("point source image: %d psf kernels for %d images", len(kernels), n)
	}
	psfs := []psf.PSF{}
	for i, k := range kernels {
		p, err := psf.NewPixel(k)
		if err != nil {
			return nil, fmt.Errorf("point source image, kernel %d: %w", i, err)
		}
		psfs = append(psfs, p)
	}

	if v == nil {
		out := [][]emath.FloatGrid{}
		for i := range psfs {
			stamp := psfs[i].RenderPointSource(grid, props.RAImage[i], props.DecImage[i], props.ImageAmplitude[i])
			out = append(out, []emath.FloatGrid{stamp})
		}
		return out, nil
	}

	amps, err := variableAmplitudes(sys, props.ImageMagnitude, zp, *v)
	if err != nil {
		return nil, fmt.Errorf("point source image: %w", err)
	}

	out := make([][]emath.FloatGrid, n)
	for i := range psfs {
		for _, amp := range amps[i] {
			out[i] = append(out[i], psfs[i].RenderPointSource(grid, props.RAImage[i], props.DecImage[i], amp))
		}
	}
	return out, nil
}

// variableAmplitudes returns amplitudes indexed [image][epoch].
func variableAmplitudes(sys LensSystem, mags []float64, zp float64, v variability.Spec) ([][]float64, error) {
	fn, err := v.Func()
	if err != nil {
		return nil, err
	}
	times, err := v.Times.Days()
	if err != nil {
		return nil, err
	}

	amps := make([][]float64, len(mags))
	for _, t := range times {
		observed := sys.ImageObserverTimes(t)
		if len(observed) != len(mags) {
			return nil, fmt.Errorf("lens gave %d observer times for %d images", len(observed), len(mags))
		}
		for i := range mags {
			amp, err := imsim.MagnitudeToCounts(mags[i]+fn(observed[i]), zp)
			if err != nil {
				return nil, fmt.Errorf("image %d, t=%g days: %w", i, t, err)
			}
			amps[i] = append(amps[i], amp)
		}
	}
	return amps, nil
}

// PointSourceStamps renders one stamp per image, with no variability.
func PointSourceStamps(sys LensSystem, bandName string, zp, deltaPix float64, numPix int, kernels []emath.FloatGrid) ([]emath.FloatGrid, error) {
	nested, err := PointSourceImage(sys, bandName, zp, deltaPix, numPix, kernels, nil)
	if err != nil {
		return nil, err
	}
	out := []emath.FloatGrid{}
	for _, stamps := range nested {
		out = append(out, stamps[0])
	}
	return out, nil
}
