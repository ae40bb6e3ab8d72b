package imsim

import (
	"fmt"

	"github.com/abworrall/lensim/pkg/emath"
	"github.com/abworrall/lensim/pkg/lensmodel"
	"github.com/abworrall/lensim/pkg/psf"
)

// Numerics controls how finely the image is sampled.
type Numerics struct {
	SupersamplingFactor            int
	PointSourceSupersamplingFactor int
}

func (n Numerics) Validate() error {
	if n.SupersamplingFactor < 1 {
		return fmt.Errorf("supersampling factor must be at least 1, got %d", n.SupersamplingFactor)
	}
	if n.PointSourceSupersamplingFactor > 1 {
		return fmt.Errorf("point source supersampling factor %d not supported, only 1", n.PointSourceSupersamplingFactor)
	}
	return nil
}

// RenderOptions picks the components that get drawn, and whether the
// PSF is applied.
type RenderOptions struct {
	Unconvolved    bool
	SourceAdd      bool
	LensLightAdd   bool
	PointSourceAdd bool
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{SourceAdd: true, LensLightAdd: true, PointSourceAdd: true}
}

type ImageModel struct {
	Grid     emath.PixelGrid
	PSF      psf.PSF
	Numerics Numerics
}

// Image renders the scene into counts per second per pixel. Extended
// light is sampled at the centres of the supersampled pixels, with
// sources traced back through the lens, then averaged down and scaled
// by the pixel area.
func (im ImageModel) Image(lens lensmodel.MassModel, amps Amplitudes, opts RenderOptions) (emath.FloatGrid, error) {
	sub, err := im.Grid.SubGrid(im.Numerics.SupersamplingFactor)
	if err != nil {
		return emath.FloatGrid{}, err
	}

	hi := sub.NewFloatGrid()
	for y := 0; y < sub.Ny; y++ {
		for x := 0; x < sub.Nx; x++ {
			ra, dec := sub.MapPix2Coord(float64(x), float64(y))
			sb := 0.0
			if opts.LensLightAdd {
				for _, l := range amps.LensLight {
					sb += l.SurfaceBrightness(ra, dec)
				}
			}
			if opts.SourceAdd && len(amps.SourceLight) > 0 {
				bx, by := lens.RayShoot(ra, dec)
				for _, s := range amps.SourceLight {
					sb += s.SurfaceBrightness(bx, by)
				}
			}
			hi.Set(x, y, sb)
		}
	}

	img := hi.DownSample(im.Numerics.SupersamplingFactor)
	pix := im.Grid.PixelWidth()
	img.Scale(pix * pix)

	if !opts.Unconvolved {
		img = im.PSF.Convolve(img)
	}

	if opts.PointSourceAdd {
		if len(amps.PointRA) != len(amps.PointAmp) {
			return emath.FloatGrid{}, fmt.Errorf("point sources: %d positions, %d amplitudes", len(amps.PointRA), len(amps.PointAmp))
		}
		ps := im.PSF
		if opts.Unconvolved {
			ps = psf.NewNone()
		}
		for i := range amps.PointRA {
			ps.AddPointSource(&img, im.Grid, amps.PointRA[i], amps.PointDec[i], amps.PointAmp[i])
		}
	}

	return img, nil
}
