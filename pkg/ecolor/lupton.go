package ecolor

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/abworrall/lensim/pkg/emath"
)

// LuptonParams control the asinh stretch of Lupton et al. (2004), as
// used by astropy's make_lupton_rgb.
type LuptonParams struct {
	Minimum float64 `yaml:"minimum"` // black level, subtracted from every channel
	Stretch float64 `yaml:"stretch"` // linear range of the stretch
	Q       float64 `yaml:"Q"`       // asinh softening
}

const (
	DefaultStretch = 0.5
	DefaultQ       = 8.0

	uint8Max = 255.0
	// Fraction of the output range taken by the linear part of the stretch
	linearFrac = 0.1
)

func DefaultLuptonParams() LuptonParams {
	return LuptonParams{Minimum: 0, Stretch: DefaultStretch, Q: DefaultQ}
}

// WithDefaults fills in a zero Stretch or Q.
func (p LuptonParams) WithDefaults() LuptonParams {
	if p.Stretch == 0 {
		p.Stretch = DefaultStretch
	}
	if p.Q == 0 {
		p.Q = DefaultQ
	}
	return p
}

func (p LuptonParams) Validate() error {
	if !(p.Stretch > 0) || !(p.Q > 0) || !emath.IsFinite(p.Minimum) {
		return fmt.Errorf("lupton: need stretch > 0 and Q > 0, got %+v", p)
	}
	return nil
}

// LuptonRGB combines three images (red, green, blue) into an 8-bit
// colour image. Pixel (x,y) of the result is grid value (x,y), so row
// zero is the bottom of the sky image.
func LuptonRGB(r, g, b emath.FloatGrid, p LuptonParams) (*image.RGBA, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	w, h := r.Dx(), r.Dy()
	if g.Dx() != w || g.Dy() != h || b.Dx() != w || b.Dy() != h {
		return nil, fmt.Errorf("lupton: channel sizes differ: %dx%d, %dx%d, %dx%d", w, h, g.Dx(), g.Dy(), b.Dx(), b.Dy())
	}

	slope := linearFrac * uint8Max / math.Asinh(linearFrac*p.Q)
	soften := p.Q / p.Stretch

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := [3]float64{r.Get(x, y) - p.Minimum, g.Get(x, y) - p.Minimum, b.Get(x, y) - p.Minimum}

			intensity := (c[0] + c[1] + c[2]) / 3
			fac := 0.0
			if intensity > 0 {
				fac = math.Asinh(intensity*soften) * slope / intensity
			}

			max := 0.0
			for i := range c {
				c[i] *= fac
				if !(c[i] > 0) {
					c[i] = 0
				}
				if c[i] > max {
					max = c[i]
				}
			}
			if max >= uint8Max {
				for i := range c {
					c[i] *= uint8Max / max
				}
			}

			img.SetRGBA(x, y, color.RGBA{to8(c[0]), to8(c[1]), to8(c[2]), 0xFF})
		}
	}

	return img, nil
}

func to8(f float64) uint8 {
	if f >= uint8Max {
		return 0xFF
	}
	return uint8(f)
}
