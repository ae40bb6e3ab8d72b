package ecolor

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/lensim/pkg/emath"
)

// FloatRGB is three float images viewed as one linear HDR colour image.
// Implements the hdr.Image interface, so it can be written out as
// Radiance HDR or handed to a tone mapper.
type FloatRGB struct {
	R, G, B emath.FloatGrid
	northUp bool // if set, row 0 is the top (max Dec) of the grids
}

func NewFloatRGB(r, g, b emath.FloatGrid) (*FloatRGB, error) {
	if r.Dx() != g.Dx() || r.Dx() != b.Dx() || r.Dy() != g.Dy() || r.Dy() != b.Dy() {
		return nil, fmt.Errorf("float rgb: channel sizes differ")
	}
	return &FloatRGB{R: r, G: g, B: b}, nil
}

// NorthUp returns a view of the image with row 0 at the top of the sky.
func (fr *FloatRGB) NorthUp() *FloatRGB {
	return &FloatRGB{R: fr.R, G: fr.G, B: fr.B, northUp: true}
}

// Implement image.Image
func (fr *FloatRGB) ColorModel() color.Model { return hdrcolor.RGBModel }
func (fr *FloatRGB) Bounds() image.Rectangle { return image.Rect(0, 0, fr.R.Dx(), fr.R.Dy()) }
func (fr *FloatRGB) At(x, y int) color.Color { return fr.HDRAt(x, y) }

// Implement hdr.Image
func (fr *FloatRGB) Size() int { return fr.R.Dx() * fr.R.Dy() }
func (fr *FloatRGB) HDRAt(x, y int) hdrcolor.Color {
	if fr.northUp {
		y = fr.R.Dy() - 1 - y
	}
	return hdrcolor.RGB{R: fr.R.Get(x, y), G: fr.G.Get(x, y), B: fr.B.Get(x, y)}
}

// Scaled returns a copy with every channel multiplied by f.
func (fr *FloatRGB) Scaled(f float64) *FloatRGB {
	r, g, b := fr.R.Copy(), fr.G.Copy(), fr.B.Copy()
	r.Scale(f)
	g.Scale(f)
	b.Scale(f)
	return &FloatRGB{R: r, G: g, B: b, northUp: fr.northUp}
}

// Max is the brightest value in any channel.
func (fr *FloatRGB) Max() float64 {
	max := 0.0
	for _, g := range []*emath.FloatGrid{&fr.R, &fr.G, &fr.B} {
		if _, m := g.MinMax(); m > max {
			max = m
		}
	}
	return max
}

// ToSRGB gamma encodes a linear colour, with components clamped to [0,1].
func ToSRGB(rgb hdrcolor.RGB) color.RGBA {
	r, g, b := colorful.LinearRgb(rgb.R, rgb.G, rgb.B).Clamped().RGB255()
	return color.RGBA{r, g, b, 0xFF}
}

// Preview renders the image scaled so its brightest value is white, gamma
// encoded to sRGB.
func (fr *FloatRGB) Preview() *image.RGBA {
	scale := 1.0
	if max := fr.Max(); max > 0 {
		scale = 1 / max
	}
	img := image.NewRGBA(fr.Bounds())
	for y := 0; y < fr.R.Dy(); y++ {
		for x := 0; x < fr.R.Dx(); x++ {
			c := fr.HDRAt(x, y).(hdrcolor.RGB)
			img.SetRGBA(x, y, ToSRGB(hdrcolor.RGB{R: c.R * scale, G: c.G * scale, B: c.B * scale}))
		}
	}
	return img
}
