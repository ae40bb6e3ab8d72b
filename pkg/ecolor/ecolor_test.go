package ecolor

import (
	"math"
	"testing"

	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/abworrall/lensim/pkg/emath"
)

func ramp(w, h int, f float64) emath.FloatGrid {
	g := emath.NewFloatGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.Set(x, y, f*float64(x*h+y)-0.5)
		}
	}
	return g
}

func TestLuptonGreyForIdenticalChannels(t *testing.T) {
	g := ramp(16, 12, 0.3)
	img, err := LuptonRGB(g, g, g, DefaultLuptonParams())
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			c := img.RGBAAt(x, y)
			if c.R != c.G || c.G != c.B {
				t.Fatalf("(%d,%d) not grey: %v", x, y, c)
			}
		}
	}
	if c := img.RGBAAt(0, 0); c.R != 0 {
		t.Errorf("negative input gave %v", c)
	}
	if c := img.RGBAAt(15, 11); c.R != 255 {
		t.Errorf("bright input gave %v, want saturated", c)
	}
}

func TestLuptonValues(t *testing.T) {
	r, _ := emath.NewFloatGridFromRows([][]float64{{0.1, 1, 0}})
	g, _ := emath.NewFloatGridFromRows([][]float64{{0.1, 0, 0}})
	b, _ := emath.NewFloatGridFromRows([][]float64{{0.1, 0, 0}})
	img, err := LuptonRGB(r, g, b, DefaultLuptonParams())
	if err != nil {
		t.Fatal(err)
	}

	// I = 0.1, soften = 16, slope = 25.5/asinh(0.8)
	slope := 25.5 / math.Asinh(0.8)
	want := uint8(0.1 * math.Asinh(1.6) * slope / 0.1)
	if c := img.RGBAAt(0, 0); c.R != want || c.B != want {
		t.Errorf("pixel 0: %v, want %d", c, want)
	}

	// A pure red pixel keeps its hue
	if c := img.RGBAAt(1, 0); c.R == 0 || c.G != 0 || c.B != 0 {
		t.Errorf("pixel 1: %v", c)
	}
	if c := img.RGBAAt(2, 0); c.R != 0 || c.G != 0 || c.B != 0 || c.A != 0xFF {
		t.Errorf("pixel 2: %v", c)
	}
}

func TestLuptonErrors(t *testing.T) {
	a := emath.NewFloatGrid(4, 4)
	b := emath.NewFloatGrid(4, 5)
	if _, err := LuptonRGB(a, a, b, DefaultLuptonParams()); err == nil {
		t.Error("mismatched channels accepted")
	}
	if _, err := LuptonRGB(a, a, a, LuptonParams{Stretch: 0, Q: 8}); err == nil {
		t.Error("zero stretch accepted")
	}
	if p := (LuptonParams{Minimum: 0.1}).WithDefaults(); p.Stretch != DefaultStretch || p.Q != DefaultQ || p.Minimum != 0.1 {
		t.Errorf("defaults: %+v", p)
	}
}

func TestFloatRGB(t *testing.T) {
	r := ramp(3, 2, 1)
	fr, err := NewFloatRGB(r, r, r)
	if err != nil {
		t.Fatal(err)
	}
	if got := fr.HDRAt(1, 0).(hdrcolor.RGB).R; got != r.Get(1, 0) {
		t.Errorf("HDRAt %g", got)
	}
	if got := fr.NorthUp().HDRAt(1, 0).(hdrcolor.RGB).R; got != r.Get(1, 1) {
		t.Errorf("north up HDRAt %g", got)
	}
	if fr.Size() != 6 || fr.Max() != r.Get(2, 1) {
		t.Errorf("size %d max %g", fr.Size(), fr.Max())
	}
	if c := fr.Preview().RGBAAt(2, 1); c.R != 255 {
		t.Errorf("preview max pixel %v", c)
	}
}

func TestLSSTToSDSS(t *testing.T) {
	// Zero colours only leave the offsets
	got := LSSTToSDSS(20, 20, 20, 20, 20)
	want := [5]float64{20 - 0.014285, 20 + 0.008059, 20 - 0.001168, 20 - 0.000026, 20 - 0.030518}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("band %d: %g, want %g", i, got[i], want[i])
		}
	}
}
