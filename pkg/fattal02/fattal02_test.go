package fattal02

import (
	"math"
	"testing"

	"github.com/abworrall/lensim/pkg/ecolor"
	"github.com/abworrall/lensim/pkg/emath"
)

func TestEigenSpaceRoundTrip(t *testing.T) {
	g := emath.NewFloatGrid(9, 6)
	for y := 0; y < 6; y++ {
		for x := 0; x < 9; x++ {
			g.Set(x, y, math.Sin(float64(x))+0.3*float64(y*y))
		}
	}

	back := fromEigenSpace(toEigenSpace(g))
	for y := 0; y < 6; y++ {
		for x := 0; x < 9; x++ {
			if d := back.Get(x, y) - g.Get(x, y); math.Abs(d) > 1e-9 {
				t.Fatalf("(%d,%d): got %g, want %g", x, y, back.Get(x, y), g.Get(x, y))
			}
		}
	}
}

// mirror reflects an index off the edges, so -1 => 1 and n => n-2.
func mirror(i, n int) int {
	if i < 0 {
		return -i
	}
	if i >= n {
		return 2*(n-1) - i
	}
	return i
}

func TestSolvePoisson(t *testing.T) {
	w, h := 12, 10
	U := emath.NewFloatGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			U.Set(x, y, math.Cos(float64(x)*0.4)*math.Sin(float64(y)*0.3)+0.05*float64(x))
		}
	}

	F := U.NewFromThis()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			lap := U.Get(mirror(x-1, w), y) + U.Get(mirror(x+1, w), y) +
				U.Get(x, mirror(y-1, h)) + U.Get(x, mirror(y+1, h)) - 4*U.Get(x, y)
			F.Set(x, y, lap)
		}
	}

	got := SolvePoisson(F, false)
	if _, max := got.MinMax(); math.Abs(max) > 1e-12 {
		t.Errorf("solution max %g, want 0", max)
	}

	// Solutions are only unique up to a constant
	offset := got.Get(0, 0) - U.Get(0, 0)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if d := got.Get(x, y) - U.Get(x, y) - offset; math.Abs(d) > 1e-8 {
				t.Fatalf("(%d,%d): off by %g", x, y, d)
			}
		}
	}
}

func TestPerform(t *testing.T) {
	// A bright core next to a faint ring, roughly a deflector and an arc
	n := 32
	g := emath.NewFloatGrid(n, n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			r := math.Hypot(float64(x)-15.5, float64(y)-15.5)
			g.Set(x, y, 100*math.Exp(-r*r/4)+math.Exp(-(r-9)*(r-9)))
		}
	}
	fr, err := ecolor.NewFloatRGB(g, g, g)
	if err != nil {
		t.Fatal(err)
	}

	f02 := NewDefaultFattal02(fr)
	if err := f02.Validate(); err != nil {
		t.Fatal(err)
	}
	img := f02.Perform()
	if img.Bounds() != fr.Bounds() {
		t.Fatalf("bounds %v, want %v", img.Bounds(), fr.Bounds())
	}

	lum := func(x, y int) uint32 {
		r, _, _, _ := img.At(x, y).RGBA()
		return r
	}
	if ring, sky := lum(15+9, 15), lum(0, 0); ring <= sky {
		t.Errorf("ring %d not brighter than sky %d", ring, sky)
	}
	if core, ring := lum(15, 15), lum(15+9, 15); core < ring {
		t.Errorf("core %d dimmer than ring %d", core, ring)
	}
}

func TestValidate(t *testing.T) {
	g := emath.NewFloatGrid(4, 4)
	fr, _ := ecolor.NewFloatRGB(g, g, g)
	if err := NewDefaultFattal02(fr).Validate(); err == nil {
		t.Error("4x4 image accepted")
	}
	if err := NewDefaultFattal02(nil).Validate(); err == nil {
		t.Error("nil image accepted")
	}
}
