package psf

import (
	"math"
	"testing"

	"github.com/abworrall/lensim/pkg/emath"
)

func TestGaussianKernel(t *testing.T) {
	p, err := NewGaussian(0.7, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	k := p.Kernel
	if k.Dx()%2 != 1 || k.Dx() != k.Dy() {
		t.Fatalf("kernel is %dx%d", k.Dx(), k.Dy())
	}
	if s := k.Sum(); math.Abs(s-1) > 1e-12 {
		t.Errorf("kernel sum %g", s)
	}
	c := (k.Dx() - 1) / 2
	if k.Get(c, c) <= k.Get(c+1, c) {
		t.Error("kernel not peaked in the centre")
	}
	if k.Get(c+1, c) != k.Get(c-1, c) || k.Get(c, c+1) != k.Get(c+1, c) {
		t.Error("kernel not symmetric")
	}
}

func TestNewByName(t *testing.T) {
	if _, err := New("MOFFAT", 1, 0.2, emath.FloatGrid{}); err == nil {
		t.Error("unknown psf type accepted")
	}
	p, err := New("NONE", 0, 0.2, emath.FloatGrid{})
	if err != nil || !p.IsIdentity() {
		t.Errorf("NONE: %v %v", p, err)
	}
	even := emath.NewFloatGrid(4, 4)
	if _, err := New("PIXEL", 0, 0.2, even); err == nil {
		t.Error("even kernel accepted")
	}
}

func directConvolve(img, k emath.FloatGrid) emath.FloatGrid {
	out := img.NewFromThis()
	cx, cy := (k.Dx()-1)/2, (k.Dy()-1)/2
	for y := 0; y < img.Dy(); y++ {
		for x := 0; x < img.Dx(); x++ {
			sum := 0.0
			for j := 0; j < k.Dy(); j++ {
				for i := 0; i < k.Dx(); i++ {
					sx, sy := x-(i-cx), y-(j-cy)
					if img.In(sx, sy) {
						sum += img.Get(sx, sy) * k.Get(i, j)
					}
				}
			}
			out.Set(x, y, sum)
		}
	}
	return out
}

func TestConvolveMatchesDirect(t *testing.T) {
	img := emath.NewFloatGrid(9, 7)
	for i := range img.Values() {
		img.Values()[i] = float64((i*37)%11) - 3
	}
	k, _ := emath.NewFloatGridFromRows([][]float64{
		{0, 1, 0.5},
		{1, 4, 2},
		{0.25, 1, 0},
	})

	got := ConvolveSame(img, k)
	want := directConvolve(img, k)
	for y := 0; y < img.Dy(); y++ {
		for x := 0; x < img.Dx(); x++ {
			if math.Abs(got.Get(x, y)-want.Get(x, y)) > 1e-9 {
				t.Fatalf("(%d,%d): fft %g, direct %g", x, y, got.Get(x, y), want.Get(x, y))
			}
		}
	}
}

func TestConvolveConservesFlux(t *testing.T) {
	p, _ := NewGaussian(0.6, 0.2)
	img := emath.NewFloatGrid(41, 41)
	img.Set(20, 20, 10)
	out := p.Convolve(img)
	if math.Abs(out.Sum()-10) > 1e-9 {
		t.Errorf("flux %g after convolution", out.Sum())
	}
}

func TestRenderPointSource(t *testing.T) {
	grid, err := emath.NewCenteredPixelGrid(21, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := NewGaussian(0.6, 0.2)

	// On a pixel centre, all flux lands around that pixel
	img := p.RenderPointSource(grid, 0, 0, 100)
	if math.Abs(img.Sum()-100) > 1e-9 {
		t.Errorf("flux %g, want 100", img.Sum())
	}
	_, max := img.MinMax()
	if img.Get(10, 10) != max {
		t.Error("peak not at the centre pixel")
	}

	// Half way between pixels the stamp is symmetric about the midpoint
	img = p.RenderPointSource(grid, 0.1, 0, 100)
	if math.Abs(img.Get(10, 10)-img.Get(11, 10)) > 1e-9 {
		t.Errorf("asymmetric: %g vs %g", img.Get(10, 10), img.Get(11, 10))
	}

	none := NewNone()
	img = none.RenderPointSource(grid, 0.2, -0.4, 5)
	if math.Abs(img.Get(11, 8)-5) > 1e-9 || math.Abs(img.Sum()-5) > 1e-9 {
		t.Errorf("delta psf: pixel (11,8) = %g", img.Get(11, 8))
	}
}
