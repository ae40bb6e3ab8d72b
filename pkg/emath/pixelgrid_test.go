package emath

import (
	"math"
	"testing"
)

func TestPixelGridRoundTrip(t *testing.T) {
	grids := []struct {
		name string
		m    [2][2]float64
		ra0  float64
		dec0 float64
	}{
		{"diag", [2][2]float64{{0.2, 0}, {0, 0.2}}, -6.3, -6.3},
		{"flipped-ra", [2][2]float64{{-0.263, 0}, {0, 0.263}}, 4.2, -4.2},
		{"rotated", [2][2]float64{{0.1 * math.Cos(0.3), -0.1 * math.Sin(0.3)}, {0.1 * math.Sin(0.3), 0.1 * math.Cos(0.3)}}, 1, 2},
	}

	coords := [][2]float64{{0, 0}, {1.234, -0.77}, {-3.5, 2.25}, {1e-3, 7}}

	for _, tc := range grids {
		pg, err := NewPixelGrid(64, 64, tc.m, tc.ra0, tc.dec0)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		for _, c := range coords {
			x, y := pg.MapCoord2Pix(c[0], c[1])
			ra, dec := pg.MapPix2Coord(x, y)
			if math.Abs(ra-c[0]) > 1e-12 || math.Abs(dec-c[1]) > 1e-12 {
				t.Errorf("%s: round trip of %v gave (%g,%g)", tc.name, c, ra, dec)
			}
		}
	}
}

func TestCenteredPixelGrid(t *testing.T) {
	pg, err := NewCenteredPixelGrid(65, 0.2)
	if err != nil {
		t.Fatal(err)
	}
	x, y := pg.MapCoord2Pix(0, 0)
	if math.Abs(x-32) > 1e-12 || math.Abs(y-32) > 1e-12 {
		t.Errorf("sky origin mapped to (%g,%g), want (32,32)", x, y)
	}
	ra0, dec0 := pg.RADecAtXY0()
	if math.Abs(ra0+6.4) > 1e-12 || math.Abs(dec0+6.4) > 1e-12 {
		t.Errorf("RADecAtXY0 = (%g,%g)", ra0, dec0)
	}
	if w := pg.PixelWidth(); math.Abs(w-0.2) > 1e-12 {
		t.Errorf("PixelWidth = %g", w)
	}
}

func TestSubGridKeepsFootprint(t *testing.T) {
	pg, _ := NewCenteredPixelGrid(10, 0.3)
	sub, err := pg.SubGrid(3)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Nx != 30 || sub.Ny != 30 {
		t.Fatalf("sub grid is %dx%d", sub.Nx, sub.Ny)
	}
	// The mean of the three sub-pixel centres along an axis is the parent pixel centre
	ra0, _ := sub.MapPix2Coord(0, 0)
	ra2, _ := sub.MapPix2Coord(2, 0)
	parent, _ := pg.MapPix2Coord(0, 0)
	if math.Abs((ra0+ra2)/2-parent) > 1e-12 {
		t.Errorf("sub-pixels centred on %g, parent at %g", (ra0+ra2)/2, parent)
	}
}

func TestSingularGrid(t *testing.T) {
	if _, err := NewPixelGrid(4, 4, [2][2]float64{{1, 2}, {2, 4}}, 0, 0); err == nil {
		t.Errorf("expected singular transform to fail")
	}
}
