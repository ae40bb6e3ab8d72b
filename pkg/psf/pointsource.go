package psf

import (
	"math"

	"github.com/abworrall/lensim/pkg/emath"
)

// RenderPointSource returns an image on grid containing a single point
// source of total flux amp at sky position (ra, dec), shaped by the PSF.
// The kernel is placed at sub-pixel precision by splitting it bilinearly
// over the four nearest whole-pixel offsets.
func (p PSF) RenderPointSource(grid emath.PixelGrid, ra, dec, amp float64) emath.FloatGrid {
	img := grid.NewFloatGrid()
	p.AddPointSource(&img, grid, ra, dec, amp)
	return img
}

// AddPointSource deposits the point source into img, which must be the
// size of grid.
func (p PSF) AddPointSource(img *emath.FloatGrid, grid emath.PixelGrid, ra, dec, amp float64) {
	x, y := grid.MapCoord2Pix(ra, dec)
	if !emath.IsFinite(x) || !emath.IsFinite(y) {
		return
	}
	ix, iy := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(ix), y-float64(iy)

	k := p.Kernel
	cx, cy := (k.Dx()-1)/2, (k.Dy()-1)/2
	weights := []struct {
		dx, dy int
		w      float64
	}{
		{0, 0, (1 - fx) * (1 - fy)},
		{1, 0, fx * (1 - fy)},
		{0, 1, (1 - fx) * fy},
		{1, 1, fx * fy},
	}

	for _, wt := range weights {
		if wt.w == 0 {
			continue
		}
		for j := 0; j < k.Dy(); j++ {
			for i := 0; i < k.Dx(); i++ {
				px, py := ix+wt.dx+i-cx, iy+wt.dy+j-cy
				if img.In(px, py) {
					img.Inc(px, py, amp*wt.w*k.Get(i, j))
				}
			}
		}
	}
}
