package emath

import (
	"fmt"
	"math"
)

// A PixelGrid is a Nx by Ny pixel image laid onto the sky. Pix2Angle maps
// a pixel coordinate (x,y) to an angular (RA,Dec) coordinate in
// arcseconds; its translation is the sky position of pixel (0,0).
type PixelGrid struct {
	Nx, Ny    int
	Pix2Angle Aff3

	angle2Pix Aff3
}

// NewPixelGrid builds a grid from the 2x2 pixel->angle matrix and the sky
// coordinate of pixel (0,0).
func NewPixelGrid(nx, ny int, transform [2][2]float64, raAtXY0, decAtXY0 float64) (PixelGrid, error) {
	if nx <= 0 || ny <= 0 {
		return PixelGrid{}, fmt.Errorf("pixel grid must be non-empty, got %dx%d", nx, ny)
	}
	pg := PixelGrid{Nx: nx, Ny: ny, Pix2Angle: NewAff3(transform, raAtXY0, decAtXY0)}
	inv, err := pg.Pix2Angle.Invert()
	if err != nil {
		return PixelGrid{}, fmt.Errorf("pixel grid: %v", err)
	}
	pg.angle2Pix = inv
	return pg, nil
}

// NewCenteredPixelGrid is a square grid of numPix pixels, with pixel
// scale deltaPix (arcsec), whose centre lands on (0,0) on the sky.
func NewCenteredPixelGrid(numPix int, deltaPix float64) (PixelGrid, error) {
	half := float64(numPix-1) / 2.0
	return NewPixelGrid(numPix, numPix, [2][2]float64{{deltaPix, 0}, {0, deltaPix}}, -half*deltaPix, -half*deltaPix)
}

func (pg PixelGrid) MapPix2Coord(x, y float64) (float64, float64) { return pg.Pix2Angle.Apply(x, y) }
func (pg PixelGrid) MapCoord2Pix(ra, dec float64) (float64, float64) {
	return pg.angle2Pix.Apply(ra, dec)
}

// RADecAtXY0 is the sky position of pixel (0,0).
func (pg PixelGrid) RADecAtXY0() (float64, float64) { return pg.Pix2Angle[2], pg.Pix2Angle[5] }

// PixelWidth is the linear size of a pixel, in arcsec.
func (pg PixelGrid) PixelWidth() float64 {
	d := pg.Pix2Angle.Det()
	if d < 0 {
		d = -d
	}
	return math.Sqrt(d)
}

// SubGrid returns the grid sampled at `factor` points per pixel on each
// axis; the centres of the sub-pixels are preserved.
func (pg PixelGrid) SubGrid(factor int) (PixelGrid, error) {
	if factor <= 1 {
		return pg, nil
	}
	f := float64(factor)
	m := pg.Pix2Angle
	// Sub-pixel (0,0) sits at (-0.5 + 0.5/f) in parent pixel units
	off := -0.5 + 0.5/f
	ra0, dec0 := m.Apply(off, off)
	return NewPixelGrid(pg.Nx*factor, pg.Ny*factor,
		[2][2]float64{{m[0] / f, m[1] / f}, {m[3] / f, m[4] / f}}, ra0, dec0)
}

func (pg PixelGrid) NewFloatGrid() FloatGrid { return NewFloatGrid(pg.Nx, pg.Ny) }

func (pg PixelGrid) String() string {
	return fmt.Sprintf("PixelGrid[%dx%d, pix2angle %s]", pg.Nx, pg.Ny, pg.Pix2Angle)
}
