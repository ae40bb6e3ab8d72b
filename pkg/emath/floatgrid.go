package emath

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg" // Move to https://pkg.go.dev/golang.org/x/image/font#Drawer sometime
	"gonum.org/v1/gonum/floats"
)

// A FloatGrid is a grid of floats, with some operations. Simulated
// images, PSF kernels and point source stamps are all FloatGrids; x
// runs along RA, y along Dec.
type FloatGrid struct {
	stride int
	values []float64
}

func NewFloatGrid(w, h int) FloatGrid {
	return FloatGrid{
		stride: w,
		values: make([]float64, w*h),
	}
}

// NewFloatGridFromRows builds a grid from row-major data, rows[y][x].
func NewFloatGridFromRows(rows [][]float64) (FloatGrid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return FloatGrid{}, fmt.Errorf("empty rows")
	}
	g := NewFloatGrid(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != g.stride {
			return FloatGrid{}, fmt.Errorf("row %d has %d values, want %d", y, len(row), g.stride)
		}
		copy(g.values[y*g.stride:], row)
	}
	return g, nil
}

func (g1 *FloatGrid) NewFromThis() FloatGrid  { return NewFloatGrid(g1.Dx(), g1.Dy()) }
func (fg *FloatGrid) Set(x, y int, v float64) { fg.values[fg.stride*y+x] = v }
func (fg *FloatGrid) Get(x, y int) float64    { return fg.values[fg.stride*y+x] }
func (fg *FloatGrid) Inc(x, y int, v float64) { fg.values[fg.stride*y+x] += v }
func (fg *FloatGrid) Dx() int                 { return fg.stride }
func (fg *FloatGrid) Values() []float64       { return fg.values }
func (fg *FloatGrid) IsEmpty() bool           { return len(fg.values) == 0 }

func (fg *FloatGrid) Dy() int {
	if fg.stride == 0 {
		return 0
	}
	return len(fg.values) / fg.stride
}

func (fg *FloatGrid) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < fg.Dx() && y < fg.Dy()
}

func (g1 *FloatGrid) Copy() FloatGrid {
	g2 := FloatGrid{stride: g1.stride, values: make([]float64, len(g1.values))}
	copy(g2.values, g1.values)
	return g2
}

// Rows returns a row-major copy, rows[y][x].
func (fg *FloatGrid) Rows() [][]float64 {
	rows := make([][]float64, fg.Dy())
	for y := range rows {
		rows[y] = make([]float64, fg.stride)
		copy(rows[y], fg.values[y*fg.stride:(y+1)*fg.stride])
	}
	return rows
}

func (fg *FloatGrid) Sum() float64    { return floats.Sum(fg.values) }
func (fg *FloatGrid) Scale(f float64) { floats.Scale(f, fg.values) }

// Add accumulates g2 into fg; the grids must be the same shape.
func (fg *FloatGrid) Add(g2 FloatGrid) error {
	if fg.Dx() != g2.Dx() || fg.Dy() != g2.Dy() {
		return fmt.Errorf("grid shape mismatch: %dx%d vs %dx%d", fg.Dx(), fg.Dy(), g2.Dx(), g2.Dy())
	}
	floats.Add(fg.values, g2.values)
	return nil
}

func (fg *FloatGrid) Equal(g2 FloatGrid) bool {
	if fg.stride != g2.stride || len(fg.values) != len(g2.values) {
		return false
	}
	for i := range fg.values {
		if fg.values[i] != g2.values[i] {
			return false
		}
	}
	return true
}

// DownSample returns a grid that is 1/factor the size on each axis,
// averaging each factor x factor block of values from the original.
func (g1 *FloatGrid) DownSample(factor int) FloatGrid {
	if factor <= 1 {
		return g1.Copy()
	}
	width := g1.Dx() / factor
	height := g1.Dy() / factor
	g2 := NewFloatGrid(width, height)
	norm := float64(factor * factor)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := 0.0
			for j := 0; j < factor; j++ {
				for i := 0; i < factor; i++ {
					p += g1.Get(factor*x+i, factor*y+j)
				}
			}
			g2.Set(x, y, p/norm)
		}
	}

	return g2
}

func (fg *FloatGrid) MinMax() (float64, float64) {
	min := math.MaxFloat64
	max := -1.0 * min
	for _, v := range fg.values {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return min, max
}

func (fg *FloatGrid) Stats() string {
	min, max := fg.MinMax()
	return fmt.Sprintf("fg[%dx%d, vals{%g,%g}, sum %g]", fg.Dx(), fg.Dy(), min, max, fg.Sum())
}

// ToImg saves a simple grayscale, based on the range of values in the grid, and gamma scaling the
// gray to look normal for human vision. Row 0 of the PNG is the top (max Dec) of the grid.
func (fg *FloatGrid) ToImg(title, filename string) error {
	min, max := fg.MinMax()
	span := max - min
	if span <= 0 {
		span = 1
	}

	w, h := fg.Dx(), fg.Dy()
	img := image.NewRGBA64(image.Rectangle{Max: image.Point{w, h}})
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			gray := GammaExpand_F64((fg.Get(x, y) - min) / span)
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, h-1-y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 0.4, 0.4)
	dc.DrawString(title, 4, 12)
	return dc.SavePNG(filename)
}
