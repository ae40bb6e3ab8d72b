package output

// Writers for simulated images. Grids keep the sky convention of row 0
// at the bottom (min Dec); everything written to a picture format is
// flipped so north is up.

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/abworrall/lensim/pkg/emath"
)

func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}

// NorthUp flips an image in grid orientation so that north is at the top.
func NorthUp(img image.Image) *image.NRGBA { return imaging.FlipV(img) }

// WriteSkyPNG writes an image in grid orientation as a north-up PNG,
// scaled up by an integer factor with nearest neighbour sampling.
func WriteSkyPNG(img image.Image, scale int, filename string) error {
	return WritePNG(Upscale(NorthUp(img), scale), filename)
}

// Upscale enlarges small images so individual pixels stay visible.
func Upscale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Gray renders a grid as a linear grayscale image, from min (black) to
// max (white), in grid orientation.
func Gray(fg emath.FloatGrid) *image.Gray16 {
	min, max := fg.MinMax()
	span := max - min
	if span <= 0 {
		span = 1
	}
	img := image.NewGray16(image.Rect(0, 0, fg.Dx(), fg.Dy()))
	for y := 0; y < fg.Dy(); y++ {
		for x := 0; x < fg.Dx(); x++ {
			img.SetGray16(x, y, color.Gray16{uint16((fg.Get(x, y) - min) / span * 0xFFFF)})
		}
	}
	return img
}
