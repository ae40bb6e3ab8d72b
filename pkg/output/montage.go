package output

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Montage tiles images into a grid of cols columns, each scaled into a
// cell x cell square, with a gap between them.
func Montage(images []image.Image, cols, cell, gap int) (*image.NRGBA, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("montage: no images")
	}
	if cols <= 0 || cell <= 0 || gap < 0 {
		return nil, fmt.Errorf("montage: bad layout, cols=%d cell=%d gap=%d", cols, cell, gap)
	}
	if cols > len(images) {
		cols = len(images)
	}
	rows := (len(images) + cols - 1) / cols

	w := cols*cell + (cols+1)*gap
	h := rows*cell + (rows+1)*gap
	canvas := imaging.New(w, h, color.NRGBA{A: 0xFF})

	for i, img := range images {
		x := gap + (i%cols)*(cell+gap)
		y := gap + (i/cols)*(cell+gap)
		c := imaging.Resize(img, cell, cell, imaging.NearestNeighbor)
		canvas = imaging.Paste(canvas, c, image.Pt(x, y))
	}
	return canvas, nil
}
