package output

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/tiff"

	"github.com/abworrall/lensim/pkg/emath"
)

// WriteTIFF writes a grid as a north-up, 16 bit grayscale TIFF, with the
// values linearly scaled into the full range.
func WriteTIFF(fg emath.FloatGrid, filename string) error {
	gray := Gray(fg)
	flipped := image.NewGray16(gray.Bounds())
	h := gray.Bounds().Dy()
	for y := 0; y < h; y++ {
		copy(flipped.Pix[y*flipped.Stride:(y+1)*flipped.Stride], gray.Pix[(h-1-y)*gray.Stride:(h-y)*gray.Stride])
	}

	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer writer.Close()
	if err := tiff.Encode(writer, flipped, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		return fmt.Errorf("encode tiff '%s': %v", filename, err)
	}
	return nil
}
