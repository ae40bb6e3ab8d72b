package output

import (
	"fmt"
	"os"

	"github.com/astrogo/fitsio"

	"github.com/abworrall/lensim/pkg/emath"
)

// WriteFITS writes grids as a 64 bit float image; several grids of the
// same size become a cube, with the grid index as the third axis. FITS
// rows run from the bottom, like the grids.
func WriteFITS(filename string, grids []emath.FloatGrid, cards ...FITSCard) error {
	if len(grids) == 0 {
		return fmt.Errorf("write fits '%s': no images", filename)
	}
	w, h := grids[0].Dx(), grids[0].Dy()
	data := make([]float64, 0, w*h*len(grids))
	for i := range grids {
		if grids[i].Dx() != w || grids[i].Dy() != h {
			return fmt.Errorf("write fits '%s': image %d is %dx%d, want %dx%d", filename, i, grids[i].Dx(), grids[i].Dy(), w, h)
		}
		data = append(data, grids[i].Values()...)
	}

	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer writer.Close()

	f, err := fitsio.Create(writer)
	if err != nil {
		return err
	}
	defer f.Close()

	dims := []int{w, h}
	if len(grids) > 1 {
		dims = append(dims, len(grids))
	}
	im := fitsio.NewImage(-64, dims)
	defer im.Close()
	if err := im.Header().Append(cards...); err != nil {
		return err
	}
	if err := im.Write(data); err != nil {
		return fmt.Errorf("write fits '%s': %v", filename, err)
	}
	return f.Write(im)
}

// ReadFITS reads the primary image of a FITS file as grids; a cube
// comes back as one grid per plane.
func ReadFITS(filename string) ([]emath.FloatGrid, error) {
	reader, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open '%s': %v", filename, err)
	}
	defer reader.Close()

	f, err := fitsio.Open(reader)
	if err != nil {
		return nil, fmt.Errorf("read fits '%s': %v", filename, err)
	}
	defer f.Close()

	img, ok := f.HDU(0).(fitsio.Image)
	if !ok {
		return nil, fmt.Errorf("read fits '%s': primary HDU is not an image", filename)
	}
	axes := img.Header().Axes()
	if len(axes) < 2 || len(axes) > 3 {
		return nil, fmt.Errorf("read fits '%s': want a 2 or 3 axis image, got axes %v", filename, axes)
	}
	w, h, n := axes[0], axes[1], 1
	if len(axes) == 3 {
		n = axes[2]
	}
	if w <= 0 || h <= 0 || n <= 0 {
		return nil, fmt.Errorf("read fits '%s': empty image, axes %v", filename, axes)
	}

	// fitsio reads into the slice as given, so it must be sized up front
	data := make([]float64, w*h*n)
	if err := img.Read(&data); err != nil {
		return nil, fmt.Errorf("read fits '%s': %v", filename, err)
	}
	grids := []emath.FloatGrid{}
	for i := 0; i < n; i++ {
		g := emath.NewFloatGrid(w, h)
		copy(g.Values(), data[i*w*h:(i+1)*w*h])
		grids = append(grids, g)
	}
	return grids, nil
}

// ReadKernel reads a single PSF kernel from a FITS file.
func ReadKernel(filename string) (emath.FloatGrid, error) {
	grids, err := ReadFITS(filename)
	if err != nil {
		return emath.FloatGrid{}, err
	}
	if len(grids) != 1 {
		return emath.FloatGrid{}, fmt.Errorf("kernel '%s' has %d planes, want 1", filename, len(grids))
	}
	return grids[0], nil
}

// FITSCard is a FITS header card, so callers need not import fitsio.
type FITSCard = fitsio.Card

func Card(name string, value interface{}, comment string) FITSCard {
	return FITSCard{Name: name, Value: value, Comment: comment}
}
