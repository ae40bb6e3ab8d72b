package psf

import (
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/abworrall/lensim/pkg/emath"
)

// Convolve returns img convolved with the PSF, the same size as img.
// Flux falling off the edge of the image is lost.
func (p PSF) Convolve(img emath.FloatGrid) emath.FloatGrid {
	if p.IsIdentity() {
		out := img.Copy()
		out.Scale(p.Kernel.Get(0, 0))
		return out
	}
	return ConvolveSame(img, p.Kernel)
}

// ConvolveSame does a 2-D linear convolution via FFTs, cropped back to
// the dimensions of img (numpy's "same" mode). The kernel must have odd
// dimensions.
func ConvolveSame(img, kernel emath.FloatGrid) emath.FloatGrid {
	w, h := img.Dx(), img.Dy()
	kw, kh := kernel.Dx(), kernel.Dy()
	pw, ph := w+kw-1, h+kh-1

	a := make([]complex128, pw*ph)
	b := make([]complex128, pw*ph)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a[y*pw+x] = complex(img.Get(x, y), 0)
		}
	}
	for y := 0; y < kh; y++ {
		for x := 0; x < kw; x++ {
			b[y*pw+x] = complex(kernel.Get(x, y), 0)
		}
	}

	fft2(a, pw, ph, false)
	fft2(b, pw, ph, false)
	for i := range a {
		a[i] *= b[i]
	}
	fft2(a, pw, ph, true)

	norm := float64(pw * ph)
	ox, oy := (kw-1)/2, (kh-1)/2
	out := emath.NewFloatGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, real(a[(y+oy)*pw+x+ox])/norm)
		}
	}
	return out
}

// fft2 transforms data (row-major, w x h) in place, along rows then
// columns. The inverse is unnormalised.
func fft2(data []complex128, w, h int, inverse bool) {
	apply := func(fft *fourier.CmplxFFT, seq []complex128) []complex128 {
		if inverse {
			return fft.Sequence(nil, seq)
		}
		return fft.Coefficients(nil, seq)
	}

	rowFFT := fourier.NewCmplxFFT(w)
	for y := 0; y < h; y++ {
		copy(data[y*w:(y+1)*w], apply(rowFFT, data[y*w:(y+1)*w]))
	}

	colFFT := fourier.NewCmplxFFT(h)
	col := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = data[y*w+x]
		}
		col = apply(colFFT, col)
		for y := 0; y < h; y++ {
			data[y*w+x] = col[y]
		}
	}
}
