package fattal02

// Fattal '02, "Gradient Domain High Dynamic Range Compression". Lensed
// arcs sit next to a deflector that can be a hundred times brighter;
// attenuating the large luminance gradients keeps both visible.

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/hdrcolor"
	"gonum.org/v1/gonum/stat"

	"github.com/abworrall/lensim/pkg/emath"
)

// MinSize is the smallest image edge the operator will work on.
const MinSize = 8

// Fattal02 is a port of the PFSTMO implementation, with the Poisson
// solve done by gonum's DCT.
type Fattal02 struct {
	// Algo parameters, see https://www.mankier.com/1/pfstmo_fattal02
	DetailLevel int
	Noise       float64
	Alpha       float64
	Beta        float64
	Gamma       float64
	BlackPoint  float64
	WhitePoint  float64
	Saturation  float64

	GammaExpand bool   // whether to perform sRGB gamma expansion on final output
	DumpPrefix  string // if set, write greyscale pngs of the intermediate grids with this path prefix

	Input  hdr.Image
	Output image.Image

	// Single channel grids, relating to luminance, in the order they are calculated.
	logLuminance emath.FloatGrid   // H, log(lum)
	pyramid      []emath.FloatGrid // the Gaussian pyramid of H
	gradients    []emath.FloatGrid // gradient magnitudes for each layer in the pyramid
	avgGrad      []float64
	attenuation  emath.FloatGrid // PHI, the 2D gradient attenuation function
	divG         emath.FloatGrid
	u            emath.FloatGrid // U, the solution to laplace(U) = DivG
	outputLum    emath.FloatGrid // exp(U), renormalized
}

func (f02 *Fattal02) Width() int     { return f02.Input.Bounds().Dx() }
func (f02 *Fattal02) Height() int    { return f02.Input.Bounds().Dy() }
func (f02 *Fattal02) NumLevels() int { return len(f02.pyramid) }

func NewDefaultFattal02(img hdr.Image) *Fattal02 {
	return &Fattal02{
		DetailLevel: 3,
		Noise:       0.002,
		Alpha:       1.0,
		Beta:        0.9,
		Gamma:       0.8,
		BlackPoint:  0.1,
		WhitePoint:  0.5,
		Saturation:  0.8,
		GammaExpand: true,
		Input:       img,
	}
}

// Validate checks the image is big enough to build a pyramid from.
func (f02 *Fattal02) Validate() error {
	if f02.Input == nil {
		return fmt.Errorf("fattal02: no input image")
	}
	if f02.Width() < MinSize || f02.Height() < MinSize {
		return fmt.Errorf("fattal02: image %v too small, need at least %dx%d", f02.Input.Bounds(), MinSize, MinSize)
	}
	return nil
}

// Perform implements mdouchement/hdr/tmo:ToneMappingOperator. The input
// must pass Validate.
func (f02 *Fattal02) Perform() image.Image {
	f02.createLogLuminance()
	f02.createGaussianPyramid()
	f02.calculateGradients()
	f02.calculateAttenuation()
	f02.calculateDivergence()

	f02.u = SolvePoisson(f02.divG, false)
	f02.maybeDump(f02.u, "006-solved-pde")

	f02.createExponentiatedLuminance()
	f02.fillOutputImage()

	return f02.Output
}

func (f02 *Fattal02) maybeDump(g emath.FloatGrid, name string) {
	if f02.DumpPrefix != "" {
		g.ToImg(name, f02.DumpPrefix+name+".png")
	}
}

func (f02 *Fattal02) createLogLuminance() {
	b := f02.Input.Bounds()
	lum := emath.NewFloatGrid(b.Dx(), b.Dy())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			xyz := hdrcolor.XYZModel.Convert(f02.Input.HDRAt(x, y))
			_, l, _, _ := xyz.(hdrcolor.Color).HDRXYZA()
			lum.Set(x-b.Min.X, y-b.Min.Y, l)
		}
	}

	minLum, maxLum := lum.MinMax()
	span := maxLum - minLum
	if span <= 0 {
		span = 1
	}

	H := lum.NewFromThis()
	lv, hv := lum.Values(), H.Values()
	for i, l := range lv {
		hv[i] = math.Log(100.0*(l-minLum)/span + 0.0001) // black is log(0.0001) = -9.2
	}

	f02.maybeDump(lum, "001-luminance")
	f02.maybeDump(H, "001-log-luminance")
	f02.logLuminance = H
}

func (f02 *Fattal02) createGaussianPyramid() {
	nLevels := 0
	minDim := f02.Height()
	if w := f02.Width(); w < minDim {
		minDim = w
	}
	for minDim >= MinSize {
		minDim /= 2
		nLevels++
	}

	f02.pyramid = make([]emath.FloatGrid, nLevels)
	f02.pyramid[0] = f02.logLuminance.Copy()
	for k := 1; k < nLevels; k++ {
		blurred := gaussianBlur(f02.pyramid[k-1])
		f02.pyramid[k] = blurred.DownSample(2)
		f02.maybeDump(f02.pyramid[k], fmt.Sprintf("002-pyramid%02d", k))
	}
}

func (f02 *Fattal02) calculateGradients() {
	f02.gradients = make([]emath.FloatGrid, f02.NumLevels())
	f02.avgGrad = make([]float64, f02.NumLevels())
	for k := range f02.pyramid {
		f02.gradients[k], f02.avgGrad[k] = gradientMagnitudes(f02.pyramid[k], k)
	}
}

func (f02 *Fattal02) calculateAttenuation() {
	nLevels := f02.NumLevels()
	phi := make([]emath.FloatGrid, nLevels)

	top := f02.gradients[nLevels-1].NewFromThis()
	for i := range top.Values() {
		top.Values()[i] = 1.0
	}
	phi[nLevels-1] = top

	// Walk down the pyramid from the top layer
	for k := nLevels - 1; k >= 0; k-- {
		// only attenuate levels >= DetailLevel, but always the coarsest
		if k >= f02.DetailLevel || k == nLevels-1 {
			a := f02.Alpha * f02.avgGrad[k]
			grads := f02.gradients[k].Values()
			vals := phi[k].Values()
			for i, grad := range grads {
				if grad > 1e-4 && a > 0 {
					vals[i] *= a / (grad + f02.Noise) * math.Pow((grad+f02.Noise)/a, f02.Beta)
				}
			}
		}

		if k > 0 {
			up := f02.gradients[k-1].NewFromThis()
			upSampleInto(phi[k], &up)
			phi[k-1] = gaussianBlur(up)
		}
		f02.maybeDump(phi[k], fmt.Sprintf("004-attenuation%02d", k))
	}

	f02.attenuation = phi[0]
}

func (f02 *Fattal02) calculateDivergence() {
	w, h := f02.Width(), f02.Height()
	H, PHI := f02.logLuminance, f02.attenuation
	Gx, Gy := H.NewFromThis(), H.NewFromThis()

	// The solver assumes U(-1) = U(1) rather than the zero Neumann U(-1) =
	// U(0), so index+1 at the far edge reflects back to N-2.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			yp1, xp1 := y+1, x+1
			if yp1 >= h {
				yp1 = h - 2
			}
			if xp1 >= w {
				xp1 = w - 2
			}
			Gx.Set(x, y, (H.Get(xp1, y)-H.Get(x, y))*0.5*(PHI.Get(xp1, y)+PHI.Get(x, y)))
			Gy.Set(x, y, (H.Get(x, yp1)-H.Get(x, y))*0.5*(PHI.Get(x, yp1)+PHI.Get(x, y)))
		}
	}

	divG := H.NewFromThis()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			val := Gx.Get(x, y) + Gy.Get(x, y)
			if x > 0 {
				val -= Gx.Get(x-1, y)
			} else {
				val += Gx.Get(x, y)
			}
			if y > 0 {
				val -= Gy.Get(x, y-1)
			} else {
				val += Gy.Get(x, y)
			}
			divG.Set(x, y, val)
		}
	}

	f02.maybeDump(divG, "005-divergence")
	f02.divG = divG
}

func (f02 *Fattal02) createExponentiatedLuminance() {
	L := f02.u.NewFromThis()
	lv := L.Values()
	for i, u := range f02.u.Values() {
		lv[i] = math.Exp(f02.Gamma*u) - 1e-4
	}

	// remove percentile of min and max values and renormalize
	minLum, maxLum := percentileRange(L, 0.01*f02.BlackPoint, 1.0-0.01*f02.WhitePoint)
	span := maxLum - minLum
	if span <= 0 {
		span = 1
	}
	for i, l := range lv {
		if lv[i] = (l - minLum) / span; lv[i] <= 0.0 {
			lv[i] = 1e-4
		}
	}

	f02.maybeDump(L, "007-exponentiated")
	f02.outputLum = L
}

// fillOutputImage recolours the input with the compressed luminance:
// C_out = (C_in / L_before)^s * L_after
func (f02 *Fattal02) fillOutputImage() {
	const epsilon = 1e-4
	b := f02.Input.Bounds()
	out := image.NewRGBA64(b)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			rgb := hdrcolor.RGBModel.Convert(f02.Input.HDRAt(x, y)).(hdrcolor.RGB)
			xyz := hdrcolor.XYZModel.Convert(rgb).(hdrcolor.XYZ)

			lBefore := math.Max(xyz.Y, epsilon)
			lAfter := math.Max(f02.outputLum.Get(x-b.Min.X, y-b.Min.Y), epsilon)

			var c [3]uint16
			for i, v := range []float64{rgb.R, rgb.G, rgb.B} {
				v = math.Pow(math.Max(v/lBefore, 0.0), f02.Saturation) * lAfter
				if f02.GammaExpand {
					v = emath.GammaExpand_F64(v)
				}
				c[i] = uint16(math.Min(v, 1.0) * 0xFFFF) // Clip, else high vals wraparound
			}
			out.Set(x, y, color.RGBA64{R: c[0], G: c[1], B: c[2], A: 0xFFFF})
		}
	}

	f02.Output = out
}

// gaussianBlur is a separable [1 2 1]/4 blur, with the edges weighted [3 1]/4.
func gaussianBlur(g emath.FloatGrid) emath.FloatGrid {
	w, h := g.Dx(), g.Dy()
	T, out := g.NewFromThis(), g.NewFromThis()

	for y := 0; y < h; y++ {
		for x := 1; x < w-1; x++ {
			T.Set(x, y, (2.0*g.Get(x, y)+g.Get(x-1, y)+g.Get(x+1, y))/4.0)
		}
		T.Set(0, y, (3.0*g.Get(0, y)+g.Get(1, y))/4.0)
		T.Set(w-1, y, (3.0*g.Get(w-1, y)+g.Get(w-2, y))/4.0)
	}

	for x := 0; x < w; x++ {
		for y := 1; y < h-1; y++ {
			out.Set(x, y, (2.0*T.Get(x, y)+T.Get(x, y-1)+T.Get(x, y+1))/4.0)
		}
		out.Set(x, 0, (3.0*T.Get(x, 0)+T.Get(x, 1))/4.0)
		out.Set(x, h-1, (3.0*T.Get(x, h-1)+T.Get(x, h-2))/4.0)
	}

	return out
}

// gradientMagnitudes returns the central difference gradient magnitude
// at each point of H, at pyramid level depth, and their average.
func gradientMagnitudes(H emath.FloatGrid, depth int) (emath.FloatGrid, float64) {
	G := H.NewFromThis()
	w, h := H.Dx(), H.Dy()
	divider := math.Pow(2.0, float64(depth)+1)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			we, e, n, s := x-1, x+1, y-1, y+1
			if x == 0 {
				we = 0
			}
			if x == w-1 {
				e = x
			}
			if y == 0 {
				n = 0
			}
			if y == h-1 {
				s = y
			}
			gx := (H.Get(we, y) - H.Get(e, y)) / divider
			gy := (H.Get(x, s) - H.Get(x, n)) / divider
			G.Set(x, y, math.Sqrt(gx*gx+gy*gy))
		}
	}

	return G, G.Sum() / float64(w*h)
}

// upSampleInto fills B, assumed to be twice the size of A, by copying each
// value of A into a 2x2 block.
func upSampleInto(A emath.FloatGrid, B *emath.FloatGrid) {
	for y := 0; y < B.Dy(); y++ {
		for x := 0; x < B.Dx(); x++ {
			ax, ay := x/2, y/2
			if ax >= A.Dx() {
				ax = A.Dx() - 1
			}
			if ay >= A.Dy() {
				ay = A.Dy() - 1
			}
			B.Set(x, y, A.Get(ax, ay))
		}
	}
}

// percentileRange returns the values at the two quantiles, ignoring zeros.
func percentileRange(g emath.FloatGrid, lo, hi float64) (float64, float64) {
	vals := []float64{}
	for _, v := range g.Values() {
		if v != 0.0 {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return 0, 1
	}
	sort.Float64s(vals)
	return stat.Quantile(lo, stat.Empirical, vals, nil), stat.Quantile(hi, stat.Empirical, vals, nil)
}
