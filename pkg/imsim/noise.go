package imsim

import (
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/abworrall/lensim/pkg/band"
	"github.com/abworrall/lensim/pkg/emath"
)

var clockSeeds uint64

// NewNoiseSource returns a random source for noise draws; seed 0 means
// seed from the clock, distinct on every call.
func NewNoiseSource(seed uint64) rand.Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano()) + atomic.AddUint64(&clockSeeds, 1)*0x9E3779B97F4A7C15
	}
	return rand.NewSource(seed)
}

// NoiseForModel draws a noise realisation for model (in counts/s):
// Poisson noise from the model itself, approximated as gaussian, plus
// gaussian background noise from the sky and read out.
func NoiseForModel(model emath.FloatGrid, b band.Settings, src rand.Source) emath.FloatGrid {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	t := b.TotalExposureTime()
	sigmaBkg := b.BackgroundSigma()

	noise := model.NewFromThis()
	for y := 0; y < model.Dy(); y++ {
		for x := 0; x < model.Dx(); x++ {
			poisson := normal.Rand() * math.Sqrt(math.Abs(model.Get(x, y))/t)
			noise.Set(x, y, poisson+normal.Rand()*sigmaBkg)
		}
	}
	return noise
}
