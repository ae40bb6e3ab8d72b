package output

import (
	"fmt"

	"github.com/codahale/hdrhistogram"

	"github.com/abworrall/lensim/pkg/emath"
)

// Resolution of the value histogram; values are mapped onto [0,histMax].
const histMax = 1000000

type Stats struct {
	N                   int64
	Min, Max, Mean      float64
	P50, P90, P99, P999 float64
	Sum                 float64
}

// GridStats summarises the distribution of pixel values. Quantiles are
// accurate to about 1e-3 of the value range.
func GridStats(fg emath.FloatGrid) Stats {
	min, max := fg.MinMax()
	span := max - min
	if span <= 0 {
		span = 1
	}

	h := hdrhistogram.New(0, histMax, 3)
	for _, v := range fg.Values() {
		h.RecordValue(int64((v - min) / span * histMax))
	}
	unmap := func(i int64) float64 { return min + float64(i)/histMax*span }

	return Stats{
		N:    h.TotalCount(),
		Min:  min,
		Max:  max,
		Mean: min + h.Mean()/histMax*span,
		P50:  unmap(h.ValueAtQuantile(50)),
		P90:  unmap(h.ValueAtQuantile(90)),
		P99:  unmap(h.ValueAtQuantile(99)),
		P999: unmap(h.ValueAtQuantile(99.9)),
		Sum:  fg.Sum(),
	}
}

func (s Stats) String() string {
	return fmt.Sprintf("n=%d, range [%.4g, %.4g], mean %.4g, p50 %.4g, p90 %.4g, p99 %.4g, p99.9 %.4g, sum %.6g",
		s.N, s.Min, s.Max, s.Mean, s.P50, s.P90, s.P99, s.P999, s.Sum)
}
