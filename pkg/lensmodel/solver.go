package lensmodel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// SolverOptions controls the image finder. The search seeds Newton
// iterations from local minima of |beta(theta) - beta_source| over a
// square grid.
type SolverOptions struct {
	CenterX, CenterY float64 // centre of the search window
	SearchWindow     float64 // full width of the search window, arcsec
	GridStep         float64 // spacing of the seeding grid, arcsec
	Precision        float64 // source plane tolerance, arcsec
	MaxIter          int
}

func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		SearchWindow: 10,
		GridStep:     0.05,
		Precision:    1e-10,
		MaxIter:      50,
	}
}

// ImagePositions returns all image plane positions that map onto the
// source at (bx, by).
func (mm MassModel) ImagePositions(bx, by float64, opts SolverOptions) ([]float64, []float64, error) {
	if opts.GridStep <= 0 || opts.SearchWindow <= 0 {
		return nil, nil, fmt.Errorf("solver: grid step %g and window %g must be positive", opts.GridStep, opts.SearchWindow)
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultSolverOptions().MaxIter
	}
	if opts.Precision <= 0 {
		opts.Precision = DefaultSolverOptions().Precision
	}

	n := int(math.Ceil(opts.SearchWindow / opts.GridStep))
	x0 := opts.CenterX - opts.SearchWindow/2
	y0 := opts.CenterY - opts.SearchWindow/2
	at := func(i int, o float64) float64 { return o + (float64(i)+0.5)*opts.GridStep }

	dist := make([]float64, n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			sx, sy := mm.RayShoot(at(i, x0), at(j, y0))
			dist[j*n+i] = math.Hypot(sx-bx, sy-by)
		}
	}

	isMin := func(i, j int) bool {
		d := dist[j*n+i]
		for dj := -1; dj <= 1; dj++ {
			for di := -1; di <= 1; di++ {
				if di == 0 && dj == 0 {
					continue
				}
				ii, jj := i+di, j+dj
				if ii < 0 || jj < 0 || ii >= n || jj >= n {
					continue
				}
				if dist[jj*n+ii] < d {
					return false
				}
			}
		}
		return true
	}

	xs, ys := []float64{}, []float64{}
	half := opts.SearchWindow / 2
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			if !isMin(i, j) {
				continue
			}
			x, y, ok := mm.newton(at(i, x0), at(j, y0), bx, by, opts)
			if !ok || math.Abs(x-opts.CenterX) > half || math.Abs(y-opts.CenterY) > half {
				continue
			}
			dup := false
			for k := range xs {
				if math.Hypot(xs[k]-x, ys[k]-y) < opts.GridStep/10 {
					dup = true
					break
				}
			}
			if !dup {
				xs = append(xs, x)
				ys = append(ys, y)
			}
		}
	}

	return xs, ys, nil
}

// newton refines an image position; ok is false if it fails to converge.
func (mm MassModel) newton(x, y, bx, by float64, opts SolverOptions) (float64, float64, bool) {
	for iter := 0; iter < opts.MaxIter; iter++ {
		sx, sy := mm.RayShoot(x, y)
		res := mat.NewVecDense(2, []float64{sx - bx, sy - by})
		if math.Hypot(sx-bx, sy-by) < opts.Precision {
			return x, y, true
		}

		var step mat.VecDense
		if err := step.SolveVec(mm.Jacobian(x, y), res); err != nil {
			return 0, 0, false
		}
		x -= step.AtVec(0)
		y -= step.AtVec(1)
		if !finite(x) || !finite(y) {
			return 0, 0, false
		}
	}
	return 0, 0, false
}
