package fattal02

// Poisson solver for laplace(U) = F with Neumann boundaries, solved in the
// eigenvector space of the discrete laplacian. The eigenvectors are the
// DCT-I basis, so the forward and inverse transforms are both a 2D DCT-I
// plus some edge scaling. Follows pde_fft.cpp in PFSTMO.

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/abworrall/lensim/pkg/emath"
)

// dct2 runs an unnormalized 2D DCT-I over the grid, rows then columns.
// A second call multiplies every value by 4*(w-1)*(h-1).
func dct2(in emath.FloatGrid) emath.FloatGrid {
	w, h := in.Dx(), in.Dy()
	out := in.Copy()
	vals := out.Values()

	rows := fourier.NewDCT(w)
	row := make([]float64, w)
	for y := 0; y < h; y++ {
		rows.Transform(row, vals[y*w:(y+1)*w])
		copy(vals[y*w:], row)
	}

	cols := fourier.NewDCT(h)
	col, res := make([]float64, h), make([]float64, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = vals[y*w+x]
		}
		cols.Transform(res, col)
		for y := 0; y < h; y++ {
			vals[y*w+x] = res[y]
		}
	}
	return out
}

// toEigenSpace returns T = EVy^-1 * A * (EVx^-1)^tr
func toEigenSpace(A emath.FloatGrid) emath.FloatGrid {
	w, h := A.Dx(), A.Dy()
	T := dct2(A)
	T.Scale(1.0 / float64((h-1)*(w-1)))

	for x := 0; x < w; x++ {
		T.Set(x, 0, T.Get(x, 0)*0.5)
		T.Set(x, h-1, T.Get(x, h-1)*0.5)
	}
	for y := 0; y < h; y++ {
		T.Set(0, y, T.Get(0, y)*0.5)
		T.Set(w-1, y, T.Get(w-1, y)*0.5)
	}
	return T
}

// fromEigenSpace returns T = EVy A EVx^tr, the inverse of toEigenSpace.
func fromEigenSpace(A emath.FloatGrid) emath.FloatGrid {
	w, h := A.Dx(), A.Dy()
	S := A.Copy()

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			S.Set(x, y, S.Get(x, y)*0.25)
		}
	}
	for x := 1; x < w-1; x++ {
		S.Set(x, 0, S.Get(x, 0)*0.5)
		S.Set(x, h-1, S.Get(x, h-1)*0.5)
	}
	for y := 1; y < h-1; y++ {
		S.Set(0, y, S.Get(0, y)*0.5)
		S.Set(w-1, y, S.Get(w-1, y)*0.5)
	}
	return dct2(S)
}

// laplaceEigenvalues of the 1D laplace operator on n points
func laplaceEigenvalues(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		u := math.Sin(float64(i) / float64(2*(n-1)) * math.Pi)
		v[i] = -4.0 * u * u
	}
	return v
}

// makeCompatibleBoundary shifts the boundary of F so the integral
// condition holds and a solution exists.
func makeCompatibleBoundary(F emath.FloatGrid) {
	w, h := F.Dx(), F.Dy()

	sum := 0.0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			sum += F.Get(x, y)
		}
	}
	for x := 1; x < w-1; x++ {
		sum += 0.5 * (F.Get(x, 0) + F.Get(x, h-1))
	}
	for y := 1; y < h-1; y++ {
		sum += 0.5 * (F.Get(0, y) + F.Get(w-1, y))
	}
	sum += 0.25 * (F.Get(0, 0) + F.Get(0, h-1) + F.Get(w-1, 0) + F.Get(w-1, h-1))

	add := -1.0 * sum / float64(h+w-3)
	for x := 0; x < w; x++ {
		F.Inc(x, 0, add)
		F.Inc(x, h-1, add)
	}
	for y := 1; y < h-1; y++ {
		F.Inc(0, y, add)
		F.Inc(w-1, y, add)
	}
}

// SolvePoisson solves laplace(U) = F, where the laplacian mirrors at the
// edges (U(-1) = U(1)). If adjustBound is set, the boundary of F is
// modified so the equation has an exact solution; otherwise the least
// error approximation comes back. The solution is shifted so its
// largest value is zero. Both dimensions must be at least 2.
func SolvePoisson(F emath.FloatGrid, adjustBound bool) emath.FloatGrid {
	w, h := F.Dx(), F.Dy()

	if adjustBound {
		makeCompatibleBoundary(F)
	}

	Ftr := toEigenSpace(F)
	Utr := Ftr.NewFromThis()
	ly := laplaceEigenvalues(h)
	lx := laplaceEigenvalues(w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x == 0 && y == 0 {
				continue // any value ok, only adds a const to the solution
			}
			Utr.Set(x, y, Ftr.Get(x, y)/(ly[y]+lx[x]))
		}
	}

	U := fromEigenSpace(Utr)

	// We later take exp(U), so prefer a solution with no positive values
	_, max := U.MinMax()
	vals := U.Values()
	for i := range vals {
		vals[i] -= max
	}
	return U
}
