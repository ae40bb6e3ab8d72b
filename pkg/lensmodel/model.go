package lensmodel

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// A MassModel is the superposition of its components.
type MassModel []Mass

func (mm MassModel) Alpha(x, y float64) (float64, float64) {
	ax, ay := 0.0, 0.0
	for _, m := range mm {
		dx, dy := m.Deflection(x, y)
		ax += dx
		ay += dy
	}
	return ax, ay
}

// RayShoot maps an image plane position to the source plane, via the
// lens equation beta = theta - alpha(theta).
func (mm MassModel) RayShoot(x, y float64) (float64, float64) {
	ax, ay := mm.Alpha(x, y)
	return x - ax, y - ay
}

func (mm MassModel) Potential(x, y float64) float64 {
	psi := 0.0
	for _, m := range mm {
		psi += m.Potential(x, y)
	}
	return psi
}

// FermatPotential of image position (x,y) for a source at (bx,by), in
// arcsec^2. Arrival times differ by D_dt/c times differences of this.
func (mm MassModel) FermatPotential(x, y, bx, by float64) float64 {
	dx, dy := x-bx, y-by
	return 0.5*(dx*dx+dy*dy) - mm.Potential(x, y)
}

var jacobianSettings = &fd.JacobianSettings{Formula: fd.Central, Step: 1e-6}

// Jacobian is the matrix d(beta)/d(theta) at (x,y), estimated by finite
// differences of the ray shooting.
func (mm MassModel) Jacobian(x, y float64) *mat.Dense {
	jac := mat.NewDense(2, 2, nil)
	fd.Jacobian(jac, func(dst, theta []float64) {
		dst[0], dst[1] = mm.RayShoot(theta[0], theta[1])
	}, []float64{x, y}, jacobianSettings)
	return jac
}

// Magnification is the signed magnification 1/det(d(beta)/d(theta)); it
// is infinite on a critical curve.
func (mm MassModel) Magnification(x, y float64) float64 {
	det := mat.Det(mm.Jacobian(x, y))
	if det == 0 {
		return math.Inf(1)
	}
	return 1 / det
}
