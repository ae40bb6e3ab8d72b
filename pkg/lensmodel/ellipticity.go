package lensmodel

import "math"

// Ellipticities are given as (e1, e2), with |e| = (1-q)/(1+q) and the
// position angle phi of the major axis = atan2(e2, e1) / 2.

// maxEllipticity keeps q away from zero, where the profiles become singular
const maxEllipticity = 0.9999

func EllipticityToPhiQ(e1, e2 float64) (phi, q float64) {
	phi = math.Atan2(e2, e1) / 2
	c := math.Sqrt(e1*e1 + e2*e2)
	if c > maxEllipticity {
		c = maxEllipticity
	}
	q = (1 - c) / (1 + c)
	return phi, q
}

func PhiQToEllipticity(phi, q float64) (e1, e2 float64) {
	c := (1 - q) / (1 + q)
	return c * math.Cos(2*phi), c * math.Sin(2*phi)
}

// rotate puts (x,y), relative to the centre, into the frame of the
// major axis.
func rotate(x, y, phi float64) (float64, float64) {
	cos, sin := math.Cos(phi), math.Sin(phi)
	return cos*x + sin*y, -sin*x + cos*y
}

// unrotate is the inverse of rotate, for vectors.
func unrotate(x, y, phi float64) (float64, float64) {
	cos, sin := math.Cos(phi), math.Sin(phi)
	return cos*x - sin*y, sin*x + cos*y
}
