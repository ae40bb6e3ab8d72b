package emath

// Some basic affine transformations, used to map between pixel and sky coords

import (
	"fmt"
	"math"

	"golang.org/x/image/math/f64" // Will be "image/math/f64" at some point, hopefully make this file redundant
)

// Use a local type so we can hang methods off it. The layout is row-major,
// {a, b, tx,  c, d, ty}, mapping (x,y) to (a*x + b*y + tx, c*x + d*y + ty).
type Aff3 f64.Aff3

// Cut-n-pasted from image@0.7.0/draw/scale:matMul
func (p Aff3) Mult(q Aff3) Aff3 {
	return Aff3{
		p[3*0+0]*q[3*0+0] + p[3*0+1]*q[3*1+0],
		p[3*0+0]*q[3*0+1] + p[3*0+1]*q[3*1+1],
		p[3*0+0]*q[3*0+2] + p[3*0+1]*q[3*1+2] + p[3*0+2],
		p[3*1+0]*q[3*0+0] + p[3*1+1]*q[3*1+0],
		p[3*1+0]*q[3*0+1] + p[3*1+1]*q[3*1+1],
		p[3*1+0]*q[3*0+2] + p[3*1+1]*q[3*1+2] + p[3*1+2],
	}
}

func Identity() Aff3 {
	return Aff3{1, 0, 0, 0, 1, 0}
}

// NewAff3 builds a transform from a 2x2 linear part and a translation.
func NewAff3(m [2][2]float64, tx, ty float64) Aff3 {
	return Aff3{m[0][0], m[0][1], tx, m[1][0], m[1][1], ty}
}

func (m1 Aff3) Translate(tx, ty float64) Aff3 {
	return m1.Mult(Aff3{1, 0, tx, 0, 1, ty})
}

func (m1 Aff3) Scale(sx, sy float64) Aff3 {
	return m1.Mult(Aff3{sx, 0, 0, 0, sy, 0})
}

func (m Aff3) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

func (m Aff3) Det() float64 { return m[0]*m[4] - m[1]*m[3] }

// Invert returns the inverse transform; it fails if the linear part is singular.
func (m Aff3) Invert() (Aff3, error) {
	det := m.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Aff3{}, fmt.Errorf("affine transform %v is not invertible", m)
	}
	a, b, c, d := m[4]/det, -m[1]/det, -m[3]/det, m[0]/det
	return Aff3{
		a, b, -(a*m[2] + b*m[5]),
		c, d, -(c*m[2] + d*m[5]),
	}, nil
}

func (m Aff3) String() string {
	return fmt.Sprintf("[[%g, %g | %g], [%g, %g | %g]]", m[0], m[1], m[2], m[3], m[4], m[5])
}
