package lensmodel

import (
	"fmt"
	"math"
)

// A Mass is one component of the deflector's mass distribution. All
// angles are in arcseconds.
type Mass interface {
	// Deflection is the reduced deflection angle at image plane position (x, y)
	Deflection(x, y float64) (float64, float64)
	// Potential is the lensing potential at (x, y), in arcsec^2
	Potential(x, y float64) float64
	Name() string
}

// SIS is a singular isothermal sphere.
type SIS struct {
	ThetaE  float64 `yaml:"theta_E"`
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
}

func (s SIS) Name() string { return "SIS" }

func (s SIS) Deflection(x, y float64) (float64, float64) {
	dx, dy := x-s.CenterX, y-s.CenterY
	r := math.Hypot(dx, dy)
	if r == 0 {
		return 0, 0
	}
	return s.ThetaE * dx / r, s.ThetaE * dy / r
}

func (s SIS) Potential(x, y float64) float64 {
	return s.ThetaE * math.Hypot(x-s.CenterX, y-s.CenterY)
}

// SIE is a singular isothermal ellipsoid, with convergence
// kappa = ThetaE / (2 sqrt(q x^2 + y^2/q)) in the frame of its major axis.
type SIE struct {
	ThetaE  float64 `yaml:"theta_E"`
	E1      float64 `yaml:"e1"`
	E2      float64 `yaml:"e2"`
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
}

func (s SIE) Name() string { return "SIE" }

func (s SIE) Deflection(x, y float64) (float64, float64) {
	phi, q := EllipticityToPhiQ(s.E1, s.E2)
	dx, dy := x-s.CenterX, y-s.CenterY

	if 1-q < 1e-6 {
		return SIS{ThetaE: s.ThetaE}.Deflection(dx, dy)
	}

	xr, yr := rotate(dx, dy, phi)
	psi := math.Sqrt(q*q*xr*xr + yr*yr)
	if psi == 0 {
		return 0, 0
	}

	// Keeton (2001), with b rescaled so ThetaE is the intermediate-axis radius
	b := s.ThetaE * math.Sqrt(q)
	sq := math.Sqrt(1 - q*q)
	ax := b * q / sq * math.Atan(sq*xr/psi)
	ay := b * q / sq * math.Atanh(sq*yr/psi)

	return unrotate(ax, ay, phi)
}

// Potential uses psi = x.alpha, which holds for any isothermal profile.
func (s SIE) Potential(x, y float64) float64 {
	ax, ay := s.Deflection(x, y)
	return (x-s.CenterX)*ax + (y-s.CenterY)*ay
}

// Shear is an external shear field, anchored at (RaZero, DecZero).
type Shear struct {
	Gamma1  float64 `yaml:"gamma1"`
	Gamma2  float64 `yaml:"gamma2"`
	RaZero  float64 `yaml:"ra_0"`
	DecZero float64 `yaml:"dec_0"`
}

func (s Shear) Name() string { return "SHEAR" }

func (s Shear) Deflection(x, y float64) (float64, float64) {
	dx, dy := x-s.RaZero, y-s.DecZero
	return s.Gamma1*dx + s.Gamma2*dy, s.Gamma2*dx - s.Gamma1*dy
}

func (s Shear) Potential(x, y float64) float64 {
	dx, dy := x-s.RaZero, y-s.DecZero
	return 0.5*s.Gamma1*(dx*dx-dy*dy) + s.Gamma2*dx*dy
}

// NewMass looks up a mass profile by its model name, taking parameters from kwargs.
func NewMass(name string, kwargs map[string]float64) (Mass, error) {
	get := func(k string) float64 { return kwargs[k] }
	require := func(keys ...string) error {
		for _, k := range keys {
			if _, ok := kwargs[k]; !ok {
				return fmt.Errorf("mass model %s: missing parameter '%s'", name, k)
			}
		}
		return nil
	}

	switch name {
	case "SIS":
		if err := require("theta_E"); err != nil {
			return nil, err
		}
		return SIS{ThetaE: get("theta_E"), CenterX: get("center_x"), CenterY: get("center_y")}, nil
	case "SIE":
		if err := require("theta_E"); err != nil {
			return nil, err
		}
		return SIE{ThetaE: get("theta_E"), E1: get("e1"), E2: get("e2"), CenterX: get("center_x"), CenterY: get("center_y")}, nil
	case "SHEAR":
		return Shear{Gamma1: get("gamma1"), Gamma2: get("gamma2"), RaZero: get("ra_0"), DecZero: get("dec_0")}, nil
	}
	return nil, fmt.Errorf("no mass model named '%s'", name)
}
