package lensmodel

import (
	"fmt"
	"math"
)

// Sersic is an elliptical Sersic light profile. With E1 = E2 = 0 it is
// the circular SERSIC profile. Amp is the surface brightness at RSersic.
type Sersic struct {
	Amp     float64 `yaml:"amp"`
	RSersic float64 `yaml:"R_sersic"`
	NSersic float64 `yaml:"n_sersic"`
	E1      float64 `yaml:"e1"`
	E2      float64 `yaml:"e2"`
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
}

// Below this radius (in units of RSersic) the profile is held flat.
const sersicSmoothing = 1e-5

func sersicB(n float64) float64 { return 1.9992*n - 0.3271 }

func (s Sersic) Validate() error {
	if s.RSersic <= 0 || !finite(s.RSersic) {
		return fmt.Errorf("sersic: R_sersic must be positive, got %g", s.RSersic)
	}
	if s.NSersic <= 0.2 || s.NSersic > 8 || !finite(s.NSersic) {
		return fmt.Errorf("sersic: n_sersic %g out of range (0.2,8]", s.NSersic)
	}
	return nil
}

// SurfaceBrightness at sky position (x, y), per square arcsec.
func (s Sersic) SurfaceBrightness(x, y float64) float64 {
	phi, q := EllipticityToPhiQ(s.E1, s.E2)
	xr, yr := rotate(x-s.CenterX, y-s.CenterY, phi)
	r := math.Sqrt(q*xr*xr+yr*yr/q) / s.RSersic
	if r < sersicSmoothing {
		r = sersicSmoothing
	}
	b := sersicB(s.NSersic)
	return s.Amp * math.Exp(-b*(math.Pow(r, 1/s.NSersic)-1))
}

// TotalFlux integrates the profile over the sky. The elliptical radius
// preserves area, so the ellipticity does not enter.
func (s Sersic) TotalFlux() float64 {
	return s.Amp * s.unitFlux()
}

func (s Sersic) unitFlux() float64 {
	n, b := s.NSersic, sersicB(s.NSersic)
	return 2 * math.Pi * n * s.RSersic * s.RSersic * math.Exp(b) * math.Pow(b, -2*n) * math.Gamma(2*n)
}

// WithTotalFlux returns a copy of the profile whose amplitude gives it
// the requested total flux.
func (s Sersic) WithTotalFlux(flux float64) Sersic {
	s.Amp = flux / s.unitFlux()
	return s
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// NewLight looks up a light profile by model name. SERSIC is circular,
// SERSIC_ELLIPSE takes e1 and e2.
func NewLight(name string, kwargs map[string]float64) (Sersic, error) {
	s := Sersic{
		Amp:     kwargs["amp"],
		RSersic: kwargs["R_sersic"],
		NSersic: kwargs["n_sersic"],
		CenterX: kwargs["center_x"],
		CenterY: kwargs["center_y"],
	}
	switch name {
	case "SERSIC":
		if _, e1 := kwargs["e1"]; e1 {
			return Sersic{}, fmt.Errorf("light model SERSIC is circular, use SERSIC_ELLIPSE for e1/e2")
		}
	case "SERSIC_ELLIPSE":
		s.E1, s.E2 = kwargs["e1"], kwargs["e2"]
	default:
		return Sersic{}, fmt.Errorf("no light model named '%s'", name)
	}
	return s, s.Validate()
}
