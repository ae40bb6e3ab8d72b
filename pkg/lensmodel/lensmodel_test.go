package lensmodel

import (
	"math"
	"sort"
	"testing"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestEllipticityRoundTrip(t *testing.T) {
	for _, tc := range []struct{ phi, q float64 }{{0, 1}, {0.3, 0.7}, {-1.2, 0.4}} {
		e1, e2 := PhiQToEllipticity(tc.phi, tc.q)
		phi, q := EllipticityToPhiQ(e1, e2)
		if !near(q, tc.q, 1e-12) {
			t.Errorf("q: got %g, want %g", q, tc.q)
		}
		if tc.q != 1 && !near(phi, tc.phi, 1e-12) {
			t.Errorf("phi: got %g, want %g", phi, tc.phi)
		}
	}
}

func TestSIEMatchesSISWhenRound(t *testing.T) {
	sis := SIS{ThetaE: 1.2, CenterX: 0.1}
	sie := SIE{ThetaE: 1.2, CenterX: 0.1, E1: 1e-9}
	for _, p := range [][2]float64{{1, 0}, {0.3, -0.8}, {-2, 1.5}} {
		ax1, ay1 := sis.Deflection(p[0], p[1])
		ax2, ay2 := sie.Deflection(p[0], p[1])
		if !near(ax1, ax2, 1e-6) || !near(ay1, ay2, 1e-6) {
			t.Errorf("%v: SIS (%g,%g) vs SIE (%g,%g)", p, ax1, ay1, ax2, ay2)
		}
	}
}

// The deflection must be the gradient of the potential.
func TestDeflectionIsPotentialGradient(t *testing.T) {
	mm := MassModel{
		SIE{ThetaE: 1, E1: 0.1, E2: -0.05, CenterX: 0.05},
		Shear{Gamma1: 0.03, Gamma2: -0.02},
	}
	h := 1e-6
	for _, p := range [][2]float64{{0.7, 0.4}, {-1.1, 0.2}, {0.2, -1.3}} {
		x, y := p[0], p[1]
		gx := (mm.Potential(x+h, y) - mm.Potential(x-h, y)) / (2 * h)
		gy := (mm.Potential(x, y+h) - mm.Potential(x, y-h)) / (2 * h)
		ax, ay := mm.Alpha(x, y)
		if !near(ax, gx, 1e-6) || !near(ay, gy, 1e-6) {
			t.Errorf("%v: alpha (%g,%g), grad psi (%g,%g)", p, ax, ay, gx, gy)
		}
	}
}

func TestSISImagesAndMagnification(t *testing.T) {
	mm := MassModel{SIS{ThetaE: 1}}
	xs, ys, err := mm.ImagePositions(0.3, 0, DefaultSolverOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(xs) != 2 {
		t.Fatalf("found %d images (%v, %v), want 2", len(xs), xs, ys)
	}
	sort.Float64s(xs)
	if !near(xs[0], -0.7, 1e-6) || !near(xs[1], 1.3, 1e-6) {
		t.Errorf("images at %v, want [-0.7 1.3]", xs)
	}
	for _, y := range ys {
		if !near(y, 0, 1e-6) {
			t.Errorf("image off axis, y=%g", y)
		}
	}

	if mu := mm.Magnification(1.3, 0); !near(mu, 1.3/0.3, 1e-4) {
		t.Errorf("mu(1.3) = %g, want %g", mu, 1.3/0.3)
	}
	if mu := mm.Magnification(-0.7, 0); !near(mu, -0.7/0.3, 1e-4) {
		t.Errorf("mu(-0.7) = %g, want %g", mu, -0.7/0.3)
	}
}

func TestSIEQuad(t *testing.T) {
	mm := MassModel{SIE{ThetaE: 1, E1: 0.15}}
	xs, ys, err := mm.ImagePositions(0.02, 0.01, DefaultSolverOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(xs) != 4 {
		t.Fatalf("found %d images, want 4", len(xs))
	}
	for i := range xs {
		bx, by := mm.RayShoot(xs[i], ys[i])
		if !near(bx, 0.02, 1e-8) || !near(by, 0.01, 1e-8) {
			t.Errorf("image %d maps to (%g,%g)", i, bx, by)
		}
	}
}

func TestSersicTotalFlux(t *testing.T) {
	s := Sersic{Amp: 1, RSersic: 0.5, NSersic: 1, E1: 0.1, E2: 0.05}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}

	// Riemann sum over a generous box
	step, sum := 0.01, 0.0
	for y := -8.0; y < 8.0; y += step {
		for x := -8.0; x < 8.0; x += step {
			sum += s.SurfaceBrightness(x+step/2, y+step/2) * step * step
		}
	}
	if !near(sum, s.TotalFlux(), 1e-3*s.TotalFlux()) {
		t.Errorf("integrated %g, analytic %g", sum, s.TotalFlux())
	}

	s2 := s.WithTotalFlux(100)
	if !near(s2.TotalFlux(), 100, 1e-9) {
		t.Errorf("WithTotalFlux: %g", s2.TotalFlux())
	}
}

func TestNewMass(t *testing.T) {
	if _, err := NewMass("SIE", map[string]float64{"theta_E": 1}); err != nil {
		t.Error(err)
	}
	if _, err := NewMass("SIE", map[string]float64{}); err == nil {
		t.Error("missing theta_E not reported")
	}
	if _, err := NewMass("NFW", nil); err == nil {
		t.Error("unknown model accepted")
	}
}

func TestNewLight(t *testing.T) {
	s, err := NewLight("SERSIC_ELLIPSE", map[string]float64{"R_sersic": 0.5, "n_sersic": 2, "e1": 0.1})
	if err != nil || s.E1 != 0.1 {
		t.Errorf("SERSIC_ELLIPSE: %+v, %v", s, err)
	}
	if _, err := NewLight("SERSIC", map[string]float64{"R_sersic": 0.5, "n_sersic": 2, "e1": 0.1}); err == nil {
		t.Error("circular sersic took an ellipticity")
	}
	if _, err := NewLight("SERSIC", map[string]float64{"R_sersic": 0.5}); err == nil {
		t.Error("missing n_sersic accepted")
	}
	if _, err := NewLight("GAUSSIAN", nil); err == nil {
		t.Error("unknown light model accepted")
	}
}
