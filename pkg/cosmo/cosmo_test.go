package cosmo

import (
	"math"
	"testing"
)

func TestEinsteinDeSitterComovingDistance(t *testing.T) {
	// With Om0=1 the integral has the closed form 2(1 - 1/sqrt(1+z)) c/H0
	c := FlatLambdaCDM{H0: 70, Om0: 1}
	for _, z := range []float64{0.1, 0.5, 1, 2.5} {
		want := 2 * (1 - 1/math.Sqrt(1+z)) * c.HubbleDistance()
		if got := c.ComovingDistance(z); math.Abs(got-want)/want > 1e-9 {
			t.Errorf("z=%g: got %g Mpc, want %g", z, got, want)
		}
	}
}

func TestDefaultDistances(t *testing.T) {
	c := Default()
	// Astropy FlatLambdaCDM(70, 0.3) gives ~1651.9 Mpc at z=1
	if d := c.AngularDiameterDistance(1); math.Abs(d-1651.9) > 1 {
		t.Errorf("D_A(1) = %g Mpc", d)
	}
	if d := c.AngularDiameterDistanceZ1Z2(0.5, 0.5); d != 0 {
		t.Errorf("D_A(z,z) = %g", d)
	}
}

func TestTimeDelayDistance(t *testing.T) {
	c := Default()
	ddt, err := c.TimeDelayDistance(0.5, 2)
	if err != nil {
		t.Fatal(err)
	}
	if ddt <= 0 {
		t.Errorf("ddt = %g", ddt)
	}
	if _, err := c.TimeDelayDistance(1, 0.5); err == nil {
		t.Errorf("expected source behind deflector to be required")
	}
}

func TestFermatToDays(t *testing.T) {
	// 1 arcsec^2 at 1 Gpc is about 28 days
	if d := FermatToDays(1, 1000); math.Abs(d-28.0) > 0.05 {
		t.Errorf("FermatToDays = %g", d)
	}
}
