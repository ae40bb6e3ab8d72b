package cosmo

// Distances in a flat LambdaCDM universe, enough to turn a Fermat
// potential difference into a time delay.

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

const (
	SpeedOfLight = 299792.458      // km/s
	MpcInMeters  = 3.0856775814913673e22
	SecondsInDay = 86400.0

	// Points in the Gauss-Legendre rule used for the comoving distance integral
	quadPoints = 64
)

// FlatLambdaCDM is a flat universe with matter and a cosmological constant.
type FlatLambdaCDM struct {
	H0  float64 `yaml:"h0"`  // Hubble constant, km/s/Mpc
	Om0 float64 `yaml:"om0"` // matter density today
}

func Default() FlatLambdaCDM { return FlatLambdaCDM{H0: 70, Om0: 0.3} }

func (c FlatLambdaCDM) Validate() error {
	if !(c.H0 > 0) {
		return fmt.Errorf("cosmology: H0 must be positive, got %g", c.H0)
	}
	if c.Om0 < 0 || c.Om0 > 1 {
		return fmt.Errorf("cosmology: Om0 must be in [0,1], got %g", c.Om0)
	}
	return nil
}

func (c FlatLambdaCDM) HubbleDistance() float64 { return SpeedOfLight / c.H0 }

func (c FlatLambdaCDM) efunc(z float64) float64 {
	zp1 := 1 + z
	return math.Sqrt(c.Om0*zp1*zp1*zp1 + (1 - c.Om0))
}

// ComovingDistanceZ1Z2 is the line-of-sight comoving distance between two redshifts, in Mpc.
func (c FlatLambdaCDM) ComovingDistanceZ1Z2(z1, z2 float64) float64 {
	if z2 == z1 {
		return 0
	}
	f := func(z float64) float64 { return 1.0 / c.efunc(z) }
	return c.HubbleDistance() * quad.Fixed(f, z1, z2, quadPoints, nil, 0)
}

func (c FlatLambdaCDM) ComovingDistance(z float64) float64 { return c.ComovingDistanceZ1Z2(0, z) }

// AngularDiameterDistance is in Mpc.
func (c FlatLambdaCDM) AngularDiameterDistance(z float64) float64 {
	return c.ComovingDistance(z) / (1 + z)
}

// AngularDiameterDistanceZ1Z2 is the distance from z1 to z2 as seen from z1 (flat universe only), in Mpc.
func (c FlatLambdaCDM) AngularDiameterDistanceZ1Z2(z1, z2 float64) float64 {
	return c.ComovingDistanceZ1Z2(z1, z2) / (1 + z2)
}

// TimeDelayDistance is D_dt = (1+zd) Dd Ds / Dds, in Mpc.
func (c FlatLambdaCDM) TimeDelayDistance(zd, zs float64) (float64, error) {
	if !(zs > zd) || zd <= 0 {
		return 0, fmt.Errorf("time delay distance needs 0 < zd < zs, got zd=%g zs=%g", zd, zs)
	}
	dd := c.AngularDiameterDistance(zd)
	ds := c.AngularDiameterDistance(zs)
	dds := c.AngularDiameterDistanceZ1Z2(zd, zs)
	return (1 + zd) * dd * ds / dds, nil
}

// FermatToDays converts a Fermat potential, in arcsec^2, into an arrival
// time in days, given the time delay distance in Mpc.
func FermatToDays(fermat, ddt float64) float64 {
	arcsec := math.Pi / 180.0 / 3600.0
	return ddt * MpcInMeters / (SpeedOfLight * 1000.0) * fermat * arcsec * arcsec / SecondsInDay
}
