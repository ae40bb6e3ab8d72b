package lens

import (
	"math"
	"testing"

	"github.com/abworrall/lensim/pkg/cosmo"
)

func loadSIS(t *testing.T) *GalaxyGalaxyLens {
	t.Helper()
	gg, err := Load("testdata/sis.yaml")
	if err != nil {
		t.Fatal(err)
	}
	return gg
}

func TestSISLens(t *testing.T) {
	gg := loadSIS(t)

	ra, dec := gg.ImagePositions()
	if len(ra) != 2 {
		t.Fatalf("%d images, want 2", len(ra))
	}
	// The outer image, at a minimum of the arrival time surface, comes first
	if math.Abs(ra[0]-1.3) > 1e-6 || math.Abs(ra[1]+0.7) > 1e-6 {
		t.Errorf("image ra %v, want [1.3 -0.7]", ra)
	}
	if math.Abs(dec[0]) > 1e-6 || math.Abs(dec[1]) > 1e-6 {
		t.Errorf("image dec %v", dec)
	}

	mu := gg.Magnifications()
	if math.Abs(mu[0]-1.3/0.3) > 1e-3 || math.Abs(mu[1]+0.7/0.3) > 1e-3 {
		t.Errorf("magnifications %v", mu)
	}

	mags, err := gg.PointSourceMagnitude("r", true)
	if err != nil {
		t.Fatal(err)
	}
	if want := 20.9 - 2.5*math.Log10(1.3/0.3); math.Abs(mags[0]-want) > 1e-3 {
		t.Errorf("lensed mag %g, want %g", mags[0], want)
	}
	if m, _ := gg.PointSourceMagnitude("r", false); len(m) != 1 || m[0] != 20.9 {
		t.Errorf("unlensed mag %v", m)
	}
	if _, err := gg.PointSourceMagnitude("u", true); err == nil {
		t.Error("missing band accepted")
	}
}

func TestImageObserverTimes(t *testing.T) {
	gg := loadSIS(t)
	ddt, _ := cosmo.Default().TimeDelayDistance(0.5, 2.0)
	delay := cosmo.FermatToDays(0.6, ddt)

	times := gg.ImageObserverTimes(10)
	if times[0] != 10 {
		t.Errorf("first image time %g, want 10", times[0])
	}
	if math.Abs(times[1]-(10+delay)) > 1e-4*delay {
		t.Errorf("second image time %g, want %g", times[1], 10+delay)
	}
}

func TestBandModel(t *testing.T) {
	gg := loadSIS(t)
	sc, err := gg.BandModel("g")
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.LensLight) != 1 || len(sc.SourceLight) != 1 || sc.PointSources == nil {
		t.Fatalf("scene %+v", sc)
	}
	if sc.SourceLight[0].Magnitude != 23.0 || sc.SourceLight[0].Profile.CenterX != 0.3 {
		t.Errorf("source %+v", sc.SourceLight[0])
	}
	if len(sc.PointSources.Magnitudes) != 2 {
		t.Errorf("point sources %+v", sc.PointSources)
	}

	if _, err := gg.BandModel("z"); err == nil {
		t.Error("band without magnitudes accepted")
	}
}

func TestBadDescriptions(t *testing.T) {
	for name, y := range map[string]string{
		"redshifts": "deflector: {z: 1.0, mass: [{type: SIS, theta_E: 1}]}\nsource: {z: 0.5}\n",
		"no mass":   "deflector: {z: 0.5}\nsource: {z: 1.5}\n",
		"bad mass":  "deflector: {z: 0.5, mass: [{type: NFW}]}\nsource: {z: 1.5}\n",
		"bad key":   "deflector: {z: 0.5, zz: 1}\nsource: {z: 1.5}\n",
	} {
		d, err := NewDescriptionFromYaml([]byte(y))
		if err == nil {
			_, err = New(d)
		}
		if err == nil {
			t.Errorf("%s: accepted", name)
		}
	}
}

func TestSIEQuadLens(t *testing.T) {
	gg, err := Load("testdata/sie-quad.yaml")
	if err != nil {
		t.Fatal(err)
	}
	ra, dec := gg.ImagePositions()
	if len(ra) != 4 {
		t.Fatalf("%d images, want 4", len(ra))
	}

	times := gg.ArrivalTimes()
	for i := 1; i < len(times); i++ {
		if times[i] < times[i-1] {
			t.Errorf("arrival times out of order: %v", times)
		}
	}
	obs := gg.ImageObserverTimes(100)
	if obs[0] != 100 {
		t.Errorf("leading image sees %g, want 100", obs[0])
	}
	for i := range obs {
		if want := 100 + times[i] - times[0]; math.Abs(obs[i]-want) > 1e-9 {
			t.Errorf("image %d samples %g, want %g", i, obs[i], want)
		}
		if obs[i] < 100 {
			t.Errorf("image %d samples %g, before the observation time", i, obs[i])
		}
	}

	// The images all map back onto the source
	mm := gg.mass
	for i := range ra {
		bx, by := mm.RayShoot(ra[i], dec[i])
		if math.Abs(bx-0.04) > 1e-8 || math.Abs(by-0.03) > 1e-8 {
			t.Errorf("image %d maps to (%g,%g)", i, bx, by)
		}
	}
}
