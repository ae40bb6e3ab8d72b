package lens

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/abworrall/lensim/pkg/cosmo"
	"github.com/abworrall/lensim/pkg/imsim"
	"github.com/abworrall/lensim/pkg/lensmodel"
)

// GalaxyGalaxyLens is a deflector galaxy lensing a background galaxy,
// optionally hosting a point source (a quasar or supernova). The lensed
// images are found once, when the lens is built.
type GalaxyGalaxyLens struct {
	Desc Description

	mass      lensmodel.MassModel
	lensLight []lensmodel.Sersic
	srcLight  []lensmodel.Sersic

	imageRA, imageDec []float64
	magnifications    []float64
	arrivalTimes      []float64 // days, relative to the Fermat potential zero
}

func Load(filename string) (*GalaxyGalaxyLens, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read '%s': %v", filename, err)
	}
	d, err := NewDescriptionFromYaml(b)
	if err != nil {
		return nil, fmt.Errorf("load '%s': %v", filename, err)
	}
	return New(d)
}

func New(d Description) (*GalaxyGalaxyLens, error) {
	if err := d.Cosmology.Validate(); err != nil {
		return nil, err
	}
	if d.Source.Z <= d.Deflector.Z || d.Deflector.Z <= 0 {
		return nil, fmt.Errorf("need 0 < z_deflector < z_source, got %g and %g", d.Deflector.Z, d.Source.Z)
	}
	if len(d.Deflector.Mass) == 0 {
		return nil, fmt.Errorf("deflector has no mass components")
	}

	gg := GalaxyGalaxyLens{Desc: d}
	for i, c := range d.Deflector.Mass {
		m, err := lensmodel.NewMass(c.Type, c.params(d.Deflector.CenterX, d.Deflector.CenterY))
		if err != nil {
			return nil, fmt.Errorf("deflector mass %d: %v", i, err)
		}
		gg.mass = append(gg.mass, m)
	}
	for i, c := range d.Deflector.Light {
		l, err := lensmodel.NewLight(c.Type, c.params(d.Deflector.CenterX, d.Deflector.CenterY))
		if err != nil {
			return nil, fmt.Errorf("deflector light %d: %v", i, err)
		}
		gg.lensLight = append(gg.lensLight, l)
	}
	for i, c := range d.Source.Light {
		l, err := lensmodel.NewLight(c.Type, c.params(d.Source.CenterX, d.Source.CenterY))
		if err != nil {
			return nil, fmt.Errorf("source light %d: %v", i, err)
		}
		gg.srcLight = append(gg.srcLight, l)
	}

	if err := gg.solve(); err != nil {
		return nil, err
	}
	return &gg, nil
}

// solve finds the images of the source centre, their magnifications and
// arrival times, ordered by arrival time.
func (gg *GalaxyGalaxyLens) solve() error {
	opts := lensmodel.DefaultSolverOptions()
	opts.CenterX, opts.CenterY = gg.Desc.Deflector.CenterX, gg.Desc.Deflector.CenterY
	bx, by := gg.Desc.Source.CenterX, gg.Desc.Source.CenterY

	ra, dec, err := gg.mass.ImagePositions(bx, by, opts)
	if err != nil {
		return fmt.Errorf("image positions: %v", err)
	}

	ddt, err := gg.Desc.Cosmology.TimeDelayDistance(gg.Desc.Deflector.Z, gg.Desc.Source.Z)
	if err != nil {
		return err
	}

	type image struct{ ra, dec, mu, t float64 }
	images := []image{}
	for i := range ra {
		fermat := gg.mass.FermatPotential(ra[i], dec[i], bx, by)
		images = append(images, image{
			ra:  ra[i],
			dec: dec[i],
			mu:  gg.mass.Magnification(ra[i], dec[i]),
			t:   cosmo.FermatToDays(fermat, ddt),
		})
	}
	sort.Slice(images, func(i, j int) bool { return images[i].t < images[j].t })

	gg.imageRA, gg.imageDec, gg.magnifications, gg.arrivalTimes = nil, nil, nil, nil
	for _, im := range images {
		gg.imageRA = append(gg.imageRA, im.ra)
		gg.imageDec = append(gg.imageDec, im.dec)
		gg.magnifications = append(gg.magnifications, im.mu)
		gg.arrivalTimes = append(gg.arrivalTimes, im.t)
	}
	return nil
}

func (gg *GalaxyGalaxyLens) DeflectorPosition() (float64, float64) {
	return gg.Desc.Deflector.CenterX, gg.Desc.Deflector.CenterY
}

func (gg *GalaxyGalaxyLens) SourcePosition() (float64, float64) {
	return gg.Desc.Source.CenterX, gg.Desc.Source.CenterY
}

// ImagePositions are the point source images, in order of arrival.
func (gg *GalaxyGalaxyLens) ImagePositions() ([]float64, []float64) {
	return append([]float64{}, gg.imageRA...), append([]float64{}, gg.imageDec...)
}

func (gg *GalaxyGalaxyLens) Magnifications() []float64 {
	return append([]float64{}, gg.magnifications...)
}

// ArrivalTimes are in days, with an arbitrary common offset.
func (gg *GalaxyGalaxyLens) ArrivalTimes() []float64 {
	return append([]float64{}, gg.arrivalTimes...)
}

// ImageObserverTimes maps an observation time t to the time sampled from
// each image's light curve, t + (arrival_i - min arrival). The first
// image to arrive samples t itself.
func (gg *GalaxyGalaxyLens) ImageObserverTimes(t float64) []float64 {
	out := make([]float64, len(gg.arrivalTimes))
	if len(out) == 0 {
		return out
	}
	first := gg.arrivalTimes[0]
	for _, at := range gg.arrivalTimes {
		if at < first {
			first = at
		}
	}
	for i, at := range gg.arrivalTimes {
		out[i] = t + (at - first)
	}
	return out
}

func (gg *GalaxyGalaxyLens) HasPointSource() bool { return len(gg.Desc.Source.PointSourceMag) > 0 }

// PointSourceMagnitude is the point source magnitude in the band, per
// image when lensed (m - 2.5 log10 |mu|), or the single unlensed value.
func (gg *GalaxyGalaxyLens) PointSourceMagnitude(band string, lensed bool) ([]float64, error) {
	m, exists := gg.Desc.Source.PointSourceMag[band]
	if !exists {
		return nil, fmt.Errorf("lens %s: no point source magnitude for band '%s'", gg.Desc.Name, band)
	}
	if !lensed {
		return []float64{m}, nil
	}
	out := []float64{}
	for _, mu := range gg.magnifications {
		out = append(out, m-2.5*math.Log10(math.Abs(mu)))
	}
	return out, nil
}

// BandModel assembles the scene to render in the band.
func (gg *GalaxyGalaxyLens) BandModel(band string) (imsim.Scene, error) {
	sc := imsim.Scene{Lens: gg.mass}

	for i, c := range gg.Desc.Deflector.Light {
		m, err := c.magnitude(band)
		if err != nil {
			return imsim.Scene{}, fmt.Errorf("deflector light %d: %v", i, err)
		}
		sc.LensLight = append(sc.LensLight, imsim.LightComponent{Profile: gg.lensLight[i], Magnitude: m})
	}
	for i, c := range gg.Desc.Source.Light {
		m, err := c.magnitude(band)
		if err != nil {
			return imsim.Scene{}, fmt.Errorf("source light %d: %v", i, err)
		}
		sc.SourceLight = append(sc.SourceLight, imsim.LightComponent{Profile: gg.srcLight[i], Magnitude: m})
	}

	if gg.HasPointSource() {
		mags, err := gg.PointSourceMagnitude(band, true)
		if err != nil {
			return imsim.Scene{}, err
		}
		ra, dec := gg.ImagePositions()
		sc.PointSources = &imsim.PointSources{RA: ra, Dec: dec, Magnitudes: mags}
	}

	return sc, nil
}

func (gg *GalaxyGalaxyLens) String() string {
	return fmt.Sprintf("GalaxyGalaxyLens[%s, z=%g->%g, %d images]", gg.Desc.Name, gg.Desc.Deflector.Z, gg.Desc.Source.Z, len(gg.imageRA))
}
