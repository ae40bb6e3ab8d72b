package imsim

import (
	"fmt"

	"github.com/abworrall/lensim/pkg/lensmodel"
)

// A Scene is everything needed to render a lens system in one band.
// Light components carry magnitudes; MagnitudeToAmplitude turns them
// into surface brightness amplitudes for a given zero point.
type Scene struct {
	Lens         lensmodel.MassModel
	LensLight    []LightComponent
	SourceLight  []LightComponent
	PointSources *PointSources
}

// A LightComponent is a Sersic profile, with either a magnitude or an
// amplitude set (the profile's Amp is ignored until the magnitude has
// been converted).
type LightComponent struct {
	Profile   lensmodel.Sersic
	Magnitude float64
}

// PointSources are the lensed images of a point source, with their
// (lensed) magnitudes.
type PointSources struct {
	RA, Dec    []float64
	Magnitudes []float64
}

// Amplitudes are the renderable form of a Scene.
type Amplitudes struct {
	LensLight   []lensmodel.Sersic
	SourceLight []lensmodel.Sersic
	PointRA     []float64
	PointDec    []float64
	PointAmp    []float64
}

// MagnitudeToAmplitude converts every magnitude in the scene to counts
// per second, using the zero point; extended profiles get the amplitude
// that makes their total flux equal those counts.
func MagnitudeToAmplitude(sc Scene, zeroPoint float64) (Amplitudes, error) {
	amps := Amplitudes{}
	convert := func(comps []LightComponent, what string) ([]lensmodel.Sersic, error) {
		out := []lensmodel.Sersic{}
		for i, c := range comps {
			if err := c.Profile.Validate(); err != nil {
				return nil, fmt.Errorf("%s %d: %v", what, i, err)
			}
			counts, err := MagnitudeToCounts(c.Magnitude, zeroPoint)
			if err != nil {
				return nil, fmt.Errorf("%s %d: %w", what, i, err)
			}
			out = append(out, c.Profile.WithTotalFlux(counts))
		}
		return out, nil
	}

	var err error
	if amps.LensLight, err = convert(sc.LensLight, "lens light"); err != nil {
		return Amplitudes{}, err
	}
	if amps.SourceLight, err = convert(sc.SourceLight, "source light"); err != nil {
		return Amplitudes{}, err
	}

	if ps := sc.PointSources; ps != nil {
		if len(ps.RA) != len(ps.Dec) || len(ps.RA) != len(ps.Magnitudes) {
			return Amplitudes{}, fmt.Errorf("point sources: %d ra, %d dec, %d magnitudes", len(ps.RA), len(ps.Dec), len(ps.Magnitudes))
		}
		for i, mag := range ps.Magnitudes {
			counts, err := MagnitudeToCounts(mag, zeroPoint)
			if err != nil {
				return Amplitudes{}, fmt.Errorf("point source %d: %w", i, err)
			}
			amps.PointAmp = append(amps.PointAmp, counts)
		}
		amps.PointRA = append([]float64{}, ps.RA...)
		amps.PointDec = append([]float64{}, ps.Dec...)
	}

	return amps, nil
}
