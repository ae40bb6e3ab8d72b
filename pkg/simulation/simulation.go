package simulation

import (
	"fmt"
	"log"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/lensim/pkg/band"
	"github.com/abworrall/lensim/pkg/emath"
	"github.com/abworrall/lensim/pkg/imsim"
)

// A LensSystem is anything that can describe a strong lens: the scene to
// render in each band, and where its point source images are.
type LensSystem interface {
	BandModel(band string) (imsim.Scene, error)
	DeflectorPosition() (float64, float64)
	ImagePositions() ([]float64, []float64)
	PointSourceMagnitude(band string, lensed bool) ([]float64, error)
	// ImageObserverTimes maps a source time to per-image observed times, in days
	ImageObserverTimes(t float64) []float64
}

// Config controls a full (instrument-realistic) simulation.
type Config struct {
	Verbosity   int                    `yaml:"verbosity"`
	Observatory string                 `yaml:"observatory"`
	AddNoise    bool                   `yaml:"add_noise"`
	Overrides   map[string]interface{} `yaml:"overrides,omitempty"` // band settings overrides, see band.Lookup
	NoiseSeed   uint64                 `yaml:"noise_seed"`          // 0 seeds from the clock
	Kernel      emath.FloatGrid        `yaml:"-"`                   // PSF kernel, for bands overridden to psf_type PIXEL
}

func DefaultConfig() Config {
	return Config{Observatory: "LSST", AddNoise: true}
}

func (c Config) AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

var fullNumerics = imsim.Numerics{SupersamplingFactor: 3, PointSourceSupersamplingFactor: 1}

// SimulateImage renders the lens as the observatory would see it in the
// band: supersampled, convolved with the PSF, with noise if asked for.
func SimulateImage(sys LensSystem, bandName string, numPix int, cfg Config) (emath.FloatGrid, error) {
	if cfg.Observatory == "" {
		cfg.Observatory = "LSST"
	}
	sc, err := sys.BandModel(bandName)
	if err != nil {
		return emath.FloatGrid{}, fmt.Errorf("simulate image, band model: %w", err)
	}
	b, err := band.Lookup(cfg.Observatory, bandName, cfg.Overrides)
	if err != nil {
		return emath.FloatGrid{}, fmt.Errorf("simulate image: %w", err)
	}
	sa, err := imsim.NewSimAPI(numPix, b, cfg.Kernel)
	if err != nil {
		return emath.FloatGrid{}, fmt.Errorf("simulate image: %w", err)
	}
	if cfg.Verbosity > 0 {
		log.Printf("Simulating %s\n%s", sa, b.AsYaml())
	}

	amps, err := sa.MagnitudeToAmplitude(sc)
	if err != nil {
		return emath.FloatGrid{}, fmt.Errorf("simulate image: %w", err)
	}
	im, err := sa.ImageModel(fullNumerics)
	if err != nil {
		return emath.FloatGrid{}, err
	}
	img, err := im.Image(sc.Lens, amps, imsim.DefaultRenderOptions())
	if err != nil {
		return emath.FloatGrid{}, fmt.Errorf("simulate image: %w", err)
	}

	if cfg.AddNoise {
		noise := imsim.NoiseForModel(img, b, imsim.NewNoiseSource(cfg.NoiseSeed))
		if err := img.Add(noise); err != nil {
			return emath.FloatGrid{}, err
		}
	}

	if cfg.Verbosity > 0 {
		log.Printf("Simulated %s", img.Stats())
	}
	return img, nil
}

// sharpSettings only fill in what the renderer needs; the noise, PSF and
// exposure are never used.
func sharpSettings(zp, deltaPix float64) band.Settings {
	noNoise := 0.0
	return band.Settings{
		PixelScale:         deltaPix,
		MagnitudeZeroPoint: zp,
		BackgroundNoise:    &noNoise,
		PSFType:            "NONE",
		ExposureTime:       1,
	}
}

// SharpImage renders the lens without PSF or noise, at whatever pixel
// scale is asked for. Point sources are never drawn.
func SharpImage(sys LensSystem, bandName string, zp, deltaPix float64, numPix int, withDeflector bool) (emath.FloatGrid, error) {
	sc, err := sys.BandModel(bandName)
	if err != nil {
		return emath.FloatGrid{}, fmt.Errorf("sharp image, band model: %w", err)
	}
	b := sharpSettings(zp, deltaPix)
	if err := b.Validate(); err != nil {
		return emath.FloatGrid{}, fmt.Errorf("sharp image: %w", err)
	}
	sa, err := imsim.NewSimAPI(numPix, b, emath.FloatGrid{})
	if err != nil {
		return emath.FloatGrid{}, fmt.Errorf("sharp image: %w", err)
	}

	amps, err := sa.MagnitudeToAmplitude(sc)
	if err != nil {
		return emath.FloatGrid{}, fmt.Errorf("sharp image: %w", err)
	}
	im, err := sa.ImageModel(imsim.Numerics{SupersamplingFactor: 1})
	if err != nil {
		return emath.FloatGrid{}, err
	}

	return im.Image(sc.Lens, amps, imsim.RenderOptions{
		Unconvolved:    true,
		SourceAdd:      true,
		LensLightAdd:   withDeflector,
		PointSourceAdd: false,
	})
}
