package band

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"gopkg.in/yaml.v2"
)

var (
	ErrUnknownObservatory = errors.New("unknown observatory")
	ErrUnknownBand        = errors.New("unknown band")
)

//go:embed observatories.yaml
var observatoriesYaml []byte

// Settings are the instrumental parameters of one band. Values are
// in the units lenstronomy uses: arcsec, seconds, magnitudes and
// electrons.
type Settings struct {
	Observatory        string   `yaml:"observatory,omitempty"`
	Band               string   `yaml:"band,omitempty"`
	PixelScale         float64  `yaml:"pixel_scale"`
	MagnitudeZeroPoint float64  `yaml:"magnitude_zero_point"`
	BackgroundNoise    *float64 `yaml:"background_noise,omitempty"` // if nil, derived from the sky and read noise
	PSFType            string   `yaml:"psf_type"`
	Seeing             float64  `yaml:"seeing"` // FWHM in arcsec
	ExposureTime       float64  `yaml:"exposure_time"`
	NumExposures       int      `yaml:"num_exposures"`
	SkyBrightness      float64  `yaml:"sky_brightness"`
	ReadNoise          float64  `yaml:"read_noise"`
	CCDGain            float64  `yaml:"ccd_gain"`
}

type observatory struct {
	ReadNoise  float64             `yaml:"read_noise"`
	PixelScale float64             `yaml:"pixel_scale"`
	CCDGain    float64             `yaml:"ccd_gain"`
	PSFType    string              `yaml:"psf_type"`
	Bands      map[string]Settings `yaml:"bands"`
}

var observatories map[string]observatory

func init() {
	if err := yaml.UnmarshalStrict(observatoriesYaml, &observatories); err != nil {
		log.Fatalf("band: bad embedded observatory table: %v", err)
	}
}

// Override keys that are not Settings fields.
const CoaddYears = "coadd_years"

// LSST exposure counts in the table are for the full survey.
const lsstSurveyYears = 10.0

// Lookup returns the settings for a band, with the overrides applied on
// top. Override keys are the yaml names of the Settings fields; unknown
// keys are an error. LSST also takes "coadd_years" (1-10), which scales
// the number of exposures.
func Lookup(obsName, bandName string, overrides map[string]interface{}) (Settings, error) {
	obs, exists := observatories[obsName]
	if !exists {
		return Settings{}, fmt.Errorf("%w '%s', want one of %v", ErrUnknownObservatory, obsName, Observatories())
	}
	s, exists := obs.Bands[bandName]
	if !exists {
		return Settings{}, fmt.Errorf("%w '%s' for %s, want one of %v", ErrUnknownBand, bandName, obsName, Bands(obsName))
	}

	s.Observatory = obsName
	s.Band = bandName
	s.PixelScale = obs.PixelScale
	s.ReadNoise = obs.ReadNoise
	s.CCDGain = obs.CCDGain
	s.PSFType = obs.PSFType

	rest := map[string]interface{}{}
	for k, v := range overrides {
		rest[k] = v
	}

	if v, exists := rest[CoaddYears]; exists {
		if obsName != "LSST" {
			return Settings{}, fmt.Errorf("band %s/%s: %s only applies to LSST", obsName, bandName, CoaddYears)
		}
		years, err := toFloat(v)
		if err != nil || years < 1 || years > lsstSurveyYears {
			return Settings{}, fmt.Errorf("band %s/%s: %s must be a number in [1,10], got %v", obsName, bandName, CoaddYears, v)
		}
		s.NumExposures = int(math.Round(float64(s.NumExposures) * years / lsstSurveyYears))
		delete(rest, CoaddYears)
	}

	if err := s.applyOverrides(rest); err != nil {
		return Settings{}, fmt.Errorf("band %s/%s: %w", obsName, bandName, err)
	}
	return s, s.Validate()
}

func (s *Settings) applyOverrides(overrides map[string]interface{}) error {
	if len(overrides) == 0 {
		return nil
	}
	b, err := yaml.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("overrides: %v", err)
	}
	if err := yaml.UnmarshalStrict(b, s); err != nil {
		return fmt.Errorf("overrides: %v", err)
	}
	return nil
}

func (s Settings) Validate() error {
	if s.PixelScale <= 0 {
		return fmt.Errorf("pixel_scale must be positive, got %g", s.PixelScale)
	}
	if s.ExposureTime <= 0 {
		return fmt.Errorf("exposure_time must be positive, got %g", s.ExposureTime)
	}
	if s.BackgroundNoise == nil && s.NumExposures < 1 {
		return fmt.Errorf("num_exposures must be at least 1, got %d", s.NumExposures)
	}
	if s.BackgroundNoise != nil && *s.BackgroundNoise < 0 {
		return fmt.Errorf("background_noise must not be negative, got %g", *s.BackgroundNoise)
	}
	for _, f := range []float64{s.PixelScale, s.MagnitudeZeroPoint, s.ExposureTime, s.Seeing} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("non-finite band setting in %+v", s)
		}
	}
	return nil
}

// TotalExposureTime is the summed exposure over all exposures, in seconds.
func (s Settings) TotalExposureTime() float64 {
	n := s.NumExposures
	if n < 1 {
		n = 1
	}
	return s.ExposureTime * float64(n)
}

// SkyCountsPerSecond is the sky brightness, per square arcsec, in counts/s.
func (s Settings) SkyCountsPerSecond() float64 {
	return math.Pow(10, -(s.SkyBrightness-s.MagnitudeZeroPoint)/2.5)
}

// BackgroundSigma is the per-pixel gaussian noise level, in counts/s,
// from the read noise and the sky; an explicit BackgroundNoise wins.
func (s Settings) BackgroundSigma() float64 {
	if s.BackgroundNoise != nil {
		return *s.BackgroundNoise
	}
	n := s.NumExposures
	if n < 1 {
		n = 1
	}
	t := s.TotalExposureTime()
	variance := float64(n)*s.ReadNoise*s.ReadNoise + t*s.SkyCountsPerSecond()*s.PixelScale*s.PixelScale
	return math.Sqrt(variance) / t
}

func (s Settings) AsYaml() string {
	b, err := yaml.Marshal(s)
	if err != nil {
		log.Fatalf("Can't marshal band settings yaml: %v\n", err)
	}
	return string(b)
}

func Observatories() []string {
	names := []string{}
	for k := range observatories {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func Bands(obsName string) []string {
	names := []string{}
	for k := range observatories[obsName].Bands {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	}
	return 0, fmt.Errorf("not a number: %v", v)
}
