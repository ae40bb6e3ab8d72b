package lens

import (
	"fmt"
	"log"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/lensim/pkg/cosmo"
)

// Description is the on-disk form of a galaxy-galaxy lens. Angles are
// arcsec; magnitudes are keyed by band name.
type Description struct {
	Name      string              `yaml:"name,omitempty"`
	Cosmology cosmo.FlatLambdaCDM `yaml:"cosmology"`
	Deflector Deflector           `yaml:"deflector"`
	Source    Source              `yaml:"source"`
}

type Deflector struct {
	Z       float64     `yaml:"z"`
	CenterX float64     `yaml:"center_x"`
	CenterY float64     `yaml:"center_y"`
	Mass    []Component `yaml:"mass"`
	Light   []Component `yaml:"light"`
}

type Source struct {
	Z       float64     `yaml:"z"`
	CenterX float64     `yaml:"center_x"`
	CenterY float64     `yaml:"center_y"`
	Light   []Component `yaml:"light"`

	// Unlensed magnitudes of a point source at the source centre, if any
	PointSourceMag map[string]float64 `yaml:"point_source_mag,omitempty"`
}

// A Component is a named profile with its parameters; light profiles
// also carry per-band magnitudes.
type Component struct {
	Type   string             `yaml:"type"`
	Mag    map[string]float64 `yaml:"mag,omitempty"`
	Params map[string]float64 `yaml:",inline"`
}

func NewDescriptionFromYaml(b []byte) (Description, error) {
	d := Description{Cosmology: cosmo.Default()}
	if err := yaml.UnmarshalStrict(b, &d); err != nil {
		return Description{}, fmt.Errorf("lens yaml: %v", err)
	}
	return d, nil
}

func (d Description) AsYaml() string {
	b, err := yaml.Marshal(d)
	if err != nil {
		log.Fatalf("Can't marshal lens yaml: %v\n", err)
	}
	return string(b)
}

// params returns the component's parameters, with the centre filled in
// from (cx, cy) when not given.
func (c Component) params(cx, cy float64) map[string]float64 {
	p := map[string]float64{"center_x": cx, "center_y": cy}
	for k, v := range c.Params {
		p[k] = v
	}
	return p
}

func (c Component) magnitude(band string) (float64, error) {
	m, exists := c.Mag[band]
	if !exists {
		return 0, fmt.Errorf("%s component has no magnitude for band '%s'", c.Type, band)
	}
	return m, nil
}
