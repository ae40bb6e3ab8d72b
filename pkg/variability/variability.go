package variability

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrUnsupportedModel = errors.New("variability model not supported")
	ErrUnsupportedUnit  = errors.New("time unit not supported")
)

// A Func maps an observer frame time, in days, to a magnitude offset.
type Func func(t float64) float64

// Spec asks for point source images at each of Times, with the source
// brightness varying according to the named model.
type Spec struct {
	Times  Times              `yaml:"time"`
	Model  string             `yaml:"variability_model"`
	Params map[string]float64 `yaml:"kwargs_variability"`
}

type constructor func(params map[string]float64) (Func, error)

var models = map[string]constructor{
	"sinusoidal": newSinusoidal,
}

// Lookup returns the named variability function, bound to its parameters.
func Lookup(name string, params map[string]float64) (Func, error) {
	c, exists := models[name]
	if !exists {
		return nil, fmt.Errorf("%w: '%s', currently supported: %v", ErrUnsupportedModel, name, Models())
	}
	return c(params)
}

func Models() []string {
	names := []string{}
	for k := range models {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (s Spec) Func() (Func, error) { return Lookup(s.Model, s.Params) }

func requireParams(model string, params map[string]float64, keys ...string) error {
	for _, k := range keys {
		v, exists := params[k]
		if !exists {
			return fmt.Errorf("variability model %s: missing parameter '%s'", model, k)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("variability model %s: parameter '%s' is %g", model, k, v)
		}
	}
	return nil
}

// newSinusoidal is amp * sin(2 pi freq t), freq in cycles per day.
func newSinusoidal(params map[string]float64) (Func, error) {
	if err := requireParams("sinusoidal", params, "amp", "freq"); err != nil {
		return nil, err
	}
	amp, freq := params["amp"], params["freq"]
	return func(t float64) float64 {
		return amp * math.Sin(2*math.Pi*freq*t)
	}, nil
}
