package variability

import "fmt"

// Times is a sequence of observation times, all in the same unit.
type Times struct {
	Values []float64 `yaml:"values"`
	Unit   string    `yaml:"unit"`
}

var daysPerUnit = map[string]float64{
	"day": 1, "days": 1, "d": 1,
	"hour": 1.0 / 24, "hours": 1.0 / 24, "h": 1.0 / 24,
	"minute": 1.0 / 1440, "minutes": 1.0 / 1440, "min": 1.0 / 1440,
	"second": 1.0 / 86400, "seconds": 1.0 / 86400, "s": 1.0 / 86400,
	"year": 365.25, "years": 365.25, "yr": 365.25,
}

// Days returns the times converted to days. An empty unit means days.
func (t Times) Days() ([]float64, error) {
	unit := t.Unit
	if unit == "" {
		unit = "day"
	}
	f, exists := daysPerUnit[unit]
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedUnit, t.Unit)
	}
	out := make([]float64, len(t.Values))
	for i, v := range t.Values {
		out[i] = v * f
	}
	return out, nil
}
