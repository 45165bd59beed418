// Package units names the measurement units attached to series, infers them
// from column names and converts values between units of one dimension.
package units

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Unit constants
const (
	Degrees    = "Degrees"
	Radians    = "Radians"
	G          = "G"
	MPS2       = "m/s²"
	Celsius    = "°C"
	Fahrenheit = "°F"
	Kelvin     = "K"
	CPS        = "CPS"
	Counts     = "Counts"
	Volts      = "V"
	Millivolts = "mV"
	MilliAmps  = "mA"
	Amps       = "A"
	Gauss      = "Gauss"
	MicroTesla = "µT"
	RPM        = "RPM"
	MPS        = "mps"
	MPH        = "mph"
	KMPH       = "kmph"
	KPH        = "kph"
	Unitless   = "units"
)

// linear maps a unit onto the base unit of its dimension: base = v*scale + offset.
type linear struct {
	dimension string
	scale     float64
	offset    float64
}

var table = map[string]linear{
	Degrees:    {"angle", 1, 0},
	Radians:    {"angle", 180 / math.Pi, 0},
	G:          {"acceleration", 1, 0},
	MPS2:       {"acceleration", 1 / 9.80665, 0},
	Celsius:    {"temperature", 1, 0},
	Fahrenheit: {"temperature", 5.0 / 9.0, -160.0 / 9.0},
	Kelvin:     {"temperature", 1, -273.15},
	CPS:        {"count-rate", 1, 0},
	Counts:     {"count", 1, 0},
	Volts:      {"voltage", 1, 0},
	Millivolts: {"voltage", 0.001, 0},
	MilliAmps:  {"current", 1, 0},
	Amps:       {"current", 1000, 0},
	Gauss:      {"magnetic", 1, 0},
	MicroTesla: {"magnetic", 0.01, 0},
	RPM:        {"rotation", 1, 0},
	MPS:        {"speed", 1, 0},
	MPH:        {"speed", 1 / 2.2369362920544, 0},
	KMPH:       {"speed", 1 / 3.6, 0},
	KPH:        {"speed", 1 / 3.6, 0},
}

// IsValid reports whether unit is one this package can convert.
func IsValid(unit string) bool {
	_, ok := table[unit]
	return ok
}

// Compatible returns every unit sharing unit's dimension, sorted, including unit itself.
func Compatible(unit string) []string {
	l, ok := table[unit]
	if !ok {
		return nil
	}
	var out []string
	for name, other := range table {
		if other.dimension == l.dimension {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Convert converts v from one unit to another of the same dimension.
func Convert(v float64, from, to string) (float64, error) {
	if from == to {
		return v, nil
	}
	f, ok := table[from]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", from)
	}
	t, ok := table[to]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q", to)
	}
	if f.dimension != t.dimension {
		return 0, fmt.Errorf("cannot convert %s (%s) to %s (%s)", from, f.dimension, to, t.dimension)
	}
	base := v*f.scale + f.offset
	return (base - t.offset) / t.scale, nil
}

// ConvertSlice converts every value of vs in place. Nothing is written when
// the units are incompatible.
func ConvertSlice(vs []float64, from, to string) error {
	if _, err := Convert(0, from, to); err != nil {
		return err
	}
	for i, v := range vs {
		vs[i], _ = Convert(v, from, to)
	}
	return nil
}

// Infer guesses the unit of a column from its name. Unknown names map to Unitless.
func Infer(columnName string) string {
	lower := strings.ToLower(columnName)
	has := func(keys ...string) bool {
		for _, k := range keys {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}

	switch {
	case has("inc", "azi", "tool-face", "angle"):
		return Degrees
	case has("vibe", "accel", "shock", "gx", "gy", "gz", "grav"):
		return G
	case has("temp"):
		return Celsius
	case has("gamma"):
		return CPS
	case has("pulse", "flow"):
		return Counts
	case has("1v8", "5v", "3v3", "bat", "bus"):
		return Volts
	case has("current"):
		return MilliAmps
	case has("mag", "mx", "my", "mz"):
		return Gauss
	case has("rpm"):
		return RPM
	default:
		return Unitless
	}
}
