package units

import (
	"math"
	"testing"
)

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid mps", MPS, true},
		{"valid celsius", Celsius, true},
		{"valid gauss", Gauss, true},
		{"unitless is not convertible", Unitless, false},
		{"invalid unit", "invalid", false},
		{"empty unit", "", false},
		{"uppercase MPS", "MPS", false}, // Case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValid(tt.unit)
			if result != tt.expected {
				t.Errorf("IsValid(%s) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		from, to string
		expected float64
	}{
		{"same unit", 12.5, Volts, Volts, 12.5},
		{"1 m/s to mph", 1.0, MPS, MPH, 2.23694},
		{"5 m/s to kmph", 5.0, MPS, KMPH, 18.0},
		{"kph equals kmph", 36.0, KPH, KMPH, 36.0},
		{"freezing to fahrenheit", 0, Celsius, Fahrenheit, 32},
		{"boiling to fahrenheit", 100, Celsius, Fahrenheit, 212},
		{"fahrenheit to kelvin", 32, Fahrenheit, Kelvin, 273.15},
		{"kelvin to celsius", 0, Kelvin, Celsius, -273.15},
		{"pi radians to degrees", math.Pi, Radians, Degrees, 180},
		{"one g to m/s²", 1, G, MPS2, 9.80665},
		{"millivolts to volts", 3300, Millivolts, Volts, 3.3},
		{"amps to milliamps", 0.25, Amps, MilliAmps, 250},
		{"microtesla to gauss", 50, MicroTesla, Gauss, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Convert(tt.value, tt.from, tt.to)
			if err != nil {
				t.Fatalf("Convert(%f, %s, %s) unexpected error: %v", tt.value, tt.from, tt.to, err)
			}
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("Convert(%f, %s, %s) = %f, want %f", tt.value, tt.from, tt.to, result, tt.expected)
			}
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
	}{
		{"unknown source", "furlongs", Volts},
		{"unknown target", Volts, "furlongs"},
		{"different dimensions", Celsius, Volts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Convert(1, tt.from, tt.to); err == nil {
				t.Errorf("Convert(1, %s, %s) expected error", tt.from, tt.to)
			}
		})
	}
}

func TestConvertSlice(t *testing.T) {
	vs := []float64{0, 100}
	if err := ConvertSlice(vs, Celsius, Fahrenheit); err != nil {
		t.Fatalf("ConvertSlice: %v", err)
	}
	if math.Abs(vs[0]-32) > 1e-9 || math.Abs(vs[1]-212) > 1e-9 {
		t.Errorf("ConvertSlice = %v, want [32 212]", vs)
	}

	untouched := []float64{1, 2}
	if err := ConvertSlice(untouched, Celsius, Volts); err == nil {
		t.Error("expected error for incompatible units")
	}
	if untouched[0] != 1 || untouched[1] != 2 {
		t.Errorf("incompatible conversion modified input: %v", untouched)
	}
}

func TestConvert_Speed(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		to   string
		want float64
	}{
		{"1 m/s to mps", 1.0, MPS, 1.0},
		{"1 m/s to mph", 1.0, MPH, 2.23694},
		{"1 m/s to kph", 1.0, KPH, 3.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.v, MPS, tt.to)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("Convert(%f, mps, %s) = %f, want %f", tt.v, tt.to, got, tt.want)
			}
		})
	}
	if _, err := Convert(7, MPS, "invalid"); err == nil {
		t.Error("expected error for unknown unit")
	}
}

func TestCompatible(t *testing.T) {
	got := Compatible(Celsius)
	want := []string{Kelvin, Celsius, Fahrenheit}
	if len(got) != len(want) {
		t.Fatalf("Compatible(%s) = %v, want %d entries", Celsius, got, len(want))
	}
	seen := map[string]bool{}
	for _, u := range got {
		seen[u] = true
	}
	for _, u := range want {
		if !seen[u] {
			t.Errorf("Compatible(%s) missing %s", Celsius, u)
		}
	}
	if Compatible("nope") != nil {
		t.Error("Compatible of unknown unit should be nil")
	}
}

func TestInfer(t *testing.T) {
	tests := []struct {
		column string
		want   string
	}{
		{"Inclination", Degrees},
		{"Azimuth", Degrees},
		{"AccelX", G},
		{"Board Temp", Celsius},
		{"Gamma", CPS},
		{"FlowPulses", Counts},
		{"Bus Voltage", Volts},
		{"Motor Current", MilliAmps},
		{"Mag X", Gauss},
		{"Motor RPM", RPM},
		{"Depth", Unitless},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			if got := Infer(tt.column); got != tt.want {
				t.Errorf("Infer(%q) = %q, want %q", tt.column, got, tt.want)
			}
		})
	}
}
