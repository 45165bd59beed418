package series

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gpuplot/internal/units"
)

func TestNew_FiltersNonFinite(t *testing.T) {
	nan := math.NaN()
	s := New("temp", []float64{0, 1, 2, nan, 4}, []float64{10, math.Inf(1), 12, 13, 14}, units.Celsius)

	assert.Equal(t, []float64{0, 2, 4}, s.X)
	assert.Equal(t, []float64{10, 12, 14}, s.Y)
	assert.Equal(t, 2, s.Dropped())
	assert.False(t, s.HasZ())
	assert.True(t, s.Visible)
	assert.Equal(t, StyleLine, s.Style)

	_, err := uuid.Parse(s.ID)
	assert.NoError(t, err)
}

func TestNew_UnequalLengthsTruncate(t *testing.T) {
	s := New("a", []float64{1, 2, 3}, []float64{4, 5}, "")
	assert.Equal(t, 2, s.Len())
}

func TestNew3D(t *testing.T) {
	s := New3D("xyz", []float64{0, 1, 2}, []float64{0, 1, 2}, []float64{5, math.NaN(), 7}, "")
	require.True(t, s.HasZ())
	assert.Equal(t, []float64{5, 7}, s.Z)
	assert.Equal(t, len(s.X), len(s.Z))
}

func TestNew_UniqueIDs(t *testing.T) {
	a := New("a", nil, nil, "")
	b := New("b", nil, nil, "")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAppend(t *testing.T) {
	s := New("a", []float64{0}, []float64{0}, "")
	assert.True(t, s.Append(1, 1))
	assert.False(t, s.Append(2, math.NaN()))
	assert.Equal(t, 2, s.Len())
}

func TestRanges(t *testing.T) {
	s := New("a", []float64{3, 1, 2}, []float64{-1, 5, 0}, "")

	lo, hi, ok := s.XRange()
	require.True(t, ok)
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 3.0, hi)

	lo, hi, ok = s.YRangeWithin(1.5, 3)
	require.True(t, ok)
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 0.0, hi)

	_, _, ok = s.YRangeWithin(10, 20)
	assert.False(t, ok)

	empty := New("e", nil, nil, "")
	_, _, ok = empty.XRange()
	assert.False(t, ok)
}

func TestDerived_KeepsNaN(t *testing.T) {
	s := Derived("a/b", []float64{0, 1}, []float64{1, math.NaN()}, "")
	assert.Equal(t, 2, s.Len())
	assert.True(t, math.IsNaN(s.Y[1]))
}

func TestConvertUnit(t *testing.T) {
	s := New("t", []float64{0, 1}, []float64{0, 100}, units.Celsius)
	require.NoError(t, s.ConvertUnit(units.Fahrenheit))
	assert.InDelta(t, 32, s.Y[0], 1e-9)
	assert.InDelta(t, 212, s.Y[1], 1e-9)
	assert.Equal(t, units.Fahrenheit, s.Unit)

	assert.Error(t, s.ConvertUnit(units.Volts))
	assert.Equal(t, units.Fahrenheit, s.Unit)
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"line", StyleLine, false},
		{"", StyleLine, false},
		{"step", StyleStep, false},
		{"points", StylePoints, false},
		{"spline", StyleLine, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStyle(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "Points Only", StylePoints.String())
}

func TestPaletteAndTheme(t *testing.T) {
	assert.Equal(t, Palette[0], ColorForIndex(12))
	assert.Equal(t, Color{165, 42, 42, 255}, ColorForIndex(11))
	assert.Equal(t, "#ff0000", ColorForIndex(0).Hex())

	assert.Equal(t, Color{20, 20, 20, 255}, ThemeDark.Background())
	assert.Equal(t, Color{180, 180, 180, 80}, ThemeLight.Grid())
	assert.Equal(t, ThemeLight, ThemeDark.Toggle())
	assert.Equal(t, uint8(30), ThemeDark.Grid().ScaleAlpha(0.5)[3])

	f := Color{255, 0, 51, 255}.Float32()
	assert.InDelta(t, 0.2, f[2], 1e-6)
}
