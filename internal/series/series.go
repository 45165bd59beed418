// Package series holds the plotted data model: finite x/y(/z) columns with
// their presentation attributes.
package series

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/banshee-data/gpuplot/internal/units"
)

// Style selects how a series is drawn.
type Style int

const (
	StyleLine Style = iota
	StyleStep
	StylePoints
)

// String returns the display label of the style.
func (s Style) String() string {
	switch s {
	case StyleLine:
		return "Linear"
	case StyleStep:
		return "Step"
	case StylePoints:
		return "Points Only"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// ParseStyle accepts "line", "step" or "points".
func ParseStyle(s string) (Style, error) {
	switch s {
	case "line", "linear", "":
		return StyleLine, nil
	case "step":
		return StyleStep, nil
	case "points", "scatter":
		return StylePoints, nil
	}
	return StyleLine, fmt.Errorf("unknown draw style %q", s)
}

// Series is one plotted column pair (or triple). X, Y and Z have equal
// length when Z is present and contain only finite values after
// construction.
type Series struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	X           []float64 `json:"x"`
	Y           []float64 `json:"y"`
	Z           []float64 `json:"z,omitempty"`
	Color       Color     `json:"color"`
	Unit        string    `json:"unit"`
	Style       Style     `json:"style"`
	ShowMarkers bool      `json:"show_markers"`
	Visible     bool      `json:"visible"`
	LineWidth   float32   `json:"line_width"`

	dropped int
}

// New builds a 2D series, discarding rows where x or y is not finite.
func New(label string, x, y []float64, unit string) *Series {
	return New3D(label, x, y, nil, unit)
}

// New3D builds a series with an optional z column. A nil or empty z yields a
// 2D series; otherwise rows with a non-finite z are discarded as well.
func New3D(label string, x, y, z []float64, unit string) *Series {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	hasZ := len(z) > 0
	if hasZ && len(z) < n {
		n = len(z)
	}

	s := &Series{
		ID:          uuid.NewString(),
		Label:       label,
		X:           make([]float64, 0, n),
		Y:           make([]float64, 0, n),
		Unit:        unit,
		Style:       StyleLine,
		ShowMarkers: true,
		Visible:     true,
		LineWidth:   2,
	}
	if hasZ {
		s.Z = make([]float64, 0, n)
	}
	for i := 0; i < n; i++ {
		if !finite(x[i]) || !finite(y[i]) || (hasZ && !finite(z[i])) {
			s.dropped++
			continue
		}
		s.X = append(s.X, x[i])
		s.Y = append(s.Y, y[i])
		if hasZ {
			s.Z = append(s.Z, z[i])
		}
	}
	return s
}

// Derived wraps already-computed columns without filtering. Math results may
// carry NaN y values; the render path filters those at draw time.
func Derived(label string, x, y []float64, unit string) *Series {
	s := New(label, nil, nil, unit)
	s.X = x
	s.Y = y
	return s
}

// Dropped returns how many input rows were discarded for being non-finite.
func (s *Series) Dropped() int { return s.dropped }

// Len returns the number of points.
func (s *Series) Len() int { return len(s.X) }

// HasZ reports whether the series carries a z column.
func (s *Series) HasZ() bool { return len(s.Z) > 0 }

// Append adds one point when it is finite and reports whether it was kept.
func (s *Series) Append(x, y float64) bool {
	if !finite(x) || !finite(y) || s.HasZ() {
		return false
	}
	s.X = append(s.X, x)
	s.Y = append(s.Y, y)
	return true
}

// XRange returns the finite x extent.
func (s *Series) XRange() (lo, hi float64, ok bool) {
	return extent(s.X)
}

// YRange returns the finite y extent.
func (s *Series) YRange() (lo, hi float64, ok bool) {
	return extent(s.Y)
}

// YRangeWithin returns the finite y extent of points whose x lies in [xmin, xmax].
func (s *Series) YRangeWithin(xmin, xmax float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i, x := range s.X {
		if x < xmin || x > xmax || !finite(s.Y[i]) {
			continue
		}
		lo = math.Min(lo, s.Y[i])
		hi = math.Max(hi, s.Y[i])
	}
	return lo, hi, lo <= hi
}

// ConvertUnit rewrites Y in place into unit to.
func (s *Series) ConvertUnit(to string) error {
	if s.Unit == to {
		return nil
	}
	if err := units.ConvertSlice(s.Y, s.Unit, to); err != nil {
		return fmt.Errorf("convert %q: %w", s.Label, err)
	}
	s.Unit = to
	return nil
}

func extent(vs []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		if !finite(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, lo <= hi
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
