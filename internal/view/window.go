// Package view holds the 2D pan/zoom state of a plot, the data/screen
// transforms and axis grid computation.
package view

import (
	"errors"
	"math"
)

// changeTolerance is the x-window difference below which a window counts as unchanged.
const changeTolerance = 1e-15

// ErrDegenerateWindow is returned for a range with min >= max or non-finite bounds.
var ErrDegenerateWindow = errors.New("degenerate view window")

// Window is a rectangle in data space. Valid windows have XMin < XMax and YMin < YMax.
type Window struct {
	XMin, XMax float64
	YMin, YMax float64
}

// XSpan returns XMax - XMin.
func (w Window) XSpan() float64 { return w.XMax - w.XMin }

// YSpan returns YMax - YMin.
func (w Window) YSpan() float64 { return w.YMax - w.YMin }

// Valid reports whether both axes have finite, positive extent.
func (w Window) Valid() bool {
	return validRange(w.XMin, w.XMax) && validRange(w.YMin, w.YMax)
}

// Pad widens any zero-width axis by 0.5 on each side.
func (w Window) Pad() Window {
	if !(w.XSpan() > 0) {
		w.XMin -= 0.5
		w.XMax += 0.5
	}
	if !(w.YSpan() > 0) {
		w.YMin -= 0.5
		w.YMax += 0.5
	}
	return w
}

// Rect is a viewport in screen pixels; Top is the smaller y coordinate.
type Rect struct {
	Left, Top, Width, Height float64
}

// Right returns Left + Width.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns Top + Height.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Contains reports whether (x, y) lies inside the rectangle, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right() && y >= r.Top && y <= r.Bottom()
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return !(r.Width > 0 && r.Height > 0) }

func validRange(lo, hi float64) bool {
	return !math.IsNaN(lo) && !math.IsNaN(hi) && !math.IsInf(lo, 0) && !math.IsInf(hi, 0) && lo < hi
}

// padded returns [lo, hi] widened by 5% of its span, or by 0.5 when the
// span is effectively zero.
func padded(lo, hi float64) (float64, float64) {
	pad := (hi - lo) * 0.05
	if math.Abs(pad) < changeTolerance {
		pad = 0.5
	}
	return lo - pad, hi + pad
}
