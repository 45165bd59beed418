package view

import (
	"fmt"
	"math"

	"github.com/banshee-data/gpuplot/internal/series"
)

// State is the pan/zoom state of one 2D plot.
type State struct {
	Window

	// AutoFit asks the next frame to fit the window to the data. The frame
	// builder clears it once the fit is done.
	AutoFit bool
	// Initialized is set by the first successful fit.
	Initialized bool

	prevXMin, prevXMax float64
}

// NewState returns a state over [0,1]x[0,1] with auto-fit enabled.
func NewState() *State {
	return &State{
		Window:   Window{XMin: 0, XMax: 1, YMin: 0, YMax: 1},
		AutoFit:  true,
		prevXMin: 0,
		prevXMax: 1,
	}
}

// XRangeChanged reports whether the x window moved since the last SnapshotX.
func (s *State) XRangeChanged() bool {
	return math.Abs(s.XMin-s.prevXMin) > changeTolerance ||
		math.Abs(s.XMax-s.prevXMax) > changeTolerance
}

// SnapshotX records the current x window for the next XRangeChanged.
func (s *State) SnapshotX() {
	s.prevXMin = s.XMin
	s.prevXMax = s.XMax
}

// SetXRange replaces the x window. A degenerate or non-finite range is
// rejected and leaves the state untouched.
func (s *State) SetXRange(lo, hi float64) error {
	if !validRange(lo, hi) {
		return fmt.Errorf("%w: x [%g, %g]", ErrDegenerateWindow, lo, hi)
	}
	s.XMin, s.XMax = lo, hi
	return nil
}

// SetYRange replaces the y window with the same validation as SetXRange.
func (s *State) SetYRange(lo, hi float64) error {
	if !validRange(lo, hi) {
		return fmt.Errorf("%w: y [%g, %g]", ErrDegenerateWindow, lo, hi)
	}
	s.YMin, s.YMax = lo, hi
	return nil
}

// Pan shifts the window by a drag of (dxPx, dyPx) screen pixels. Screen y
// grows downward, so dragging down moves the window up in data space.
func (s *State) Pan(dxPx, dyPx float64, r Rect) {
	if r.Empty() {
		return
	}
	dx := -dxPx * s.XSpan() / r.Width
	dy := dyPx * s.YSpan() / r.Height
	s.XMin += dx
	s.XMax += dx
	s.YMin += dy
	s.YMax += dy
	s.AutoFit = false
}

// Zoom scales the window around the cursor for a scroll of the given amount.
// Positive scroll zooms in. The factor is clamped to [0.5, 2].
func (s *State) Zoom(scroll, cursorX, cursorY float64, r Rect, sensitivity float64) {
	if r.Empty() || scroll == 0 {
		return
	}
	ax, ay := s.ScreenToData(cursorX, cursorY, r)
	s.ZoomAt(1-scroll*sensitivity, ax, ay)
}

// ZoomAt scales the window by factor about the data point (ax, ay); the
// anchor keeps its position. factor is clamped to [0.5, 2].
func (s *State) ZoomAt(factor, ax, ay float64) {
	factor = math.Max(0.5, math.Min(2.0, factor))
	s.XMin = ax + (s.XMin-ax)*factor
	s.XMax = ax + (s.XMax-ax)*factor
	s.YMin = ay + (s.YMin-ay)*factor
	s.YMax = ay + (s.YMax-ay)*factor
	s.AutoFit = false
}

// RequestFit re-enables auto-fit, as a double click does.
func (s *State) RequestFit() { s.AutoFit = true }

// FitToData fits the window to every visible series with 5% padding.
// It reports false, leaving the window alone, when there is no finite data.
func (s *State) FitToData(list []*series.Series) bool {
	xlo, xhi, ylo, yhi := bounds(list)
	if !(xlo <= xhi && ylo <= yhi) {
		return false
	}
	s.XMin, s.XMax = padded(xlo, xhi)
	s.YMin, s.YMax = padded(ylo, yhi)
	s.Initialized = true
	return true
}

// FitToDataNormalized fits x like FitToData and pins y to [-0.05, 1.05] for
// multi-unit plots whose y values are already normalised.
func (s *State) FitToDataNormalized(list []*series.Series) bool {
	xlo, xhi, _, _ := bounds(list)
	if !(xlo <= xhi) {
		return false
	}
	s.XMin, s.XMax = padded(xlo, xhi)
	s.AutoScaleYNormalized()
	s.Initialized = true
	return true
}

// AutoScaleYToVisible fits y to the visible series' points inside the current
// x window. Nothing changes when no finite point is in view.
func (s *State) AutoScaleYToVisible(list []*series.Series) bool {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, sr := range list {
		if !sr.Visible {
			continue
		}
		if a, b, ok := sr.YRangeWithin(s.XMin, s.XMax); ok {
			lo = math.Min(lo, a)
			hi = math.Max(hi, b)
		}
	}
	if !(lo <= hi) {
		return false
	}
	s.YMin, s.YMax = padded(lo, hi)
	return true
}

// AutoScaleYNormalized pins y to [-0.05, 1.05].
func (s *State) AutoScaleYNormalized() {
	s.YMin, s.YMax = -0.05, 1.05
}

// ScreenToData maps a screen position inside r to data coordinates.
func (s *State) ScreenToData(px, py float64, r Rect) (x, y float64) {
	tx := (px - r.Left) / r.Width
	ty := 1 - (py-r.Top)/r.Height
	return s.XMin + tx*s.XSpan(), s.YMin + ty*s.YSpan()
}

// DataToScreen maps data coordinates to a screen position inside r.
func (s *State) DataToScreen(x, y float64, r Rect) (px, py float64) {
	tx := (x - s.XMin) / s.XSpan()
	ty := 1 - (y-s.YMin)/s.YSpan()
	return r.Left + tx*r.Width, r.Top + ty*r.Height
}

// Origin is the precision offset subtracted from coordinates before they are
// narrowed to float32 for the GPU.
func (s *State) Origin() (x, y float64) { return s.XMin, s.YMin }

// Relative32 returns (x, y) relative to Origin as float32.
func (s *State) Relative32(x, y float64) (float32, float32) {
	return float32(x - s.XMin), float32(y - s.YMin)
}

func bounds(list []*series.Series) (xlo, xhi, ylo, yhi float64) {
	xlo, ylo = math.Inf(1), math.Inf(1)
	xhi, yhi = math.Inf(-1), math.Inf(-1)
	for _, sr := range list {
		if !sr.Visible || sr.Len() == 0 {
			continue
		}
		if a, b, ok := sr.XRange(); ok {
			xlo, xhi = math.Min(xlo, a), math.Max(xhi, b)
		}
		if a, b, ok := sr.YRange(); ok {
			ylo, yhi = math.Min(ylo, a), math.Max(yhi, b)
		}
	}
	return xlo, xhi, ylo, yhi
}
