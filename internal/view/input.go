package view

// Input is the pointer state for one frame over a 2D plot.
type Input struct {
	// Drag is the primary-button drag delta in pixels.
	Drag        [2]float64
	Scroll      float64
	Pointer     [2]float64
	Hovered     bool
	DoubleClick bool
}

// HandleInput applies one frame of input: drag pans, scroll zooms about the
// pointer while hovered and a double click requests a fit.
func (s *State) HandleInput(in Input, r Rect, zoomSensitivity float64) {
	if in.Drag != [2]float64{} {
		s.Pan(in.Drag[0], in.Drag[1], r)
	}
	if in.Hovered && in.Scroll != 0 {
		s.Zoom(in.Scroll, in.Pointer[0], in.Pointer[1], r, zoomSensitivity)
	}
	if in.DoubleClick {
		s.RequestFit()
	}
}
