package camera

// Input is the pointer state for one frame over the 3D viewport.
type Input struct {
	// PrimaryDrag is the left-button drag delta in pixels.
	PrimaryDrag [2]float64
	// SecondaryDrag is the right-button drag delta in pixels.
	SecondaryDrag [2]float64
	Scroll        float64
	Hovered       bool
	DoubleClick   bool
}

// Sensitivity scales pointer input.
type Sensitivity struct {
	Rotate float64 // radians per pixel
	Zoom   float64 // distance factor per scroll unit
}

// DefaultSensitivity matches the render defaults.
var DefaultSensitivity = Sensitivity{Rotate: 0.005, Zoom: 0.001}

// HandleInput applies one frame of input: left drag rotates, right drag
// pans, scroll zooms while hovered and a double click resets.
func (c *Orbital) HandleInput(in Input, s Sensitivity) {
	if in.PrimaryDrag != [2]float64{} {
		c.Rotate(-in.PrimaryDrag[0]*s.Rotate, -in.PrimaryDrag[1]*s.Rotate)
	}
	if in.SecondaryDrag != [2]float64{} {
		c.Pan(in.SecondaryDrag[0], in.SecondaryDrag[1])
	}
	if in.Hovered && in.Scroll != 0 {
		c.Zoom(clamp(1-in.Scroll*s.Zoom, 0.5, 2))
	}
	if in.DoubleClick {
		c.Reset()
	}
}
