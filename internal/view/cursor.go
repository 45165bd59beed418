package view

// CursorMode selects which axis measurement cursors mark.
type CursorMode int

const (
	CursorOff CursorMode = iota
	CursorVertical
	CursorHorizontal
)

func (m CursorMode) String() string {
	switch m {
	case CursorVertical:
		return "Vertical"
	case CursorHorizontal:
		return "Horizontal"
	}
	return "Off"
}

// Cursors holds up to two measurement positions on one axis.
type Cursors struct {
	Mode   CursorMode
	C1, C2 float64
	Has1   bool
	Has2   bool
}

// SetMode switches mode and clears any placed cursors.
func (c *Cursors) SetMode(m CursorMode) {
	*c = Cursors{Mode: m}
}

// Place records a click at data value v: first cursor, then second, then
// restarting from the first.
func (c *Cursors) Place(v float64) {
	switch {
	case c.Mode == CursorOff:
		return
	case !c.Has1:
		c.C1, c.Has1 = v, true
	case !c.Has2:
		c.C2, c.Has2 = v, true
	default:
		c.C1, c.Has1 = v, true
		c.C2, c.Has2 = 0, false
	}
}

// Delta returns C2 - C1 when both cursors are placed.
func (c *Cursors) Delta() (float64, bool) {
	if !c.Has1 || !c.Has2 {
		return 0, false
	}
	return c.C2 - c.C1, true
}
