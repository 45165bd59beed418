// Package graph groups the series of one plot with its per-plot interaction
// state, and keeps the workspace of plots and their sync links.
package graph

import (
	"fmt"

	"github.com/banshee-data/gpuplot/internal/camera"
	"github.com/banshee-data/gpuplot/internal/series"
	"github.com/banshee-data/gpuplot/internal/view"
)

// Mode selects 2D or 3D rendering for a graph.
type Mode int

const (
	Mode2D Mode = iota
	Mode3D
)

func (m Mode) String() string {
	if m == Mode3D {
		return "3d"
	}
	return "2d"
}

// Axis is the y axis shared by every series of one unit.
type Axis struct {
	Unit  string `json:"unit"`
	Label string `json:"label"`
}

// Graph is one plot panel.
type Graph struct {
	ID          int              `json:"id"`
	Title       string           `json:"title"`
	Series      []*series.Series `json:"series"`
	Axes        []Axis           `json:"axes"`
	XName       string           `json:"x_name,omitempty"`
	XUnit       string           `json:"x_unit,omitempty"`
	XIsDateTime bool             `json:"x_is_datetime"`
	AutoScaleY  bool             `json:"auto_scale_y"`
	Mode        Mode             `json:"mode"`

	View    *view.State     `json:"-"`
	Camera  *camera.Orbital `json:"-"`
	Cursors view.Cursors    `json:"-"`

	added int
}

// New returns an empty 2D graph with auto-scaled y.
func New(id int, title string) *Graph {
	return &Graph{
		ID:         id,
		Title:      title,
		AutoScaleY: true,
		View:       view.NewState(),
		Camera:     camera.NewOrbital(),
	}
}

// AddSeries appends s. A series without a colour takes the next palette
// entry; palette positions are not reused after removals.
func (g *Graph) AddSeries(s *series.Series) {
	if s.Color.IsZero() {
		s.Color = series.ColorForIndex(g.added)
	}
	g.added++
	if _, ok := g.axis(s.Unit); !ok {
		g.Axes = append(g.Axes, Axis{Unit: s.Unit, Label: "Y Axis (" + s.Unit + ")"})
	}
	g.Series = append(g.Series, s)
}

// RemoveSeries drops the series with the given id and its unit axis when no
// other series uses that unit. It reports whether a series was removed.
func (g *Graph) RemoveSeries(id string) bool {
	for i, s := range g.Series {
		if s.ID != id {
			continue
		}
		g.Series = append(g.Series[:i], g.Series[i+1:]...)
		g.dropAxis(s.Unit)
		return true
	}
	return false
}

// ConvertSeries rescales a series to another unit of the same dimension and
// moves it onto that unit's axis.
func (g *Graph) ConvertSeries(id, to string) error {
	s, ok := g.Find(id)
	if !ok {
		return fmt.Errorf("series %q not found in graph %d", id, g.ID)
	}
	from := s.Unit
	if from == to {
		return nil
	}
	if err := s.ConvertUnit(to); err != nil {
		return err
	}
	if _, ok := g.axis(to); !ok {
		g.Axes = append(g.Axes, Axis{Unit: to, Label: "Y Axis (" + to + ")"})
	}
	g.dropAxis(from)
	return nil
}

// dropAxis removes the axis of unit once no series uses it.
func (g *Graph) dropAxis(unit string) {
	if g.usesUnit(unit) {
		return
	}
	if j, ok := g.axis(unit); ok {
		g.Axes = append(g.Axes[:j], g.Axes[j+1:]...)
	}
}

// Find returns the series with the given id.
func (g *Graph) Find(id string) (*series.Series, bool) {
	for _, s := range g.Series {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Visible returns the visible series in paint order.
func (g *Graph) Visible() []*series.Series {
	out := make([]*series.Series, 0, len(g.Series))
	for _, s := range g.Series {
		if s.Visible {
			out = append(out, s)
		}
	}
	return out
}

// Units returns the distinct units of the visible series in order of first
// appearance.
func (g *Graph) Units() []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range g.Series {
		if s.Visible && !seen[s.Unit] {
			seen[s.Unit] = true
			out = append(out, s.Unit)
		}
	}
	return out
}

// MultiUnit reports whether the visible series carry more than one unit.
func (g *Graph) MultiUnit() bool { return len(g.Units()) > 1 }

// XLabel is the x axis caption.
func (g *Graph) XLabel() string {
	switch {
	case g.XIsDateTime:
		return "Date and Time"
	case g.XName != "" && g.XUnit != "":
		return g.XName + " (" + g.XUnit + ")"
	case g.XName != "":
		return g.XName
	case g.XUnit != "":
		return "X Axis (" + g.XUnit + ")"
	}
	return "X Axis"
}

// AxisLabel returns the y axis caption for unit.
func (g *Graph) AxisLabel(unit string) string {
	if i, ok := g.axis(unit); ok {
		return g.Axes[i].Label
	}
	return unit
}

// PlaceCursor drops a measurement cursor at a click inside plot. Vertical
// cursors record the x value, horizontal ones the y value.
func (g *Graph) PlaceCursor(px, py float64, plot view.Rect) {
	x, y := g.View.ScreenToData(px, py, plot)
	switch g.Cursors.Mode {
	case view.CursorVertical:
		g.Cursors.Place(x)
	case view.CursorHorizontal:
		g.Cursors.Place(y)
	}
}

// ensureState fills transient state after a graph was decoded from JSON.
func (g *Graph) ensureState() {
	if g.View == nil {
		g.View = view.NewState()
	}
	if g.Camera == nil {
		g.Camera = camera.NewOrbital()
	}
	if g.added < len(g.Series) {
		g.added = len(g.Series)
	}
}

func (g *Graph) axis(unit string) (int, bool) {
	for i, a := range g.Axes {
		if a.Unit == unit {
			return i, true
		}
	}
	return 0, false
}

func (g *Graph) usesUnit(unit string) bool {
	for _, s := range g.Series {
		if s.Unit == unit {
			return true
		}
	}
	return false
}
