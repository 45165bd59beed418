// Package overlay collects the text and vector shapes drawn over a plot by
// the host's 2D painter: axis labels, legend, cursors and tooltips.
package overlay

import (
	"strings"

	"github.com/banshee-data/gpuplot/internal/series"
)

// Align is where a text anchor sits on its label box.
type Align int

const (
	LeftTop Align = iota
	LeftCenter
	LeftBottom
	CenterTop
	CenterBottom
	RightCenter
	CenterCenter
)

// Text is a single-line label.
type Text struct {
	X, Y  float64
	Text  string
	Align Align
	Size  float64
	Color series.Color
}

// Line is a stroked segment.
type Line struct {
	X0, Y0, X1, Y1 float64
	Width          float64
	Color          series.Color
}

// Rect is an axis-aligned box; a zero Fill or Stroke is not drawn.
type Rect struct {
	Left, Top, Width, Height float64
	Radius                   float64
	Fill                     series.Color
	Stroke                   series.Color
	StrokeWidth              float64
}

// Circle is a filled disc with an optional outline.
type Circle struct {
	X, Y, R float64
	Fill    series.Color
	Stroke  series.Color
}

// Layer is the ordered list of overlay shapes for one frame. Shapes are
// drawn in insertion order regardless of kind.
type Layer struct {
	items []interface{}
}

func (l *Layer) AddText(t Text)     { l.items = append(l.items, t) }
func (l *Layer) AddLine(v Line)     { l.items = append(l.items, v) }
func (l *Layer) AddRect(r Rect)     { l.items = append(l.items, r) }
func (l *Layer) AddCircle(c Circle) { l.items = append(l.items, c) }

// Len returns the number of shapes.
func (l *Layer) Len() int { return len(l.items) }

// Items returns the shapes in draw order. Each element is a Text, Line,
// Rect or Circle value.
func (l *Layer) Items() []interface{} { return l.items }

// Texts returns only the labels.
func (l *Layer) Texts() []Text {
	var out []Text
	for _, it := range l.items {
		if t, ok := it.(Text); ok {
			out = append(out, t)
		}
	}
	return out
}

// Lines returns only the segments.
func (l *Layer) Lines() []Line {
	var out []Line
	for _, it := range l.items {
		if v, ok := it.(Line); ok {
			out = append(out, v)
		}
	}
	return out
}

// FindText returns the first label starting with prefix.
func (l *Layer) FindText(prefix string) (Text, bool) {
	for _, t := range l.Texts() {
		if strings.HasPrefix(t.Text, prefix) {
			return t, true
		}
	}
	return Text{}, false
}

// TextWidth estimates the rendered width of s at the given font size. The
// host measures real glyphs; this only sizes legend and tooltip boxes.
func TextWidth(s string, size float64) float64 {
	return float64(len([]rune(s))) * size * 0.6
}
