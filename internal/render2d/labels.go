package render2d

import (
	"fmt"
	"math"
	"strings"

	"github.com/banshee-data/gpuplot/internal/overlay"
	"github.com/banshee-data/gpuplot/internal/series"
	"github.com/banshee-data/gpuplot/internal/view"
)

const (
	tickFont   = 10.0
	labelFont  = 12.0
	legendFont = 11.0
	legendRow  = 16.0
)

var (
	cursorColor = series.Color{255, 200, 0, 255}
	white       = series.Color{255, 255, 255, 255}
)

// axes adds the plot border, tick labels and axis captions.
func (f *frame) axes(l *overlay.Layer) {
	v := f.g.View
	text := f.theme.Text()
	dim := text.ScaleAlpha(0.6)

	l.AddRect(overlay.Rect{
		Left: f.plot.Left, Top: f.plot.Top, Width: f.plot.Width, Height: f.plot.Height,
		Stroke: dim, StrokeWidth: 1,
	})

	for _, x := range view.MajorLines(v.XMin, v.XMax) {
		sx, _ := v.DataToScreen(x, v.YMin, f.plot)
		if sx < f.plot.Left || sx > f.plot.Right() {
			continue
		}
		l.AddText(overlay.Text{
			X: sx, Y: f.plot.Bottom() + 4, Text: f.xValue(x),
			Align: overlay.CenterTop, Size: tickFont, Color: dim,
		})
	}

	l.AddText(overlay.Text{
		X: f.plot.Left + f.plot.Width/2, Y: f.plot.Bottom() + marginBottom - 4, Text: f.g.XLabel(),
		Align: overlay.CenterBottom, Size: labelFont, Color: text,
	})

	yTicks := view.MajorLines(v.YMin, v.YMax)
	if !f.multi {
		for _, y := range yTicks {
			if sy, ok := f.tickY(y); ok {
				l.AddText(overlay.Text{
					X: f.plot.Left - 4, Y: sy, Text: view.FormatTick(y),
					Align: overlay.RightCenter, Size: tickFont, Color: dim,
				})
			}
		}
		caption := "Y Axis"
		if len(f.units) == 1 {
			caption = f.g.AxisLabel(f.units[0])
		}
		l.AddText(overlay.Text{
			X: f.plot.Left - marginLeft + 2, Y: f.plot.Top + f.plot.Height/2, Text: caption,
			Align: overlay.LeftCenter, Size: legendFont, Color: text,
		})
		return
	}

	// One tick column per unit: the first on the left, the rest stacked to
	// the right of the plot.
	for i, r := range f.ranges {
		col := f.plot.Right() + 4 + float64(i-1)*unitColumn
		for _, y := range yTicks {
			sy, ok := f.tickY(y)
			if !ok {
				continue
			}
			t := overlay.Text{Y: sy, Text: view.FormatTick(r.Denormalize(y)), Size: tickFont, Color: dim}
			if i == 0 {
				t.X, t.Align = f.plot.Left-4, overlay.RightCenter
			} else {
				t.X, t.Align = col, overlay.LeftCenter
			}
			l.AddText(t)
		}
		caption := overlay.Text{
			Y: f.plot.Top + f.plot.Height/2, Text: "Y (" + r.Unit + ")",
			Align: overlay.LeftCenter, Size: legendFont, Color: text,
		}
		if i == 0 {
			caption.X = f.plot.Left - marginLeft + 2
		} else {
			caption.X = col + 50
		}
		l.AddText(caption)
	}
}

// legend adds a swatch and label per visible series in the top right corner.
func (f *frame) legend(l *overlay.Layer) {
	vis := f.g.Visible()
	entries := make([]overlay.LegendEntry, len(vis))
	for i, s := range vis {
		entries[i] = overlay.LegendEntry{Label: s.Label, Color: s.Color}
	}
	l.AddLegend(entries, f.plot.Right(), f.plot.Top, f.theme.Background(), f.theme.Text())
}

// cursors adds the measurement lines, their readouts and the delta.
func (f *frame) cursors(l *overlay.Layer) {
	c := f.g.Cursors
	v := f.g.View
	text := f.theme.Text()

	switch c.Mode {
	case view.CursorVertical:
		for i, x := range []float64{c.C1, c.C2} {
			if (i == 0 && !c.Has1) || (i == 1 && !c.Has2) {
				continue
			}
			sx, _ := v.DataToScreen(x, v.YMin, f.plot)
			if sx < f.plot.Left || sx > f.plot.Right() {
				continue
			}
			l.AddLine(overlay.Line{X0: sx, Y0: f.plot.Top, X1: sx, Y1: f.plot.Bottom(), Width: 1.5, Color: cursorColor})
			l.AddText(overlay.Text{
				X: sx + 4, Y: f.plot.Top + 4 + float64(i)*14,
				Text:  fmt.Sprintf("C%d: %s", i+1, f.cursorX(x)),
				Align: overlay.LeftTop, Size: legendFont, Color: cursorColor,
			})
		}
		if d, ok := c.Delta(); ok {
			label := fmt.Sprintf("dX: %.4f", math.Abs(d))
			if f.g.XIsDateTime {
				label = fmt.Sprintf("dX: %.3fs", math.Abs(d))
			}
			l.AddText(overlay.Text{
				X: f.plot.Left + 8, Y: f.plot.Bottom() - 20, Text: label,
				Align: overlay.LeftBottom, Size: legendFont, Color: text,
			})
		}

	case view.CursorHorizontal:
		for i, y := range []float64{c.C1, c.C2} {
			if (i == 0 && !c.Has1) || (i == 1 && !c.Has2) {
				continue
			}
			sy, ok := f.tickY(y)
			if !ok {
				continue
			}
			l.AddLine(overlay.Line{X0: f.plot.Left, Y0: sy, X1: f.plot.Right(), Y1: sy, Width: 1.5, Color: cursorColor})
			t := overlay.Text{
				X: f.plot.Left + 4, Text: fmt.Sprintf("C%d: %s", i+1, f.cursorY(y)),
				Size: legendFont, Color: cursorColor,
			}
			if i == 0 {
				t.Y, t.Align = sy-14, overlay.LeftBottom
			} else {
				t.Y, t.Align = sy+2, overlay.LeftTop
			}
			l.AddText(t)
		}
		d, ok := c.Delta()
		if !ok {
			return
		}
		if !f.multi {
			l.AddText(overlay.Text{
				X: f.plot.Left + 8, Y: f.plot.Bottom() - 20, Text: fmt.Sprintf("dY: %.4f", math.Abs(d)),
				Align: overlay.LeftBottom, Size: legendFont, Color: text,
			})
			return
		}
		y := f.plot.Bottom() - 20
		for _, r := range f.ranges {
			delta := math.Abs(r.Denormalize(c.C2) - r.Denormalize(c.C1))
			l.AddText(overlay.Text{
				X: f.plot.Left + 8, Y: y, Text: fmt.Sprintf("dY (%s): %.4f", r.Unit, delta),
				Align: overlay.LeftBottom, Size: legendFont, Color: text,
			})
			y -= legendRow
		}
	}
}

// tooltip highlights the hovered point and labels it with its real values.
func (f *frame) tooltip(l *overlay.Layer, h *Hit) {
	x := fmt.Sprintf("%.3f", h.X)
	if f.g.XIsDateTime {
		x = view.FormatTimestamp(h.X)
	}
	msg := fmt.Sprintf("%s: X=%s, Y=%.3f", h.Label, x, h.Y)

	l.AddCircle(overlay.Circle{X: h.PX, Y: h.PY, R: 5, Fill: h.Color, Stroke: white})
	w, th := overlay.TextWidth(msg, legendFont), legendFont+2
	tx, ty := h.PX+10, h.PY-th-8
	l.AddRect(overlay.Rect{
		Left: tx - 4, Top: ty - 2, Width: w + 8, Height: th + 4, Radius: 3,
		Fill: f.theme.Background().ScaleAlpha(0.9), Stroke: h.Color, StrokeWidth: 0.5,
	})
	l.AddText(overlay.Text{X: tx, Y: ty, Text: msg, Align: overlay.LeftTop, Size: legendFont, Color: h.Color})
}

func (f *frame) tickY(y float64) (float64, bool) {
	_, sy := f.g.View.DataToScreen(f.g.View.XMin, y, f.plot)
	return sy, sy >= f.plot.Top && sy <= f.plot.Bottom()
}

func (f *frame) xValue(x float64) string {
	if f.g.XIsDateTime {
		return view.FormatTimestamp(x)
	}
	return view.FormatTick(x)
}

func (f *frame) cursorX(x float64) string {
	if f.g.XIsDateTime {
		return view.FormatTimestamp(x)
	}
	return fmt.Sprintf("%.4f", x)
}

func (f *frame) cursorY(y float64) string {
	if !f.multi {
		return fmt.Sprintf("%.4f", y)
	}
	parts := make([]string, len(f.ranges))
	for i, r := range f.ranges {
		parts[i] = fmt.Sprintf("%.4f %s", r.Denormalize(y), r.Unit)
	}
	return strings.Join(parts, "  |  ")
}
