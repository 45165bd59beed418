package overlay

import (
	"math"

	"github.com/banshee-data/gpuplot/internal/series"
)

const (
	legendFont = 11.0
	legendRow  = 16.0
)

// LegendEntry is one swatch and label.
type LegendEntry struct {
	Label string
	Color series.Color
}

// AddLegend stacks entries in a rounded box whose top right corner sits
// 8px inside (right, top). Nothing is added for an empty list.
func (l *Layer) AddLegend(entries []LegendEntry, right, top float64, bg, text series.Color) {
	if len(entries) == 0 {
		return
	}
	var widest float64
	for _, e := range entries {
		widest = math.Max(widest, TextWidth(e.Label, legendFont))
	}
	w := widest + 24
	x := right - 8
	y := top + 8

	l.AddRect(Rect{
		Left: x - w - 4, Top: y - 4, Width: w + 8, Height: float64(len(entries))*legendRow + 8,
		Radius: 4, Fill: bg.ScaleAlpha(0.85), Stroke: text.ScaleAlpha(0.3), StrokeWidth: 0.5,
	})
	for _, e := range entries {
		l.AddRect(Rect{Left: x - w, Top: y, Width: 12, Height: 12, Radius: 2, Fill: e.Color})
		l.AddText(Text{
			X: x - w + 16, Y: y + 6, Text: e.Label,
			Align: LeftCenter, Size: legendFont, Color: text,
		})
		y += legendRow
	}
}
