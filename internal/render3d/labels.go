package render3d

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/gpuplot/internal/camera"
	"github.com/banshee-data/gpuplot/internal/overlay"
	"github.com/banshee-data/gpuplot/internal/series"
	"github.com/banshee-data/gpuplot/internal/view"
)

const (
	tickFont  = 10.0
	labelFont = 12.0
	tickCount = 5
)

var axisAnchors = []struct {
	name string
	pos  r3.Vec
}{
	{"X", r3.Vec{X: 0, Y: -1.15, Z: -1.15}},
	{"Y", r3.Vec{X: -1.15, Y: 0, Z: -1.15}},
	{"Z", r3.Vec{X: -1.15, Y: -1.15, Z: 0}},
}

// Labels projects the axis names and tick values of b through cam onto rect.
// Anchors behind the camera or outside rect are left out.
func Labels(cam *camera.Orbital, rect view.Rect, b Bounds, text series.Color) []overlay.Text {
	if rect.Empty() {
		return nil
	}
	vp := cam.ViewProjection(rect.Width / rect.Height)
	project := func(p r3.Vec) (x, y float64, ok bool) {
		c := vp.Project(p)
		if c[3] <= 0 {
			return 0, 0, false
		}
		x = rect.Left + (c[0]/c[3]*0.5+0.5)*rect.Width
		y = rect.Top + (-c[1]/c[3]*0.5+0.5)*rect.Height
		return x, y, rect.Contains(x, y)
	}

	var out []overlay.Text
	for _, a := range axisAnchors {
		if x, y, ok := project(a.pos); ok {
			out = append(out, overlay.Text{X: x, Y: y, Text: a.name, Align: overlay.CenterCenter, Size: labelFont, Color: text})
		}
	}

	dim := text.ScaleAlpha(0.7)
	for i := 0; i < tickCount; i++ {
		t := float64(i) / (tickCount - 1)
		n := -1 + 2*t
		ticks := []struct {
			pos   r3.Vec
			axis  int
			align overlay.Align
		}{
			{r3.Vec{X: n, Y: -1, Z: -1.2}, 0, overlay.CenterTop},
			{r3.Vec{X: -1.2, Y: n, Z: -1}, 1, overlay.RightCenter},
			{r3.Vec{X: -1.2, Y: -1, Z: n}, 2, overlay.RightCenter},
		}
		for _, tk := range ticks {
			if x, y, ok := project(tk.pos); ok {
				out = append(out, overlay.Text{
					X: x, Y: y, Text: view.FormatTick(b.At(tk.axis, t)),
					Align: tk.align, Size: tickFont, Color: dim,
				})
			}
		}
	}
	return out
}
