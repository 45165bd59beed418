package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/gpuplot/internal/downsample"
	"github.com/banshee-data/gpuplot/internal/graph"
	"github.com/banshee-data/gpuplot/internal/series"
)

const timeTickFormat = "2006-01-02\n15:04:05"

// WriteImage draws the visible series of g with gonum/plot in format f.
// A graph mixing units is drawn normalized per unit, as on screen.
func WriteImage(w io.Writer, g *graph.Graph, f Format, o Options) error {
	p := newPlot(g, o.Theme)
	ranges := g.UnitRanges()

	drawn := 0
	for _, s := range g.Visible() {
		xys := plotPoints(s, o.MaxPoints, ranges)
		if len(xys) == 0 {
			continue
		}
		var thumbs []plot.Thumbnailer
		if s.Style != series.StylePoints && len(xys) >= 2 {
			l, err := plotter.NewLine(xys)
			if err != nil {
				return fmt.Errorf("series %q: %w", s.Label, err)
			}
			l.Color = s.Color.RGBA()
			l.Width = vg.Points(float64(s.LineWidth))
			if s.Style == series.StyleStep {
				l.StepStyle = plotter.PostStep
			}
			p.Add(l)
			thumbs = append(thumbs, l)
		}
		if s.Style == series.StylePoints || s.ShowMarkers || len(xys) == 1 {
			sc, err := plotter.NewScatter(xys)
			if err != nil {
				return fmt.Errorf("series %q: %w", s.Label, err)
			}
			sc.GlyphStyle.Color = s.Color.RGBA()
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			sc.GlyphStyle.Radius = vg.Points(float64(s.LineWidth) + 0.5)
			if s.Style == series.StylePoints {
				sc.GlyphStyle.Radius = vg.Points(float64(s.LineWidth) + 1)
			}
			p.Add(sc)
			thumbs = append(thumbs, sc)
		}
		p.Legend.Add(s.Label, thumbs...)
		drawn++
	}
	if drawn == 0 {
		return ErrNoSeries
	}

	wt, err := p.WriterTo(o.Width, o.Height, string(f))
	if err != nil {
		return fmt.Errorf("render %s: %w", f, err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write %s: %w", f, err)
	}
	return nil
}

func newPlot(g *graph.Graph, theme series.Theme) *plot.Plot {
	p := plot.New()
	p.Title.Text = g.Title
	p.X.Label.Text = g.XLabel()
	switch units := g.Units(); len(units) {
	case 0:
	case 1:
		p.Y.Label.Text = g.AxisLabel(units[0])
	default:
		p.Y.Label.Text = "Normalized (" + strings.Join(units, ", ") + ")"
	}
	if g.XIsDateTime {
		p.X.Tick.Marker = plot.TimeTicks{Format: timeTickFormat}
	}

	text := theme.Text().RGBA()
	p.BackgroundColor = theme.Background().RGBA()
	p.Title.TextStyle.Color = text
	p.Legend.TextStyle.Color = text
	for _, a := range []*plot.Axis{&p.X, &p.Y} {
		a.Color = text
		a.Label.TextStyle.Color = text
		a.Tick.Label.Color = text
		a.Tick.LineStyle.Color = text
	}

	grid := plotter.NewGrid()
	grid.Vertical.Color = theme.Grid().RGBA()
	grid.Horizontal.Color = theme.Grid().RGBA()
	p.Add(grid)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p
}

// plotPoints reduces s to the point budget, normalizing y when ranges is set
// and dropping non-finite values.
func plotPoints(s *series.Series, budget int, ranges []graph.UnitRange) plotter.XYs {
	r, normalize := graph.RangeFor(ranges, s.Unit)
	idx := downsample.LTTBIndices(s.X, s.Y, budget)
	out := make(plotter.XYs, 0, len(idx))
	for _, i := range idx {
		x, y := s.X[i], s.Y[i]
		if math.IsNaN(y) || math.IsInf(y, 0) || math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		if normalize {
			y = r.Normalize(y)
		}
		out = append(out, plotter.XY{X: x, Y: y})
	}
	return out
}
