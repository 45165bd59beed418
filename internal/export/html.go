package export

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/gpuplot/internal/downsample"
	"github.com/banshee-data/gpuplot/internal/graph"
	"github.com/banshee-data/gpuplot/internal/series"
)

const htmlSymbolSize = 6

// WriteHTML renders the visible series of g as a standalone go-echarts page
// with wheel zoom. Each unit gets its own y axis; date-time x values use a
// time axis.
func WriteHTML(w io.Writer, g *graph.Graph, o Options) error {
	vis := g.Visible()
	if len(vis) == 0 {
		return ErrNoSeries
	}
	units := g.Units()

	echartsTheme := "dark"
	if o.Theme == series.ThemeLight {
		echartsTheme = "white"
	}
	xType := "value"
	if g.XIsDateTime {
		xType = "time"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: g.Title,
			Theme:     echartsTheme,
			Width:     fmt.Sprintf("%.0fpx", o.Width.Dots(96)),
			Height:    fmt.Sprintf("%.0fpx", o.Height.Dots(96)),
		}),
		charts.WithTitleOpts(opts.Title{Title: g.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
		charts.WithXAxisOpts(opts.XAxis{Name: g.XLabel(), Type: xType, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: axisName(g, units, 0), Type: "value"}),
	)
	for i := 1; i < len(units); i++ {
		line.ExtendYAxis(opts.YAxis{Name: axisName(g, units, i), Type: "value", Position: "right"})
	}

	scatter := charts.NewScatter()
	hasScatter := false
	for _, s := range vis {
		axis := unitIndex(units, s.Unit)
		pts := htmlPoints(s, o.MaxPoints, g.XIsDateTime)
		if len(pts) == 0 {
			continue
		}
		item := charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color.Hex()})

		if s.Style == series.StylePoints {
			data := make([]opts.ScatterData, len(pts))
			for i, p := range pts {
				data[i] = opts.ScatterData{Value: []interface{}{p[0], p[1]}}
			}
			scatter.AddSeries(s.Label, data, item,
				charts.WithScatterChartOpts(opts.ScatterChart{YAxisIndex: axis, SymbolSize: htmlSymbolSize}))
			hasScatter = true
			continue
		}

		if s.Style == series.StyleStep {
			pts = stepPoints(pts)
		}
		data := make([]opts.LineData, len(pts))
		for i, p := range pts {
			data[i] = opts.LineData{Value: []interface{}{p[0], p[1]}}
		}
		line.AddSeries(s.Label, data, item,
			charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color.Hex()}),
			charts.WithLineChartOpts(opts.LineChart{YAxisIndex: axis, ShowSymbol: opts.Bool(s.ShowMarkers)}),
		)
	}
	if hasScatter {
		line.Overlap(scatter)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func axisName(g *graph.Graph, units []string, i int) string {
	if i >= len(units) {
		return ""
	}
	return g.AxisLabel(units[i])
}

func unitIndex(units []string, unit string) int {
	for i, u := range units {
		if u == unit {
			return i
		}
	}
	return 0
}

// htmlPoints reduces s to the point budget. Date-time x values are converted
// to milliseconds for the chart's time axis.
func htmlPoints(s *series.Series, budget int, dateTime bool) [][2]float64 {
	idx := downsample.LTTBIndices(s.X, s.Y, budget)
	out := make([][2]float64, 0, len(idx))
	for _, i := range idx {
		x, y := s.X[i], s.Y[i]
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		if dateTime {
			x *= 1000
		}
		out = append(out, [2]float64{x, y})
	}
	return out
}

// stepPoints expands a polyline into a post-step staircase: each value holds
// until the next x.
func stepPoints(pts [][2]float64) [][2]float64 {
	if len(pts) < 2 {
		return pts
	}
	out := make([][2]float64, 0, 2*len(pts)-1)
	for i, p := range pts {
		if i > 0 {
			out = append(out, [2]float64{p[0], pts[i-1][1]})
		}
		out = append(out, p)
	}
	return out
}
