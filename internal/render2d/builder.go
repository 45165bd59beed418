// Package render2d turns a 2D graph into one frame of draw calls plus the
// overlay drawn on top of them.
package render2d

import (
	"math"

	"github.com/banshee-data/gpuplot/internal/config"
	"github.com/banshee-data/gpuplot/internal/downsample"
	"github.com/banshee-data/gpuplot/internal/gpu"
	"github.com/banshee-data/gpuplot/internal/graph"
	"github.com/banshee-data/gpuplot/internal/hover"
	"github.com/banshee-data/gpuplot/internal/monitoring"
	"github.com/banshee-data/gpuplot/internal/overlay"
	"github.com/banshee-data/gpuplot/internal/series"
	"github.com/banshee-data/gpuplot/internal/timeutil"
	"github.com/banshee-data/gpuplot/internal/view"
)

// Plot area margins in pixels. Each extra unit in a multi-unit plot adds a
// tick column on the right.
const (
	marginLeft   = 70.0
	marginRight  = 20.0
	marginTop    = 10.0
	marginBottom = 40.0
	unitColumn   = 70.0
	minPlotH     = 100.0
)

// Builder builds 2D frames. It holds no per-graph state.
type Builder struct {
	cfg     *config.RenderConfig
	metrics *monitoring.Metrics
	clock   timeutil.Clock
}

// NewBuilder returns a builder. A nil cfg uses the defaults, a nil clock the
// wall clock; m may be nil.
func NewBuilder(cfg *config.RenderConfig, m *monitoring.Metrics, clock timeutil.Clock) *Builder {
	if cfg == nil {
		cfg = config.DefaultRenderConfig()
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Builder{cfg: cfg, metrics: m, clock: clock}
}

// Hit is the point under the pointer.
type Hit struct {
	SeriesID string
	Label    string
	X, Y     float64
	PX, PY   float64
	Color    series.Color
}

// PaintCommand is everything needed to paint one 2D frame.
type PaintCommand struct {
	Total    view.Rect
	Plot     view.Rect
	Clear    series.Color
	Uniforms gpu.PlotUniforms
	Origin   [2]float64
	Calls    []gpu.DrawCall
	Overlay  overlay.Layer
	Hover    *Hit

	metrics *monitoring.Metrics
}

// Execute uploads and draws the calls into pass and returns how many were
// drawn. Calls whose buffers fail to allocate are skipped.
func (p *PaintCommand) Execute(dev gpu.Device, pass gpu.Pass) int {
	return gpu.Submit(dev, pass, p.Calls, p.metrics)
}

// Release returns pooled storage. The command must not be executed again.
func (p *PaintCommand) Release() {
	for i := range p.Calls {
		p.Calls[i].Release()
	}
}

// PlotRect returns the data area inside total, leaving room for tick labels.
func PlotRect(total view.Rect, units int) view.Rect {
	right := marginRight
	if units > 1 {
		right = unitColumn*float64(units-1) + unitColumn
	}
	h := math.Max(total.Height-marginTop-marginBottom, minPlotH)
	return view.Rect{
		Left:   total.Left + marginLeft,
		Top:    total.Top + marginTop,
		Width:  math.Max(total.Width-marginLeft-right, 0),
		Height: h,
	}
}

// frame carries per-build values shared by the overlay helpers.
type frame struct {
	g      *graph.Graph
	plot   view.Rect
	theme  series.Theme
	units  []string
	ranges []graph.UnitRange
	multi  bool
}

// Build prepares one frame of g inside total. pointer is the hover position
// in screen pixels, or nil when the pointer is elsewhere. The graph's view
// may be refitted as a side effect.
func (b *Builder) Build(g *graph.Graph, total view.Rect, theme series.Theme, pointer *[2]float64) *PaintCommand {
	start := b.clock.Now()
	cmd := &PaintCommand{Total: total, Clear: theme.Background(), metrics: b.metrics}
	if total.Empty() || len(g.Series) == 0 {
		return cmd
	}

	f := frame{g: g, theme: theme, units: g.Units()}
	f.multi = len(f.units) > 1
	if f.multi {
		f.ranges = graph.UnitRanges(g.Series, f.units)
	}
	b.fit(g, f.multi)

	f.plot = PlotRect(total, len(f.units))
	cmd.Plot = f.plot
	if f.plot.Empty() {
		return cmd
	}

	v := g.View
	ox, oy := v.Origin()
	cmd.Origin = [2]float64{ox, oy}
	cmd.Uniforms = gpu.PlotUniforms{
		ViewMin:     [2]float32{0, 0},
		ViewMax:     [2]float32{float32(v.XSpan()), float32(v.YSpan())},
		Resolution:  [2]float32{float32(f.plot.Width), float32(f.plot.Height)},
		LineWidth:   float32(b.cfg.GetDefaultLineWidth()),
		PointRadius: 3,
		Color:       [4]float32{1, 1, 1, 1},
	}

	if grid := gridSegments(v); len(grid) >= 2 {
		u := cmd.Uniforms
		u.Color = theme.Grid().Float32()
		u.LineWidth = float32(b.cfg.GetGridLineWidth())
		cmd.Calls = append(cmd.Calls, gpu.NewDrawCall("grid", gpu.PipelineLine, u, grid, len(grid)/2))
	}

	var hoverPts []hover.Point
	plotted := make(map[int][2][]float64)
	for si, s := range g.Series {
		if !s.Visible || s.Len() == 0 {
			continue
		}
		xs, ys := s.X, s.Y
		if limit := b.cfg.GetMaxDisplayPoints(); s.Len() > limit {
			xs, ys = downsample.ForView(s.X, s.Y, v.XMin, v.XMax, limit)
			b.metrics.Downsampled(s.Len(), len(xs))
		}
		r, normalize := graph.RangeFor(f.ranges, s.Unit)

		pts := make([][2]float32, 0, len(xs))
		for i := range xs {
			y := ys[i]
			if normalize {
				y = r.Normalize(y)
			}
			if !finite(xs[i]) || !finite(y) {
				continue
			}
			pts = append(pts, [2]float32{float32(xs[i] - ox), float32(y - oy)})
			if pointer != nil {
				px, py := v.DataToScreen(xs[i], y, f.plot)
				hoverPts = append(hoverPts, hover.Point{X: px, Y: py, Series: si, Index: i})
			}
		}
		plotted[si] = [2][]float64{xs, ys}
		cmd.Calls = append(cmd.Calls, b.seriesCalls(s, cmd.Uniforms, pts)...)
	}

	f.axes(&cmd.Overlay)
	f.legend(&cmd.Overlay)
	if g.Cursors.Mode != view.CursorOff {
		f.cursors(&cmd.Overlay)
	} else if pointer != nil && f.plot.Contains(pointer[0], pointer[1]) {
		ix := hover.Build(hoverPts)
		if p, _, ok := ix.Nearest(pointer[0], pointer[1], b.cfg.GetHoverRadiusPx()); ok {
			s := g.Series[p.Series]
			col := plotted[p.Series]
			cmd.Hover = &Hit{
				SeriesID: s.ID,
				Label:    s.Label,
				X:        col[0][p.Index],
				Y:        col[1][p.Index],
				PX:       p.X,
				PY:       p.Y,
				Color:    s.Color,
			}
			f.tooltip(&cmd.Overlay, cmd.Hover)
		}
	}

	elapsed := b.clock.Since(start)
	b.metrics.ObserveFrame(graph.Mode2D.String(), elapsed)
	if slow := b.cfg.GetSlowFrame(); slow > 0 && elapsed > slow {
		monitoring.Logf("render2d: graph %d frame took %v (%d draw calls)", g.ID, elapsed, len(cmd.Calls))
	}
	return cmd
}

// fit applies a pending auto-fit, or keeps y fitted to the visible data.
func (b *Builder) fit(g *graph.Graph, multi bool) {
	v := g.View
	switch {
	case v.AutoFit || !v.Initialized:
		if multi {
			v.FitToDataNormalized(g.Series)
		} else {
			v.FitToData(g.Series)
		}
		v.AutoFit = false
	case g.AutoScaleY:
		if multi {
			v.AutoScaleYNormalized()
		} else {
			v.AutoScaleYToVisible(g.Series)
		}
	}
}

// seriesCalls emits the primary draw for s and its optional marker layer.
func (b *Builder) seriesCalls(s *series.Series, base gpu.PlotUniforms, pts [][2]float32) []gpu.DrawCall {
	u := base
	u.Color = s.Color.Float32()
	u.LineWidth = s.LineWidth
	u.PointRadius = s.LineWidth + 1

	var calls []gpu.DrawCall
	switch s.Style {
	case series.StyleLine:
		if pairs := LinePairs(pts); len(pairs) > 0 {
			calls = append(calls, gpu.NewDrawCall(s.Label, gpu.PipelineLine, u, pairs, len(pairs)/2))
		}
	case series.StyleStep:
		if pairs := LinePairs(StepExpand(pts)); len(pairs) > 0 {
			calls = append(calls, gpu.NewDrawCall(s.Label, gpu.PipelineLine, u, pairs, len(pairs)/2))
		}
	case series.StylePoints:
		if len(pts) > 0 {
			calls = append(calls, gpu.NewDrawCall(s.Label, gpu.PipelinePoint, u, pts, len(pts)))
		}
	}

	if s.ShowMarkers && s.Style != series.StylePoints && len(pts) > 0 && len(pts) < b.cfg.GetMarkerMaxPoints() {
		m := u
		m.PointRadius = s.LineWidth + 0.5
		calls = append(calls, gpu.NewDrawCall(s.Label+"_markers", gpu.PipelinePoint, m, pts, len(pts)))
	}
	return calls
}

// gridSegments returns major grid lines as line pairs relative to the view
// origin.
func gridSegments(v *view.State) [][2]float32 {
	ox, oy := v.Origin()
	x0, x1 := float32(v.XMin-ox), float32(v.XMax-ox)
	y0, y1 := float32(v.YMin-oy), float32(v.YMax-oy)

	var out [][2]float32
	for _, x := range view.MajorLines(v.XMin, v.XMax) {
		gx := float32(x - ox)
		out = append(out, [2]float32{gx, y0}, [2]float32{gx, y1})
	}
	for _, y := range view.MajorLines(v.YMin, v.YMax) {
		gy := float32(y - oy)
		out = append(out, [2]float32{x0, gy}, [2]float32{x1, gy})
	}
	return out
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
