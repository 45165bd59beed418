package render2d

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gpuplot/internal/config"
	"github.com/banshee-data/gpuplot/internal/gpu"
	"github.com/banshee-data/gpuplot/internal/graph"
	"github.com/banshee-data/gpuplot/internal/monitoring"
	"github.com/banshee-data/gpuplot/internal/overlay"
	"github.com/banshee-data/gpuplot/internal/series"
	"github.com/banshee-data/gpuplot/internal/timeutil"
	"github.com/banshee-data/gpuplot/internal/view"
)

var total = view.Rect{Width: 890, Height: 450}

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func ramp(n int) (x, y []float64) {
	x = make([]float64, n)
	y = make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = float64(i)
	}
	return x, y
}

func lineGraph(t *testing.T, n int, style series.Style, markers bool) *graph.Graph {
	t.Helper()
	x, y := ramp(n)
	s := series.New("a", x, y, "V")
	s.Style = style
	s.ShowMarkers = markers
	g := graph.New(1, "test")
	g.AutoScaleY = false
	g.AddSeries(s)
	return g
}

func callsNamed(cmd *PaintCommand, label string) []gpu.DrawCall {
	var out []gpu.DrawCall
	for _, c := range cmd.Calls {
		if c.Label == label {
			out = append(out, c)
		}
	}
	return out
}

func TestPlotRect(t *testing.T) {
	r := PlotRect(total, 1)
	assert.Equal(t, view.Rect{Left: 70, Top: 10, Width: 800, Height: 400}, r)

	r = PlotRect(total, 3)
	assert.Equal(t, 890.0-70-210, r.Width)

	r = PlotRect(view.Rect{Width: 50, Height: 20}, 1)
	assert.Equal(t, 0.0, r.Width)
	assert.Equal(t, 100.0, r.Height)
}

func TestBuild_EmptyGraph(t *testing.T) {
	b := NewBuilder(nil, nil, nil)
	cmd := b.Build(graph.New(1, "empty"), total, series.ThemeDark, nil)
	assert.Empty(t, cmd.Calls)
	assert.Equal(t, series.ThemeDark.Background(), cmd.Clear)

	g := lineGraph(t, 5, series.StyleLine, false)
	cmd = b.Build(g, view.Rect{}, series.ThemeDark, nil)
	assert.Empty(t, cmd.Calls)
}

func TestBuild_LineSeries(t *testing.T) {
	g := lineGraph(t, 10, series.StyleLine, false)
	cmd := NewBuilder(nil, nil, nil).Build(g, total, series.ThemeDark, nil)
	defer cmd.Release()

	require.Len(t, cmd.Calls, 2)
	assert.Equal(t, "grid", cmd.Calls[0].Label)
	assert.Equal(t, gpu.PipelineLine, cmd.Calls[0].Pipeline)

	line := cmd.Calls[1]
	assert.Equal(t, gpu.PipelineLine, line.Pipeline)
	assert.Equal(t, uint32(9), line.InstanceCount)
	assert.Equal(t, uint32(gpu.VerticesPerInstance), line.VertexCount)

	// The view was fitted with 5% padding and the fit request consumed.
	v := g.View
	assert.InDelta(t, -0.45, v.XMin, 1e-12)
	assert.InDelta(t, 9.45, v.XMax, 1e-12)
	assert.False(t, v.AutoFit)
	assert.True(t, v.Initialized)

	// Positions are uploaded relative to the view origin.
	pts := gpu.UnpackVec2(line.Storage, 18)
	assert.InDelta(t, 0.45, pts[0][0], 1e-6)
	assert.InDelta(t, 0.45, pts[0][1], 1e-6)
	assert.Equal(t, pts[1], pts[2], "pairs share their joint")

	assert.InDelta(t, 9.9, f32At(line.Uniform, 8), 1e-5, "view max x")
	assert.Equal(t, float32(800), f32At(line.Uniform, 16))
	assert.Equal(t, float32(2), f32At(line.Uniform, 24), "line width")
	assert.Equal(t, cmd.Origin, [2]float64{v.XMin, v.YMin})
}

func TestBuild_OverlayLeavesPlotUncovered(t *testing.T) {
	g := lineGraph(t, 100, series.StyleLine, false)
	cmd := NewBuilder(nil, nil, nil).Build(g, total, series.ThemeDark, nil)
	defer cmd.Release()

	plot := view.Rect{Left: 70, Top: 10, Width: 800, Height: 400}
	require.Equal(t, plot, cmd.Plot)
	require.NotZero(t, cmd.Overlay.Len())
	for _, item := range cmd.Overlay.Items() {
		r, ok := item.(overlay.Rect)
		if !ok || r.Fill.IsZero() {
			continue
		}
		covers := r.Left <= plot.Left && r.Top <= plot.Top &&
			r.Left+r.Width >= plot.Left+plot.Width && r.Top+r.Height >= plot.Top+plot.Height
		assert.False(t, covers, "filled overlay rect %+v hides the plot", r)
	}
	assert.Equal(t, series.ThemeDark.Background(), cmd.Clear)
}

func TestBuild_Styles(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		style     series.Style
		markers   bool
		pipelines []gpu.Pipeline
		instances []uint32
	}{
		{"line with markers", 5, series.StyleLine, true, []gpu.Pipeline{gpu.PipelineLine, gpu.PipelinePoint}, []uint32{4, 5}},
		{"step", 3, series.StyleStep, false, []gpu.Pipeline{gpu.PipelineLine}, []uint32{4}},
		{"points ignore marker layer", 6, series.StylePoints, true, []gpu.Pipeline{gpu.PipelinePoint}, []uint32{6}},
		{"single point line", 1, series.StyleLine, false, nil, nil},
		{"single point with markers", 1, series.StyleLine, true, []gpu.Pipeline{gpu.PipelinePoint}, []uint32{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := lineGraph(t, tt.n, tt.style, tt.markers)
			cmd := NewBuilder(nil, nil, nil).Build(g, total, series.ThemeLight, nil)
			defer cmd.Release()

			var pipelines []gpu.Pipeline
			var instances []uint32
			for _, c := range cmd.Calls[1:] {
				pipelines = append(pipelines, c.Pipeline)
				instances = append(instances, c.InstanceCount)
			}
			assert.Equal(t, tt.pipelines, pipelines)
			assert.Equal(t, tt.instances, instances)
		})
	}
}

func TestBuild_MarkerRadius(t *testing.T) {
	g := lineGraph(t, 4, series.StyleLine, true)
	cmd := NewBuilder(nil, nil, nil).Build(g, total, series.ThemeDark, nil)
	defer cmd.Release()

	markers := callsNamed(cmd, "a_markers")
	require.Len(t, markers, 1)
	assert.Equal(t, float32(2.5), f32At(markers[0].Uniform, 28))

	g = lineGraph(t, 4, series.StylePoints, false)
	cmd = NewBuilder(nil, nil, nil).Build(g, total, series.ThemeDark, nil)
	defer cmd.Release()
	assert.Equal(t, float32(3), f32At(cmd.Calls[1].Uniform, 28))
}

func TestBuild_MarkerLayerThreshold(t *testing.T) {
	cfg := config.DefaultRenderConfig()
	limit := 5
	cfg.MarkerMaxPoints = &limit

	g := lineGraph(t, 5, series.StyleLine, true)
	cmd := NewBuilder(cfg, nil, nil).Build(g, total, series.ThemeDark, nil)
	defer cmd.Release()
	assert.Empty(t, callsNamed(cmd, "a_markers"))
}

func TestBuild_HiddenSeriesOmitted(t *testing.T) {
	g := lineGraph(t, 5, series.StyleLine, false)
	hidden := series.New("hidden", []float64{0, 1}, []float64{0, 1}, "V")
	hidden.Visible = false
	g.AddSeries(hidden)

	cmd := NewBuilder(nil, nil, nil).Build(g, total, series.ThemeDark, nil)
	defer cmd.Release()
	assert.Empty(t, callsNamed(cmd, "hidden"))
	_, ok := cmd.Overlay.FindText("hidden")
	assert.False(t, ok, "hidden series stay out of the legend")
}

func TestBuild_SkipsNonFinite(t *testing.T) {
	s := series.Derived("diff", []float64{0, 1, 2, 3}, []float64{1, math.NaN(), 3, 4}, "")
	s.ShowMarkers = false
	g := graph.New(1, "math")
	g.AddSeries(s)

	cmd := NewBuilder(nil, nil, nil).Build(g, total, series.ThemeDark, nil)
	defer cmd.Release()
	calls := callsNamed(cmd, "diff")
	require.Len(t, calls, 1)
	assert.Equal(t, uint32(2), calls[0].InstanceCount)
}

func TestBuild_Downsamples(t *testing.T) {
	cfg := config.DefaultRenderConfig()
	budget := 100
	cfg.MaxDisplayPoints = &budget
	m := monitoring.NewMetrics(nil)

	x := make([]float64, 1000)
	y := make([]float64, 1000)
	for i := range x {
		x[i] = float64(i)
		y[i] = math.Sin(float64(i) / 20)
	}
	s := series.New("sine", x, y, "")
	s.ShowMarkers = false
	g := graph.New(1, "big")
	g.AddSeries(s)

	cmd := NewBuilder(cfg, m, nil).Build(g, total, series.ThemeDark, nil)
	defer cmd.Release()

	calls := callsNamed(cmd, "sine")
	require.Len(t, calls, 1)
	assert.Equal(t, uint32(99), calls[0].InstanceCount)
	assert.Equal(t, 1000.0, testutil.ToFloat64(m.PointsIn))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.PointsOut))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesBuilt.WithLabelValues("2d")))
}

func TestBuild_MultiUnit(t *testing.T) {
	volts := series.New("volts", []float64{0, 10}, []float64{0, 10}, "V")
	amps := series.New("amps", []float64{0, 10}, []float64{100, 200}, "A")
	volts.ShowMarkers, amps.ShowMarkers = false, false
	g := graph.New(1, "mixed")
	g.AddSeries(volts)
	g.AddSeries(amps)

	cmd := NewBuilder(nil, nil, nil).Build(g, total, series.ThemeDark, nil)
	defer cmd.Release()

	assert.Equal(t, 890.0-70-140, cmd.Plot.Width, "one extra tick column")
	assert.Equal(t, -0.05, g.View.YMin)
	assert.Equal(t, 1.05, g.View.YMax)

	// 100 A sits just above the bottom of the padded [95, 205] range.
	calls := callsNamed(cmd, "amps")
	require.Len(t, calls, 1)
	pts := gpu.UnpackVec2(calls[0].Storage, 2)
	assert.InDelta(t, 5.0/110+0.05, pts[0][1], 1e-6)

	texts := map[string]bool{}
	for _, tx := range cmd.Overlay.Texts() {
		texts[tx.Text] = true
	}
	assert.True(t, texts["Y (V)"])
	assert.True(t, texts["Y (A)"])
	assert.True(t, texts["95"], "amp ticks are denormalized")
	assert.True(t, texts["-0.5"], "volt ticks are denormalized")
}

func hoverGraph(t *testing.T) (*graph.Graph, *Builder) {
	t.Helper()
	g := lineGraph(t, 10, series.StyleLine, false)
	b := NewBuilder(nil, nil, nil)
	b.Build(g, total, series.ThemeDark, nil).Release()
	return g, b
}

func TestBuild_Hover(t *testing.T) {
	g, b := hoverGraph(t)
	plot := PlotRect(total, 1)
	px, py := g.View.DataToScreen(3, 3, plot)

	cmd := b.Build(g, total, series.ThemeDark, &[2]float64{px + 2, py + 1})
	defer cmd.Release()
	require.NotNil(t, cmd.Hover)
	assert.Equal(t, 3.0, cmd.Hover.X)
	assert.Equal(t, 3.0, cmd.Hover.Y)
	assert.Equal(t, "a", cmd.Hover.Label)
	assert.InDelta(t, px, cmd.Hover.PX, 1e-9)

	tip, ok := cmd.Overlay.FindText("a: ")
	require.True(t, ok)
	assert.Equal(t, "a: X=3.000, Y=3.000", tip.Text)
}

func TestBuild_HoverMisses(t *testing.T) {
	g, b := hoverGraph(t)
	plot := PlotRect(total, 1)
	px, py := g.View.DataToScreen(3, 3, plot)

	cmd := b.Build(g, total, series.ThemeDark, &[2]float64{px, py - 60})
	assert.Nil(t, cmd.Hover, "beyond the hover radius")
	cmd.Release()

	cmd = b.Build(g, total, series.ThemeDark, &[2]float64{5, 5})
	assert.Nil(t, cmd.Hover, "outside the plot")
	cmd.Release()
}

func TestBuild_VerticalCursors(t *testing.T) {
	g, b := hoverGraph(t)
	g.Cursors.SetMode(view.CursorVertical)
	g.Cursors.Place(2)
	g.Cursors.Place(5)

	plot := PlotRect(total, 1)
	px, py := g.View.DataToScreen(3, 3, plot)
	cmd := b.Build(g, total, series.ThemeDark, &[2]float64{px, py})
	defer cmd.Release()

	assert.Nil(t, cmd.Hover, "cursor mode replaces the tooltip")
	c1, ok := cmd.Overlay.FindText("C1: ")
	require.True(t, ok)
	assert.Equal(t, "C1: 2.0000", c1.Text)
	d, ok := cmd.Overlay.FindText("dX: ")
	require.True(t, ok)
	assert.Equal(t, "dX: 3.0000", d.Text)
	assert.Len(t, cmd.Overlay.Lines(), 2)
}

func TestBuild_HorizontalCursorsMultiUnit(t *testing.T) {
	volts := series.New("volts", []float64{0, 10}, []float64{0, 10}, "V")
	amps := series.New("amps", []float64{0, 10}, []float64{100, 200}, "A")
	g := graph.New(1, "mixed")
	g.AddSeries(volts)
	g.AddSeries(amps)
	g.Cursors.SetMode(view.CursorHorizontal)
	g.Cursors.Place(0)
	g.Cursors.Place(1)

	cmd := NewBuilder(nil, nil, nil).Build(g, total, series.ThemeDark, nil)
	defer cmd.Release()

	dv, ok := cmd.Overlay.FindText("dY (V)")
	require.True(t, ok)
	assert.Equal(t, "dY (V): 11.0000", dv.Text)
	da, ok := cmd.Overlay.FindText("dY (A)")
	require.True(t, ok)
	assert.Equal(t, "dY (A): 110.0000", da.Text)

	c1, ok := cmd.Overlay.FindText("C1: ")
	require.True(t, ok)
	assert.True(t, strings.Contains(c1.Text, "  |  "))
	assert.True(t, strings.HasPrefix(c1.Text, "C1: -0.5000 V"))
}

func TestBuild_DateTimeAxis(t *testing.T) {
	base := 1.7e9
	s := series.New("temp", []float64{base, base + 60, base + 120}, []float64{1, 2, 3}, "C")
	g := graph.New(1, "logged")
	g.XIsDateTime = true
	g.AddSeries(s)

	cmd := NewBuilder(nil, nil, nil).Build(g, total, series.ThemeDark, nil)
	defer cmd.Release()

	_, ok := cmd.Overlay.FindText("Date and Time")
	assert.True(t, ok)
	_, ok = cmd.Overlay.FindText("2023-11-14 22:")
	assert.True(t, ok, "x ticks are timestamps")
}

func TestExecute_SkipsFailedAllocation(t *testing.T) {
	g := lineGraph(t, 5, series.StyleLine, true)
	m := monitoring.NewMetrics(nil)
	cmd := NewBuilder(nil, m, nil).Build(g, total, series.ThemeDark, nil)
	defer cmd.Release()
	require.Len(t, cmd.Calls, 3)

	lines, restore := monitoring.Capture()
	defer restore()

	dev := gpu.NewRecordingDevice()
	dev.FailBuffer = func(label string) bool { return label == "a_uniform" }
	drawn := cmd.Execute(dev, dev.HostPass("plot"))

	assert.Equal(t, 2, drawn)
	draws := dev.Draws()
	require.Len(t, draws, 2)
	assert.Equal(t, gpu.PipelineLine, draws[0].Pipeline)
	assert.Equal(t, gpu.PipelinePoint, draws[1].Pipeline)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SkippedDrawCalls.WithLabelValues("allocation")))
	require.Len(t, *lines, 1)
	assert.Contains(t, (*lines)[0], "a: uniform buffer")
}

func TestBuild_SlowFrameLogged(t *testing.T) {
	lines, restore := monitoring.Capture()
	defer restore()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := lineGraph(t, 5, series.StyleLine, false)
	NewBuilder(nil, nil, timeutil.NewSteppingClock(start, 20*time.Millisecond)).
		Build(g, total, series.ThemeDark, nil).Release()
	require.Len(t, *lines, 1)
	assert.Contains(t, (*lines)[0], "render2d: graph 1 frame took 20ms")

	*lines = (*lines)[:0]
	NewBuilder(nil, nil, timeutil.NewSteppingClock(start, time.Millisecond)).
		Build(g, total, series.ThemeDark, nil).Release()
	assert.Empty(t, *lines)
}

func TestLinePairsAndStepExpand(t *testing.T) {
	pts := [][2]float32{{0, 0}, {1, 2}, {2, 1}}
	assert.Equal(t, [][2]float32{{0, 0}, {1, 2}, {1, 2}, {2, 1}}, LinePairs(pts))
	assert.Nil(t, LinePairs(pts[:1]))

	step := StepExpand(pts)
	assert.Equal(t, [][2]float32{{0, 0}, {1, 0}, {1, 2}, {2, 2}, {2, 1}}, step)
	assert.Len(t, LinePairs(step), 2*2*(len(pts)-1))
}

func TestSegmentQuad(t *testing.T) {
	q := SegmentQuad([2]float64{0, 0}, [2]float64{10, 0}, 4)
	want := [6][2]float64{{0, 2}, {0, -2}, {10, 2}, {0, -2}, {10, -2}, {10, 2}}
	for i := range want {
		assert.InDelta(t, want[i][0], q[i][0], 1e-12, "vertex %d x", i)
		assert.InDelta(t, want[i][1], q[i][1], 1e-12, "vertex %d y", i)
	}

	// A zero-length segment still covers a vertical strip of the line width.
	q = SegmentQuad([2]float64{5, 5}, [2]float64{5, 5}, 2)
	assert.Equal(t, [2]float64{5, 6}, q[0])
	assert.Equal(t, [2]float64{5, 4}, q[1])
}

func TestMarkerCoverage(t *testing.T) {
	a, ok := MarkerCoverage(0, 0)
	assert.True(t, ok)
	assert.Equal(t, 1.0, a)

	a, ok = MarkerCoverage(0.9, 0)
	assert.True(t, ok)
	assert.InDelta(t, 0.5, a, 1e-12)

	_, ok = MarkerCoverage(0.8, 0.8)
	assert.False(t, ok)
}
