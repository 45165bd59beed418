package render3d

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gpuplot/internal/camera"
	"github.com/banshee-data/gpuplot/internal/config"
	"github.com/banshee-data/gpuplot/internal/gpu"
	"github.com/banshee-data/gpuplot/internal/graph"
	"github.com/banshee-data/gpuplot/internal/monitoring"
	"github.com/banshee-data/gpuplot/internal/series"
	samples "github.com/banshee-data/gpuplot/internal/testutil"
	"github.com/banshee-data/gpuplot/internal/timeutil"
	"github.com/banshee-data/gpuplot/internal/view"
)

var rect = view.Rect{Left: 10, Top: 20, Width: 400, Height: 300}

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

// stillClock keeps frame timing at zero so no slow-frame line is logged.
func stillClock() *timeutil.MockClock {
	return timeutil.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
}

func helixGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(7, "helix")
	g.Mode = graph.Mode3D

	xyz := series.New3D("helix", []float64{0, 5, 10}, []float64{-2, 0, 2}, []float64{100, 150, 200}, "m")
	planar := series.New("floor", []float64{0, 2, 4, 6}, []float64{1, 1, 1, 1}, "m")
	planar.Style = series.StylePoints
	g.AddSeries(xyz)
	g.AddSeries(planar)
	return g
}

func TestDataBounds(t *testing.T) {
	b := DataBounds(helixGraph(t).Series)
	assert.Equal(t, [3]float64{0, -2, 100}, b.Min)
	assert.Equal(t, [3]float64{10, 2, 200}, b.Max)

	assert.Equal(t, [4]float32{-1, -1, -1, 1}, b.Normalize(0, -2, 100))
	assert.Equal(t, [4]float32{1, 1, 1, 1}, b.Normalize(10, 2, 200))
	assert.Equal(t, [4]float32{0, 0, 0, 1}, b.Normalize(5, 0, 150))
	assert.Equal(t, 2.5, b.At(0, 0.25))
}

func TestDataBounds_Fallbacks(t *testing.T) {
	flat := series.New("flat", []float64{3, 3}, []float64{1, 2}, "")
	hidden := series.New3D("hidden", []float64{-50}, []float64{-50}, []float64{-50}, "")
	hidden.Visible = false

	b := DataBounds([]*series.Series{flat, hidden})
	assert.Equal(t, [3]float64{2.5, 1, -1}, b.Min, "flat x padded, no z data")
	assert.Equal(t, [3]float64{3.5, 2, 1}, b.Max)

	empty := DataBounds(nil)
	assert.Equal(t, [3]float64{-1, -1, -1}, empty.Min)
	assert.Equal(t, [3]float64{1, 1, 1}, empty.Max)
}

func TestGridSegments(t *testing.T) {
	segs := GridSegments()
	require.Len(t, segs, 2*(12+4*4))
	for i, p := range segs {
		for axis := 0; axis < 3; axis++ {
			assert.LessOrEqual(t, math.Abs(float64(p[axis])), 1.0, "point %d", i)
		}
		assert.Equal(t, float32(1), p[3])
	}
	// First interior line sits one fifth of the way across the floor.
	assert.InDelta(t, -0.6, segs[24][0], 1e-6)
}

func TestBuild_Scene(t *testing.T) {
	g := helixGraph(t)
	m := monitoring.NewMetrics(nil)
	c := NewCompositor(nil, m, nil, gpu.FormatBGRA8Unorm)
	sc := c.Build(g, rect, series.ThemeDark, 2)
	defer sc.Release()

	assert.Equal(t, 800, sc.Width)
	assert.Equal(t, 600, sc.Height)
	assert.Equal(t, float32(1), sc.Clear[3])

	var labels []string
	var pipelines []gpu.Pipeline
	var instances []uint32
	for _, call := range sc.Calls {
		labels = append(labels, call.Label)
		pipelines = append(pipelines, call.Pipeline)
		instances = append(instances, call.InstanceCount)
	}
	assert.Equal(t, []string{"grid", "helix_line", "helix", "floor"}, labels)
	assert.Equal(t, []gpu.Pipeline{gpu.PipelineLine3D, gpu.PipelineLine3D, gpu.PipelinePoint3D, gpu.PipelinePoint3D}, pipelines)
	assert.Equal(t, []uint32{28, 2, 3, 4}, instances)

	grid := sc.Calls[0].Uniform
	assert.Equal(t, float32(800), f32At(grid, 96))
	assert.Equal(t, float32(1), f32At(grid, 108))
	assert.InDelta(t, 60.0/255*0.5, f32At(grid, 92), 1e-6, "grid alpha halved")

	assert.Equal(t, float32(1.5), f32At(sc.Calls[1].Uniform, 108))
	assert.Equal(t, float32(4), f32At(sc.Calls[2].Uniform, 104))
	assert.Equal(t, float32(3), f32At(sc.Calls[3].Uniform, 104))

	// The planar series lies on the z = 0 plane of the [100, 200] box.
	floor := gpu.UnpackVec4(sc.Calls[3].Storage, 4)
	assert.Equal(t, float32(-1), floor[0][0])
	assert.Equal(t, float32(-3), floor[0][2])

	_, ok := sc.Overlay.FindText("helix")
	assert.True(t, ok, "legend entry")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FramesBuilt.WithLabelValues("3d")))
}

func TestBuild_EmptyGraph(t *testing.T) {
	c := NewCompositor(nil, nil, nil, gpu.FormatRGBA8Unorm)
	sc := c.Build(graph.New(1, "none"), rect, series.ThemeLight, 1)
	assert.Empty(t, sc.Calls)
	_, ok := sc.Overlay.FindText("No data loaded")
	assert.True(t, ok)

	n, err := sc.Render(gpu.NewRecordingDevice(), c.Cache())
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestBuild_Downsamples(t *testing.T) {
	cfg := config.DefaultRenderConfig()
	budget := 50
	cfg.MaxDisplayPoints = &budget

	n := 200
	x, y := samples.Sine(n, 10)
	z := make([]float64, n)
	for i := range z {
		z[i] = float64(i) * 2
	}
	g := graph.New(1, "big")
	s := series.New3D("cloud", x, y, z, "")
	s.Style = series.StylePoints
	g.AddSeries(s)

	sc := NewCompositor(cfg, nil, nil, gpu.FormatRGBA8Unorm).Build(g, rect, series.ThemeDark, 1)
	defer sc.Release()
	require.Len(t, sc.Calls, 2)
	assert.Equal(t, uint32(50), sc.Calls[1].InstanceCount)

	// Endpoints survive with their own z.
	pts := gpu.UnpackVec4(sc.Calls[1].Storage, 50)
	assert.Equal(t, [4]float32{-1, pts[0][1], -1, 1}, pts[0])
	assert.Equal(t, float32(1), pts[49][2])
}

func TestRender_CachesTarget(t *testing.T) {
	lines, restore := monitoring.Capture()
	defer restore()

	g := helixGraph(t)
	c := NewCompositor(nil, nil, stillClock(), gpu.FormatBGRA8Unorm)
	dev := gpu.NewRecordingDevice()

	for i := 0; i < 3; i++ {
		sc := c.Build(g, rect, series.ThemeDark, 1)
		drawn, err := sc.Render(dev, c.Cache())
		require.NoError(t, err)
		assert.Equal(t, 4, drawn)
		sc.Release()
	}
	assert.Equal(t, 1, dev.TexturesCreated("plot3d_color"))
	assert.Equal(t, 1, dev.TexturesCreated("plot3d_depth"))

	bigger := rect
	bigger.Width = 500
	sc := c.Build(g, bigger, series.ThemeDark, 1)
	_, err := sc.Render(dev, c.Cache())
	require.NoError(t, err)
	sc.Release()

	assert.Equal(t, 2, dev.TexturesCreated("plot3d_color"))
	assert.Equal(t, 2, dev.LiveTextures(), "old target released")
	assert.Len(t, *lines, 2)

	c.Release()
	assert.Zero(t, dev.LiveTextures())
}

func TestRender_PassOrder(t *testing.T) {
	g := helixGraph(t)
	c := NewCompositor(nil, nil, nil, gpu.FormatRGBA8Unorm)
	dev := gpu.NewRecordingDevice()

	sc, err := c.Frame(dev, dev.HostPass("host"), g, rect, series.ThemeDark, 1)
	require.NoError(t, err)
	defer sc.Release()

	cmds := dev.Commands()
	require.Len(t, cmds, 8)
	assert.Equal(t, "begin", cmds[0].Op)
	assert.Equal(t, "host", cmds[0].Pass)
	assert.Equal(t, "plot3d_offscreen", cmds[1].Pass)
	assert.Equal(t, "plot3d_color", cmds[1].Texture)
	assert.Equal(t, sc.Clear, cmds[1].Clear)
	assert.Equal(t, gpu.PipelineLine3D, cmds[2].Pipeline)
	assert.Equal(t, gpu.PipelinePoint3D, cmds[5].Pipeline)
	assert.Equal(t, "end", cmds[6].Op)

	blit := cmds[7]
	assert.Equal(t, "host", blit.Pass)
	assert.Equal(t, gpu.PipelineBlit, blit.Pipeline)
	assert.Equal(t, "plot3d_color", blit.Texture)
	assert.Equal(t, uint32(6), blit.VertexCount)
	assert.Equal(t, uint32(1), blit.InstanceCount)
}

func TestRender_TargetFailureSkipsFrame(t *testing.T) {
	lines, restore := monitoring.Capture()
	defer restore()

	g := helixGraph(t)
	m := monitoring.NewMetrics(nil)
	c := NewCompositor(nil, m, stillClock(), gpu.FormatRGBA8Unorm)
	dev := gpu.NewRecordingDevice()
	dev.FailTextures = true

	sc, err := c.Frame(dev, dev.HostPass("host"), g, rect, series.ThemeDark, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gpu.ErrAllocation))
	assert.Empty(t, dev.Draws())
	assert.NotZero(t, sc.Overlay.Len(), "labels still available")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SkippedDrawCalls.WithLabelValues("allocation")))
	require.Len(t, *lines, 1)
	assert.Contains(t, (*lines)[0], "render3d: graph 7: offscreen target")

	assert.ErrorIs(t, sc.Composite(dev.HostPass("host")), ErrNotRendered)
}

func TestRibbonVertex(t *testing.T) {
	res := [2]float64{800, 600}
	clip0 := [4]float64{-0.5, 0, 0.2, 1}
	clip1 := [4]float64{1.5, 0, 3, 3} // ndc (0.5, 0), z/w 1

	a := RibbonVertex(clip0, clip1, 0, 1, 4, res)
	assert.InDelta(t, clip0[3], a[3], 1e-12, "endpoint keeps its w")
	assert.InDelta(t, clip0[2]/clip0[3], a[2]/a[3], 1e-12)
	// Horizontal segment: the offset is vertical, half the width in pixels.
	assert.InDelta(t, -0.5, a[0]/a[3], 1e-12)
	assert.InDelta(t, 2.0/600*2, a[1]/a[3], 1e-12)

	b := RibbonVertex(clip0, clip1, 0, -1, 4, res)
	assert.InDelta(t, -a[1]/a[3], b[1]/b[3], 1e-12)

	mid := RibbonVertex(clip0, clip1, 0.5, 1, 4, res)
	assert.InDelta(t, (1/clip0[3]+1/clip1[3])/2, 1/mid[3], 1e-12, "1/w is linear in screen space")
	assert.InDelta(t, 0.6, mid[2]/mid[3], 1e-12, "z/w is linear in screen space")
	assert.InDelta(t, 0, mid[0]/mid[3], 1e-12)

	// A degenerate segment still gets a vertical stub.
	d := RibbonVertex(clip0, clip0, 0, 1, 4, res)
	assert.InDelta(t, 2.0/600*2, d[1]/d[3], 1e-12)
}

func TestLabels(t *testing.T) {
	cam := camera.NewOrbital()
	cam.Distance = 8
	b := Bounds{Min: [3]float64{0, -1, 10}, Max: [3]float64{10, 1, 20}}
	text := series.Color{200, 200, 200, 255}

	got := Labels(cam, rect, b, text)
	require.Len(t, got, 3+3*tickCount)
	names := map[string]bool{}
	for _, l := range got {
		names[l.Text] = true
		assert.True(t, rect.Contains(l.X, l.Y), "%q at (%v, %v)", l.Text, l.X, l.Y)
	}
	for _, want := range []string{"X", "Y", "Z", "0", "2.5", "10", "-0.5", "12.5", "20"} {
		assert.True(t, names[want], want)
	}

	// From inside the cube some anchors fall behind the camera.
	cam.Distance = camera.DistanceMin
	assert.Less(t, len(Labels(cam, rect, b, text)), 3+3*tickCount)

	assert.Empty(t, Labels(cam, view.Rect{}, b, text))
}
