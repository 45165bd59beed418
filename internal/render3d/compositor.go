// Package render3d builds the 3D scene of a graph, renders it into an
// offscreen colour and depth target and composites that target into the
// host's 2D pass as one textured quad.
package render3d

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/gpuplot/internal/config"
	"github.com/banshee-data/gpuplot/internal/downsample"
	"github.com/banshee-data/gpuplot/internal/gpu"
	"github.com/banshee-data/gpuplot/internal/graph"
	"github.com/banshee-data/gpuplot/internal/monitoring"
	"github.com/banshee-data/gpuplot/internal/overlay"
	"github.com/banshee-data/gpuplot/internal/series"
	"github.com/banshee-data/gpuplot/internal/timeutil"
	"github.com/banshee-data/gpuplot/internal/view"
)

const (
	pointSizeXYZ    = 4.0
	pointSizePlanar = 3.0
	seriesLineWidth = 1.5
	gridLineWidth   = 1.0
)

// ErrNotRendered is returned by Composite when Render has not produced a
// colour target for the scene.
var ErrNotRendered = errors.New("scene has no rendered target")

// Compositor builds and renders 3D scenes. It owns the offscreen target of
// one view, so each 3D graph needs its own compositor.
type Compositor struct {
	cfg     *config.RenderConfig
	metrics *monitoring.Metrics
	clock   timeutil.Clock
	cache   *gpu.TargetCache
	format  gpu.TextureFormat
}

// NewCompositor returns a compositor rendering into targets of format. A nil
// cfg uses the defaults, a nil clock the wall clock; m may be nil.
func NewCompositor(cfg *config.RenderConfig, m *monitoring.Metrics, clock timeutil.Clock, format gpu.TextureFormat) *Compositor {
	if cfg == nil {
		cfg = config.DefaultRenderConfig()
	}
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Compositor{cfg: cfg, metrics: m, clock: clock, cache: gpu.NewTargetCache(m), format: format}
}

// Cache returns the compositor's offscreen target cache.
func (c *Compositor) Cache() *gpu.TargetCache { return c.cache }

// Release frees the offscreen target.
func (c *Compositor) Release() { c.cache.Release() }

// Scene is one frame of a 3D graph: offscreen draw calls plus the labels
// and legend painted over the composited image.
type Scene struct {
	GraphID int
	Rect    view.Rect
	Width   int
	Height  int
	Format  gpu.TextureFormat
	Clear   [4]float32
	Bounds  Bounds
	// Calls holds every line call, grid first, followed by every scatter
	// call; depth testing resolves overlap between them.
	Calls   []gpu.DrawCall
	Overlay overlay.Layer

	target  gpu.Texture
	metrics *monitoring.Metrics
}

// Build prepares the scene for g inside rect. pixelsPerPoint converts rect
// to target pixels.
func (c *Compositor) Build(g *graph.Graph, rect view.Rect, theme series.Theme, pixelsPerPoint float64) *Scene {
	start := c.clock.Now()
	if !(pixelsPerPoint > 0) {
		pixelsPerPoint = 1
	}
	bg := theme.Background().Float32()
	bg[3] = 1
	sc := &Scene{
		GraphID: g.ID,
		Rect:    rect,
		Format:  c.format,
		Clear:   bg,
		metrics: c.metrics,
	}
	if rect.Empty() {
		return sc
	}
	if len(g.Series) == 0 {
		sc.Overlay.AddText(overlay.Text{
			X: rect.Left + rect.Width/2, Y: rect.Top + rect.Height/2, Text: "No data loaded",
			Align: overlay.CenterCenter, Size: 16, Color: theme.Text(),
		})
		return sc
	}

	sc.Width = max(int(rect.Width*pixelsPerPoint), 1)
	sc.Height = max(int(rect.Height*pixelsPerPoint), 1)
	sc.Bounds = DataBounds(g.Series)

	base := g.Camera.Uniforms(rect.Width / rect.Height)
	base.Resolution = [2]float32{float32(sc.Width), float32(sc.Height)}

	grid := base
	grid.Color = theme.Grid().Float32()
	grid.Color[3] *= 0.5
	grid.LineWidth = gridLineWidth
	segs := GridSegments()
	lines := []gpu.DrawCall{gpu.NewDrawCall3D("grid", gpu.PipelineLine3D, grid, segs, len(segs)/2)}
	var scatter []gpu.DrawCall

	for _, s := range g.Series {
		if !s.Visible || s.Len() == 0 {
			continue
		}
		pos := c.positions(s, sc.Bounds)
		if len(pos) == 0 {
			continue
		}
		u := base
		u.Color = s.Color.Float32()
		u.PointSize = pointSizePlanar
		if s.HasZ() {
			u.PointSize = pointSizeXYZ
		}
		scatter = append(scatter, gpu.NewDrawCall3D(s.Label, gpu.PipelinePoint3D, u, pos, len(pos)))

		if s.Style == series.StyleLine && len(pos) >= 2 {
			pairs := make([][4]float32, 0, 2*(len(pos)-1))
			for i := 0; i+1 < len(pos); i++ {
				pairs = append(pairs, pos[i], pos[i+1])
			}
			lu := u
			lu.LineWidth = seriesLineWidth
			lines = append(lines, gpu.NewDrawCall3D(s.Label+"_line", gpu.PipelineLine3D, lu, pairs, len(pairs)/2))
		}
	}
	sc.Calls = append(lines, scatter...)

	for _, t := range Labels(g.Camera, rect, sc.Bounds, theme.Text()) {
		sc.Overlay.AddText(t)
	}
	vis := g.Visible()
	entries := make([]overlay.LegendEntry, len(vis))
	for i, s := range vis {
		entries[i] = overlay.LegendEntry{Label: s.Label, Color: s.Color}
	}
	sc.Overlay.AddLegend(entries, rect.Right(), rect.Top, theme.Background(), theme.Text())

	elapsed := c.clock.Since(start)
	c.metrics.ObserveFrame(graph.Mode3D.String(), elapsed)
	if slow := c.cfg.GetSlowFrame(); slow > 0 && elapsed > slow {
		monitoring.Logf("render3d: graph %d frame took %v (%d draw calls)", g.ID, elapsed, len(sc.Calls))
	}
	return sc
}

// positions normalises s into the scene cube, reduced to the point budget.
// A series without z sits on the z = 0 plane of the data box.
func (c *Compositor) positions(s *series.Series, b Bounds) [][4]float32 {
	idx := downsample.LTTBIndices(s.X, s.Y, c.cfg.GetMaxDisplayPoints())
	if len(idx) < s.Len() {
		c.metrics.Downsampled(s.Len(), len(idx))
	}
	out := make([][4]float32, 0, len(idx))
	for _, i := range idx {
		z := 0.0
		if s.HasZ() {
			z = s.Z[i]
		}
		if !finite(s.X[i]) || !finite(s.Y[i]) || !finite(z) {
			continue
		}
		out = append(out, b.Normalize(s.X[i], s.Y[i], z))
	}
	return out
}

// Render draws the scene into the cached offscreen target, reallocating it
// only when the size or format changed. It returns the number of draws
// issued. A target failure skips the frame.
func (sc *Scene) Render(dev gpu.Device, cache *gpu.TargetCache) (int, error) {
	sc.target = nil
	if sc.Width == 0 || sc.Height == 0 {
		return 0, nil
	}
	color, depth, _, err := cache.Ensure(dev, sc.Width, sc.Height, sc.Format)
	if err != nil {
		monitoring.Logf("render3d: graph %d: offscreen target: %v", sc.GraphID, err)
		sc.metrics.Skipped("allocation")
		return 0, fmt.Errorf("render3d: graph %d: %w", sc.GraphID, err)
	}
	pass, err := dev.BeginPass("plot3d_offscreen", color, depth, sc.Clear)
	if err != nil {
		monitoring.Logf("render3d: graph %d: begin pass: %v", sc.GraphID, err)
		sc.metrics.Skipped("pass")
		return 0, fmt.Errorf("render3d: graph %d: %w", sc.GraphID, err)
	}
	drawn := gpu.Submit(dev, pass, sc.Calls, sc.metrics)
	pass.End()
	sc.target = color
	return drawn, nil
}

// Composite draws the rendered target into the host pass as a full-rect
// quad. Render must have succeeded first.
func (sc *Scene) Composite(pass gpu.Pass) error {
	if sc.target == nil {
		return ErrNotRendered
	}
	blit := []gpu.DrawCall{{
		Label:         "plot3d_blit",
		Pipeline:      gpu.PipelineBlit,
		Texture:       sc.target,
		VertexCount:   gpu.VerticesPerInstance,
		InstanceCount: 1,
	}}
	gpu.Submit(nil, pass, blit, sc.metrics)
	return nil
}

// Release returns pooled storage held by the scene's draw calls.
func (sc *Scene) Release() {
	for i := range sc.Calls {
		sc.Calls[i].Release()
	}
}

// Frame builds, renders and composites g in one step. The returned scene
// carries the overlay for the host to paint; on error it is still usable for
// its overlay.
func (c *Compositor) Frame(dev gpu.Device, host gpu.Pass, g *graph.Graph, rect view.Rect, theme series.Theme, pixelsPerPoint float64) (*Scene, error) {
	sc := c.Build(g, rect, theme, pixelsPerPoint)
	if sc.Width == 0 {
		return sc, nil
	}
	if _, err := sc.Render(dev, c.cache); err != nil {
		return sc, err
	}
	return sc, sc.Composite(host)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
