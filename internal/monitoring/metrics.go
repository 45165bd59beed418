package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors updated while frames are built and painted.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	FramesBuilt       *prometheus.CounterVec
	DrawCalls         *prometheus.CounterVec
	SkippedDrawCalls  *prometheus.CounterVec
	PointsIn          prometheus.Counter
	PointsOut         prometheus.Counter
	TargetAllocations prometheus.Counter
	FrameBuildSeconds *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil
// registerer leaves them unregistered, which is what tests usually want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FramesBuilt: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gpuplot",
			Name:      "frames_built_total",
			Help:      "Frames built, by plot mode.",
		}, []string{"mode"}),
		DrawCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gpuplot",
			Name:      "draw_calls_total",
			Help:      "Draw calls emitted, by pipeline.",
		}, []string{"pipeline"}),
		SkippedDrawCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gpuplot",
			Name:      "draw_calls_skipped_total",
			Help:      "Draw calls dropped at execution time, by reason.",
		}, []string{"reason"}),
		PointsIn: f.NewCounter(prometheus.CounterOpts{
			Namespace: "gpuplot",
			Name:      "downsample_points_in_total",
			Help:      "Points offered to the downsampler.",
		}),
		PointsOut: f.NewCounter(prometheus.CounterOpts{
			Namespace: "gpuplot",
			Name:      "downsample_points_out_total",
			Help:      "Points kept by the downsampler.",
		}),
		TargetAllocations: f.NewCounter(prometheus.CounterOpts{
			Namespace: "gpuplot",
			Name:      "offscreen_target_allocations_total",
			Help:      "Offscreen colour/depth target (re)allocations.",
		}),
		FrameBuildSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gpuplot",
			Name:      "frame_build_seconds",
			Help:      "Wall time spent building a frame.",
			Buckets:   []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066},
		}, []string{"mode"}),
	}
}

// ObserveFrame records one built frame.
func (m *Metrics) ObserveFrame(mode string, d time.Duration) {
	if m == nil {
		return
	}
	m.FramesBuilt.WithLabelValues(mode).Inc()
	m.FrameBuildSeconds.WithLabelValues(mode).Observe(d.Seconds())
}

// DrawCall counts one emitted draw call for pipeline.
func (m *Metrics) DrawCall(pipeline string) {
	if m == nil {
		return
	}
	m.DrawCalls.WithLabelValues(pipeline).Inc()
}

// Skipped counts one draw call dropped for reason.
func (m *Metrics) Skipped(reason string) {
	if m == nil {
		return
	}
	m.SkippedDrawCalls.WithLabelValues(reason).Inc()
}

// Downsampled records the in/out point counts of one reduction.
func (m *Metrics) Downsampled(in, out int) {
	if m == nil {
		return
	}
	m.PointsIn.Add(float64(in))
	m.PointsOut.Add(float64(out))
}

// TargetAllocated counts one offscreen target allocation.
func (m *Metrics) TargetAllocated() {
	if m == nil {
		return
	}
	m.TargetAllocations.Inc()
}
