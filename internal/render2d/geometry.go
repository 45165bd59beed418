package render2d

import "math"

// LinePairs turns a polyline into the [start, end] pairs the line pipeline
// draws, one instance per pair. Fewer than two points yield nil.
func LinePairs(pts [][2]float32) [][2]float32 {
	if len(pts) < 2 {
		return nil
	}
	out := make([][2]float32, 0, (len(pts)-1)*2)
	for i := 0; i+1 < len(pts); i++ {
		out = append(out, pts[i], pts[i+1])
	}
	return out
}

// StepExpand inserts the corner (p1.x, p0.y) between every adjacent pair,
// so the polyline holds its value until the next sample.
func StepExpand(pts [][2]float32) [][2]float32 {
	if len(pts) < 2 {
		return pts
	}
	out := make([][2]float32, 0, len(pts)*2-1)
	for i := 0; i+1 < len(pts); i++ {
		out = append(out, pts[i], [2]float32{pts[i+1][0], pts[i][1]})
	}
	return append(out, pts[len(pts)-1])
}

// SegmentQuad returns the six pixel-space vertices the line shader emits for
// a segment from p0 to p1 of the given width. A segment shorter than 0.001px
// is widened vertically.
func SegmentQuad(p0, p1 [2]float64, width float64) [6][2]float64 {
	dx, dy := p1[0]-p0[0], p1[1]-p0[1]
	l := math.Hypot(dx, dy)
	nx, ny := 0.0, width/2
	if l > 0.001 {
		nx, ny = -dy/l*width/2, dx/l*width/2
	}
	off := func(p [2]float64, side float64) [2]float64 {
		return [2]float64{p[0] + nx*side, p[1] + ny*side}
	}
	return [6][2]float64{
		off(p0, 1), off(p0, -1), off(p1, 1),
		off(p0, -1), off(p1, -1), off(p1, 1),
	}
}

// MarkerCoverage is the alpha factor the point shader applies at quad
// coordinate (u, v) in [-1, 1]^2. ok is false where the fragment is
// discarded.
func MarkerCoverage(u, v float64) (alpha float64, ok bool) {
	r := math.Hypot(u, v)
	if r > 1 {
		return 0, false
	}
	return 1 - smoothstep(0.8, 1, r), true
}

func smoothstep(e0, e1, x float64) float64 {
	t := math.Max(0, math.Min(1, (x-e0)/(e1-e0)))
	return t * t * (3 - 2*t)
}
