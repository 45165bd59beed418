package render3d

import (
	"math"

	"github.com/banshee-data/gpuplot/internal/series"
)

// Bounds is the data-space box mapped onto the [-1, 1]^3 scene cube.
type Bounds struct {
	Min, Max [3]float64
}

// DataBounds returns the box around every visible series. z comes only from
// series that carry it. An axis with no data spans [-1, 1]; a flat axis is
// widened by 0.5 each way.
func DataBounds(list []*series.Series) Bounds {
	var b Bounds
	for i := range b.Min {
		b.Min[i], b.Max[i] = math.Inf(1), math.Inf(-1)
	}
	grow := func(axis int, vs []float64) {
		for _, v := range vs {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				b.Min[axis] = math.Min(b.Min[axis], v)
				b.Max[axis] = math.Max(b.Max[axis], v)
			}
		}
	}
	for _, s := range list {
		if !s.Visible {
			continue
		}
		grow(0, s.X)
		grow(1, s.Y)
		if s.HasZ() {
			grow(2, s.Z)
		}
	}

	for i := range b.Min {
		if math.IsInf(b.Min[i], 0) || math.IsInf(b.Max[i], 0) {
			b.Min[i], b.Max[i] = -1, 1
		}
		if math.Abs(b.Max[i]-b.Min[i]) < 1e-12 {
			b.Min[i] -= 0.5
			b.Max[i] += 0.5
		}
	}
	return b
}

// Normalize maps a data point into the scene cube as a homogeneous position.
func (b Bounds) Normalize(x, y, z float64) [4]float32 {
	n := func(axis int, v float64) float32 {
		return float32((v-b.Min[axis])/(b.Max[axis]-b.Min[axis])*2 - 1)
	}
	return [4]float32{n(0, x), n(1, y), n(2, z), 1}
}

// At returns the data value at fraction t along axis.
func (b Bounds) At(axis int, t float64) float64 {
	return b.Min[axis] + t*(b.Max[axis]-b.Min[axis])
}

// gridDivisions is the number of cells per cube edge.
const gridDivisions = 5

var (
	cubeCorners = [8][3]float32{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	cubeEdges = [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
)

// GridSegments returns the wireframe cube and its interior lines as line
// pairs in scene space: the 12 edges, then per interior division an
// x-parallel and z-parallel line on the floor, a vertical line on the back
// wall and a tick line on the left wall.
func GridSegments() [][4]float32 {
	out := make([][4]float32, 0, 2*(12+4*(gridDivisions-1)))
	for _, e := range cubeEdges {
		a, b := cubeCorners[e[0]], cubeCorners[e[1]]
		out = append(out, [4]float32{a[0], a[1], a[2], 1}, [4]float32{b[0], b[1], b[2], 1})
	}
	for i := 1; i < gridDivisions; i++ {
		t := -1 + float32(i)/gridDivisions*2
		out = append(out,
			[4]float32{t, -1, -1, 1}, [4]float32{t, -1, 1, 1},
			[4]float32{-1, -1, t, 1}, [4]float32{1, -1, t, 1},
			[4]float32{t, -1, -1, 1}, [4]float32{t, 1, -1, 1},
			[4]float32{-1, t, -1, 1}, [4]float32{-1, t, 1, 1},
		)
	}
	return out
}
