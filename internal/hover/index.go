// Package hover finds the plotted point nearest to the pointer.
package hover

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// Point is one plotted point in screen pixels, tagged with where it came from.
type Point struct {
	X, Y   float64
	Series int
	Index  int
}

// Compare implements kdtree.Comparable.
func (p Point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(Point)
	if d == 0 {
		return p.X - q.X
	}
	return p.Y - q.Y
}

// Dims implements kdtree.Comparable.
func (p Point) Dims() int { return 2 }

// Distance returns the squared euclidean distance.
func (p Point) Distance(c kdtree.Comparable) float64 {
	q := c.(Point)
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

type points []Point

func (p points) Index(i int) kdtree.Comparable { return p[i] }
func (p points) Len() int                      { return len(p) }
func (p points) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}

func (p points) Pivot(d kdtree.Dim) int {
	pl := plane{points: p, dim: d}
	return kdtree.Partition(pl, kdtree.MedianOfMedians(pl))
}

// plane sorts points along one dimension for pivot selection.
type plane struct {
	points
	dim kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	if p.dim == 0 {
		return p.points[i].X < p.points[j].X
	}
	return p.points[i].Y < p.points[j].Y
}

func (p plane) Swap(i, j int) { p.points[i], p.points[j] = p.points[j], p.points[i] }

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{points: p.points[start:end], dim: p.dim}
}

// Index is a static KD-tree over one frame's plotted points.
type Index struct {
	tree *kdtree.Tree
	n    int
}

// Build indexes pts, skipping non-finite positions. pts is reordered.
func Build(pts []Point) *Index {
	kept := pts[:0]
	for _, p := range pts {
		if !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return &Index{}
	}
	return &Index{tree: kdtree.New(points(kept), false), n: len(kept)}
}

// Len returns the number of indexed points.
func (ix *Index) Len() int { return ix.n }

// Nearest returns the point closest to (x, y) and its distance in pixels,
// if one lies within radius.
func (ix *Index) Nearest(x, y, radius float64) (Point, float64, bool) {
	if ix == nil || ix.tree == nil {
		return Point{}, 0, false
	}
	c, d2 := ix.tree.Nearest(Point{X: x, Y: y})
	if c == nil {
		return Point{}, 0, false
	}
	d := math.Sqrt(d2)
	if d > radius {
		return Point{}, d, false
	}
	return c.(Point), d, true
}
