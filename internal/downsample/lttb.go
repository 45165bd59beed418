// Package downsample reduces large x/y series to a display budget while
// keeping their visual shape.
package downsample

import "math"

// LTTB reduces x/y to at most target points with Largest-Triangle-Three-Buckets.
// Inputs at or under the budget, or a budget below 3, are returned as copies.
// The first and last points are always kept and output x order follows input order.
func LTTB(x, y []float64, target int) (ox, oy []float64) {
	idx := LTTBIndices(x, y, target)
	ox = make([]float64, len(idx))
	oy = make([]float64, len(idx))
	for i, j := range idx {
		ox[i] = x[j]
		oy[i] = y[j]
	}
	return ox, oy
}

// LTTBIndices returns the strictly increasing source indices LTTB keeps.
func LTTBIndices(x, y []float64, target int) []int {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n <= target || target < 3 {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}

	out := make([]int, 0, target)
	out = append(out, 0)

	// n > target, so every bucket holds at least one point.
	bound := func(i int) int { return i*(n-2)/(target-2) + 1 }

	a := 0
	for i := 0; i < target-2; i++ {
		start, end := bound(i), bound(i+1)
		if end > n-1 {
			end = n - 1
		}

		// Centroid of the following bucket; for the last bucket that is the final point.
		nextStart, nextEnd := end, bound(i+2)
		if nextEnd > n {
			nextEnd = n
		}
		if nextStart >= nextEnd {
			nextStart, nextEnd = n-1, n
		}
		var cx, cy float64
		for j := nextStart; j < nextEnd; j++ {
			cx += x[j]
			cy += y[j]
		}
		cnt := float64(nextEnd - nextStart)
		cx /= cnt
		cy /= cnt

		ax, ay := x[a], y[a]
		best, bestArea := start, -1.0
		for j := start; j < end; j++ {
			// Doubled triangle area; the factor of one half does not change the argmax.
			area := math.Abs((ax-cx)*(y[j]-ay) - (ax-x[j])*(cy-ay))
			if area > bestArea {
				bestArea = area
				best = j
			}
		}
		out = append(out, best)
		a = best
	}

	return append(out, n-1)
}
