package downsample

import "sort"

// VisibleRange returns the half-open index range of non-decreasing x that
// covers [vmin, vmax], widened by one point on each side so lines reach the
// viewport edge. ok is false when x is not sorted.
func VisibleRange(x []float64, vmin, vmax float64) (start, end int, ok bool) {
	if !sort.Float64sAreSorted(x) {
		return 0, 0, false
	}
	n := len(x)
	start = sort.Search(n, func(i int) bool { return x[i] >= vmin }) - 1
	if start < 0 {
		start = 0
	}
	end = sort.Search(n, func(i int) bool { return x[i] > vmax }) + 1
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return start, end, true
}

// ForView returns the points needed to draw x/y inside [vmin, vmax] using at
// most maxPoints points. Sorted x is sliced by binary search; unsorted x is
// filtered linearly. LTTB runs only when the visible slice exceeds the budget.
func ForView(x, y []float64, vmin, vmax float64, maxPoints int) (ox, oy []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n == 0 {
		return []float64{}, []float64{}
	}
	x, y = x[:n], y[:n]

	var vx, vy []float64
	if start, end, ok := VisibleRange(x, vmin, vmax); ok {
		vx, vy = x[start:end], y[start:end]
	} else {
		for i, xv := range x {
			if xv >= vmin && xv <= vmax {
				vx = append(vx, xv)
				vy = append(vy, y[i])
			}
		}
	}

	if len(vx) <= maxPoints {
		return append([]float64(nil), vx...), append([]float64(nil), vy...)
	}
	return LTTB(vx, vy, maxPoints)
}
