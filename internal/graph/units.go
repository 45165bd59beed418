package graph

import (
	"math"

	"github.com/banshee-data/gpuplot/internal/series"
)

// UnitRange maps one unit's y values into the shared [0, 1] band used when a
// plot mixes units.
type UnitRange struct {
	Unit     string
	Min, Max float64
}

// Normalize maps y into the band. A zero-width range maps everything to 0.5.
func (r UnitRange) Normalize(y float64) float64 {
	span := r.Max - r.Min
	if math.Abs(span) < 1e-15 {
		return 0.5
	}
	return (y - r.Min) / span
}

// Denormalize is the inverse of Normalize.
func (r UnitRange) Denormalize(n float64) float64 {
	return n*(r.Max-r.Min) + r.Min
}

// UnitRanges computes a padded y range per unit over every visible series of
// that unit. A flat unit is padded by 1; a unit without finite values gets
// [0, 1].
func UnitRanges(list []*series.Series, units []string) []UnitRange {
	out := make([]UnitRange, len(units))
	for i, u := range units {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, s := range list {
			if !s.Visible || s.Unit != u {
				continue
			}
			if a, b, ok := s.YRange(); ok {
				lo, hi = math.Min(lo, a), math.Max(hi, b)
			}
		}
		if !(lo <= hi) {
			out[i] = UnitRange{Unit: u, Min: 0, Max: 1}
			continue
		}
		span := hi - lo
		pad := span * 0.05
		if math.Abs(span) < 1e-15 {
			pad = 1
		}
		out[i] = UnitRange{Unit: u, Min: lo - pad, Max: hi + pad}
	}
	return out
}

// RangeFor finds the range of unit.
func RangeFor(ranges []UnitRange, unit string) (UnitRange, bool) {
	for _, r := range ranges {
		if r.Unit == unit {
			return r, true
		}
	}
	return UnitRange{}, false
}

// UnitRanges returns the ranges of g's visible units, or nil when g shows a
// single unit.
func (g *Graph) UnitRanges() []UnitRange {
	if !g.MultiUnit() {
		return nil
	}
	return UnitRanges(g.Series, g.Units())
}
