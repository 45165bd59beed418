// Package stats summarises the finite y values of a series.
package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds descriptive statistics. StdDev is the population standard deviation.
type Summary struct {
	Count      int
	Min        float64
	Max        float64
	PeakToPeak float64
	Mean       float64
	Median     float64
	StdDev     float64
}

// Compute summarises the finite values of y. ok is false when none remain.
func Compute(y []float64) (Summary, bool) {
	vals := make([]float64, 0, len(y))
	for _, v := range y {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return Summary{}, false
	}

	s := Summary{Count: len(vals)}
	s.Min = floats.Min(vals)
	s.Max = floats.Max(vals)
	s.PeakToPeak = s.Max - s.Min

	mean, variance := stat.PopMeanVariance(vals, nil)
	s.Mean = mean
	s.StdDev = math.Sqrt(variance)

	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 0 {
		s.Median = (vals[n/2-1] + vals[n/2]) / 2
	} else {
		s.Median = vals[n/2]
	}
	return s, true
}

// Report formats the summary as an indented block under label.
func (s Summary) Report(label string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", label)
	fmt.Fprintf(&b, "  Count: %d\n", s.Count)
	fmt.Fprintf(&b, "  Min: %.3f\n", s.Min)
	fmt.Fprintf(&b, "  Max: %.3f\n", s.Max)
	fmt.Fprintf(&b, "  Peak-to-Peak: %.3f\n", s.PeakToPeak)
	fmt.Fprintf(&b, "  Mean: %.3f\n", s.Mean)
	fmt.Fprintf(&b, "  Median: %.3f\n", s.Median)
	fmt.Fprintf(&b, "  Std Dev: %.3f\n", s.StdDev)
	return b.String()
}
