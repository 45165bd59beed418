// Package testutil provides shared sample series for tests.
package testutil

import "math"

// Sine returns n samples of sin(i/period) at x = 0, 1, 2, ...
func Sine(n int, period float64) (x, y []float64) {
	x = make([]float64, n)
	y = make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = math.Sin(float64(i) / period)
	}
	return x, y
}

// Line returns n samples of y = x starting at zero.
func Line(n int) (x, y []float64) {
	x = make([]float64, n)
	y = make([]float64, n)
	for i := range x {
		x[i] = float64(i)
		y[i] = float64(i)
	}
	return x, y
}

// WithGaps returns a copy of y with NaN at every index in idx.
func WithGaps(y []float64, idx ...int) []float64 {
	out := append([]float64(nil), y...)
	for _, i := range idx {
		if i >= 0 && i < len(out) {
			out[i] = math.NaN()
		}
	}
	return out
}
