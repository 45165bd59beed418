// Package align joins two series on nearby x values and combines their y
// values arithmetically.
package align

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/gpuplot/internal/series"
)

// Op is the arithmetic applied to each matched pair.
type Op int

const (
	Add Op = iota
	Subtract
	Multiply
	Divide
)

// Symbol returns the operator glyph used in derived labels.
func (op Op) Symbol() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	}
	return "?"
}

// Label returns a menu-style description.
func (op Op) Label() string {
	switch op {
	case Add:
		return "Add (+)"
	case Subtract:
		return "Subtract (-)"
	case Multiply:
		return "Multiply (×)"
	case Divide:
		return "Divide (÷)"
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// ParseOp accepts add, subtract, multiply, divide or their symbols.
func ParseOp(s string) (Op, error) {
	switch s {
	case "add", "+":
		return Add, nil
	case "subtract", "sub", "-":
		return Subtract, nil
	case "multiply", "mul", "*", "×":
		return Multiply, nil
	case "divide", "div", "/", "÷":
		return Divide, nil
	}
	return Add, fmt.Errorf("unknown operation %q", s)
}

func (op Op) apply(a, b float64) float64 {
	switch op {
	case Add:
		return a + b
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	case Divide:
		if math.Abs(b) < epsilon {
			return math.NaN()
		}
		return a / b
	}
	return math.NaN()
}

// epsilon is the float64 machine epsilon (2^-52).
const epsilon = 2.220446049250313e-16

var (
	// ErrNoMatch is returned when no x value of the first series lies within
	// tolerance of any x value of the second.
	ErrNoMatch = errors.New("no matching x-values found")
	// ErrLengthMismatch is returned when a series has different x and y lengths.
	ErrLengthMismatch = errors.New("x and y lengths differ")
)

// AlignmentError carries the input sizes of a failed join.
type AlignmentError struct {
	Len1, Len2 int
	Tolerance  float64
	Err        error
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("align %d with %d points (tolerance %g): %v", e.Len1, e.Len2, e.Tolerance, e.Err)
}

func (e *AlignmentError) Unwrap() error { return e.Err }

// Result is the joined series. Y may hold NaN where a division hit a zero denominator.
type Result struct {
	X             []float64
	Y             []float64
	MatchedCount  int
	TotalPossible int
}

// Align walks x1 in order and pairs each point with the nearest x2 value.
// A pair is kept when the x distance is at most tol. When two candidates are
// equally near, the smaller x2 wins.
func Align(x1, y1, x2, y2 []float64, op Op, tol float64) (*Result, error) {
	if len(x1) != len(y1) || len(x2) != len(y2) {
		return nil, &AlignmentError{Len1: len(x1), Len2: len(x2), Tolerance: tol, Err: ErrLengthMismatch}
	}

	order := make([]int, len(x2))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return x2[order[a]] < x2[order[b]] })
	sorted := make([]float64, len(order))
	for i, j := range order {
		sorted[i] = x2[j]
	}

	res := &Result{}
	for i, xv := range x1 {
		pos := sort.SearchFloat64s(sorted, xv)

		best, bestDiff := -1, math.Inf(1)
		for _, c := range [2]int{pos - 1, pos} {
			if c < 0 || c >= len(sorted) {
				continue
			}
			if d := math.Abs(sorted[c] - xv); d < bestDiff {
				best, bestDiff = order[c], d
			}
		}
		if best < 0 || bestDiff > tol {
			continue
		}
		res.X = append(res.X, xv)
		res.Y = append(res.Y, op.apply(y1[i], y2[best]))
		res.MatchedCount++
	}

	if res.MatchedCount == 0 {
		return nil, &AlignmentError{Len1: len(x1), Len2: len(x2), Tolerance: tol, Err: ErrNoMatch}
	}
	res.TotalPossible = min(len(x1), len(x2))
	return res, nil
}

// Derive combines two series into a new one labelled "A op B". Add and
// subtract keep a's unit; multiply and divide compose the units.
func Derive(a, b *series.Series, op Op, tol float64) (*series.Series, *Result, error) {
	res, err := Align(a.X, a.Y, b.X, b.Y, op, tol)
	if err != nil {
		return nil, nil, fmt.Errorf("derive %q %s %q: %w", a.Label, op.Symbol(), b.Label, err)
	}

	unit := a.Unit
	switch op {
	case Multiply:
		unit = a.Unit + "·" + b.Unit
	case Divide:
		unit = a.Unit + "/" + b.Unit
	}

	out := series.Derived(fmt.Sprintf("%s %s %s", a.Label, op.Symbol(), b.Label), res.X, res.Y, unit)
	out.Style = a.Style
	return out, res, nil
}
