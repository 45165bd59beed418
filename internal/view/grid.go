package view

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// GridLine is one axis grid position.
type GridLine struct {
	Value float64
	Major bool
}

// GridLines returns minor and major grid positions in [lo, hi]. The major
// step is range/8 snapped to 1, 2, 5 or 10 times a power of ten; minor lines
// fall every fifth of a major step.
func GridLines(lo, hi float64) []GridLine {
	span := hi - lo
	if !(span > 0) || math.IsInf(span, 0) {
		return nil
	}

	raw := span / 8
	order := math.Pow(10, math.Floor(math.Log10(raw)))
	var major float64
	switch n := raw / order; {
	case n <= 1:
		major = order
	case n <= 2:
		major = 2 * order
	case n <= 5:
		major = 5 * order
	default:
		major = 10 * order
	}
	minor := major / 5

	first := int64(math.Floor(lo / minor))
	last := int64(math.Ceil(hi / minor))
	lines := make([]GridLine, 0, last-first+1)
	for i := first; i <= last; i++ {
		v := float64(i) * minor
		if v < lo || v > hi {
			continue
		}
		isMajor := math.Abs(math.Round(v/major)*major-v) < major*0.01
		lines = append(lines, GridLine{Value: v, Major: isMajor})
	}
	return lines
}

// MajorLines filters GridLines down to the major positions.
func MajorLines(lo, hi float64) []float64 {
	var out []float64
	for _, g := range GridLines(lo, hi) {
		if g.Major {
			out = append(out, g.Value)
		}
	}
	return out
}

// FormatTick renders an axis value: scientific notation for very large or
// very small magnitudes, otherwise at most six decimals with trailing zeros
// removed.
func FormatTick(v float64) string {
	a := math.Abs(v)
	switch {
	case v == 0:
		return "0"
	case a >= 1e6 || a < 1e-3:
		s := strconv.FormatFloat(v, 'e', 2, 64)
		mant, exp, _ := strings.Cut(s, "e")
		e, err := strconv.Atoi(exp)
		if err != nil {
			return s
		}
		return mant + "e" + strconv.Itoa(e)
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// FormatTimestamp renders unix seconds as a UTC date-time, with milliseconds
// when the value has a fractional part.
func FormatTimestamp(ts float64) string {
	if math.IsNaN(ts) || math.IsInf(ts, 0) {
		return strconv.FormatFloat(ts, 'f', 3, 64)
	}
	sec := math.Floor(ts)
	nanos := int64((ts - sec) * 1e9)
	t := time.Unix(int64(sec), nanos).UTC()
	if nanos == 0 {
		return t.Format("2006-01-02 15:04:05")
	}
	return t.Format("2006-01-02 15:04:05.000")
}
