package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// dateSampleSize caps how many non-empty cells format detection tries.
const dateSampleSize = 100

// MinTimestampFraction is the share of cells that must parse before a
// column is treated as date-times.
const MinTimestampFraction = 0.7

// LayoutRFC3339 marks columns of RFC 3339 timestamps with a zone offset.
const LayoutRFC3339 = time.RFC3339Nano

// dateLayouts are tried in order after RFC 3339; the first layout with the
// best parse rate wins, so month-first beats day-first on ambiguous input.
// Fractional seconds parse without being named in a layout.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	"2/1/2006 15:04:05",
	"2006/1/2 15:04:05",
	"1-2-2006 15:04:05",
	"2-1-2006 15:04:05",
	"2006-01-02",
	"1/2/2006",
	"2/1/2006",
	"2006/1/2",
	"1-2-2006",
	"2-1-2006",
}

// Floats parses a column as numbers. Unparseable cells become NaN. frac is
// the share of cells holding a finite number.
func Floats(col []string) (vals []float64, frac float64) {
	vals = make([]float64, len(col))
	valid := 0
	for i, s := range col {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			vals[i] = math.NaN()
			continue
		}
		vals[i] = v
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			valid++
		}
	}
	if len(col) > 0 {
		frac = float64(valid) / float64(len(col))
	}
	return vals, frac
}

// DetectDateFormat picks the layout that parses the most of the first
// non-empty cells of col. ok is false when nothing parses.
func DetectDateFormat(col []string) (layout string, ok bool) {
	var sample []string
	for _, s := range col {
		if s = strings.TrimSpace(s); s != "" {
			sample = append(sample, s)
			if len(sample) == dateSampleSize {
				break
			}
		}
	}
	if len(sample) == 0 {
		return "", false
	}

	score := func(layout string) int {
		n := 0
		for _, s := range sample {
			if _, ok := ParseTimestamp(s, layout); ok {
				n++
			}
		}
		return n
	}
	best := score(LayoutRFC3339)
	if best > 0 {
		layout = LayoutRFC3339
	}
	for _, l := range dateLayouts {
		if n := score(l); n > best {
			best, layout = n, l
		}
	}
	return layout, best > 0
}

// ParseTimestamp converts s to unix seconds with millisecond precision.
// Layouts without a zone are read as UTC.
func ParseTimestamp(s, layout string) (float64, bool) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return float64(t.UnixMilli()) / 1000, true
}

// Timestamps parses col as date-times in its detected layout. ok is false
// when no layout fits or no more than MinTimestampFraction of the cells
// parse. Unparseable cells become NaN.
func Timestamps(col []string) (vals []float64, frac float64, ok bool) {
	layout, found := DetectDateFormat(col)
	if !found {
		return nil, 0, false
	}
	vals = make([]float64, len(col))
	valid := 0
	for i, s := range col {
		v, parsed := ParseTimestamp(s, layout)
		if !parsed {
			vals[i] = math.NaN()
			continue
		}
		vals[i] = v
		valid++
	}
	if len(col) > 0 {
		frac = float64(valid) / float64(len(col))
	}
	if frac <= MinTimestampFraction {
		return nil, frac, false
	}
	return vals, frac, true
}

// Logger clocks that lost power restart near the epoch. Readings at or
// below ErrorTimestampMax are treated as clock errors.
const (
	ErrorTimestampMax       = 978307199.0 // 2000-12-31T23:59:59Z
	ErrorTimestampIncrement = 10.0
)

// FixErrorTimestamps replaces timestamps below errMax+1 with estimates spaced
// increment apart. Leading errors count back from the first good value;
// later runs count forward from the value before them. A column with no
// good value counts back from errMax+1. NaN is left alone.
func FixErrorTimestamps(x []float64, errMax, increment float64) []float64 {
	out := append([]float64(nil), x...)
	n := len(out)
	threshold := errMax + 1
	bad := func(v float64) bool { return v < threshold }

	j := 0
	for j < n && bad(out[j]) {
		j++
	}
	if j > 0 {
		first := threshold
		if j < n {
			first = out[j]
		}
		for i := j - 1; i >= 0; i-- {
			out[i] = first - increment*float64(j-i)
		}
	}

	for i := j; i < n; {
		if !bad(out[i]) {
			i++
			continue
		}
		start := i
		for i < n && bad(out[i]) {
			i++
		}
		base := out[start-1]
		for k := start; k < i; k++ {
			out[k] = base + increment*float64(k-start+1)
		}
	}
	return out
}
