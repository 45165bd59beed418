package ingest

import (
	"fmt"
	"strings"

	"github.com/banshee-data/gpuplot/internal/graph"
	"github.com/banshee-data/gpuplot/internal/monitoring"
	"github.com/banshee-data/gpuplot/internal/series"
	"github.com/banshee-data/gpuplot/internal/units"
)

// Selection names the columns to plot: one x, one or more y, and an
// optional z that switches the graph to 3D.
type Selection struct {
	X string
	Y []string
	Z string
}

// XColumn is a resolved x axis.
type XColumn struct {
	Values   []float64
	DateTime bool
}

// ResolveX decides how to read the x column. Numeric columns are used as
// they are; a column named like a time is flagged as a date-time axis. A
// column that parses as dates is converted and repaired with
// FixErrorTimestamps. Anything else falls back to row numbers.
func ResolveX(name string, col []string) XColumn {
	lower := strings.ToLower(name)
	timeNamed := strings.Contains(lower, "time") || strings.Contains(lower, "date")

	if nums, frac := Floats(col); frac > MinTimestampFraction {
		return XColumn{Values: nums, DateTime: timeNamed}
	}
	if ts, _, ok := Timestamps(col); ok {
		return XColumn{Values: FixErrorTimestamps(ts, ErrorTimestampMax, ErrorTimestampIncrement), DateTime: true}
	}
	if timeNamed {
		nums, _ := Floats(col)
		return XColumn{Values: nums}
	}
	idx := make([]float64, len(col))
	for i := range idx {
		idx[i] = float64(i)
	}
	return XColumn{Values: idx}
}

// Import adds one series per selected y column to g and returns them.
// Rows with a non-finite coordinate are dropped; a column left with no
// rows is skipped. An empty graph also takes its title and x axis from the
// selection.
func Import(g *graph.Graph, t *Table, sel Selection) ([]*series.Series, error) {
	xcol, ok := t.Column(sel.X)
	if !ok {
		return nil, fmt.Errorf("column %q not found", sel.X)
	}
	if len(sel.Y) == 0 {
		return nil, fmt.Errorf("no y columns selected")
	}
	ycols := make([][]string, len(sel.Y))
	for i, name := range sel.Y {
		if ycols[i], ok = t.Column(name); !ok {
			return nil, fmt.Errorf("column %q not found", name)
		}
	}
	var z []float64
	if sel.Z != "" {
		zcol, ok := t.Column(sel.Z)
		if !ok {
			return nil, fmt.Errorf("column %q not found", sel.Z)
		}
		z, _ = Floats(zcol)
	}

	x := ResolveX(sel.X, xcol)
	if len(g.Series) == 0 {
		g.XIsDateTime = x.DateTime
		g.XName = sel.X
		if len(sel.Y) == 1 {
			g.Title = fmt.Sprintf("%s vs. %s", sel.X, sel.Y[0])
		} else {
			g.Title = fmt.Sprintf("%s vs. Multiple Data", sel.X)
		}
	}
	if z != nil {
		g.Mode = graph.Mode3D
	}

	var added []*series.Series
	for i, name := range sel.Y {
		y, _ := Floats(ycols[i])
		unit := units.Infer(name)
		label := fmt.Sprintf("%s (%s)", name, unit)

		s := series.New3D(label, x.Values, y, z, unit)
		if s.Len() == 0 {
			monitoring.Logf("ingest: column %q has no finite rows, skipped", name)
			continue
		}
		if d := s.Dropped(); d > 0 {
			monitoring.Logf("ingest: column %q: dropped %d non-finite rows", name, d)
		}
		g.AddSeries(s)
		added = append(added, s)
	}
	return added, nil
}
