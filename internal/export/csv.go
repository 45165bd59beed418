package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/banshee-data/gpuplot/internal/graph"
	"github.com/banshee-data/gpuplot/internal/view"
)

// WriteCSV writes one row per sample index: the x value of the first series
// followed by each series' y. Series shorter than the longest leave their
// cells empty, as do non-finite values. Date-time x values are written as
// UTC timestamps.
func WriteCSV(w io.Writer, g *graph.Graph) error {
	if len(g.Series) == 0 {
		return ErrNoSeries
	}
	cw := csv.NewWriter(w)

	xName := g.XName
	if xName == "" {
		xName = "X"
	}
	header := []string{xName}
	rows := 0
	for _, s := range g.Series {
		header = append(header, s.Label)
		rows = max(rows, s.Len())
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	first := g.Series[0]
	record := make([]string, len(header))
	for i := 0; i < rows; i++ {
		x := math.NaN()
		if i < first.Len() {
			x = first.X[i]
		}
		if g.XIsDateTime {
			record[0] = view.FormatTimestamp(x)
		} else {
			record[0] = strconv.FormatFloat(x, 'f', -1, 64)
		}
		for j, s := range g.Series {
			record[j+1] = ""
			if i < s.Len() && !math.IsNaN(s.Y[i]) && !math.IsInf(s.Y[i], 0) {
				record[j+1] = strconv.FormatFloat(s.Y[i], 'f', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
