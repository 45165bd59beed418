// Package ingest reads CSV and Excel files into string columns and turns
// chosen columns into plot series.
package ingest

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// headerScanRows bounds how many leading rows header detection looks at.
const headerScanRows = 50

// ErrNoData is returned when a file holds no rows below its header.
var ErrNoData = errors.New("no data found after header detection")

// Table is a loaded file: trimmed column names and column-major cells.
// Every column has exactly Rows entries; short rows are padded with "".
type Table struct {
	Columns []string
	Data    [][]string
	Rows    int
}

// Column returns the cells of the named column.
func (t *Table) Column(name string) ([]string, bool) {
	for i, c := range t.Columns {
		if c == name {
			return t.Data[i], true
		}
	}
	return nil, false
}

// newTable takes the row at header as column names and every later row as
// data.
func newTable(rows [][]string, header int) (*Table, error) {
	if len(rows) == 0 || header >= len(rows) {
		return nil, ErrNoData
	}
	t := &Table{}
	for _, name := range rows[header] {
		t.Columns = append(t.Columns, strings.TrimSpace(name))
	}
	body := rows[header+1:]
	t.Rows = len(body)
	t.Data = make([][]string, len(t.Columns))
	for c := range t.Data {
		col := make([]string, len(body))
		for r, row := range body {
			if c < len(row) {
				col[r] = row[c]
			}
		}
		t.Data[c] = col
	}
	return t, nil
}

// detectHeader returns the index of the last row within the scan window
// that has the most common width and holds only non-empty, non-numeric,
// non-date cells. Files with no such row use row 0.
func detectHeader(rows [][]string) int {
	if len(rows) > headerScanRows {
		rows = rows[:headerScanRows]
	}
	counts := map[int]int{}
	width, best := 0, 0
	for _, r := range rows {
		counts[len(r)]++
		if c := counts[len(r)]; c > best || (c == best && len(r) < width) {
			width, best = len(r), c
		}
	}

	for i := len(rows) - 1; i >= 0; i-- {
		if len(rows[i]) == width && isHeaderRow(rows[i], false) {
			return i
		}
	}
	return 0
}

// detectSheetHeader is detectHeader for spreadsheets, where ragged rows are
// normal: the header must fill every column used anywhere in the window,
// and empty cells are skipped rather than disqualifying.
func detectSheetHeader(rows [][]string) int {
	if len(rows) > headerScanRows {
		rows = rows[:headerScanRows]
	}
	used := map[int]bool{}
	for _, r := range rows {
		for c, v := range r {
			if v != "" {
				used[c] = true
			}
		}
	}

	for i := len(rows) - 1; i >= 0; i-- {
		filled := 0
		for _, v := range rows[i] {
			if v != "" {
				filled++
			}
		}
		if filled >= len(used) && isHeaderRow(rows[i], true) {
			return i
		}
	}
	return 0
}

func isHeaderRow(row []string, skipEmpty bool) bool {
	for _, cell := range row {
		v := strings.TrimSpace(cell)
		if v == "" {
			if skipEmpty {
				continue
			}
			return false
		}
		if _, err := strconv.ParseFloat(v, 64); err == nil {
			return false
		}
		if isDateLike(v) {
			return false
		}
	}
	return true
}

var dateLikeLayouts = []string{
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	"2/1/2006 15:04:05",
	"2006-01-02",
	"1/2/2006",
}

// isDateLike is a cheap check for cells that are dates rather than labels.
func isDateLike(s string) bool {
	lower := strings.ToLower(s)
	if !strings.ContainsAny(s, "/:") && !strings.Contains(lower, "am") && !strings.Contains(lower, "pm") {
		return false
	}
	for _, layout := range dateLikeLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
