package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/banshee-data/gpuplot/internal/fsutil"
)

// ErrUnsupportedFormat is returned for extensions other than .csv and .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Load reads path from fsys, choosing the reader by extension.
func Load(fsys fsutil.FileSystem, path string) (*Table, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".xlsx" {
		return nil, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var t *Table
	if ext == ".csv" {
		t, err = ReadCSV(bytes.NewReader(data))
	} else {
		t, err = ReadXLSX(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
