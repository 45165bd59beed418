// Package export writes a graph out as CSV data, a static image or an
// interactive HTML chart.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/gpuplot/internal/config"
	"github.com/banshee-data/gpuplot/internal/fsutil"
	"github.com/banshee-data/gpuplot/internal/graph"
	"github.com/banshee-data/gpuplot/internal/monitoring"
	"github.com/banshee-data/gpuplot/internal/security"
	"github.com/banshee-data/gpuplot/internal/series"
)

// Format is an export file type, named by its extension.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatPNG, FormatSVG, FormatPDF, FormatHTML}

// ErrNoSeries is returned for graphs with nothing to export.
var ErrNoSeries = errors.New("graph has no series")

// ParseFormat accepts a format name or extension, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(s), "."))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Options shape image and HTML output.
type Options struct {
	Theme     series.Theme
	Width     vg.Length
	Height    vg.Length
	MaxPoints int
}

// DefaultOptions sizes images like a wide screen plot and takes the point
// budget and theme from cfg.
func DefaultOptions(cfg *config.RenderConfig) Options {
	if cfg == nil {
		cfg = config.DefaultRenderConfig()
	}
	theme, err := series.ParseTheme(cfg.GetTheme())
	if err != nil {
		monitoring.Logf("export: %v, using dark", err)
	}
	return Options{
		Theme:     theme,
		Width:     14 * vg.Inch,
		Height:    6 * vg.Inch,
		MaxPoints: cfg.GetMaxDisplayPoints(),
	}
}

// Write renders g to w in format f.
func Write(w io.Writer, g *graph.Graph, f Format, o Options) error {
	if len(g.Series) == 0 {
		return ErrNoSeries
	}
	switch f {
	case FormatCSV:
		return WriteCSV(w, g)
	case FormatPNG, FormatSVG, FormatPDF:
		return WriteImage(w, g, f, o)
	case FormatHTML:
		return WriteHTML(w, g, o)
	}
	return fmt.Errorf("unknown export format %q", string(f))
}

// Filename derives the output name for g from its title.
func Filename(g *graph.Graph, f Format) string {
	title := g.Title
	if title == "" {
		title = fmt.Sprintf("graph %d", g.ID)
	}
	return security.SanitizeFilename(strings.ReplaceAll(title, " ", "_")) + "." + string(f)
}

// Exporter saves graphs into one output directory.
type Exporter struct {
	fs   fsutil.FileSystem
	dir  string
	opts Options
}

// NewExporter returns an exporter writing below dir through fsys.
func NewExporter(fsys fsutil.FileSystem, dir string, o Options) *Exporter {
	return &Exporter{fs: fsys, dir: dir, opts: o}
}

// Save writes g in format f under a name derived from its title and
// returns the path written. An existing file of that name is replaced.
func (e *Exporter) Save(g *graph.Graph, f Format) (string, error) {
	return e.SaveAs(g, f, Filename(g, f))
}

// SaveAs is Save with an explicit file name, which must stay inside the
// exporter's directory.
func (e *Exporter) SaveAs(g *graph.Graph, f Format, name string) (string, error) {
	path, err := security.WithinDirectory(e.dir, name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := Write(&buf, g, f, e.opts); err != nil {
		return "", fmt.Errorf("export graph %d: %w", g.ID, err)
	}
	if err := e.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := e.fs.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	monitoring.Logf("export: wrote %s (%d bytes)", path, buf.Len())
	return path, nil
}
