package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gpuplot/internal/config"
	"github.com/banshee-data/gpuplot/internal/fsutil"
	"github.com/banshee-data/gpuplot/internal/graph"
	"github.com/banshee-data/gpuplot/internal/monitoring"
	"github.com/banshee-data/gpuplot/internal/security"
	"github.com/banshee-data/gpuplot/internal/series"
	"github.com/banshee-data/gpuplot/internal/testutil"
)

func testGraph() *graph.Graph {
	g := graph.New(1, "Time vs. Temp")
	g.XName = "t"
	g.AddSeries(series.New("alpha", []float64{0, 1, 2}, []float64{1.5, 2, 3}, "V"))
	g.AddSeries(series.New("b, raw", []float64{0, 1}, []float64{10, 20}, "V"))
	return g
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"PNG": FormatPNG, ".svg": FormatSVG, "csv": FormatCSV, "html": FormatHTML, "pdf": FormatPDF} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xls")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testGraph()))
	assert.Equal(t, "t,alpha,\"b, raw\"\n0,1.5,10\n1,2,20\n2,3,\n", buf.String())
}

func TestWriteCSV_DateTimeAndGaps(t *testing.T) {
	g := graph.New(2, "")
	g.XIsDateTime = true
	g.AddSeries(series.Derived("d", []float64{1.7e9, 1.7e9 + 0.5}, testutil.WithGaps([]float64{0, 4}, 0), ""))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, g))
	assert.Equal(t, "X,d\n2023-11-14 22:13:20,\n2023-11-14 22:13:20.500,4\n", buf.String())

	assert.True(t, errors.Is(WriteCSV(&buf, graph.New(3, "")), ErrNoSeries))
}

func TestWriteImage(t *testing.T) {
	g := testGraph()
	g.Series[1].Style = series.StyleStep
	g.AddSeries(series.New("amps", []float64{0, 1, 2}, []float64{0.1, 0.3, 0.2}, "A"))
	g.Series[2].Style = series.StylePoints
	o := DefaultOptions(nil)

	tests := []struct {
		format Format
		prefix string
	}{
		{FormatPNG, "\x89PNG"},
		{FormatPDF, "%PDF"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteImage(&buf, g, tt.format, o))
			assert.True(t, strings.HasPrefix(buf.String(), tt.prefix))
		})
	}

	var svg bytes.Buffer
	g.XIsDateTime = true
	require.NoError(t, WriteImage(&svg, g, FormatSVG, o))
	assert.Contains(t, svg.String(), "<svg")
	assert.Contains(t, svg.String(), "amps")
}

func TestWriteImage_NothingVisible(t *testing.T) {
	g := testGraph()
	for _, s := range g.Series {
		s.Visible = false
	}
	err := WriteImage(&bytes.Buffer{}, g, FormatPNG, DefaultOptions(nil))
	assert.True(t, errors.Is(err, ErrNoSeries))
}

func TestWriteHTML(t *testing.T) {
	g := testGraph()
	g.XIsDateTime = true
	g.AddSeries(series.New("amps", []float64{0, 1}, []float64{1, 2}, "A"))
	g.Series[2].Style = series.StylePoints

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, g, DefaultOptions(nil)))
	out := buf.String()
	assert.Contains(t, out, "echarts")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "amps")
	assert.Contains(t, out, `"type":"time"`)
}

func TestStepPoints(t *testing.T) {
	got := stepPoints([][2]float64{{0, 1}, {1, 2}, {3, 0}})
	assert.Equal(t, [][2]float64{{0, 1}, {1, 1}, {1, 2}, {3, 2}, {3, 0}}, got)
	assert.Len(t, stepPoints([][2]float64{{0, 1}}), 1)
}

func TestHTMLPoints_Downsamples(t *testing.T) {
	x, y := testutil.Sine(500, 10)
	pts := htmlPoints(series.New("s", x, y, ""), 50, true)
	assert.Len(t, pts, 50)
	assert.Equal(t, 0.0, pts[0][0])
	assert.Equal(t, 499000.0, pts[49][0])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Time_vs._Temp.png", Filename(testGraph(), FormatPNG))
	assert.Equal(t, "graph_3.csv", Filename(graph.New(3, ""), FormatCSV))
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions(nil)
	assert.Equal(t, series.ThemeDark, o.Theme)
	assert.Equal(t, 10000, o.MaxPoints)

	cfg := config.EmptyRenderConfig()
	light := "light"
	points := 500
	cfg.Theme = &light
	cfg.MaxDisplayPoints = &points
	o = DefaultOptions(cfg)
	assert.Equal(t, series.ThemeLight, o.Theme)
	assert.Equal(t, 500, o.MaxPoints)
}

func TestExporter_Save(t *testing.T) {
	lines, restore := monitoring.Capture()
	defer restore()

	fsys := fsutil.NewMemoryFileSystem()
	e := NewExporter(fsys, "exports", DefaultOptions(nil))

	path, err := e.Save(testGraph(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "exports/Time_vs._Temp.csv", path)
	assert.Equal(t, []string{path}, fsys.Files("exports"))

	data, err := fsys.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "t,alpha"))
	require.Len(t, *lines, 1)
	assert.Equal(t, "export: wrote exports/Time_vs._Temp.csv (38 bytes)", (*lines)[0])

	_, err = e.SaveAs(testGraph(), FormatCSV, "../escape.csv")
	assert.True(t, errors.Is(err, security.ErrPathEscape))

	_, err = e.Save(graph.New(9, "empty"), FormatPNG)
	assert.True(t, errors.Is(err, ErrNoSeries))
	assert.False(t, fsys.Exists("exports/empty.png"))
}
