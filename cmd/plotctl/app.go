package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/banshee-data/gpuplot/internal/config"
	"github.com/banshee-data/gpuplot/internal/fsutil"
	"github.com/banshee-data/gpuplot/internal/graph"
	"github.com/banshee-data/gpuplot/internal/monitoring"
	"github.com/banshee-data/gpuplot/internal/series"
)

// app is the state shared by every subcommand.
type app struct {
	fs  fsutil.FileSystem
	out io.Writer

	configPath  string
	workspace   string
	graphID     int
	metricsPath string
	quiet       bool

	cfg     *config.RenderConfig
	reg     *prometheus.Registry
	metrics *monitoring.Metrics
}

// setup loads the render config and creates the metrics registry.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.out == nil {
		a.out = cmd.OutOrStdout()
	}
	if a.quiet {
		monitoring.SetLogger(nil)
	}
	a.cfg = config.DefaultRenderConfig()
	if a.configPath != "" {
		cfg, err := config.LoadRenderConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	a.reg = prometheus.NewRegistry()
	a.metrics = monitoring.NewMetrics(a.reg)
	return nil
}

// flushMetrics writes the registry in the Prometheus text format when
// --metrics is set.
func (a *app) flushMetrics(*cobra.Command, []string) error {
	if a.metricsPath == "" || a.reg == nil {
		return nil
	}
	families, err := a.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return a.fs.WriteFile(a.metricsPath, buf.Bytes(), 0o644)
}

// loadWorkspace reads the workspace file, or starts a new workspace when it
// does not exist yet.
func (a *app) loadWorkspace() (*graph.Workspace, error) {
	if !a.fs.Exists(a.workspace) {
		return graph.NewWorkspace(), nil
	}
	data, err := a.fs.ReadFile(a.workspace)
	if err != nil {
		return nil, err
	}
	ws, err := graph.LoadWorkspace(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.workspace, err)
	}
	return ws, nil
}

func (a *app) saveWorkspace(ws *graph.Workspace) error {
	var buf bytes.Buffer
	if err := ws.Save(&buf); err != nil {
		return err
	}
	return a.fs.WriteFile(a.workspace, buf.Bytes(), 0o644)
}

// selectedGraph returns the graph chosen with --graph.
func (a *app) selectedGraph(ws *graph.Workspace) (*graph.Graph, error) {
	g, ok := ws.Graph(a.graphID)
	if !ok {
		return nil, fmt.Errorf("graph %d not found", a.graphID)
	}
	return g, nil
}

// findSeries matches a series by id, then by exact label, then by label
// prefix when exactly one series has it.
func findSeries(g *graph.Graph, name string) (*series.Series, error) {
	if s, ok := g.Find(name); ok {
		return s, nil
	}
	var prefixed []*series.Series
	for _, s := range g.Series {
		if s.Label == name {
			return s, nil
		}
		if strings.HasPrefix(s.Label, name) {
			prefixed = append(prefixed, s)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], nil
	}
	if len(prefixed) > 1 {
		return nil, fmt.Errorf("series %q is ambiguous in graph %d", name, g.ID)
	}
	return nil, fmt.Errorf("series %q not found in graph %d", name, g.ID)
}
