package main

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banshee-data/gpuplot/internal/align"
	"github.com/banshee-data/gpuplot/internal/downsample"
	"github.com/banshee-data/gpuplot/internal/export"
	"github.com/banshee-data/gpuplot/internal/gpu"
	"github.com/banshee-data/gpuplot/internal/graph"
	"github.com/banshee-data/gpuplot/internal/ingest"
	"github.com/banshee-data/gpuplot/internal/render2d"
	"github.com/banshee-data/gpuplot/internal/render3d"
	"github.com/banshee-data/gpuplot/internal/series"
	"github.com/banshee-data/gpuplot/internal/stats"
	"github.com/banshee-data/gpuplot/internal/units"
	"github.com/banshee-data/gpuplot/internal/version"
	"github.com/banshee-data/gpuplot/internal/view"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "plotctl",
		Short: "Import, derive, render and export plot workspaces",
		Long: `plotctl loads CSV and Excel measurement files into a workspace of graphs
and works on them without a window: column arithmetic, statistics, linked
x windows, headless frame recording and export to CSV, PNG, SVG, PDF or HTML.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.flushMetrics,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.workspace, "workspace", "w", "workspace.json", "Workspace file")
	pf.IntVarP(&a.graphID, "graph", "g", 1, "Graph id to operate on")
	pf.StringVar(&a.configPath, "config", "", "Render config JSON (default: built-in defaults)")
	pf.StringVar(&a.metricsPath, "metrics", "", "Write Prometheus text metrics to this file")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "Silence diagnostic logging")

	root.AddCommand(
		columnsCmd(a),
		importCmd(a),
		graphsCmd(a),
		statsCmd(a),
		deriveCmd(a),
		convertCmd(a),
		downsampleCmd(a),
		linkCmd(a),
		unlinkCmd(a),
		windowCmd(a),
		frameCmd(a),
		exportCmd(a),
		versionCmd(a),
	)
	return root
}

func columnsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "columns FILE",
		Short: "List the columns of a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := ingest.Load(a.fs, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%d rows\n", t.Rows)
			for i, name := range t.Columns {
				kind := "text"
				if _, frac := ingest.Floats(t.Data[i]); frac > ingest.MinTimestampFraction {
					kind = "number"
				} else if layout, ok := ingest.DetectDateFormat(t.Data[i]); ok {
					if _, _, ok := ingest.Timestamps(t.Data[i]); ok {
						kind = "datetime " + layout
					}
				}
				fmt.Fprintf(a.out, "%-20s %-28s %s\n", name, kind, units.Infer(name))
			}
			return nil
		},
	}
}

func importCmd(a *app) *cobra.Command {
	var (
		sel      ingest.Selection
		newGraph bool
		style    string
	)
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add columns of a file to a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := series.ParseStyle(style)
			if err != nil {
				return err
			}
			t, err := ingest.Load(a.fs, args[0])
			if err != nil {
				return err
			}
			ws, err := a.loadWorkspace()
			if err != nil {
				return err
			}
			var g *graph.Graph
			if newGraph {
				g = ws.AddGraph("")
			} else if g, err = a.selectedGraph(ws); err != nil {
				return err
			}

			added, err := ingest.Import(g, t, sel)
			if err != nil {
				return err
			}
			for _, s := range added {
				s.Style = st
				s.LineWidth = float32(a.cfg.GetDefaultLineWidth())
			}
			if err := a.saveWorkspace(ws); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "imported %d series into graph %d (%s)\n", len(added), g.ID, g.Title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&sel.X, "x", "x", "", "X column (required)")
	cmd.Flags().StringSliceVarP(&sel.Y, "y", "y", nil, "Y columns (required)")
	cmd.Flags().StringVarP(&sel.Z, "z", "z", "", "Z column; switches the graph to 3D")
	cmd.Flags().BoolVar(&newGraph, "new-graph", false, "Import into a new graph")
	cmd.Flags().StringVar(&style, "style", "line", "Draw style: line, step or points")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")
	return cmd
}

func graphsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "graphs",
		Short: "List the graphs of the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.loadWorkspace()
			if err != nil {
				return err
			}
			for _, g := range ws.Graphs {
				link := ""
				if gid, ok := ws.SyncGroup(g.ID); ok {
					link = fmt.Sprintf(" sync=%d", gid)
				}
				fmt.Fprintf(a.out, "%d %q mode=%s series=%d%s\n", g.ID, g.Title, g.Mode, len(g.Series), link)
				for _, s := range g.Series {
					fmt.Fprintf(a.out, "  %s (%d points, %s)\n", s.Label, s.Len(), s.Style)
				}
			}
			return nil
		},
	}
}

func statsCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print descriptive statistics of a graph's series",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.loadWorkspace()
			if err != nil {
				return err
			}
			g, err := a.selectedGraph(ws)
			if err != nil {
				return err
			}
			list := g.Series
			if name != "" {
				s, err := findSeries(g, name)
				if err != nil {
					return err
				}
				list = []*series.Series{s}
			}
			for _, s := range list {
				sum, ok := stats.Compute(s.Y)
				if !ok {
					fmt.Fprintf(a.out, "%s: no finite values\n", s.Label)
					continue
				}
				fmt.Fprint(a.out, sum.Report(s.Label))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "series", "s", "", "Only this series")
	return cmd
}

func deriveCmd(a *app) *cobra.Command {
	var (
		opName string
		tol    float64
	)
	cmd := &cobra.Command{
		Use:   "derive A B",
		Short: "Combine two series point by point into a new series",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := align.ParseOp(opName)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("tolerance") {
				tol = a.cfg.GetAlignTolerance()
			}
			ws, err := a.loadWorkspace()
			if err != nil {
				return err
			}
			g, err := a.selectedGraph(ws)
			if err != nil {
				return err
			}
			sa, err := findSeries(g, args[0])
			if err != nil {
				return err
			}
			sb, err := findSeries(g, args[1])
			if err != nil {
				return err
			}
			out, res, err := align.Derive(sa, sb, op, tol)
			if err != nil {
				return err
			}
			g.AddSeries(out)
			if err := a.saveWorkspace(ws); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s: matched %d of %d points\n", out.Label, res.MatchedCount, res.TotalPossible)
			return nil
		},
	}
	cmd.Flags().StringVar(&opName, "op", "subtract", "Operation: add, subtract, multiply or divide")
	cmd.Flags().Float64Var(&tol, "tolerance", 0, "Largest x distance that still pairs two points (default from config)")
	return cmd
}

func convertCmd(a *app) *cobra.Command {
	var name, to string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a series to another unit of the same dimension",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !units.IsValid(to) {
				return fmt.Errorf("unknown unit %q", to)
			}
			ws, err := a.loadWorkspace()
			if err != nil {
				return err
			}
			g, err := a.selectedGraph(ws)
			if err != nil {
				return err
			}
			s, err := findSeries(g, name)
			if err != nil {
				return err
			}
			if err := g.ConvertSeries(s.ID, to); err != nil {
				if alt := units.Compatible(s.Unit); len(alt) > 0 {
					return fmt.Errorf("%w (compatible: %s)", err, strings.Join(alt, ", "))
				}
				return err
			}
			if err := a.saveWorkspace(ws); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s now in %s\n", s.Label, s.Unit)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "series", "s", "", "Series label or id (required)")
	cmd.Flags().StringVar(&to, "to", "", "Target unit (required)")
	_ = cmd.MarkFlagRequired("series")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func downsampleCmd(a *app) *cobra.Command {
	var (
		name     string
		points   int
		from, to float64
	)
	cmd := &cobra.Command{
		Use:   "downsample",
		Short: "Print a series reduced to a point budget as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.loadWorkspace()
			if err != nil {
				return err
			}
			g, err := a.selectedGraph(ws)
			if err != nil {
				return err
			}
			s, err := findSeries(g, name)
			if err != nil {
				return err
			}
			if points <= 0 {
				points = a.cfg.GetMaxDisplayPoints()
			}

			var x, y []float64
			if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
				lo, hi, _ := s.XRange()
				if cmd.Flags().Changed("from") {
					lo = from
				}
				if cmd.Flags().Changed("to") {
					hi = to
				}
				x, y = downsample.ForView(s.X, s.Y, lo, hi, points)
			} else {
				x, y = downsample.LTTB(s.X, s.Y, points)
			}
			a.metrics.Downsampled(s.Len(), len(x))

			w := csv.NewWriter(a.out)
			_ = w.Write([]string{"x", "y"})
			for i := range x {
				_ = w.Write([]string{strconv.FormatFloat(x[i], 'f', -1, 64), strconv.FormatFloat(y[i], 'f', -1, 64)})
			}
			w.Flush()
			return w.Error()
		},
	}
	cmd.Flags().StringVarP(&name, "series", "s", "", "Series label or id (required)")
	cmd.Flags().IntVarP(&points, "points", "n", 0, "Point budget (default from config)")
	cmd.Flags().Float64Var(&from, "from", 0, "Window start; limits output to the visible range")
	cmd.Flags().Float64Var(&to, "to", 0, "Window end")
	_ = cmd.MarkFlagRequired("series")
	return cmd
}

func linkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "link ID ID...",
		Short: "Sync the x windows of graphs",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			ws, err := a.loadWorkspace()
			if err != nil {
				return err
			}
			if err := ws.Link(ids...); err != nil {
				return err
			}
			gid, _ := ws.SyncGroup(ids[0])
			fmt.Fprintf(a.out, "sync group %d\n", gid)
			return a.saveWorkspace(ws)
		},
	}
}

func unlinkCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink ID",
		Short: "Detach a graph from its sync group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			ws, err := a.loadWorkspace()
			if err != nil {
				return err
			}
			ws.Unlink(ids[0])
			return a.saveWorkspace(ws)
		},
	}
}

func windowCmd(a *app) *cobra.Command {
	var from, to float64
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Set a graph's x window and show how it propagates to linked graphs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.loadWorkspace()
			if err != nil {
				return err
			}
			g, err := a.selectedGraph(ws)
			if err != nil {
				return err
			}
			for _, other := range ws.Graphs {
				other.View.FitToData(other.Series)
				other.View.SnapshotX()
			}
			if err := g.View.SetXRange(from, to); err != nil {
				return err
			}
			for _, p := range ws.Propagate() {
				fmt.Fprintf(a.out, "graph %d -> graph %d: x [%s, %s]\n", p.From, p.To, view.FormatTick(p.XMin), view.FormatTick(p.XMax))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&from, "from", 0, "Window start")
	cmd.Flags().Float64Var(&to, "to", 1, "Window end")
	return cmd
}

func frameCmd(a *app) *cobra.Command {
	var (
		width, height float64
		pointer       []float64
		texts         bool
	)
	cmd := &cobra.Command{
		Use:   "frame",
		Short: "Build one frame on a recording device and print its passes and draws",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.loadWorkspace()
			if err != nil {
				return err
			}
			g, err := a.selectedGraph(ws)
			if err != nil {
				return err
			}
			rect := view.Rect{Width: width, Height: height}
			dev := gpu.NewRecordingDevice()
			host := dev.HostPass("surface")

			var layer []string
			if g.Mode == graph.Mode3D {
				c := render3d.NewCompositor(a.cfg, a.metrics, nil, gpu.FormatBGRA8Unorm)
				defer c.Release()
				sc, err := c.Frame(dev, host, g, rect, ws.Theme, 1)
				defer sc.Release()
				if err != nil {
					return err
				}
				for _, t := range sc.Overlay.Texts() {
					layer = append(layer, t.Text)
				}
			} else {
				var ptr *[2]float64
				if len(pointer) == 2 {
					ptr = &[2]float64{pointer[0], pointer[1]}
				}
				pc := render2d.NewBuilder(a.cfg, a.metrics, nil).Build(g, rect, ws.Theme, ptr)
				defer pc.Release()
				pc.Execute(dev, host)
				for _, t := range pc.Overlay.Texts() {
					layer = append(layer, t.Text)
				}
				if pc.Hover != nil {
					fmt.Fprintf(a.out, "hover %s x=%s y=%s\n", pc.Hover.Label, view.FormatTick(pc.Hover.X), view.FormatTick(pc.Hover.Y))
				}
			}
			host.End()

			fmt.Fprint(a.out, dev.Dump())
			if texts {
				for _, t := range layer {
					fmt.Fprintf(a.out, "text %q\n", t)
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&width, "width", 1280, "Frame width in points")
	cmd.Flags().Float64Var(&height, "height", 720, "Frame height in points")
	cmd.Flags().Float64SliceVar(&pointer, "pointer", nil, "Pointer position x,y for hover")
	cmd.Flags().BoolVar(&texts, "texts", false, "Also print overlay labels")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var (
		formatName string
		dir        string
		name       string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a graph as CSV, PNG, SVG, PDF or HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			ws, err := a.loadWorkspace()
			if err != nil {
				return err
			}
			g, err := a.selectedGraph(ws)
			if err != nil {
				return err
			}
			o := export.DefaultOptions(a.cfg)
			o.Theme = ws.Theme
			e := export.NewExporter(a.fs, dir, o)

			var path string
			if name != "" {
				path, err = e.SaveAs(g, f, name)
			} else {
				path, err = e.Save(g, f)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&formatName, "format", "f", "png", "Output format: "+formatList())
	cmd.Flags().StringVarP(&dir, "out", "o", ".", "Output directory")
	cmd.Flags().StringVar(&name, "name", "", "File name inside the output directory (default: from the graph title)")
	return cmd
}

func versionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.out, "plotctl", version.String())
		},
	}
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, len(args))
	for i, s := range args {
		id, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid graph id %q", s)
		}
		ids[i] = id
	}
	return ids, nil
}

func formatList() string {
	names := make([]string, len(export.Formats))
	for i, f := range export.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
