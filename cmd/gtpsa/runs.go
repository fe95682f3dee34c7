package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gtpsa/internal/analysis"
	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/sim"
	"github.com/san-kum/gtpsa/internal/storage"
	"github.com/san-kum/gtpsa/internal/tpsa"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00d7ff"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadRun reads the metadata and transfer map of a stored run.
func loadRun(runID string) (*storage.RunMetadata, dynamo.State, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	m, err := st.LoadMap(runID, tpsa.NewRegistry())
	if err != nil {
		return nil, nil, err
	}
	return meta, m, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tORDER\tNV\tDURATION\tDT\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.2fs\t%.4fs\t%s\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Order,
			run.NumVars,
			run.Duration,
			run.Dt,
			run.Integrator,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, m, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(meta.ID))
	fmt.Printf("%s %s\n", labelStyle.Render("model:     "), meta.Model)
	fmt.Printf("%s %s\n", labelStyle.Render("integrator:"), meta.Integrator)
	fmt.Printf("%s %s\n", labelStyle.Render("time:      "), meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("%s %d (nv %d)\n", labelStyle.Render("order:     "), meta.Order, meta.NumVars)
	fmt.Printf("%s %g x %d steps\n", labelStyle.Render("dt:        "), meta.Dt, meta.Steps)
	fmt.Printf("%s %s\n", labelStyle.Render("reference: "), formatVec(meta.Reference))
	for _, name := range sortedNames(meta.Params) {
		fmt.Printf("%s %s = %g\n", labelStyle.Render("param:     "), name, meta.Params[name])
	}

	if len(meta.Metrics) > 0 {
		fmt.Println()
		fmt.Println(headerStyle.Render("metrics"))
		for _, name := range sortedNames(meta.Metrics) {
			fmt.Printf("  %-18s %.6g\n", name, meta.Metrics[name])
		}
	}
	if len(meta.Analysis) > 0 {
		fmt.Println()
		fmt.Println(headerStyle.Render("analysis"))
		for _, name := range sortedNames(meta.Analysis) {
			fmt.Printf("  %-18s %.6g\n", name, meta.Analysis[name])
		}
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("order norms"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "COMPONENT")
	for o := 0; o <= m.Desc().MaxOrder(); o++ {
		fmt.Fprintf(w, "\t%d", o)
	}
	fmt.Fprintln(w)
	for i, norms := range analysis.OrderNorms(m) {
		fmt.Fprintf(w, "x%d", i)
		for _, v := range norms {
			fmt.Fprintf(w, "\t%.3e", v)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if out == "" {
		return st.ExportJSON(os.Stdout, args[0])
	}
	if err := st.ExportJSONFile(out, args[0]); err != nil {
		return err
	}
	fmt.Printf("exported %s to %s\n", args[0], out)
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, m, err := loadRun(runID)
	if err != nil {
		return err
	}

	orbit, times, err := st.LoadOrbit(runID)
	if err != nil {
		return err
	}

	if len(orbit) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d over %.2fs\n\n", len(orbit), times[len(times)-1]-times[0])

	numVars := min(len(orbit[0]), 6)
	for varIdx := 0; varIdx < numVars; varIdx++ {
		data := make([]float64, len(orbit))
		for i := range orbit {
			data[i] = orbit[i][varIdx]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("reference x%d vs time", varIdx)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	// log10 of the order norms, one series per component
	series := make([][]float64, 0, len(m))
	for _, norms := range analysis.OrderNorms(m) {
		logs := make([]float64, len(norms))
		for o, v := range norms {
			logs[o] = math.Log10(max(v, 1e-300))
		}
		series = append(series, logs)
	}
	if len(series) > 0 && len(series[0]) > 1 {
		graph := asciigraph.PlotMany(series,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("log10 coefficient norm vs order"),
		)
		fmt.Println(graph)
	}

	return nil
}

func newTracker(m dynamo.State, meta *storage.RunMetadata) (*sim.Tracker, error) {
	return sim.NewTracker(m, meta.Reference)
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, m, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if len(m) <= xAxis || len(m) <= yAxis {
		return fmt.Errorf("state dimension too small for selected axes")
	}
	tr, err := newTracker(m, meta)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	const orbits = 8
	var points [][]float64
	for k := 1; k <= orbits; k++ {
		dev := make([]float64, len(m))
		dev[xAxis] = phaseAmp * float64(k) / orbits
		pts, err := tr.Track(ctx, dev, phaseTurns)
		points = append(points, pts...)
		if err != nil {
			logger.Warn("orbit lost", "amplitude", dev[xAxis], "turns", len(pts)-1, "err", err)
		}
	}

	portrait, err := analysis.NewPhasePortrait(points, xAxis, yAxis)
	if err != nil {
		return err
	}

	fmt.Printf("phase space plot: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("x-axis: x%d, y-axis: x%d, %d orbits of %d turns\n\n", xAxis, yAxis, orbits, phaseTurns)
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 25))
	return nil
}

func trackRun(cmd *cobra.Command, args []string) error {
	meta, m, err := loadRun(args[0])
	if err != nil {
		return err
	}
	tr, err := newTracker(m, meta)
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	dev := make([]float64, len(m))
	for i := range dev {
		dev[i] = trackAmp
	}
	pts, err := tr.Track(ctx, dev, trackTurns)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TURN\tPOINT")
	stride := max(len(pts)/20, 1)
	for k := 0; k < len(pts); k += stride {
		fmt.Fprintf(w, "%d\t%s\n", k, formatVec(pts[k]))
	}
	w.Flush()

	planes, err := analysis.Planes(m)
	if err != nil {
		// odd dimension, no conjugate planes
		return nil
	}
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLANE\tLINEAR TUNE\tFFT TUNE")
	for k, p := range planes {
		signal := make([]float64, len(pts))
		for i, x := range pts {
			signal[i] = x[k] - meta.Reference[k]
		}
		fft, err := analysis.TuneFFT(signal)
		if err != nil {
			return err
		}
		linear := "unstable"
		if p.Stable {
			linear = fmt.Sprintf("%.6f", p.Tune)
		}
		fmt.Fprintf(w, "%d\t%s\t%.6f\n", k, linear, fft)
	}
	return w.Flush()
}
