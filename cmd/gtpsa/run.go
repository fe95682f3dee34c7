package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/gtpsa/internal/analysis"
	"github.com/san-kum/gtpsa/internal/config"
	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/experiment"
	"github.com/san-kum/gtpsa/internal/storage"
	"github.com/san-kum/gtpsa/internal/tpsa"
	"github.com/san-kum/gtpsa/internal/tui"
)

// buildConfig layers the preset, the config file and the explicitly set
// flags over the defaults, in that order.
func buildConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("preset %q not found for model %s", preset, model)
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.Model = model

	f := cmd.Flags()
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("time") {
		cfg.Duration = duration
	}
	if f.Changed("order") {
		cfg.Order = order
	}
	if f.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("workers") {
		cfg.Workers = workers
	}
	if f.Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if f.Changed("x0") {
		cfg.InitState = append([]float64(nil), initState...)
	}
	if f.Changed("samples") {
		cfg.Samples = samples
	}
	if f.Changed("radius") {
		cfg.Perturbation = radius
	}
	if len(params) > 0 {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(params))
		}
		for name, raw := range params {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", name, err)
			}
			cfg.Params[name] = v
		}
	}
	return cfg, cfg.Validate()
}

func newExperiment(cmd *cobra.Command, model string) (*experiment.Experiment, *experiment.Registry, error) {
	cfg, err := buildConfig(cmd, model)
	if err != nil {
		return nil, nil, err
	}
	reg := experiment.NewRegistry()
	e, err := experiment.New(cfg, reg, tpsa.NewRegistry())
	if err != nil {
		return nil, nil, err
	}
	return e.WithLogger(logger), reg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func propagate(cmd *cobra.Command, args []string) error {
	e, _, err := newExperiment(cmd, args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	cfg := e.Config()
	logger.Info("propagating", "model", cfg.Model, "integrator", cfg.Integrator,
		"order", cfg.Order, "dt", cfg.Dt, "duration", cfg.Duration, "ncoef", e.Desc().NumCoefs())

	var res *dynamo.Result
	if live {
		res, err = tui.Run(ctx, e)
	} else {
		res, err = e.Run(ctx)
	}
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	an := analyze(res.Map, cfg.Duration)
	runID, err := st.Save(cfg, res, an)
	if err != nil {
		return err
	}

	fmt.Printf("run saved: %s\n", runID)
	fmt.Printf("steps: %d\n", res.StepsTaken)
	fmt.Printf("reference: %s\n", formatVec(res.Map.Point()))
	for _, name := range sortedNames(res.Metrics) {
		fmt.Printf("%s: %.6g\n", name, res.Metrics[name])
	}
	for _, name := range sortedNames(an) {
		fmt.Printf("%s: %.6g\n", name, an[name])
	}
	return nil
}

// analyze collects the derived quantities stored with a run. Quantities
// that do not apply to the map, such as tunes of an odd dimensional
// system, are left out.
func analyze(m dynamo.State, duration float64) map[string]float64 {
	out := make(map[string]float64)
	if jac, err := analysis.Jacobian(m); err == nil {
		out["det"] = analysis.Det(jac)
	}
	if e, err := analysis.SymplecticError(m); err == nil {
		out["symplectic_error"] = e
	}
	if planes, err := analysis.Planes(m); err == nil {
		for k, p := range planes {
			if p.Stable {
				out[fmt.Sprintf("tune_%d", k)] = p.Tune
			}
		}
	}
	if lam, err := analysis.LyapunovExponent(m, duration); err == nil {
		out["lyapunov"] = lam
	}
	return out
}

func checkModel(cmd *cobra.Command, args []string) error {
	e, reg, err := newExperiment(cmd, args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	res, err := e.Run(ctx)
	if err != nil {
		return err
	}
	report, err := e.Check(ctx, reg, res)
	if err != nil {
		return err
	}

	cfg := e.Config()
	fmt.Printf("%s, order %d, %d samples within ±%g\n\n", cfg.Model, cfg.Order, len(report.Samples), cfg.Perturbation)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDEVIATION\tERROR")
	for i, s := range report.Samples {
		fmt.Fprintf(w, "%d\t%s\t%.3e\n", i, formatVec(s.Deviation), s.Error)
	}
	w.Flush()
	fmt.Printf("\nmax error:  %.3e\nmean error: %.3e\n", report.MaxError, report.MeanError)
	return nil
}

func scanModel(cmd *cobra.Command, args []string) error {
	e, reg, err := newExperiment(cmd, args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	integ, err := reg.GetIntegrator(e.Config().Integrator)
	if err != nil {
		return err
	}
	s := analysis.Scan{Param: scanParam, Min: scanMin, Max: scanMax, Steps: scanSteps, Ref: e.Reference()}
	points, err := analysis.ParameterScan(ctx, e.System(), integ, e.Desc(), s, e.Config().RunConfig())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAM\tDET\tTUNES")
	for _, p := range points {
		tunes := make([]float64, len(p.Planes))
		for k, pl := range p.Planes {
			tunes[k] = pl.Tune
		}
		fmt.Fprintf(w, "%.4g\t%.6f\t%s\n", p.Param, p.Det, formatVec(tunes))
	}
	w.Flush()
	fmt.Println()
	fmt.Println(analysis.ScanToASCII(points, 60, 15))
	return nil
}

func formatVec(v []float64) string {
	s := "["
	for i, x := range v {
		if i > 0 {
			s += " "
		}
		if math.IsNaN(x) {
			s += "-"
			continue
		}
		s += strconv.FormatFloat(x, 'g', 6, 64)
	}
	return s + "]"
}
