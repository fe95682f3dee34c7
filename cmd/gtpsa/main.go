package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/gtpsa/internal/config"
)

var (
	dataDir string
	verbose bool
	logger  = slog.New(slog.DiscardHandler)

	// run configuration
	dt         float64
	duration   float64
	order      int
	integrator string
	seed       uint64
	workers    int
	adaptive   bool
	configFile string
	preset     string
	params     map[string]string
	initState  []float64
	live       bool
	samples    int
	radius     float64

	// desc
	descVars    int
	descOrder   int
	descWorkers int
	numKnobs    int
	knobOrder   int
	trunc       int

	// fun
	funOrder int
	a0       float64
	check    bool

	// bench
	benchVars    int
	benchOrder   int
	benchWorkers int

	// run inspection
	xAxis      int
	yAxis      int
	phaseTurns int
	phaseAmp   float64
	trackTurns int
	trackAmp   float64
	out        string

	// parameter scan
	scanParam string
	scanMin   float64
	scanMax   float64
	scanSteps int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gtpsa",
		Short:         "truncated power series algebra and Taylor map lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gtpsa", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log propagation steps to stderr")

	descCmd := &cobra.Command{
		Use:   "desc",
		Short: "print descriptor statistics",
		Args:  cobra.NoArgs,
		RunE:  describe,
	}
	descCmd.Flags().IntVar(&descVars, "vars", 2, "number of map variables")
	descCmd.Flags().IntVar(&descOrder, "order", 4, "maximum order")
	descCmd.Flags().IntVar(&numKnobs, "knobs", 0, "number of knobs")
	descCmd.Flags().IntVar(&knobOrder, "knob-order", 0, "maximum knob order (0 = max order, -1 = knobs fixed)")
	descCmd.Flags().IntVar(&trunc, "trunc", 0, "truncation order (0 = max order)")
	descCmd.Flags().IntVar(&descWorkers, "workers", 1, "parallel workers (0 = all CPUs)")

	funCmd := &cobra.Command{
		Use:   "fun [name]",
		Short: "evaluate an elementary function on a0 + x",
		Args:  cobra.ExactArgs(1),
		RunE:  evalFun,
	}
	funCmd.Flags().Float64Var(&a0, "a0", 0.5, "expansion point")
	funCmd.Flags().IntVar(&funOrder, "order", 6, "maximum order")
	funCmd.Flags().BoolVar(&check, "check", false, "compare the series against the scalar function near a0")

	propagateCmd := &cobra.Command{
		Use:   "propagate [model]",
		Short: "integrate a Taylor transfer map and save the run",
		Args:  cobra.ExactArgs(1),
		RunE:  propagate,
	}
	runFlags(propagateCmd)
	propagateCmd.Flags().BoolVar(&live, "live", false, "show the live view while propagating")

	checkCmd := &cobra.Command{
		Use:   "check [model]",
		Short: "compare the transfer map with direct tracking",
		Args:  cobra.ExactArgs(1),
		RunE:  checkModel,
	}
	runFlags(checkCmd)
	checkCmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of sampled deviations")
	checkCmd.Flags().Float64Var(&radius, "radius", config.DefaultPerturbation, "deviation half width")

	scanCmd := &cobra.Command{
		Use:   "scan [model]",
		Short: "linear stability over a swept model parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  scanModel,
	}
	runFlags(scanCmd)
	scanCmd.Flags().StringVar(&scanParam, "param", "", "parameter to sweep")
	scanCmd.Flags().Float64Var(&scanMin, "min", 0.5, "first parameter value")
	scanCmd.Flags().Float64Var(&scanMax, "max", 2.0, "last parameter value")
	scanCmd.Flags().IntVar(&scanSteps, "steps", 20, "number of parameter values")
	_ = scanCmd.MarkFlagRequired("param")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata and map statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the reference orbit and the order norms of the map",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase portrait of map iterates",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")
	phaseCmd.Flags().IntVar(&phaseTurns, "turns", 500, "iterations per orbit")
	phaseCmd.Flags().Float64Var(&phaseAmp, "amp", 0.1, "largest starting deviation")

	trackCmd := &cobra.Command{
		Use:   "track [run_id]",
		Short: "iterate the stored map and estimate tunes",
		Args:  cobra.ExactArgs(1),
		RunE:  trackRun,
	}
	trackCmd.Flags().IntVar(&trackTurns, "turns", config.DefaultTurns, "number of iterations")
	trackCmd.Flags().Float64Var(&trackAmp, "amp", 1e-3, "starting deviation along every coordinate")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time multiplication and composition",
		Args:  cobra.NoArgs,
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&benchVars, "vars", 6, "number of map variables")
	benchCmd.Flags().IntVar(&benchOrder, "order", 6, "maximum order")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 0, "parallel workers (0 = all CPUs)")

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(descCmd, funCmd, propagateCmd, checkCmd, scanCmd, listCmd, showCmd,
		exportJSONCmd, plotCmd, phaseCmd, trackCmd, benchCmd, presetsCmd)
	return rootCmd
}

// runFlags registers the flags that build a run configuration.
func runFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&order, "order", config.DefaultOrder, "maximum order of the map")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&workers, "workers", 1, "parallel workers (0 = all CPUs)")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive step size")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringToStringVar(&params, "set", nil, "model parameters, name=value")
	cmd.Flags().Float64SliceVar(&initState, "x0", nil, "reference point")
}
