package main

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/gtpsa/internal/num"
	"github.com/san-kum/gtpsa/internal/tpsa"
)

type function struct {
	series func(c, a *tpsa.TPSA) error
	scalar func(x float64) float64
}

var functions = map[string]function{
	"inv":     {func(c, a *tpsa.TPSA) error { return c.Inv(a, 1) }, func(x float64) float64 { return 1 / x }},
	"invsqrt": {func(c, a *tpsa.TPSA) error { return c.InvSqrt(a, 1) }, func(x float64) float64 { return 1 / math.Sqrt(x) }},
	"sqrt":    {(*tpsa.TPSA).Sqrt, math.Sqrt},
	"exp":     {(*tpsa.TPSA).Exp, math.Exp},
	"log":     {(*tpsa.TPSA).Log, math.Log},
	"sin":     {(*tpsa.TPSA).Sin, math.Sin},
	"cos":     {(*tpsa.TPSA).Cos, math.Cos},
	"tan":     {(*tpsa.TPSA).Tan, math.Tan},
	"cot":     {(*tpsa.TPSA).Cot, func(x float64) float64 { return 1 / math.Tan(x) }},
	"sinh":    {(*tpsa.TPSA).Sinh, math.Sinh},
	"cosh":    {(*tpsa.TPSA).Cosh, math.Cosh},
	"tanh":    {(*tpsa.TPSA).Tanh, math.Tanh},
	"coth":    {(*tpsa.TPSA).Coth, func(x float64) float64 { return 1 / math.Tanh(x) }},
	"asin":    {(*tpsa.TPSA).Asin, math.Asin},
	"acos":    {(*tpsa.TPSA).Acos, math.Acos},
	"atan":    {(*tpsa.TPSA).Atan, math.Atan},
	"acot":    {(*tpsa.TPSA).Acot, func(x float64) float64 { return math.Atan(1 / x) }},
	"asinh":   {(*tpsa.TPSA).Asinh, math.Asinh},
	"acosh":   {(*tpsa.TPSA).Acosh, math.Acosh},
	"atanh":   {(*tpsa.TPSA).Atanh, math.Atanh},
	"acoth":   {(*tpsa.TPSA).Acoth, func(x float64) float64 { return math.Atanh(1 / x) }},
	"erf":     {(*tpsa.TPSA).Erf, math.Erf},
	"erfc":    {(*tpsa.TPSA).Erfc, math.Erfc},
	"sinc":    {(*tpsa.TPSA).Sinc, num.Sinc},
	"sinhc":   {(*tpsa.TPSA).Sinhc, num.Sinhc},
	"asinc":   {(*tpsa.TPSA).Asinc, num.Asinc},
	"asinhc":  {(*tpsa.TPSA).Asinhc, num.Asinhc},
}

func functionNames() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func describe(cmd *cobra.Command, args []string) error {
	d, err := tpsa.NewDesc(tpsa.Config{
		NumVars:   descVars,
		MaxOrder:  descOrder,
		NumKnobs:  numKnobs,
		KnobOrder: knobOrder,
		Trunc:     trunc,
		Workers:   descWorkers,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "map variables\t%d\n", d.NumMapVars())
	fmt.Fprintf(w, "knobs\t%d\n", d.NumKnobs())
	fmt.Fprintf(w, "max order\t%d\n", d.MaxOrder())
	fmt.Fprintf(w, "knob order\t%d\n", d.KnobOrder())
	fmt.Fprintf(w, "truncation\t%d\n", d.Trunc())
	fmt.Fprintf(w, "coefficients\t%d\n", d.NumCoefs())
	fmt.Fprintf(w, "workers\t%d\n", d.Workers())
	fmt.Fprintf(w, "product terms\t%d\n", d.ScheduleSize())
	fmt.Fprintf(w, "scratch series\t%d\n", d.ScratchCap())
	w.Flush()

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tMONOMIALS\tFIRST")
	for o := 0; o <= d.MaxOrder(); o++ {
		start, end := d.OrderRange(o)
		fmt.Fprintf(w, "%d\t%d\t%d\n", o, end-start, start)
	}
	return w.Flush()
}

func evalFun(cmd *cobra.Command, args []string) error {
	fn, ok := functions[args[0]]
	if !ok {
		return fmt.Errorf("unknown function %q, available: %v", args[0], functionNames())
	}

	d, err := tpsa.NewDesc(tpsa.Config{NumVars: 1, MaxOrder: funOrder, Workers: 1})
	if err != nil {
		return err
	}
	a := tpsa.NewReal(d, tpsa.MaxOrd).SetVar(0, a0, 1)
	c := tpsa.NewReal(d, tpsa.MaxOrd)
	if err := fn.series(c, a); err != nil {
		return err
	}

	fmt.Printf("%s(%g + x), order %d\n\n", args[0], a0, funOrder)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tCOEFFICIENT")
	for o, v := range c.Coefs() {
		fmt.Fprintf(w, "%d\t% .16e\n", o, v)
	}
	w.Flush()

	if !check {
		return nil
	}
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "H\tSERIES\tSCALAR\tERROR\tH^(ORDER+1)")
	for _, h := range []float64{1e-1, 3e-2, 1e-2, 3e-3, 1e-3} {
		got, err := c.Eval([]float64{h})
		if err != nil {
			return err
		}
		want := fn.scalar(a0 + h)
		fmt.Fprintf(w, "%.0e\t% .12e\t% .12e\t%.2e\t%.2e\n", h, got, want, math.Abs(got-want), math.Pow(h, float64(funOrder+1)))
	}
	return w.Flush()
}

func randomSeries(d *tpsa.Desc, r *num.Rand, c0 float64) *tpsa.TPSA {
	v := make([]float64, d.NumCoefs())
	for i := range v {
		v[i] = 0.2 * (r.Float64() - 0.5)
	}
	v[0] = c0
	return tpsa.NewReal(d, tpsa.MaxOrd).SetCoefs(v)
}

// timeIt runs fn until at least 200ms have passed and returns the mean
// duration of one call.
func timeIt(fn func() error) (time.Duration, error) {
	var n int
	start := time.Now()
	for time.Since(start) < 200*time.Millisecond {
		if err := fn(); err != nil {
			return 0, err
		}
		n++
	}
	return time.Since(start) / time.Duration(n), nil
}

func bench(cmd *cobra.Command, args []string) error {
	par := benchWorkers
	if par == 0 {
		par = runtime.NumCPU()
	}

	fmt.Printf("benchmarking nv=%d order=%d\n\n", benchVars, benchOrder)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OP\tWORKERS\tCOEFS\tTIME\tSPEEDUP")

	for _, op := range []string{"mul", "compose"} {
		var serial time.Duration
		for _, nw := range []int{1, par} {
			d, err := tpsa.NewDesc(tpsa.Config{NumVars: benchVars, MaxOrder: benchOrder, Workers: nw})
			if err != nil {
				return err
			}
			r := num.NewRand(1)

			var run func() error
			switch op {
			case "mul":
				a, b := randomSeries(d, r, 0.5), randomSeries(d, r, 0.3)
				c := tpsa.NewReal(d, tpsa.MaxOrd)
				run = func() error { c.Mul(a, b); return nil }
			case "compose":
				ma := tpsa.NewMap[float64](d, benchVars, tpsa.MaxOrd)
				mb := tpsa.NewMap[float64](d, benchVars, tpsa.MaxOrd)
				for i := range ma {
					ma[i] = randomSeries(d, r, 0.1)
					mb[i] = randomSeries(d, r, 0)
				}
				mc := tpsa.NewMap[float64](d, benchVars, tpsa.MaxOrd)
				run = func() error { return tpsa.Compose(ma, mb, mc) }
			}

			elapsed, err := timeIt(run)
			if err != nil {
				return err
			}
			if nw == 1 {
				serial = elapsed
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%.2fx\n", op, nw, d.NumCoefs(), elapsed, float64(serial)/float64(elapsed))
			if par == 1 {
				break
			}
		}
	}
	return w.Flush()
}
