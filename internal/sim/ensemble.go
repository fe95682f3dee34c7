package sim

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/num"
	"github.com/san-kum/gtpsa/internal/tpsa"
)

// Ensemble checks a transfer map against direct integration of sampled
// initial conditions around the reference point.
type Ensemble struct {
	sys      dynamo.System
	newInteg func() dynamo.Integrator
	samples  int
	radius   float64
	seed     uint64
	workers  int
}

func NewEnsemble(sys dynamo.System, newInteg func() dynamo.Integrator, samples int, radius float64, seed uint64) *Ensemble {
	return &Ensemble{
		sys:      sys,
		newInteg: newInteg,
		samples:  samples,
		radius:   radius,
		seed:     seed,
		workers:  runtime.NumCPU(),
	}
}

// WithWorkers bounds the number of concurrent direct integrations.
func (e *Ensemble) WithWorkers(n int) *Ensemble {
	e.workers = max(n, 1)
	return e
}

type Sample struct {
	Deviation []float64
	Map       []float64
	Direct    []float64
	Error     float64
}

type EnsembleReport struct {
	Samples   []Sample
	MaxError  float64
	MeanError float64
}

// Run compares m, the map of a propagation started at ref with cfg, against
// direct integration of ref+dev for deviations drawn uniformly from
// [-radius, radius] in every coordinate.
func (e *Ensemble) Run(ctx context.Context, m dynamo.State, ref []float64, cfg dynamo.Config) (*EnsembleReport, error) {
	n := len(ref)
	if len(m) != n {
		return nil, fmt.Errorf("%w: map has %d components, reference %d", dynamo.ErrDimensionMismatch, len(m), n)
	}
	if e.samples < 1 || e.radius <= 0 {
		return nil, fmt.Errorf("%w: need samples >= 1 and radius > 0", dynamo.ErrParameterBounds)
	}
	point, err := tpsa.NewDesc(tpsa.Config{NumVars: n, MaxOrder: 1, Workers: 1})
	if err != nil {
		return nil, err
	}

	r := num.NewRand(e.seed)
	samples := make([]Sample, e.samples)
	for i := range samples {
		dev := make([]float64, m.Desc().NumVars())
		for j := 0; j < n; j++ {
			dev[j] = e.radius * (2*r.Float64() - 1)
		}
		samples[i].Deviation = dev
	}

	err = dynamo.ParallelFor(ctx, len(samples), e.workers, 1, func(ctx context.Context, start, end int) error {
		for i := start; i < end; i++ {
			if err := e.sample(ctx, point, m, ref, cfg, &samples[i]); err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rep := &EnsembleReport{Samples: samples}
	for _, s := range samples {
		rep.MaxError = math.Max(rep.MaxError, s.Error)
		rep.MeanError += s.Error
	}
	rep.MeanError /= float64(len(samples))
	return rep, nil
}

func (e *Ensemble) sample(ctx context.Context, point *tpsa.Desc, m dynamo.State, ref []float64, cfg dynamo.Config, s *Sample) error {
	pred, err := m.Map().Eval(s.Deviation)
	if err != nil {
		return err
	}
	start := make([]float64, len(ref))
	for i := range start {
		start[i] = ref[i] + s.Deviation[i]
	}
	res, err := New(e.sys, e.newInteg()).Run(ctx, dynamo.PointState(point, start), cfg)
	if err != nil {
		return err
	}

	s.Map = pred
	s.Direct = res.Map.Point()
	for i := range pred {
		s.Error = math.Max(s.Error, math.Abs(pred[i]-s.Direct[i]))
	}
	return nil
}
