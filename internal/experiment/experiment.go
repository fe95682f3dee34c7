package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/gtpsa/internal/config"
	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/sim"
	"github.com/san-kum/gtpsa/internal/tpsa"
)

// Experiment is a configured propagation: a model with its parameters, an
// integrator and the descriptor the transfer map lives on.
type Experiment struct {
	cfg        *config.Config
	sys        dynamo.System
	integrator dynamo.Integrator
	desc       *tpsa.Desc
	ref        []float64
	propagator *sim.Propagator
}

// New validates cfg and resolves its model and integrator through reg.
// Descriptors are shared through descs.
func New(cfg *config.Config, reg *Registry, descs *tpsa.Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sys, err := reg.GetModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	if len(cfg.Params) > 0 {
		tunable, ok := sys.(dynamo.Configurable)
		if !ok {
			return nil, fmt.Errorf("%w: model %s has no parameters", dynamo.ErrUnknownParam, cfg.Model)
		}
		for name, v := range cfg.Params {
			if err := tunable.SetParam(name, v); err != nil {
				return nil, err
			}
		}
	}

	var def []float64
	if d, ok := sys.(dynamo.Defaulted); ok {
		def = d.DefaultState()
	}
	ref := cfg.InitialState(def)
	if len(ref) != sys.StateDim() {
		return nil, fmt.Errorf("%w: initial state has %d values, model %s needs %d",
			dynamo.ErrDimensionMismatch, len(ref), cfg.Model, sys.StateDim())
	}

	desc, err := descs.Get(tpsa.Config{NumVars: sys.StateDim(), MaxOrder: cfg.Order, Workers: cfg.Workers})
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:        cfg,
		sys:        sys,
		integrator: integ,
		desc:       desc,
		ref:        ref,
		propagator: sim.New(sys, integ),
	}
	for _, m := range reg.DefaultMetrics(sys) {
		e.propagator.AddMetric(m)
	}
	return e, nil
}

func (e *Experiment) WithLogger(l *slog.Logger) *Experiment {
	e.propagator.WithLogger(l)
	return e
}

func (e *Experiment) Config() *config.Config      { return e.cfg }
func (e *Experiment) System() dynamo.System       { return e.sys }
func (e *Experiment) Desc() *tpsa.Desc            { return e.desc }
func (e *Experiment) Reference() []float64        { return append([]float64(nil), e.ref...) }
func (e *Experiment) Propagator() *sim.Propagator { return e.propagator }

// Run propagates the identity map around the reference point for the
// configured duration.
func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	return e.propagator.Run(ctx, dynamo.NewState(e.desc, e.ref), e.cfg.RunConfig())
}

// Check compares res.Map against direct tracking of random deviations.
// A fresh integrator is built per sample.
func (e *Experiment) Check(ctx context.Context, reg *Registry, res *dynamo.Result) (*sim.EnsembleReport, error) {
	newInteg := func() dynamo.Integrator {
		integ, _ := reg.GetIntegrator(e.cfg.Integrator)
		return integ
	}
	ens := sim.NewEnsemble(e.sys, newInteg, e.cfg.Samples, e.cfg.Perturbation, e.cfg.Seed).WithWorkers(e.cfg.Workers)
	return ens.Run(ctx, res.Map, e.ref, e.cfg.RunConfig())
}
