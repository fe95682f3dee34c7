package sim

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/san-kum/gtpsa/internal/dynamo"
)

type Propagator struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	log        *slog.Logger
}

func New(sys dynamo.System, integrator dynamo.Integrator) *Propagator {
	return &Propagator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		log:        slog.New(slog.DiscardHandler),
	}
}

// WithLogger routes step diagnostics to l.
func (p *Propagator) WithLogger(l *slog.Logger) *Propagator {
	if l != nil {
		p.log = l
	}
	return p
}

func (p *Propagator) AddMetric(m dynamo.Metric)     { p.metrics = append(p.metrics, m) }
func (p *Propagator) AddObserver(o dynamo.Observer) { p.observers = append(p.observers, o) }

// Run integrates x0 over cfg.Duration. The returned result holds the map at
// the last accepted step; on a step failure the partial result is returned
// with a *dynamo.StepError.
func (p *Propagator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := dynamo.CheckDim(p.sys, x0); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &dynamo.Result{
		Orbit:   make([][]float64, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range p.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt
	result.Map = x
	result.Orbit = append(result.Orbit, x.Point())
	result.Times = append(result.Times, t)

	initialEnergy := p.computeEnergy(x)
	p.log.Debug("propagation start", "dim", len(x), "order", x.Desc().MaxOrder(), "dt", dt, "duration", cfg.Duration)

	for i := 0; ; i++ {
		if cfg.Adaptive && t >= cfg.Duration*(1-1e-12) || !cfg.Adaptive && i == steps {
			break
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range p.metrics {
			m.Observe(x, t)
		}
		for _, obs := range p.observers {
			obs.OnStep(x, t)
		}

		var newX dynamo.State
		var err error
		taken := dt
		if cfg.Adaptive {
			newX, taken, dt, err = p.adaptiveStep(x, t, min(dt, cfg.Duration-t), cfg)
		} else {
			newX, err = p.integrator.Step(p.sys, x, t, dt)
		}
		if err == nil {
			err = p.check(newX, cfg)
		}
		if err != nil {
			p.log.Warn("step failed", "step", i, "t", t, "err", err)
			return result, &dynamo.StepError{Step: i, Time: t, Wrapped: err}
		}

		x = newX
		t += taken
		result.StepsTaken++
		result.Map = x
		result.Orbit = append(result.Orbit, x.Point())
		result.Times = append(result.Times, t)
		p.log.Debug("step", "step", i, "t", t, "dt", taken, "norm", x.Norm())
	}

	finalEnergy := p.computeEnergy(x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range p.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	p.log.Info("propagation done", "steps", result.StepsTaken, "t", t, "energy_drift", result.EnergyDrift)

	return result, nil
}

func (p *Propagator) check(x dynamo.State, cfg dynamo.Config) error {
	if cfg.ValidateState && !x.IsValid() {
		return dynamo.ErrInvalidState
	}
	if cfg.MaxNorm > 0 && x.Norm() > cfg.MaxNorm {
		return dynamo.ErrUnstable
	}
	return nil
}

func (p *Propagator) computeEnergy(x dynamo.State) float64 {
	if h, ok := p.sys.(dynamo.Hamiltonian); ok {
		return h.Energy(x.Point())
	}
	return 0
}

// adaptiveStep retries rejected steps with the suggested timestep and
// returns the new state, the timestep taken and the next timestep.
func (p *Propagator) adaptiveStep(x dynamo.State, t, dt float64, cfg dynamo.Config) (dynamo.State, float64, float64, error) {
	if adaptive, ok := p.integrator.(dynamo.AdaptiveIntegrator); ok {
		for {
			newX, next, err := adaptive.StepAdaptive(p.sys, x, t, dt, cfg.Tolerance)
			if errors.Is(err, dynamo.ErrStepRejected) {
				if next < cfg.MinDt {
					return nil, dt, dt, dynamo.ErrStepTooSmall
				}
				dt = next
				continue
			}
			return newX, dt, min(next, cfg.MaxDt), err
		}
	}

	// step doubling for fixed-step integrators
	x1, err := p.integrator.Step(p.sys, x, t, dt)
	if err != nil {
		return nil, dt, dt, err
	}
	xHalf, err := p.integrator.Step(p.sys, x, t, dt/2)
	if err != nil {
		return nil, dt, dt, err
	}
	x2, err := p.integrator.Step(p.sys, xHalf, t+dt/2, dt/2)
	if err != nil {
		return nil, dt, dt, err
	}

	diff := 0.0
	for i := range x1 {
		diff = math.Max(diff, x1[i].Clone().Sub(x1[i], x2[i]).Nrm())
	}

	if diff > cfg.Tolerance && dt > cfg.MinDt {
		return p.adaptiveStep(x, t, dt/2, cfg)
	}
	if diff > cfg.Tolerance {
		return nil, dt, dt, dynamo.ErrStepTooSmall
	}

	next := dt
	if diff < cfg.Tolerance/10 && dt < cfg.MaxDt {
		next = math.Min(dt*2, cfg.MaxDt)
	}
	return x2, dt, next, nil
}

// RunWithCallback integrates with a fixed step and calls callback before
// every step; returning false stops the run.
func (p *Propagator) RunWithCallback(ctx context.Context, x0 dynamo.State, cfg dynamo.Config, callback func(x dynamo.State, t float64) bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := dynamo.CheckDim(p.sys, x0); err != nil {
		return err
	}

	x := x0.Clone()
	steps := int(math.Round(cfg.Duration / cfg.Dt))
	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := float64(i) * cfg.Dt
		if !callback(x, t) || i == steps {
			return nil
		}

		newX, err := p.integrator.Step(p.sys, x, t, cfg.Dt)
		if err == nil {
			err = p.check(newX, cfg)
		}
		if err != nil {
			return &dynamo.StepError{Step: i, Time: t, Wrapped: err}
		}
		x = newX
	}
	return nil
}
