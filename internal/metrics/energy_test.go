package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/integrators"
	"github.com/san-kum/gtpsa/internal/sim"
	"github.com/san-kum/gtpsa/internal/tpsa"
)

// pendulum has acceleration -(g/l) sin(theta) and unit mass.
type pendulum struct{ g, l float64 }

func (p *pendulum) StateDim() int { return 2 }

func (p *pendulum) Derive(x dynamo.State, _ float64, dx dynamo.State) error {
	dx[0].Copy(x[1])
	if err := dx[1].Sin(x[0]); err != nil {
		return err
	}
	dx[1].Scale(dx[1], -p.g/p.l)
	return nil
}

func (p *pendulum) Energy(x []float64) float64 {
	return 0.5*p.l*p.l*x[1]*x[1] + p.g*p.l*(1-math.Cos(x[0]))
}

func newDesc(t testing.TB, nv, mo int) *tpsa.Desc {
	t.Helper()
	d, err := tpsa.NewDesc(tpsa.Config{NumVars: nv, MaxOrder: mo, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestEnergyConservation(t *testing.T) {
	p := &pendulum{g: 9.81, l: 1}
	m := NewEnergy(p)
	d := newDesc(t, 2, 2)

	theta := math.Pi / 4
	x := dynamo.NewState(d, []float64{theta, 0})

	m.Observe(x, 0)
	e1 := m.Value()

	m.Reset()
	m.Observe(x, 0)
	e2 := m.Value()

	expected := 9.81 * (1 - math.Cos(theta))
	if math.Abs(e1-expected) > 1e-12 {
		t.Errorf("expected energy %f, got %f", expected, e1)
	}
	if math.Abs(e2-expected) > 1e-12 {
		t.Errorf("expected energy %f after reset, got %f", expected, e2)
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy(&pendulum{g: 9.81, l: 1})
	x := dynamo.NewState(newDesc(t, 2, 1), []float64{1, 1})

	m.Observe(x, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestStability(t *testing.T) {
	d := newDesc(t, 1, 2)
	s := NewStability(10)
	if s.Value() != 1 {
		t.Errorf("empty stability = %g, want 1", s.Value())
	}
	s.Observe(dynamo.NewState(d, []float64{1}), 0)
	s.Observe(dynamo.NewState(d, []float64{100}), 0)
	if got := s.Value(); got != 0.5 {
		t.Errorf("stability = %g, want 0.5", got)
	}
	s.Reset()
	if s.Value() != 1 {
		t.Errorf("stability after reset = %g, want 1", s.Value())
	}
}

func TestMetricsAlongPropagation(t *testing.T) {
	p := &pendulum{g: 1, l: 1}
	d := newDesc(t, 2, 4)

	drift := NewEnergyDrift(p)
	sym := NewSymplecticity()
	nonlin := NewNonlinearity()

	prop := sim.New(p, integrators.NewRK4())
	prop.AddMetric(drift)
	prop.AddMetric(sym)
	prop.AddMetric(nonlin)

	cfg := dynamo.DefaultConfig()
	cfg.Duration = 2
	res, err := prop.Run(context.Background(), dynamo.NewState(d, []float64{0.5, 0}), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if v := res.Metrics["energy_drift"]; v > 1e-8 {
		t.Errorf("energy drift = %g", v)
	}
	if v := res.Metrics["symplecticity"]; v > 1e-8 {
		t.Errorf("symplecticity = %g", v)
	}
	if v := res.Metrics["nonlinearity"]; v <= 0 {
		t.Errorf("pendulum map should be nonlinear, got %g", v)
	}
}

func TestEnergyDriftWithoutHamiltonian(t *testing.T) {
	m := NewEnergyDrift(struct{ dynamo.System }{})
	m.Observe(dynamo.NewState(newDesc(t, 1, 1), []float64{1}), 0)
	if m.Value() != 0 {
		t.Errorf("drift = %g, want 0", m.Value())
	}
}
