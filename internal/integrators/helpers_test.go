package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/tpsa"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, _ float64, dx dynamo.State) error {
	dx[0].Copy(x[1])
	dx[1].Neg(x[0])
	return nil
}

func (h *harmonicOscillator) Energy(x []float64) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

// pendulum is the unit pendulum with acceleration -sin(theta).
type pendulum struct{}

func (p *pendulum) StateDim() int { return 2 }

func (p *pendulum) Derive(x dynamo.State, _ float64, dx dynamo.State) error {
	dx[0].Copy(x[1])
	if err := dx[1].Sin(x[0]); err != nil {
		return err
	}
	dx[1].Neg(dx[1])
	return nil
}

func newDesc(t testing.TB, nv, mo int) *tpsa.Desc {
	t.Helper()
	d, err := tpsa.NewDesc(tpsa.Config{NumVars: nv, MaxOrder: mo, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func run(t testing.TB, integ dynamo.Integrator, sys dynamo.System, x dynamo.State, dt float64, steps int) dynamo.State {
	t.Helper()
	for i := 0; i < steps; i++ {
		var err error
		x, err = integ.Step(sys, x, float64(i)*dt, dt)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	return x
}

func det2(m [][]float64) float64 {
	return m[0][0]*m[1][1] - m[0][1]*m[1][0]
}

func closeTo(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
