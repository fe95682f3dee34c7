package dynamo

import (
	"fmt"
	"math"

	"github.com/san-kum/gtpsa/internal/tpsa"
)

// State is a phase-space vector of truncated power series sharing one
// descriptor. The constant terms form the reference point.
type State tpsa.Map[float64]

// NewState returns the identity map around x0: component i is x0[i] + x_i.
func NewState(d *tpsa.Desc, x0 []float64) State {
	return State(tpsa.IdentityMap(d, tpsa.MaxOrd, x0))
}

// PointState returns a state of constant series, one per value of x.
func PointState(d *tpsa.Desc, x []float64) State {
	s := make(State, len(x))
	for i, v := range x {
		s[i] = tpsa.NewReal(d, tpsa.MaxOrd).SetVal(v)
	}
	return s
}

// Map returns s as a map for composition and evaluation.
func (s State) Map() tpsa.Map[float64] { return tpsa.Map[float64](s) }

// Desc returns the descriptor of s.
func (s State) Desc() *tpsa.Desc { return s.Map().Desc() }

func (s State) Clone() State {
	return State(s.Map().Clone())
}

// Zero returns a zero state with the same shape as s.
func (s State) Zero() State {
	z := make(State, len(s))
	for i, c := range s {
		z[i] = tpsa.NewLike(c)
	}
	return z
}

// Point returns the reference point of s.
func (s State) Point() []float64 {
	return s.Map().Values()
}

// IsValid reports whether every coefficient of s is finite.
func (s State) IsValid() bool {
	for _, c := range s {
		for _, v := range c.Terms() {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

// Norm returns the largest coefficient norm among the components.
func (s State) Norm() float64 {
	n := 0.0
	for _, c := range s {
		n = max(n, c.Nrm())
	}
	return n
}

// Copy sets s from x component-wise.
func (s State) Copy(x State) State {
	for i := range s {
		s[i].Copy(x[i])
	}
	return s
}

// AddScaled sets s = x + h*k. s may alias x or k.
func (s State) AddScaled(x State, h float64, k State) State {
	for i := range s {
		s[i].Axpbypc(1, x[i], h, k[i], 0)
	}
	return s
}

// Combine sets s = x + sum_j w[j]*ks[j]. s must not alias any of ks.
func (s State) Combine(x State, w []float64, ks ...State) State {
	s.Copy(x)
	for j, k := range ks {
		if w[j] == 0 {
			continue
		}
		for i := range s {
			s[i].Acc(k[i], w[j])
		}
	}
	return s
}

// System is an ODE dx/dt = f(x, t) evaluated on series. Derive writes f(x, t)
// into dx, which has the shape of x.
type System interface {
	Derive(x State, t float64, dx State) error
	StateDim() int
}

// Hamiltonian systems expose a conserved energy at a phase-space point.
type Hamiltonian interface {
	Energy(x []float64) float64
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) (State, error)
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, t float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Defaulted systems provide a reference point to expand around.
type Defaulted interface {
	DefaultState() []float64
}

type Config struct {
	Dt            float64
	Duration      float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
	// MaxNorm bounds the state norm; zero disables the check.
	MaxNorm float64
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      1.0,
		Tolerance:     1e-8,
		MaxDt:         0.1,
		MinDt:         1e-8,
		Adaptive:      false,
		ValidateState: true,
		MaxNorm:       1e12,
	}
}

// Validate checks the step and duration settings.
func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrParameterBounds, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrParameterBounds, c.Duration)
	}
	if c.Adaptive && c.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive for adaptive stepping", ErrParameterBounds)
	}
	return nil
}

// Result is the outcome of one propagation: the transfer map from the start
// to the end time, and the reference orbit sampled at every accepted step.
type Result struct {
	Map         State
	Orbit       [][]float64
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
}

// CheckDim verifies that x matches the dimension of sys.
func CheckDim(sys System, x State) error {
	if len(x) != sys.StateDim() {
		return fmt.Errorf("%w: state has %d components, system %d", ErrDimensionMismatch, len(x), sys.StateDim())
	}
	return nil
}
