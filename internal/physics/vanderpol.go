package physics

import "github.com/san-kum/gtpsa/internal/dynamo"

// VanDerPol implements the Van der Pol oscillator.
// State: [x, y] where y = dx/dt
// Equations:
//
//	dx/dt = y
//	dy/dt = μ(1 - x²)y - x
type VanDerPol struct {
	mu float64 // Nonlinearity parameter
}

func NewVanDerPol() *VanDerPol {
	return &VanDerPol{
		mu: 1.0, // Classic value for limit cycle
	}
}

func (v *VanDerPol) StateDim() int { return 2 }

func (v *VanDerPol) Derive(state dynamo.State, _ float64, dx dynamo.State) error {
	damp := temps(state, 1)[0]
	damp.Mul(state[0], state[0])
	damp.Axpb(-v.mu, damp, v.mu)
	damp.Mul(damp, state[1])

	dx[1].Sub(damp, state[0])
	dx[0].Copy(state[1])
	return nil
}

func (v *VanDerPol) DefaultState() []float64 {
	return []float64{2.0, 0.0}
}

// GetParams implements dynamo.Configurable
func (v *VanDerPol) GetParams() map[string]float64 {
	return map[string]float64{
		"mu": v.mu,
	}
}

// SetParam implements dynamo.Configurable
func (v *VanDerPol) SetParam(name string, value float64) error {
	if name != "mu" {
		return unknownParam(name)
	}
	v.mu = value
	return nil
}
