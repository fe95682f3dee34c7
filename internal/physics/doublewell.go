package physics

import (
	"math"

	"github.com/san-kum/gtpsa/internal/dynamo"
)

// DoubleWell models a particle in a bistable potential well
// V(x) = A (x^2 - B)^2. State: [x, v].
type DoubleWell struct {
	A, B, Mass, Damping float64
}

func NewDoubleWell() *DoubleWell {
	return &DoubleWell{1.0, 1.0, 1.0, 0.1}
}

func (d *DoubleWell) StateDim() int { return 2 }

func (d *DoubleWell) Derive(s dynamo.State, _ float64, dx dynamo.State) error {
	force := temps(s, 1)[0]
	// -4A x (x^2 - B)
	force.Mul(s[0], s[0])
	force.AddVal(force, -d.B)
	force.Mul(force, s[0])
	dx[1].Axpbypc(-4*d.A/d.Mass, force, -d.Damping/d.Mass, s[1], 0)
	dx[0].Copy(s[1])
	return nil
}

func (d *DoubleWell) DefaultState() []float64 { return []float64{math.Sqrt(d.B) + 0.1, 0} }

func (d *DoubleWell) Energy(s []float64) float64 {
	x, v := s[0], s[1]
	return 0.5*d.Mass*v*v + d.A*math.Pow(x*x-d.B, 2)
}

func (d *DoubleWell) GetParams() map[string]float64 {
	return map[string]float64{"A": d.A, "B": d.B, "mass": d.Mass, "damping": d.Damping}
}

func (d *DoubleWell) SetParam(n string, v float64) error {
	switch n {
	case "A":
		d.A = v
	case "B":
		d.B = v
	case "mass":
		d.Mass = v
	case "damping":
		d.Damping = v
	default:
		return unknownParam(n)
	}
	return nil
}
