package physics

import (
	"math"

	"github.com/san-kum/gtpsa/internal/dynamo"
)

// Pendulum is a damped rigid pendulum. State: [theta, omega].
type Pendulum struct {
	Mass    float64
	Length  float64
	Damping float64
	Gravity float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Mass:    1.0,
		Length:  1.0,
		Damping: 0.1,
		Gravity: 9.81,
	}
}

func (p *Pendulum) StateDim() int {
	return 2
}

func (p *Pendulum) Derive(x dynamo.State, _ float64, dx dynamo.State) error {
	tmp := temps(x, 1)[0]
	if err := tmp.Sin(x[0]); err != nil {
		return err
	}
	inertia := p.Mass * p.Length * p.Length
	dx[1].Axpbypc(-p.Damping/inertia, x[1], -p.Mass*p.Gravity*p.Length/inertia, tmp, 0)
	dx[0].Copy(x[1])
	return nil
}

func (p *Pendulum) DefaultState() []float64 { return []float64{0.3, 0} }

func (p *Pendulum) Energy(x []float64) float64 {
	// KE = 0.5 * m * (L*omega)^2
	// PE = m * g * L * (1 - cos(theta))
	v := p.Length * x[1]
	ke := 0.5 * p.Mass * v * v
	pe := p.Mass * p.Gravity * p.Length * (1.0 - math.Cos(x[0]))
	return ke + pe
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":    p.Mass,
		"length":  p.Length,
		"damping": p.Damping,
		"gravity": p.Gravity,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		p.Mass = value
	case "length":
		p.Length = value
	case "damping":
		p.Damping = value
	case "gravity":
		p.Gravity = value
	default:
		return unknownParam(name)
	}
	return nil
}
