package physics

import (
	"math"

	"github.com/san-kum/gtpsa/internal/dynamo"
)

// CoupledPendulums implements two pendulums connected by a spring.
// State: [theta1, theta2, omega1, omega2]
// Demonstrates energy transfer and coupled oscillations.
type CoupledPendulums struct {
	l float64 // Pendulum length
	g float64 // Gravity
	k float64 // Spring constant (coupling strength)
	m float64 // Mass of each bob
}

func NewCoupledPendulums() *CoupledPendulums {
	return &CoupledPendulums{
		l: 1.0,
		g: 9.81,
		k: 20.0,
		m: 1.0,
	}
}

func (c *CoupledPendulums) StateDim() int { return 4 }

func (c *CoupledPendulums) Derive(s dynamo.State, _ float64, dx dynamo.State) error {
	t := temps(s, 3)
	sin1, sin2, stretch := t[0], t[1], t[2]
	if err := sin1.Sin(s[0]); err != nil {
		return err
	}
	if err := sin2.Sin(s[1]); err != nil {
		return err
	}
	stretch.Sub(s[1], s[0])

	// Coupling force proportional to (theta2 - theta1)
	coupling := c.k / (c.m * c.l)
	dx[2].Axpbypc(-c.g/c.l, sin1, coupling, stretch, 0)
	dx[3].Axpbypc(-c.g/c.l, sin2, -coupling, stretch, 0)
	dx[0].Copy(s[2])
	dx[1].Copy(s[3])
	return nil
}

func (c *CoupledPendulums) DefaultState() []float64 {
	return []float64{0.5, 0.0, 0.0, 0.0} // One pendulum displaced
}

func (c *CoupledPendulums) Energy(s []float64) float64 {
	ke := 0.5 * c.m * c.l * c.l * (s[2]*s[2] + s[3]*s[3])
	pe := c.m * c.g * c.l * (2 - math.Cos(s[0]) - math.Cos(s[1]))
	spring := 0.5 * c.k * c.l * (s[1] - s[0]) * (s[1] - s[0])
	return ke + pe + spring
}

// GetParams implements dynamo.Configurable
func (c *CoupledPendulums) GetParams() map[string]float64 {
	return map[string]float64{
		"l": c.l,
		"g": c.g,
		"k": c.k,
		"m": c.m,
	}
}

// SetParam implements dynamo.Configurable
func (c *CoupledPendulums) SetParam(name string, value float64) error {
	switch name {
	case "l":
		c.l = value
	case "g":
		c.g = value
	case "k":
		c.k = value
	case "m":
		c.m = value
	default:
		return unknownParam(name)
	}
	return nil
}
