package physics

import (
	"math"

	"github.com/san-kum/gtpsa/internal/dynamo"
)

// Kepler is a body in the plane around a fixed central mass.
// State: [x, y, vx, vy].
type Kepler struct {
	g         float64 // Gravitational constant times central mass
	softening float64 // Prevent singularities
}

func NewKepler() *Kepler {
	return &Kepler{g: 1.0}
}

func (k *Kepler) StateDim() int { return 4 }

func (k *Kepler) Derive(s dynamo.State, _ float64, dx dynamo.State) error {
	t := temps(s, 2)
	r2, inv3 := t[0], t[1]
	r2.Mul(s[0], s[0])
	inv3.Mul(s[1], s[1])
	r2.Add(r2, inv3)
	r2.AddVal(r2, k.softening*k.softening)
	// (r^2 + eps^2)^(-3/2)
	if err := inv3.PowN(r2, -1.5); err != nil {
		return err
	}
	dx[2].Mul(s[0], inv3)
	dx[2].Scale(dx[2], -k.g)
	dx[3].Mul(s[1], inv3)
	dx[3].Scale(dx[3], -k.g)
	dx[0].Copy(s[2])
	dx[1].Copy(s[3])
	return nil
}

// DefaultState is a circular orbit of unit radius.
func (k *Kepler) DefaultState() []float64 {
	r2 := 1 + k.softening*k.softening
	return []float64{1, 0, 0, math.Sqrt(k.g / math.Pow(r2, 1.5))}
}

func (k *Kepler) Energy(s []float64) float64 {
	r := math.Sqrt(s[0]*s[0] + s[1]*s[1] + k.softening*k.softening)
	return 0.5*(s[2]*s[2]+s[3]*s[3]) - k.g/r
}

// GetParams implements dynamo.Configurable
func (k *Kepler) GetParams() map[string]float64 {
	return map[string]float64{
		"g":         k.g,
		"softening": k.softening,
	}
}

// SetParam implements dynamo.Configurable
func (k *Kepler) SetParam(name string, value float64) error {
	switch name {
	case "g":
		k.g = value
	case "softening":
		k.softening = value
	default:
		return unknownParam(name)
	}
	return nil
}
