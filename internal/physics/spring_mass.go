package physics

import "github.com/san-kum/gtpsa/internal/dynamo"

const (
	DefaultMass      = 1.0
	DefaultStiffness = 10.0
	DefaultDamping   = 0.5
)

// SpringMass is a chain of masses between two walls.
// State: [x_1..x_n, v_1..v_n].
type SpringMass struct {
	NumMasses int
	Masses    []float64
	// Stiffness has n+1 springs; the last one ties mass n to the right wall.
	Stiffness []float64
	Damping   []float64
}

func NewSpringMass() *SpringMass {
	return &SpringMass{
		NumMasses: 1,
		Masses:    []float64{DefaultMass},
		Stiffness: []float64{DefaultStiffness},
		Damping:   []float64{DefaultDamping},
	}
}

func NewSpringMassChain(n int) *SpringMass {
	masses := make([]float64, n)
	stiffness := make([]float64, n+1)
	damping := make([]float64, n)

	for i := 0; i < n; i++ {
		masses[i] = DefaultMass
		stiffness[i] = DefaultStiffness
		damping[i] = 0.2
	}
	stiffness[n] = DefaultStiffness

	return &SpringMass{
		NumMasses: n,
		Masses:    masses,
		Stiffness: stiffness,
		Damping:   damping,
	}
}

func (s *SpringMass) StateDim() int { return s.NumMasses * 2 }

func (s *SpringMass) Derive(x dynamo.State, t float64, dx dynamo.State) error {
	n := s.NumMasses

	for i := 0; i < n; i++ {
		f := dx[n+i]
		f.Scale(x[i], -s.Stiffness[i])
		if i > 0 {
			f.Acc(x[i-1], s.Stiffness[i])
		}
		if i < n-1 {
			f.Acc(x[i], -s.Stiffness[i+1])
			f.Acc(x[i+1], s.Stiffness[i+1])
		} else if len(s.Stiffness) > n {
			f.Acc(x[i], -s.Stiffness[n])
		}
		f.Acc(x[n+i], -s.Damping[i])
		f.Scale(f, 1/s.Masses[i])
	}
	for i := 0; i < n; i++ {
		dx[i].Copy(x[n+i])
	}
	return nil
}

func (s *SpringMass) DefaultState() []float64 {
	x := make([]float64, 2*s.NumMasses)
	x[0] = 0.1
	return x
}

func (s *SpringMass) Energy(x []float64) float64 {
	n := s.NumMasses
	energy := 0.0

	for i := 0; i < n; i++ {
		v := x[n+i]
		energy += 0.5 * s.Masses[i] * v * v
	}

	for i := 0; i < n; i++ {
		pos := x[i]
		if i == 0 {
			energy += 0.5 * s.Stiffness[0] * pos * pos
		} else {
			stretch := pos - x[i-1]
			energy += 0.5 * s.Stiffness[i] * stretch * stretch
		}
	}

	if len(s.Stiffness) > n {
		energy += 0.5 * s.Stiffness[n] * x[n-1] * x[n-1]
	}

	return energy
}

// GetParams reports the parameters of the first mass.
func (s *SpringMass) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":      s.Masses[0],
		"stiffness": s.Stiffness[0],
		"damping":   s.Damping[0],
	}
}

// SetParam sets a parameter uniformly along the chain.
func (s *SpringMass) SetParam(name string, value float64) error {
	var dst []float64
	switch name {
	case "mass":
		dst = s.Masses
	case "stiffness":
		dst = s.Stiffness
	case "damping":
		dst = s.Damping
	default:
		return unknownParam(name)
	}
	for i := range dst {
		dst[i] = value
	}
	return nil
}
