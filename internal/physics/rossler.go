package physics

import "github.com/san-kum/gtpsa/internal/dynamo"

type Rossler struct{ a, b, c float64 }

func NewRossler() *Rossler       { return &Rossler{0.2, 0.2, 5.7} }
func (r *Rossler) StateDim() int { return 3 }

// Derive calculates the Rossler attractor derivatives.
func (r *Rossler) Derive(s dynamo.State, _ float64, dx dynamo.State) error {
	zx := temps(s, 1)[0]
	zx.AddVal(s[0], -r.c)
	zx.Mul(zx, s[2])
	dx[0].Axpbypc(-1, s[1], -1, s[2], 0)
	dx[1].Axpbypc(1, s[0], r.a, s[1], 0)
	dx[2].AddVal(zx, r.b)
	return nil
}

func (r *Rossler) DefaultState() []float64 { return []float64{1.0, 1.0, 1.0} }

func (r *Rossler) GetParams() map[string]float64 {
	return map[string]float64{"a": r.a, "b": r.b, "c": r.c}
}

func (r *Rossler) SetParam(n string, v float64) error {
	switch n {
	case "a":
		r.a = v
	case "b":
		r.b = v
	case "c":
		r.c = v
	default:
		return unknownParam(n)
	}
	return nil
}
