package physics

import "github.com/san-kum/gtpsa/internal/dynamo"

type Lorenz struct{ sigma, rho, beta float64 }

func NewLorenz() *Lorenz        { return &Lorenz{10.0, 28.0, 8.0 / 3.0} }
func (l *Lorenz) StateDim() int { return 3 }

// Derive calculates the Lorenz attractor derivatives.
func (l *Lorenz) Derive(s dynamo.State, _ float64, dx dynamo.State) error {
	t := temps(s, 2)
	xy, xz := t[0], t[1]
	xy.Mul(s[0], s[1])
	xz.Mul(s[0], s[2])
	dx[0].Axpbypc(l.sigma, s[1], -l.sigma, s[0], 0)
	dx[1].Axpbypc(l.rho, s[0], -1, s[1], 0)
	dx[1].Acc(xz, -1)
	dx[2].Axpbypc(1, xy, -l.beta, s[2], 0)
	return nil
}

func (l *Lorenz) DefaultState() []float64 { return []float64{1.0, 1.0, 1.0} }

func (l *Lorenz) GetParams() map[string]float64 {
	return map[string]float64{"sigma": l.sigma, "rho": l.rho, "beta": l.beta}
}

func (l *Lorenz) SetParam(n string, v float64) error {
	switch n {
	case "sigma":
		l.sigma = v
	case "rho":
		l.rho = v
	case "beta":
		l.beta = v
	default:
		return unknownParam(n)
	}
	return nil
}
