package physics

import (
	"github.com/san-kum/gtpsa/internal/dynamo"
)

// Duffing implements a nonlinear forced oscillator. The drive phase is a
// state variable so the system is autonomous. State: [x, v, phi].
type Duffing struct {
	Alpha, Beta, Delta, Gamma, Omega float64
}

func NewDuffing() *Duffing {
	return &Duffing{-1.0, 1.0, 0.3, 0.5, 1.2}
}

func (d *Duffing) StateDim() int { return 3 }

func (d *Duffing) Derive(s dynamo.State, _ float64, dx dynamo.State) error {
	t := temps(s, 2)
	cube, drive := t[0], t[1]
	cube.Mul(s[0], s[0])
	cube.Mul(cube, s[0])
	if err := drive.Cos(s[2]); err != nil {
		return err
	}
	dx[1].Axpbypc(-d.Delta, s[1], -d.Alpha, s[0], 0)
	dx[1].Acc(cube, -d.Beta)
	dx[1].Acc(drive, d.Gamma)
	dx[0].Copy(s[1])
	dx[2].SetVal(d.Omega)
	return nil
}

func (d *Duffing) DefaultState() []float64 { return []float64{1.0, 0.0, 0.0} }

// Energy ignores the drive phase.
func (d *Duffing) Energy(s []float64) float64 {
	x, v := s[0], s[1]
	return 0.5*v*v + 0.5*d.Alpha*x*x + 0.25*d.Beta*x*x*x*x
}

func (d *Duffing) GetParams() map[string]float64 {
	return map[string]float64{"alpha": d.Alpha, "beta": d.Beta, "delta": d.Delta, "gamma": d.Gamma, "omega": d.Omega}
}

func (d *Duffing) SetParam(n string, v float64) error {
	switch n {
	case "alpha":
		d.Alpha = v
	case "beta":
		d.Beta = v
	case "delta":
		d.Delta = v
	case "gamma":
		d.Gamma = v
	case "omega":
		d.Omega = v
	default:
		return unknownParam(n)
	}
	return nil
}
