package integrators

import "github.com/san-kum/gtpsa/internal/dynamo"

type Euler struct {
	stages
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	dx, err := e.derive(sys, x, t)
	if err != nil {
		return nil, err
	}
	defer e.put(dx)
	return x.Zero().AddScaled(x, dt, dx), nil
}
