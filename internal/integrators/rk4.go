package integrators

import "github.com/san-kum/gtpsa/internal/dynamo"

type RK4 struct {
	stages
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	scratch := r.get(x)
	defer r.put(scratch)

	k1, err := r.derive(sys, x, t)
	if err != nil {
		return nil, err
	}
	defer r.put(k1)

	scratch.AddScaled(x, dt*0.5, k1)
	k2, err := r.derive(sys, scratch, t+dt*0.5)
	if err != nil {
		return nil, err
	}
	defer r.put(k2)

	scratch.AddScaled(x, dt*0.5, k2)
	k3, err := r.derive(sys, scratch, t+dt*0.5)
	if err != nil {
		return nil, err
	}
	defer r.put(k3)

	scratch.AddScaled(x, dt, k3)
	k4, err := r.derive(sys, scratch, t+dt)
	if err != nil {
		return nil, err
	}
	defer r.put(k4)

	dt6 := dt / 6.0
	return x.Zero().Combine(x, []float64{dt6, 2 * dt6, 2 * dt6, dt6}, k1, k2, k3, k4), nil
}
