package integrators

import (
	"fmt"

	"github.com/san-kum/gtpsa/internal/dynamo"
)

// halfDim splits x into positions and velocities of equal length.
func halfDim(x dynamo.State) (int, error) {
	if len(x)%2 != 0 {
		return 0, fmt.Errorf("%w: symplectic step needs [q..., p...], got %d components", dynamo.ErrDimensionMismatch, len(x))
	}
	return len(x) / 2, nil
}

// Verlet is the velocity Verlet scheme for states laid out as
// [positions..., velocities...].
type Verlet struct {
	stages
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	half, err := halfDim(x)
	if err != nil {
		return nil, err
	}

	dx, err := v.derive(sys, x, t)
	if err != nil {
		return nil, err
	}
	defer v.put(dx)

	result := x.Zero()
	dt2 := dt * dt
	for i := 0; i < half; i++ {
		result[i].Axpbypc(1, x[i], dt, x[half+i], 0).Acc(dx[half+i], 0.5*dt2)
	}

	scratch := v.get(x)
	defer v.put(scratch)
	for i := 0; i < half; i++ {
		scratch[i].Copy(result[i])
		scratch[half+i].Copy(x[half+i])
	}

	dxNew, err := v.derive(sys, scratch, t+dt)
	if err != nil {
		return nil, err
	}
	defer v.put(dxNew)

	halfDt := 0.5 * dt
	for i := 0; i < half; i++ {
		result[half+i].Axpbypc(1, x[half+i], halfDt, dx[half+i], 0).Acc(dxNew[half+i], halfDt)
	}
	return result, nil
}

// Leapfrog is the kick-drift-kick scheme for states laid out as
// [positions..., velocities...].
type Leapfrog struct {
	stages
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	half, err := halfDim(x)
	if err != nil {
		return nil, err
	}

	dx, err := l.derive(sys, x, t)
	if err != nil {
		return nil, err
	}
	defer l.put(dx)

	halfDt := dt * 0.5
	scratch := l.get(x)
	defer l.put(scratch)
	for i := 0; i < half; i++ {
		scratch[half+i].Axpbypc(1, x[half+i], halfDt, dx[half+i], 0)
	}

	result := x.Zero()
	for i := 0; i < half; i++ {
		result[i].Axpbypc(1, x[i], dt, scratch[half+i], 0)
		scratch[i].Copy(result[i])
	}

	dxNew, err := l.derive(sys, scratch, t+dt)
	if err != nil {
		return nil, err
	}
	defer l.put(dxNew)

	for i := 0; i < half; i++ {
		result[half+i].Axpbypc(1, scratch[half+i], halfDt, dxNew[half+i], 0)
	}
	return result, nil
}
