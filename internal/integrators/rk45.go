package integrators

import (
	"math"

	"github.com/san-kum/gtpsa/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

type RK45 struct {
	stages
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// Step takes one fifth order step of size dt without error control.
func (r *RK45) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	xNew, _, err := r.step(sys, x, t, dt, false)
	return xNew, err
}

// StepAdaptive takes one step of size dt and returns the next suggested
// timestep. When the error estimate exceeds tol the step is discarded and
// the error wraps dynamo.ErrStepRejected.
func (r *RK45) StepAdaptive(sys dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, error) {
	xNew, errMax, err := r.step(sys, x, t, dt, true)
	if err != nil {
		return nil, dt, err
	}

	errRatio := errMax / tol
	if errRatio > 1 {
		scale := math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
		return nil, dt * scale, dynamo.ErrStepRejected
	}

	dtNew := dt * r.maxScale
	if errRatio > 0 {
		dtNew = dt * math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
	}
	return xNew, dtNew, nil
}

// step returns the advanced state and, when estimate is set, the largest
// relative error estimate over the components measured in coefficient norm.
func (r *RK45) step(sys dynamo.System, x dynamo.State, t, dt float64, estimate bool) (dynamo.State, float64, error) {
	xs := r.get(x)
	defer r.put(xs)

	var ks []dynamo.State
	defer func() { r.put(ks...) }()
	stage := func(tt float64, w ...float64) error {
		xs.Combine(x, w, ks[:len(w)]...)
		k, err := r.derive(sys, xs, tt)
		if err != nil {
			return err
		}
		ks = append(ks, k)
		return nil
	}

	k1, err := r.derive(sys, x, t)
	if err != nil {
		return nil, 0, err
	}
	ks = append(ks, k1)

	steps := []struct {
		a float64
		w []float64
	}{
		{a2, []float64{b21}},
		{a3, []float64{b31, b32}},
		{a4, []float64{b41, b42, b43}},
		{a5, []float64{b51, b52, b53, b54}},
		{1, []float64{b61, b62, b63, b64, b65}},
	}
	for _, s := range steps {
		w := make([]float64, len(s.w))
		for i, b := range s.w {
			w[i] = dt * b
		}
		if err := stage(t+s.a*dt, w...); err != nil {
			return nil, 0, err
		}
	}

	xNew := x.Zero().Combine(x, []float64{dt * c1, 0, dt * c3, dt * c4, dt * c5, dt * c6}, ks...)
	if !estimate {
		return xNew, 0, nil
	}

	k7, err := r.derive(sys, xNew, t+dt)
	if err != nil {
		return nil, 0, err
	}
	ks = append(ks, k7)

	errEst := xs.Zero()
	errEst.Combine(errEst, []float64{dt * dc1, 0, dt * dc3, dt * dc4, dt * dc5, dt * dc6, dt * dc7}, ks...)
	errMax := 0.0
	for i := range x {
		scale := x[i].Nrm() + math.Abs(dt)*k1[i].Nrm() + 1e-10
		errMax = math.Max(errMax, errEst[i].Nrm()/scale)
	}
	return xNew, errMax, nil
}
