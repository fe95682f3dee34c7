// Package dynamo provides the core primitives for propagating Taylor maps
// through dynamical systems.
//
// A [State] holds one truncated power series per phase-space coordinate,
// expanded in the deviations from a reference point. Integrating the
// equations of motion on such a state yields the transfer map of the flow
// instead of a single trajectory.
//
//   - [State]: vector of series sharing one descriptor
//   - [System]: interface for ODE systems (dX/dt = f(X, t)) over series
//   - [Integrator]: numerical integrator interface
//   - [StatePool]: reusable stage buffers for integrators
//
// # Example
//
//	d, _ := tpsa.NewDesc(tpsa.Config{NumVars: 2, MaxOrder: 6})
//	x0 := dynamo.NewState(d, []float64{0.3, 0})
//	p := sim.New(physics.NewPendulum(), integrators.NewRK4())
//	result, _ := p.Run(ctx, x0, dynamo.DefaultConfig())
//
// # Thread Safety
//
// Integrators keep stage buffers and are NOT safe for concurrent use.
// Systems are stateless during Derive and may be shared.
package dynamo
