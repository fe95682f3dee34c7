// Package physics provides dynamical system models whose equations of
// motion are evaluated on truncated power series, so propagating them yields
// transfer maps and not just orbits.
//
// Each model implements the [dynamo.System] interface:
//
//   - [Pendulum] and [CoupledPendulums]: rigid pendulums
//   - [Duffing], [DoubleWell] and [VanDerPol]: nonlinear oscillators
//   - [SpringMass]: a linear chain between two walls
//   - [Kepler]: planar motion around a central mass
//   - [Lorenz] and [Rossler]: strange attractors
//
// Most models also implement [dynamo.Configurable] for runtime parameter
// adjustment, [dynamo.Defaulted] for a reference point, and
// [dynamo.Hamiltonian] for energy calculation.
//
// # Energy Conservation
//
// For Hamiltonian systems, use [dynamo.Hamiltonian] to monitor energy drift:
//
//	dyn := physics.NewKepler()
//	if h, ok := dyn.(dynamo.Hamiltonian); ok {
//	    energy := h.Energy(res.Orbit[len(res.Orbit)-1])
//	}
package physics
