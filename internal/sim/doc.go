// Package sim propagates Taylor maps through dynamical systems.
//
// A [Propagator] integrates a [dynamo.System] on a [dynamo.State] and
// returns the transfer map of the flow. A [Tracker] iterates a one-period
// map by composition or point evaluation, and an [Ensemble] measures how
// well a map reproduces direct tracking of sampled initial conditions.
package sim
