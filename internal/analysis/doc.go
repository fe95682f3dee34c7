// Package analysis inspects transfer maps and tracking data.
//
// Linear stability comes from the first order part of a map:
//
//   - [Jacobian] and [Det]: the linear part and its determinant
//   - [SymplecticError]: deviation of the linear part from symplecticity
//   - [Planes]: trace, stability and tune of every (q, p) plane
//   - [LyapunovSpectrum]: finite-time Lyapunov exponents
//   - [ParameterScan]: plane stability over a swept model parameter
//
// Nonlinear content is read off tracking output:
//
//   - [NewPhasePortrait] and [NewPoincareSection] with ASCII renderers
//   - [TuneFFT]: the dominant frequency of turn-by-turn data
//
// A map is linearly stable in a plane when the trace of its block has
// magnitude below two:
//
//	planes, err := analysis.Planes(res.Map)
//	if err == nil && planes[0].Stable {
//	    fmt.Printf("tune %.4f\n", planes[0].Tune)
//	}
package analysis
