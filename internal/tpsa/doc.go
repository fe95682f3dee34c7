// Package tpsa implements a truncated power series algebra.
//
// A Desc fixes the number of variables, the maximum order and the monomial
// layout shared by every Series built on it. Series hold one coefficient per
// monomial and track which orders may be nonzero. Results are truncated to
// the descriptor's truncation order.
//
// Arithmetic follows the math/big convention: the receiver holds the result
// and may alias any operand.
//
//	d, _ := tpsa.NewDesc(tpsa.Config{NumVars: 2, MaxOrder: 4})
//	x := tpsa.New[float64](d, tpsa.MaxOrd)
//	x.SetVar(0, 0.5, 1)
//	y := tpsa.New[float64](d, tpsa.MaxOrd)
//	_ = y.Exp(x)
//
// Elementary functions return *DomainError when the constant term lies
// outside the function domain. Mixing series from different descriptors is
// a programming error and panics.
package tpsa
