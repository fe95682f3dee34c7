package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/gtpsa/internal/dynamo"
)

// Jacobian returns the linear part of m restricted to its own components:
// entry [i][j] is d m_i / d x_j for j < len(m).
func Jacobian(m dynamo.State) ([][]float64, error) {
	n := len(m)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty map", dynamo.ErrDimensionMismatch)
	}
	if nv := m.Desc().NumVars(); n > nv {
		return nil, fmt.Errorf("%w: map has %d components, descriptor %d variables", dynamo.ErrDimensionMismatch, n, nv)
	}
	lin := m.Map().Linear()
	jac := make([][]float64, n)
	for i, row := range lin {
		jac[i] = append([]float64(nil), row[:n]...)
	}
	return jac, nil
}

// Det returns the determinant of a square matrix by LU decomposition with
// partial pivoting.
func Det(a [][]float64) float64 {
	n := len(a)
	lu := make([][]float64, n)
	for i := range a {
		lu[i] = append([]float64(nil), a[i]...)
	}
	det := 1.0
	for k := 0; k < n; k++ {
		p := k
		for i := k + 1; i < n; i++ {
			if math.Abs(lu[i][k]) > math.Abs(lu[p][k]) {
				p = i
			}
		}
		if lu[p][k] == 0 {
			return 0
		}
		if p != k {
			lu[p], lu[k] = lu[k], lu[p]
			det = -det
		}
		det *= lu[k][k]
		for i := k + 1; i < n; i++ {
			f := lu[i][k] / lu[k][k]
			for j := k + 1; j < n; j++ {
				lu[i][j] -= f * lu[k][j]
			}
		}
	}
	return det
}

// SymplecticError returns max |M^T J M - J| for the linear part of m, with
// coordinates ordered (q_1..q_n, p_1..p_n).
func SymplecticError(m dynamo.State) (float64, error) {
	jac, err := Jacobian(m)
	if err != nil {
		return 0, err
	}
	dim := len(jac)
	if dim%2 != 0 {
		return 0, fmt.Errorf("%w: symplectic form needs an even dimension, got %d", dynamo.ErrDimensionMismatch, dim)
	}
	half := dim / 2
	omega := func(i, j int) float64 {
		switch {
		case j == i+half:
			return 1
		case i == j+half:
			return -1
		}
		return 0
	}

	// jm = J * M
	jm := make([][]float64, dim)
	for i := range jm {
		jm[i] = make([]float64, dim)
		for j := 0; j < dim; j++ {
			if i < half {
				jm[i][j] = jac[i+half][j]
			} else {
				jm[i][j] = -jac[i-half][j]
			}
		}
	}

	worst := 0.0
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			s := 0.0
			for k := 0; k < dim; k++ {
				s += jac[k][i] * jm[k][j]
			}
			worst = max(worst, math.Abs(s-omega(i, j)))
		}
	}
	return worst, nil
}

// Plane describes the linear motion in one (q_k, p_k) plane of a one-period
// map, ignoring coupling to the other planes.
type Plane struct {
	Trace  float64
	Det    float64
	Stable bool
	// Tune is the phase advance in turns, in [0, 0.5]. NaN when unstable.
	Tune float64
}

// Planes returns the stability of every (q_k, p_k) block of the linear part
// of m.
func Planes(m dynamo.State) ([]Plane, error) {
	jac, err := Jacobian(m)
	if err != nil {
		return nil, err
	}
	dim := len(jac)
	if dim%2 != 0 {
		return nil, fmt.Errorf("%w: planes need an even dimension, got %d", dynamo.ErrDimensionMismatch, dim)
	}
	half := dim / 2
	out := make([]Plane, half)
	for k := range out {
		a, b := jac[k][k], jac[k][k+half]
		c, d := jac[k+half][k], jac[k+half][k+half]
		p := Plane{Trace: a + d, Det: a*d - b*c, Tune: math.NaN()}
		if math.Abs(p.Trace) < 2 {
			p.Stable = true
			p.Tune = math.Acos(p.Trace/2) / (2 * math.Pi)
		}
		out[k] = p
	}
	return out, nil
}

// OrderNorms returns, for every component of m, the sum of absolute
// coefficients of each order up to the highest populated one.
func OrderNorms(m dynamo.State) [][]float64 {
	hi := m.Map().Hi()
	out := make([][]float64, len(m))
	for i, c := range m {
		out[i] = make([]float64, hi+1)
		for o := 0; o <= hi; o++ {
			out[i][o] = c.OrderNrm(o)
		}
	}
	return out
}
