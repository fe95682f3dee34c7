package analysis

import (
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/gtpsa/internal/dynamo"
)

// LyapunovSpectrum returns the finite-time Lyapunov exponents of a transfer
// map over the given duration, largest first. They are the logarithms of the
// singular values of the linear part divided by the duration.
func LyapunovSpectrum(m dynamo.State, duration float64) ([]float64, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrParameterBounds, duration)
	}
	jac, err := Jacobian(m)
	if err != nil {
		return nil, err
	}
	n := len(jac)
	gram := make([][]float64, n)
	for i := range gram {
		gram[i] = make([]float64, n)
		for j := range gram[i] {
			for k := 0; k < n; k++ {
				gram[i][j] += jac[k][i] * jac[k][j]
			}
		}
	}
	eig := symEigenvalues(gram)
	out := make([]float64, n)
	for i, v := range eig {
		out[i] = 0.5 * math.Log(math.Max(v, 0)) / duration
	}
	slices.SortFunc(out, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})
	return out, nil
}

// LyapunovExponent returns the largest finite-time Lyapunov exponent. A
// positive value over long horizons indicates chaotic motion.
func LyapunovExponent(m dynamo.State, duration float64) (float64, error) {
	lyap, err := LyapunovSpectrum(m, duration)
	if err != nil {
		return 0, err
	}
	return lyap[0], nil
}

// symEigenvalues diagonalizes a symmetric matrix by cyclic Jacobi rotations.
// a is overwritten.
func symEigenvalues(a [][]float64) []float64 {
	n := len(a)
	for sweep := 0; sweep < 100; sweep++ {
		off := 0.0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				off += a[i][j] * a[i][j]
			}
		}
		if off < 1e-30 {
			break
		}
		for p := 0; p < n; p++ {
			for q := p + 1; q < n; q++ {
				if a[p][q] == 0 {
					continue
				}
				theta := (a[q][q] - a[p][p]) / (2 * a[p][q])
				t := math.Copysign(1, theta) / (math.Abs(theta) + math.Sqrt(theta*theta+1))
				c := 1 / math.Sqrt(t*t+1)
				s := t * c
				for k := 0; k < n; k++ {
					akp, akq := a[k][p], a[k][q]
					a[k][p] = c*akp - s*akq
					a[k][q] = s*akp + c*akq
				}
				for k := 0; k < n; k++ {
					apk, aqk := a[p][k], a[q][k]
					a[p][k] = c*apk - s*aqk
					a[q][k] = s*apk + c*aqk
				}
			}
		}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = a[i][i]
	}
	return out
}
