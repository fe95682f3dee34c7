package num

import "math"

// Sign returns -1, 0 or 1 following the sign of x. NaN is returned unchanged.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x
}

// DFact returns the double factorial n!!, with (-1)!! = 0!! = 1.
func DFact(n int) float64 {
	if n < -1 {
		return math.NaN()
	}
	r := 1.0
	for ; n > 1; n -= 2 {
		r *= float64(n)
	}
	return r
}

// Fact returns n!.
func Fact(n int) float64 {
	if n < 0 {
		return math.NaN()
	}
	r := 1.0
	for i := 2; i <= n; i++ {
		r *= float64(i)
	}
	return r
}

// Binom returns the binomial coefficient C(n, k).
func Binom(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	r := 1.0
	for i := 1; i <= k; i++ {
		r = r * float64(n-k+i) / float64(i)
	}
	return math.Round(r)
}
