package tpsa

import "github.com/san-kum/gtpsa/internal/num"

func (c *Series[T]) Sinc(a *Series[T]) error   { return c.apply(a, sinc[T]) }
func (c *Series[T]) Sinhc(a *Series[T]) error  { return c.apply(a, sinhc[T]) }
func (c *Series[T]) Asinc(a *Series[T]) error  { return c.apply(a, asinc[T]) }
func (c *Series[T]) Asinhc(a *Series[T]) error { return c.apply(a, asinhc[T]) }

const (
	sincFar  = 0.5
	asincFar = 0.42
	nearZero = 1e-12
)

// cardinal describes f(x)/x for a function f vanishing at zero.
type cardinal[T Num] struct {
	name  string
	far   float64        // ratio band starts above this |a0|
	valid func(T) bool   // domain of a0, nil for entire functions
	value func(T) T      // scalar f(x)/x
	f     unaryFunc[T]   // series f
	coef  func(T, int) T // k-th coefficient at x0 for the intermediate band
	step  func(o int) T  // coef[o]/coef[o-2] of the expansion at zero
}

func sinc[T Num](st *scratch, a, c *Series[T]) error {
	return cardinal[T]{
		far:   sincFar,
		value: sincOf[T],
		f:     sin[T],
		coef:  func(x0 T, k int) T { return trigCardinalCoef(x0, k, -1) },
		step:  func(o int) T { return -1 / fromFloat[T](float64(o*(o+1))) },
	}.eval(st, a, c)
}

func sinhc[T Num](st *scratch, a, c *Series[T]) error {
	return cardinal[T]{
		far:   sincFar,
		value: sinhcOf[T],
		f:     sinh[T],
		coef:  func(x0 T, k int) T { return trigCardinalCoef(x0, k, 1) },
		step:  func(o int) T { return 1 / fromFloat[T](float64(o*(o+1))) },
	}.eval(st, a, c)
}

func asinc[T Num](st *scratch, a, c *Series[T]) error {
	return cardinal[T]{
		name:  "asinc",
		far:   asincFar,
		valid: func(x T) bool { return !(isReal[T]() && absOf(x) >= 1 || x*x == 1) },
		value: asincOf[T],
		f:     asin[T],
		coef:  func(x0 T, k int) T { return arcCardinalCoef(x0, k, 1) },
		step:  func(o int) T { return fromFloat[T](float64((o-1)*(o-1)) / float64(o*(o+1))) },
	}.eval(st, a, c)
}

func asinhc[T Num](st *scratch, a, c *Series[T]) error {
	return cardinal[T]{
		name:  "asinhc",
		far:   asincFar,
		valid: func(x T) bool { return x*x != -1 },
		value: asinhcOf[T],
		f:     asinh[T],
		coef:  func(x0 T, k int) T { return arcCardinalCoef(x0, k, -1) },
		step:  func(o int) T { return fromFloat[T](-float64((o-1)*(o-1)) / float64(o*(o+1))) },
	}.eval(st, a, c)
}

// eval picks one of three bands of |a0|: the ratio f(a)/a far from zero,
// the auxiliary series in a0 in between and the expansion at zero below
// nearZero.
func (cd cardinal[T]) eval(st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if cd.valid != nil && !cd.valid(a0) {
		return domainErr(cd.name, a0)
	}
	if c.scalarResult(a, cd.value(a0)) {
		return nil
	}
	to := c.to()
	coef := make([]T, to+1)
	switch r := absOf(a0); {
	case r > cd.far:
		t := tmp[T](st, c.mo)
		err := cd.f(st, a, t)
		if err == nil {
			err = div(st, t, a, c)
		}
		rel(st, t)
		return err

	case r > nearZero:
		coef[0] = cd.value(a0)
		for k := 1; k <= to; k++ {
			coef[k] = cd.coef(a0, k)
		}

	default:
		coef[0] = 1
		for o := 2; o <= to; o++ {
			coef[o] = coef[o-2] * cd.step(o)
		}
	}
	taylor(st, a, coef, c)
	return nil
}

// trigCardinalCoef returns the k-th Taylor coefficient at x0 of sin(x)/x
// (s = -1) or sinh(x)/x (s = 1), from
//
//	f^(k)(x0) = sum over j with k+j even of s^((k+j)/2) x0^j / (j! (k+j+1)).
func trigCardinalCoef[T Num](x0 T, k int, s T) T {
	const terms = 48
	var sum T
	xj := T(1)
	for j := 0; j < terms; j++ {
		if (k+j)%2 == 0 {
			sum += powi(s, (k+j)/2) * xj / fromFloat[T](float64(k+j+1))
		}
		xj = xj * x0 / fromFloat[T](float64(j+1))
	}
	return sum / fromFloat[T](num.Fact(k))
}

// arcCardinalCoef returns the k-th Taylor coefficient at x0 of asin(x)/x
// (s = 1) or asinh(x)/x (s = -1) from the expansion
//
//	f(x) = sum_n s^n a_n x^(2n),  a_n = a_(n-1) (2n-1)^2 / (2n (2n+1)),  a_0 = 1.
func arcCardinalCoef[T Num](x0 T, k int, s T) T {
	const maxTerms = 400
	var sum T
	an := 1.0
	sn := T(1)
	for n := 0; n < maxTerms; n++ {
		if 2*n >= k {
			term := sn * fromFloat[T](an*num.Binom(2*n, k)) * powi(x0, 2*n-k)
			sum += term
			if 2*n > k+8 && absOf(term) <= 1e-17*absOf(sum) {
				break
			}
		}
		an *= float64((2*n+1)*(2*n+1)) / float64((2*n+2)*(2*n+3))
		sn *= s
	}
	return sum
}
