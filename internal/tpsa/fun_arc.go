package tpsa

import "math"

func (c *Series[T]) Asin(a *Series[T]) error  { return c.apply(a, asin[T]) }
func (c *Series[T]) Acos(a *Series[T]) error  { return c.apply(a, acos[T]) }
func (c *Series[T]) Atan(a *Series[T]) error  { return c.apply(a, atan[T]) }
func (c *Series[T]) Acot(a *Series[T]) error  { return c.apply(a, acot[T]) }
func (c *Series[T]) Asinh(a *Series[T]) error { return c.apply(a, asinh[T]) }
func (c *Series[T]) Acosh(a *Series[T]) error { return c.apply(a, acosh[T]) }
func (c *Series[T]) Atanh(a *Series[T]) error { return c.apply(a, atanh[T]) }
func (c *Series[T]) Acoth(a *Series[T]) error { return c.apply(a, acoth[T]) }

// viaComplex runs fn on the complex lift of a when T is real and keeps the
// real part. fn must tolerate its input aliasing its output.
func viaComplex[T Num](st *scratch, a, c *Series[T], fn func(st *scratch, x, r *CTPSA) error) error {
	if ca, ok := any(a).(*CTPSA); ok {
		return fn(st, ca, any(c).(*CTPSA))
	}
	ar, cr := any(a).(*TPSA), any(c).(*TPSA)
	t := tmp[complex128](st, cr.mo)
	Cplx(ar, nil, t)
	err := fn(st, t, t)
	if err == nil {
		RealPart(t, cr)
	}
	rel(st, t)
	return err
}

// asinCoefs are the Taylor coefficients of asin (s = 1) or acos (s = -1) at a0.
func asinCoefs[T Num](a0, f0, s T) []T {
	a2 := a0 * a0
	f1 := s / sqrtOf(1-a2)
	f2 := f1 * f1
	f4 := f2 * f2
	return []T{
		f0,
		f1,
		a0 * T(1./2) * f2 * f1,
		(T(1./6) + T(1./3)*a2) * f4 * f1,
		a0 * (T(3./8) + T(1./4)*a2) * f4 * f2 * f1,
		(T(3./40) + a2*(T(3./5)+T(1./5)*a2)) * f4 * f4 * f1,
		a0 * (T(5./16) + a2*(T(5./6)+T(1./6)*a2)) * f4 * f4 * f2 * f1,
	}
}

func asin[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if isReal[T]() && absOf(a0) >= 1 || a0*a0 == 1 {
		return domainErr("asin", a0)
	}
	f0 := asinOf(a0)
	if c.scalarResult(a, f0) {
		return nil
	}
	if to := c.to(); to <= manualMaxOrder {
		taylor(st, a, asinCoefs(a0, f0, 1)[:to+1], c)
		return nil
	}
	// asin(x) = -i log(i x + sqrt(1 - x^2))
	return viaComplex(st, a, c, func(st *scratch, x, r *CTPSA) error {
		if err := logaxpsqrtbpcx2(st, x, 1i, 1, -1, r); err != nil {
			return err
		}
		r.lin(-1i, r, 0, nil, 0)
		return nil
	})
}

func acos[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if isReal[T]() && absOf(a0) >= 1 || a0*a0 == 1 {
		return domainErr("acos", a0)
	}
	f0 := acosOf(a0)
	if c.scalarResult(a, f0) {
		return nil
	}
	if to := c.to(); to <= manualMaxOrder {
		taylor(st, a, asinCoefs(a0, f0, -1)[:to+1], c)
		return nil
	}
	// acos(x) = pi/2 + i log(i x + sqrt(1 - x^2))
	return viaComplex(st, a, c, func(st *scratch, x, r *CTPSA) error {
		if err := logaxpsqrtbpcx2(st, x, 1i, 1, -1, r); err != nil {
			return err
		}
		r.lin(1i, r, 0, nil, math.Pi/2)
		return nil
	})
}

// atanCoefs are the Taylor coefficients of atan (s = 1) or acot (s = -1) at a0.
func atanCoefs[T Num](a0, f0, s T) []T {
	a2 := a0 * a0
	f1 := s / (1 + a2)
	f2 := f1 * f1
	f4 := f2 * f2
	return []T{
		f0,
		f1,
		-s * a0 * f2,
		(T(-1./3) + a2) * f2 * f1,
		-s * a0 * (-1 + a2) * f4,
		(T(1./5) + a2*(-2+a2)) * f4 * f1,
		-s * a0 * (1 + a2*(T(-10./3)+a2)) * f4 * f2,
	}
}

func atan[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if a0*a0 == -1 {
		return domainErr("atan", a0)
	}
	f0 := atanOf(a0)
	if c.scalarResult(a, f0) {
		return nil
	}
	if to := c.to(); to <= manualMaxOrder {
		taylor(st, a, atanCoefs(a0, f0, 1)[:to+1], c)
		return nil
	}
	// atan(x) = i/2 log((i + x)/(i - x))
	return viaComplex(st, a, c, func(st *scratch, x, r *CTPSA) error {
		tn := tmp[complex128](st, r.mo)
		td := tmp[complex128](st, r.mo)
		td.lin(-1, x, 0, nil, 1i)
		tn.lin(1, x, 0, nil, 1i)
		err := logxdy(st, tn, td, r)
		if err == nil {
			r.lin(0.5i, r, 0, nil, 0)
		}
		rel(st, td)
		rel(st, tn)
		return err
	})
}

func acot[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if a0 == 0 || a0*a0 == -1 {
		return domainErr("acot", a0)
	}
	f0 := atanOf(1 / a0)
	if c.scalarResult(a, f0) {
		return nil
	}
	if to := c.to(); to <= manualMaxOrder {
		taylor(st, a, atanCoefs(a0, f0, -1)[:to+1], c)
		return nil
	}
	// acot(x) = i/2 log((x - i)/(x + i))
	return viaComplex(st, a, c, func(st *scratch, x, r *CTPSA) error {
		tn := tmp[complex128](st, r.mo)
		td := tmp[complex128](st, r.mo)
		tn.lin(1, x, 0, nil, -1i)
		td.lin(1, x, 0, nil, 1i)
		err := logxdy(st, tn, td, r)
		if err == nil {
			r.lin(0.5i, r, 0, nil, 0)
		}
		rel(st, td)
		rel(st, tn)
		return err
	})
}

func asinh[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	a2 := a0 * a0
	if a2 == -1 {
		return domainErr("asinh", a0)
	}
	f0 := asinhOf(a0)
	if c.scalarResult(a, f0) {
		return nil
	}
	to := c.to()
	if to > manualMaxOrder {
		// asinh(x) = log(x + sqrt(1 + x^2))
		return logaxpsqrtbpcx2(st, a, 1, 1, 1, c)
	}
	f1 := 1 / sqrtOf(a2+1)
	f2 := f1 * f1
	f4 := f2 * f2
	coef := []T{
		f0,
		f1,
		a0 * T(-1./2) * f2 * f1,
		(T(-1./6) + T(1./3)*a2) * f4 * f1,
		a0 * (T(3./8) - T(1./4)*a2) * f4 * f2 * f1,
		(T(3./40) + a2*(T(-3./5)+T(1./5)*a2)) * f4 * f4 * f1,
		a0 * (T(-5./16) + a2*(T(5./6)-T(1./6)*a2)) * f4 * f4 * f2 * f1,
	}
	taylor(st, a, coef[:to+1], c)
	return nil
}

func acosh[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	a2 := a0 * a0
	if isReal[T]() && realOf(a0) <= 1 || a2 == 1 {
		return domainErr("acosh", a0)
	}
	f0 := acoshOf(a0)
	if c.scalarResult(a, f0) {
		return nil
	}
	to := c.to()
	if to > manualMaxOrder {
		// acosh(x) = log(x + sqrt(x^2 - 1))
		return logaxpsqrtbpcx2(st, a, 1, -1, 1, c)
	}
	f1 := 1 / sqrtOf(a2-1)
	f2 := f1 * f1
	f4 := f2 * f2
	coef := []T{
		f0,
		f1,
		-a0 * T(1./2) * f2 * f1,
		(T(1./6) + T(1./3)*a2) * f4 * f1,
		-a0 * (T(3./8) + T(1./4)*a2) * f4 * f2 * f1,
		(T(3./40) + a2*(T(3./5)+T(1./5)*a2)) * f4 * f4 * f1,
		-a0 * (T(5./16) + a2*(T(5./6)+T(1./6)*a2)) * f4 * f4 * f2 * f1,
	}
	taylor(st, a, coef[:to+1], c)
	return nil
}

// atanhCoefs are the Taylor coefficients of any solution of f' = 1/(1 - x^2)
// (atanh and acoth) at a0 where f = f0.
func atanhCoefs[T Num](a0, f0 T) []T {
	a2 := a0 * a0
	f1 := 1 / (1 - a2)
	f2 := f1 * f1
	f4 := f2 * f2
	return []T{
		f0,
		f1,
		a0 * f2,
		(T(1./3) + a2) * f2 * f1,
		a0 * (1 + a2) * f4,
		(T(1./5) + a2*(2+a2)) * f4 * f1,
		a0 * (1 + a2*(T(10./3)+a2)) * f4 * f2,
	}
}

func atanh[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if isReal[T]() && absOf(a0) >= 1 || a0*a0 == 1 {
		return domainErr("atanh", a0)
	}
	f0 := atanhOf(a0)
	if c.scalarResult(a, f0) {
		return nil
	}
	if to := c.to(); to <= manualMaxOrder {
		taylor(st, a, atanhCoefs(a0, f0)[:to+1], c)
		return nil
	}
	// atanh(x) = 1/2 log((1 + x)/(1 - x))
	tn := tmp[T](st, c.mo)
	td := tmp[T](st, c.mo)
	tn.lin(1, a, 0, nil, 1)
	td.lin(-1, a, 0, nil, 1)
	err := logxdy(st, tn, td, c)
	if err == nil {
		c.lin(0.5, c, 0, nil, 0)
	}
	rel(st, td)
	rel(st, tn)
	return err
}

func acoth[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if isReal[T]() && absOf(a0) <= 1 || a0 == 0 || a0*a0 == 1 {
		return domainErr("acoth", a0)
	}
	f0 := atanhOf(1 / a0)
	if c.scalarResult(a, f0) {
		return nil
	}
	if to := c.to(); to <= manualMaxOrder {
		taylor(st, a, atanhCoefs(a0, f0)[:to+1], c)
		return nil
	}
	// acoth(x) = 1/2 log((x + 1)/(x - 1))
	tn := tmp[T](st, c.mo)
	td := tmp[T](st, c.mo)
	tn.lin(1, a, 0, nil, 1)
	td.lin(1, a, 0, nil, -1)
	err := logxdy(st, tn, td, c)
	if err == nil {
		c.lin(0.5, c, 0, nil, 0)
	}
	rel(st, td)
	rel(st, tn)
	return err
}
