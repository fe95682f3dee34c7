package tpsa

func (c *Series[T]) Sin(a *Series[T]) error  { return c.apply(a, sin[T]) }
func (c *Series[T]) Cos(a *Series[T]) error  { return c.apply(a, cos[T]) }
func (c *Series[T]) Tan(a *Series[T]) error  { return c.apply(a, tan[T]) }
func (c *Series[T]) Cot(a *Series[T]) error  { return c.apply(a, cot[T]) }
func (c *Series[T]) Sinh(a *Series[T]) error { return c.apply(a, sinh[T]) }
func (c *Series[T]) Cosh(a *Series[T]) error { return c.apply(a, cosh[T]) }
func (c *Series[T]) Tanh(a *Series[T]) error { return c.apply(a, tanh[T]) }
func (c *Series[T]) Coth(a *Series[T]) error { return c.apply(a, coth[T]) }

// SinCos sets s = sin(a) and c = cos(a) sharing one power expansion.
func SinCos[T Num](a, s, c *Series[T]) error {
	a.mustCompat(s, c)
	return a.d.with(func(st *scratch) error { sincos(st, a, s, c, false); return nil })
}

// SinCosh sets s = sinh(a) and c = cosh(a) sharing one power expansion.
func SinCosh[T Num](a, s, c *Series[T]) error {
	a.mustCompat(s, c)
	return a.d.with(func(st *scratch) error { sincos(st, a, s, c, true); return nil })
}

// sincos computes the circular pair, or the hyperbolic pair when hyp is set.
func sincos[T Num](st *scratch, a, s, c *Series[T], hyp bool) {
	a0 := a.coef[0]
	sa, ca, sgn := sinOf(a0), cosOf(a0), T(-1)
	if hyp {
		sa, ca, sgn = sinhOf(a0), coshOf(a0), 1
	}
	if a.IsValue() {
		s.SetVal(sa)
		c.SetVal(ca)
		return
	}
	sto, cto := s.to(), c.to()
	if sto == 0 || cto == 0 {
		if s == a || c == a {
			t := tmp[T](st, a.mo)
			a.copyTo(t)
			sincos(st, t, s, c, hyp)
			rel(st, t)
			return
		}
		if sto == 0 {
			s.SetVal(sa)
		} else {
			taylor(st, a, trigCoefs(sa, ca, sgn, sto), s)
		}
		if cto == 0 {
			c.SetVal(ca)
		} else {
			taylor(st, a, trigCoefs(ca, sgn*sa, sgn, cto), c)
		}
		return
	}
	sincosTaylor(st, a, s, c, trigCoefs(sa, ca, sgn, sto), trigCoefs(ca, sgn*sa, sgn, cto))
}

// trigCoefs returns f0, f1 continued by coef[o] = sgn*coef[o-2]/(o(o-1)).
func trigCoefs[T Num](f0, f1, sgn T, to int) []T {
	coef := make([]T, to+1)
	coef[0] = f0
	if to >= 1 {
		coef[1] = f1
	}
	for o := 2; o <= to; o++ {
		coef[o] = sgn * coef[o-2] / fromFloat[T](float64(o*(o-1)))
	}
	return coef
}

func sin[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if c.scalarResult(a, sinOf(a0)) {
		return nil
	}
	taylor(st, a, trigCoefs(sinOf(a0), cosOf(a0), -1, c.to()), c)
	return nil
}

func cos[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if c.scalarResult(a, cosOf(a0)) {
		return nil
	}
	taylor(st, a, trigCoefs(cosOf(a0), -sinOf(a0), -1, c.to()), c)
	return nil
}

func sinh[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if c.scalarResult(a, sinhOf(a0)) {
		return nil
	}
	taylor(st, a, trigCoefs(sinhOf(a0), coshOf(a0), 1, c.to()), c)
	return nil
}

func cosh[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if c.scalarResult(a, coshOf(a0)) {
		return nil
	}
	taylor(st, a, trigCoefs(coshOf(a0), sinhOf(a0), 1, c.to()), c)
	return nil
}

// tanCoefs are the Taylor coefficients of tan at a point where tan = f0.
func tanCoefs[T Num](f0 T) []T {
	f2 := f0 * f0
	return []T{
		f0,
		1 + f2,
		f0 * (1 + f2),
		T(1./3) + f2*(T(4./3)+f2),
		f0 * (T(2./3) + f2*(T(5./3)+f2)),
		T(2./15) + f2*(T(17./15)+f2*(2+f2)),
		f0 * (T(17./45) + f2*(T(77./45)+f2*(T(7./3)+f2))),
	}
}

// cotCoefs are the Taylor coefficients of cot at a point where cot = f0.
func cotCoefs[T Num](f0 T) []T {
	f2 := f0 * f0
	return []T{
		f0,
		-(1 + f2),
		f0 * (1 + f2),
		-(T(1./3) + f2*(T(4./3)+f2)),
		f0 * (T(2./3) + f2*(T(5./3)+f2)),
		-(T(2./15) + f2*(T(17./15)+f2*(2+f2))),
		f0 * (T(17./45) + f2*(T(77./45)+f2*(T(7./3)+f2))),
	}
}

// tanhCoefs are the Taylor coefficients of any solution of f' = 1 - f^2
// (tanh and coth) at a point where f = f0.
func tanhCoefs[T Num](f0 T) []T {
	f2 := f0 * f0
	return []T{
		f0,
		1 - f2,
		f0 * (-1 + f2),
		T(-1./3) + f2*(T(4./3)-f2),
		f0 * (T(2./3) + f2*(T(-5./3)+f2)),
		T(2./15) + f2*(T(-17./15)+f2*(2-f2)),
		f0 * (T(-17./45) + f2*(T(77./45)+f2*(T(-7./3)+f2))),
	}
}

func tan[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if cosOf(a0) == 0 {
		return domainErr("tan", a0)
	}
	f0 := tanOf(a0)
	if c.scalarResult(a, f0) {
		return nil
	}
	if to := c.to(); to <= manualMaxOrder {
		taylor(st, a, tanCoefs(f0)[:to+1], c)
		return nil
	}
	t := tmp[T](st, c.mo)
	sincos(st, a, t, c, false)
	err := div(st, t, c, c)
	rel(st, t)
	return err
}

func cot[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if sinOf(a0) == 0 {
		return domainErr("cot", a0)
	}
	f0 := cosOf(a0) / sinOf(a0)
	if c.scalarResult(a, f0) {
		return nil
	}
	if to := c.to(); to <= manualMaxOrder {
		taylor(st, a, cotCoefs(f0)[:to+1], c)
		return nil
	}
	t := tmp[T](st, c.mo)
	sincos(st, a, t, c, false)
	err := div(st, c, t, c)
	rel(st, t)
	return err
}

func tanh[T Num](st *scratch, a, c *Series[T]) error {
	f0 := tanhOf(a.coef[0])
	if c.scalarResult(a, f0) {
		return nil
	}
	if to := c.to(); to <= manualMaxOrder {
		taylor(st, a, tanhCoefs(f0)[:to+1], c)
		return nil
	}
	t := tmp[T](st, c.mo)
	sincos(st, a, t, c, true)
	err := div(st, t, c, c)
	rel(st, t)
	return err
}

func coth[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	th := tanhOf(a0)
	if th == 0 {
		return domainErr("coth", a0)
	}
	f0 := 1 / th
	if c.scalarResult(a, f0) {
		return nil
	}
	if to := c.to(); to <= manualMaxOrder {
		taylor(st, a, tanhCoefs(f0)[:to+1], c)
		return nil
	}
	t := tmp[T](st, c.mo)
	sincos(st, a, t, c, true)
	err := div(st, c, t, c)
	rel(st, t)
	return err
}
