package tpsa

import "math"

type unaryFunc[T Num] func(st *scratch, a, c *Series[T]) error

func (c *Series[T]) apply(a *Series[T], fn unaryFunc[T]) error {
	c.mustCompat(a)
	return c.d.with(func(st *scratch) error { return fn(st, a, c) })
}

// Inv sets c = v/a.
func (c *Series[T]) Inv(a *Series[T], v T) error {
	c.mustCompat(a)
	return c.d.with(func(st *scratch) error { return inv(st, a, v, c) })
}

// InvSqrt sets c = v/sqrt(a).
func (c *Series[T]) InvSqrt(a *Series[T], v T) error {
	c.mustCompat(a)
	return c.d.with(func(st *scratch) error { return invsqrt(st, a, v, c) })
}

func (c *Series[T]) Sqrt(a *Series[T]) error { return c.apply(a, sqrt[T]) }
func (c *Series[T]) Exp(a *Series[T]) error  { return c.apply(a, exp[T]) }
func (c *Series[T]) Log(a *Series[T]) error  { return c.apply(a, log[T]) }
func (c *Series[T]) Erf(a *Series[T]) error  { return c.apply(a, erf[T]) }
func (c *Series[T]) Erfc(a *Series[T]) error { return c.apply(a, erfc[T]) }

// Pow sets c = a^b = exp(b*log(a)).
func (c *Series[T]) Pow(a, b *Series[T]) error {
	c.mustCompat(a, b)
	return c.d.with(func(st *scratch) error { return pow(st, a, b, c) })
}

// PowN sets c = a^v = exp(v*log(a)).
func (c *Series[T]) PowN(a *Series[T], v T) error {
	c.mustCompat(a)
	return c.d.with(func(st *scratch) error { return pown(st, a, v, c) })
}

// LogXdY sets c = log(x/y).
func (c *Series[T]) LogXdY(x, y *Series[T]) error {
	c.mustCompat(x, y)
	return c.d.with(func(st *scratch) error { return logxdy(st, x, y, c) })
}

// LogAxpSqrtBpCx2 sets c = log(a*x + sqrt(b + cv*x^2)).
func (c *Series[T]) LogAxpSqrtBpCx2(x *Series[T], a, b, cv T) error {
	c.mustCompat(x)
	return c.d.with(func(st *scratch) error { return logaxpsqrtbpcx2(st, x, a, b, cv, c) })
}

func inv[T Num](st *scratch, a *Series[T], v T, c *Series[T]) error {
	a0 := a.coef[0]
	if a0 == 0 {
		return domainErr("inv", a0)
	}
	f0 := 1 / a0
	if c.scalarResult(a, v*f0) {
		return nil
	}
	to := c.to()
	coef := make([]T, to+1)
	coef[0] = f0
	for o := 1; o <= to; o++ {
		coef[o] = -coef[o-1] * f0
	}
	taylor(st, a, coef, c)
	if v != 1 {
		c.lin(v, c, 0, nil, 0)
	}
	return nil
}

func invsqrt[T Num](st *scratch, a *Series[T], v T, c *Series[T]) error {
	a0 := a.coef[0]
	if a0 == 0 || isReal[T]() && realOf(a0) < 0 {
		return domainErr("invsqrt", a0)
	}
	f0 := 1 / sqrtOf(a0)
	if c.scalarResult(a, v*f0) {
		return nil
	}
	ia0 := 1 / a0
	to := c.to()
	coef := make([]T, to+1)
	coef[0] = f0
	for o := 1; o <= to; o++ {
		coef[o] = -coef[o-1] * ia0 / fromFloat[T](2*float64(o)) * fromFloat[T](2*float64(o)-1)
	}
	taylor(st, a, coef, c)
	if v != 1 {
		c.lin(v, c, 0, nil, 0)
	}
	return nil
}

func sqrt[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if a0 == 0 || isReal[T]() && realOf(a0) < 0 {
		return domainErr("sqrt", a0)
	}
	f0 := sqrtOf(a0)
	if c.scalarResult(a, f0) {
		return nil
	}
	ia0 := 1 / a0
	to := c.to()
	coef := make([]T, to+1)
	coef[0] = f0
	for o := 1; o <= to; o++ {
		coef[o] = -coef[o-1] * ia0 / fromFloat[T](2*float64(o)) * fromFloat[T](2*float64(o)-3)
	}
	taylor(st, a, coef, c)
	return nil
}

func exp[T Num](st *scratch, a, c *Series[T]) error {
	f0 := expOf(a.coef[0])
	if c.scalarResult(a, f0) {
		return nil
	}
	to := c.to()
	coef := make([]T, to+1)
	coef[0] = f0
	for o := 1; o <= to; o++ {
		coef[o] = coef[o-1] / fromFloat[T](float64(o))
	}
	taylor(st, a, coef, c)
	return nil
}

func log[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	if a0 == 0 || isReal[T]() && realOf(a0) < 0 {
		return domainErr("log", a0)
	}
	f0 := logOf(a0)
	if c.scalarResult(a, f0) {
		return nil
	}
	ia0 := 1 / a0
	to := c.to()
	coef := make([]T, to+1)
	coef[0] = f0
	coef[1] = ia0
	for o := 2; o <= to; o++ {
		coef[o] = -coef[o-1] * ia0 / fromFloat[T](float64(o)) * fromFloat[T](float64(o-1))
	}
	taylor(st, a, coef, c)
	return nil
}

func pow[T Num](st *scratch, a, b, c *Series[T]) error {
	t := tmp[T](st, c.mo)
	err := log(st, a, t)
	if err == nil {
		mul(st, b, t, c)
		err = exp(st, c, c)
	}
	rel(st, t)
	return err
}

func pown[T Num](st *scratch, a *Series[T], v T, c *Series[T]) error {
	t := tmp[T](st, c.mo)
	err := log(st, a, t)
	if err == nil {
		c.lin(v, t, 0, nil, 0)
		err = exp(st, c, c)
	}
	rel(st, t)
	return err
}

func erf[T Num](st *scratch, a, c *Series[T]) error {
	a0 := a.coef[0]
	f0 := erfOf(a0)
	if c.scalarResult(a, f0) {
		return nil
	}
	to := c.to()
	coef := make([]T, to+1)
	coef[0] = f0
	coef[1] = T(2/math.SqrtPi) * expOf(-a0*a0)
	for o := 2; o <= to; o++ {
		fo := fromFloat[T](float64(o))
		coef[o] = -2 * (fromFloat[T](float64(o-2))*coef[o-2]/fromFloat[T](float64(o-1)) + coef[o-1]*a0) / fo
	}
	taylor(st, a, coef, c)
	return nil
}

func erfc[T Num](st *scratch, a, c *Series[T]) error {
	if err := erf(st, a, c); err != nil {
		return err
	}
	c.lin(-1, c, 0, nil, 1)
	return nil
}

func logxdy[T Num](st *scratch, x, y, c *Series[T]) error {
	t := tmp[T](st, c.mo)
	err := div(st, x, y, t)
	if err == nil {
		err = log(st, t, c)
	}
	rel(st, t)
	return err
}

func logaxpsqrtbpcx2[T Num](st *scratch, x *Series[T], a, b, cv T, c *Series[T]) error {
	t := tmp[T](st, c.mo)
	mul(st, x, x, t)
	t.lin(cv, t, 0, nil, b)
	err := sqrt(st, t, t)
	if err == nil {
		t.lin(a, x, 1, t, 0)
		err = log(st, t, c)
	}
	rel(st, t)
	return err
}
