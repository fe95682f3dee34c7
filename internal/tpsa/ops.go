package tpsa

import (
	"fmt"
	"math/bits"
)

// lin sets c = ca*a + cb*b + cst, truncated to c's order. b may be nil.
func (c *Series[T]) lin(ca T, a *Series[T], cb T, b *Series[T], cst T) {
	mask := a.nz
	if b != nil {
		mask |= b.nz
	}
	mask &= orderMask(c.to())
	hi := 0
	if mask != 0 {
		hi = 63 - bits.LeadingZeros64(mask)
	}
	n := c.d.ord2idx[hi+1]
	if b == nil {
		for i := 0; i < n; i++ {
			c.coef[i] = ca * a.coef[i]
		}
	} else {
		for i := 0; i < n; i++ {
			c.coef[i] = ca*a.coef[i] + cb*b.coef[i]
		}
	}
	c.clearAbove(hi)
	c.coef[0] += cst
	c.setNZ(mask | 1)
}

// Copy sets c to a truncated to c's order.
func (c *Series[T]) Copy(a *Series[T]) *Series[T] {
	c.mustCompat(a)
	if c != a {
		c.lin(1, a, 0, nil, 0)
	}
	return c
}

// Clone returns a new series equal to c.
func (c *Series[T]) Clone() *Series[T] {
	return NewLike(c).Copy(c)
}

// Scale sets c = v*a.
func (c *Series[T]) Scale(a *Series[T], v T) *Series[T] {
	c.mustCompat(a)
	c.lin(v, a, 0, nil, 0)
	return c
}

// Neg sets c = -a.
func (c *Series[T]) Neg(a *Series[T]) *Series[T] {
	return c.Scale(a, -1)
}

// Add sets c = a + b.
func (c *Series[T]) Add(a, b *Series[T]) *Series[T] {
	c.mustCompat(a, b)
	c.lin(1, a, 1, b, 0)
	return c
}

// Sub sets c = a - b.
func (c *Series[T]) Sub(a, b *Series[T]) *Series[T] {
	c.mustCompat(a, b)
	c.lin(1, a, -1, b, 0)
	return c
}

// Acc sets c = c + v*a.
func (c *Series[T]) Acc(a *Series[T], v T) *Series[T] {
	c.mustCompat(a)
	c.lin(1, c, v, a, 0)
	return c
}

// AddVal sets c = a + v.
func (c *Series[T]) AddVal(a *Series[T], v T) *Series[T] {
	c.mustCompat(a)
	c.lin(1, a, 0, nil, v)
	return c
}

// Axpb sets c = av*x + b.
func (c *Series[T]) Axpb(av T, x *Series[T], b T) *Series[T] {
	c.mustCompat(x)
	c.lin(av, x, 0, nil, b)
	return c
}

// Axpbypc sets c = av*x + bv*y + cv.
func (c *Series[T]) Axpbypc(av T, x *Series[T], bv T, y *Series[T], cv T) *Series[T] {
	c.mustCompat(x, y)
	c.lin(av, x, bv, y, cv)
	return c
}

// Mul sets c = a*b.
func (c *Series[T]) Mul(a, b *Series[T]) *Series[T] {
	c.mustCompat(a, b)
	st := c.d.acquire()
	mul(st, a, b, c)
	c.d.release(st)
	return c
}

// Div sets c = a/b. It fails when the constant term of b is zero.
func (c *Series[T]) Div(a, b *Series[T]) error {
	c.mustCompat(a, b)
	return c.d.with(func(st *scratch) error { return div(st, a, b, c) })
}

func (d *Desc) with(fn func(st *scratch) error) error {
	st := d.acquire()
	err := fn(st)
	d.release(st)
	return err
}

func mul[T Num](st *scratch, a, b, c *Series[T]) {
	if c == a || c == b {
		t := tmp[T](st, c.mo)
		mul(st, a, b, t)
		t.copyTo(c)
		rel(st, t)
		return
	}

	c.Clear()
	to := c.to()
	a0, b0 := a.coef[0], b.coef[0]
	c.coef[0] = a0 * b0
	if to == 0 || (a.nz|b.nz)&^1 == 0 {
		c.setNZ(1)
		return
	}

	hi := min(to, max(a.hi, b.hi))
	n := c.d.ord2idx[hi+1]
	for i := 1; i < n; i++ {
		c.coef[i] = a0*b.coef[i] + b0*a.coef[i]
	}
	omax := min(to, a.hi+b.hi)
	if omax >= 2 {
		mulOrders(c.d, a.coef, b.coef, c.coef, a.nz&^1, b.nz&^1, omax)
	}
	c.setNZ(orderMask(max(hi, omax)))
}

func (c *Series[T]) copyTo(dst *Series[T]) {
	dst.lin(1, c, 0, nil, 0)
}

func div[T Num](st *scratch, a, b, c *Series[T]) error {
	t := tmp[T](st, c.mo)
	err := inv(st, b, 1, t)
	if err == nil {
		mul(st, a, t, c)
	}
	rel(st, t)
	return err
}

// Deriv sets c to the partial derivative of a with respect to variable iv.
func (c *Series[T]) Deriv(a *Series[T], iv int) *Series[T] {
	c.mustCompat(a)
	c.checkVar(iv)
	st := c.d.acquire()
	t := tmp[T](st, c.mo)
	d := c.d
	m := make([]uint8, d.nv)
	for i, v := range a.Terms() {
		copy(m, d.mono(i))
		e := m[iv]
		if e == 0 || int(d.ords[i])-1 > t.to() {
			continue
		}
		m[iv]--
		t.coef[d.indexOf(m)] = v * fromFloat[T](float64(e))
	}
	t.setNZ(a.nz >> 1)
	t.copyTo(c)
	rel(st, t)
	d.release(st)
	return c
}

// Integ sets c to the antiderivative of a with respect to variable iv,
// with zero constant of integration.
func (c *Series[T]) Integ(a *Series[T], iv int) *Series[T] {
	c.mustCompat(a)
	c.checkVar(iv)
	st := c.d.acquire()
	t := tmp[T](st, c.mo)
	d := c.d
	m := make([]uint8, d.nv)
	for i, v := range a.Terms() {
		if int(d.ords[i])+1 > t.to() {
			continue
		}
		copy(m, d.mono(i))
		m[iv]++
		j := d.indexOf(m)
		if j < 0 {
			continue
		}
		t.coef[j] = v / fromFloat[T](float64(m[iv]))
	}
	t.setNZ(a.nz << 1)
	t.copyTo(c)
	rel(st, t)
	d.release(st)
	return c
}

func (c *Series[T]) checkVar(iv int) {
	if iv < 0 || iv >= c.d.nv {
		panic(fmt.Errorf("tpsa: variable %d out of range [0,%d)", iv, c.d.nv))
	}
}

// Cplx sets c = re + i*im. im may be nil.
func Cplx(re, im *TPSA, c *CTPSA) *CTPSA {
	if re.d != c.d || (im != nil && im.d != c.d) {
		panic(fmt.Errorf("%w: series built on different descriptors", ErrIncompatible))
	}
	mask := re.nz
	if im != nil {
		mask |= im.nz
	}
	mask &= orderMask(c.to())
	hi := 0
	if mask != 0 {
		hi = 63 - bits.LeadingZeros64(mask)
	}
	n := c.d.ord2idx[hi+1]
	for i := 0; i < n; i++ {
		v := complex(re.coef[i], 0)
		if im != nil {
			v += complex(0, im.coef[i])
		}
		c.coef[i] = v
	}
	c.clearAbove(hi)
	c.setNZ(mask | 1)
	return c
}

// RealPart sets c to the real part of a.
func RealPart(a *CTPSA, c *TPSA) *TPSA {
	return part(a, c, func(v complex128) float64 { return real(v) })
}

// ImagPart sets c to the imaginary part of a.
func ImagPart(a *CTPSA, c *TPSA) *TPSA {
	return part(a, c, func(v complex128) float64 { return imag(v) })
}

func part(a *CTPSA, c *TPSA, f func(complex128) float64) *TPSA {
	if a.d != c.d {
		panic(fmt.Errorf("%w: series built on different descriptors", ErrIncompatible))
	}
	mask := a.nz & orderMask(c.to())
	hi := 0
	if mask != 0 {
		hi = 63 - bits.LeadingZeros64(mask)
	}
	n := c.d.ord2idx[hi+1]
	for i := 0; i < n; i++ {
		c.coef[i] = f(a.coef[i])
	}
	c.clearAbove(hi)
	c.setNZ(mask | 1)
	return c
}

// Conj sets c to the complex conjugate of a.
func Conj(a, c *CTPSA) *CTPSA {
	c.mustCompat(a)
	c.lin(1, a, 0, nil, 0)
	for i, v := range c.coef[:c.d.ord2idx[c.hi+1]] {
		c.coef[i] = complex(real(v), -imag(v))
	}
	return c
}
