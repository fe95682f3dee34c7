package tpsa

import (
	"fmt"
	"iter"
	"math/bits"
	"strings"
)

// Series is a truncated power series over the variables of its descriptor.
//
// nz has bit o set when order o may hold a nonzero coefficient; lo and hi are
// its lowest and highest set bits. Orders with a clear bit are exactly zero.
type Series[T Num] struct {
	d      *Desc
	lo, hi int
	mo     int
	nz     uint64
	coef   []T
}

type (
	// TPSA is a series with real coefficients.
	TPSA = Series[float64]
	// CTPSA is a series with complex coefficients.
	CTPSA = Series[complex128]
)

// New allocates a zero series of maximum order mo on d. MaxOrd, or any value
// outside [0, d.MaxOrder()], selects the descriptor maximum order.
func New[T Num](d *Desc, mo int) *Series[T] {
	if mo < 0 || mo > d.mo {
		mo = d.mo
	}
	return &Series[T]{d: d, mo: mo, coef: make([]T, d.nc)}
}

func NewReal(d *Desc, mo int) *TPSA     { return New[float64](d, mo) }
func NewComplex(d *Desc, mo int) *CTPSA { return New[complex128](d, mo) }

// NewLike allocates a zero series with the descriptor and maximum order of a.
func NewLike[T Num](a *Series[T]) *Series[T] {
	return New[T](a.d, a.mo)
}

func (c *Series[T]) Desc() *Desc   { return c.d }
func (c *Series[T]) MaxOrder() int { return c.mo }
func (c *Series[T]) Lo() int       { return c.lo }
func (c *Series[T]) Hi() int       { return c.hi }
func (c *Series[T]) NZ() uint64    { return c.nz }

// Value returns the constant term.
func (c *Series[T]) Value() T { return c.coef[0] }

// IsValue reports whether c has no term of order above zero.
func (c *Series[T]) IsValue() bool { return c.nz&^1 == 0 }

// IsZero reports whether every coefficient is zero.
func (c *Series[T]) IsZero() bool { return c.nz == 0 }

// SetMaxOrder changes the maximum order of c, truncating higher orders.
func (c *Series[T]) SetMaxOrder(mo int) *Series[T] {
	if mo < 0 || mo > c.d.mo {
		mo = c.d.mo
	}
	if mo < c.mo {
		c.clearAbove(mo)
		c.setNZ(c.nz)
	}
	c.mo = mo
	return c
}

// to is the highest order an operation writes into c.
func (c *Series[T]) to() int {
	return min(c.mo, c.d.trunc)
}

func (c *Series[T]) mustCompat(others ...*Series[T]) {
	for _, a := range others {
		if a.d != c.d {
			panic(fmt.Errorf("%w: series built on different descriptors", ErrIncompatible))
		}
	}
}

func (c *Series[T]) orderSlice(o int) []T {
	return c.coef[c.d.ord2idx[o]:c.d.ord2idx[o+1]]
}

// setNZ stores mask, dropping the bits of orders that are entirely zero, and
// derives lo and hi.
func (c *Series[T]) setNZ(mask uint64) {
	for m := mask; m != 0; m &= m - 1 {
		o := bits.TrailingZeros64(m)
		if o > c.d.mo || allZero(c.orderSlice(o)) {
			mask &^= 1 << uint(o)
		}
	}
	c.nz = mask
	if mask == 0 {
		c.lo, c.hi = 0, 0
		return
	}
	c.lo = bits.TrailingZeros64(mask)
	c.hi = 63 - bits.LeadingZeros64(mask)
}

func allZero[T Num](s []T) bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// clearAbove zeroes every flagged order above o.
func (c *Series[T]) clearAbove(o int) {
	for m := c.nz &^ orderMask(o); m != 0; m &= m - 1 {
		clear(c.orderSlice(bits.TrailingZeros64(m)))
	}
	c.nz &= orderMask(o)
}

// orderMask has bits 0..o set.
func orderMask(o int) uint64 {
	if o >= 63 {
		return ^uint64(0)
	}
	if o < 0 {
		return 0
	}
	return 1<<uint(o+1) - 1
}

// Clear sets every coefficient to zero.
func (c *Series[T]) Clear() *Series[T] {
	c.clearAbove(-1)
	c.lo, c.hi = 0, 0
	return c
}

// Update recomputes nz, lo and hi exactly from the coefficients.
func (c *Series[T]) Update() *Series[T] {
	c.setNZ(orderMask(c.mo))
	return c
}

// SetVal sets c to the constant v.
func (c *Series[T]) SetVal(v T) *Series[T] {
	c.Clear()
	c.coef[0] = v
	c.setNZ(1)
	return c
}

// SetVar sets c to v + scl*x_i, the expansion of variable i around v.
func (c *Series[T]) SetVar(i int, v, scl T) *Series[T] {
	if i < 0 || i >= c.d.nv {
		panic(fmt.Errorf("tpsa: variable %d out of range [0,%d)", i, c.d.nv))
	}
	c.Clear()
	c.coef[0] = v
	if c.to() >= 1 && c.d.varOrds[i] >= 1 {
		c.coef[c.d.Index(unitMono(c.d.nv, i))] = scl
	}
	c.setNZ(0b11)
	return c
}

func unitMono(nv, i int) []int {
	m := make([]int, nv)
	m[i] = 1
	return m
}

// SetIdx sets coefficient i to a*c[i] + b.
func (c *Series[T]) SetIdx(i int, a, b T) *Series[T] {
	if i < 0 || i >= c.d.nc {
		panic(fmt.Errorf("tpsa: index %d out of range [0,%d)", i, c.d.nc))
	}
	o := int(c.d.ords[i])
	if o > c.mo {
		panic(fmt.Errorf("tpsa: index %d of order %d above series order %d", i, o, c.mo))
	}
	c.coef[i] = a*c.coef[i] + b
	c.setNZ(c.nz | 1<<uint(o))
	return c
}

// SetMono sets the coefficient of monomial m to a*c[m] + b.
func (c *Series[T]) SetMono(m []int, a, b T) *Series[T] {
	i := c.d.Index(m)
	if i < 0 {
		panic(fmt.Errorf("tpsa: invalid monomial %v", m))
	}
	return c.SetIdx(i, a, b)
}

// Get returns coefficient i.
func (c *Series[T]) Get(i int) T {
	return c.coef[i]
}

// GetMono returns the coefficient of monomial m, zero if m is not valid.
func (c *Series[T]) GetMono(m []int) T {
	if i := c.d.Index(m); i >= 0 {
		return c.coef[i]
	}
	return 0
}

// Coefs returns a copy of the coefficients up to order hi.
func (c *Series[T]) Coefs() []T {
	return append([]T(nil), c.coef[:c.d.ord2idx[c.hi+1]]...)
}

// SetCoefs sets c from order-major coefficients, ignoring entries above c's order.
func (c *Series[T]) SetCoefs(v []T) *Series[T] {
	c.Clear()
	n := min(len(v), c.d.ord2idx[c.to()+1])
	copy(c.coef, v[:n])
	c.setNZ(orderMask(c.to()))
	return c
}

// Terms yields the nonzero coefficients by index in order-major order.
func (c *Series[T]) Terms() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for m := c.nz; m != 0; m &= m - 1 {
			o := bits.TrailingZeros64(m)
			start := c.d.ord2idx[o]
			for k, v := range c.orderSlice(o) {
				if v != 0 && !yield(start+k, v) {
					return
				}
			}
		}
	}
}

// Equal reports whether every coefficient of c and a differs by at most tol.
func (c *Series[T]) Equal(a *Series[T], tol float64) bool {
	c.mustCompat(a)
	hi := max(c.hi, a.hi)
	for i := 0; i < c.d.ord2idx[hi+1]; i++ {
		if absOf(c.coef[i]-a.coef[i]) > tol {
			return false
		}
	}
	return true
}

// Nrm returns the sum of the absolute values of the coefficients.
func (c *Series[T]) Nrm() float64 {
	s := 0.0
	for _, v := range c.Terms() {
		s += absOf(v)
	}
	return s
}

// OrderNrm returns the sum of the absolute values of the coefficients of order o.
func (c *Series[T]) OrderNrm(o int) float64 {
	if o < 0 || o > c.d.mo || c.nz>>uint(o)&1 == 0 {
		return 0
	}
	s := 0.0
	for _, v := range c.orderSlice(o) {
		s += absOf(v)
	}
	return s
}

func (c *Series[T]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "order %d nz %b\n", c.mo, c.nz)
	m := make([]int, c.d.nv)
	for i, v := range c.Terms() {
		c.d.Mono(i, m)
		fmt.Fprintf(&b, "%6d  %2d  %v  %v\n", i, c.d.ords[i], m, v)
	}
	return b.String()
}
