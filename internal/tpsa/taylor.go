package tpsa

import "fmt"

// manualMaxOrder is the highest order served by closed-form coefficient
// tables; above it functions switch to recurrences or identities.
var manualMaxOrder = 6

// Taylor sets c = sum_k coef[k]*(a-a0)^k, with a0 the constant term of a and
// coef[k] the k-th Taylor coefficient of a scalar function at a0.
func (c *Series[T]) Taylor(a *Series[T], coef []T) error {
	c.mustCompat(a)
	if len(coef) == 0 {
		return &CompatError{Op: "taylor", Reason: "no coefficients"}
	}
	to := min(len(coef)-1, c.to())
	if to == 0 || a.IsValue() {
		c.SetVal(coef[0])
		return nil
	}
	return c.d.with(func(st *scratch) error {
		taylor(st, a, coef[:to+1], c)
		return nil
	})
}

// scalarResult sets c to f0 when c has order 0 or a is a constant, and
// reports whether it did.
func (c *Series[T]) scalarResult(a *Series[T], f0 T) bool {
	if c.to() == 0 || a.IsValue() {
		c.SetVal(f0)
		return true
	}
	return false
}

// taylor accumulates the powers of (a-a0) weighted by coef into c.
// len(coef) >= 2 and c may alias a.
func taylor[T Num](st *scratch, a *Series[T], coef []T, c *Series[T]) {
	n := len(coef) - 1
	if n == 1 {
		c.lin(coef[1], a, 0, nil, coef[0]-coef[1]*a.coef[0])
		return
	}

	acp := deviation(st, a, c.mo)
	c.lin(coef[1], acp, 0, nil, coef[0])

	pw := tmp[T](st, c.mo)
	mul(st, acp, acp, pw)
	c.lin(1, c, coef[2], pw, 0)

	if n >= 3 {
		nx := tmp[T](st, c.mo)
		p, q := pw, nx
		for o := 3; o <= n; o++ {
			mul(st, acp, p, q)
			c.lin(1, c, coef[o], q, 0)
			p, q = q, p
		}
		rel(st, nx)
	}
	rel(st, pw)
	rel(st, acp)
}

// sincosTaylor is taylor for two coefficient sequences sharing the powers
// of (a-a0). s and c must be distinct but may alias a.
func sincosTaylor[T Num](st *scratch, a *Series[T], s, c *Series[T], sc, cc []T) {
	if s == c {
		panic(fmt.Errorf("%w: sincos outputs must be distinct", ErrIncompatible))
	}
	n := max(len(sc), len(cc)) - 1
	mo := max(s.mo, c.mo)
	acp := deviation(st, a, mo)
	s.lin(sc[1], acp, 0, nil, sc[0])
	c.lin(cc[1], acp, 0, nil, cc[0])

	if n >= 2 {
		pw := tmp[T](st, mo)
		mul(st, acp, acp, pw)
		if len(sc) > 2 {
			s.lin(1, s, sc[2], pw, 0)
		}
		if len(cc) > 2 {
			c.lin(1, c, cc[2], pw, 0)
		}
		if n >= 3 {
			nx := tmp[T](st, mo)
			p, q := pw, nx
			for o := 3; o <= n; o++ {
				mul(st, acp, p, q)
				if len(sc) > o {
					s.lin(1, s, sc[o], q, 0)
				}
				if len(cc) > o {
					c.lin(1, c, cc[o], q, 0)
				}
				p, q = q, p
			}
			rel(st, nx)
		}
		rel(st, pw)
	}
	rel(st, acp)
}

// deviation returns a scratch copy of a - a0 at order mo.
func deviation[T Num](st *scratch, a *Series[T], mo int) *Series[T] {
	acp := tmp[T](st, mo)
	acp.lin(1, a, 0, nil, 0)
	acp.coef[0] = 0
	acp.setNZ(acp.nz &^ 1)
	return acp
}
