package tpsa

import (
	"math/bits"
	"testing"

	"github.com/san-kum/gtpsa/internal/num"
)

func mustDesc(t testing.TB, cfg Config) *Desc {
	t.Helper()
	d, err := NewDesc(cfg)
	if err != nil {
		t.Fatalf("NewDesc(%+v): %v", cfg, err)
	}
	return d
}

// randSeries fills every coefficient up to c's order with values in [-scale/2, scale/2).
func randSeries(d *Desc, r *num.Rand, c0, scale float64) *TPSA {
	s := NewReal(d, MaxOrd)
	v := make([]float64, d.NumCoefs())
	for i := range v {
		v[i] = scale * (r.Float64() - 0.5)
	}
	v[0] = c0
	return s.SetCoefs(v)
}

// checkInvariants verifies that nz, lo and hi describe the coefficients exactly.
func checkInvariants[T Num](t *testing.T, name string, c *Series[T]) {
	t.Helper()
	d := c.d
	for o := 0; o <= d.mo; o++ {
		zero := allZero(c.orderSlice(o))
		flagged := c.nz>>uint(o)&1 == 1
		if !flagged && !zero {
			t.Errorf("%s: order %d has nonzero coefficients but nz bit clear", name, o)
		}
		if flagged && zero {
			t.Errorf("%s: order %d flagged but all zero", name, o)
		}
		if o > c.mo && !zero {
			t.Errorf("%s: order %d above series order %d is nonzero", name, o, c.mo)
		}
	}
	if c.nz == 0 {
		if c.lo != 0 || c.hi != 0 {
			t.Errorf("%s: zero series has lo=%d hi=%d", name, c.lo, c.hi)
		}
		return
	}
	if lo := bits.TrailingZeros64(c.nz); c.lo != lo {
		t.Errorf("%s: lo = %d, want %d", name, c.lo, lo)
	}
	if hi := 63 - bits.LeadingZeros64(c.nz); c.hi != hi {
		t.Errorf("%s: hi = %d, want %d", name, c.hi, hi)
	}
	for i := d.ord2idx[c.hi+1]; i < d.nc; i++ {
		if c.coef[i] != 0 {
			t.Errorf("%s: coefficient %d above hi is %v", name, i, c.coef[i])
			return
		}
	}
}

func closeTo(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

func must(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
