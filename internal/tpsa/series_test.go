package tpsa

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/san-kum/gtpsa/internal/num"
)

func TestSetters(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 2, MaxOrder: 3, Workers: 1})
	s := NewReal(d, MaxOrd)
	checkInvariants(t, "new", s)
	if !s.IsZero() || !s.IsValue() {
		t.Error("new series should be zero")
	}

	s.SetVal(2.5)
	checkInvariants(t, "setval", s)
	if s.Value() != 2.5 || !s.IsValue() || s.NZ() != 1 {
		t.Errorf("SetVal: value %v nz %b", s.Value(), s.NZ())
	}

	s.SetVar(1, 0.5, 2)
	checkInvariants(t, "setvar", s)
	if s.Get(2) != 2 || s.Value() != 0.5 || s.Hi() != 1 {
		t.Errorf("SetVar: %v", s)
	}

	s.SetMono([]int{1, 2}, 0, 3)
	checkInvariants(t, "setmono", s)
	if s.GetMono([]int{1, 2}) != 3 || s.Hi() != 3 {
		t.Errorf("SetMono: hi %d", s.Hi())
	}

	// zeroing the only order-3 coefficient drops the order
	s.SetMono([]int{1, 2}, 0, 0)
	checkInvariants(t, "clear mono", s)
	if s.Hi() != 1 {
		t.Errorf("hi = %d after clearing order 3", s.Hi())
	}

	s.SetVal(0)
	checkInvariants(t, "zero", s)
	if !s.IsZero() || s.Lo() != 0 || s.Hi() != 0 {
		t.Error("SetVal(0) should give the zero series")
	}
}

func TestSetIdxAboveOrderPanics(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 2, MaxOrder: 3, Workers: 1})
	s := NewReal(d, 1)
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	s.SetMono([]int{2, 0}, 0, 1)
}

func TestMixedDescriptorsPanic(t *testing.T) {
	d1 := mustDesc(t, Config{NumVars: 2, MaxOrder: 3, Workers: 1})
	d2 := mustDesc(t, Config{NumVars: 2, MaxOrder: 3, Workers: 1})
	a, b := NewReal(d1, MaxOrd), NewReal(d2, MaxOrd)
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrIncompatible) {
			t.Errorf("expected ErrIncompatible panic, got %v", r)
		}
	}()
	a.Add(a, b)
}

func TestLinearOps(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 3, MaxOrder: 4, Workers: 1})
	r := num.NewRand(1)
	a := randSeries(d, r, 0.3, 1)
	b := randSeries(d, r, -1.2, 1)
	c := NewReal(d, MaxOrd)

	ops := []struct {
		name string
		run  func()
		want func(i int) float64
	}{
		{"add", func() { c.Add(a, b) }, func(i int) float64 { return a.Get(i) + b.Get(i) }},
		{"sub", func() { c.Sub(a, b) }, func(i int) float64 { return a.Get(i) - b.Get(i) }},
		{"scale", func() { c.Scale(a, -3) }, func(i int) float64 { return -3 * a.Get(i) }},
		{"neg", func() { c.Neg(b) }, func(i int) float64 { return -b.Get(i) }},
		{"axpb", func() { c.Axpb(2, a, 1) }, func(i int) float64 {
			if i == 0 {
				return 2*a.Get(0) + 1
			}
			return 2 * a.Get(i)
		}},
		{"axpbypc", func() { c.Axpbypc(2, a, -1, b, 4) }, func(i int) float64 {
			v := 2*a.Get(i) - b.Get(i)
			if i == 0 {
				v += 4
			}
			return v
		}},
	}
	for _, op := range ops {
		t.Run(op.name, func(t *testing.T) {
			op.run()
			checkInvariants(t, op.name, c)
			for i := 0; i < d.NumCoefs(); i++ {
				if !closeTo(c.Get(i), op.want(i), 1e-15) {
					t.Fatalf("coef %d = %v, want %v", i, c.Get(i), op.want(i))
				}
			}
		})
	}

	// cancellation clears the nz bits
	c.Sub(a, a)
	checkInvariants(t, "a-a", c)
	if !c.IsZero() {
		t.Error("a-a should be zero")
	}

	// aliasing
	want := a.Clone().Acc(b, 0.5)
	a.Acc(b, 0.5)
	if !a.Equal(want, 0) {
		t.Error("Acc with aliasing differs")
	}
}

func TestTruncation(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 2, MaxOrder: 6, Trunc: 3, Workers: 1})
	r := num.NewRand(3)
	a := randSeries(d, r, 1, 1)
	checkInvariants(t, "rand", a)
	if a.Hi() != 3 {
		t.Errorf("SetCoefs kept order %d above trunc", a.Hi())
	}

	x := NewReal(d, MaxOrd).SetVar(0, 0, 1)
	p := NewReal(d, MaxOrd).SetVal(1)
	for k := 0; k < 5; k++ {
		p.Mul(p, x)
		checkInvariants(t, "power", p)
	}
	if !p.IsZero() {
		t.Errorf("x^5 should vanish at trunc 3, hi=%d", p.Hi())
	}

	low := NewReal(d, 1)
	low.Mul(a, a)
	checkInvariants(t, "low order", low)
	if low.Hi() > 1 {
		t.Errorf("result exceeds series order: hi=%d", low.Hi())
	}
}

func TestMulAlgebra(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 3, MaxOrder: 6, Workers: 2})
	r := num.NewRand(11)
	for trial := 0; trial < 5; trial++ {
		a := randSeries(d, r, r.Float64(), 1)
		b := randSeries(d, r, r.Float64(), 1)
		c := randSeries(d, r, r.Float64(), 1)

		ab := NewReal(d, MaxOrd).Mul(a, b)
		ba := NewReal(d, MaxOrd).Mul(b, a)
		if !ab.Equal(ba, 1e-13) {
			t.Fatal("multiplication not commutative")
		}
		checkInvariants(t, "ab", ab)

		left := NewReal(d, MaxOrd).Mul(ab, c)
		bc := NewReal(d, MaxOrd).Mul(b, c)
		right := NewReal(d, MaxOrd).Mul(a, bc)
		tol := 1e-12 * (1 + left.Nrm())
		if !left.Equal(right, tol) {
			t.Fatal("multiplication not associative")
		}

		sum := NewReal(d, MaxOrd).Add(b, c)
		dist := NewReal(d, MaxOrd).Mul(a, sum)
		ac := NewReal(d, MaxOrd).Mul(a, c)
		ref := NewReal(d, MaxOrd).Add(ab, ac)
		if !dist.Equal(ref, 1e-12*(1+ref.Nrm())) {
			t.Fatal("multiplication not distributive")
		}

		// in-place square
		sq := NewReal(d, MaxOrd).Mul(a, a)
		a.Mul(a, a)
		if !a.Equal(sq, 0) {
			t.Fatal("aliased square differs")
		}
		checkInvariants(t, "aliased", a)
	}
}

func TestMulSparse(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 2, MaxOrder: 8, Workers: 1})
	// (1 + x)(1 - x) = 1 - x^2
	a := NewReal(d, MaxOrd).SetVar(0, 1, 1)
	b := NewReal(d, MaxOrd).SetVar(0, 1, -1)
	c := NewReal(d, MaxOrd).Mul(a, b)
	checkInvariants(t, "1-x^2", c)
	if c.Value() != 1 || c.GetMono([]int{2, 0}) != -1 || c.NZ() != 0b101 {
		t.Errorf("unexpected product %v", c)
	}

	// x^4 * y^3 only touches order 7
	x4 := NewReal(d, MaxOrd).SetMono([]int{4, 0}, 0, 1)
	y3 := NewReal(d, MaxOrd).SetMono([]int{0, 3}, 0, 2)
	p := NewReal(d, MaxOrd).Mul(x4, y3)
	checkInvariants(t, "x4y3", p)
	if p.GetMono([]int{4, 3}) != 2 || p.Lo() != 7 || p.Hi() != 7 {
		t.Errorf("unexpected product %v", p)
	}
}

func TestParallelMulMatchesSerial(t *testing.T) {
	cfg := Config{NumVars: 4, MaxOrder: 8}
	cfg.Workers = 1
	d1 := mustDesc(t, cfg)
	cfg.Workers = 4
	d4 := mustDesc(t, cfg)
	if d4.ScheduleSize() < parallelMulPairs {
		t.Skip("schedule too small to run in parallel")
	}

	r := num.NewRand(5)
	a1 := randSeries(d1, r, 0.5, 1)
	b1 := randSeries(d1, r, -0.5, 1)
	a4 := NewReal(d4, MaxOrd).SetCoefs(a1.Coefs())
	b4 := NewReal(d4, MaxOrd).SetCoefs(b1.Coefs())

	c1 := NewReal(d1, MaxOrd).Mul(a1, b1)
	c4 := NewReal(d4, MaxOrd).Mul(a4, b4)
	if diff := cmp.Diff(c1.Coefs(), c4.Coefs(), cmpopts.EquateApprox(0, 1e-13)); diff != "" {
		t.Errorf("parallel product differs (-serial +parallel):\n%s", diff)
	}
}

func TestDiv(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 2, MaxOrder: 5, Workers: 1})
	r := num.NewRand(8)
	a := randSeries(d, r, 0.7, 1)
	b := randSeries(d, r, 1.4, 1)
	q := NewReal(d, MaxOrd)
	if err := q.Div(a, b); err != nil {
		t.Fatal(err)
	}
	back := NewReal(d, MaxOrd).Mul(q, b)
	if !back.Equal(a, 1e-12) {
		t.Error("(a/b)*b != a")
	}

	zero := NewReal(d, MaxOrd).SetVar(0, 0, 1)
	if err := q.Div(a, zero); !errors.Is(err, ErrDomain) {
		t.Errorf("expected domain error, got %v", err)
	}
}

func TestDerivInteg(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 2, MaxOrder: 4, Workers: 1})
	// p = 3 + 2x + x^2 y + 5 y^3
	p := NewReal(d, MaxOrd).SetVal(3)
	p.SetMono([]int{1, 0}, 0, 2)
	p.SetMono([]int{2, 1}, 0, 1)
	p.SetMono([]int{0, 3}, 0, 5)

	dx := NewReal(d, MaxOrd).Deriv(p, 0)
	checkInvariants(t, "dx", dx)
	if dx.Value() != 2 || dx.GetMono([]int{1, 1}) != 2 || dx.GetMono([]int{0, 2}) != 0 {
		t.Errorf("d/dx: %v", dx)
	}

	dy := NewReal(d, MaxOrd).Deriv(p, 1)
	if dy.GetMono([]int{2, 0}) != 1 || dy.GetMono([]int{0, 2}) != 15 {
		t.Errorf("d/dy: %v", dy)
	}

	back := NewReal(d, MaxOrd).Integ(dy, 1)
	back.AddVal(back, 3).Acc(NewReal(d, MaxOrd).SetVar(0, 0, 2), 1)
	if !back.Equal(p, 1e-15) {
		t.Errorf("integ(d/dy) + const != p: %v", back)
	}

	// derivative in place
	p.Deriv(p, 0)
	if !p.Equal(dx, 0) {
		t.Error("aliased Deriv differs")
	}
}

func TestEval(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 2, MaxOrder: 3, Workers: 1})
	// 1 + 2x - y + x y^2
	p := NewReal(d, MaxOrd).SetVal(1)
	p.SetMono([]int{1, 0}, 0, 2)
	p.SetMono([]int{0, 1}, 0, -1)
	p.SetMono([]int{1, 2}, 0, 1)

	got, err := p.Eval([]float64{0.5, -2})
	if err != nil {
		t.Fatal(err)
	}
	want := 1 + 2*0.5 + 2 + 0.5*4
	if !closeTo(got, want, 1e-15) {
		t.Errorf("Eval = %v, want %v", got, want)
	}
	if _, err := p.Eval([]float64{1}); !errors.Is(err, ErrIncompatible) {
		t.Errorf("expected size error, got %v", err)
	}
}

func TestComplexLift(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 2, MaxOrder: 3, Workers: 1})
	r := num.NewRand(2)
	re := randSeries(d, r, 1, 1)
	im := randSeries(d, r, -1, 1)
	z := Cplx(re, im, NewComplex(d, MaxOrd))
	checkInvariants(t, "cplx", z)

	gotRe := RealPart(z, NewReal(d, MaxOrd))
	gotIm := ImagPart(z, NewReal(d, MaxOrd))
	if !gotRe.Equal(re, 0) || !gotIm.Equal(im, 0) {
		t.Error("real/imag parts do not round trip")
	}

	zc := Conj(z, NewComplex(d, MaxOrd))
	ImagPart(zc, gotIm)
	if !gotIm.Equal(NewReal(d, MaxOrd).Neg(im), 0) {
		t.Error("Conj did not negate the imaginary part")
	}

	onlyRe := Cplx(re, nil, NewComplex(d, MaxOrd))
	ImagPart(onlyRe, gotIm)
	checkInvariants(t, "imag of real", gotIm)
	if !gotIm.IsZero() {
		t.Error("imaginary part of a real lift should be zero")
	}
}

func TestScratchDiscipline(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 2, MaxOrder: 3, Workers: 1})

	t.Run("lifo", func(t *testing.T) {
		st := d.acquire()
		a := tmp[float64](st, 2)
		b := tmp[float64](st, 3)
		if a.MaxOrder() != 2 || b.MaxOrder() != 3 {
			t.Errorf("scratch orders %d %d", a.MaxOrder(), b.MaxOrder())
		}
		defer func() {
			r := recover()
			if err, ok := r.(error); !ok || !errors.Is(err, ErrScratchOrder) {
				t.Errorf("expected ErrScratchOrder, got %v", r)
			}
		}()
		rel(st, a)
	})

	t.Run("exhausted", func(t *testing.T) {
		st := d.acquire()
		defer func() {
			r := recover()
			if err, ok := r.(error); !ok || !errors.Is(err, ErrScratchExhausted) {
				t.Errorf("expected ErrScratchExhausted, got %v", r)
			}
		}()
		for i := 0; i <= d.ScratchCap(); i++ {
			tmp[complex128](st, d.MaxOrder())
		}
	})

	t.Run("reset on reuse", func(t *testing.T) {
		st := d.acquire()
		a := tmp[float64](st, 3)
		a.SetVar(0, 4, 1)
		rel(st, a)
		b := tmp[float64](st, 3)
		if !b.IsZero() || b != a {
			t.Error("reacquired buffer not cleared")
		}
		rel(st, b)
		d.release(st)
	})
}

func TestOrderNrm(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 2, MaxOrder: 3, Workers: 1})
	p := NewReal(d, MaxOrd).SetVar(0, -2, 3)
	p.SetMono([]int{0, 1}, 0, -4)
	if p.OrderNrm(0) != 2 || p.OrderNrm(1) != 7 || p.OrderNrm(2) != 0 || p.Nrm() != 9 {
		t.Errorf("norms %v %v %v", p.OrderNrm(0), p.OrderNrm(1), p.Nrm())
	}
	if math.IsNaN(p.OrderNrm(99)) {
		t.Error("out of range order")
	}
}
