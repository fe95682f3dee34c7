package tpsa

import (
	"errors"
	"slices"
	"testing"
)

func TestNewDescValidation(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"no vars", Config{NumVars: 0, MaxOrder: 3}, "NumVars"},
		{"zero order", Config{NumVars: 2, MaxOrder: 0}, "MaxOrder"},
		{"order too high", Config{NumVars: 1, MaxOrder: 64}, "MaxOrder"},
		{"negative knobs", Config{NumVars: 2, MaxOrder: 3, NumKnobs: -1}, "NumKnobs"},
		{"knob order", Config{NumVars: 2, MaxOrder: 3, NumKnobs: 1, KnobOrder: 4}, "KnobOrder"},
		{"negative knob order", Config{NumVars: 2, MaxOrder: 3, NumKnobs: 1, KnobOrder: -2}, "KnobOrder"},
		{"trunc", Config{NumVars: 2, MaxOrder: 3, Trunc: 5}, "Trunc"},
		{"workers", Config{NumVars: 2, MaxOrder: 3, Workers: -2}, "Workers"},
		{"var orders length", Config{NumVars: 2, MaxOrder: 3, VarOrders: []int{3}}, "len(VarOrders)"},
		{"var order value", Config{NumVars: 2, MaxOrder: 3, VarOrders: []int{3, 4}}, "VarOrders[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDesc(tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != tt.field {
				t.Errorf("expected field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestDescCounts(t *testing.T) {
	tests := []struct {
		cfg Config
		nc  int
	}{
		{Config{NumVars: 1, MaxOrder: 5}, 6},
		{Config{NumVars: 2, MaxOrder: 4}, 15},
		{Config{NumVars: 6, MaxOrder: 3}, 84},
		{Config{NumVars: 2, MaxOrder: 3, VarOrders: []int{1, 3}}, 7},
		{Config{NumVars: 2, MaxOrder: 3, NumKnobs: 1, KnobOrder: 1}, 16},
		{Config{NumVars: 2, MaxOrder: 3, NumKnobs: 2, KnobOrder: KnobsFixed}, 10},
	}
	for _, tt := range tests {
		d := mustDesc(t, tt.cfg)
		if d.NumCoefs() != tt.nc {
			t.Errorf("%v: nc = %d, want %d", d, d.NumCoefs(), tt.nc)
		}
	}
}

func TestFixedKnobs(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 2, MaxOrder: 3, NumKnobs: 1, KnobOrder: KnobsFixed})
	if d.KnobOrder() != 0 || d.NumKnobs() != 1 {
		t.Fatalf("knob order %d, knobs %d", d.KnobOrder(), d.NumKnobs())
	}
	if d.IsValid([]int{0, 0, 1}) {
		t.Error("knob monomial accepted with fixed knobs")
	}

	ma := IdentityMap[float64](d, MaxOrd, []float64{1, 2})
	ma[0].SetMono([]int{1, 1, 0}, 0, 0.5)
	mc := NewMap[float64](d, 2, MaxOrd)
	if err := Compose(ma, IdentityMap[float64](d, MaxOrd, nil), mc); err != nil {
		t.Fatal(err)
	}
	for k := range ma {
		if !mc[k].Equal(ma[k], 1e-15) {
			t.Errorf("component %d changed by identity composition", k)
		}
	}
}

func TestIndexBijection(t *testing.T) {
	cfgs := []Config{
		{NumVars: 3, MaxOrder: 5},
		{NumVars: 4, MaxOrder: 4, NumKnobs: 2, KnobOrder: 2},
		{NumVars: 2, MaxOrder: 6, VarOrders: []int{2, 6}},
	}
	for _, cfg := range cfgs {
		d := mustDesc(t, cfg)
		var m []int
		for i := 0; i < d.NumCoefs(); i++ {
			m = d.Mono(i, m)
			if !d.IsValid(m) {
				t.Fatalf("%v: monomial %d %v reported invalid", d, i, m)
			}
			if j := d.Index(m); j != i {
				t.Fatalf("%v: Index(Mono(%d)) = %d", d, i, j)
			}
			o := 0
			for _, e := range m {
				o += e
			}
			if d.Order(i) != o {
				t.Fatalf("%v: Order(%d) = %d, want %d", d, i, d.Order(i), o)
			}
			if start, end := d.OrderRange(o); i < start || i >= end {
				t.Fatalf("%v: index %d outside range [%d,%d) of order %d", d, i, start, end, o)
			}
		}
	}
}

func TestFirstOrderLayout(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 4, MaxOrder: 3})
	for v := 0; v < 4; v++ {
		m := make([]int, 4)
		m[v] = 1
		if i := d.Index(m); i != 1+v {
			t.Errorf("x_%d at index %d, want %d", v, i, 1+v)
		}
	}
	if d.Index([]int{0, 0, 0, 4}) != -1 {
		t.Error("order above maximum should be invalid")
	}
	if d.Index([]int{1, 0}) != -1 {
		t.Error("wrong length should be invalid")
	}
}

func TestNextByVar(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 3, MaxOrder: 4, NumKnobs: 1, KnobOrder: 2})

	m := make([]int, d.NumVars())
	seen := map[int]bool{0: true}
	var prev []int
	for d.NextByVar(m) {
		i := d.Index(m)
		if seen[i] {
			t.Fatalf("index %d visited twice", i)
		}
		seen[i] = true
		if prev != nil && slices.Compare(prev, m) >= 0 {
			t.Fatalf("%v does not follow %v", m, prev)
		}
		prev = slices.Clone(m)
	}
	if len(seen) != d.NumCoefs() {
		t.Errorf("visited %d monomials, want %d", len(seen), d.NumCoefs())
	}

	// restart from the middle
	start := []int{1, 0, 2, 0}
	n := 0
	for i, mono := range d.ByVar(start) {
		if n == 0 && !slices.Equal(mono, start) {
			t.Fatalf("ByVar started at %v", mono)
		}
		if d.Index(mono) != i {
			t.Fatalf("ByVar index mismatch at %v", mono)
		}
		n++
	}
	total := 0
	for range d.ByVar(nil) {
		total++
	}
	if total != d.NumCoefs() || n >= total || n == 0 {
		t.Errorf("ByVar counts: from start %d, total %d", n, total)
	}
	for range d.ByVar([]int{9, 9, 9, 9}) {
		t.Fatal("invalid start should yield nothing")
	}
}

func TestScheduleSplit(t *testing.T) {
	d := mustDesc(t, Config{NumVars: 3, MaxOrder: 6, Workers: 4})
	for oc := 2; oc <= d.Trunc(); oc++ {
		mo := d.mul[oc]
		if len(mo.cuts) != 5 || mo.cuts[0] != 0 || mo.cuts[4] != mo.size {
			t.Fatalf("order %d: bad cuts %v", oc, mo.cuts)
		}
		for w := 0; w < 4; w++ {
			if mo.cuts[w] > mo.cuts[w+1] {
				t.Fatalf("order %d: cuts not monotone %v", oc, mo.cuts)
			}
		}
	}
	if d.ScheduleSize() == 0 {
		t.Error("empty schedule")
	}

	tr := mustDesc(t, Config{NumVars: 3, MaxOrder: 6, Trunc: 3})
	if len(tr.mul) != 4 {
		t.Errorf("truncated schedule has %d orders, want 4", len(tr.mul))
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a, err := r.Get(Config{NumVars: 2, MaxOrder: 4, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := r.Get(Config{NumVars: 2, MaxOrder: 4, Trunc: 4, Workers: 1})
	if a != b {
		t.Error("equivalent configurations should share a descriptor")
	}
	c, _ := r.Get(Config{NumVars: 2, MaxOrder: 5, Workers: 1})
	if c == a {
		t.Error("different configurations should not share a descriptor")
	}
	if r.Len() != 2 || len(r.Descs()) != 2 {
		t.Errorf("Len = %d", r.Len())
	}
	if _, err := r.Get(Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected config error, got %v", err)
	}
	r.Reset()
	if r.Len() != 0 {
		t.Error("Reset left descriptors")
	}
}
