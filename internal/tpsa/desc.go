package tpsa

import (
	"fmt"
	"iter"
	"runtime"
	"slices"
	"sync"
)

const (
	// MaxOrder is the largest order a descriptor supports; orders index a 64-bit mask.
	MaxOrder = 63

	// MaxCoefs bounds the number of monomials of a descriptor.
	MaxCoefs = 1 << 24

	// MaxOrd requests the descriptor maximum order when allocating a series.
	MaxOrd = -1
)

// KnobsFixed as Config.KnobOrder keeps knobs at order 0: they are declared
// but no coefficient depends on them.
const KnobsFixed = -1

// Config describes a descriptor. Zero values select defaults where noted.
type Config struct {
	NumVars   int   // map variables, at least 1
	MaxOrder  int   // maximum order, 1..63
	NumKnobs  int   // extra parameters appended after the map variables
	KnobOrder int   // maximum total order in knobs, 0 selects MaxOrder, KnobsFixed selects 0
	VarOrders []int // per variable order limit, nil selects MaxOrder (KnobOrder for knobs)
	Trunc     int   // truncation order of every operation, 0 selects MaxOrder
	Workers   int   // parallel workers, 0 selects runtime.NumCPU()
}

// Desc is the immutable indexing and scheduling structure shared by series.
type Desc struct {
	nmv, nk, nv int
	mo, ko      int
	trunc       int
	nc          int
	workers     int

	varOrds []int
	monos   []uint8 // nc*nv exponents in order-major layout
	ords    []uint8 // total order of each index
	ord2idx []int   // first index of each order, len mo+2
	to2tv   []int
	tv2to   []int
	index   map[string]int

	mul      []mulOrder // by destination order
	stackCap int
	stacks   sync.Pool
}

// NewDesc validates cfg and builds the monomial tables and the
// multiplication schedule.
func NewDesc(cfg Config) (*Desc, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	d := &Desc{
		nmv:     cfg.NumVars,
		nk:      cfg.NumKnobs,
		nv:      cfg.NumVars + cfg.NumKnobs,
		mo:      cfg.MaxOrder,
		ko:      cfg.KnobOrder,
		trunc:   cfg.Trunc,
		workers: cfg.Workers,
		varOrds: slices.Clone(cfg.VarOrders),
	}
	if err := d.buildMonos(); err != nil {
		return nil, err
	}
	d.buildVarMajor()
	d.buildSchedule()
	d.stackCap = d.nv + scratchExtra
	d.stacks.New = func() any { return newScratch(d) }
	return d, nil
}

func (cfg Config) normalize() (Config, error) {
	if cfg.NumVars < 1 {
		return cfg, &ConfigError{Field: "NumVars", Value: cfg.NumVars}
	}
	if cfg.MaxOrder < 1 || cfg.MaxOrder > MaxOrder {
		return cfg, &ConfigError{Field: "MaxOrder", Value: cfg.MaxOrder}
	}
	if cfg.NumKnobs < 0 {
		return cfg, &ConfigError{Field: "NumKnobs", Value: cfg.NumKnobs}
	}
	switch {
	case cfg.KnobOrder == KnobsFixed:
		cfg.KnobOrder = 0
	case cfg.KnobOrder < 0 || cfg.KnobOrder > cfg.MaxOrder:
		return cfg, &ConfigError{Field: "KnobOrder", Value: cfg.KnobOrder}
	case cfg.KnobOrder == 0:
		cfg.KnobOrder = cfg.MaxOrder
	}
	if cfg.Trunc < 0 || cfg.Trunc > cfg.MaxOrder {
		return cfg, &ConfigError{Field: "Trunc", Value: cfg.Trunc}
	}
	if cfg.Trunc == 0 {
		cfg.Trunc = cfg.MaxOrder
	}
	if cfg.Workers < 0 {
		return cfg, &ConfigError{Field: "Workers", Value: cfg.Workers}
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	nv := cfg.NumVars + cfg.NumKnobs
	if cfg.VarOrders == nil {
		vo := make([]int, nv)
		for i := range vo {
			vo[i] = cfg.MaxOrder
			if i >= cfg.NumVars {
				vo[i] = cfg.KnobOrder
			}
		}
		cfg.VarOrders = vo
	}
	if len(cfg.VarOrders) != nv {
		return cfg, &ConfigError{Field: "len(VarOrders)", Value: len(cfg.VarOrders)}
	}
	for i, o := range cfg.VarOrders {
		limit := cfg.MaxOrder
		if i >= cfg.NumVars {
			limit = cfg.KnobOrder
		}
		if o < 0 || o > limit {
			return cfg, &ConfigError{Field: fmt.Sprintf("VarOrders[%d]", i), Value: o}
		}
	}
	return cfg, nil
}

func (d *Desc) buildMonos() error {
	var all [][]uint8
	m := make([]uint8, d.nv)
	var rec func(v, left, kleft int) error
	rec = func(v, left, kleft int) error {
		if v == d.nv {
			all = append(all, slices.Clone(m))
			if len(all) > MaxCoefs {
				return &ConfigError{Field: "NumCoefs", Value: len(all)}
			}
			return nil
		}
		limit := min(d.varOrds[v], left)
		if v >= d.nmv {
			limit = min(limit, kleft)
		}
		for e := 0; e <= limit; e++ {
			m[v] = uint8(e)
			k := kleft
			if v >= d.nmv {
				k -= e
			}
			if err := rec(v+1, left-e, k); err != nil {
				return err
			}
		}
		m[v] = 0
		return nil
	}
	if err := rec(0, d.mo, d.ko); err != nil {
		return err
	}

	slices.SortFunc(all, func(a, b []uint8) int {
		if oa, ob := monoOrder(a), monoOrder(b); oa != ob {
			return oa - ob
		}
		return -slices.Compare(a, b)
	})

	d.nc = len(all)
	d.monos = make([]uint8, 0, d.nc*d.nv)
	d.ords = make([]uint8, d.nc)
	d.ord2idx = make([]int, d.mo+2)
	d.index = make(map[string]int, d.nc)
	for i, a := range all {
		d.monos = append(d.monos, a...)
		o := monoOrder(a)
		d.ords[i] = uint8(o)
		d.ord2idx[o+1] = i + 1
		d.index[string(a)] = i
	}
	for o := 1; o <= d.mo+1; o++ {
		if d.ord2idx[o] < d.ord2idx[o-1] {
			d.ord2idx[o] = d.ord2idx[o-1]
		}
	}
	return nil
}

func (d *Desc) buildVarMajor() {
	d.tv2to = make([]int, d.nc)
	for i := range d.tv2to {
		d.tv2to[i] = i
	}
	slices.SortFunc(d.tv2to, func(a, b int) int {
		return slices.Compare(d.mono(a), d.mono(b))
	})
	d.to2tv = make([]int, d.nc)
	for p, i := range d.tv2to {
		d.to2tv[i] = p
	}
}

func monoOrder(m []uint8) int {
	o := 0
	for _, e := range m {
		o += int(e)
	}
	return o
}

func (d *Desc) mono(i int) []uint8 {
	return d.monos[i*d.nv : (i+1)*d.nv]
}

func (d *Desc) NumVars() int    { return d.nv }
func (d *Desc) NumMapVars() int { return d.nmv }
func (d *Desc) NumKnobs() int   { return d.nk }
func (d *Desc) NumCoefs() int   { return d.nc }
func (d *Desc) MaxOrder() int   { return d.mo }
func (d *Desc) KnobOrder() int  { return d.ko }
func (d *Desc) Trunc() int      { return d.trunc }
func (d *Desc) Workers() int    { return d.workers }

// VarOrders returns a copy of the per variable order limits.
func (d *Desc) VarOrders() []int { return slices.Clone(d.varOrds) }

// Order returns the total order of monomial i.
func (d *Desc) Order(i int) int { return int(d.ords[i]) }

// OrderRange returns the half-open index range [start, end) of order o.
func (d *Desc) OrderRange(o int) (start, end int) {
	if o < 0 || o > d.mo {
		return 0, 0
	}
	return d.ord2idx[o], d.ord2idx[o+1]
}

// IsValid reports whether m is an exponent vector of the descriptor.
func (d *Desc) IsValid(m []int) bool {
	if len(m) != d.nv {
		return false
	}
	tot, kn := 0, 0
	for i, e := range m {
		if e < 0 || e > d.varOrds[i] {
			return false
		}
		tot += e
		if i >= d.nmv {
			kn += e
		}
	}
	return tot <= d.mo && kn <= d.ko
}

// Index returns the index of monomial m, or -1 if m is not valid.
func (d *Desc) Index(m []int) int {
	if !d.IsValid(m) {
		return -1
	}
	var buf [16]uint8
	key := buf[:0]
	for _, e := range m {
		key = append(key, uint8(e))
	}
	return d.index[string(key)]
}

func (d *Desc) indexOf(m []uint8) int {
	if i, ok := d.index[string(m)]; ok {
		return i
	}
	return -1
}

// Mono writes the exponents of monomial i into m, growing it as needed.
func (d *Desc) Mono(i int, m []int) []int {
	if i < 0 || i >= d.nc {
		return nil
	}
	m = slices.Grow(m[:0], d.nv)[:d.nv]
	for j, e := range d.mono(i) {
		m[j] = int(e)
	}
	return m
}

// NextByVar replaces m with its successor in variable-major order and reports
// whether one exists.
func (d *Desc) NextByVar(m []int) bool {
	i := d.Index(m)
	if i < 0 {
		return false
	}
	p := d.to2tv[i] + 1
	if p >= d.nc {
		return false
	}
	d.Mono(d.tv2to[p], m)
	return true
}

// ByVar yields (index, exponents) pairs in variable-major order starting at
// start, or at the constant monomial when start is nil. The exponent slice is
// reused between iterations.
func (d *Desc) ByVar(start []int) iter.Seq2[int, []int] {
	return func(yield func(int, []int) bool) {
		p := 0
		if start != nil {
			i := d.Index(start)
			if i < 0 {
				return
			}
			p = d.to2tv[i]
		}
		m := make([]int, d.nv)
		for ; p < d.nc; p++ {
			i := d.tv2to[p]
			d.Mono(i, m)
			if !yield(i, m) {
				return
			}
		}
	}
}

func (d *Desc) String() string {
	return fmt.Sprintf("Desc{nmv=%d nk=%d mo=%d ko=%d trunc=%d nc=%d workers=%d}",
		d.nmv, d.nk, d.mo, d.ko, d.trunc, d.nc, d.workers)
}
