package tpsa

import "sync"

// parallelMulPairs is the schedule size above which a product runs on all workers.
const parallelMulPairs = 1 << 14

// mulPair lists, for one pair of orders (oa, ob) with oa <= ob, the index
// pairs contributing to every destination of order oa+ob, grouped by
// destination (CSR layout, rows relative to the first index of the order).
type mulPair struct {
	oa, ob int
	rows   []int32
	ia, ib []int32
}

// mulOrder is the schedule of one destination order. cuts splits the
// destination range into one contiguous slice per worker of near-equal work.
type mulOrder struct {
	base, size int
	pairs      []mulPair
	cuts       []int
	work       int
}

func (d *Desc) buildSchedule() {
	d.mul = make([]mulOrder, d.trunc+1)
	sum := make([]uint8, d.nv)
	for oc := 2; oc <= d.trunc; oc++ {
		mo := &d.mul[oc]
		mo.base = d.ord2idx[oc]
		mo.size = d.ord2idx[oc+1] - mo.base
		if mo.size == 0 {
			continue
		}
		load := make([]int, mo.size)
		for oa := 1; oa <= oc/2; oa++ {
			p := d.pairTable(oa, oc-oa, mo.base, mo.size, sum)
			if len(p.ia) == 0 {
				continue
			}
			for r := 0; r < mo.size; r++ {
				load[r] += int(p.rows[r+1] - p.rows[r])
			}
			mo.work += len(p.ia)
			mo.pairs = append(mo.pairs, p)
		}
		mo.cuts = splitLoad(load, d.workers)
	}
}

func (d *Desc) pairTable(oa, ob, base, size int, sum []uint8) mulPair {
	p := mulPair{oa: oa, ob: ob, rows: make([]int32, size+1)}
	visit := func(fn func(r, ia, ib int)) {
		a0, a1 := d.ord2idx[oa], d.ord2idx[oa+1]
		b0, b1 := d.ord2idx[ob], d.ord2idx[ob+1]
		for ia := a0; ia < a1; ia++ {
			ma := d.mono(ia)
			start := b0
			if oa == ob {
				start = ia
			}
			for ib := start; ib < b1; ib++ {
				mb := d.mono(ib)
				for k := range sum {
					sum[k] = ma[k] + mb[k]
				}
				if ic := d.indexOf(sum); ic >= 0 {
					fn(ic-base, ia, ib)
				}
			}
		}
	}

	visit(func(r, _, _ int) { p.rows[r+1]++ })
	for r := 1; r <= size; r++ {
		p.rows[r] += p.rows[r-1]
	}
	n := p.rows[size]
	p.ia = make([]int32, n)
	p.ib = make([]int32, n)
	fill := make([]int32, size)
	copy(fill, p.rows[:size])
	visit(func(r, ia, ib int) {
		k := fill[r]
		p.ia[k], p.ib[k] = int32(ia), int32(ib)
		fill[r]++
	})
	return p
}

// splitLoad cuts [0, len(load)) into n contiguous ranges of near-equal load.
func splitLoad(load []int, n int) []int {
	total := 0
	for _, l := range load {
		total += l
	}
	cuts := make([]int, n+1)
	cuts[n] = len(load)
	acc, r := 0, 0
	for w := 1; w < n; w++ {
		target := total * w / n
		for r < len(load) && acc < target {
			acc += load[r]
			r++
		}
		cuts[w] = r
	}
	return cuts
}

func (p *mulPair) active(anz, bnz uint64) bool {
	return (anz>>p.oa)&(bnz>>p.ob)&1 != 0 || (anz>>p.ob)&(bnz>>p.oa)&1 != 0
}

// mulOrders accumulates the products of orders >= 1 of a and b into the
// destination orders 2..omax of c.
func mulOrders[T Num](d *Desc, a, b, c []T, anz, bnz uint64, omax int) {
	work := 0
	for oc := 2; oc <= omax; oc++ {
		for i := range d.mul[oc].pairs {
			if p := &d.mul[oc].pairs[i]; p.active(anz, bnz) {
				work += len(p.ia)
			}
		}
	}
	if work == 0 {
		return
	}

	run := func(w int) {
		for oc := 2; oc <= omax; oc++ {
			mo := &d.mul[oc]
			if len(mo.pairs) == 0 {
				continue
			}
			lo, hi := 0, mo.size
			if w >= 0 {
				lo, hi = mo.cuts[w], mo.cuts[w+1]
			}
			for i := range mo.pairs {
				if p := &mo.pairs[i]; p.active(anz, bnz) {
					mulRange(p, mo.base, lo, hi, a, b, c)
				}
			}
		}
	}

	if d.workers <= 1 || work < parallelMulPairs {
		run(-1)
		return
	}
	var wg sync.WaitGroup
	wg.Add(d.workers)
	for w := 0; w < d.workers; w++ {
		go func(w int) {
			defer wg.Done()
			run(w)
		}(w)
	}
	wg.Wait()
}

func mulRange[T Num](p *mulPair, base, lo, hi int, a, b, c []T) {
	for r := lo; r < hi; r++ {
		var s T
		for k := p.rows[r]; k < p.rows[r+1]; k++ {
			i, j := p.ia[k], p.ib[k]
			if i == j {
				s += a[i] * b[i]
			} else {
				s += a[i]*b[j] + a[j]*b[i]
			}
		}
		c[base+r] += s
	}
}

// ScheduleSize returns the number of index pairs of the multiplication schedule.
func (d *Desc) ScheduleSize() int {
	n := 0
	for _, mo := range d.mul {
		n += mo.work
	}
	return n
}
