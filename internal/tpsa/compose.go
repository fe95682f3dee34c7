package tpsa

import (
	"fmt"
	"sync"
)

// composeParallelOrder is the highest order of the outer map from which
// composition is split across workers.
const composeParallelOrder = 6

// Compose sets mc = ma o mb: every map variable of ma is replaced by the
// matching series of mb, knobs are kept as themselves. mc may alias ma or mb.
func Compose[T Num](ma, mb, mc Map[T]) error {
	d, err := checkCompose(ma, mb, mc)
	if err != nil {
		return err
	}

	mo := 0
	for _, s := range mc {
		mo = max(mo, s.mo)
	}
	// Terms of ma above the result order only vanish when no inner series
	// carries a constant part.
	hi := ma.Hi()
	if !hasConstant(mb) {
		hi = min(hi, mo)
	}
	knobs := knobSeries[T](d, mo)

	var res Map[T]
	if hi < composeParallelOrder || d.workers <= 1 {
		res = composeResult(mc)
		st := d.acquire()
		composeOrders(st, ma, mb, knobs, res, mo, 0, hi)
		d.release(st)
	} else {
		res = composeParallel(d, ma, mb, mc, knobs, mo, hi)
	}

	for k := range mc {
		mc[k].Copy(res[k])
	}
	return nil
}

func checkCompose[T Num](ma, mb, mc Map[T]) (*Desc, error) {
	if len(ma) == 0 || len(mb) == 0 || len(mc) == 0 {
		return nil, &CompatError{Op: "compose", Reason: "empty map"}
	}
	if len(ma) != len(mc) {
		return nil, &CompatError{Op: "compose", Reason: fmt.Sprintf("outer size %d != result size %d", len(ma), len(mc))}
	}
	if ma[0] == nil {
		return nil, &CompatError{Op: "compose", Reason: "nil series"}
	}
	d := ma[0].d
	if len(mb) != d.nmv {
		return nil, &CompatError{Op: "compose", Reason: fmt.Sprintf("inner size %d != map variables %d", len(mb), d.nmv)}
	}
	for _, m := range []Map[T]{ma, mb, mc} {
		for _, s := range m {
			if s == nil || s.d != d {
				return nil, &CompatError{Op: "compose", Reason: "series built on different descriptors"}
			}
		}
	}
	return d, nil
}

func hasConstant[T Num](m Map[T]) bool {
	for _, s := range m {
		if s.nz&1 != 0 {
			return true
		}
	}
	return false
}

func composeResult[T Num](mc Map[T]) Map[T] {
	res := make(Map[T], len(mc))
	for k, s := range mc {
		res[k] = New[T](s.d, s.mo)
	}
	return res
}

func knobSeries[T Num](d *Desc, mo int) Map[T] {
	knobs := make(Map[T], d.nv)
	if d.ko == 0 {
		return knobs
	}
	for j := d.nmv; j < d.nv; j++ {
		knobs[j] = New[T](d, mo).SetVar(j, 0, 1)
	}
	return knobs
}

// composeParallel splits the leaf orders 0..hi into contiguous ranges of
// similar monomial count, one per worker. Each worker accumulates into its own
// result map; the partial maps are summed after the join.
func composeParallel[T Num](d *Desc, ma, mb, mc, knobs Map[T], mo, hi int) Map[T] {
	load := make([]int, hi+1)
	for o := range load {
		load[o] = d.ord2idx[o+1] - d.ord2idx[o]
	}
	cuts := splitLoad(load, min(d.workers, hi+1))

	parts := make([]Map[T], 0, len(cuts)-1)
	var wg sync.WaitGroup
	for w := 0; w+1 < len(cuts); w++ {
		lo, up := cuts[w], cuts[w+1]-1
		if lo > up {
			continue
		}
		part := composeResult(mc)
		parts = append(parts, part)
		wg.Add(1)
		go func() {
			defer wg.Done()
			st := d.acquire()
			composeOrders(st, ma, mb, knobs, part, mo, lo, up)
			d.release(st)
		}()
	}
	wg.Wait()

	res := parts[0]
	for _, part := range parts[1:] {
		for k := range res {
			res[k].lin(1, res[k], 1, part[k], 0)
		}
	}
	return res
}

// composeOrders accumulates into out the terms of ma whose order lies in
// [olo, ohi]. The walk visits monomials in variable-major order; depth j
// holds the product of mb_0^e_0 ... mb_j^e_j.
func composeOrders[T Num](st *scratch, ma, mb, knobs, out Map[T], mo, olo, ohi int) {
	d := ma[0].d
	bufs := make([]*Series[T], d.nv)
	for j := range bufs {
		bufs[j] = tmp[T](st, mo)
	}
	one := tmp[T](st, mo)
	one.SetVal(1)

	exps := make([]uint8, d.nv)
	var walk func(j, ord, kord int, prod *Series[T])
	walk = func(j, ord, kord int, prod *Series[T]) {
		if j == d.nv {
			if ord < olo {
				return
			}
			idx := d.indexOf(exps)
			for k, s := range ma {
				if v := s.coef[idx]; v != 0 {
					out[k].lin(1, out[k], v, prod, 0)
				}
			}
			return
		}

		walk(j+1, ord, kord, prod)

		limit := min(d.varOrds[j], ohi-ord)
		inner := knobs[j]
		if j < d.nmv {
			inner = mb[j]
		} else {
			limit = min(limit, d.ko-kord)
		}
		buf := bufs[j]
		for e := 1; e <= limit; e++ {
			exps[j] = uint8(e)
			if e == 1 {
				mul(st, prod, inner, buf)
			} else {
				mul(st, buf, inner, buf)
			}
			ke := kord
			if j >= d.nmv {
				ke += e
			}
			walk(j+1, ord+e, ke, buf)
		}
		exps[j] = 0
	}
	walk(0, 0, 0, one)

	rel(st, one)
	for j := len(bufs) - 1; j >= 0; j-- {
		rel(st, bufs[j])
	}
}
