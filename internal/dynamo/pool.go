package dynamo

import (
	"sync"

	"github.com/san-kum/gtpsa/internal/tpsa"
)

// StatePool recycles zeroed states of one descriptor and dimension.
type StatePool struct {
	pool sync.Pool
	desc *tpsa.Desc
	size int
}

func NewStatePool(d *tpsa.Desc, size int) *StatePool {
	return &StatePool{
		desc: d,
		size: size,
		pool: sync.Pool{
			New: func() any {
				s := make(State, size)
				for i := range s {
					s[i] = tpsa.NewReal(d, tpsa.MaxOrd)
				}
				return s
			},
		},
	}
}

// Matches reports whether the pool serves states shaped like x.
func (p *StatePool) Matches(x State) bool {
	return len(x) == p.size && (p.size == 0 || x.Desc() == p.desc)
}

func (p *StatePool) Get() State {
	return p.pool.Get().(State)
}

func (p *StatePool) Put(s State) {
	if p.Matches(s) {
		for _, c := range s {
			c.Clear()
		}
		p.pool.Put(s)
	}
}

func (p *StatePool) GetAndCopy(src State) State {
	return p.Get().Copy(src)
}
