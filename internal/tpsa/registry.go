package tpsa

import (
	"fmt"
	"sync"
)

// Registry is a caller-owned get-or-create cache of descriptors keyed by
// their normalized configuration.
type Registry struct {
	mu    sync.Mutex
	descs map[string]*Desc
	order []string
}

func NewRegistry() *Registry {
	return &Registry{descs: make(map[string]*Desc)}
}

// Get returns the descriptor for cfg, building it on first use.
func (r *Registry) Get(cfg Config) (*Desc, error) {
	norm, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	key := norm.key()

	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.descs[key]; ok {
		return d, nil
	}
	d, err := NewDesc(norm)
	if err != nil {
		return nil, err
	}
	r.descs[key] = d
	r.order = append(r.order, key)
	return d, nil
}

// Len returns the number of cached descriptors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.descs)
}

// Descs returns the cached descriptors in creation order.
func (r *Registry) Descs() []*Desc {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Desc, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.descs[k])
	}
	return out
}

// Reset drops every cached descriptor. Series built on them stay valid.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.descs)
	r.order = r.order[:0]
}

func (cfg Config) key() string {
	return fmt.Sprintf("%d/%d/%d/%d/%v/%d/%d",
		cfg.NumVars, cfg.MaxOrder, cfg.NumKnobs, cfg.KnobOrder, cfg.VarOrders, cfg.Trunc, cfg.Workers)
}
