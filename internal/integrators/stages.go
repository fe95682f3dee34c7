package integrators

import "github.com/san-kum/gtpsa/internal/dynamo"

// stages hands out stage buffers shaped like the state being integrated.
type stages struct {
	pool *dynamo.StatePool
}

func (s *stages) get(x dynamo.State) dynamo.State {
	if s.pool == nil || !s.pool.Matches(x) {
		s.pool = dynamo.NewStatePool(x.Desc(), len(x))
	}
	return s.pool.Get()
}

func (s *stages) put(xs ...dynamo.State) {
	for _, x := range xs {
		s.pool.Put(x)
	}
}

// derive evaluates sys into a fresh stage buffer.
func (s *stages) derive(sys dynamo.System, x dynamo.State, t float64) (dynamo.State, error) {
	dx := s.get(x)
	if err := sys.Derive(x, t, dx); err != nil {
		s.put(dx)
		return nil, err
	}
	return dx, nil
}
