package metrics

import (
	"math"

	"github.com/san-kum/gtpsa/internal/analysis"
	"github.com/san-kum/gtpsa/internal/dynamo"
)

// Symplecticity records the largest |det(M) - 1| of the linear part M of
// the transfer map over the observed steps. Hamiltonian flows keep it at
// the integrator's error level.
type Symplecticity struct {
	name  string
	worst float64
}

func NewSymplecticity() *Symplecticity {
	return &Symplecticity{name: "symplecticity"}
}

func (s *Symplecticity) Name() string { return s.name }

func (s *Symplecticity) Observe(x dynamo.State, t float64) {
	jac, err := analysis.Jacobian(x)
	if err != nil {
		return
	}
	s.worst = math.Max(s.worst, math.Abs(analysis.Det(jac)-1))
}

func (s *Symplecticity) Value() float64 { return s.worst }

func (s *Symplecticity) Reset() { s.worst = 0 }

// Nonlinearity records the largest ratio of the higher order norm to the
// first order norm of any map component.
type Nonlinearity struct {
	name  string
	worst float64
}

func NewNonlinearity() *Nonlinearity {
	return &Nonlinearity{name: "nonlinearity"}
}

func (n *Nonlinearity) Name() string { return n.name }

func (n *Nonlinearity) Observe(x dynamo.State, t float64) {
	for _, orders := range analysis.OrderNorms(x) {
		if len(orders) < 3 || orders[1] == 0 {
			continue
		}
		high := 0.0
		for _, v := range orders[2:] {
			high += v
		}
		n.worst = math.Max(n.worst, high/orders[1])
	}
}

func (n *Nonlinearity) Value() float64 { return n.worst }

func (n *Nonlinearity) Reset() { n.worst = 0 }
