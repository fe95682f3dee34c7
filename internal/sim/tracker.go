package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/tpsa"
)

// Tracker iterates a one-period map. The map sends deviations from ref to
// absolute coordinates, so every iterate is shifted back by ref before it is
// fed in again.
type Tracker struct {
	period dynamo.State
	ref    []float64
}

func NewTracker(period dynamo.State, ref []float64) (*Tracker, error) {
	if len(period) == 0 || len(ref) != len(period) {
		return nil, fmt.Errorf("%w: map has %d components, reference %d", dynamo.ErrDimensionMismatch, len(period), len(ref))
	}
	if nmv := period.Desc().NumMapVars(); nmv != len(period) {
		return nil, fmt.Errorf("%w: map has %d components, descriptor %d map variables", dynamo.ErrDimensionMismatch, len(period), nmv)
	}
	return &Tracker{period: period, ref: append([]float64(nil), ref...)}, nil
}

// Power returns the n-period map by repeated composition. Power(0) is the
// identity around the reference.
func (tr *Tracker) Power(ctx context.Context, n int) (dynamo.State, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative period count %d", dynamo.ErrParameterBounds, n)
	}
	res := dynamo.NewState(tr.period.Desc(), tr.ref)
	for k := 0; k < n; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inner := tr.shifted(res)
		out := res.Zero()
		if err := tpsa.Compose(tr.period.Map(), inner.Map(), out.Map()); err != nil {
			return nil, err
		}
		res = out
	}
	return res, nil
}

func (tr *Tracker) shifted(m dynamo.State) dynamo.State {
	s := m.Clone()
	for i := range s {
		s[i].AddVal(s[i], -tr.ref[i])
	}
	return s
}

// Track evaluates the map turns times starting at ref+dev and returns the
// absolute coordinates before the first and after every turn.
func (tr *Tracker) Track(ctx context.Context, dev []float64, turns int) ([][]float64, error) {
	n := len(tr.ref)
	if len(dev) != n {
		return nil, fmt.Errorf("%w: deviation has %d values, want %d", dynamo.ErrDimensionMismatch, len(dev), n)
	}
	x := make([]float64, tr.period.Desc().NumVars())
	copy(x, dev)

	pts := make([][]float64, 0, turns+1)
	pts = append(pts, tr.absolute(x[:n]))
	for k := 0; k < turns; k++ {
		if err := ctx.Err(); err != nil {
			return pts, err
		}
		out, err := tr.period.Map().Eval(x)
		if err != nil {
			return pts, err
		}
		for i, v := range out {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return pts, &dynamo.StepError{Step: k, Time: float64(k + 1), Wrapped: dynamo.ErrUnstable}
			}
			x[i] = v - tr.ref[i]
		}
		pts = append(pts, out)
	}
	return pts, nil
}

func (tr *Tracker) absolute(dev []float64) []float64 {
	p := make([]float64, len(dev))
	for i, v := range dev {
		p[i] = tr.ref[i] + v
	}
	return p
}
