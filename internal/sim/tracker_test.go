package sim

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/integrators"
)

// henon returns the quadratic map x' = c x - s (y - x^2), y' = s x + c (y - x^2)
// around the fixed point 0.
func henon(mo int, theta float64) dynamo.State {
	c, s := math.Cos(theta), math.Sin(theta)
	m := dynamo.NewState(newDesc(2, mo), nil).Zero()
	m[0].SetMono([]int{1, 0}, 0, c).SetMono([]int{0, 1}, 0, -s).SetMono([]int{2, 0}, 0, s)
	m[1].SetMono([]int{1, 0}, 0, s).SetMono([]int{0, 1}, 0, c).SetMono([]int{2, 0}, 0, -c)
	return m
}

var _ = Describe("Tracker", func() {
	ctx := context.Background()

	It("composes the exact two-turn map of a quadratic map", func() {
		m := henon(4, 0.7)
		tr, err := NewTracker(m, []float64{0, 0})
		Expect(err).NotTo(HaveOccurred())

		m2, err := tr.Power(ctx, 2)
		Expect(err).NotTo(HaveOccurred())

		for _, dev := range [][]float64{{0.1, 0}, {0.05, -0.2}, {-0.3, 0.1}} {
			pts, err := tr.Track(ctx, dev, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(pts).To(HaveLen(3))

			got, err := m2.Map().Eval(dev)
			Expect(err).NotTo(HaveOccurred())
			Expect(got[0]).To(BeNumerically("~", pts[2][0], 1e-14))
			Expect(got[1]).To(BeNumerically("~", pts[2][1], 1e-14))
		}
	})

	It("returns the identity for zero turns", func() {
		tr, err := NewTracker(henon(3, 0.2), []float64{0, 0})
		Expect(err).NotTo(HaveOccurred())
		m0, err := tr.Power(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(m0.Map().Linear()).To(Equal([][]float64{{1, 0}, {0, 1}}))

		_, err = tr.Power(ctx, -1)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})

	It("tracks a rotation on a circle around a shifted reference", func() {
		d := newDesc(2, 2)
		ref := []float64{1, 2}
		p := New(&harmonic{}, integrators.NewRK4())
		cfg := dynamo.DefaultConfig()
		cfg.Dt = 0.01
		cfg.Duration = 0.5

		// the harmonic flow is linear, so the map around any point is exact;
		// shift it so that ref is a fixed point
		res, err := p.Run(ctx, dynamo.NewState(d, []float64{0, 0}), cfg)
		Expect(err).NotTo(HaveOccurred())
		m := res.Map.Clone()
		m[0].AddVal(m[0], ref[0])
		m[1].AddVal(m[1], ref[1])

		tr, err := NewTracker(m, ref)
		Expect(err).NotTo(HaveOccurred())
		pts, err := tr.Track(ctx, []float64{0.3, 0}, 20)
		Expect(err).NotTo(HaveOccurred())
		for _, pt := range pts {
			r := math.Hypot(pt[0]-ref[0], pt[1]-ref[1])
			Expect(r).To(BeNumerically("~", 0.3, 1e-9))
		}
	})

	It("validates its inputs", func() {
		_, err := NewTracker(henon(2, 0.1), []float64{0})
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))

		tr, _ := NewTracker(henon(2, 0.1), []float64{0, 0})
		_, err = tr.Track(ctx, []float64{1, 2, 3}, 1)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
	})

	It("stops when the orbit escapes", func() {
		tr, _ := NewTracker(henon(2, 0.3), []float64{0, 0})
		pts, err := tr.Track(ctx, []float64{50, 50}, 100)
		Expect(err).To(MatchError(dynamo.ErrUnstable))
		Expect(len(pts)).To(BeNumerically("<", 101))
	})
})

var _ = Describe("Ensemble", func() {
	ctx := context.Background()
	newRK4 := func() dynamo.Integrator { return integrators.NewRK4() }

	var (
		cfg dynamo.Config
		ref []float64
		m   dynamo.State
	)

	BeforeEach(func() {
		cfg = dynamo.DefaultConfig()
		cfg.Dt = 0.05
		cfg.Duration = 1
		ref = []float64{0.4, -0.2}
		res, err := New(&harmonic{}, integrators.NewRK4()).Run(ctx, dynamo.NewState(newDesc(2, 2), ref), cfg)
		Expect(err).NotTo(HaveOccurred())
		m = res.Map
	})

	It("matches direct tracking for a linear flow", func() {
		rep, err := NewEnsemble(&harmonic{}, newRK4, 16, 0.1, 7).WithWorkers(4).Run(ctx, m, ref, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(rep.Samples).To(HaveLen(16))
		Expect(rep.MaxError).To(BeNumerically("<", 1e-12))
		Expect(rep.MeanError).To(BeNumerically("<=", rep.MaxError))
		for _, s := range rep.Samples {
			Expect(s.Deviation[0]).To(BeNumerically("<=", 0.1))
			Expect(s.Deviation[0]).To(BeNumerically(">=", -0.1))
		}
	})

	It("draws the same samples for the same seed", func() {
		a, err := NewEnsemble(&harmonic{}, newRK4, 4, 0.1, 99).WithWorkers(1).Run(ctx, m, ref, cfg)
		Expect(err).NotTo(HaveOccurred())
		b, err := NewEnsemble(&harmonic{}, newRK4, 4, 0.1, 99).WithWorkers(3).Run(ctx, m, ref, cfg)
		Expect(err).NotTo(HaveOccurred())
		for i := range a.Samples {
			Expect(a.Samples[i].Deviation).To(Equal(b.Samples[i].Deviation))
			Expect(a.Samples[i].Direct).To(Equal(b.Samples[i].Direct))
		}
	})

	It("rejects a non-positive radius", func() {
		_, err := NewEnsemble(&harmonic{}, newRK4, 4, 0, 1).Run(ctx, m, ref, cfg)
		Expect(err).To(MatchError(dynamo.ErrParameterBounds))
	})
})
