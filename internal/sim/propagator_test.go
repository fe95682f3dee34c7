package sim

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/integrators"
)

var _ = Describe("Propagator", func() {
	var cfg dynamo.Config

	BeforeEach(func() {
		cfg = dynamo.DefaultConfig()
		cfg.Dt = 0.1
		cfg.Duration = 1.0
	})

	It("records every fixed step", func() {
		x0 := dynamo.NewState(newDesc(1, 3), []float64{1.0})
		result, err := New(&decay{}, &euler{}).Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Orbit).To(HaveLen(11))
		Expect(result.Times).To(HaveLen(11))
		Expect(result.StepsTaken).To(Equal(10))
		Expect(result.Times[10]).To(BeNumerically("~", 1.0, 1e-12))

		// Euler on x' = -x multiplies by 0.9 per step, constant and slope alike
		Expect(result.Map[0].Value()).To(BeNumerically("~", math.Pow(0.9, 10), 1e-14))
		Expect(result.Map[0].Get(1)).To(BeNumerically("~", math.Pow(0.9, 10), 1e-14))
		Expect(result.Map[0].Value()).To(BeNumerically("~", math.Exp(-1), 0.2))
	})

	It("leaves the initial state untouched", func() {
		x0 := dynamo.NewState(newDesc(1, 2), []float64{1.0})
		_, err := New(&decay{}, &euler{}).Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(x0[0].Value()).To(Equal(1.0))
	})

	DescribeTable("rejects invalid configs",
		func(dt, duration float64) {
			cfg.Dt, cfg.Duration = dt, duration
			x0 := dynamo.NewState(newDesc(1, 2), []float64{1.0})
			_, err := New(&decay{}, &euler{}).Run(context.Background(), x0, cfg)
			Expect(err).To(MatchError(dynamo.ErrParameterBounds))
		},
		Entry("zero dt", 0.0, 1.0),
		Entry("negative dt", -0.1, 1.0),
		Entry("zero duration", 0.1, 0.0),
		Entry("negative duration", 0.1, -1.0),
	)

	It("rejects a state of the wrong dimension", func() {
		x0 := dynamo.NewState(newDesc(2, 2), []float64{1, 0})
		_, err := New(&decay{}, &euler{}).Run(context.Background(), x0, cfg)
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
	})

	It("collects metrics", func() {
		metric := &countMetric{}
		p := New(&decay{}, &euler{})
		p.AddMetric(metric)

		result, err := p.Run(context.Background(), dynamo.NewState(newDesc(1, 2), []float64{1.0}), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Metrics).To(HaveKey("test"))
		Expect(metric.count).To(Equal(10))
	})

	It("reports energy drift for Hamiltonian systems", func() {
		cfg.Duration = 2.0
		x0 := dynamo.NewState(newDesc(2, 2), []float64{1, 0})
		result, err := New(&harmonic{}, integrators.NewRK4()).Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.EnergyDrift).To(BeNumerically("<", 1e-5))
	})

	It("stops with a StepError when the map diverges", func() {
		cfg.MaxNorm = 1e100
		x0 := dynamo.NewState(newDesc(1, 2), []float64{1.0})
		result, err := New(&blowup{}, &euler{}).Run(context.Background(), x0, cfg)

		var stepErr *dynamo.StepError
		Expect(err).To(BeAssignableToTypeOf(stepErr))
		Expect(err).To(MatchError(dynamo.ErrUnstable))
		Expect(result.StepsTaken).To(Equal(0))
	})

	It("reaches the end time exactly with adaptive steps", func() {
		cfg.Adaptive = true
		cfg.Tolerance = 1e-10
		cfg.Duration = 1.3
		x0 := dynamo.NewState(newDesc(2, 3), []float64{1, 0})
		result, err := New(&harmonic{}, integrators.NewRK45()).Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())

		Expect(result.Times[len(result.Times)-1]).To(BeNumerically("~", 1.3, 1e-12))
		p := result.Map.Point()
		Expect(p[0]).To(BeNumerically("~", math.Cos(1.3), 1e-8))
		Expect(p[1]).To(BeNumerically("~", -math.Sin(1.3), 1e-8))
	})

	It("falls back to step doubling for fixed-step integrators", func() {
		cfg.Adaptive = true
		cfg.Tolerance = 1e-6
		x0 := dynamo.NewState(newDesc(2, 2), []float64{1, 0})
		result, err := New(&harmonic{}, integrators.NewRK4()).Run(context.Background(), x0, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Map.Point()[0]).To(BeNumerically("~", math.Cos(1), 1e-5))
	})

	It("stops a callback run on request", func() {
		calls := 0
		err := New(&decay{}, &euler{}).RunWithCallback(context.Background(),
			dynamo.NewState(newDesc(1, 2), []float64{1.0}), cfg,
			func(x dynamo.State, t float64) bool {
				calls++
				return t < 0.45
			})
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(6))
	})

	It("honours context cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := New(&decay{}, &euler{}).Run(ctx, dynamo.NewState(newDesc(1, 2), []float64{1.0}), cfg)
		Expect(err).To(MatchError(context.Canceled))
	})
})
