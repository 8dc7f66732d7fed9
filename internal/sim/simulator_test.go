package sim_test

import (
	"context"
	"errors"
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/tbsim/internal/compute"
	"github.com/san-kum/tbsim/internal/integrators"
	"github.com/san-kum/tbsim/internal/lattice"
	"github.com/san-kum/tbsim/internal/metrics"
	"github.com/san-kum/tbsim/internal/sim"
	"github.com/san-kum/tbsim/internal/wave"
)

func grid(start, stop float64, points int) []float64 {
	return floats.Span(make([]float64, points), start, stop)
}

type recordingObserver struct {
	steps []int
	times []float64
}

func (r *recordingObserver) OnStep(step int, t float64, psi wave.State) {
	r.steps = append(r.steps, step)
	r.times = append(r.times, t)
}

// scribbler overwrites every state it is handed.
type scribbler struct{}

func (scribbler) OnStep(step int, t float64, psi wave.State) {
	for i := range psi {
		psi[i] = 0
	}
}

var _ = Describe("Simulator", func() {
	var (
		ctx     context.Context
		hopping []float64
		onsite  []float64
		times   []float64
	)

	BeforeEach(func() {
		ctx = context.Background()
		hopping = lattice.Uniform(9, 1)
		onsite = lattice.Uniform(9, 0.5)
		times = grid(0, 2, 41)
	})

	run := func(workers int) *sim.Result {
		cfg := sim.DefaultConfig()
		cfg.Workers = workers
		res, err := sim.New(cfg, integrators.NewRK4()).Run(ctx, hopping, onsite, times)
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	Describe("recording", func() {
		It("records one distribution per grid point and steps once per later point", func() {
			res := run(1)
			Expect(res.Distributions).To(HaveLen(len(times)))
			Expect(res.StepsTaken).To(Equal(len(times) - 1))
			Expect(res.Final).To(HaveLen(len(onsite)))
			Expect(res.Dt).To(BeNumerically("~", 0.05, 1e-12))
			Expect(res.Times).To(Equal(times))
		})

		It("records the pre-step distribution at every index", func() {
			res := run(1)
			initial := lattice.Localized(len(onsite)).Probabilities()
			Expect(res.Distributions[0]).To(Equal(initial))
			Expect(res.Distributions[1]).To(Equal(initial))

			h, err := lattice.NewHamiltonian(hopping, onsite)
			Expect(err).NotTo(HaveOccurred())
			op, err := compute.NewApplicator(h, 1)
			Expect(err).NotTo(HaveOccurred())

			x := lattice.Localized(len(onsite))
			integ := integrators.NewRK4()
			for i := 1; i < len(times); i++ {
				Expect(floats.EqualApprox(res.Distributions[i], x.Probabilities(), 1e-14)).To(BeTrue(), "index %d", i)
				x, err = integ.Step(ctx, op, x, res.Dt)
				Expect(err).NotTo(HaveOccurred())
			}
			for i := range x {
				Expect(cmplx.Abs(res.Final[i] - x[i])).To(BeNumerically("<", 1e-14))
			}
		})

		It("returns final amplitudes one step past the last recorded distribution", func() {
			res := run(1)
			last := res.Distributions[len(res.Distributions)-1]
			Expect(floats.EqualApprox(res.Final.Probabilities(), last, 1e-6)).To(BeFalse())
		})

		It("approximately conserves the norm", func() {
			res := run(1)
			Expect(res.NormDrift).To(BeNumerically("<", 1e-5))
			for _, d := range res.Distributions {
				Expect(floats.Sum(d)).To(BeNumerically("~", 1, 1e-5))
			}
		})

		It("spreads symmetrically from the central site", func() {
			res := run(1)
			last := res.Distributions[len(res.Distributions)-1]
			n := len(last)
			for i := 0; i < n/2; i++ {
				Expect(last[i]).To(BeNumerically("~", last[n-1-i], 1e-12))
			}
		})
	})

	Describe("worker partitioning", func() {
		It("does not change the recorded distributions", func() {
			ref := run(1)
			for _, workers := range []int{2, 3, 4, 9} {
				res := run(workers)
				for i := range ref.Distributions {
					Expect(floats.EqualApprox(ref.Distributions[i], res.Distributions[i], 1e-10)).To(BeTrue(), "workers %d index %d", workers, i)
				}
			}
		})

		It("is repeatable for identical inputs", func() {
			a := run(3)
			b := run(3)
			Expect(a.Distributions).To(Equal(b.Distributions))
			Expect(a.Final).To(Equal(b.Final))
		})
	})

	Describe("single site", func() {
		It("only rotates the phase", func() {
			eps := 0.5
			hopping = nil
			onsite = []float64{eps}
			times = grid(0, 5, 501)

			res := run(1)
			for _, d := range res.Distributions {
				Expect(d).To(HaveLen(1))
				Expect(d[0]).To(BeNumerically("~", 1, 1e-9))
			}
			want := cmplx.Exp(complex(0, -eps*res.Dt*float64(res.StepsTaken)))
			Expect(cmplx.Abs(res.Final[0] - want)).To(BeNumerically("<", 1e-9))
		})
	})

	Describe("observers", func() {
		It("sees every integration step in order", func() {
			obs := &recordingObserver{}
			s := sim.New(sim.DefaultConfig(), integrators.NewRK4())
			s.AddObserver(obs)

			_, err := s.Run(ctx, hopping, onsite, times)
			Expect(err).NotTo(HaveOccurred())
			Expect(obs.steps).To(HaveLen(len(times) - 1))
			Expect(obs.steps[0]).To(Equal(1))
			Expect(obs.times[0]).To(Equal(times[0]))
			Expect(obs.times[len(obs.times)-1]).To(Equal(times[len(times)-2]))
		})

		It("cannot disturb the run through the state it is handed", func() {
			plain, err := sim.New(sim.DefaultConfig(), integrators.NewRK4()).Run(ctx, hopping, onsite, times)
			Expect(err).NotTo(HaveOccurred())

			s := sim.New(sim.DefaultConfig(), integrators.NewRK4())
			s.AddObserver(scribbler{})
			watched, err := s.Run(ctx, hopping, onsite, times)
			Expect(err).NotTo(HaveOccurred())
			Expect(watched.Final).To(Equal(plain.Final))
		})
	})

	Describe("metrics", func() {
		It("resets and reports each metric by name", func() {
			h, err := lattice.NewHamiltonian(hopping, onsite)
			Expect(err).NotTo(HaveOccurred())

			s := sim.New(sim.DefaultConfig(), integrators.NewRK4())
			s.AddMetric(metrics.NewEnergyDrift(h))
			s.AddMetric(metrics.NewSpread())

			first, err := s.Run(ctx, hopping, onsite, times)
			Expect(err).NotTo(HaveOccurred())
			second, err := s.Run(ctx, hopping, onsite, times)
			Expect(err).NotTo(HaveOccurred())

			Expect(first.Metrics).To(HaveKey("energy_drift"))
			Expect(first.Metrics).To(HaveKey("spread"))
			Expect(first.Metrics["energy_drift"]).To(BeNumerically("<", 1e-4))
			Expect(first.Metrics["spread"]).To(BeNumerically(">", 0))
			Expect(second.Metrics).To(Equal(first.Metrics))
		})
	})

	Describe("validation", func() {
		DescribeTable("rejects bad time grids",
			func(ts []float64) {
				res, err := sim.New(sim.DefaultConfig(), integrators.NewRK4()).Run(ctx, hopping, onsite, ts)
				Expect(err).To(MatchError(wave.ErrInvalidTimeGrid))
				Expect(res).To(BeNil())
			},
			Entry("empty", []float64{}),
			Entry("single point", []float64{0}),
			Entry("repeated point", []float64{0, 1, 1}),
			Entry("decreasing", []float64{0, -1}),
			Entry("NaN", []float64{0, math.NaN()}),
		)

		It("rejects mismatched lattice inputs", func() {
			_, err := sim.New(sim.DefaultConfig(), integrators.NewRK4()).Run(ctx, []float64{1}, onsite, times)
			Expect(err).To(MatchError(wave.ErrInvalidDimension))
		})

		It("rejects more workers than sites", func() {
			cfg := sim.DefaultConfig()
			cfg.Workers = len(onsite) + 1
			_, err := sim.New(cfg, integrators.NewRK4()).Run(ctx, hopping, onsite, times)
			Expect(err).To(MatchError(wave.ErrInvalidPartition))
		})

		It("aborts on a diverging state", func() {
			times = grid(0, 20000, 201)
			res, err := sim.New(sim.DefaultConfig(), integrators.NewRK4()).Run(ctx, hopping, onsite, times)
			Expect(err).To(MatchError(wave.ErrInvalidState))
			var stepErr *wave.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Step).To(BeNumerically(">=", 1))
			Expect(stepErr.Time).To(Equal(times[stepErr.Step-1]))
			Expect(res).To(BeNil())
		})

		It("stops when the context is canceled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			res, err := sim.New(sim.DefaultConfig(), integrators.NewRK4()).Run(cctx, hopping, onsite, times)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res).To(BeNil())
		})
	})
})

var _ = Describe("Benchmark", func() {
	It("times one run per worker count", func() {
		times := grid(0, 1, 11)
		results, err := sim.Benchmark(context.Background(), lattice.Uniform(8, 1), lattice.Uniform(8, 0.5), times, []int{1, 2, 4})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for i, w := range []int{1, 2, 4} {
			Expect(results[i].Workers).To(Equal(w))
			Expect(results[i].Steps).To(Equal(10))
		}
	})

	It("fails on an invalid worker count", func() {
		_, err := sim.Benchmark(context.Background(), lattice.Uniform(4, 1), lattice.Uniform(4, 0), grid(0, 1, 3), []int{1, 5})
		Expect(err).To(MatchError(wave.ErrInvalidPartition))
	})
})
