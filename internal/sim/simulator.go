// Package sim drives the time evolution of a lattice wavefunction across a
// sampled time grid.
package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/tbsim/internal/compute"
	"github.com/san-kum/tbsim/internal/lattice"
	"github.com/san-kum/tbsim/internal/wave"
)

type Simulator struct {
	cfg        Config
	integrator wave.Integrator
	metrics    []wave.Metric
	observers  []wave.Observer
}

func New(cfg Config, integrator wave.Integrator) *Simulator {
	return &Simulator{
		cfg:        cfg,
		integrator: integrator,
		metrics:    make([]wave.Metric, 0),
		observers:  make([]wave.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m wave.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o wave.Observer) { s.observers = append(s.observers, o) }

// Run evolves the centrally localized state under the chain Hamiltonian
// built from hopping and onsite. The step size is times[1]-times[0] and is
// assumed uniform. One integration step is taken per grid point after the
// first; nothing is returned if any step fails.
func (s *Simulator) Run(ctx context.Context, hopping, onsite, times []float64) (*Result, error) {
	if err := ValidateTimes(times); err != nil {
		return nil, err
	}

	h, err := lattice.NewHamiltonian(hopping, onsite)
	if err != nil {
		return nil, err
	}
	op, err := compute.NewApplicator(h, s.cfg.Workers)
	if err != nil {
		return nil, err
	}

	n := len(onsite)
	dt := times[1] - times[0]
	x := lattice.Localized(n)
	initialNorm := x.Norm2()

	result := &Result{
		Times:         append([]float64(nil), times...),
		Distributions: make([][]float64, len(times)),
		Dt:            dt,
		Metrics:       make(map[string]float64),
	}
	result.Distributions[0] = x.Probabilities()

	for _, m := range s.metrics {
		m.Reset()
	}

	for i := 1; i < len(times); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// x is still the state at times[i-1].
		t := times[i-1]
		result.Distributions[i] = x.Probabilities()
		for _, m := range s.metrics {
			m.OnStep(i, t, x)
		}
		if len(s.observers) > 0 {
			snap := x.Clone()
			for _, obs := range s.observers {
				obs.OnStep(i, t, snap)
			}
		}

		next, err := s.integrator.Step(ctx, op, x, dt)
		if err != nil {
			return nil, &wave.StepError{Step: i, Time: t, Err: err}
		}
		if s.cfg.ValidateState && !next.IsValid() {
			return nil, &wave.StepError{Step: i, Time: t, Err: wave.ErrInvalidState}
		}

		x = next
		result.StepsTaken++
	}

	result.Final = x
	result.NormDrift = math.Abs(x.Norm2() - initialNorm)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

// ValidateTimes checks that the grid has at least two points and is
// strictly increasing.
func ValidateTimes(times []float64) error {
	if len(times) < 2 {
		return fmt.Errorf("%w: need at least 2 sample times, got %d", wave.ErrInvalidTimeGrid, len(times))
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			return fmt.Errorf("%w: times[%d]=%g does not exceed times[%d]=%g", wave.ErrInvalidTimeGrid, i, times[i], i-1, times[i-1])
		}
	}
	return nil
}
