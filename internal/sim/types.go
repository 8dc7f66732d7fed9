package sim

import "github.com/san-kum/tbsim/internal/wave"

type Config struct {
	// Workers is the number of row blocks the operator is split into.
	Workers int
	// ValidateState aborts the run when a step produces NaN or Inf.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Workers:       1,
		ValidateState: true,
	}
}

// Result of one evolution. Distributions[t] is |ψ|² held before the
// integration step at grid index t, so Distributions[0] and Distributions[1]
// are both the initial distribution and the state reached by the last step
// appears only in Final, as raw amplitudes.
type Result struct {
	Times         []float64
	Distributions [][]float64
	Final         wave.State
	Dt            float64
	StepsTaken    int
	// NormDrift is |‖Final‖² - ‖ψ(0)‖²|.
	NormDrift float64
	Metrics   map[string]float64
}
