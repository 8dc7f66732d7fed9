package metrics

import (
	"math"

	"github.com/san-kum/tbsim/internal/wave"
)

// Spread reports the RMS distance from the central site n/2 of the most
// recently observed state.
type Spread struct {
	name string
	rms  float64
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) OnStep(step int, t float64, psi wave.State) {
	s.rms = RMSDisplacement(psi.Probabilities())
}

func (s *Spread) Value() float64 { return s.rms }

func (s *Spread) Reset() { s.rms = 0 }

// RMSDisplacement returns sqrt(Σ p_i (i - n/2)² / Σ p_i).
func RMSDisplacement(p []float64) float64 {
	center := float64(len(p) / 2)
	var sum, total float64
	for i, v := range p {
		d := float64(i) - center
		sum += v * d * d
		total += v
	}
	if total == 0 {
		return 0
	}
	return math.Sqrt(sum / total)
}
