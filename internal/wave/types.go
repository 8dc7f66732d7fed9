package wave

import (
	"context"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// State holds the wavefunction amplitude at each lattice site.
type State []complex128

// FromReal embeds a real vector as a State.
func FromReal(v []float64) State {
	s := make(State, len(v))
	for i, x := range v {
		s[i] = complex(x, 0)
	}
	return s
}

// Clone returns a copy of s that shares no storage with it.
func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return false
		}
	}
	return true
}

// Probabilities returns |ψ_i|² for every site.
func (s State) Probabilities() []float64 {
	p := make([]float64, len(s))
	for i, v := range s {
		re, im := real(v), imag(v)
		p[i] = re*re + im*im
	}
	return p
}

// Norm2 returns ‖ψ‖².
func (s State) Norm2() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Sum(s.Probabilities())
}

// AddScaled returns s + alpha*other. other must have the same length as s.
func (s State) AddScaled(alpha complex128, other State) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] + alpha*other[i]
	}
	return result
}

// Split returns the real and imaginary parts of s.
func (s State) Split() (re, im []float64) {
	re = make([]float64, len(s))
	im = make([]float64, len(s))
	for i, v := range s {
		re[i], im[i] = real(v), imag(v)
	}
	return re, im
}

// Operator is a linear right-hand side f(ψ) of dψ/dt = f(ψ).
type Operator interface {
	Apply(ctx context.Context, psi State) (State, error)
	Dim() int
}

type Integrator interface {
	Step(ctx context.Context, op Operator, psi State, dt float64) (State, error)
}

// Observer receives the state held before each integration step. t is the
// time of that state, the start of the step, and psi is a copy the observer
// may keep.
type Observer interface {
	OnStep(step int, t float64, psi State)
}

// Metric accumulates a scalar over the states seen by a run.
type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}
