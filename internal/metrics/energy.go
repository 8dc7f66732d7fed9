// Package metrics measures physical quantities along an evolution.
package metrics

import (
	"math"

	"github.com/san-kum/tbsim/internal/wave"
	"gonum.org/v1/gonum/mat"
)

// Expectation returns ⟨ψ|H|ψ⟩ for a real symmetric H.
func Expectation(h *mat.Dense, psi wave.State) float64 {
	re, im := psi.Split()
	n := len(psi)
	x := mat.NewVecDense(n, re)
	y := mat.NewVecDense(n, im)
	return mat.Inner(x, h, x) + mat.Inner(y, h, y)
}

// EnergyDrift tracks the largest deviation of ⟨H⟩ from its first observed
// value, relative to that value when it is nonzero and absolute otherwise.
type EnergyDrift struct {
	name          string
	h             *mat.Dense
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(h *mat.Dense) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		h:    h,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) OnStep(step int, t float64, psi wave.State) {
	if r, _ := e.h.Dims(); r != len(psi) {
		return
	}
	energy := Expectation(e.h, psi)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	drift := math.Abs(energy - e.initialEnergy)
	if e.initialEnergy != 0 {
		drift /= math.Abs(e.initialEnergy)
	}
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
