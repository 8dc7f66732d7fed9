// Package lattice assembles the tight-binding operator and starting
// wavefunction for a 1-D chain of sites.
package lattice

import (
	"fmt"

	"github.com/san-kum/tbsim/internal/wave"
	"gonum.org/v1/gonum/mat"
)

// NewHamiltonian returns the dense N×N tridiagonal matrix with onsite[i] on
// the diagonal and hopping[i] on both the (i, i+1) and (i+1, i) entries.
//
// N is len(onsite). hopping may hold N-1 couplings or N entries, in which
// case the trailing one has no bond to sit on and is ignored.
func NewHamiltonian(hopping, onsite []float64) (*mat.Dense, error) {
	n := len(onsite)
	if n < 1 {
		return nil, fmt.Errorf("%w: lattice needs at least one site", wave.ErrInvalidDimension)
	}
	if len(hopping) != n && len(hopping) != n-1 {
		return nil, fmt.Errorf("%w: %d hopping amplitudes for %d sites", wave.ErrInvalidDimension, len(hopping), n)
	}

	h := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		h.Set(i, i, onsite[i])
		if i+1 < n {
			h.Set(i, i+1, hopping[i])
			h.Set(i+1, i, hopping[i])
		}
	}
	return h, nil
}

// Uniform returns a length-n vector filled with v.
func Uniform(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
